package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "conab",
	Short: "Answer-sheet mark detection for CONAB exam scans",
	Long: `conab locates hand-filled bubbles on a scanned answer sheet and resolves
them to question numbers and alternative letters.

The pipeline normalizes the scan to the template's reference resolution,
detects circular marks inside each answer column, validates them by darkness,
and maps each mark to the nearest reference grid position.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./conab.yaml or ~/.conab/conab.yaml)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
		// stdout carries results; logs go to stderr.
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(gridCmd)
	rootCmd.AddCommand(versionCmd)
}
