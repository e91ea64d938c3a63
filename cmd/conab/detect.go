package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/denis007d/conab/internal/config"
	"github.com/denis007d/conab/internal/engine"
	"github.com/denis007d/conab/internal/layout"
	"github.com/denis007d/conab/internal/overlay"
)

var (
	detectQuestions int
	detectOverlay   string
	detectReport    bool
)

var detectCmd = &cobra.Command{
	Use:   "detect <image>",
	Short: "Detect marked answers on a scanned sheet",
	Long: `Detect runs the full pipeline on one scanned sheet image (PNG, JPEG, or GIF)
and prints the detected answers as JSON on stdout: question numbers mapped to
alternative letters. Questions with no detected mark are absent from the
output.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}

		eng := engine.New(*cfg, log.Logger)
		result, err := eng.ProcessBytes(data, detectQuestions)
		if err != nil {
			return err
		}

		if detectOverlay != "" {
			grid, err := layout.BuildGrid(cfg.Layout, detectQuestions)
			if err != nil {
				return err
			}
			img, err := overlay.Render(result.Normalized, grid, result.Marks, result.Answers, overlay.DefaultPalette())
			if err != nil {
				return err
			}
			if err := overlay.WritePNG(detectOverlay, img); err != nil {
				return err
			}
			log.Info().Str("path", detectOverlay).Msg("overlay written")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if detectReport {
			return enc.Encode(result)
		}
		return enc.Encode(result.Answers)
	},
}

func init() {
	detectCmd.Flags().IntVarP(
		&detectQuestions, "questions", "q", 60, "total number of questions on this exam variant",
	)
	detectCmd.Flags().StringVar(
		&detectOverlay, "overlay", "", "write a diagnostic overlay PNG to this path",
	)
	detectCmd.Flags().BoolVar(
		&detectReport, "report", false, "print the full run report instead of just the answers",
	)
}
