package main

import (
	"encoding/json"
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/denis007d/conab/internal/config"
	"github.com/denis007d/conab/internal/layout"
	"github.com/denis007d/conab/internal/overlay"
)

var (
	gridQuestions int
	gridOutput    string
)

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Inspect the reference grid for a question count",
	Long: `Grid prints the reference points the mapper matches against, one entry per
(question, alternative) pair, as JSON. With --output it instead renders the
points onto a blank sheet at the reference resolution, which is the quickest
way to check template geometry against a real scan.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		grid, err := layout.BuildGrid(cfg.Layout, gridQuestions)
		if err != nil {
			return err
		}

		if gridOutput == "" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(grid.Points())
		}

		blank := image.NewGray(image.Rect(0, 0, cfg.Layout.Width, cfg.Layout.Height))
		draw.Draw(blank, blank.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

		img, err := overlay.Render(blank, grid, nil, nil, overlay.DefaultPalette())
		if err != nil {
			return err
		}
		if err := overlay.WritePNG(gridOutput, img); err != nil {
			return err
		}
		log.Info().Str("path", gridOutput).Int("points", len(grid.Points())).Msg("grid rendered")
		return nil
	},
}

func init() {
	gridCmd.Flags().IntVarP(
		&gridQuestions, "questions", "q", 60, "total number of questions on this exam variant",
	)
	gridCmd.Flags().StringVarP(
		&gridOutput, "output", "o", "", "render the grid to this PNG path instead of printing JSON",
	)
}
