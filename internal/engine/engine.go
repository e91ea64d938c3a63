package engine

import (
	"errors"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/denis007d/conab/internal/answer"
	"github.com/denis007d/conab/internal/config"
	"github.com/denis007d/conab/internal/detect"
	"github.com/denis007d/conab/internal/layout"
	"github.com/denis007d/conab/internal/normalize"
)

// Engine runs the mark-detection pipeline for one sheet template. It holds
// only immutable configuration, so a single Engine is safe for concurrent
// Process calls; each call owns its buffers and intermediate results
// exclusively.
type Engine struct {
	cfg config.Config
	log zerolog.Logger
}

// New creates an engine for the given configuration.
func New(cfg config.Config, logger zerolog.Logger) *Engine {
	return &Engine{cfg: cfg, log: logger}
}

// RegionStats summarizes detection in one column region.
type RegionStats struct {
	Column     int  `json:"column"`
	Candidates int  `json:"candidates"`
	Marked     int  `json:"marked"`
	Skipped    bool `json:"skipped,omitempty"`
}

// Result is everything one Process call produces. Answers is the contract
// with downstream consumers; the rest exists for diagnostics and overlay
// rendering.
type Result struct {
	RunID          string             `json:"run_id"`
	TotalQuestions int                `json:"total_questions"`
	Answers        answer.Map         `json:"answers"`
	Regions        []RegionStats      `json:"regions"`
	Elapsed        time.Duration      `json:"elapsed_ns"`
	Marks          []detect.Candidate `json:"-"`
	Normalized     *image.Gray        `json:"-"`
}

// ProcessBytes decodes an encoded image and runs the pipeline. A decode
// failure is the run's only fatal error: it is returned as-is (wrapping
// normalize.ErrDecode) with no partial result.
func (e *Engine) ProcessBytes(data []byte, totalQuestions int) (*Result, error) {
	img, err := normalize.DecodeBytes(data)
	if err != nil {
		return nil, err
	}
	return e.Process(img, totalQuestions)
}

// Process runs the pipeline on an already-decoded raster.
//
// The column regions are detected concurrently, one goroutine per region,
// but candidates are concatenated in column order so the result, including
// the mapper's first-processed-wins tie-break, is identical to a sequential
// left-to-right pass. Regions that fall outside the normalized image are
// skipped with a warning and contribute zero candidates.
func (e *Engine) Process(img image.Image, totalQuestions int) (*Result, error) {
	started := time.Now()
	runID := uuid.NewString()

	grid, err := layout.BuildGrid(e.cfg.Layout, totalQuestions)
	if err != nil {
		return nil, err
	}

	normalized := normalize.Normalize(img, e.cfg.Layout, e.cfg.Normalize)

	perRegion := make([][]detect.Candidate, len(e.cfg.Layout.Columns))
	skipped := make([]bool, len(e.cfg.Layout.Columns))

	var wg sync.WaitGroup
	for c, region := range e.cfg.Layout.Columns {
		wg.Add(1)
		go func(c int, region layout.Region) {
			defer wg.Done()
			candidates, err := detect.DetectRegion(normalized, region, c, e.cfg.Detect)
			if err != nil {
				if errors.Is(err, detect.ErrRegionOutOfBounds) {
					e.log.Warn().Str("run_id", runID).Int("column", c).Err(err).
						Msg("skipping column region")
					skipped[c] = true
					return
				}
				e.log.Error().Str("run_id", runID).Int("column", c).Err(err).
					Msg("region detection failed")
				skipped[c] = true
				return
			}
			perRegion[c] = candidates
		}(c, region)
	}
	wg.Wait()

	result := &Result{
		RunID:          runID,
		TotalQuestions: totalQuestions,
		Normalized:     normalized,
		Regions:        make([]RegionStats, len(perRegion)),
	}

	all := make([]detect.Candidate, 0)
	for c, candidates := range perRegion {
		marked := detect.FilterMarked(normalized, candidates, e.cfg.Detect.DarknessThreshold)
		all = append(all, marked...)
		result.Regions[c] = RegionStats{
			Column:     c,
			Candidates: len(candidates),
			Marked:     len(marked),
			Skipped:    skipped[c],
		}
		e.log.Debug().Str("run_id", runID).Int("column", c).
			Int("candidates", len(candidates)).Int("marked", len(marked)).
			Msg("region detected")
	}

	result.Marks = all
	result.Answers = answer.Resolve(all, grid, e.cfg.Tolerance)
	result.Elapsed = time.Since(started)

	e.log.Info().Str("run_id", runID).
		Int("total_questions", totalQuestions).
		Int("marks", len(all)).
		Int("answered", len(result.Answers)).
		Dur("elapsed", result.Elapsed).
		Msg("sheet processed")

	return result, nil
}
