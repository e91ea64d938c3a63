package detect

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/denis007d/conab/internal/layout"
)

// ErrRegionOutOfBounds indicates that a configured column rectangle does not
// fit inside the normalized image. The caller is expected to skip the region
// (contributing zero candidates) rather than abort: templates evolve
// independently of scan quality, and a stale rectangle should not kill a run.
var ErrRegionOutOfBounds = errors.New("region outside image bounds")

// Params holds the circle detector and validator tuning.
type Params struct {
	// MinRadius and MaxRadius bound the bubble radius searched, in pixels at
	// the reference resolution.
	MinRadius int `json:"min_radius" mapstructure:"min_radius"`
	MaxRadius int `json:"max_radius" mapstructure:"max_radius"`

	// MinDist is the minimum distance between accepted circle centers within
	// a region; closer detections are treated as duplicates of one bubble.
	MinDist int `json:"min_dist" mapstructure:"min_dist"`

	// EdgeThreshold is the grayscale gradient magnitude above which a pixel
	// counts as an edge.
	EdgeThreshold float64 `json:"edge_threshold" mapstructure:"edge_threshold"`

	// AccumulatorRatio is the fraction of a circle's expected edge support
	// required to accept a center. Lower values detect fainter outlines at
	// the cost of false positives.
	AccumulatorRatio float64 `json:"accumulator_ratio" mapstructure:"accumulator_ratio"`

	// DarknessThreshold is the maximum mean intensity (0-255) inside a
	// candidate disk for it to count as a filled mark rather than a printed
	// outline.
	DarknessThreshold float64 `json:"darkness_threshold" mapstructure:"darkness_threshold"`
}

// DefaultParams returns the tuning used for sheets scanned at the reference
// resolution.
func DefaultParams() Params {
	return Params{
		MinRadius:         8,
		MaxRadius:         14,
		MinDist:           20,
		EdgeThreshold:     30,
		AccumulatorRatio:  0.6,
		DarknessThreshold: 120,
	}
}

// Candidate is a detected circular feature in absolute image coordinates,
// tagged with the column region it was found in.
type Candidate struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Radius int `json:"radius"`
	Column int `json:"column"`

	// Confidence is the fraction of the expected circumference support that
	// voted for this center, capped at 1.0.
	Confidence float64 `json:"confidence"`
}

// DetectRegion finds circular features inside one column rectangle of the
// normalized buffer using a Hough circle transform, and returns them in
// absolute image coordinates.
//
// # Algorithm
//
//  1. Edge Detection: gradient thresholding over the region interior.
//  2. Accumulator Voting: for each radius in [MinRadius, MaxRadius], every
//     edge pixel votes for potential centers every 10° around itself.
//  3. Peak Detection: accumulator cells with at least
//     AccumulatorRatio * 2 * radius votes that are local maxima become
//     candidates.
//  4. Duplicate Removal: candidates are sorted by confidence (ties broken by
//     position, keeping the result deterministic) and centers closer than
//     MinDist to an already-accepted candidate are discarded.
//
// A bubble straddling the region boundary may be missed or detected twice by
// neighboring regions; the mapper's at-most-one-answer-per-question policy
// absorbs the double detection.
func DetectRegion(img *image.Gray, region layout.Region, column int, p Params) ([]Candidate, error) {
	bounds := img.Bounds()
	if region.X < bounds.Min.X || region.Y < bounds.Min.Y ||
		region.X+region.W > bounds.Max.X || region.Y+region.H > bounds.Max.Y {
		return nil, fmt.Errorf("%w: column %d rect (%d,%d %dx%d) vs image %dx%d",
			ErrRegionOutOfBounds, column, region.X, region.Y, region.W, region.H,
			bounds.Dx(), bounds.Dy())
	}

	edges := regionEdges(img, region, p.EdgeThreshold)

	candidates := make([]Candidate, 0)
	for radius := p.MinRadius; radius <= p.MaxRadius; radius++ {
		accumulator := make([][]int, region.H)
		for y := range accumulator {
			accumulator[y] = make([]int, region.W)
		}

		for y := 0; y < region.H; y++ {
			for x := 0; x < region.W; x++ {
				if !edges[y][x] {
					continue
				}
				for angle := 0; angle < 360; angle += 10 {
					rad := float64(angle) * math.Pi / 180
					cx := x - int(float64(radius)*math.Cos(rad))
					cy := y - int(float64(radius)*math.Sin(rad))
					if cx >= 0 && cx < region.W && cy >= 0 && cy < region.H {
						accumulator[cy][cx]++
					}
				}
			}
		}

		threshold := int(float64(2*radius) * p.AccumulatorRatio)
		for y := radius; y < region.H-radius; y++ {
			for x := radius; x < region.W-radius; x++ {
				votes := accumulator[y][x]
				if votes < threshold {
					continue
				}
				if !isLocalMax(accumulator, x, y, region.W, region.H) {
					continue
				}
				candidates = append(candidates, Candidate{
					X:          region.X + x,
					Y:          region.Y + y,
					Radius:     radius,
					Column:     column,
					Confidence: math.Min(float64(votes)/float64(2*radius), 1.0),
				})
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		if candidates[i].Y != candidates[j].Y {
			return candidates[i].Y < candidates[j].Y
		}
		return candidates[i].X < candidates[j].X
	})

	return dedupe(candidates, p.MinDist), nil
}

// regionEdges marks gradient edges within a region of the buffer. The
// returned grid is region-relative; border pixels are never edges.
func regionEdges(img *image.Gray, region layout.Region, threshold float64) [][]bool {
	edges := make([][]bool, region.H)
	for y := range edges {
		edges[y] = make([]bool, region.W)
	}

	for y := 0; y < region.H-1; y++ {
		for x := 0; x < region.W-1; x++ {
			c := float64(img.GrayAt(region.X+x, region.Y+y).Y)
			dx := math.Abs(c - float64(img.GrayAt(region.X+x+1, region.Y+y).Y))
			dy := math.Abs(c - float64(img.GrayAt(region.X+x, region.Y+y+1).Y))
			if (dx > threshold || dy > threshold) && x > 0 && y > 0 {
				edges[y][x] = true
			}
		}
	}

	return edges
}

// isLocalMax reports whether the accumulator cell dominates its 11x11
// neighborhood.
func isLocalMax(accumulator [][]int, x, y, w, h int) bool {
	for dy := -5; dy <= 5; dy++ {
		for dx := -5; dx <= 5; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx >= 0 && nx < w && ny >= 0 && ny < h && accumulator[ny][nx] > accumulator[y][x] {
				return false
			}
		}
	}
	return true
}

// dedupe drops candidates whose center lies within minDist of an
// already-kept candidate. Input must be sorted best-first.
func dedupe(candidates []Candidate, minDist int) []Candidate {
	kept := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		duplicate := false
		for _, k := range kept {
			if math.Hypot(float64(c.X-k.X), float64(c.Y-k.Y)) < float64(minDist) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, c)
		}
	}
	return kept
}
