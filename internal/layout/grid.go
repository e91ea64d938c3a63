package layout

import (
	"fmt"
	"math"
)

// ReferencePoint is the expected pixel position of one printed bubble: the
// bubble for alternative Alternative of question Question. Column and Index
// record where the bubble sits in the sheet's column structure (column number
// and question row within that column, both 0-based).
type ReferencePoint struct {
	X int `json:"x"`
	Y int `json:"y"`

	Column      int    `json:"column"`
	Index       int    `json:"index"`
	Alternative string `json:"alternative"`

	// Question is the 1-based global question number, precomputed from the
	// column remainder distribution so lookups never redo the arithmetic.
	Question int `json:"question"`
}

// Grid is the immutable lookup table of reference points for one
// (Config, total questions) combination. It contains exactly one point per
// valid (question, alternative) pair: positions past a column's question count
// are never materialized, so matching against a Grid can never resolve to an
// out-of-range question. A Grid is safe for concurrent reads once built.
type Grid struct {
	points []ReferencePoint
	total  int
	counts []int
}

// BuildGrid computes the reference grid for a sheet template and question
// count.
//
// Questions are distributed across columns top-to-bottom, left-to-right:
// every column receives total/len(columns) questions, and the first
// total%len(columns) columns receive one extra. The five columns' counts
// always sum to the total. Bubble positions follow the template geometry:
// row q of column c sits at c.Y + FirstQuestionOffset + q*QuestionSpacing,
// and alternative i within a row at c.X + i*AlternativeSpacing.
func BuildGrid(cfg Config, totalQuestions int) (*Grid, error) {
	if len(cfg.Columns) == 0 {
		return nil, fmt.Errorf("layout has no columns")
	}
	if totalQuestions < 1 {
		return nil, fmt.Errorf("total questions must be positive, got %d", totalQuestions)
	}
	if totalQuestions > cfg.Capacity() {
		return nil, fmt.Errorf("total questions %d exceeds template capacity %d", totalQuestions, cfg.Capacity())
	}

	perColumn := totalQuestions / len(cfg.Columns)
	remainder := totalQuestions % len(cfg.Columns)

	grid := &Grid{
		total:  totalQuestions,
		counts: make([]int, len(cfg.Columns)),
		points: make([]ReferencePoint, 0, totalQuestions*len(Alternatives)),
	}

	for c, region := range cfg.Columns {
		count := perColumn
		if c < remainder {
			count++
		}
		grid.counts[c] = count

		for q := 0; q < count; q++ {
			y := region.Y + cfg.FirstQuestionOffset + q*cfg.QuestionSpacing
			question := c*perColumn + q + 1 + min(c, remainder)

			for i, alt := range Alternatives {
				grid.points = append(grid.points, ReferencePoint{
					X:           region.X + i*cfg.AlternativeSpacing,
					Y:           y,
					Column:      c,
					Index:       q,
					Alternative: alt,
					Question:    question,
				})
			}
		}
	}

	return grid, nil
}

// Points returns the grid's reference points. The returned slice is shared;
// callers must treat it as read-only.
func (g *Grid) Points() []ReferencePoint {
	return g.points
}

// TotalQuestions returns the question count the grid was built for.
func (g *Grid) TotalQuestions() int {
	return g.total
}

// QuestionsInColumn returns how many questions column c holds.
func (g *Grid) QuestionsInColumn(c int) int {
	if c < 0 || c >= len(g.counts) {
		return 0
	}
	return g.counts[c]
}

// Nearest returns the reference point closest to (x, y) and its Euclidean
// distance. ok is false only for an empty grid.
func (g *Grid) Nearest(x, y float64) (nearest ReferencePoint, dist float64, ok bool) {
	dist = math.Inf(1)
	for _, p := range g.points {
		d := math.Hypot(x-float64(p.X), y-float64(p.Y))
		if d < dist {
			dist = d
			nearest = p
			ok = true
		}
	}
	return nearest, dist, ok
}
