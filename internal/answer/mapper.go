package answer

import (
	"sort"

	"github.com/denis007d/conab/internal/detect"
	"github.com/denis007d/conab/internal/layout"
)

// DefaultTolerance is the maximum pixel distance, inclusive, between a mark
// center and a reference point for them to match.
const DefaultTolerance = 30.0

// Map is the engine's output: question number (1-based) to the chosen
// alternative letter. A question is present only when a mark was confidently
// resolved to it; absence means "no mark detected", never an error.
type Map map[int]string

// Questions returns the answered question numbers in ascending order.
func (m Map) Questions() []int {
	qs := make([]int, 0, len(m))
	for q := range m {
		qs = append(qs, q)
	}
	sort.Ints(qs)
	return qs
}

// Resolve maps validated marks onto the reference grid.
//
// Each mark matches the nearest reference point, provided the Euclidean
// distance is within the tolerance (inclusive). Marks farther than the
// tolerance from every point are dropped. When two marks resolve to the same
// question number, the first-processed mark wins and later ones are silently
// dropped; since marks arrive in detector emission order (columns left to
// right, strongest detection first within a column), this keeps a
// double-detected bubble from flapping between alternatives. The
// first-processed-wins policy is deliberate and covered by tests; changing
// it to best-distance-wins changes observable results on over-marked sheets.
func Resolve(marks []detect.Candidate, grid *layout.Grid, tolerance float64) Map {
	answers := make(Map)

	for _, mark := range marks {
		ref, dist, ok := grid.Nearest(float64(mark.X), float64(mark.Y))
		if !ok || dist > tolerance {
			continue
		}
		if _, taken := answers[ref.Question]; taken {
			continue
		}
		answers[ref.Question] = ref.Alternative
	}

	return answers
}
