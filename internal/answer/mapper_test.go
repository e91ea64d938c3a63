package answer

import (
	"reflect"
	"testing"

	"github.com/denis007d/conab/internal/detect"
	"github.com/denis007d/conab/internal/layout"
)

func testGrid(t *testing.T, totalQuestions int) *layout.Grid {
	t.Helper()
	cfg := layout.Config{
		Width:  800,
		Height: 600,
		Columns: []layout.Region{
			{X: 50, Y: 40, W: 120, H: 520},
			{X: 200, Y: 40, W: 120, H: 520},
			{X: 350, Y: 40, W: 120, H: 520},
			{X: 500, Y: 40, W: 120, H: 520},
			{X: 650, Y: 40, W: 120, H: 520},
		},
		QuestionSpacing:       20,
		AlternativeSpacing:    25,
		FirstQuestionOffset:   10,
		MaxQuestionsPerColumn: 25,
	}
	grid, err := layout.BuildGrid(cfg, totalQuestions)
	if err != nil {
		t.Fatalf("BuildGrid failed: %v", err)
	}
	return grid
}

func TestResolve_SingleMark(t *testing.T) {
	grid := testGrid(t, 60)

	// Question 1, alternative B sits at (50+25, 40+10) = (75, 50).
	marks := []detect.Candidate{{X: 77, Y: 48, Radius: 10, Column: 0}}

	got := Resolve(marks, grid, DefaultTolerance)
	want := Map{1: "B"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
}

func TestResolve_ToleranceBoundary(t *testing.T) {
	grid := testGrid(t, 60)

	// A(Q1) is at (50, 50). Vertical displacement keeps the nearest point
	// unambiguous while exercising the distance gate.
	cases := []struct {
		name string
		y    int
		want int
	}{
		{"exactly at tolerance", 50 - 30, 1},
		{"one past tolerance", 50 - 31, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			marks := []detect.Candidate{{X: 50, Y: tc.y, Radius: 10}}
			got := Resolve(marks, grid, DefaultTolerance)
			if len(got) != tc.want {
				t.Errorf("got %v, want %d answers", got, tc.want)
			}
			if tc.want == 1 && got[1] != "A" {
				t.Errorf("got %v, want question 1 = A", got)
			}
		})
	}
}

func TestResolve_FirstMarkWins(t *testing.T) {
	grid := testGrid(t, 60)

	// Two marks both resolve to question 1: one near A, one near C.
	nearA := detect.Candidate{X: 51, Y: 50}
	nearC := detect.Candidate{X: 99, Y: 50}

	got := Resolve([]detect.Candidate{nearA, nearC}, grid, DefaultTolerance)
	if got[1] != "A" {
		t.Errorf("first mark should win: got %v", got)
	}

	got = Resolve([]detect.Candidate{nearC, nearA}, grid, DefaultTolerance)
	if got[1] != "C" {
		t.Errorf("first mark should win after reorder: got %v", got)
	}
}

func TestResolve_MultipleColumns(t *testing.T) {
	grid := testGrid(t, 60)

	// With 60 questions, columns hold 12 each: question 13 is row 0 of
	// column 1, so its D bubble sits at (200+3*25, 40+10) = (275, 50).
	marks := []detect.Candidate{
		{X: 75, Y: 50, Column: 0},  // Q1 B
		{X: 52, Y: 71, Column: 0},  // Q2 A, one row down
		{X: 274, Y: 52, Column: 1}, // Q13 D
	}

	got := Resolve(marks, grid, DefaultTolerance)
	want := Map{1: "B", 2: "A", 13: "D"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
}

func TestResolve_NoMarks(t *testing.T) {
	grid := testGrid(t, 60)

	got := Resolve(nil, grid, DefaultTolerance)
	if len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestMap_Questions(t *testing.T) {
	m := Map{14: "E", 1: "A", 7: "C"}
	got := m.Questions()
	want := []int{1, 7, 14}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Questions() = %v, want %v", got, want)
	}
}
