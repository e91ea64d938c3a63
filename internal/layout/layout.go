package layout

// Region is an axis-aligned rectangle in pixel coordinates, with (X, Y) at the
// top-left corner.
type Region struct {
	X int `json:"x" mapstructure:"x"`
	Y int `json:"y" mapstructure:"y"`
	W int `json:"w" mapstructure:"w"`
	H int `json:"h" mapstructure:"h"`
}

// Alternatives lists the answer letters in left-to-right print order.
var Alternatives = []string{"A", "B", "C", "D", "E"}

// Config describes the fixed geometry of an answer-sheet template at its
// reference resolution. It is built once (usually from configuration) and
// shared read-only by every component; nothing mutates it after construction.
//
// All distances are in pixels at the reference resolution:
//   - Columns are the question-block rectangles, left to right.
//   - QuestionSpacing is the vertical distance between consecutive question rows.
//   - AlternativeSpacing is the horizontal distance between consecutive bubbles
//     within a row; the first alternative sits at the column's left edge.
//   - FirstQuestionOffset is the vertical distance from the column top to the
//     first question row.
type Config struct {
	Width  int `json:"width" mapstructure:"width"`
	Height int `json:"height" mapstructure:"height"`

	Columns []Region `json:"columns" mapstructure:"columns"`

	QuestionSpacing     int `json:"question_spacing" mapstructure:"question_spacing"`
	AlternativeSpacing  int `json:"alternative_spacing" mapstructure:"alternative_spacing"`
	FirstQuestionOffset int `json:"first_question_offset" mapstructure:"first_question_offset"`

	// MaxQuestionsPerColumn caps how many rows a column can physically hold.
	MaxQuestionsPerColumn int `json:"max_questions_per_column" mapstructure:"max_questions_per_column"`
}

// Capacity returns the maximum number of questions the template can hold.
func (c Config) Capacity() int {
	return len(c.Columns) * c.MaxQuestionsPerColumn
}
