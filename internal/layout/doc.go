// Package layout models the fixed geometry of an answer-sheet template and
// precomputes the reference grid: the expected pixel position of every
// (question, alternative) bubble for a given question count.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner of
// the sheet at its reference resolution; X increases rightward and Y downward.
// The grid and the normalized image must share this coordinate system exactly,
// or distance matching degrades silently.
//
// # Column Remainder Distribution
//
// A sheet has a fixed set of columns but a variable question count per exam.
// Questions fill columns evenly; when the count does not divide evenly, the
// leftmost columns each take one extra question. Global question numbers run
// top-to-bottom within a column, then continue in the next column.
//
// # Thread Safety
//
// Config and Grid are immutable after construction and safe for concurrent
// reads.
package layout
