// Package engine wires the detection pipeline together: normalize the sheet,
// detect circles per column region, validate marks, and resolve them against
// the reference grid.
//
// An Engine holds only immutable configuration and a logger, so one instance
// serves concurrent Process calls; every call owns its buffers and
// intermediate candidate lists exclusively. Column regions are detected in
// parallel but assembled in column order, keeping results identical to a
// sequential left-to-right pass.
//
// Decode failure is the only fatal error a run can produce. A region whose
// rectangle falls outside the normalized image is skipped with a warning,
// and a sheet with no detectable marks yields an empty answer map.
package engine
