// Package answer resolves detected marks to (question, alternative) pairs
// using nearest-neighbor matching against the reference grid.
//
// A mark matches the closest grid point within an inclusive pixel tolerance;
// anything farther from every point is dropped. Each question gets at most
// one answer: when several marks resolve to the same question, the first one
// processed wins. The result is a sparse map, and an empty map is the normal
// outcome for a blank sheet, never an error.
package answer
