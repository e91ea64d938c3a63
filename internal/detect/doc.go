// Package detect finds filled answer bubbles in a normalized sheet buffer.
//
// Detection runs independently per column region: a Hough circle transform
// proposes circular features, and a darkness gate keeps only those whose
// interior is dark enough to be a hand-filled mark rather than the printed
// bubble outline. Candidates carry absolute image coordinates and the column
// they came from; no cross-region deduplication happens here, since resolving
// two detections of the same bubble to one answer is the mapper's job.
//
// # Limitations
//
//   - Only near-circular filled marks are found; crosses or ticks that leave
//     most of the bubble white fail the darkness gate.
//   - A mark straddling a region boundary may be missed or double-detected.
//   - Detection quality depends on the normalizer having flattened lighting;
//     the darkness threshold assumes an equalized buffer.
package detect
