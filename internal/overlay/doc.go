// Package overlay renders diagnostic images: the reference grid, detected
// marks, and resolved answers drawn over the normalized sheet.
//
// Reference points are drawn as crosses, raw marks as circle outlines, and
// marks that contributed an answer in the answer color with a small
// question-and-letter label next to the chosen bubble. The output is a tuning
// aid for template geometry and detector parameters, not part of the answer
// contract.
package overlay
