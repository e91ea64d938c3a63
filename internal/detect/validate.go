package detect

import "image"

// MeanDiskIntensity computes the mean grayscale intensity of the pixels
// inside the disk of the given radius centered at (cx, cy). Pixels outside
// the image bounds are excluded. Returns 255 for a degenerate disk with no
// in-bounds pixels, so such candidates always fail the darkness gate.
func MeanDiskIntensity(img *image.Gray, cx, cy, radius int) float64 {
	bounds := img.Bounds()
	sum, count := 0, 0
	rr := radius * radius

	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy > rr {
				continue
			}
			if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
				continue
			}
			sum += int(img.GrayAt(x, y).Y)
			count++
		}
	}

	if count == 0 {
		return 255
	}
	return float64(sum) / float64(count)
}

// IsMarked reports whether a candidate is a genuinely filled bubble: the mean
// intensity inside its disk must fall below the darkness threshold. A printed
// outline averages near paper white and is rejected; a pencil or pen fill
// pulls the mean well below it.
func IsMarked(img *image.Gray, c Candidate, threshold float64) bool {
	return MeanDiskIntensity(img, c.X, c.Y, c.Radius) < threshold
}

// FilterMarked returns the candidates that pass the darkness gate, preserving
// their order. Rejected candidates are discarded with no side effects.
func FilterMarked(img *image.Gray, candidates []Candidate, threshold float64) []Candidate {
	marked := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if IsMarked(img, c, threshold) {
			marked = append(marked, c)
		}
	}
	return marked
}
