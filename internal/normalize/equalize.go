package normalize

import "image"

// equalizeAdaptive performs contrast-limited adaptive histogram equalization
// on a grayscale buffer.
//
// The image is divided into grid x grid tiles. Each tile gets its own
// intensity remapping built from a clipped histogram: bins above
// clipLimit * (pixels/256) are truncated and the excess redistributed evenly,
// which bounds how much a near-uniform tile (all paper, no ink) can amplify
// noise. Per-pixel output bilinearly interpolates between the four
// surrounding tile mappings to avoid visible tile seams.
func equalizeAdaptive(src *image.Gray, grid int, clipLimit float64) *image.Gray {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	if w == 0 || h == 0 {
		return src
	}
	if grid > w {
		grid = w
	}
	if grid > h {
		grid = h
	}

	tileW := (w + grid - 1) / grid
	tileH := (h + grid - 1) / grid

	// Build one lookup table per tile.
	luts := make([][256]uint8, grid*grid)
	for ty := 0; ty < grid; ty++ {
		for tx := 0; tx < grid; tx++ {
			x0, y0 := tx*tileW, ty*tileH
			x1, y1 := min(x0+tileW, w), min(y0+tileH, h)
			luts[ty*grid+tx] = tileLUT(src, x0, y0, x1, y1, clipLimit)
		}
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		// Position of the pixel relative to tile centers, in tile units.
		fy := (float64(y) - float64(tileH)/2) / float64(tileH)
		ty0 := int(fy)
		if fy < 0 {
			ty0 = -1
		}
		wy := fy - float64(ty0)
		ty1 := ty0 + 1
		ty0 = clampInt(ty0, 0, grid-1)
		ty1 = clampInt(ty1, 0, grid-1)

		for x := 0; x < w; x++ {
			fx := (float64(x) - float64(tileW)/2) / float64(tileW)
			tx0 := int(fx)
			if fx < 0 {
				tx0 = -1
			}
			wx := fx - float64(tx0)
			tx1 := tx0 + 1
			tx0 = clampInt(tx0, 0, grid-1)
			tx1 = clampInt(tx1, 0, grid-1)

			v := src.Pix[y*src.Stride+x]
			top := (1-wx)*float64(luts[ty0*grid+tx0][v]) + wx*float64(luts[ty0*grid+tx1][v])
			bottom := (1-wx)*float64(luts[ty1*grid+tx0][v]) + wx*float64(luts[ty1*grid+tx1][v])
			out := (1-wy)*top + wy*bottom

			dst.Pix[y*dst.Stride+x] = uint8(clampInt(int(out+0.5), 0, 255))
		}
	}

	return dst
}

// tileLUT builds the clipped-equalization intensity mapping for one tile.
func tileLUT(src *image.Gray, x0, y0, x1, y1 int, clipLimit float64) [256]uint8 {
	var lut [256]uint8
	n := (x1 - x0) * (y1 - y0)
	if n <= 0 {
		for i := range lut {
			lut[i] = uint8(i)
		}
		return lut
	}

	var hist [256]int
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			hist[src.Pix[y*src.Stride+x]]++
		}
	}

	clip := int(clipLimit * float64(n) / 256)
	if clip < 1 {
		clip = 1
	}

	excess := 0
	for i := range hist {
		if hist[i] > clip {
			excess += hist[i] - clip
			hist[i] = clip
		}
	}

	// Redistribute clipped mass evenly; the few leftover counts go to the
	// lowest bins, which keeps the mapping deterministic.
	share := excess / 256
	left := excess % 256
	for i := range hist {
		hist[i] += share
		if i < left {
			hist[i]++
		}
	}

	cum := 0
	for i := range hist {
		cum += hist[i]
		lut[i] = uint8((cum*255 + n/2) / n)
	}
	return lut
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
