package overlay

import (
	"image"
	"image/color"
)

// glyphs is a 3x5 pixel font covering the characters overlay labels use:
// digits and the alternative letters.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	'A': {"010", "101", "111", "101", "101"},
	'B': {"110", "101", "110", "101", "110"},
	'C': {"011", "100", "100", "100", "011"},
	'D': {"110", "101", "101", "101", "110"},
	'E': {"111", "100", "110", "100", "111"},
}

// drawLabel draws a short text label at the given position using the bitmap
// font. Characters without a glyph advance the cursor without drawing.
func drawLabel(img *image.RGBA, x, y int, text string, c color.RGBA) {
	const charWidth = 4

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					setIfInside(img, cx+col, y+row, c)
				}
			}
		}
		cx += charWidth
	}
}
