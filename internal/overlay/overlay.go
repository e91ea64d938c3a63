package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/denis007d/conab/internal/answer"
	"github.com/denis007d/conab/internal/detect"
	"github.com/denis007d/conab/internal/layout"
)

// Palette holds the overlay drawing colors as hex strings, so they can come
// straight from configuration or flags.
type Palette struct {
	Reference string
	Mark      string
	Answer    string
}

// DefaultPalette uses blue reference points, red raw marks, and green
// resolved answers.
func DefaultPalette() Palette {
	return Palette{
		Reference: "#2D6CDF",
		Mark:      "#D62828",
		Answer:    "#2A9D3A",
	}
}

// Render draws the grid's reference points as crosses, every detected mark as
// a circle outline, and each resolved answer as a labeled circle, on top of
// the normalized sheet.
func Render(normalized *image.Gray, grid *layout.Grid, marks []detect.Candidate, answers answer.Map, pal Palette) (*image.RGBA, error) {
	refColor, err := parseHex(pal.Reference)
	if err != nil {
		return nil, fmt.Errorf("reference color: %w", err)
	}
	markColor, err := parseHex(pal.Mark)
	if err != nil {
		return nil, fmt.Errorf("mark color: %w", err)
	}
	answerColor, err := parseHex(pal.Answer)
	if err != nil {
		return nil, fmt.Errorf("answer color: %w", err)
	}

	bounds := normalized.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, normalized, bounds.Min, draw.Src)

	for _, p := range grid.Points() {
		drawCross(out, p.X, p.Y, 3, refColor)
	}

	for _, m := range marks {
		c := markColor
		if alt, ok := answers[questionAt(grid, m)]; ok && alt != "" {
			c = answerColor
		}
		drawCircleOutline(out, m.X, m.Y, m.Radius, c)
		drawCircleOutline(out, m.X, m.Y, m.Radius+1, c)
	}

	// Label answered questions next to the first alternative of their row.
	for _, p := range grid.Points() {
		alt, ok := answers[p.Question]
		if !ok || p.Alternative != alt {
			continue
		}
		drawLabel(out, p.X-4, p.Y-16, fmt.Sprintf("%d%s", p.Question, alt), answerColor)
	}

	return out, nil
}

// WritePNG encodes the overlay to a file.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create overlay file: %w", err)
	}
	defer f.Close()
	return Encode(f, img)
}

// Encode writes the overlay as PNG.
func Encode(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode overlay: %w", err)
	}
	return nil
}

// questionAt resolves which question a mark would map to, ignoring tolerance;
// used only to color marks that contributed an answer differently.
func questionAt(grid *layout.Grid, m detect.Candidate) int {
	ref, _, ok := grid.Nearest(float64(m.X), float64(m.Y))
	if !ok {
		return 0
	}
	return ref.Question
}

// parseHex converts "#RRGGBB" into an opaque RGBA color.
func parseHex(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

func drawCross(img *image.RGBA, cx, cy, arm int, c color.RGBA) {
	for d := -arm; d <= arm; d++ {
		setIfInside(img, cx+d, cy, c)
		setIfInside(img, cx, cy+d, c)
	}
}

// drawCircleOutline plots a circle with the midpoint algorithm.
func drawCircleOutline(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	x := radius
	y := 0
	err := 0

	for x >= y {
		setIfInside(img, cx+x, cy+y, c)
		setIfInside(img, cx+y, cy+x, c)
		setIfInside(img, cx-y, cy+x, c)
		setIfInside(img, cx-x, cy+y, c)
		setIfInside(img, cx-x, cy-y, c)
		setIfInside(img, cx-y, cy-x, c)
		setIfInside(img, cx+y, cy-x, c)
		setIfInside(img, cx+x, cy-y, c)

		if err <= 0 {
			y++
			err += 2*y + 1
		}
		if err > 0 {
			x--
			err -= 2*x + 1
		}
	}
}

func setIfInside(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.Set(x, y, c)
	}
}
