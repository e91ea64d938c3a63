package normalize

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"

	"github.com/denis007d/conab/internal/layout"
)

// ErrDecode indicates that the input bytes could not be interpreted as an
// image. It is the only fatal condition the pipeline produces: callers test
// for it with errors.Is and must not expect a partial result alongside it.
var ErrDecode = errors.New("cannot decode image")

// Params holds the preprocessing tuning knobs.
type Params struct {
	// BlurRadius is the Gaussian smoothing radius in pixels. Radius 2 yields
	// a 5x5 kernel, enough to suppress scan noise without eating bubble edges.
	BlurRadius float64 `json:"blur_radius" mapstructure:"blur_radius"`

	// ClipLimit bounds per-tile histogram bins during contrast enhancement,
	// relative to a uniform distribution.
	ClipLimit float64 `json:"clip_limit" mapstructure:"clip_limit"`

	// TileGrid is the number of equalization tiles per image side.
	TileGrid int `json:"tile_grid" mapstructure:"tile_grid"`
}

// DefaultParams returns the tuning used for production sheet scans.
func DefaultParams() Params {
	return Params{
		BlurRadius: 2.0,
		ClipLimit:  2.0,
		TileGrid:   8,
	}
}

// Decode reads and decodes an encoded image (PNG, JPEG, or GIF).
//
// Returns an error wrapping ErrDecode if the stream is not a valid image.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// DecodeBytes decodes an in-memory encoded image.
func DecodeBytes(data []byte) (image.Image, error) {
	return Decode(bytes.NewReader(data))
}

// Normalize converts a decoded raster of arbitrary size into the grayscale
// working buffer every downstream stage expects.
//
// Steps, in order:
//
//  1. Resize to the template's reference resolution with Lanczos resampling
//     when dimensions differ. The image is never cropped: the reference grid
//     is only meaningful if the whole sheet maps onto the whole buffer.
//  2. Convert to grayscale.
//  3. Gaussian blur to suppress scan noise.
//  4. Tile-based adaptive histogram equalization to flatten uneven lighting
//     across the sheet, so a single darkness threshold works everywhere.
//
// The result is a fresh buffer owned by the caller. Normalize is
// deterministic: the same input always yields an identical buffer.
func Normalize(src image.Image, cfg layout.Config, p Params) *image.Gray {
	img := src
	bounds := img.Bounds()
	if bounds.Dx() != cfg.Width || bounds.Dy() != cfg.Height {
		img = imaging.Resize(img, cfg.Width, cfg.Height, imaging.Lanczos)
	}

	gray := toGray(imaging.Grayscale(img))

	if p.BlurRadius > 0 {
		gray = toGray(blur.Gaussian(gray, p.BlurRadius))
	}

	if p.TileGrid > 0 && p.ClipLimit > 0 {
		gray = equalizeAdaptive(gray, p.TileGrid, p.ClipLimit)
	}

	return gray
}

// toGray flattens any image into a single-channel buffer. Inputs here are
// already gray-valued (R=G=B), so taking the red channel is exact and avoids
// re-weighting luminance a second time.
func toGray(src image.Image) *image.Gray {
	bounds := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			r, _, _, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			dst.Pix[y*dst.Stride+x] = uint8(r >> 8)
		}
	}
	return dst
}
