package detect

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/denis007d/conab/internal/layout"
)

// whiteGray builds an all-white grayscale buffer.
func whiteGray(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

// drawDisk fills a solid disk with the given intensity.
func drawDisk(img *image.Gray, cx, cy, r int, value uint8) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r && image.Pt(x, y).In(img.Bounds()) {
				img.Pix[y*img.Stride+x] = value
			}
		}
	}
}

// drawRing draws only the circle boundary, leaving the interior untouched.
func drawRing(img *image.Gray, cx, cy, r int, value uint8) {
	for angle := 0.0; angle < 360; angle += 0.5 {
		rad := angle * math.Pi / 180
		x := cx + int(float64(r)*math.Cos(rad))
		y := cy + int(float64(r)*math.Sin(rad))
		if image.Pt(x, y).In(img.Bounds()) {
			img.Pix[y*img.Stride+x] = value
		}
	}
}

func TestDetectRegion_SingleDisk(t *testing.T) {
	img := whiteGray(200, 200)
	drawDisk(img, 100, 100, 10, 0)

	region := layout.Region{X: 20, Y: 20, W: 160, H: 160}
	candidates, err := DetectRegion(img, region, 0, DefaultParams())
	if err != nil {
		t.Fatalf("DetectRegion failed: %v", err)
	}
	if len(candidates) == 0 {
		t.Fatal("expected at least one candidate for a solid disk")
	}

	best := candidates[0]
	if math.Hypot(float64(best.X-100), float64(best.Y-100)) > 4 {
		t.Errorf("best candidate at (%d,%d), want near (100,100)", best.X, best.Y)
	}
	if best.Radius < 8 || best.Radius > 14 {
		t.Errorf("radius %d outside configured bounds [8,14]", best.Radius)
	}
	if best.Column != 0 {
		t.Errorf("candidate column %d, want 0", best.Column)
	}
}

func TestDetectRegion_AbsoluteCoordinates(t *testing.T) {
	img := whiteGray(300, 200)
	drawDisk(img, 220, 120, 10, 0)

	// Region origin far from (0,0): returned centers must be absolute.
	region := layout.Region{X: 160, Y: 60, W: 120, H: 120}
	candidates, err := DetectRegion(img, region, 3, DefaultParams())
	if err != nil {
		t.Fatalf("DetectRegion failed: %v", err)
	}
	if len(candidates) == 0 {
		t.Fatal("expected a candidate")
	}

	best := candidates[0]
	if math.Hypot(float64(best.X-220), float64(best.Y-120)) > 4 {
		t.Errorf("candidate at (%d,%d), want near absolute (220,120)", best.X, best.Y)
	}
	if best.Column != 3 {
		t.Errorf("candidate column %d, want 3", best.Column)
	}
}

func TestDetectRegion_MinDistDeduplicates(t *testing.T) {
	img := whiteGray(200, 200)
	drawDisk(img, 100, 100, 10, 0)

	region := layout.Region{X: 20, Y: 20, W: 160, H: 160}
	candidates, err := DetectRegion(img, region, 0, DefaultParams())
	if err != nil {
		t.Fatalf("DetectRegion failed: %v", err)
	}

	// One physical bubble must not yield two candidates within MinDist.
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			d := math.Hypot(float64(candidates[i].X-candidates[j].X), float64(candidates[i].Y-candidates[j].Y))
			if d < 20 {
				t.Errorf("candidates %d and %d only %.1fpx apart", i, j, d)
			}
		}
	}
}

func TestDetectRegion_TwoDisks(t *testing.T) {
	img := whiteGray(200, 200)
	drawDisk(img, 70, 70, 10, 0)
	drawDisk(img, 130, 130, 10, 0)

	region := layout.Region{X: 20, Y: 20, W: 160, H: 160}
	candidates, err := DetectRegion(img, region, 0, DefaultParams())
	if err != nil {
		t.Fatalf("DetectRegion failed: %v", err)
	}
	if len(candidates) < 2 {
		t.Fatalf("expected two candidates, got %d", len(candidates))
	}

	foundA, foundB := false, false
	for _, c := range candidates {
		if math.Hypot(float64(c.X-70), float64(c.Y-70)) <= 4 {
			foundA = true
		}
		if math.Hypot(float64(c.X-130), float64(c.Y-130)) <= 4 {
			foundB = true
		}
	}
	if !foundA || !foundB {
		t.Errorf("missing disk: first=%v second=%v", foundA, foundB)
	}
}

func TestDetectRegion_EmptyRegion(t *testing.T) {
	img := whiteGray(200, 200)

	region := layout.Region{X: 20, Y: 20, W: 160, H: 160}
	candidates, err := DetectRegion(img, region, 0, DefaultParams())
	if err != nil {
		t.Fatalf("DetectRegion failed: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected no candidates on blank paper, got %d", len(candidates))
	}
}

func TestDetectRegion_OutOfBounds(t *testing.T) {
	img := whiteGray(100, 100)

	cases := []layout.Region{
		{X: 50, Y: 50, W: 100, H: 20}, // overflows right
		{X: 10, Y: 90, W: 20, H: 20},  // overflows bottom
		{X: -5, Y: 10, W: 20, H: 20},  // negative origin
	}
	for _, region := range cases {
		_, err := DetectRegion(img, region, 0, DefaultParams())
		if !errors.Is(err, ErrRegionOutOfBounds) {
			t.Errorf("region %+v: error %v does not wrap ErrRegionOutOfBounds", region, err)
		}
	}
}

func TestMeanDiskIntensity(t *testing.T) {
	img := whiteGray(100, 100)
	if mean := MeanDiskIntensity(img, 50, 50, 10); mean != 255 {
		t.Errorf("white disk mean %f, want 255", mean)
	}

	drawDisk(img, 50, 50, 12, 0)
	if mean := MeanDiskIntensity(img, 50, 50, 10); mean != 0 {
		t.Errorf("black disk mean %f, want 0", mean)
	}
}

func TestIsMarked(t *testing.T) {
	img := whiteGray(100, 100)
	drawDisk(img, 30, 30, 11, 20)  // filled bubble
	drawRing(img, 70, 70, 10, 20)  // printed outline only

	p := DefaultParams()
	filled := Candidate{X: 30, Y: 30, Radius: 10}
	outline := Candidate{X: 70, Y: 70, Radius: 10}

	if !IsMarked(img, filled, p.DarknessThreshold) {
		t.Error("filled bubble should pass the darkness gate")
	}
	if IsMarked(img, outline, p.DarknessThreshold) {
		t.Error("printed outline should fail the darkness gate")
	}
}

func TestFilterMarked_PreservesOrder(t *testing.T) {
	img := whiteGray(200, 100)
	drawDisk(img, 40, 50, 11, 0)
	drawDisk(img, 160, 50, 11, 0)

	candidates := []Candidate{
		{X: 40, Y: 50, Radius: 10},
		{X: 100, Y: 50, Radius: 10}, // white interior, rejected
		{X: 160, Y: 50, Radius: 10},
	}

	marked := FilterMarked(img, candidates, DefaultParams().DarknessThreshold)
	if len(marked) != 2 {
		t.Fatalf("expected 2 marked candidates, got %d", len(marked))
	}
	if marked[0].X != 40 || marked[1].X != 160 {
		t.Errorf("order not preserved: got X=%d,%d", marked[0].X, marked[1].X)
	}
}
