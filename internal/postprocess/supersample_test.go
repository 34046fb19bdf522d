package postprocess

import (
	"image"
	"image/color"
	"testing"
)

func TestDownsampleKeepsFlatColour(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	c := color.NRGBA{R: 40, G: 120, B: 200, A: 255}
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			src.SetNRGBA(x, y, c)
		}
	}
	out := Downsample(src, 4, 3)
	if out.Bounds().Dx() != 4 || out.Bounds().Dy() != 3 {
		t.Fatalf("expected 4x3, got %v", out.Bounds())
	}
	got := out.NRGBAAt(2, 1)
	for i, pair := range [][2]uint8{{got.R, c.R}, {got.G, c.G}, {got.B, c.B}, {got.A, c.A}} {
		if d := int(pair[0]) - int(pair[1]); d < -1 || d > 1 {
			t.Errorf("channel %d: expected %d, got %d", i, pair[1], pair[0])
		}
	}
}

func TestDownsampleNoopWhenSmall(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	if out := Downsample(src, 8, 8); out != src {
		t.Error("expected the same image back")
	}
}

func TestDownsampleTransparentEdges(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 2; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	out := Downsample(src, 2, 2)
	if got := out.NRGBAAt(0, 0); got.R < 250 {
		t.Errorf("expected opaque red to survive, got %v", got)
	}
}
