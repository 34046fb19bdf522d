package raster

import (
	"image"
	"math"
)

// FrameBuffer holds the render target as flat slices for cache locality.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	ZBuf   []float64 // depth per pixel, larger is closer
}

// NewFrameBuffer allocates a w×h target.
func NewFrameBuffer(w, h int) *FrameBuffer {
	fb := &FrameBuffer{}
	fb.Resize(w, h)
	return fb
}

// Resize reallocates the target when its size changes.
func (fb *FrameBuffer) Resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if fb.Width == w && fb.Height == h {
		return
	}
	fb.Width, fb.Height = w, h
	fb.Color = make([]uint8, w*h*4)
	fb.ZBuf = make([]float64, w*h)
}

// Clear fills the colour buffer with an opaque colour and resets depth.
func (fb *FrameBuffer) Clear(r, g, b uint8) {
	for i := 0; i < len(fb.Color); i += 4 {
		fb.Color[i], fb.Color[i+1], fb.Color[i+2], fb.Color[i+3] = r, g, b, 255
	}
	for i := range fb.ZBuf {
		fb.ZBuf[i] = math.Inf(-1)
	}
}

// Image copies the colour buffer into a new image.
func (fb *FrameBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}
