// Package postprocess filters rendered frames.
package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample scales img to width×height with premultiplied-alpha
// CatmullRom filtering, so transparent edges do not pick up dark halos.
// Images already at or below the target size are returned unchanged.
func Downsample(img *image.NRGBA, width, height int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= width && b.Dy() <= height {
		return img
	}

	premul := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			si := img.PixOffset(x, y)
			di := premul.PixOffset(x, y)
			a := img.Pix[si+3]
			if a == 255 {
				copy(premul.Pix[di:di+4], img.Pix[si:si+4])
				continue
			}
			f := float64(a) / 255.0
			premul.Pix[di] = uint8(float64(img.Pix[si])*f + 0.5)
			premul.Pix[di+1] = uint8(float64(img.Pix[si+1])*f + 0.5)
			premul.Pix[di+2] = uint8(float64(img.Pix[si+2])*f + 0.5)
			premul.Pix[di+3] = a
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), premul, premul.Bounds(), draw.Src, nil)

	out := image.NewNRGBA(dst.Bounds())
	for i := 0; i < len(dst.Pix); i += 4 {
		a := dst.Pix[i+3]
		out.Pix[i+3] = a
		switch {
		case a == 255:
			copy(out.Pix[i:i+3], dst.Pix[i:i+3])
		case a > 1:
			inv := 255.0 / float64(a)
			out.Pix[i] = clamp8(float64(dst.Pix[i]) * inv)
			out.Pix[i+1] = clamp8(float64(dst.Pix[i+1]) * inv)
			out.Pix[i+2] = clamp8(float64(dst.Pix[i+2]) * inv)
		}
	}
	return out
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
