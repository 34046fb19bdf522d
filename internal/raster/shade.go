package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"posecam/internal/lighting"
)

// sRGB byte → linear lookup.
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

const invGamma = 1.0 / 2.2

// ACESTonemap applies ACES filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

// FaceShade returns the linear RGB light arriving at a face with world
// normal n and centroid c. Faces are lit from both sides.
func FaceShade(rig *lighting.Rig, n, c mgl64.Vec3) mgl64.Vec3 {
	ar, ag, ab := rig.AmbientColor.LinearRgb()
	out := mgl64.Vec3{ar, ag, ab}.Mul(rig.AmbientIntensity)

	hemi := ((1.0-math.Abs(n[1]))*0.5 + 0.5) * rig.Hemi
	out = out.Add(mgl64.Vec3{hemi, hemi, hemi})

	p := rig.Point
	toLight := p.Position.Sub(c)
	d := toLight.Len()
	if d > 1e-9 && p.Intensity > 0 {
		ndl := math.Abs(n.Dot(toLight.Mul(1 / d)))
		k := ndl * p.Intensity * p.Attenuation(d)
		r, g, b := p.Color.LinearRgb()
		out = out.Add(mgl64.Vec3{r, g, b}.Mul(k))
	}
	return out
}

func encode(linear, shade, exposure float64) uint8 {
	return clamp255(math.Pow(ACESTonemap(linear*shade*exposure), invGamma) * 255)
}

func clamp255(v float64) uint8 {
	if v < 0 || v != v {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
