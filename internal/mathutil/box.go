package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Box is an axis-aligned bounding box. The zero value is not empty;
// start from EmptyBox and grow it with Extend.
type Box struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// EmptyBox returns an inverted box that any Extend call replaces.
func EmptyBox() Box {
	inf := math.Inf(1)
	return Box{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether no point has been added.
func (b Box) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Extend returns the box grown to include p.
func (b Box) Extend(p mgl64.Vec3) Box {
	for k := 0; k < 3; k++ {
		if p[k] < b.Min[k] {
			b.Min[k] = p[k]
		}
		if p[k] > b.Max[k] {
			b.Max[k] = p[k]
		}
	}
	return b
}

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	if o.IsEmpty() {
		return b
	}
	return b.Extend(o.Min).Extend(o.Max)
}

// Size returns the extents along each axis (zero for an empty box).
func (b Box) Size() mgl64.Vec3 {
	if b.IsEmpty() {
		return mgl64.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint (origin for an empty box).
func (b Box) Center() mgl64.Vec3 {
	if b.IsEmpty() {
		return mgl64.Vec3{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

// MaxExtent returns the largest of the three extents.
func (b Box) MaxExtent() float64 {
	s := b.Size()
	return math.Max(s[0], math.Max(s[1], s[2]))
}
