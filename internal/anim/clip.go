// Package anim samples keyframed clips onto scene nodes and loops a single
// selected clip. There is no blending: one clip drives the skeleton.
package anim

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"posecam/internal/mathutil"
	"posecam/internal/scene"
)

// Path names the node property a track writes.
type Path int

const (
	Translation Path = iota
	Rotation
	Scale
)

// Track is a keyframe curve for one node property. Values hold vec3 data in
// the first three components, or a quaternion as (x, y, z, w).
type Track struct {
	Node   *scene.Node
	Path   Path
	Times  []float64
	Values [][4]float64
	Step   bool
}

// Clip is a named set of tracks.
type Clip struct {
	Name     string
	Duration float64
	Tracks   []Track
}

// Apply poses every track's node at time t (seconds).
func (c *Clip) Apply(t float64) {
	for i := range c.Tracks {
		c.Tracks[i].apply(t)
	}
}

func (tr *Track) apply(t float64) {
	if tr.Node == nil || len(tr.Times) == 0 || len(tr.Values) < len(tr.Times) {
		return
	}
	v := tr.sample(t)
	switch tr.Path {
	case Translation:
		tr.Node.Translation = mgl64.Vec3{v[0], v[1], v[2]}
	case Rotation:
		tr.Node.Rotation = mathutil.QuatXYZW(v)
	case Scale:
		tr.Node.Scale = mgl64.Vec3{v[0], v[1], v[2]}
	}
}

func (tr *Track) sample(t float64) [4]float64 {
	n := len(tr.Times)
	if t <= tr.Times[0] || n == 1 {
		return tr.Values[0]
	}
	if t >= tr.Times[n-1] {
		return tr.Values[n-1]
	}
	// first key strictly after t
	hi := sort.Search(n, func(i int) bool { return tr.Times[i] > t })
	lo := hi - 1
	a, b := tr.Values[lo], tr.Values[hi]
	if tr.Step {
		return a
	}
	span := tr.Times[hi] - tr.Times[lo]
	if span <= 0 {
		return b
	}
	u := (t - tr.Times[lo]) / span

	if tr.Path == Rotation {
		q := mathutil.Slerp(mathutil.QuatXYZW(a), mathutil.QuatXYZW(b), u)
		return [4]float64{q.V[0], q.V[1], q.V[2], q.W}
	}
	return [4]float64{
		mathutil.Lerp(a[0], b[0], u),
		mathutil.Lerp(a[1], b[1], u),
		mathutil.Lerp(a[2], b[2], u),
		mathutil.Lerp(a[3], b[3], u),
	}
}
