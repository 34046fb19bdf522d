// Package filter drops BMD geometry that should not count towards a
// model's framing volume: additive effect overlays and small stray pieces
// floating away from the body.
package filter

import (
	"path/filepath"
	"regexp"
	"strings"

	"posecam/internal/bmd"
)

// DefaultStrayVerts is the size under which a detached piece counts as
// stray when it also sits away from the main body.
const DefaultStrayVerts = 6

var gradientRE = regexp.MustCompile(`^(?:mini_)?gra(?:\d|_|$)`)

var effectWords = []string{
	"glow", "flare", "aura", "spark", "blur", "shine", "halo",
	"trail", "energy", "plasma", "effect", "gradation", "shockwave",
	"lightning", "light_blue", "light_red", "fire",
}

// flame only at the start: "box_flame_wood" is a frame texture
var effectPrefixes = []string{"flame"}

// maxEffectSpan keeps large decal quads, which are visible surfaces.
const maxEffectSpan = 20

func textureStem(path string) string {
	p := strings.ToLower(strings.ReplaceAll(path, "\\", "/"))
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsEffect reports whether m is a glow or particle overlay, judged by its
// texture name or by being a tiny quad card.
func IsEffect(m *bmd.Mesh) bool {
	stem := textureStem(m.TexPath)
	if stem != "" {
		if gradientRE.MatchString(stem) {
			return true
		}
		for _, w := range effectWords {
			if strings.Contains(stem, w) {
				return true
			}
		}
		for _, p := range effectPrefixes {
			if strings.HasPrefix(stem, p) {
				return true
			}
		}
	}

	if n := len(m.Verts); n == 0 || n > 8 || len(m.Tris) > 4 {
		return false
	}
	lo, hi := m.Verts[0], m.Verts[0]
	for _, v := range m.Verts[1:] {
		for k := range 3 {
			lo[k] = min(lo[k], v[k])
			hi[k] = max(hi[k], v[k])
		}
	}
	span := max(hi[0]-lo[0], hi[1]-lo[1], hi[2]-lo[2])
	return span <= maxEffectSpan
}

// Effects splits meshes into kept geometry and the number of effect
// overlays removed.
func Effects(meshes []bmd.Mesh) ([]bmd.Mesh, int) {
	kept := make([]bmd.Mesh, 0, len(meshes))
	for i := range meshes {
		if !IsEffect(&meshes[i]) {
			kept = append(kept, meshes[i])
		}
	}
	return kept, len(meshes) - len(kept)
}

type unionFind []int

func newUnionFind(n int) unionFind {
	u := make(unionFind, n)
	for i := range u {
		u[i] = i
	}
	return u
}

func (u unionFind) find(i int) int {
	for u[i] != i {
		u[i] = u[u[i]]
		i = u[i]
	}
	return i
}

func (u unionFind) union(a, b int) {
	if ra, rb := u.find(a), u.find(b); ra != rb {
		u[rb] = ra
	}
}

// Stray removes triangles of connected pieces smaller than minVerts whose
// centre lies further than 0.4 body spans from the largest piece's box. It
// returns the cleaned mesh (sharing vertex data with m) and the number of
// triangles removed. Meshes of at most 2·minVerts vertices are returned
// as is, since mirrored pairs of small cards are common.
func Stray(m *bmd.Mesh, minVerts int) (bmd.Mesh, int) {
	nv := len(m.Verts)
	if nv == 0 || len(m.Tris) == 0 || nv <= 2*minVerts {
		return *m, 0
	}

	u := newUnionFind(nv)
	used := make([]bool, nv)
	for _, t := range m.Tris {
		corners := t.VI[:3]
		if t.Polygon == 4 {
			corners = t.VI[:4]
		}
		first := -1
		for _, c := range corners {
			vi := int(c)
			if vi < 0 || vi >= nv {
				continue
			}
			used[vi] = true
			if first < 0 {
				first = vi
				continue
			}
			u.union(first, vi)
		}
	}

	pieces := make(map[int][]int)
	for v := range nv {
		if used[v] {
			r := u.find(v)
			pieces[r] = append(pieces[r], v)
		}
	}
	if len(pieces) <= 1 {
		return *m, 0
	}

	body := -1
	for r, vs := range pieces {
		if body < 0 || len(vs) > len(pieces[body]) || (len(vs) == len(pieces[body]) && r < body) {
			body = r
		}
	}
	lo, hi := m.Verts[pieces[body][0]], m.Verts[pieces[body][0]]
	for _, vi := range pieces[body] {
		v := m.Verts[vi]
		for k := range 3 {
			lo[k] = min(lo[k], v[k])
			hi[k] = max(hi[k], v[k])
		}
	}
	span := float64(max(hi[0]-lo[0], hi[1]-lo[1], hi[2]-lo[2]))
	reach := 0.4 * span

	drop := make(map[int]bool)
	for r, vs := range pieces {
		if r == body || len(vs) >= minVerts {
			continue
		}
		var c [3]float64
		for _, vi := range vs {
			for k := range 3 {
				c[k] += float64(m.Verts[vi][k])
			}
		}
		var d2 float64
		for k := range 3 {
			c[k] /= float64(len(vs))
			if c[k] < float64(lo[k]) {
				d2 += (float64(lo[k]) - c[k]) * (float64(lo[k]) - c[k])
			} else if c[k] > float64(hi[k]) {
				d2 += (c[k] - float64(hi[k])) * (c[k] - float64(hi[k]))
			}
		}
		if d2 >= reach*reach {
			drop[r] = true
		}
	}
	if len(drop) == 0 {
		return *m, 0
	}

	out := *m
	out.Tris = make([]bmd.Triangle, 0, len(m.Tris))
	for _, t := range m.Tris {
		vi := int(t.VI[0])
		if vi >= 0 && vi < nv && drop[u.find(vi)] {
			continue
		}
		out.Tris = append(out.Tris, t)
	}
	return out, len(m.Tris) - len(out.Tris)
}
