package asset

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"posecam/internal/anim"
	"posecam/internal/bmd"
	"posecam/internal/filter"
	"posecam/internal/mathutil"
	"posecam/internal/scene"
	"posecam/internal/texture"
)

func loadBMD(path, name string, opts Options) (*Model, error) {
	src, err := bmd.Parse(path)
	if err != nil {
		return nil, err
	}
	cleanBMD(src, opts)
	return FromBMD(src, name, opts.textures(path), opts), nil
}

// cleanBMD drops effect overlays and stray debris so they do not widen
// the framing volume.
func cleanBMD(src *bmd.Model, opts Options) {
	effects, stray := 0, 0
	if !opts.KeepEffects {
		src.Meshes, effects = filter.Effects(src.Meshes)
	}
	if opts.StrayVerts > 0 {
		for i := range src.Meshes {
			var n int
			src.Meshes[i], n = filter.Stray(&src.Meshes[i], opts.StrayVerts)
			stray += n
		}
	}
	if opts.Logger != nil && effects+stray > 0 {
		opts.Logger.Printf("%s: dropped %d effect meshes, %d stray triangles", src.Name, effects, stray)
	}
}

// FromBMD converts a parsed BMD model. The game is Z-up, so the root is
// rotated to Y-up. Each vertex is rigidly bound to its bone; vertex
// positions are already in bone space, so inverse bind matrices are
// identity. Every action becomes a looping clip named "Action N".
func FromBMD(src *bmd.Model, name string, textures texture.Resolver, opts Options) *Model {
	opts = opts.withDefaults()
	if src.Name != "" {
		name = src.Name
	}
	root := scene.NewNode(name)
	root.Rotation = mathutil.ModelFlip

	bones := make([]*scene.Node, len(src.Bones))
	for i := range src.Bones {
		b := &src.Bones[i]
		n := scene.NewNode(b.Name)
		if n.Name == "" {
			n.Name = fmt.Sprintf("bone_%d", i)
		}
		n.Joint = !b.Dummy
		if !b.Dummy {
			k := b.BindKey()
			n.Translation = mgl64.Vec3(k.Position)
			n.Rotation = mathutil.EulerToQuat(k.Rotation[0], k.Rotation[1], k.Rotation[2])
		}
		parent := root
		if b.Parent >= 0 && b.Parent < i {
			parent = bones[b.Parent]
		}
		parent.Add(n)
		bones[i] = n
	}

	for i := range src.Meshes {
		holder := scene.NewNode(fmt.Sprintf("mesh_%d", i))
		root.Add(holder)
		holder.SetMesh(bmdMesh(&src.Meshes[i], bones, holder, textures, opts))
	}

	return &Model{
		Name:   name,
		Format: FormatBMD,
		Root:   root,
		Clips:  bmdClips(src, bones, opts.KeyRate),
	}
}

// bmdMesh unwelds BMD triangles: positions and texcoords are indexed
// separately, so each corner becomes its own vertex.
func bmdMesh(m *bmd.Mesh, bones []*scene.Node, holder *scene.Node, textures texture.Resolver, opts Options) *scene.Mesh {
	faces := m.Faces()
	out := &scene.Mesh{
		Positions: make([]mgl64.Vec3, 0, len(faces)*3),
		UVs:       make([][2]float32, 0, len(faces)*3),
		Indices:   make([]uint32, 0, len(faces)*3),
		Color:     opts.Color,
	}
	if textures != nil {
		out.Texture = textures.Resolve(m.TexPath)
	}

	var skin *scene.Skin
	if len(bones) > 0 {
		// last slot is the holder, for vertices naming a missing bone
		joints := append(append([]*scene.Node(nil), bones...), holder)
		skin = &scene.Skin{Joints: joints}
		out.Skin = skin
	}

	for _, f := range faces {
		for _, c := range f {
			v := m.Verts[c.Vert]
			out.Indices = append(out.Indices, uint32(len(out.Positions)))
			out.Positions = append(out.Positions, mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])})
			var uv [2]float32
			if c.UV >= 0 {
				uv = m.UVs[c.UV]
			}
			out.UVs = append(out.UVs, uv)

			if skin != nil {
				slot := len(bones)
				if c.Vert < len(m.Nodes) {
					if b := int(m.Nodes[c.Vert]); b >= 0 && b < len(bones) {
						slot = b
					}
				}
				skin.Influences = append(skin.Influences, [4]int{slot, -1, -1, -1})
				skin.Weights = append(skin.Weights, [4]float64{1, 0, 0, 0})
			}
		}
	}
	return out
}

func bmdClips(src *bmd.Model, bones []*scene.Node, rate float64) []*anim.Clip {
	var clips []*anim.Clip
	for a, act := range src.Actions {
		if act.Keys == 0 {
			continue
		}
		// the first key is repeated at the end so the loop closes
		n := act.Keys
		times := make([]float64, 0, n+1)
		for k := 0; k < n; k++ {
			times = append(times, float64(k)/rate)
		}
		if n > 1 {
			times = append(times, float64(n)/rate)
		}

		clip := &anim.Clip{Name: fmt.Sprintf("Action %d", a), Duration: times[len(times)-1]}
		for i := range src.Bones {
			b := &src.Bones[i]
			if b.Dummy || a >= len(b.Keys) || len(b.Keys[a]) != n {
				continue
			}
			keys := b.Keys[a]
			pos := make([][4]float64, 0, len(times))
			rot := make([][4]float64, 0, len(times))
			for k := range times {
				key := keys[k%n]
				pos = append(pos, [4]float64{key.Position[0], key.Position[1], key.Position[2]})
				q := mathutil.EulerToQuat(key.Rotation[0], key.Rotation[1], key.Rotation[2])
				rot = append(rot, [4]float64{q.V[0], q.V[1], q.V[2], q.W})
			}
			clip.Tracks = append(clip.Tracks,
				anim.Track{Node: bones[i], Path: anim.Translation, Times: times, Values: pos},
				anim.Track{Node: bones[i], Path: anim.Rotation, Times: times, Values: rot},
			)
		}
		clips = append(clips, clip)
	}
	return clips
}
