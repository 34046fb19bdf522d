package asset

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"posecam/internal/anim"
	"posecam/internal/scene"
)

func loadGLTF(path, name string, opts Options) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("asset: open %s: %w", path, err)
	}
	m, err := FromGLTF(doc, name, opts)
	if err != nil {
		return nil, fmt.Errorf("asset: convert %s: %w", path, err)
	}
	return m, nil
}

// FromGLTF converts a decoded glTF document: the default scene's node
// tree, skins, triangle primitives and animations. Materials are not
// read; every primitive uses the configured colour.
func FromGLTF(doc *gltf.Document, name string, opts Options) (*Model, error) {
	opts = opts.withDefaults()
	root := scene.NewNode(name)

	nodes := make([]*scene.Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		n := scene.NewNode(gn.Name)
		if n.Name == "" {
			n.Name = fmt.Sprintf("node_%d", i)
		}
		if m := gn.MatrixOrDefault(); m != gltf.DefaultMatrix {
			mat := mgl64.Mat4(m)
			n.Matrix = &mat
		} else {
			n.Translation = mgl64.Vec3(gn.TranslationOrDefault())
			r := gn.RotationOrDefault()
			n.Rotation = mgl64.Quat{W: r[3], V: mgl64.Vec3{r[0], r[1], r[2]}}
			n.Scale = mgl64.Vec3(gn.ScaleOrDefault())
		}
		nodes[i] = n
	}
	for i, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c >= 0 && c < len(nodes) && c != i && nodes[c].Parent == nil && !isAncestor(nodes[c], nodes[i]) {
				nodes[i].Add(nodes[c])
			}
		}
	}
	for _, i := range sceneRoots(doc) {
		if nodes[i].Parent == nil {
			root.Add(nodes[i])
		}
	}

	for _, sk := range doc.Skins {
		for _, j := range sk.Joints {
			if j >= 0 && j < len(nodes) {
				nodes[j].Joint = true
			}
		}
	}

	for i, gn := range doc.Nodes {
		if gn.Mesh == nil || *gn.Mesh < 0 || *gn.Mesh >= len(doc.Meshes) {
			continue
		}
		var skin *gltf.Skin
		if gn.Skin != nil && *gn.Skin >= 0 && *gn.Skin < len(doc.Skins) {
			skin = doc.Skins[*gn.Skin]
		}
		for p, prim := range doc.Meshes[*gn.Mesh].Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			mesh, err := gltfPrimitive(doc, prim, skin, nodes, opts)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", *gn.Mesh, p, err)
			}
			holder := scene.NewNode(fmt.Sprintf("%s/primitive_%d", nodes[i].Name, p))
			nodes[i].Add(holder)
			holder.SetMesh(mesh)
		}
	}

	clips, err := gltfClips(doc, nodes)
	if err != nil {
		return nil, err
	}
	return &Model{Name: name, Format: FormatGLTF, Root: root, Clips: clips}, nil
}

func isAncestor(a, n *scene.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == a {
			return true
		}
	}
	return false
}

// sceneRoots returns the default scene's root nodes, or every node when the
// document has no scenes.
func sceneRoots(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		s := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			s = *doc.Scene
		}
		var out []int
		for _, i := range doc.Scenes[s].Nodes {
			if i >= 0 && i < len(doc.Nodes) {
				out = append(out, i)
			}
		}
		return out
	}
	out := make([]int, len(doc.Nodes))
	for i := range out {
		out[i] = i
	}
	return out
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	return doc.Accessors[idx], nil
}

func gltfPrimitive(doc *gltf.Document, prim *gltf.Primitive, skin *gltf.Skin, nodes []*scene.Node, opts Options) (*scene.Mesh, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	acr, err := accessor(doc, posIdx)
	if err != nil {
		return nil, err
	}
	pos, err := modeler.ReadPosition(doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	mesh := &scene.Mesh{Positions: make([]mgl64.Vec3, len(pos)), Color: opts.Color}
	for i, p := range pos {
		mesh.Positions[i] = mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])}
	}

	if prim.Indices != nil {
		acr, err := accessor(doc, *prim.Indices)
		if err != nil {
			return nil, err
		}
		if mesh.Indices, err = modeler.ReadIndices(doc, acr, nil); err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
	} else {
		mesh.Indices = make([]uint32, len(pos))
		for i := range mesh.Indices {
			mesh.Indices[i] = uint32(i)
		}
	}
	for _, ix := range mesh.Indices {
		if int(ix) >= len(pos) {
			return nil, fmt.Errorf("index %d out of range", ix)
		}
	}

	if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if acr, err := accessor(doc, uvIdx); err == nil {
			if uvs, err := modeler.ReadTextureCoord(doc, acr, nil); err == nil && len(uvs) == len(pos) {
				mesh.UVs = uvs
			}
		}
	}

	if skin != nil {
		s, err := gltfSkin(doc, prim, skin, nodes, len(pos))
		if err != nil {
			return nil, err
		}
		mesh.Skin = s
	}
	return mesh, nil
}

func gltfSkin(doc *gltf.Document, prim *gltf.Primitive, skin *gltf.Skin, nodes []*scene.Node, count int) (*scene.Skin, error) {
	jIdx, okJ := prim.Attributes[gltf.JOINTS_0]
	wIdx, okW := prim.Attributes[gltf.WEIGHTS_0]
	if !okJ || !okW {
		return nil, nil
	}

	s := &scene.Skin{}
	for _, j := range skin.Joints {
		if j < 0 || j >= len(nodes) {
			return nil, fmt.Errorf("skin joint %d out of range", j)
		}
		s.Joints = append(s.Joints, nodes[j])
	}

	s.InverseBind = make([]mgl64.Mat4, len(s.Joints))
	for i := range s.InverseBind {
		s.InverseBind[i] = mgl64.Ident4()
	}
	if skin.InverseBindMatrices != nil {
		acr, err := accessor(doc, *skin.InverseBindMatrices)
		if err != nil {
			return nil, err
		}
		data, err := modeler.ReadAccessor(doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("read inverse bind matrices: %w", err)
		}
		mats, ok := data.([][4][4]float32)
		if !ok {
			return nil, fmt.Errorf("inverse bind matrices: unexpected %T", data)
		}
		for i := 0; i < len(mats) && i < len(s.InverseBind); i++ {
			for c := 0; c < 4; c++ {
				for r := 0; r < 4; r++ {
					s.InverseBind[i][c*4+r] = float64(mats[i][c][r])
				}
			}
		}
	}

	jacr, err := accessor(doc, jIdx)
	if err != nil {
		return nil, err
	}
	joints, err := modeler.ReadJoints(doc, jacr, nil)
	if err != nil {
		return nil, fmt.Errorf("read joints: %w", err)
	}
	wacr, err := accessor(doc, wIdx)
	if err != nil {
		return nil, err
	}
	weights, err := modeler.ReadWeights(doc, wacr, nil)
	if err != nil {
		return nil, fmt.Errorf("read weights: %w", err)
	}
	if len(joints) != count || len(weights) != count {
		return nil, fmt.Errorf("skin attributes cover %d/%d of %d vertices", len(joints), len(weights), count)
	}

	s.Influences = make([][4]int, count)
	s.Weights = make([][4]float64, count)
	for i := range joints {
		for k := 0; k < 4; k++ {
			s.Influences[i][k] = int(joints[i][k])
			s.Weights[i][k] = float64(weights[i][k])
		}
	}
	return s, nil
}

func gltfClips(doc *gltf.Document, nodes []*scene.Node) ([]*anim.Clip, error) {
	var clips []*anim.Clip
	for a, ga := range doc.Animations {
		clip := &anim.Clip{Name: ga.Name}
		if clip.Name == "" {
			clip.Name = fmt.Sprintf("Animation %d", a)
		}
		for _, ch := range ga.Channels {
			if ch.Target.Node == nil || *ch.Target.Node < 0 || *ch.Target.Node >= len(nodes) {
				continue
			}
			if ch.Sampler < 0 || ch.Sampler >= len(ga.Samplers) {
				return nil, fmt.Errorf("animation %q: sampler %d out of range", clip.Name, ch.Sampler)
			}
			var path anim.Path
			switch ch.Target.Path {
			case gltf.TRSTranslation:
				path = anim.Translation
			case gltf.TRSRotation:
				path = anim.Rotation
			case gltf.TRSScale:
				path = anim.Scale
			default:
				continue
			}
			tr, err := gltfTrack(doc, ga.Samplers[ch.Sampler], path)
			if err != nil {
				return nil, fmt.Errorf("animation %q: %w", clip.Name, err)
			}
			tr.Node = nodes[*ch.Target.Node]
			if n := len(tr.Times); n > 0 && tr.Times[n-1] > clip.Duration {
				clip.Duration = tr.Times[n-1]
			}
			clip.Tracks = append(clip.Tracks, tr)
		}
		clips = append(clips, clip)
	}
	return clips, nil
}

func gltfTrack(doc *gltf.Document, s *gltf.AnimationSampler, path anim.Path) (anim.Track, error) {
	in, err := accessor(doc, s.Input)
	if err != nil {
		return anim.Track{}, err
	}
	rawTimes, err := modeler.ReadAccessor(doc, in, nil)
	if err != nil {
		return anim.Track{}, fmt.Errorf("read key times: %w", err)
	}
	times, ok := rawTimes.([]float32)
	if !ok {
		return anim.Track{}, fmt.Errorf("key times: unexpected %T", rawTimes)
	}

	out, err := accessor(doc, s.Output)
	if err != nil {
		return anim.Track{}, err
	}
	rawValues, err := modeler.ReadAccessor(doc, out, nil)
	if err != nil {
		return anim.Track{}, fmt.Errorf("read key values: %w", err)
	}
	var values [][4]float64
	switch v := rawValues.(type) {
	case [][3]float32:
		for _, x := range v {
			values = append(values, [4]float64{float64(x[0]), float64(x[1]), float64(x[2])})
		}
	case [][4]float32:
		for _, x := range v {
			values = append(values, [4]float64{float64(x[0]), float64(x[1]), float64(x[2]), float64(x[3])})
		}
	default:
		return anim.Track{}, fmt.Errorf("key values: unexpected %T", rawValues)
	}

	// cubic spline keys are (in-tangent, value, out-tangent); keep the value
	if s.Interpolation == gltf.InterpolationCubicSpline && len(values) == 3*len(times) {
		kept := make([][4]float64, len(times))
		for i := range kept {
			kept[i] = values[3*i+1]
		}
		values = kept
	}
	if len(values) < len(times) {
		return anim.Track{}, fmt.Errorf("%d values for %d keys", len(values), len(times))
	}

	tr := anim.Track{
		Path:   path,
		Times:  make([]float64, len(times)),
		Values: values[:len(times)],
		Step:   s.Interpolation == gltf.InterpolationStep,
	}
	for i, t := range times {
		tr.Times[i] = float64(t)
	}
	return tr, nil
}
