package bmd

// Model is a parsed BMD file.
type Model struct {
	Name    string
	Version byte
	Meshes  []Mesh
	Bones   []Bone
	Actions []Action
}

// Triangle holds polygon type and index quads into the vertex, normal and
// texcoord arrays. Polygon == 4 means quad (0-1-2 and 0-2-3).
type Triangle struct {
	Polygon int
	VI      [4]int16
	NI      [4]int16
	TI      [4]int16
}

// Mesh holds geometry for one sub-mesh. Every vertex is bound to exactly
// one bone.
type Mesh struct {
	Verts   [][3]float32
	Nodes   []int16 // bone index per vertex
	Normals [][3]float32
	UVs     [][2]float32
	Tris    []Triangle
	TexPath string // e.g. "sword04.jpg"
}

// Action is one animation's header; per-bone keys live on Bone.Keys.
type Action struct {
	Keys          int
	LockPositions bool
	Positions     [][3]float32 // root motion when LockPositions is set
}

// Key is one bone's local transform at a keyframe. Rotation is Euler XYZ
// radians.
type Key struct {
	Position [3]float64
	Rotation [3]float64
}

// Bone is one node of the skeleton. Dummy bones carry no transform.
type Bone struct {
	Name   string
	Parent int
	Dummy  bool
	Keys   [][]Key // [action][key]
}

// BindKey returns the first key of the first action, which doubles as the
// bind pose.
func (b *Bone) BindKey() Key {
	for _, keys := range b.Keys {
		if len(keys) > 0 {
			return keys[0]
		}
	}
	return Key{}
}

// Corner is one triangle corner: a vertex index and a texcoord index.
// UV is -1 when the texcoord reference is out of range.
type Corner struct {
	Vert int
	UV   int
}

// Faces expands quads into triangles and drops any triangle that
// references a vertex out of range.
func (m *Mesh) Faces() [][3]Corner {
	out := make([][3]Corner, 0, len(m.Tris))
	emit := func(t Triangle, a, b, c int) {
		var f [3]Corner
		for i, k := range [3]int{a, b, c} {
			v, uv := int(t.VI[k]), int(t.TI[k])
			if v < 0 || v >= len(m.Verts) {
				return
			}
			if uv < 0 || uv >= len(m.UVs) {
				uv = -1
			}
			f[i] = Corner{Vert: v, UV: uv}
		}
		out = append(out, f)
	}
	for _, t := range m.Tris {
		emit(t, 0, 1, 2)
		if t.Polygon == 4 {
			emit(t, 0, 2, 3)
		}
	}
	return out
}
