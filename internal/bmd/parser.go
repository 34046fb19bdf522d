// Package bmd parses MU Online BMD model files: meshes, named bones and
// per-bone action keyframes.
package bmd

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"posecam/internal/crypto"
)

// ErrEncrypted is returned for payloads whose cipher is not supported
// (v15 LEA-256).
var ErrEncrypted = errors.New("bmd: unsupported encrypted payload")

const (
	maxMeshes  = 100
	triangleSz = 64
)

// Parse reads and parses a BMD file.
func Parse(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bmd: read %s: %w", path, err)
	}
	m, err := ParseBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return m, nil
}

// ParseBytes parses an in-memory BMD file. Version 12 payloads are
// XOR-decoded; version 15 returns ErrEncrypted; anything else is read as
// plain data.
func ParseBytes(raw []byte) (*Model, error) {
	if len(raw) < 4 || string(raw[:3]) != "BMD" {
		return nil, errors.New("bmd: invalid header")
	}

	version := raw[3]
	var data []byte

	switch version {
	case 15:
		return nil, fmt.Errorf("%w: version %d", ErrEncrypted, version)
	case 12:
		if len(raw) < 8 {
			return nil, errors.New("bmd: truncated v12 header")
		}
		size := binary.LittleEndian.Uint32(raw[4:8])
		if 8+int(size) > len(raw) {
			return nil, errors.New("bmd: truncated v12 data")
		}
		data = crypto.DecryptXOR(raw[8 : 8+size])
	default:
		data = raw[4:]
	}

	r := &reader{data: data}
	m, err := r.parse()
	if err != nil {
		return nil, err
	}
	m.Version = version
	return m, nil
}

type reader struct {
	data  []byte
	off   int
	trunc bool // a read ran past the end
}

func (r *reader) need(n int) bool {
	if r.off+n > len(r.data) {
		r.off = len(r.data)
		r.trunc = true
		return false
	}
	return true
}

func (r *reader) readStr(n int) string {
	if !r.need(n) {
		return ""
	}
	s := r.data[r.off : r.off+n]
	r.off += n
	if i := strings.IndexByte(string(s), 0); i >= 0 {
		return string(s[:i])
	}
	return string(s)
}

func (r *reader) readI16() int16 {
	return int16(r.readU16())
}

func (r *reader) readU16() uint16 {
	if !r.need(2) {
		return 0
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v
}

func (r *reader) readF32() float32 {
	if !r.need(4) {
		return 0
	}
	v := math.Float32frombits(binary.LittleEndian.Uint32(r.data[r.off:]))
	r.off += 4
	return v
}

func (r *reader) readVec3() [3]float32 {
	return [3]float32{r.readF32(), r.readF32(), r.readF32()}
}

func (r *reader) readByte() byte {
	if !r.need(1) {
		return 0
	}
	b := r.data[r.off]
	r.off++
	return b
}

func (r *reader) parse() (*Model, error) {
	m := &Model{Name: r.readStr(32)}
	meshCount := int(r.readU16())
	boneCount := int(r.readU16())
	actionCount := int(r.readU16())
	if r.trunc {
		return nil, errors.New("bmd: truncated header")
	}
	if meshCount > maxMeshes {
		return nil, fmt.Errorf("bmd: invalid mesh count %d", meshCount)
	}

	m.Meshes = make([]Mesh, 0, meshCount)
	for i := 0; i < meshCount; i++ {
		m.Meshes = append(m.Meshes, r.mesh())
	}

	m.Actions = make([]Action, actionCount)
	for a := range m.Actions {
		act := Action{Keys: int(r.readI16())}
		if act.Keys < 0 {
			act.Keys = 0
		}
		act.LockPositions = r.readByte() > 0
		if act.LockPositions {
			act.Positions = make([][3]float32, act.Keys)
			for k := range act.Positions {
				act.Positions[k] = r.readVec3()
			}
		}
		m.Actions[a] = act
	}

	m.Bones = make([]Bone, 0, boneCount)
	for b := 0; b < boneCount; b++ {
		if r.readByte() > 0 {
			m.Bones = append(m.Bones, Bone{Parent: -1, Dummy: true})
			continue
		}
		bone := Bone{
			Name:   r.readStr(32),
			Parent: int(r.readI16()),
			Keys:   make([][]Key, actionCount),
		}
		for a, act := range m.Actions {
			keys := make([]Key, act.Keys)
			for k := range keys {
				p := r.readVec3()
				keys[k].Position = [3]float64{float64(p[0]), float64(p[1]), float64(p[2])}
			}
			for k := range keys {
				e := r.readVec3()
				keys[k].Rotation = [3]float64{float64(e[0]), float64(e[1]), float64(e[2])}
			}
			bone.Keys[a] = keys
		}
		m.Bones = append(m.Bones, bone)
	}
	if r.trunc {
		return nil, errors.New("bmd: truncated data")
	}

	return m, nil
}

func (r *reader) mesh() Mesh {
	nv := int(r.readI16())
	nn := int(r.readI16())
	ntc := int(r.readI16())
	nt := int(r.readI16())
	_ = r.readI16() // texture index
	nv, nn, ntc, nt = max(nv, 0), max(nn, 0), max(ntc, 0), max(nt, 0)

	// vertex: node i16, pad i16, xyz f32
	verts := make([][3]float32, nv)
	nodes := make([]int16, nv)
	for j := range verts {
		nodes[j] = r.readI16()
		_ = r.readI16()
		verts[j] = r.readVec3()
	}

	// normal: node i16, pad i16, xyz f32, bind vertex i16, pad i16
	normals := make([][3]float32, nn)
	for j := range normals {
		_ = r.readI16()
		_ = r.readI16()
		normals[j] = r.readVec3()
		_ = r.readI16()
		_ = r.readI16()
	}

	uvs := make([][2]float32, ntc)
	for j := range uvs {
		uvs[j] = [2]float32{r.readF32(), r.readF32()}
	}

	tris := make([]Triangle, 0, nt)
	for j := 0; j < nt; j++ {
		base := r.off
		if !r.need(triangleSz) {
			break
		}
		t := Triangle{Polygon: int(r.data[base])}
		for k := 0; k < 4; k++ {
			t.VI[k] = int16(binary.LittleEndian.Uint16(r.data[base+2+k*2:]))
			t.NI[k] = int16(binary.LittleEndian.Uint16(r.data[base+10+k*2:]))
			t.TI[k] = int16(binary.LittleEndian.Uint16(r.data[base+18+k*2:]))
		}
		tris = append(tris, t)
		r.off += triangleSz
	}

	tex := strings.ReplaceAll(r.readStr(32), "\\", "/")

	return Mesh{
		Verts:   verts,
		Nodes:   nodes,
		Normals: normals,
		UVs:     uvs,
		Tris:    tris,
		TexPath: tex,
	}
}
