// Package asset loads model files into scene graphs. BMD and glTF/GLB
// files become the same shape: a root node with joint nodes, skinned
// meshes and a list of keyframe clips.
package asset

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log"
	"path/filepath"
	"strings"

	"posecam/internal/anim"
	"posecam/internal/filter"
	"posecam/internal/scene"
	"posecam/internal/texture"
)

// ErrUnsupportedFormat is returned for file extensions no loader handles.
var ErrUnsupportedFormat = errors.New("asset: unsupported format")

// Format identifies the source file type.
type Format string

const (
	FormatBMD  Format = "bmd"
	FormatGLTF Format = "gltf"
)

// DefaultColor is used for untextured meshes.
var DefaultColor = color.NRGBA{R: 0xb4, G: 0xb4, B: 0xb4, A: 0xff}

// DefaultKeyRate is the playback rate of BMD action keys, in keys per second.
const DefaultKeyRate = 10.0

// Model is a loaded, renderable asset.
type Model struct {
	Name   string
	Format Format
	Root   *scene.Node
	Clips  []*anim.Clip
}

// Joints returns the skeleton's joints in traversal order.
func (m *Model) Joints() []*scene.Node {
	if m == nil || m.Root == nil {
		return nil
	}
	return m.Root.Joints()
}

// Triangles returns the total triangle count.
func (m *Model) Triangles() int {
	n := 0
	if m == nil || m.Root == nil {
		return 0
	}
	m.Root.Traverse(func(node *scene.Node) {
		if node.Mesh != nil {
			n += node.Mesh.TriangleCount()
		}
	})
	return n
}

// Options tune loading. The zero value is usable.
type Options struct {
	// Textures resolves BMD texture references. When nil, a cache over
	// TextureDirs and the model's own directory is built.
	Textures    texture.Resolver
	TextureDirs []string

	// KeepEffects keeps BMD glow and particle overlays. StrayVerts is the
	// debris threshold passed to filter.Stray; zero means
	// filter.DefaultStrayVerts and a negative value disables it.
	KeepEffects bool
	StrayVerts  int

	Color   color.NRGBA
	KeyRate float64
	Logger  *log.Logger
}

func (o Options) withDefaults() Options {
	if o.Color == (color.NRGBA{}) {
		o.Color = DefaultColor
	}
	if o.KeyRate <= 0 {
		o.KeyRate = DefaultKeyRate
	}
	if o.StrayVerts == 0 {
		o.StrayVerts = filter.DefaultStrayVerts
	}
	return o
}

func (o Options) textures(path string) texture.Resolver {
	if o.Textures != nil {
		return o.Textures
	}
	dirs := append([]string{filepath.Dir(path)}, o.TextureDirs...)
	return texture.NewCache(texture.BuildIndex(dirs...), o.Logger)
}

// Load reads the model at path, dispatching on its extension.
func Load(ctx context.Context, path string, opts Options) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var (
		m   *Model
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".bmd":
		m, err = loadBMD(path, name, opts.withDefaults())
	case ".glb", ".gltf":
		m, err = loadGLTF(path, name, opts.withDefaults())
	default:
		return nil, fmt.Errorf("%w: %q (use .bmd, .glb or .gltf)", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Logger != nil {
		opts.Logger.Printf("loaded %s: %d joints, %d triangles, %d clips",
			filepath.Base(path), len(m.Joints()), m.Triangles(), len(m.Clips))
	}
	return m, nil
}

// Result is the outcome of an asynchronous load.
type Result struct {
	Path  string
	Model *Model
	Err   error
}

// LoadAsync loads path on its own goroutine and delivers exactly one
// Result on the returned channel.
func LoadAsync(ctx context.Context, path string, opts Options) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		m, err := Load(ctx, path, opts)
		out <- Result{Path: path, Model: m, Err: err}
	}()
	return out
}
