// Package texture resolves the texture names referenced by model meshes
// to decoded images.
package texture

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// rank orders formats sharing a stem; alpha-carrying formats win.
var rank = map[string]int{
	".ozt":  5,
	".tga":  4,
	".png":  3,
	".ozj":  2,
	".jpg":  1,
	".jpeg": 1,
}

// Index maps lowercase texture stems to file paths.
type Index struct {
	entries map[string]string
}

// BuildIndex walks every directory in dirs recursively. Missing directories
// are skipped.
func BuildIndex(dirs ...string) *Index {
	idx := &Index{entries: make(map[string]string)}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			idx.add(path)
			return nil
		})
	}
	return idx
}

func (idx *Index) add(path string) {
	ext := strings.ToLower(filepath.Ext(path))
	r, ok := rank[ext]
	if !ok {
		return
	}
	stem := stemOf(path)
	if cur, exists := idx.entries[stem]; exists && rank[strings.ToLower(filepath.Ext(cur))] >= r {
		return
	}
	idx.entries[stem] = path
}

func stemOf(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

// ResolvePath maps a mesh texture reference ("skin\hero.jpg") to a file.
func (idx *Index) ResolvePath(name string) (string, bool) {
	if idx == nil || name == "" {
		return "", false
	}
	path, ok := idx.entries[stemOf(name)]
	return path, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}
