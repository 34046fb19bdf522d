package texture

import (
	"image"
	"log"
	"sync"
)

// Resolver turns a texture reference into an image, or nil.
type Resolver interface {
	Resolve(name string) *image.NRGBA
}

// Cache decodes each indexed file at most once. Failed decodes are cached
// as nil so they are not retried.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*image.NRGBA
	index *Index
	log   *log.Logger
}

// NewCache returns a cache over index. logger may be nil.
func NewCache(index *Index, logger *log.Logger) *Cache {
	return &Cache{
		items: make(map[string]*image.NRGBA),
		index: index,
		log:   logger,
	}
}

// Resolve returns the decoded texture for name, or nil when it is not
// indexed or fails to decode.
func (c *Cache) Resolve(name string) *image.NRGBA {
	path, ok := c.index.ResolvePath(name)
	if !ok {
		return nil
	}

	c.mu.RLock()
	img, hit := c.items[path]
	c.mu.RUnlock()
	if hit {
		return img
	}

	img, err := Load(path)
	if err != nil && c.log != nil {
		c.log.Printf("%v", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, raced := c.items[path]; raced {
		return prev
	}
	c.items[path] = img
	return img
}
