package assets

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"
)

const DefaultCacheBytes = 256 << 20

// Registry caches decoded images by content hash so the same bytes are
// decoded once, whether they arrive from an upload or a restored map.
type Registry struct {
	cache *ristretto.Cache[string, *Image]
}

func NewRegistry(maxBytes int64) (*Registry, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultCacheBytes
	}
	cache, err := ristretto.NewCache[string, *Image](&ristretto.Config[string, *Image]{
		NumCounters: 10000,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("assets: registry: %w", err)
	}
	return &Registry{cache: cache}, nil
}

// Decode returns the cached image for data or decodes and caches it.
func (r *Registry) Decode(data []byte, mime string) (*Image, error) {
	if r == nil {
		return Decode(data, mime)
	}
	if img, ok := r.Get(Hash(data)); ok {
		return img, nil
	}
	img, err := Decode(data, mime)
	if err != nil {
		return nil, err
	}
	r.Put(img)
	return img, nil
}

func (r *Registry) Get(id string) (*Image, bool) {
	if r == nil {
		return nil, false
	}
	return r.cache.Get(id)
}

func (r *Registry) Put(img *Image) {
	if r == nil || img == nil {
		return
	}
	cost := int64(len(img.Data) + img.Width()*img.Height()*4)
	if cost < 1 {
		cost = 1
	}
	r.cache.Set(img.ID, img, cost)
	r.cache.Wait()
}

func (r *Registry) Close() {
	if r == nil {
		return
	}
	r.cache.Close()
}
