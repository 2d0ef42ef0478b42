package levels

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/milk9111/tilescape/logging"
	"github.com/sirupsen/logrus"
)

var ErrMapNotFound = errors.New("levels: map not found")

// Backend stores whole blobs by key.
type Backend interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
}

// Collections reads and writes the Collection document of a Backend.
type Collections struct {
	mu      sync.Mutex
	backend Backend
	key     string
	log     logrus.FieldLogger
}

func NewCollections(backend Backend, log logrus.FieldLogger) *Collections {
	if log == nil {
		log = logging.Discard()
	}
	return &Collections{backend: backend, key: CollectionsKey, log: log}
}

// Get returns the stored document, or an empty one when nothing is stored.
func (c *Collections) Get() (Collection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get()
}

func (c *Collections) get() (Collection, error) {
	var coll Collection
	data, ok, err := c.backend.Get(c.key)
	if err != nil {
		return coll, fmt.Errorf("levels: get collections: %w", err)
	}
	if ok && len(data) > 0 {
		if err := json.Unmarshal(data, &coll); err != nil {
			return coll, fmt.Errorf("levels: decode collections: %w", err)
		}
	}
	coll.normalize()
	return coll, nil
}

// Save replaces the stored document.
func (c *Collections) Save(coll Collection) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(coll)
}

func (c *Collections) save(coll Collection) error {
	coll.normalize()
	data, err := json.Marshal(coll)
	if err != nil {
		return fmt.Errorf("levels: encode collections: %w", err)
	}
	if err := c.backend.Set(c.key, data); err != nil {
		return fmt.Errorf("levels: save collections: %w", err)
	}
	return nil
}

// SaveMap stores rec and returns its id. A record whose id is already stored
// overwrites that entry in place; anything else is appended under a fresh id.
func (c *Collections) SaveMap(rec MapRecord) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	coll, err := c.get()
	if err != nil {
		return "", err
	}
	idx := -1
	if rec.ID != "" {
		idx = indexOf(coll.Maps, rec.ID)
	}
	if idx >= 0 {
		coll.Maps[idx] = rec
	} else {
		rec.ID = uuid.New().String()
		coll.Maps = append(coll.Maps, rec)
	}
	if err := c.save(coll); err != nil {
		return "", err
	}
	c.log.WithFields(logrus.Fields{"id": rec.ID, "tiles": len(rec.Tiles), "overwrite": idx >= 0}).Info("map saved")
	return rec.ID, nil
}

func (c *Collections) LoadMap(id string) (MapRecord, error) {
	coll, err := c.Get()
	if err != nil {
		return MapRecord{}, err
	}
	idx := indexOf(coll.Maps, id)
	if idx < 0 {
		return MapRecord{}, fmt.Errorf("%w: %q", ErrMapNotFound, id)
	}
	return coll.Maps[idx], nil
}

// DeleteMap removes a stored map.
func (c *Collections) DeleteMap(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	coll, err := c.get()
	if err != nil {
		return err
	}
	idx := indexOf(coll.Maps, id)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrMapNotFound, id)
	}
	coll.Maps = append(coll.Maps[:idx], coll.Maps[idx+1:]...)
	return c.save(coll)
}

// MapSummary describes a stored map without its tiles.
type MapSummary struct {
	ID         string
	Width      int
	Height     int
	Projection string
	Tiles      int
}

func (c *Collections) ListMaps() ([]MapSummary, error) {
	coll, err := c.Get()
	if err != nil {
		return nil, err
	}
	out := make([]MapSummary, 0, len(coll.Maps))
	for _, m := range coll.Maps {
		meta := m.Metadata()
		out = append(out, MapSummary{
			ID:         m.ID,
			Width:      meta.Width,
			Height:     meta.Height,
			Projection: meta.Projection.String(),
			Tiles:      len(m.Tiles),
		})
	}
	return out, nil
}

func indexOf(maps []MapRecord, id string) int {
	for i, m := range maps {
		if m.ID == id {
			return i
		}
	}
	return -1
}
