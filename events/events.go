// Package events carries editor notifications from the core to whatever UI
// is listening.
package events

import (
	"github.com/milk9111/tilescape/grid"
)

type Event interface {
	Name() string
}

// PaletteSelected is published when a palette entry becomes the brush.
type PaletteSelected struct {
	Index int
	Tile  grid.Tile
}

// PaletteChanged is published when the set of palette entries changes.
type PaletteChanged struct {
	Count int
}

type SaveCompleted struct {
	ID string
}

type SaveFailed struct {
	ID  string
	Err error
}

type LoadFailed struct {
	ID  string
	Err error
}

// MapLoaded is published after a stored map replaced the current one. Tiles
// may still be decoding.
type MapLoaded struct {
	ID   string
	Meta grid.Metadata
}

type RedrawRequested struct{}

func (PaletteSelected) Name() string { return "palette_selected" }
func (PaletteChanged) Name() string  { return "palette_changed" }
func (SaveCompleted) Name() string   { return "save_completed" }
func (SaveFailed) Name() string      { return "save_failed" }
func (LoadFailed) Name() string      { return "load_failed" }
func (MapLoaded) Name() string       { return "map_loaded" }
func (RedrawRequested) Name() string { return "redraw_requested" }

// Publisher accepts events.
type Publisher interface {
	Publish(Event)
}

type Handler interface {
	Handle(Event)
}

type HandlerFunc func(Event)

func (f HandlerFunc) Handle(e Event) { f(e) }

// Queue is a FIFO of events owned by a single goroutine.
type Queue struct {
	items []Event
}

func (q *Queue) Publish(evt Event) {
	if q == nil || evt == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all queued events and empties the queue.
func (q *Queue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Discard is a Publisher that drops everything.
type Discard struct{}

func (Discard) Publish(Event) {}
