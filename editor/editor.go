// Package editor ties the tile grid, the palette and the map store together
// behind the operations a UI needs.
package editor

import (
	"fmt"

	"github.com/milk9111/tilescape/assets"
	"github.com/milk9111/tilescape/events"
	"github.com/milk9111/tilescape/grid"
	"github.com/milk9111/tilescape/levels"
	"github.com/milk9111/tilescape/logging"
	"github.com/milk9111/tilescape/palette"
	"github.com/milk9111/tilescape/render"
	"github.com/sirupsen/logrus"
)

type Options struct {
	Meta      grid.Metadata
	TileWidth float64
	IsoTop    float64
	Style     render.Style

	Store    *levels.Collections
	Decoder  assets.Decoder
	Mailbox  *assets.Mailbox
	Listener events.Handler
	Log      logrus.FieldLogger
}

// Editor owns all map editing state. It is used from one goroutine; work
// finished elsewhere comes back through the mailbox during Tick.
type Editor struct {
	meta      grid.Metadata
	grid      *grid.TileGrid
	view      grid.Viewport
	tileWidth float64
	isoTop    float64

	canvasW  float64
	canvasH  float64
	centered bool

	input   InputController
	palette *palette.Slicer
	engine  *render.Engine

	scheduler     *Scheduler
	queue         events.Queue
	listener      events.Handler
	redrawPending bool

	decoder assets.Decoder
	mailbox *assets.Mailbox
	store   *levels.Collections

	mapID      string
	restoreGen uint64

	log logrus.FieldLogger
}

func New(opts Options) *Editor {
	meta := opts.Meta.Sanitize()
	if opts.TileWidth <= 0 {
		opts.TileWidth = 64
	}
	if opts.IsoTop == 0 {
		opts.IsoTop = grid.DefaultIsoTop
	}
	if opts.Decoder == nil {
		opts.Decoder = assets.SyncDecoder{}
	}
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}
	if opts.Store == nil {
		opts.Store = levels.NewCollections(levels.NewMemoryBackend(), opts.Log)
	}

	e := &Editor{
		meta:      meta,
		grid:      grid.NewTileGrid(meta.Width, meta.Height),
		view:      grid.NewViewport(opts.TileWidth, meta.Projection),
		tileWidth: opts.TileWidth,
		isoTop:    opts.IsoTop,
		engine:    render.NewEngine(opts.Style),
		listener:  opts.Listener,
		decoder:   opts.Decoder,
		mailbox:   opts.Mailbox,
		store:     opts.Store,
		log:       opts.Log,
	}
	e.palette = palette.NewSlicer(opts.Decoder, &e.queue, opts.Log.WithField("component", "palette"))
	e.scheduler = NewScheduler(completionSystem{}, eventSystem{})
	return e
}

func (e *Editor) Meta() grid.Metadata          { return e.meta }
func (e *Editor) Grid() *grid.TileGrid         { return e.grid }
func (e *Editor) Viewport() grid.Viewport      { return e.view }
func (e *Editor) Palette() *palette.Slicer     { return e.palette }
func (e *Editor) Input() *InputController      { return &e.input }
func (e *Editor) Scheduler() *Scheduler        { return e.scheduler }
func (e *Editor) Store() *levels.Collections   { return e.store }
func (e *Editor) MapID() string                { return e.mapID }
func (e *Editor) Engine() *render.Engine       { return e.engine }
func (e *Editor) SetListener(h events.Handler) { e.listener = h }

// SetWidth applies the width field text. Tiles beyond the new edge are
// dropped.
func (e *Editor) SetWidth(text string) {
	e.resize(grid.ParseDimension(text, e.meta.Width), e.meta.Height)
}

// SetHeight applies the height field text.
func (e *Editor) SetHeight(text string) {
	e.resize(e.meta.Width, grid.ParseDimension(text, e.meta.Height))
}

func (e *Editor) resize(w, h int) {
	if w == e.meta.Width && h == e.meta.Height {
		return
	}
	e.meta.Width, e.meta.Height = w, h
	e.meta = e.meta.Sanitize()
	e.grid.Resize(e.meta.Width, e.meta.Height)
	if c, ok := e.input.Hover(); ok && !e.grid.InBounds(c) {
		e.input.hoverValid = false
	}
	e.log.WithFields(logrus.Fields{"width": e.meta.Width, "height": e.meta.Height}).Debug("map resized")
}

// SetProjection switches projection and recenters the view.
func (e *Editor) SetProjection(p grid.Projection) {
	e.meta.Projection = p
	e.meta = e.meta.Sanitize()
	e.recenter()
}

// ResizeCanvas records the canvas size. The view is centered the first time
// only, so later resizes keep the user's panning.
func (e *Editor) ResizeCanvas(w, h float64) {
	e.canvasW, e.canvasH = w, h
	if !e.centered {
		e.recenter()
		e.centered = true
	}
}

func (e *Editor) recenter() {
	e.view = grid.Recenter(e.meta, e.canvasW, e.canvasH, e.tileWidth, e.isoTop)
}

// HandlePointer feeds one pointer event to the input controller.
func (e *Editor) HandlePointer(ev PointerEvent) bool {
	return e.input.Handle(ev, e.grid, &e.view)
}

// SelectPaletteAt selects the palette entry under a preview point. The
// brush changes on the next Tick.
func (e *Editor) SelectPaletteAt(l palette.Layout, x, y float64) bool {
	return e.palette.SelectAt(l, x, y)
}

// Save stores the current map. The first save assigns the id later saves
// overwrite.
func (e *Editor) Save() (string, error) {
	rec := levels.Serialize(e.grid, e.meta, e.mapID)
	id, err := e.store.SaveMap(rec)
	if err != nil {
		e.queue.Publish(events.SaveFailed{ID: e.mapID, Err: err})
		return "", fmt.Errorf("editor: save: %w", err)
	}
	e.mapID = id
	e.queue.Publish(events.SaveCompleted{ID: id})
	return id, nil
}

// Load replaces the current map with a stored one. When the id is unknown
// nothing changes and the error wraps levels.ErrMapNotFound. Tiles arrive
// asynchronously as their images decode.
func (e *Editor) Load(id string) error {
	rec, err := e.store.LoadMap(id)
	if err != nil {
		e.queue.Publish(events.LoadFailed{ID: id, Err: err})
		e.log.WithError(err).WithField("id", id).Warn("load failed")
		return fmt.Errorf("editor: load: %w", err)
	}

	meta := rec.Metadata()
	e.meta = meta
	e.grid.Clear()
	e.grid.Resize(meta.Width, meta.Height)
	e.recenter()
	e.input.Reset()
	e.mapID = rec.ID
	e.restoreGen++
	gen := e.restoreGen

	levels.Restore(rec, e.decoder, levels.TileSinkFunc(func(c grid.Coord, t grid.Tile) {
		if gen != e.restoreGen {
			return
		}
		if e.grid.Set(c, t) {
			e.redrawPending = true
		}
	}), e.log.WithField("id", rec.ID))

	e.queue.Publish(events.MapLoaded{ID: rec.ID, Meta: meta})
	e.log.WithFields(logrus.Fields{"id": rec.ID, "tiles": len(rec.Tiles)}).Info("map loaded")
	return nil
}

// NewMap discards the current map and starts an unsaved one.
func (e *Editor) NewMap(meta grid.Metadata) {
	e.meta = meta.Sanitize()
	e.grid.Clear()
	e.grid.Resize(e.meta.Width, e.meta.Height)
	e.recenter()
	e.input.Reset()
	e.mapID = ""
	e.restoreGen++
}

// Tick runs pending decode completions and dispatches queued events.
func (e *Editor) Tick() {
	e.scheduler.Update(e)
}

func (e *Editor) apply(evt events.Event) {
	if sel, ok := evt.(events.PaletteSelected); ok {
		e.input.SetBrush(sel.Tile)
	}
}

// Scene is the current frame for the render engine.
func (e *Editor) Scene() render.Scene {
	scene := render.Scene{Grid: e.grid, Viewport: e.view}
	if c, ok := e.input.Hover(); ok {
		scene.Hover = &c
	}
	return scene
}

func (e *Editor) Render(s render.Surface) {
	e.engine.Render(s, e.Scene())
}
