package editor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/milk9111/tilescape/assets"
	"github.com/milk9111/tilescape/common"
	"github.com/milk9111/tilescape/events"
	"github.com/milk9111/tilescape/grid"
	"github.com/milk9111/tilescape/levels"
	"github.com/milk9111/tilescape/palette"
	"github.com/milk9111/tilescape/render"
)

func pngData(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func testTile(t *testing.T, w, h int) grid.Tile {
	t.Helper()
	img, err := assets.Decode(pngData(t, w, h), "image/png")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return grid.Tile{Image: img, Src: common.Rect{Width: float64(w), Height: float64(h)}}
}

type recorder struct {
	events []events.Event
}

func (r *recorder) Handle(e events.Event) { r.events = append(r.events, e) }

func (r *recorder) names() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Name())
	}
	return out
}

// flatEditor is a 3x2 flat map on a 320x256 canvas, so cell (0,0) starts
// at (64,64).
func flatEditor(t *testing.T, store *levels.Collections, rec *recorder) *Editor {
	t.Helper()
	e := New(Options{
		Meta:      grid.Metadata{Width: 3, Height: 2, Projection: grid.Flat},
		TileWidth: 64,
		Style:     render.DefaultStyle(),
		Store:     store,
		Listener:  rec,
	})
	e.ResizeCanvas(320, 256)
	if e.Viewport().Origin != (common.Point{X: 64, Y: 64}) {
		t.Fatalf("unexpected origin %+v", e.Viewport().Origin)
	}
	return e
}

func TestInputPaintDragErase(t *testing.T) {
	e := flatEditor(t, nil, nil)
	brush := testTile(t, 8, 8)

	e.HandlePointer(PointerEvent{Kind: PointerDown, Button: ButtonPrimary, X: 70, Y: 70})
	if e.Grid().Len() != 0 {
		t.Fatalf("painting without a brush should do nothing")
	}
	e.HandlePointer(PointerEvent{Kind: PointerUp, Button: ButtonPrimary, X: 70, Y: 70})

	e.Input().SetBrush(brush)
	e.HandlePointer(PointerEvent{Kind: PointerDown, Button: ButtonPrimary, X: 70, Y: 70})
	if _, ok := e.Grid().At(grid.Coord{Col: 0, Row: 0}); !ok {
		t.Fatalf("down should paint the cell under the pointer")
	}
	if e.Input().State() != StatePainting {
		t.Fatalf("expected painting state, got %v", e.Input().State())
	}
	e.HandlePointer(PointerEvent{Kind: PointerMove, X: 140, Y: 140})
	if _, ok := e.Grid().At(grid.Coord{Col: 1, Row: 1}); !ok {
		t.Fatalf("drag should paint")
	}
	e.HandlePointer(PointerEvent{Kind: PointerMove, X: 1000, Y: 140})
	if e.Grid().Len() != 2 {
		t.Fatalf("out-of-bounds drag should not paint, have %d tiles", e.Grid().Len())
	}
	if _, ok := e.Input().Hover(); ok {
		t.Fatalf("hover should clear outside the map")
	}
	e.HandlePointer(PointerEvent{Kind: PointerUp, Button: ButtonPrimary, X: 1000, Y: 140})
	e.HandlePointer(PointerEvent{Kind: PointerMove, X: 200, Y: 70})
	if e.Grid().Len() != 2 {
		t.Fatalf("moving while idle should not paint")
	}
	if c, ok := e.Input().Hover(); !ok || c != (grid.Coord{Col: 2, Row: 0}) {
		t.Fatalf("expected hover (2,0), got %v %v", c, ok)
	}

	if !e.HandlePointer(PointerEvent{Kind: PointerContext, Button: ButtonSecondary, X: 70, Y: 70}) {
		t.Fatalf("context on a painted cell should erase")
	}
	if _, ok := e.Grid().At(grid.Coord{Col: 0, Row: 0}); ok {
		t.Fatalf("cell (0,0) should be erased")
	}
	e.HandlePointer(PointerEvent{Kind: PointerContext, Button: ButtonSecondary, X: 70, Y: 70})
	if e.Grid().Len() != 1 {
		t.Fatalf("erasing an empty cell should be a no-op")
	}
}

func TestInputRepaintReplaces(t *testing.T) {
	e := flatEditor(t, nil, nil)
	first, second := testTile(t, 4, 4), testTile(t, 6, 6)
	e.Input().SetBrush(first)
	e.HandlePointer(PointerEvent{Kind: PointerDown, Button: ButtonPrimary, X: 70, Y: 70})
	e.HandlePointer(PointerEvent{Kind: PointerUp, Button: ButtonPrimary, X: 70, Y: 70})
	e.Input().SetBrush(second)
	e.HandlePointer(PointerEvent{Kind: PointerDown, Button: ButtonPrimary, X: 70, Y: 70})

	got, _ := e.Grid().At(grid.Coord{})
	if e.Grid().Len() != 1 || got != second {
		t.Fatalf("repaint should leave only the second brush")
	}
}

func TestInputPanning(t *testing.T) {
	e := flatEditor(t, nil, nil)
	e.HandlePointer(PointerEvent{Kind: PointerMove, X: 70, Y: 70})

	e.HandlePointer(PointerEvent{Kind: PointerDown, Button: ButtonMiddle, X: 10, Y: 10})
	if e.Input().State() != StatePanning {
		t.Fatalf("middle button should pan")
	}
	if !e.HandlePointer(PointerEvent{Kind: PointerMove, X: 25, Y: 5}) {
		t.Fatalf("pan move should request a redraw")
	}
	e.HandlePointer(PointerEvent{Kind: PointerMove, X: 30, Y: 5})
	if got := e.Viewport().Origin; got != (common.Point{X: 84, Y: 59}) {
		t.Fatalf("unexpected origin after pan %+v", got)
	}
	if c, ok := e.Input().Hover(); !ok || c != (grid.Coord{}) {
		t.Fatalf("hover should not change while panning, got %v %v", c, ok)
	}

	e.HandlePointer(PointerEvent{Kind: PointerLeave, X: 30, Y: 5})
	if e.Input().State() != StateIdle {
		t.Fatalf("leave should end the gesture")
	}
	if _, ok := e.Input().Hover(); ok {
		t.Fatalf("leave should clear hover")
	}

	e.HandlePointer(PointerEvent{Kind: PointerDown, Button: ButtonSecondary, X: 70, Y: 70})
	if e.Input().State() != StateIdle {
		t.Fatalf("secondary down should be ignored")
	}
}

func TestCanvasCenteringRules(t *testing.T) {
	e := flatEditor(t, nil, nil)
	e.HandlePointer(PointerEvent{Kind: PointerDown, Button: ButtonMiddle})
	e.HandlePointer(PointerEvent{Kind: PointerMove, X: 5, Y: 5})
	e.HandlePointer(PointerEvent{Kind: PointerUp, Button: ButtonMiddle})

	e.ResizeCanvas(1000, 1000)
	if got := e.Viewport().Origin; got != (common.Point{X: 69, Y: 69}) {
		t.Fatalf("resize should keep the panned origin, got %+v", got)
	}
	e.SetProjection(grid.Isometric)
	if got := e.Viewport().Origin; got != (common.Point{X: 500, Y: 100}) {
		t.Fatalf("projection switch should recenter, got %+v", got)
	}
	if e.Viewport().TileHeight != 32 {
		t.Fatalf("isometric tile height should be half the width")
	}
}

func TestResizeFromText(t *testing.T) {
	e := flatEditor(t, nil, nil)
	e.Input().SetBrush(testTile(t, 2, 2))
	e.HandlePointer(PointerEvent{Kind: PointerDown, Button: ButtonPrimary, X: 200, Y: 140})
	if e.Grid().Len() != 1 {
		t.Fatalf("expected a tile at (2,1)")
	}
	e.SetWidth("abc")
	if e.Meta().Width != 3 {
		t.Fatalf("invalid text should keep the width, got %d", e.Meta().Width)
	}
	e.SetWidth("2")
	if e.Meta().Width != 2 || e.Grid().Len() != 0 {
		t.Fatalf("shrinking should drop the tile: width %d, tiles %d", e.Meta().Width, e.Grid().Len())
	}
	e.SetHeight("-5")
	if e.Meta().Height != 1 {
		t.Fatalf("negative height should become 1, got %d", e.Meta().Height)
	}
}

func TestPaletteSelectionBecomesBrush(t *testing.T) {
	rec := &recorder{}
	e := flatEditor(t, nil, rec)
	e.Palette().Upload([]palette.Upload{
		{Name: "a.png", MIME: "image/png", Data: pngData(t, 4, 4)},
		{Name: "b.png", MIME: "image/png", Data: pngData(t, 6, 3)},
	})
	if !e.SelectPaletteAt(palette.NewLayout(250), 75, 15) {
		t.Fatalf("expected to hit the second entry")
	}
	if _, ok := e.Input().Brush(); ok {
		t.Fatalf("brush should change on the next tick")
	}
	e.Tick()
	brush, ok := e.Input().Brush()
	if !ok || brush.Src.Width != 6 || brush.Src.Height != 3 {
		t.Fatalf("unexpected brush %+v %v", brush.Src, ok)
	}
	names := rec.names()
	if len(names) != 2 || names[0] != "palette_changed" || names[1] != "palette_selected" {
		t.Fatalf("unexpected events %v", names)
	}
}

func TestSaveTwiceOverwrites(t *testing.T) {
	store := levels.NewCollections(levels.NewMemoryBackend(), nil)
	rec := &recorder{}
	e := flatEditor(t, store, rec)
	e.Input().SetBrush(testTile(t, 4, 4))
	e.HandlePointer(PointerEvent{Kind: PointerDown, Button: ButtonPrimary, X: 70, Y: 70})

	id, err := e.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	e.HandlePointer(PointerEvent{Kind: PointerMove, X: 140, Y: 70})
	again, err := e.Save()
	if err != nil || again != id {
		t.Fatalf("second save should reuse %q, got %q %v", id, again, err)
	}

	maps, err := store.ListMaps()
	if err != nil {
		t.Fatalf("ListMaps: %v", err)
	}
	if len(maps) != 1 || maps[0].Tiles != 2 {
		t.Fatalf("expected one map with 2 tiles, got %+v", maps)
	}
	e.Tick()
	if names := rec.names(); len(names) != 2 || names[0] != "save_completed" {
		t.Fatalf("unexpected events %v", names)
	}
}

func TestLoadUnknownIDLeavesState(t *testing.T) {
	rec := &recorder{}
	e := flatEditor(t, nil, rec)
	e.Input().SetBrush(testTile(t, 4, 4))
	e.HandlePointer(PointerEvent{Kind: PointerDown, Button: ButtonPrimary, X: 70, Y: 70})
	e.HandlePointer(PointerEvent{Kind: PointerUp, Button: ButtonPrimary, X: 70, Y: 70})
	id, err := e.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	e.Tick()
	rec.events = nil

	metaBefore, viewBefore := e.Meta(), e.Viewport()
	tileBefore, _ := e.Grid().At(grid.Coord{})

	err = e.Load("does-not-exist")
	if !errors.Is(err, levels.ErrMapNotFound) {
		t.Fatalf("expected ErrMapNotFound, got %v", err)
	}
	tileAfter, ok := e.Grid().At(grid.Coord{})
	if !ok || tileAfter != tileBefore || e.Grid().Len() != 1 {
		t.Fatalf("grid changed after failed load")
	}
	if e.Meta() != metaBefore || e.Viewport() != viewBefore || e.MapID() != id {
		t.Fatalf("editor state changed after failed load")
	}
	e.Tick()
	if len(rec.events) != 1 {
		t.Fatalf("expected one event, got %v", rec.names())
	}
	if failed, ok := rec.events[0].(events.LoadFailed); !ok || failed.ID != "does-not-exist" {
		t.Fatalf("unexpected event %#v", rec.events[0])
	}
}

func TestLoadRestoresMap(t *testing.T) {
	store := levels.NewCollections(levels.NewMemoryBackend(), nil)
	src := flatEditor(t, store, nil)
	src.SetHeight("3")
	src.Input().SetBrush(testTile(t, 4, 4))
	for _, x := range []float64{70, 140, 200} {
		src.HandlePointer(PointerEvent{Kind: PointerDown, Button: ButtonPrimary, X: x, Y: 200})
		src.HandlePointer(PointerEvent{Kind: PointerUp, Button: ButtonPrimary, X: x, Y: 200})
	}
	id, err := src.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	rec := &recorder{}
	dst := New(Options{
		Meta:      grid.Metadata{Width: 9, Height: 9, Projection: grid.Isometric},
		TileWidth: 64,
		Style:     render.DefaultStyle(),
		Store:     store,
		Listener:  rec,
	})
	dst.ResizeCanvas(320, 256)
	if err := dst.Load(id); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if dst.Meta() != (grid.Metadata{Width: 3, Height: 3, Projection: grid.Flat}) {
		t.Fatalf("unexpected metadata %+v", dst.Meta())
	}
	if dst.Grid().Len() != 3 {
		t.Fatalf("expected 3 restored tiles, got %d", dst.Grid().Len())
	}
	if dst.MapID() != id {
		t.Fatalf("loaded map should adopt its id")
	}
	if got := dst.Viewport().Origin; got != (common.Point{X: 64, Y: 32}) {
		t.Fatalf("load should recenter, got %+v", got)
	}
	dst.Tick()
	var loaded *events.MapLoaded
	for _, evt := range rec.events {
		if m, ok := evt.(events.MapLoaded); ok {
			loaded = &m
		}
	}
	if loaded == nil || loaded.ID != id || loaded.Meta.Projection != grid.Flat {
		t.Fatalf("expected a map_loaded event, got %v", rec.names())
	}
}

func TestAsyncLoadDropsStaleTiles(t *testing.T) {
	store := levels.NewCollections(levels.NewMemoryBackend(), nil)
	img := testTile(t, 4, 4).Image
	tiles := func(keys ...string) []levels.TileRecord {
		out := make([]levels.TileRecord, 0, len(keys))
		for _, k := range keys {
			out = append(out, levels.TileRecord{Key: k, Image: img.DataURL(), Width: 4, Height: 4})
		}
		return out
	}
	first, err := store.SaveMap(levels.MapRecord{Width: 4, Height: 4, Projection: "flat", Tiles: tiles("0,0", "1,0", "2,0")})
	if err != nil {
		t.Fatalf("SaveMap: %v", err)
	}
	second, err := store.SaveMap(levels.MapRecord{Width: 4, Height: 4, Projection: "flat", Tiles: tiles("3,3")})
	if err != nil {
		t.Fatalf("SaveMap: %v", err)
	}

	box := &assets.Mailbox{}
	dec, err := assets.NewAsyncDecoder(nil, box, 2, 8)
	if err != nil {
		t.Fatalf("NewAsyncDecoder: %v", err)
	}
	defer dec.Close()

	e := New(Options{
		Meta:      grid.Metadata{Width: 2, Height: 2},
		TileWidth: 32,
		Store:     store,
		Decoder:   dec,
		Mailbox:   box,
	})
	if err := e.Load(first); err != nil {
		t.Fatalf("Load first: %v", err)
	}
	if err := e.Load(second); err != nil {
		t.Fatalf("Load second: %v", err)
	}
	dec.Wait()
	if e.Grid().Len() != 0 {
		t.Fatalf("tiles must not appear before the tick")
	}
	e.Tick()
	if e.Grid().Len() != 1 {
		t.Fatalf("expected only the second map's tile, got %d", e.Grid().Len())
	}
	if _, ok := e.Grid().At(grid.Coord{Col: 3, Row: 3}); !ok {
		t.Fatalf("missing tile (3,3)")
	}
}

func TestLoopStepRenders(t *testing.T) {
	e := New(Options{
		Meta:      grid.Metadata{Width: 2, Height: 2, Projection: grid.Flat},
		TileWidth: 32,
		Style:     render.DefaultStyle(),
	})
	surface := render.NewRecorder(128, 128)
	loop := NewLoop(e, surface)
	loop.Step()
	if loop.Frames() != 1 {
		t.Fatalf("expected one frame, got %d", loop.Frames())
	}
	if surface.Count(render.OpStrokePolygon) != 4 {
		t.Fatalf("expected 4 empty cell outlines, got %d", surface.Count(render.OpStrokePolygon))
	}
	if e.Viewport().Origin != (common.Point{X: 32, Y: 32}) {
		t.Fatalf("first frame should center the map, got %+v", e.Viewport().Origin)
	}

	loop.Interval = time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := loop.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run should stop with the context, got %v", err)
	}
	if loop.Frames() < 2 {
		t.Fatalf("expected frames while running, got %d", loop.Frames())
	}
}

func TestSchedulerRunsAddedSystems(t *testing.T) {
	e := New(Options{})
	ran := 0
	e.Scheduler().Add(SystemFunc(func(*Editor) { ran++ }))
	e.Scheduler().Add(nil)
	e.Tick()
	e.Tick()
	if ran != 2 {
		t.Fatalf("expected custom system to run twice, got %d", ran)
	}
	if len(e.Scheduler().Systems()) != 3 {
		t.Fatalf("expected 3 systems, got %d", len(e.Scheduler().Systems()))
	}
}
