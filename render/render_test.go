package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/milk9111/tilescape/assets"
	"github.com/milk9111/tilescape/common"
	"github.com/milk9111/tilescape/grid"
)

func solidImage(t *testing.T, w, h int, c color.Color) *assets.Image {
	t.Helper()
	px := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, px); err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err := assets.Decode(buf.Bytes(), "image/png")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return img
}

func TestRenderFlatScenario(t *testing.T) {
	meta := grid.Metadata{Width: 3, Height: 2, Projection: grid.Flat}
	g := grid.NewTileGrid(meta.Width, meta.Height)
	img := solidImage(t, 16, 16, color.White)
	g.Set(grid.Coord{Col: 1, Row: 1}, grid.Tile{Image: img, Src: common.Rect{Width: 16, Height: 16}})

	view := grid.Recenter(meta, 640, 480, 64, grid.DefaultIsoTop)
	rec := NewRecorder(640, 480)
	NewEngine(DefaultStyle()).Render(rec, Scene{Grid: g, Viewport: view})

	if rec.Ops[0].Kind != OpClear {
		t.Fatalf("first op should clear, got %v", rec.Ops[0].Kind)
	}
	if n := rec.Count(OpImage); n != 1 {
		t.Fatalf("expected 1 filled cell, got %d", n)
	}
	if n := rec.Count(OpStrokePolygon); n != 5 {
		t.Fatalf("expected 5 outlined cells, got %d", n)
	}
	for _, op := range rec.Ops {
		if op.Kind != OpImage {
			continue
		}
		want := common.Rect{X: view.Origin.X + 64, Y: view.Origin.Y + 64, Width: 64, Height: 64}
		if op.Dst != want {
			t.Fatalf("tile destination: got %+v want %+v", op.Dst, want)
		}
		if op.Src != (common.Rect{Width: 16, Height: 16}) {
			t.Fatalf("tile source: got %+v", op.Src)
		}
	}
}

func TestRenderIsometricTallTile(t *testing.T) {
	tr := grid.NewViewport(64, grid.Isometric).Transformer()
	tile := grid.Tile{Src: common.Rect{Width: 64, Height: 80}}
	got := TileDestination(tr, grid.Coord{Col: 2, Row: 1}, tile)
	p := tr.GridToScreen(grid.Coord{Col: 2, Row: 1})
	want := common.Rect{X: p.X - 32, Y: p.Y - 16 - (80 - 32), Width: 64, Height: 80}
	if got != want {
		t.Fatalf("iso destination: got %+v want %+v", got, want)
	}
}

func TestRenderHoverDrawnLast(t *testing.T) {
	g := grid.NewTileGrid(2, 2)
	view := grid.NewViewport(32, grid.Isometric)
	hover := grid.Coord{Col: 1, Row: 0}
	rec := NewRecorder(200, 200)
	NewEngine(DefaultStyle()).Render(rec, Scene{Grid: g, Viewport: view, Hover: &hover})

	n := len(rec.Ops)
	if n < 2 {
		t.Fatalf("expected ops, got %d", n)
	}
	if rec.Ops[n-2].Kind != OpFillPolygon || rec.Ops[n-1].Kind != OpStrokePolygon {
		t.Fatalf("hover highlight should be the last two ops")
	}
	if rec.Ops[n-1].Width != 2 {
		t.Fatalf("hover stroke width: got %v", rec.Ops[n-1].Width)
	}
	if rec.Count(OpStrokePolygon) != 5 {
		t.Fatalf("expected 4 cell outlines plus the hover stroke, got %d", rec.Count(OpStrokePolygon))
	}

	outside := grid.Coord{Col: 5, Row: 0}
	NewEngine(DefaultStyle()).Render(rec, Scene{Grid: g, Viewport: view, Hover: &outside})
	if rec.Count(OpFillPolygon) != 0 {
		t.Fatalf("out-of-bounds hover should not be highlighted")
	}
}

func TestRecorderFramesDoNotAlias(t *testing.T) {
	rec := NewRecorder(10, 10)
	rec.Clear(color.Black)
	rec.FillRect(common.Rect{Width: 1, Height: 1}, color.White)
	first := rec.Ops

	rec.Clear(color.White)
	rec.StrokePolygon(common.Rect{Width: 2, Height: 2}.Corners(), 1, color.Black)

	if len(first) != 2 || first[0].Color != color.Black || first[1].Kind != OpFillRect {
		t.Fatalf("earlier frame was overwritten: %+v", first)
	}
	if len(rec.Ops) != 2 || rec.Ops[1].Kind != OpStrokePolygon {
		t.Fatalf("unexpected current frame: %+v", rec.Ops)
	}
}

func TestRenderDoesNotMutateGrid(t *testing.T) {
	g := grid.NewTileGrid(2, 2)
	g.Set(grid.Coord{}, grid.Tile{Src: common.Rect{Width: 1, Height: 1}})
	view := grid.NewViewport(32, grid.Flat)
	before := view
	NewEngine(DefaultStyle()).Render(NewRecorder(10, 10), Scene{Grid: g, Viewport: view})
	if g.Len() != 1 || view != before {
		t.Fatalf("render must not change its inputs")
	}
}

func TestRasterSurfaceDrawsTiles(t *testing.T) {
	meta := grid.Metadata{Width: 2, Height: 1, Projection: grid.Flat}
	g := grid.NewTileGrid(meta.Width, meta.Height)
	red := color.NRGBA{R: 0xff, A: 0xff}
	g.Set(grid.Coord{Col: 0, Row: 0}, grid.Tile{Image: solidImage(t, 4, 4, red), Src: common.Rect{Width: 4, Height: 4}})

	surface := NewRasterSurface(64, 32)
	view := grid.Recenter(meta, 64, 32, 32, grid.DefaultIsoTop)
	NewEngine(DefaultStyle()).Render(surface, Scene{Grid: g, Viewport: view})

	if got := surface.Image().RGBAAt(10, 10); got != (color.RGBA{R: 0xff, A: 0xff}) {
		t.Fatalf("painted cell pixel: got %+v", got)
	}
	if got := surface.Image().RGBAAt(48, 16); got != (color.RGBA{A: 0xff}) {
		t.Fatalf("empty cell interior should be background, got %+v", got)
	}
	if got := surface.Image().RGBAAt(32, 16); got != (color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}) {
		t.Fatalf("empty cell edge should be grid color, got %+v", got)
	}

	var buf bytes.Buffer
	if err := surface.WritePNG(&buf); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatalf("png output does not decode: %v", err)
	}
}

func TestRasterFillPolygon(t *testing.T) {
	s := NewRasterSurface(20, 20)
	s.Clear(color.Black)
	s.FillPolygon(common.Rect{X: 5, Y: 5, Width: 10, Height: 10}.Corners(), color.White)
	if s.Image().RGBAAt(10, 10) != (color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}) {
		t.Fatalf("polygon interior should be filled")
	}
	if s.Image().RGBAAt(4, 10) != (color.RGBA{A: 0xff}) || s.Image().RGBAAt(15, 10) != (color.RGBA{A: 0xff}) {
		t.Fatalf("pixels outside the polygon should be untouched")
	}
}

func TestRasterStrokeWidth(t *testing.T) {
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	black := color.RGBA{A: 0xff}
	s := NewRasterSurface(20, 20)
	s.Clear(color.Black)
	s.StrokePolygon(common.Rect{X: 5, Y: 5, Width: 10, Height: 10}.Corners(), 3, color.White)

	for _, x := range []int{4, 5, 6} {
		if got := s.Image().RGBAAt(x, 10); got != white {
			t.Fatalf("column %d should be covered by the left edge, got %+v", x, got)
		}
	}
	if got := s.Image().RGBAAt(5, 4); got != white {
		t.Fatalf("corner should be covered by the edge caps, got %+v", got)
	}
	for _, p := range []image.Point{{3, 10}, {10, 10}, {7, 10}, {17, 10}} {
		if got := s.Image().RGBAAt(p.X, p.Y); got != black {
			t.Fatalf("pixel %v should be untouched, got %+v", p, got)
		}
	}
}

func TestRasterSkipsOffscreenPolygons(t *testing.T) {
	s := NewRasterSurface(8, 8)
	s.Clear(color.Black)
	far := common.Rect{X: 1e6, Y: 1e6, Width: 10, Height: 10}.Corners()
	s.FillPolygon(far, color.White)
	s.StrokePolygon(far, 2, color.White)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if got := s.Image().RGBAAt(x, y); got != (color.RGBA{A: 0xff}) {
				t.Fatalf("pixel (%d,%d) changed to %+v", x, y, got)
			}
		}
	}
}

func TestParseHexColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.NRGBA
	}{
		{"#333", color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}},
		{"#3c78ff", color.NRGBA{R: 0x3c, G: 0x78, B: 0xff, A: 0xff}},
		{"ffffff33", color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x33}},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := ParseHexColor(c.in)
			if err != nil || got != c.want {
				t.Fatalf("ParseHexColor(%q) = %+v, %v", c.in, got, err)
			}
			if back, _ := ParseHexColor(HexColor(got)); back != got {
				t.Fatalf("HexColor round trip: %+v", back)
			}
		})
	}
	if _, err := ParseHexColor("#12"); err == nil {
		t.Fatalf("expected error for short color")
	}
}
