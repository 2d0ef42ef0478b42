package grid

import (
	"sort"

	"github.com/milk9111/tilescape/assets"
	"github.com/milk9111/tilescape/common"
)

// Tile is a painted cell: a region of a shared source image.
type Tile struct {
	Image *assets.Image
	Src   common.Rect
}

// TileGrid is a sparse map of painted cells. Coordinates outside the bounds
// are never stored.
type TileGrid struct {
	width  int
	height int
	tiles  map[Coord]Tile
}

func NewTileGrid(width, height int) *TileGrid {
	meta := Metadata{Width: width, Height: height}.Sanitize()
	return &TileGrid{
		width:  meta.Width,
		height: meta.Height,
		tiles:  make(map[Coord]Tile),
	}
}

func (g *TileGrid) Width() int  { return g.width }
func (g *TileGrid) Height() int { return g.height }

func (g *TileGrid) InBounds(c Coord) bool {
	return c.Col >= 0 && c.Row >= 0 && c.Col < g.width && c.Row < g.height
}

// Set paints c, replacing whatever was there. It reports false when c is out
// of bounds.
func (g *TileGrid) Set(c Coord, t Tile) bool {
	if !g.InBounds(c) {
		return false
	}
	g.tiles[c] = t
	return true
}

func (g *TileGrid) At(c Coord) (Tile, bool) {
	t, ok := g.tiles[c]
	return t, ok
}

// Remove erases c and reports whether a tile was there.
func (g *TileGrid) Remove(c Coord) bool {
	if _, ok := g.tiles[c]; !ok {
		return false
	}
	delete(g.tiles, c)
	return true
}

func (g *TileGrid) Clear() {
	clear(g.tiles)
}

func (g *TileGrid) Len() int {
	return len(g.tiles)
}

// Resize changes the bounds and drops tiles that fall outside them.
func (g *TileGrid) Resize(width, height int) {
	meta := Metadata{Width: width, Height: height}.Sanitize()
	g.width, g.height = meta.Width, meta.Height
	for c := range g.tiles {
		if !g.InBounds(c) {
			delete(g.tiles, c)
		}
	}
}

// Each visits painted cells in row-major order. Returning false stops the
// walk.
func (g *TileGrid) Each(fn func(Coord, Tile) bool) {
	for _, c := range g.Coords() {
		if !fn(c, g.tiles[c]) {
			return
		}
	}
}

// Coords lists painted cells in row-major order.
func (g *TileGrid) Coords() []Coord {
	coords := make([]Coord, 0, len(g.tiles))
	for c := range g.tiles {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Row != coords[j].Row {
			return coords[i].Row < coords[j].Row
		}
		return coords[i].Col < coords[j].Col
	})
	return coords
}
