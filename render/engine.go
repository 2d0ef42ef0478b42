package render

import (
	"github.com/milk9111/tilescape/common"
	"github.com/milk9111/tilescape/grid"
)

// Scene is everything one frame needs. Hover is nil when the pointer is not
// over a cell.
type Scene struct {
	Grid     *grid.TileGrid
	Viewport grid.Viewport
	Hover    *grid.Coord
}

type Engine struct {
	Style Style
}

func NewEngine(style Style) *Engine {
	return &Engine{Style: style}
}

// Render paints the whole scene. Cells are drawn in row-major order and the
// hover highlight goes on top. Render only reads the scene.
func (e *Engine) Render(s Surface, scene Scene) {
	s.Clear(e.Style.Background)
	if scene.Grid == nil {
		return
	}

	tr := scene.Viewport.Transformer()
	for row := 0; row < scene.Grid.Height(); row++ {
		for col := 0; col < scene.Grid.Width(); col++ {
			c := grid.Coord{Col: col, Row: row}
			if tile, ok := scene.Grid.At(c); ok && tile.Image != nil {
				s.DrawImage(tile.Image, tile.Src, TileDestination(tr, c, tile))
				continue
			}
			s.StrokePolygon(tr.CellOutline(c), e.Style.GridLineWidth, e.Style.GridLine)
		}
	}

	if scene.Hover != nil && scene.Grid.InBounds(*scene.Hover) {
		outline := tr.CellOutline(*scene.Hover)
		s.FillPolygon(outline, e.Style.HoverFill)
		s.StrokePolygon(outline, e.Style.HoverStrokeWidth, e.Style.HoverStroke)
	}
}

// TileDestination is where a painted tile lands on the canvas. Flat tiles are
// stretched to the square cell. Isometric tiles keep their source height and
// grow upward, so tall sprites overlap the row behind them.
func TileDestination(tr grid.Transformer, c grid.Coord, tile grid.Tile) common.Rect {
	p := tr.GridToScreen(c)
	if tr.Projection == grid.Isometric {
		h := tile.Src.Height
		return common.Rect{
			X:      p.X - tr.TileWidth/2,
			Y:      p.Y - tr.TileHeight/2 - (h - tr.TileHeight),
			Width:  tr.TileWidth,
			Height: h,
		}
	}
	return common.Rect{X: p.X, Y: p.Y, Width: tr.TileWidth, Height: tr.TileWidth}
}
