package grid

import "github.com/milk9111/tilescape/common"

// Transformer maps between grid cells and canvas pixels. GridToScreen gives
// the anchor of a cell: the top-left corner under Flat, the top corner of
// the diamond under Isometric.
type Transformer struct {
	TileWidth  float64
	TileHeight float64
	Origin     common.Point
	Projection Projection
}

func (t Transformer) GridToScreen(c Coord) common.Point {
	col, row := float64(c.Col), float64(c.Row)
	if t.Projection == Isometric {
		return common.Point{
			X: t.Origin.X + (col-row)*(t.TileWidth/2),
			Y: t.Origin.Y + (col+row)*(t.TileHeight/2),
		}
	}
	return common.Point{
		X: t.Origin.X + col*t.TileWidth,
		Y: t.Origin.Y + row*t.TileWidth,
	}
}

// ScreenToGrid returns the cell under a canvas point. The result may be out
// of the map's bounds. Points on a cell boundary go to the higher index.
func (t Transformer) ScreenToGrid(sx, sy float64) Coord {
	dx := sx - t.Origin.X
	dy := sy - t.Origin.Y
	if t.Projection == Isometric {
		u := dx / (t.TileWidth / 2)
		v := dy / (t.TileHeight / 2)
		return Coord{
			Col: common.FloorInt((u + v) / 2),
			Row: common.FloorInt((v - u) / 2),
		}
	}
	return Coord{
		Col: common.FloorInt(dx / t.TileWidth),
		Row: common.FloorInt(dy / t.TileWidth),
	}
}

// CellCenter is the visual center of a cell.
func (t Transformer) CellCenter(c Coord) common.Point {
	p := t.GridToScreen(c)
	if t.Projection == Isometric {
		return p.Add(0, t.TileHeight/2)
	}
	return p.Add(t.TileWidth/2, t.TileWidth/2)
}

// CellOutline returns the cell polygon clockwise from the top.
func (t Transformer) CellOutline(c Coord) []common.Point {
	p := t.GridToScreen(c)
	if t.Projection == Isometric {
		hw, hh := t.TileWidth/2, t.TileHeight/2
		return []common.Point{
			{X: p.X, Y: p.Y},
			{X: p.X + hw, Y: p.Y + hh},
			{X: p.X, Y: p.Y + t.TileHeight},
			{X: p.X - hw, Y: p.Y + hh},
		}
	}
	return t.CellBounds(c).Corners()
}

// CellBounds is the axis-aligned box around a cell.
func (t Transformer) CellBounds(c Coord) common.Rect {
	p := t.GridToScreen(c)
	if t.Projection == Isometric {
		return common.Rect{
			X:      p.X - t.TileWidth/2,
			Y:      p.Y,
			Width:  t.TileWidth,
			Height: t.TileHeight,
		}
	}
	return common.Rect{X: p.X, Y: p.Y, Width: t.TileWidth, Height: t.TileWidth}
}
