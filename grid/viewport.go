package grid

import "github.com/milk9111/tilescape/common"

// DefaultIsoTop is the screen Y of the top corner of cell (0,0) when an
// isometric map is centered.
const DefaultIsoTop = 100

// Viewport is the transient view state of the canvas. It is never persisted.
type Viewport struct {
	TileWidth  float64
	TileHeight float64
	Origin     common.Point
	Projection Projection
}

// NewViewport derives the tile height from the projection.
func NewViewport(tileWidth float64, p Projection) Viewport {
	v := Viewport{TileWidth: tileWidth, Projection: p}
	v.SetProjection(p)
	return v
}

func (v *Viewport) SetProjection(p Projection) {
	v.Projection = p
	if p == Isometric {
		v.TileHeight = v.TileWidth / 2
	} else {
		v.TileHeight = v.TileWidth
	}
}

// Pan moves the origin by a raw pixel delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.Origin = v.Origin.Add(dx, dy)
}

func (v Viewport) Transformer() Transformer {
	return Transformer{
		TileWidth:  v.TileWidth,
		TileHeight: v.TileHeight,
		Origin:     v.Origin,
		Projection: v.Projection,
	}
}

// Recenter places the map in the middle of a canvas. Isometric maps hang
// from isoTop with cell (0,0) at the horizontal center; flat maps are
// centered on both axes.
func Recenter(meta Metadata, canvasW, canvasH, tileWidth, isoTop float64) Viewport {
	meta = meta.Sanitize()
	v := NewViewport(tileWidth, meta.Projection)
	if meta.Projection == Isometric {
		v.Origin = common.Point{X: canvasW / 2, Y: isoTop}
		return v
	}
	v.Origin = common.Point{
		X: (canvasW - float64(meta.Width)*tileWidth) / 2,
		Y: (canvasH - float64(meta.Height)*tileWidth) / 2,
	}
	return v
}
