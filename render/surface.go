// Package render draws a tile grid onto a drawing surface.
package render

import (
	"image/color"

	"github.com/milk9111/tilescape/assets"
	"github.com/milk9111/tilescape/common"
)

// Surface is a 2D drawing target. Coordinates are canvas pixels.
type Surface interface {
	Size() (width, height float64)
	Clear(c color.Color)
	// DrawImage scales the src region of img into dst.
	DrawImage(img *assets.Image, src, dst common.Rect)
	FillRect(r common.Rect, c color.Color)
	FillPolygon(pts []common.Point, c color.Color)
	// StrokePolygon draws the closed outline through pts.
	StrokePolygon(pts []common.Point, width float64, c color.Color)
}
