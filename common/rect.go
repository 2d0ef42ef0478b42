package common

import (
	"image"
	"math"
)

type Point struct {
	X, Y float64
}

func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Rect is an axis-aligned rectangle with float bounds. Sheet slicing can
// produce fractional edges, so source regions are kept in float space.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

func (r Rect) Corners() []Point {
	return []Point{
		{X: r.X, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y + r.Height},
		{X: r.X, Y: r.Y + r.Height},
	}
}

// Image rounds the rectangle to integer pixel bounds.
func (r Rect) Image() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.X+r.Width)),
		int(math.Round(r.Y+r.Height)),
	)
}

// Fit returns the largest rectangle with the aspect ratio of w×h that fits
// inside r, centered.
func (r Rect) Fit(w, h float64) Rect {
	if w <= 0 || h <= 0 {
		return Rect{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
	}
	scale := math.Min(r.Width/w, r.Height/h)
	fw := w * scale
	fh := h * scale
	return Rect{
		X:      r.X + (r.Width-fw)/2,
		Y:      r.Y + (r.Height-fh)/2,
		Width:  fw,
		Height: fh,
	}
}
