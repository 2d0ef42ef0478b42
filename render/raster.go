package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/milk9111/tilescape/assets"
	"github.com/milk9111/tilescape/common"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// RasterSurface draws into an in-memory RGBA image. It backs headless
// export where no GPU context exists.
type RasterSurface struct {
	img    *image.RGBA
	scaler draw.Scaler
}

func NewRasterSurface(width, height int) *RasterSurface {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &RasterSurface{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		scaler: draw.NearestNeighbor,
	}
}

// SetSmooth switches image scaling to bilinear filtering.
func (r *RasterSurface) SetSmooth(smooth bool) {
	if smooth {
		r.scaler = draw.ApproxBiLinear
	} else {
		r.scaler = draw.NearestNeighbor
	}
}

func (r *RasterSurface) Image() *image.RGBA { return r.img }

func (r *RasterSurface) Size() (float64, float64) {
	b := r.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (r *RasterSurface) Clear(c color.Color) {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func (r *RasterSurface) DrawImage(img *assets.Image, src, dst common.Rect) {
	if img == nil || img.Pixels == nil || src.Empty() || dst.Empty() {
		return
	}
	origin := img.Pixels.Bounds().Min
	sr := src.Image().Add(origin).Intersect(img.Pixels.Bounds())
	dr := dst.Image()
	if sr.Empty() || dr.Empty() {
		return
	}
	r.scaler.Scale(r.img, dr, img.Pixels, sr, draw.Over, nil)
}

func (r *RasterSurface) FillRect(rect common.Rect, c color.Color) {
	draw.Draw(r.img, rect.Image(), image.NewUniform(c), image.Point{}, draw.Over)
}

// FillPolygon fills pts with anti-aliased coverage.
func (r *RasterSurface) FillPolygon(pts []common.Point, c color.Color) {
	if len(pts) < 3 || !r.touches(pts, 0) {
		return
	}
	z := r.rasterizer()
	z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X), float32(p.Y))
	}
	z.ClosePath()
	z.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{})
}

// StrokePolygon outlines the closed polygon pts. Each edge becomes a quad
// extended by half the width at both ends so corners are covered. Odd widths
// are centered on pixel centers to stay crisp.
func (r *RasterSurface) StrokePolygon(pts []common.Point, width float64, c color.Color) {
	if len(pts) < 2 {
		return
	}
	w := math.Max(1, math.Round(width))
	if !r.touches(pts, w) {
		return
	}
	snap := 0.0
	if int(w)%2 == 1 {
		snap = 0.5
	}
	half := w / 2

	z := r.rasterizer()
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		dx, dy := b.X-a.X, b.Y-a.Y
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		ux, uy := dx/length*half, dy/length*half
		nx, ny := -uy, ux
		ax, ay := a.X+snap-ux, a.Y+snap-uy
		bx, by := b.X+snap+ux, b.Y+snap+uy
		z.MoveTo(float32(ax-nx), float32(ay-ny))
		z.LineTo(float32(bx-nx), float32(by-ny))
		z.LineTo(float32(bx+nx), float32(by+ny))
		z.LineTo(float32(ax+nx), float32(ay+ny))
		z.ClosePath()
	}
	z.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{})
}

func (r *RasterSurface) rasterizer() *vector.Rasterizer {
	b := r.img.Bounds()
	return vector.NewRasterizer(b.Dx(), b.Dy())
}

// touches reports whether pts, grown by pad, overlap the surface.
func (r *RasterSurface) touches(pts []common.Point, pad float64) bool {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	w, h := r.Size()
	box := common.Rect{X: minX - pad, Y: minY - pad, Width: maxX - minX + 2*pad, Height: maxY - minY + 2*pad}
	return box.Intersects(common.Rect{Width: w, Height: h})
}

// WritePNG encodes the surface.
func (r *RasterSurface) WritePNG(w io.Writer) error {
	if err := png.Encode(w, r.img); err != nil {
		return fmt.Errorf("render: write png: %w", err)
	}
	return nil
}
