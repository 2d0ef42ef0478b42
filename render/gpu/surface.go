// Package gpu draws the editor canvas with ebiten. It is kept apart from
// render so headless tools do not link the graphics driver.
package gpu

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/tilescape/assets"
	"github.com/milk9111/tilescape/common"
	"github.com/milk9111/tilescape/render"
)

var _ render.Surface = (*Surface)(nil)

// Surface draws onto an ebiten image. GPU copies of source images are
// created on first use and kept by asset id.
type Surface struct {
	target *ebiten.Image
	images map[string]*ebiten.Image
	white  *ebiten.Image
}

func NewSurface() *Surface {
	base := ebiten.NewImage(3, 3)
	base.Fill(color.White)
	return &Surface{
		images: make(map[string]*ebiten.Image),
		white:  base.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
	}
}

// SetTarget selects the image the next calls draw on.
func (s *Surface) SetTarget(dst *ebiten.Image) {
	s.target = dst
}

func (s *Surface) Size() (float64, float64) {
	if s.target == nil {
		return 0, 0
	}
	b := s.target.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (s *Surface) Clear(c color.Color) {
	if s.target != nil {
		s.target.Fill(c)
	}
}

// Texture returns the GPU image for img, uploading it once.
func (s *Surface) Texture(img *assets.Image) *ebiten.Image {
	if img == nil || img.Pixels == nil {
		return nil
	}
	if tex, ok := s.images[img.ID]; ok {
		return tex
	}
	tex := ebiten.NewImageFromImage(img.Pixels)
	s.images[img.ID] = tex
	return tex
}

// Forget drops cached textures whose ids are not in keep.
func (s *Surface) Forget(keep map[string]bool) {
	for id, tex := range s.images {
		if !keep[id] {
			tex.Deallocate()
			delete(s.images, id)
		}
	}
}

func (s *Surface) DrawImage(img *assets.Image, src, dst common.Rect) {
	tex := s.Texture(img)
	if s.target == nil || tex == nil || src.Empty() || dst.Empty() {
		return
	}
	origin := img.Pixels.Bounds().Min
	sx := float32(src.X + float64(origin.X))
	sy := float32(src.Y + float64(origin.Y))
	sw, sh := float32(src.Width), float32(src.Height)
	dx, dy := float32(dst.X), float32(dst.Y)
	dw, dh := float32(dst.Width), float32(dst.Height)

	vs := []ebiten.Vertex{
		{DstX: dx, DstY: dy, SrcX: sx, SrcY: sy, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: dx + dw, DstY: dy, SrcX: sx + sw, SrcY: sy, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: dx + dw, DstY: dy + dh, SrcX: sx + sw, SrcY: sy + sh, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: dx, DstY: dy + dh, SrcX: sx, SrcY: sy + sh, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
	}
	is := []uint16{0, 1, 2, 0, 2, 3}
	s.target.DrawTriangles(vs, is, tex, &ebiten.DrawTrianglesOptions{})
}

func (s *Surface) FillRect(r common.Rect, c color.Color) {
	if s.target == nil {
		return
	}
	vector.FillRect(s.target, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), c, false)
}

// FillPolygon fans triangles from the first point, so pts must be convex.
func (s *Surface) FillPolygon(pts []common.Point, c color.Color) {
	if s.target == nil || len(pts) < 3 {
		return
	}
	r, g, b, a := normalizedColor(c)
	vs := make([]ebiten.Vertex, len(pts))
	for i, p := range pts {
		vs[i] = ebiten.Vertex{
			DstX: float32(p.X), DstY: float32(p.Y),
			SrcX: 1, SrcY: 1,
			ColorR: r, ColorG: g, ColorB: b, ColorA: a,
		}
	}
	is := make([]uint16, 0, (len(pts)-2)*3)
	for i := 1; i+1 < len(pts); i++ {
		is = append(is, 0, uint16(i), uint16(i+1))
	}
	s.target.DrawTriangles(vs, is, s.white, &ebiten.DrawTrianglesOptions{})
}

func (s *Surface) StrokePolygon(pts []common.Point, width float64, c color.Color) {
	if s.target == nil || len(pts) < 2 {
		return
	}
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		vector.StrokeLine(s.target, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), float32(width), c, true)
	}
}

// normalizedColor converts c to straight-alpha components in [0,1].
func normalizedColor(c color.Color) (float32, float32, float32, float32) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return float32(n.R) / 0xff, float32(n.G) / 0xff, float32(n.B) / 0xff, float32(n.A) / 0xff
}
