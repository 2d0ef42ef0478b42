package palette

import (
	"image/color"

	"github.com/milk9111/tilescape/render"
)

type PreviewStyle struct {
	Background    color.NRGBA
	Cell          color.NRGBA
	Selected      color.NRGBA
	SelectedWidth float64
}

func DefaultPreviewStyle() PreviewStyle {
	return PreviewStyle{
		Background:    color.NRGBA{R: 0x28, G: 0x28, B: 0x28, A: 0xff},
		Cell:          color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff},
		Selected:      color.NRGBA{R: 0xff, G: 0xff, A: 0xff},
		SelectedWidth: 3,
	}
}

// DrawPreview draws entries into their layout cells, each scaled to fit and
// centered, and outlines the selected cell.
func DrawPreview(s render.Surface, l Layout, entries []Entry, selected int, style PreviewStyle) {
	s.Clear(style.Background)
	for i, e := range entries {
		cell := l.CellRect(i)
		s.FillRect(cell, style.Cell)
		s.DrawImage(e.Image, e.Src, cell.Fit(e.Src.Width, e.Src.Height))
		if i == selected {
			s.StrokePolygon(cell.Corners(), style.SelectedWidth, style.Selected)
		}
	}
}

// Draw renders the slicer's current palette.
func (s *Slicer) Draw(dst render.Surface, l Layout, style PreviewStyle) {
	DrawPreview(dst, l, s.entries, s.selected, style)
}
