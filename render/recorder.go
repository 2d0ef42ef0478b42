package render

import (
	"image/color"

	"github.com/milk9111/tilescape/assets"
	"github.com/milk9111/tilescape/common"
)

type OpKind int

const (
	OpClear OpKind = iota
	OpImage
	OpFillRect
	OpFillPolygon
	OpStrokePolygon
)

// Op is one recorded draw call.
type Op struct {
	Kind   OpKind
	Color  color.Color
	Image  *assets.Image
	Src    common.Rect
	Dst    common.Rect
	Points []common.Point
	Width  float64
}

// Recorder is a Surface that keeps a display list instead of drawing.
type Recorder struct {
	W, H float64
	Ops  []Op
}

func NewRecorder(w, h float64) *Recorder {
	return &Recorder{W: w, H: h}
}

func (r *Recorder) Size() (float64, float64) { return r.W, r.H }

// Clear starts a new display list. Slices taken from Ops earlier keep their
// contents.
func (r *Recorder) Clear(c color.Color) {
	r.Ops = []Op{{Kind: OpClear, Color: c}}
}

func (r *Recorder) DrawImage(img *assets.Image, src, dst common.Rect) {
	r.Ops = append(r.Ops, Op{Kind: OpImage, Image: img, Src: src, Dst: dst})
}

func (r *Recorder) FillRect(rect common.Rect, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpFillRect, Dst: rect, Color: c})
}

func (r *Recorder) FillPolygon(pts []common.Point, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpFillPolygon, Points: append([]common.Point(nil), pts...), Color: c})
}

func (r *Recorder) StrokePolygon(pts []common.Point, width float64, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokePolygon, Points: append([]common.Point(nil), pts...), Width: width, Color: c})
}

// Count returns how many ops of kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}
