package palette

import (
	"math"

	"github.com/milk9111/tilescape/common"
)

const (
	DefaultPadding = 10
	DefaultColumns = 4
)

// Layout places palette entries in a grid of square preview cells.
type Layout struct {
	Width   float64
	Padding float64
	Columns int
}

func NewLayout(width float64) Layout {
	return Layout{Width: width, Padding: DefaultPadding, Columns: DefaultColumns}
}

func (l Layout) columns() int {
	if l.Columns < 1 {
		return DefaultColumns
	}
	return l.Columns
}

// CellSize is the side of one square preview cell.
func (l Layout) CellSize() float64 {
	cols := float64(l.columns())
	return (l.Width - l.Padding*(cols+1)) / cols
}

// Height is the preview height needed for n entries.
func (l Layout) Height(n int) float64 {
	if n <= 0 {
		return 0
	}
	rows := (n + l.columns() - 1) / l.columns()
	return float64(rows)*(l.CellSize()+l.Padding) + l.Padding
}

func (l Layout) CellRect(i int) common.Rect {
	cols := l.columns()
	cell := l.CellSize()
	col, row := i%cols, i/cols
	return common.Rect{
		X:      l.Padding + float64(col)*(cell+l.Padding),
		Y:      l.Padding + float64(row)*(cell+l.Padding),
		Width:  cell,
		Height: cell,
	}
}

// IndexAt maps a point in the preview to an entry index. Points in the gap
// after a cell belong to that cell.
func (l Layout) IndexAt(x, y float64, n int) (int, bool) {
	cols := l.columns()
	step := l.CellSize() + l.Padding
	if step <= 0 {
		return 0, false
	}
	col := int(math.Floor((x - l.Padding) / step))
	row := int(math.Floor((y - l.Padding) / step))
	if col < 0 || col >= cols || row < 0 {
		return 0, false
	}
	idx := row*cols + col
	if idx >= n {
		return 0, false
	}
	return idx, true
}
