package editor

import "github.com/milk9111/tilescape/grid"

type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerLeave
	// PointerContext is the context-menu gesture, usually a secondary click.
	PointerContext
)

type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// PointerEvent is a pointer sample in canvas coordinates.
type PointerEvent struct {
	Kind   PointerKind
	Button Button
	X, Y   float64
}

type InputState int

const (
	StateIdle InputState = iota
	StatePanning
	StatePainting
)

func (s InputState) String() string {
	switch s {
	case StatePanning:
		return "panning"
	case StatePainting:
		return "painting"
	default:
		return "idle"
	}
}

// InputController turns pointer events into pan, paint and erase actions.
type InputController struct {
	state      InputState
	lastX      float64
	lastY      float64
	hover      grid.Coord
	hoverValid bool
	brush      grid.Tile
	hasBrush   bool
}

func (ic *InputController) State() InputState { return ic.state }

// Hover returns the cell under the pointer, if it is inside the map.
func (ic *InputController) Hover() (grid.Coord, bool) {
	return ic.hover, ic.hoverValid
}

func (ic *InputController) SetBrush(t grid.Tile) {
	ic.brush = t
	ic.hasBrush = true
}

func (ic *InputController) ClearBrush() {
	ic.brush = grid.Tile{}
	ic.hasBrush = false
}

func (ic *InputController) Brush() (grid.Tile, bool) {
	return ic.brush, ic.hasBrush
}

// Reset drops any gesture in progress and the hover cell. The brush stays.
func (ic *InputController) Reset() {
	ic.state = StateIdle
	ic.hoverValid = false
}

// Handle applies ev to g and view and reports whether anything visible
// changed.
func (ic *InputController) Handle(ev PointerEvent, g *grid.TileGrid, view *grid.Viewport) bool {
	switch ev.Kind {
	case PointerDown:
		switch ev.Button {
		case ButtonMiddle:
			ic.state = StatePanning
			ic.lastX, ic.lastY = ev.X, ev.Y
			return false
		case ButtonPrimary:
			ic.state = StatePainting
			changed := ic.updateHover(ev, g, view)
			return ic.paint(g) || changed
		}
		return false

	case PointerMove:
		if ic.state == StatePanning {
			view.Pan(ev.X-ic.lastX, ev.Y-ic.lastY)
			ic.lastX, ic.lastY = ev.X, ev.Y
			return true
		}
		changed := ic.updateHover(ev, g, view)
		if ic.state == StatePainting {
			changed = ic.paint(g) || changed
		}
		return changed

	case PointerUp:
		ic.state = StateIdle
		return false

	case PointerLeave:
		ic.state = StateIdle
		had := ic.hoverValid
		ic.hoverValid = false
		return had

	case PointerContext:
		changed := ic.updateHover(ev, g, view)
		if ic.hoverValid && g.Remove(ic.hover) {
			return true
		}
		return changed
	}
	return false
}

func (ic *InputController) updateHover(ev PointerEvent, g *grid.TileGrid, view *grid.Viewport) bool {
	c := view.Transformer().ScreenToGrid(ev.X, ev.Y)
	valid := g.InBounds(c)
	changed := valid != ic.hoverValid || (valid && c != ic.hover)
	ic.hover, ic.hoverValid = c, valid
	return changed
}

func (ic *InputController) paint(g *grid.TileGrid) bool {
	if !ic.hoverValid || !ic.hasBrush {
		return false
	}
	if cur, ok := g.At(ic.hover); ok && cur == ic.brush {
		return false
	}
	return g.Set(ic.hover, ic.brush)
}
