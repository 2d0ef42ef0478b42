package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/tilescape/common"
	"github.com/milk9111/tilescape/editor"
)

var pointerButtons = []struct {
	mouse  ebiten.MouseButton
	button editor.Button
}{
	{ebiten.MouseButtonLeft, editor.ButtonPrimary},
	{ebiten.MouseButtonMiddle, editor.ButtonMiddle},
	{ebiten.MouseButtonRight, editor.ButtonSecondary},
}

// pointerTracker turns ebiten mouse state into canvas pointer events.
type pointerTracker struct {
	inside bool
	lastX  float64
	lastY  float64
}

// Poll returns this frame's events in canvas coordinates. Presses that start
// outside the canvas are ignored; releases are always reported so a drag
// that leaves the canvas still ends.
func (p *pointerTracker) Poll(canvas common.Rect) []editor.PointerEvent {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx)-canvas.X, float64(my)-canvas.Y
	inside := canvas.Contains(common.Point{X: float64(mx), Y: float64(my)})

	var out []editor.PointerEvent
	if !inside {
		if p.inside {
			out = append(out, editor.PointerEvent{Kind: editor.PointerLeave, X: x, Y: y})
		}
		for _, b := range pointerButtons {
			if inpututil.IsMouseButtonJustReleased(b.mouse) {
				out = append(out, editor.PointerEvent{Kind: editor.PointerUp, Button: b.button, X: x, Y: y})
			}
		}
		p.inside = false
		return out
	}

	if !p.inside || x != p.lastX || y != p.lastY {
		out = append(out, editor.PointerEvent{Kind: editor.PointerMove, X: x, Y: y})
	}
	p.inside = true
	p.lastX, p.lastY = x, y

	for _, b := range pointerButtons {
		if inpututil.IsMouseButtonJustPressed(b.mouse) {
			out = append(out, editor.PointerEvent{Kind: editor.PointerDown, Button: b.button, X: x, Y: y})
			if b.button == editor.ButtonSecondary {
				out = append(out, editor.PointerEvent{Kind: editor.PointerContext, Button: b.button, X: x, Y: y})
			}
		}
		if inpututil.IsMouseButtonJustReleased(b.mouse) {
			out = append(out, editor.PointerEvent{Kind: editor.PointerUp, Button: b.button, X: x, Y: y})
		}
	}
	return out
}
