package editor

import (
	"context"
	"time"

	"github.com/milk9111/tilescape/render"
)

// DefaultFrameInterval is roughly one display refresh.
const DefaultFrameInterval = time.Second / 60

// Loop redraws the editor at a fixed cadence. Every frame runs a Tick and
// then renders the whole scene, so tiles restored in the background show up
// without any explicit trigger.
type Loop struct {
	Editor   *Editor
	Surface  render.Surface
	Interval time.Duration

	frames uint64
}

func NewLoop(e *Editor, s render.Surface) *Loop {
	return &Loop{Editor: e, Surface: s, Interval: DefaultFrameInterval}
}

// Step runs one frame.
func (l *Loop) Step() {
	l.Editor.Tick()
	if l.Surface != nil {
		w, h := l.Surface.Size()
		l.Editor.ResizeCanvas(w, h)
		l.Editor.Render(l.Surface)
	}
	l.frames++
}

func (l *Loop) Frames() uint64 { return l.frames }

// Run steps until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	interval := l.Interval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Step()
		}
	}
}
