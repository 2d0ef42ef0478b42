package editor

import "github.com/milk9111/tilescape/events"

// System is one step of an editor tick.
type System interface {
	Update(e *Editor)
}

type SystemFunc func(e *Editor)

func (f SystemFunc) Update(e *Editor) { f(e) }

// Scheduler runs systems in the order they were added.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	copied := append([]System(nil), systems...)
	return &Scheduler{systems: copied}
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) Update(e *Editor) {
	for _, system := range s.systems {
		system.Update(e)
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}

// completionSystem runs decode callbacks posted by worker goroutines.
type completionSystem struct{}

func (completionSystem) Update(e *Editor) {
	if e.mailbox != nil {
		e.mailbox.Drain()
	}
}

// eventSystem applies palette selections to the brush and forwards every
// event to the listener.
type eventSystem struct{}

func (eventSystem) Update(e *Editor) {
	if e.redrawPending {
		e.redrawPending = false
		e.queue.Publish(events.RedrawRequested{})
	}
	for _, evt := range e.queue.Drain() {
		e.apply(evt)
		if e.listener != nil {
			e.listener.Handle(evt)
		}
	}
}
