package events

import "testing"

func TestQueueDrainIsFIFO(t *testing.T) {
	var q Queue
	q.Publish(SaveCompleted{ID: "a"})
	q.Publish(nil)
	q.Publish(RedrawRequested{})
	q.Publish(LoadFailed{ID: "b"})

	if q.Len() != 3 {
		t.Fatalf("expected 3 queued events, got %d", q.Len())
	}
	got := q.Drain()
	want := []string{"save_completed", "redraw_requested", "load_failed"}
	for i, evt := range got {
		if evt.Name() != want[i] {
			t.Fatalf("event %d: got %s want %s", i, evt.Name(), want[i])
		}
	}
	if q.Drain() != nil {
		t.Fatalf("second drain should be empty")
	}
}

func TestNilQueueIsSafe(t *testing.T) {
	var q *Queue
	q.Publish(RedrawRequested{})
	if q.Drain() != nil || q.Len() != 0 {
		t.Fatalf("nil queue should stay empty")
	}
}
