package event

import (
	"sync"
	"testing"
	"time"
)

func TestQueueOrder(t *testing.T) {
	q := NewQueue()
	q.Send(Resize, ResizePayload{Width: 80, Height: 24})
	q.Send(Toggle, nil)
	q.Send(Quit, nil)

	if q.Len() != 3 {
		t.Fatalf("expected 3 events, got %d", q.Len())
	}
	got := q.Drain()
	want := []Type{Resize, Toggle, Quit}
	for i, ev := range got {
		if ev.Type != want[i] {
			t.Errorf("event %d: expected %v, got %v", i, want[i], ev.Type)
		}
		if ev.Timestamp.IsZero() {
			t.Errorf("event %d: expected a timestamp", i)
		}
	}
	if q.Len() != 0 || q.Drain() != nil {
		t.Error("expected queue to be empty after drain")
	}
}

func TestQueueKeepsTimestamp(t *testing.T) {
	q := NewQueue()
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	q.Push(Event{Type: Toggle, Timestamp: ts})
	if got := q.Drain()[0].Timestamp; !got.Equal(ts) {
		t.Errorf("expected %v, got %v", ts, got)
	}
}

func TestQueueOverflowDropsOldest(t *testing.T) {
	q := NewQueue()
	for i := 0; i < Capacity+5; i++ {
		q.Push(Event{Type: Light, Frame: int64(i)})
	}
	if q.Dropped() != 5 {
		t.Errorf("expected 5 dropped, got %d", q.Dropped())
	}
	got := q.Drain()
	if len(got) != Capacity {
		t.Fatalf("expected %d events, got %d", Capacity, len(got))
	}
	if got[0].Frame != 5 || got[len(got)-1].Frame != Capacity+4 {
		t.Errorf("expected frames 5..%d, got %d..%d", Capacity+4, got[0].Frame, got[len(got)-1].Frame)
	}
}

func TestQueueOverflowKeepsControlEvents(t *testing.T) {
	q := NewQueue()
	q.Send(Toggle, nil)
	for i := 0; i < Capacity; i++ {
		q.Push(Event{Type: Light, Frame: int64(i)})
	}
	q.Send(Quit, nil)

	got := q.Drain()
	if len(got) != Capacity+1 {
		t.Fatalf("expected %d events, got %d", Capacity+1, len(got))
	}
	if got[0].Type != Toggle {
		t.Errorf("expected Toggle to survive overflow, got %v", got[0].Type)
	}
	if got[len(got)-1].Type != Quit {
		t.Errorf("expected Quit last, got %v", got[len(got)-1].Type)
	}
	if got[1].Frame != 2 {
		t.Errorf("expected the oldest lights to be evicted, first light frame %d", got[1].Frame)
	}
	if q.Dropped() != 2 {
		t.Errorf("expected 2 dropped, got %d", q.Dropped())
	}
}

func TestQueueFullOfControlEventsGrows(t *testing.T) {
	q := NewQueue()
	for i := 0; i < Capacity; i++ {
		q.Send(Resize, ResizePayload{Width: i, Height: 1})
	}
	q.Send(Light, LightPayload{Name: "x", Delta: 1})
	q.Send(Toggle, nil)

	got := q.Drain()
	if len(got) != Capacity+1 {
		t.Fatalf("expected %d events, got %d", Capacity+1, len(got))
	}
	if got[len(got)-1].Type != Toggle {
		t.Errorf("expected Toggle kept past capacity, got %v", got[len(got)-1].Type)
	}
	if q.Dropped() != 1 {
		t.Errorf("expected the incoming light to be dropped, got %d", q.Dropped())
	}
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewQueue()
	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				q.Send(Toggle, nil)
			}
		}()
	}
	wg.Wait()
	if n := len(q.Drain()); n != 200 {
		t.Errorf("expected 200 events, got %d", n)
	}
}

func TestTypeString(t *testing.T) {
	if Toggle.String() != "Toggle" || Type(99).String() != "Unknown" {
		t.Errorf("unexpected names: %s %s", Toggle, Type(99))
	}
}
