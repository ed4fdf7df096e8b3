package ringqueue

import "testing"

func TestCommandQueueRoundTrip(t *testing.T) {
	q := NewCommandQueue(8)
	want := SetParameterCommand(3, 7, 0.5)
	if err := q.Push(want); err != nil {
		t.Fatalf("Push: %v", err)
	}
	got, err := q.Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestCommandQueueEmptyPop(t *testing.T) {
	q := NewCommandQueue(8)
	if _, err := q.Pop(); !IsWouldBlock(err) {
		t.Fatalf("expected would-block on empty pop, got %v", err)
	}
}

func TestEventQueueRoundTripAndErrorMessage(t *testing.T) {
	q := NewEventQueue(8)
	if err := q.Push(ErrorEvent("plugin crashed")); err != nil {
		t.Fatalf("Push: %v", err)
	}
	ev, err := q.Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if ev.Kind != EvError {
		t.Fatalf("Kind = %v, want EvError", ev.Kind)
	}
	if ev.Message() != "plugin crashed" {
		t.Fatalf("Message() = %q", ev.Message())
	}
}

func TestEventQueueFullPushReportsWouldBlock(t *testing.T) {
	q := NewEventQueue(2)
	for i := 0; i < 2; i++ {
		if err := q.Push(PeakLevelEvent(0, 0.1)); err != nil {
			t.Fatalf("Push %d: %v", i, err)
		}
	}
	if err := q.Push(PeakLevelEvent(0, 0.1)); !IsWouldBlock(err) {
		t.Fatalf("expected would-block on full push, got %v", err)
	}
}

func TestHandleChannelRoundTrip(t *testing.T) {
	ch := NewHandleChannel(4)
	handle := PluginHandle{NodeID: 42}
	if err := ch.Push(handle); err != nil {
		t.Fatalf("Push: %v", err)
	}
	got, err := ch.Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if got.NodeID != 42 {
		t.Fatalf("NodeID = %d, want 42", got.NodeID)
	}
}
