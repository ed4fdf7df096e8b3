package engine

import (
	"testing"

	"github.com/vvdaw/host/pkg/builtin"
	"github.com/vvdaw/host/pkg/graph"
	"github.com/vvdaw/host/pkg/ringqueue"
)

const testBlockSize = 64

func newTestPair(t *testing.T) (*Pipeline, *Controller) {
	t.Helper()
	commands := ringqueue.NewCommandQueue(ringqueue.DefaultCapacity)
	events := ringqueue.NewEventQueue(ringqueue.DefaultCapacity)
	handles := ringqueue.NewHandleChannel(ringqueue.DefaultHandleCapacity)
	p := New(commands, events, handles, testBlockSize)
	c := NewController(commands, events, handles, testBlockSize)
	return p, c
}

func testOutput() [][]float32 {
	return [][]float32{make([]float32, testBlockSize), make([]float32, testBlockSize)}
}

// pollUntil renders p up to maxBlocks times, looking for an event of kind
// want on each block. Fails the test if it never shows up.
func pollUntil(t *testing.T, p *Pipeline, c *Controller, want ringqueue.EventKind, maxBlocks int) ringqueue.Event {
	t.Helper()
	out := testOutput()
	for i := 0; i < maxBlocks; i++ {
		p.Render(out, testBlockSize)
		for {
			ev, ok := c.PollEvent()
			if !ok {
				break
			}
			if ev.Kind == want {
				return ev
			}
		}
	}
	t.Fatalf("event kind %d not observed within %d blocks", want, maxBlocks)
	return ringqueue.Event{}
}

func TestPipelineLifecycleRoundTrip(t *testing.T) {
	p, c := newTestPair(t)

	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	pollUntil(t, p, c, ringqueue.EvStarted, 4)
	if !p.Running() {
		t.Fatalf("pipeline not running after Started event observed")
	}

	if err := c.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	pollUntil(t, p, c, ringqueue.EvStopped, 4)
	if p.Running() {
		t.Fatalf("pipeline still running after Stopped event observed")
	}
}

func TestPipelineAddNodeSetParameterRemoveNode(t *testing.T) {
	p, c := newTestPair(t)

	gain := builtin.NewGain()
	if err := gain.Initialize(48000, testBlockSize); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := c.AddNode(1, gain, graph.Source{Kind: graph.SourceBuiltin, Name: "gain"}); err != nil {
		t.Fatalf("add node: %v", err)
	}
	pollUntil(t, p, c, ringqueue.EvNodeAdded, 4)
	if p.NodeCount() != 1 {
		t.Fatalf("node count = %d, want 1", p.NodeCount())
	}

	if err := c.SetParameter(1, builtin.ParamGain, 0.5); err != nil {
		t.Fatalf("set parameter: %v", err)
	}
	out := testOutput()
	p.Render(out, testBlockSize) // drain the SetParameter command

	if err := c.RemoveNode(1); err != nil {
		t.Fatalf("remove node: %v", err)
	}
	pollUntil(t, p, c, ringqueue.EvNodeRemoved, 4)
	if p.NodeCount() != 0 {
		t.Fatalf("node count = %d, want 0 after remove", p.NodeCount())
	}
}

func TestPipelineRenderAllocationFree(t *testing.T) {
	p, c := newTestPair(t)

	gain := builtin.NewGain()
	if err := gain.Initialize(48000, testBlockSize); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := c.AddNode(1, gain, graph.Source{Kind: graph.SourceBuiltin, Name: "gain"}); err != nil {
		t.Fatalf("add node: %v", err)
	}
	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	out := testOutput()
	// Drain the AddNode and Start commands before measuring, so the
	// allocation count below reflects steady-state Render only, not the
	// one-time graph swap (which itself does not allocate, but the swap
	// bookkeeping shouldn't be conflated with the steady-state claim).
	p.Render(out, testBlockSize)
	p.Render(out, testBlockSize)

	allocs := testing.AllocsPerRun(100, func() {
		p.Render(out, testBlockSize)
	})
	if allocs != 0 {
		t.Fatalf("Render allocated %.2f times per call, want 0", allocs)
	}
}
