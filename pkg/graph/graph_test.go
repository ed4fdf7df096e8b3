package graph

import (
	"testing"

	"github.com/vvdaw/host/pkg/builtin"
)

func newGainNode(t *testing.T) *builtin.Gain {
	t.Helper()
	g := builtin.NewGain()
	if err := g.Initialize(48000, 64); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return g
}

func TestAddNodeConnectOrder(t *testing.T) {
	g := New(64)
	g.AddNode(1, newGainNode(t), Source{Kind: SourceBuiltin, Name: "a"})
	g.AddNode(2, newGainNode(t), Source{Kind: SourceBuiltin, Name: "b"})

	if err := g.Connect(1, 2); err != nil {
		t.Fatalf("connect: %v", err)
	}
	order := g.Order()
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("order = %v, want [1 2]", order)
	}
}

func TestConnectRejectsCycle(t *testing.T) {
	g := New(64)
	g.AddNode(1, newGainNode(t), Source{Kind: SourceBuiltin, Name: "a"})
	g.AddNode(2, newGainNode(t), Source{Kind: SourceBuiltin, Name: "b"})

	if err := g.Connect(1, 2); err != nil {
		t.Fatalf("connect 1->2: %v", err)
	}
	if err := g.Connect(2, 1); err == nil {
		t.Fatalf("connect 2->1: expected cycle rejection, got nil error")
	}
	order := g.Order()
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("order after rejected connect = %v, want unchanged [1 2]", order)
	}
}

func TestRemoveNodeDropsEdges(t *testing.T) {
	g := New(64)
	g.AddNode(1, newGainNode(t), Source{Kind: SourceBuiltin, Name: "a"})
	g.AddNode(2, newGainNode(t), Source{Kind: SourceBuiltin, Name: "b"})
	if err := g.Connect(1, 2); err != nil {
		t.Fatalf("connect: %v", err)
	}

	proc, ok := g.RemoveNode(1)
	if !ok {
		t.Fatalf("remove node: not found")
	}
	if proc == nil {
		t.Fatalf("remove node: expected removed processor, got nil")
	}
	if _, ok := g.Node(1); ok {
		t.Fatalf("node 1 still present after removal")
	}
	order := g.Order()
	if len(order) != 1 || order[0] != 2 {
		t.Fatalf("order after remove = %v, want [2]", order)
	}
}

func TestDisconnect(t *testing.T) {
	g := New(64)
	g.AddNode(1, newGainNode(t), Source{Kind: SourceBuiltin, Name: "a"})
	g.AddNode(2, newGainNode(t), Source{Kind: SourceBuiltin, Name: "b"})
	if err := g.Connect(1, 2); err != nil {
		t.Fatalf("connect: %v", err)
	}
	g.Disconnect(1, 2)

	block := g.PrepareBlock(2, 8)
	for _, ch := range block.Input {
		for _, s := range ch {
			if s != 0 {
				t.Fatalf("node 2 input not silent after disconnect")
			}
		}
	}
}

// TestCloneIndependence verifies a Clone is unaffected by later mutation
// of the graph it was taken from, per Clone's role carrying a frozen
// snapshot across the controller/audio boundary.
func TestCloneIndependence(t *testing.T) {
	g := New(64)
	g.AddNode(1, newGainNode(t), Source{Kind: SourceBuiltin, Name: "a"})

	snap := g.Clone()
	if snap.Len() != 1 {
		t.Fatalf("clone len = %d, want 1", snap.Len())
	}

	g.AddNode(2, newGainNode(t), Source{Kind: SourceBuiltin, Name: "b"})
	if err := g.Connect(1, 2); err != nil {
		t.Fatalf("connect: %v", err)
	}

	if snap.Len() != 1 {
		t.Fatalf("clone len changed after source mutation: got %d, want 1", snap.Len())
	}
	if len(snap.Order()) != 1 || snap.Order()[0] != 1 {
		t.Fatalf("clone order changed after source mutation: got %v, want [1]", snap.Order())
	}
	if _, ok := snap.Node(2); ok {
		t.Fatalf("clone sees node added to source graph after Clone")
	}
}

func TestPrepareBlockNoAllocation(t *testing.T) {
	g := New(64)
	g.AddNode(1, newGainNode(t), Source{Kind: SourceBuiltin, Name: "a"})

	allocs := testing.AllocsPerRun(100, func() {
		g.PrepareBlock(1, 64)
	})
	if allocs != 0 {
		t.Fatalf("PrepareBlock allocated %.2f times per call, want 0", allocs)
	}
}
