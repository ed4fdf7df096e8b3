// Package graph holds the audio engine's node/edge topology: the
// PluginNode registry, the edge set mutated by Connect/Disconnect
// commands, the precomputed topological processing order, and the
// per-node intermediate input/output buffers the audio pipeline reuses
// every block without reallocating. Per SPEC_FULL.md's Open Question 1
// decision, the order is recomputed synchronously on every AddNode,
// RemoveNode, Connect, and Disconnect — never batched.
//
// Every mutating method (AddNode, RemoveNode, Connect, Disconnect) calls
// allocBuffers and/or recompute, both of which allocate. Per spec.md §9's
// design note ("graph topology changes trigger reallocation on the
// control thread, and the new graph is swapped into the audio thread via
// the command queue carrying an opaque handle") and §4.7's allocation
// ban on the audio thread, these methods are meant to run on a
// control-thread-owned Graph (pkg/engine.Controller's mirror); the audio
// thread only ever receives an already-built Graph through Clone and
// swaps the pointer in.
package graph

import (
	"fmt"

	"github.com/vvdaw/host/pkg/processor"
)

// SourceKind discriminates a Source's reconstruction descriptor.
type SourceKind int

const (
	SourceBuiltin SourceKind = iota
	SourceNative
)

// Source records how a node's processor was constructed, so the graph's
// topology can be serialized and reconstructed without the live
// processor instance. Shared with pkg/ringqueue, which carries the same
// descriptor alongside a PluginHandle crossing the controller/audio
// boundary.
type Source struct {
	Kind SourceKind
	Name string // builtin.Name, when Kind == SourceBuiltin
	Path string // native bundle path, when Kind == SourceNative
}

// Node is a processor instance plus its stable graph identifier.
type Node struct {
	ID        uint64
	Processor processor.Processor
	Source    Source
}

// Graph is the engine's node/edge topology. Not safe for concurrent use:
// exactly one goroutine mutates a given *Graph instance at a time. In
// practice that is pkg/engine.Controller's mirror graph on the control
// thread, which allocates freely via AddNode/RemoveNode/Connect/
// Disconnect; the audio thread only ever holds a Clone, read through
// Order/Node/PrepareBlock/OutputBuffer, and swaps in a newer Clone
// wholesale rather than mutating it in place.
type Graph struct {
	nodes    map[uint64]*Node
	edgesOut map[uint64][]uint64 // from -> ordered list of to
	edgesIn  map[uint64][]uint64 // to -> ordered list of from

	order []uint64

	inBufs  map[uint64][][]float32
	outBufs map[uint64][][]float32

	maxBlockSize int
}

// New creates an empty graph whose per-node intermediate buffers are
// sized for blocks up to maxBlockSize frames.
func New(maxBlockSize int) *Graph {
	return &Graph{
		nodes:        make(map[uint64]*Node),
		edgesOut:     make(map[uint64][]uint64),
		edgesIn:      make(map[uint64][]uint64),
		inBufs:       make(map[uint64][][]float32),
		outBufs:      make(map[uint64][][]float32),
		maxBlockSize: maxBlockSize,
	}
}

// AddNode registers proc under id, allocates its intermediate I/O
// buffers, and recomputes topological order. Buffer allocation happens
// here — at graph-mutation time, on the control thread — never on the
// audio thread; callers must be pkg/engine.Controller's mirror graph,
// never the Graph a Pipeline is actively rendering from.
func (g *Graph) AddNode(id uint64, proc processor.Processor, source Source) {
	g.nodes[id] = &Node{ID: id, Processor: proc, Source: source}
	g.inBufs[id] = allocBuffers(proc.InputChannels(), g.maxBlockSize)
	g.outBufs[id] = allocBuffers(proc.OutputChannels(), g.maxBlockSize)
	g.recompute()
}

// RemoveNode drops id and every edge touching it, then recomputes order.
// It returns the removed node's processor so the caller (the Controller,
// on the control thread) can hand it back to the audio thread for
// deactivation at the exact point in the command stream the node
// actually retires. Like AddNode, this allocates and must only run on a
// control-thread mirror graph.
func (g *Graph) RemoveNode(id uint64) (processor.Processor, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, false
	}
	for _, to := range g.edgesOut[id] {
		g.edgesIn[to] = removeValue(g.edgesIn[to], id)
	}
	for _, from := range g.edgesIn[id] {
		g.edgesOut[from] = removeValue(g.edgesOut[from], id)
	}
	delete(g.nodes, id)
	delete(g.inBufs, id)
	delete(g.outBufs, id)
	delete(g.edgesOut, id)
	delete(g.edgesIn, id)
	g.recompute()
	return n.Processor, true
}

// Connect adds an edge from -> to. Multiple predecessors feeding a wide
// node (e.g. the built-in mixer's four inputs) are concatenated
// channel-wise in the order their edges were added. Connect rejects an
// edge that would introduce a cycle, leaving the graph unchanged. Like
// AddNode, this recomputes topological order and must only run on a
// control-thread mirror graph, never on the Graph a Pipeline renders
// from.
func (g *Graph) Connect(from, to uint64) error {
	if _, ok := g.nodes[from]; !ok {
		return fmt.Errorf("graph: connect: unknown node %d", from)
	}
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("graph: connect: unknown node %d", to)
	}
	g.edgesOut[from] = append(g.edgesOut[from], to)
	g.edgesIn[to] = append(g.edgesIn[to], from)
	if err := g.recompute(); err != nil {
		g.edgesOut[from] = removeValue(g.edgesOut[from], to)
		g.edgesIn[to] = removeValue(g.edgesIn[to], from)
		g.recompute()
		return err
	}
	return nil
}

// Disconnect removes the from -> to edge, if present.
func (g *Graph) Disconnect(from, to uint64) {
	g.edgesOut[from] = removeValue(g.edgesOut[from], to)
	g.edgesIn[to] = removeValue(g.edgesIn[to], from)
	g.recompute()
}

// Order returns the current topological processing order.
func (g *Graph) Order() []uint64 { return g.order }

// Node returns the node registered under id.
func (g *Graph) Node(id uint64) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Len reports how many nodes the graph currently holds.
func (g *Graph) Len() int { return len(g.nodes) }

// Clone returns an independent copy of g for handing off to the audio
// thread via the command queue's opaque Graph pointer: a fresh set of
// maps so a later mutation of g (the control-thread mirror) never
// touches a snapshot already in flight, while *Node values and per-node
// I/O buffers — written only by the audio thread's PrepareBlock, never
// by a Controller — are shared by reference rather than copied. This is
// the only allocation Clone performs; like AddNode/RemoveNode/Connect/
// Disconnect, it is meant to run on the control thread, once per
// topology mutation, not on the audio thread.
func (g *Graph) Clone() *Graph {
	ng := &Graph{
		nodes:        make(map[uint64]*Node, len(g.nodes)),
		edgesOut:     make(map[uint64][]uint64, len(g.edgesOut)),
		edgesIn:      make(map[uint64][]uint64, len(g.edgesIn)),
		inBufs:       make(map[uint64][][]float32, len(g.inBufs)),
		outBufs:      make(map[uint64][][]float32, len(g.outBufs)),
		order:        append([]uint64(nil), g.order...),
		maxBlockSize: g.maxBlockSize,
	}
	for id, n := range g.nodes {
		ng.nodes[id] = n
	}
	for id, to := range g.edgesOut {
		ng.edgesOut[id] = append([]uint64(nil), to...)
	}
	for id, from := range g.edgesIn {
		ng.edgesIn[id] = append([]uint64(nil), from...)
	}
	for id, b := range g.inBufs {
		ng.inBufs[id] = b
	}
	for id, b := range g.outBufs {
		ng.outBufs[id] = b
	}
	return ng
}

// PrepareBlock reslices id's pre-allocated input and output buffers to
// frames and fills the input buffer from id's predecessors' most recent
// output (zero-filling channels with no predecessor). It performs no
// allocation: every inner slice's capacity was fixed at AddNode time.
func (g *Graph) PrepareBlock(id uint64, frames int) processor.AudioBlock {
	in := g.inBufs[id][:]
	for i := range in {
		in[i] = in[i][:frames]
		clear(in[i])
	}
	chOffset := 0
	for _, predID := range g.edgesIn[id] {
		for _, ch := range g.outBufs[predID] {
			if chOffset >= len(in) {
				break
			}
			copy(in[chOffset], ch[:frames])
			chOffset++
		}
	}

	out := g.outBufs[id][:]
	for i := range out {
		out[i] = out[i][:frames]
	}

	return processor.AudioBlock{Input: in, Output: out, Frames: frames}
}

// OutputBuffer returns id's current intermediate output buffer (valid
// until the next PrepareBlock call for the same node).
func (g *Graph) OutputBuffer(id uint64) [][]float32 { return g.outBufs[id] }

// recompute runs Kahn's algorithm over the current edge set. A cycle
// leaves the graph unprocessable; recompute returns an error and leaves
// the previous (necessarily acyclic) order in place.
func (g *Graph) recompute() error {
	indegree := make(map[uint64]int, len(g.nodes))
	for id := range g.nodes {
		indegree[id] = len(g.edgesIn[id])
	}
	var queue []uint64
	for id, d := range indegree {
		if d == 0 {
			queue = append(queue, id)
		}
	}
	sortUint64(queue)

	order := make([]uint64, 0, len(g.nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		next := append([]uint64(nil), g.edgesOut[id]...)
		sortUint64(next)
		for _, to := range next {
			indegree[to]--
			if indegree[to] == 0 {
				queue = append(queue, to)
			}
		}
	}
	if len(order) != len(g.nodes) {
		return fmt.Errorf("graph: cycle detected: only %d of %d nodes reachable", len(order), len(g.nodes))
	}
	g.order = order
	return nil
}

func allocBuffers(channels, maxBlockSize int) [][]float32 {
	bufs := make([][]float32, channels)
	for i := range bufs {
		bufs[i] = make([]float32, maxBlockSize)
	}
	return bufs
}

func removeValue(s []uint64, v uint64) []uint64 {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

// sortUint64 is an insertion sort: topological fronts are tiny (bounded
// by node count, itself small in this engine's graphs), so this stays
// cheap and gives deterministic tie-breaking by ascending id without
// pulling in sort.Slice's interface overhead.
func sortUint64(s []uint64) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
