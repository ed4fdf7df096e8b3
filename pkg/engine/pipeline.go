// Package engine implements the audio pipeline: the single-threaded
// driver invoked once per output buffer by the audio callback. It owns
// the command-queue and event-queue audio-side endpoints, the receiving
// end of the plugin-handle channel, the currently active graph snapshot,
// and the running flag — the only state the audio thread touches.
// Topology mutation lives on the control side, in Controller's mirror
// graph; Pipeline only ever swaps in a pre-built graph.Graph.Clone().
package engine

import (
	"github.com/vvdaw/host/pkg/graph"
	"github.com/vvdaw/host/pkg/ringqueue"
)

// outputChannels is the engine's fixed bus width, matching the built-in
// processors and the native plugin binding.
const outputChannels = 2

// maxCommandsPerBlock bounds how many commands Pipeline.Render drains in
// one call, so a command producer running faster than the audio thread
// can never make a single Render call run unbounded.
const maxCommandsPerBlock = ringqueue.DefaultCapacity

// Pipeline is the audio thread's engine instance. Render is its only
// entry point from the audio callback; Running and NodeCount are
// diagnostics read on the same thread that calls Render.
type Pipeline struct {
	commands *ringqueue.CommandQueue
	events   *ringqueue.EventQueue
	handles  *ringqueue.HandleChannel

	graph        *graph.Graph
	running      bool
	maxBlockSize int
}

// New constructs a pipeline around the given control-plane endpoints.
// maxBlockSize bounds the largest block Render will ever be asked to
// process; the graph's per-node buffers are sized to it up front.
func New(commands *ringqueue.CommandQueue, events *ringqueue.EventQueue, handles *ringqueue.HandleChannel, maxBlockSize int) *Pipeline {
	return &Pipeline{
		commands:     commands,
		events:       events,
		handles:      handles,
		graph:        graph.New(maxBlockSize),
		maxBlockSize: maxBlockSize,
	}
}

// Render produces one block of audio into output (outputChannels slices,
// each at least frames long). It must never allocate, log, block
// unboundedly, or take a lock held elsewhere — it is the audio thread's
// only job.
func (p *Pipeline) Render(output [][]float32, frames int) {
	p.drainCommands()

	if !p.running {
		silence(output, frames)
		return
	}

	p.processGraph(frames)
	p.publishOutput(output, frames)
	p.publishPeak(output, frames)
}

func (p *Pipeline) drainCommands() {
	for i := 0; i < maxCommandsPerBlock; i++ {
		cmd, err := p.commands.Pop()
		if err != nil {
			return
		}
		p.apply(cmd)
	}
}

// apply updates Pipeline state for one drained command. Per spec.md §9's
// design note, every structural mutation (AddNode, RemoveNode, Connect,
// Disconnect) was already built on the control thread by Controller —
// buffer allocation and topological recompute included — so apply only
// ever swaps cmd.Graph in wholesale; it never calls an allocating Graph
// method itself.
func (p *Pipeline) apply(cmd ringqueue.Command) {
	switch cmd.Kind {
	case ringqueue.CmdStart:
		p.running = true
		p.events.Push(ringqueue.StartedEvent())

	case ringqueue.CmdStop:
		p.running = false
		p.events.Push(ringqueue.StoppedEvent())

	case ringqueue.CmdAddNode:
		// The handle channel is still drained here per §4.1's "consume
		// the next handle from the plugin channel" wording and to keep
		// the channel from growing unbounded; the processor it carries
		// is already present in cmd.Graph, built by Controller.AddNode.
		if _, err := p.handles.Pop(); err != nil {
			p.events.Push(ringqueue.ErrorEvent("add node: no handle pending"))
			return
		}
		if cmd.Graph == nil {
			p.events.Push(ringqueue.ErrorEvent("add node: missing graph snapshot"))
			return
		}
		p.graph = cmd.Graph
		p.events.Push(ringqueue.NodeAddedEvent(cmd.NodeID))

	case ringqueue.CmdRemoveNode:
		if cmd.Graph == nil {
			p.events.Push(ringqueue.ErrorEvent("remove node: unknown id"))
			return
		}
		p.graph = cmd.Graph
		if cmd.RemovedProcessor != nil {
			cmd.RemovedProcessor.Deactivate()
		}
		p.events.Push(ringqueue.NodeRemovedEvent(cmd.NodeID))

	case ringqueue.CmdConnect:
		if cmd.Graph != nil {
			p.graph = cmd.Graph
		}

	case ringqueue.CmdDisconnect:
		if cmd.Graph != nil {
			p.graph = cmd.Graph
		}

	case ringqueue.CmdSetParameter:
		n, ok := p.graph.Node(cmd.NodeID)
		if !ok {
			p.events.Push(ringqueue.ErrorEvent("set parameter: unknown node"))
			return
		}
		if err := n.Processor.SetParameter(cmd.ParamID, cmd.ParamValue); err != nil {
			p.events.Push(ringqueue.ErrorEvent("set parameter: rejected"))
		}
	}
}

// processGraph walks the precomputed topological order, feeding each
// node's input from its predecessors' most recent output.
func (p *Pipeline) processGraph(frames int) {
	for _, id := range p.graph.Order() {
		n, ok := p.graph.Node(id)
		if !ok {
			continue
		}
		block := p.graph.PrepareBlock(id, frames)
		if err := n.Processor.Process(block, nil); err != nil {
			p.events.Push(ringqueue.ErrorEvent("process: node failed"))
			for _, ch := range block.Output {
				clear(ch)
			}
		}
	}
}

// publishOutput copies the last node in topological order's output into
// the caller-supplied output buffer, or silence if the graph is empty.
func (p *Pipeline) publishOutput(output [][]float32, frames int) {
	order := p.graph.Order()
	if len(order) == 0 {
		silence(output, frames)
		return
	}
	last := p.graph.OutputBuffer(order[len(order)-1])
	for ch := range output {
		if ch < len(last) {
			copy(output[ch][:frames], last[ch][:frames])
		} else {
			clear(output[ch][:frames])
		}
	}
}

func (p *Pipeline) publishPeak(output [][]float32, frames int) {
	for ch, samples := range output {
		if ch >= outputChannels {
			break
		}
		var peak float32
		for _, s := range samples[:frames] {
			if s < 0 {
				s = -s
			}
			if s > peak {
				peak = s
			}
		}
		p.events.Push(ringqueue.PeakLevelEvent(ch, peak))
	}
}

func silence(output [][]float32, frames int) {
	for _, ch := range output {
		clear(ch[:frames])
	}
}

// Running reports whether the engine is currently processing audio
// rather than emitting silence. Safe to call only from the audio thread
// (e.g. from within a Render call or its caller on the same thread).
func (p *Pipeline) Running() bool { return p.running }

// NodeCount reports how many nodes the graph currently holds. Intended
// for diagnostics and tests, not the hot path.
func (p *Pipeline) NodeCount() int { return p.graph.Len() }
