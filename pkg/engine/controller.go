package engine

import (
	"fmt"

	"github.com/vvdaw/host/pkg/graph"
	"github.com/vvdaw/host/pkg/processor"
	"github.com/vvdaw/host/pkg/ringqueue"
)

// Controller is the control-thread handle on a Pipeline. It owns the
// authoritative graph mirror: every structural mutation (AddNode,
// RemoveNode, Connect, Disconnect) is built here — buffer allocation and
// topological recompute included — then handed to the audio thread as an
// already-built Graph.Clone() riding along the matching Command, per
// spec.md §9's "reallocation on the control thread, ... swapped into the
// audio thread via the command queue carrying an opaque handle" design
// note. Pipeline.apply only ever swaps that pointer in; it never calls an
// allocating Graph method itself.
//
// Not safe for concurrent use by multiple goroutines: the mirror graph
// is mutated in place by each call, so callers must serialize their own
// access if more than one goroutine submits structural commands.
type Controller struct {
	commands *ringqueue.CommandQueue
	events   *ringqueue.EventQueue
	handles  *ringqueue.HandleChannel

	mirror *graph.Graph
}

// NewController wraps the same endpoints a Pipeline was built from, as
// seen from the control side. maxBlockSize must match the Pipeline's, so
// the mirror graph's per-node buffers are sized identically to the ones
// the audio thread will actually render into.
func NewController(commands *ringqueue.CommandQueue, events *ringqueue.EventQueue, handles *ringqueue.HandleChannel, maxBlockSize int) *Controller {
	return &Controller{
		commands: commands,
		events:   events,
		handles:  handles,
		mirror:   graph.New(maxBlockSize),
	}
}

// Start enqueues a Start command.
func (c *Controller) Start() error { return c.commands.Push(ringqueue.StartCommand()) }

// Stop enqueues a Stop command.
func (c *Controller) Stop() error { return c.commands.Push(ringqueue.StopCommand()) }

// AddNode builds proc into the mirror graph (allocating its intermediate
// buffers and recomputing topological order here, on the control
// thread), hands proc to the audio thread via the plugin-handle channel,
// then enqueues the matching AddNode command carrying a Clone of the
// updated mirror. The handle is pushed first so the audio thread always
// finds it waiting once it drains the command.
func (c *Controller) AddNode(nodeID uint64, proc processor.Processor, source graph.Source) error {
	if err := c.handles.Push(ringqueue.PluginHandle{NodeID: nodeID, Processor: proc, Source: source}); err != nil {
		return err
	}
	c.mirror.AddNode(nodeID, proc, source)
	return c.commands.Push(ringqueue.AddNodeCommand(nodeID, c.mirror.Clone()))
}

// RemoveNode removes nodeID from the mirror graph on the control thread
// and enqueues a RemoveNode command carrying both the updated Clone and
// the processor the mirror mutation removed, so the audio thread
// deactivates it at the exact point it retires the node. Returns an
// error without enqueuing anything if nodeID is unknown.
func (c *Controller) RemoveNode(nodeID uint64) error {
	proc, ok := c.mirror.RemoveNode(nodeID)
	if !ok {
		return fmt.Errorf("engine: remove node: unknown id %d", nodeID)
	}
	return c.commands.Push(ringqueue.RemoveNodeCommand(nodeID, c.mirror.Clone(), proc))
}

// Connect validates and applies from -> to against the mirror graph on
// the control thread — including the cycle check and topological
// recompute — and only enqueues a Connect command (carrying the updated
// Clone) if that succeeds. A would-cycle rejection is returned directly
// to the caller instead of surfacing later as an audio-side Error event.
func (c *Controller) Connect(from, to uint64) error {
	if err := c.mirror.Connect(from, to); err != nil {
		return err
	}
	return c.commands.Push(ringqueue.ConnectCommand(from, to, c.mirror.Clone()))
}

// Disconnect removes the from -> to edge from the mirror graph on the
// control thread and enqueues a Disconnect command carrying the updated
// Clone.
func (c *Controller) Disconnect(from, to uint64) error {
	c.mirror.Disconnect(from, to)
	return c.commands.Push(ringqueue.DisconnectCommand(from, to, c.mirror.Clone()))
}

// SetParameter enqueues a SetParameter command. Unlike the structural
// commands above, this never touches the graph's topology or buffers, so
// it carries no Graph snapshot — Pipeline looks the node up in whichever
// Graph it currently holds.
func (c *Controller) SetParameter(nodeID uint64, paramID uint32, value float64) error {
	return c.commands.Push(ringqueue.SetParameterCommand(nodeID, paramID, value))
}

// PollEvent retrieves the next pending event, if any. Returns false when
// the event queue is currently empty.
func (c *Controller) PollEvent() (ringqueue.Event, bool) {
	ev, err := c.events.Pop()
	if err != nil {
		return ringqueue.Event{}, false
	}
	return ev, true
}
