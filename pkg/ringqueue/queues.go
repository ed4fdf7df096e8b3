package ringqueue

import (
	"code.hybscloud.com/lfq"
)

// DefaultCapacity is the ring size used by the engine's command and event
// queues unless overridden. Rounded up to a power of two by lfq.
const DefaultCapacity = 1024

// DefaultHandleCapacity bounds the plugin-handle channel. Nodes are added
// far less often than audio blocks are processed, so under normal
// operation the channel does not fill; if it does, Push returns an error
// instead of growing. The fixed capacity keeps the channel itself
// allocation-free after construction.
const DefaultHandleCapacity = 256

// CommandQueue is the single-producer/single-consumer ring carrying
// Command values from the controller goroutine to the audio pipeline.
type CommandQueue struct {
	q *lfq.SPSC[Command]
}

// NewCommandQueue creates a command ring of the given capacity (rounded up
// to a power of two, minimum 2).
func NewCommandQueue(capacity int) *CommandQueue {
	return &CommandQueue{q: lfq.NewSPSC[Command](capacity)}
}

// Push enqueues a command without blocking. It returns lfq's would-block
// error if the ring is full; the caller (the controller) decides whether
// to retry or drop.
func (c *CommandQueue) Push(cmd Command) error {
	return c.q.Enqueue(&cmd)
}

// Pop dequeues the next command without blocking. Called only from the
// audio thread.
func (c *CommandQueue) Pop() (Command, error) {
	v, err := c.q.Dequeue()
	if err != nil {
		return Command{}, err
	}
	return *v, nil
}

// EventQueue is the single-producer/single-consumer ring carrying Event
// values from the audio pipeline back to the controller.
type EventQueue struct {
	q *lfq.SPSC[Event]
}

// NewEventQueue creates an event ring of the given capacity.
func NewEventQueue(capacity int) *EventQueue {
	return &EventQueue{q: lfq.NewSPSC[Event](capacity)}
}

// Push enqueues an event without blocking; called only from the audio
// thread. A full ring means the event is dropped — callers must not spin
// or retry here, per the no-wait rule on the hot path.
func (e *EventQueue) Push(ev Event) error {
	return e.q.Enqueue(&ev)
}

// Pop dequeues the next event without blocking. Called from the
// controller goroutine.
func (e *EventQueue) Pop() (Event, error) {
	v, err := e.q.Dequeue()
	if err != nil {
		return Event{}, err
	}
	return *v, nil
}

// IsWouldBlock reports whether err indicates the ring was full (Push) or
// empty (Pop), as opposed to a genuine failure.
func IsWouldBlock(err error) bool {
	return lfq.IsWouldBlock(err)
}

// HandleChannel is the multi-producer/single-consumer channel carrying
// freshly constructed plugin handles from the controller to the audio
// pipeline. MPSC because multiple controller-side call paths (direct API
// calls, command replay during recovery) may construct and hand off nodes
// concurrently, while the audio thread is always the single consumer.
type HandleChannel struct {
	q lfq.Queue[PluginHandle]
}

// NewHandleChannel creates a plugin-handle channel of the given capacity.
func NewHandleChannel(capacity int) *HandleChannel {
	return &HandleChannel{q: lfq.NewMPSC[PluginHandle](capacity)}
}

// Push hands a constructed processor to the audio side. May be called
// concurrently from multiple goroutines.
func (h *HandleChannel) Push(handle PluginHandle) error {
	return h.q.Enqueue(&handle)
}

// Pop retrieves the next pending handle. Called only from the audio
// thread, in response to an AddNode command.
func (h *HandleChannel) Pop() (PluginHandle, error) {
	v, err := h.q.Dequeue()
	if err != nil {
		return PluginHandle{}, err
	}
	return *v, nil
}
