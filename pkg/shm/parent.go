package shm

import (
	"errors"
	"time"

	"github.com/vvdaw/host/pkg/processor"
)

// ErrTimeout is returned by RunBlock when the worker does not publish
// Done within the bounded wait.
var ErrTimeout = errors.New("shm: worker did not respond within timeout")

// ErrWorkerCrashed is returned when the worker's state transitions to
// Crashed instead of Done.
var ErrWorkerCrashed = errors.New("shm: worker reported a crash")

// ParentTimeout bounds how long RunBlock spins waiting for Done before
// giving up, per the audio-processing timeout in the concurrency model.
const ParentTimeout = 10 * time.Millisecond

// spinInterval is the back-off step used while polling for Done: a short
// sleep between polls rather than a park/wake primitive, since the wait
// is bounded to single-digit milliseconds.
const spinInterval = 50 * time.Microsecond

// RunBlock drives one full parent-side cycle of the §4.4 handshake: copy
// inputs and events in, flip to Process, wait for Done, copy outputs out,
// flip back to Idle. aliveCheck reports whether the worker process is
// still alive, used to distinguish a hung worker from a dead one on
// timeout.
func (r *Region) RunBlock(block processor.AudioBlock, events []processor.Event, aliveCheck func() bool) error {
	for ch := 0; ch < Channels && ch < len(block.Input); ch++ {
		copy(r.InputChannel(ch), block.Input[ch][:block.Frames])
	}
	r.PutEvents(events)
	r.SetFrameCount(uint32(block.Frames))

	if !r.RequestProcess() {
		return errors.New("shm: region not idle at start of block")
	}

	deadline := time.Now().Add(ParentTimeout)
	for {
		switch r.Load() {
		case StateDone:
			for ch := 0; ch < Channels && ch < len(block.Output); ch++ {
				copy(block.Output[ch][:block.Frames], r.OutputChannel(ch))
			}
			r.AckIdle()
			return nil
		case StateCrashed:
			return ErrWorkerCrashed
		}
		if time.Now().After(deadline) {
			switch r.Load() {
			case StateCrashed:
				return ErrWorkerCrashed
			}
			if aliveCheck != nil && !aliveCheck() {
				return ErrWorkerCrashed
			}
			return ErrTimeout
		}
		time.Sleep(spinInterval)
	}
}
