package shm

import (
	"sync"
	"time"

	"github.com/vvdaw/host/pkg/processor"
)

// workerPollInterval is the back-off step the worker uses while waiting
// for a Process request.
const workerPollInterval = 50 * time.Microsecond

// WorkerLoop runs the worker-side §4.4 handshake until the region
// transitions to Shutdown or process exits. proc is invoked under mu with
// TryLock semantics: if the control thread holds the lock, the worker
// emits silence and proceeds rather than blocking, preserving the
// real-time guarantee on the worker's own audio thread.
func WorkerLoop(r *Region, proc processor.Processor, mu *sync.Mutex, stop <-chan struct{}) {
	inBufs := make([][]float32, Channels)
	outBufs := make([][]float32, Channels)
	events := make([]processor.Event, 0, EMax)

	for {
		select {
		case <-stop:
			return
		default:
		}

		state := r.Load()
		if state == StateShutdown {
			return
		}
		if state != StateProcess {
			time.Sleep(workerPollInterval)
			continue
		}

		frames := int(r.FrameCount())
		if frames > FMax {
			r.MarkCrashed()
			return
		}
		eventCount := int(r.EventCount())
		if eventCount > EMax {
			r.MarkCrashed()
			return
		}

		for ch := 0; ch < Channels; ch++ {
			inBufs[ch] = r.InputChannel(ch)[:frames]
			outBufs[ch] = r.OutputChannel(ch)[:frames]
		}
		events = r.Events(events[:0])

		block := processor.AudioBlock{Input: inBufs, Output: outBufs, Frames: frames}

		if !mu.TryLock() {
			for ch := 0; ch < Channels; ch++ {
				silence(outBufs[ch], frames)
			}
		} else {
			err := proc.Process(block, events)
			mu.Unlock()
			if err != nil {
				r.MarkCrashed()
				return
			}
		}

		if !r.MarkDone() {
			r.MarkCrashed()
			return
		}
	}
}
