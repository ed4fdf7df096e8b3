package shm

import (
	"sync/atomic"
	"unsafe"
)

// ProcessState is the four-valued (plus Shutdown) atomic enum that drives
// the parent/worker handshake. Only the parent may transition Idle->Process
// and Done->Idle; only the worker may transition Process->Done or ->Crashed.
type ProcessState uint32

const (
	StateIdle ProcessState = iota
	StateProcess
	StateDone
	StateCrashed
	StateShutdown
)

func (s ProcessState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProcess:
		return "process"
	case StateDone:
		return "done"
	case StateCrashed:
		return "crashed"
	case StateShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

func (r *Region) statePtr() *uint32 {
	return (*uint32)(unsafe.Pointer(&r.mem[offState]))
}

// Load reads the current state with acquire semantics.
func (r *Region) Load() ProcessState {
	return ProcessState(atomic.LoadUint32(r.statePtr()))
}

// store is release-ordered by virtue of atomic.StoreUint32 on amd64/arm64;
// Go's atomic package does not expose separate memory-order parameters.
func (r *Region) store(s ProcessState) {
	atomic.StoreUint32(r.statePtr(), uint32(s))
}

// CompareAndSwap attempts to transition from old to new, returning whether
// it succeeded. Used to enforce the one-directional ownership invariants
// at the call sites in the parent and worker handshake loops.
func (r *Region) CompareAndSwap(old, new ProcessState) bool {
	return atomic.CompareAndSwapUint32(r.statePtr(), uint32(old), uint32(new))
}

// RequestProcess is the parent-side Idle->Process transition.
func (r *Region) RequestProcess() bool { return r.CompareAndSwap(StateIdle, StateProcess) }

// AckIdle is the parent-side Done->Idle transition after consuming output.
func (r *Region) AckIdle() bool { return r.CompareAndSwap(StateDone, StateIdle) }

// RequestShutdown is the parent-side request for orderly worker exit. It is
// unconditional: shutdown can be requested regardless of current state.
func (r *Region) RequestShutdown() { r.store(StateShutdown) }

// MarkDone is the worker-side Process->Done transition.
func (r *Region) MarkDone() bool { return r.CompareAndSwap(StateProcess, StateDone) }

// MarkCrashed is the worker-side transition to Crashed from any state.
func (r *Region) MarkCrashed() { r.store(StateCrashed) }
