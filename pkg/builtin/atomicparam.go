// Package builtin provides the four reference processor implementations:
// gain, stereo balance, mixer, and a looped sampler. Each stores its
// parameters as atomic 32-bit words holding the bit pattern of a float32,
// following the teacher framework's param.Parameter pattern
// (pkg/framework/param/parameter.go) adapted to the spec's requirement of
// lock-free 32-bit (not 64-bit) atomics for built-ins.
package builtin

import (
	"math"
	"sync/atomic"
)

// atomicParam is a single scalar parameter shared between the control
// thread and the audio thread via a 32-bit atomic word. Reads use acquire
// ordering, writes use release ordering — Go's sync/atomic load/store on
// uint32 already provide sequential consistency, which is a strictly
// stronger guarantee than acquire/release, so no additional fence is
// needed; the doc comments name the semantics the spec requires.
type atomicParam struct {
	bits  uint32
	min   float32
	max   float32
}

func newAtomicParam(min, max, def float32) *atomicParam {
	p := &atomicParam{min: min, max: max}
	p.store(def)
	return p
}

// load reads the current value (acquire semantics).
func (p *atomicParam) load() float32 {
	return math.Float32frombits(atomic.LoadUint32(&p.bits))
}

// store clamps v to [min, max] and publishes it (release semantics).
func (p *atomicParam) store(v float32) {
	if v < p.min {
		v = p.min
	} else if v > p.max {
		v = p.max
	}
	atomic.StoreUint32(&p.bits, math.Float32bits(v))
}
