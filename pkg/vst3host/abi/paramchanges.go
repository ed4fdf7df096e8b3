package abi

/*
#include "abi.h"
void* vvdaw_new_parameter_changes(uint64_t goHandle);
void* vvdaw_new_param_value_queue(uint64_t goHandle);
*/
import "C"
import (
	"sync"
	"unsafe"
)

type paramPoint struct {
	sampleOffset int32
	value        float64
}

type paramValueQueueState struct {
	mu        sync.Mutex
	paramID   uint32
	points    []paramPoint
	nativePtr unsafe.Pointer
}

type parameterChangesState struct {
	mu      sync.Mutex
	queues  []*paramValueQueueState
	byParam map[uint32]*paramValueQueueState
}

// ParameterChanges is the host-implemented IParameterChanges list handed
// to the plugin as ProcessData.inputParameterChanges: zero or more
// per-parameter point sequences, built fresh for each block.
type ParameterChanges struct {
	ptr   unsafe.Pointer
	state *parameterChangesState
}

// NewParameterChanges constructs an empty parameter-changes list.
func NewParameterChanges() *ParameterChanges {
	st := &parameterChangesState{byParam: make(map[uint32]*paramValueQueueState)}
	h := registry.register(st)
	return &ParameterChanges{ptr: C.vvdaw_new_parameter_changes(C.uint64_t(h)), state: st}
}

// Ptr returns the native pointer to attach to a ProcessDataC descriptor.
func (p *ParameterChanges) Ptr() unsafe.Pointer { return p.ptr }

// Reset clears all queued points, letting the same ParameterChanges
// instance be reused block to block without reallocating.
func (p *ParameterChanges) Reset() {
	p.state.mu.Lock()
	defer p.state.mu.Unlock()
	p.state.queues = p.state.queues[:0]
	for k := range p.state.byParam {
		delete(p.state.byParam, k)
	}
}

// AddPoint appends a (sampleOffset, value) point for paramID, creating
// its queue on first use within the current block.
func (p *ParameterChanges) AddPoint(paramID uint32, sampleOffset int32, value float64) {
	p.state.mu.Lock()
	q, ok := p.state.byParam[paramID]
	if !ok {
		qst := &paramValueQueueState{paramID: paramID}
		qh := registry.register(qst)
		qst.nativePtr = C.vvdaw_new_param_value_queue(C.uint64_t(qh))
		p.state.byParam[paramID] = qst
		p.state.queues = append(p.state.queues, qst)
		q = qst
	}
	p.state.mu.Unlock()

	q.mu.Lock()
	q.points = append(q.points, paramPoint{sampleOffset: sampleOffset, value: value})
	q.mu.Unlock()
}

//export vvdawParameterChangesGetCount
func vvdawParameterChangesGetCount(handle C.uint64_t) C.int32_t {
	v := registry.get(uint64(handle))
	st, ok := v.(*parameterChangesState)
	if !ok {
		return 0
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return C.int32_t(len(st.queues))
}

//export vvdawParameterChangesGetData
func vvdawParameterChangesGetData(handle C.uint64_t, index C.int32_t) unsafe.Pointer {
	v := registry.get(uint64(handle))
	st, ok := v.(*parameterChangesState)
	if !ok {
		return nil
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	i := int(index)
	if i < 0 || i >= len(st.queues) {
		return nil
	}
	return st.queues[i].nativePtr
}

//export vvdawParameterChangesRelease
func vvdawParameterChangesRelease(handle C.uint64_t) {
	registry.release(uint64(handle))
}

//export vvdawParamValueQueueGetParameterId
func vvdawParamValueQueueGetParameterId(handle C.uint64_t) C.uint32_t {
	v := registry.get(uint64(handle))
	st, ok := v.(*paramValueQueueState)
	if !ok {
		return 0
	}
	return C.uint32_t(st.paramID)
}

//export vvdawParamValueQueueGetPointCount
func vvdawParamValueQueueGetPointCount(handle C.uint64_t) C.int32_t {
	v := registry.get(uint64(handle))
	st, ok := v.(*paramValueQueueState)
	if !ok {
		return 0
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return C.int32_t(len(st.points))
}

//export vvdawParamValueQueueGetPoint
func vvdawParamValueQueueGetPoint(handle C.uint64_t, index C.int32_t, sampleOffset *C.int32_t, value *C.double) C.tresult {
	v := registry.get(uint64(handle))
	st, ok := v.(*paramValueQueueState)
	if !ok {
		return ResultInvalidArg
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	i := int(index)
	if i < 0 || i >= len(st.points) {
		return ResultInvalidArg
	}
	*sampleOffset = C.int32_t(st.points[i].sampleOffset)
	*value = C.double(st.points[i].value)
	return ResultOK
}

//export vvdawParamValueQueueAddPoint
func vvdawParamValueQueueAddPoint(handle C.uint64_t, sampleOffset C.int32_t, value C.double, index *C.int32_t) C.tresult {
	v := registry.get(uint64(handle))
	st, ok := v.(*paramValueQueueState)
	if !ok {
		return ResultInvalidArg
	}
	st.mu.Lock()
	st.points = append(st.points, paramPoint{sampleOffset: int32(sampleOffset), value: float64(value)})
	*index = C.int32_t(len(st.points) - 1)
	st.mu.Unlock()
	return ResultOK
}

//export vvdawParamValueQueueRelease
func vvdawParamValueQueueRelease(handle C.uint64_t) {
	registry.release(uint64(handle))
}
