package abi

/*
#include "abi.h"
void* vvdaw_new_component_handler(uint64_t goHandle);
*/
import "C"
import (
	"sync"
	"unsafe"
)

// ParamEdit describes one begin/perform/end-edit notification a plugin
// UI reported through the host's IComponentHandler.
type ParamEdit struct {
	ParamID    uint32
	Normalized float64
	Phase      EditPhase
}

// EditPhase discriminates the three edit notifications.
type EditPhase int

const (
	EditBegin EditPhase = iota
	EditPerform
	EditEnd
)

// componentHandlerState is the Go-side backing for a native
// IComponentHandler. The minimal viable implementation records edits and
// restart requests for the controller loop to drain; it never blocks the
// calling (controller) thread.
type componentHandlerState struct {
	mu       sync.Mutex
	edits    []ParamEdit
	restarts []int32
}

// NewComponentHandler constructs a native IComponentHandler.
func NewComponentHandler() (unsafe.Pointer, *ComponentHandlerSink) {
	st := &componentHandlerState{}
	h := registry.register(st)
	return C.vvdaw_new_component_handler(C.uint64_t(h)), &ComponentHandlerSink{state: st}
}

// ComponentHandlerSink lets the controller drain edits the plugin
// reported through the handler.
type ComponentHandlerSink struct {
	state *componentHandlerState
}

// DrainEdits returns and clears all recorded parameter edits.
func (s *ComponentHandlerSink) DrainEdits() []ParamEdit {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	out := s.state.edits
	s.state.edits = nil
	return out
}

// DrainRestarts returns and clears all recorded restart-component flag
// sets.
func (s *ComponentHandlerSink) DrainRestarts() []int32 {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	out := s.state.restarts
	s.state.restarts = nil
	return out
}

func componentHandlerEdit(handle C.uint64_t, id C.uint32_t, phase EditPhase, normalized float64) C.tresult {
	v := registry.get(uint64(handle))
	st, ok := v.(*componentHandlerState)
	if !ok {
		return ResultInvalidArg
	}
	st.mu.Lock()
	st.edits = append(st.edits, ParamEdit{ParamID: uint32(id), Normalized: normalized, Phase: phase})
	st.mu.Unlock()
	return ResultOK
}

//export vvdawHandlerBeginEdit
func vvdawHandlerBeginEdit(handle C.uint64_t, id C.uint32_t) C.tresult {
	return componentHandlerEdit(handle, id, EditBegin, 0)
}

//export vvdawHandlerPerformEdit
func vvdawHandlerPerformEdit(handle C.uint64_t, id C.uint32_t, normalized C.double) C.tresult {
	return componentHandlerEdit(handle, id, EditPerform, float64(normalized))
}

//export vvdawHandlerEndEdit
func vvdawHandlerEndEdit(handle C.uint64_t, id C.uint32_t) C.tresult {
	return componentHandlerEdit(handle, id, EditEnd, 0)
}

//export vvdawHandlerRestartComponent
func vvdawHandlerRestartComponent(handle C.uint64_t, flags C.int32_t) C.tresult {
	v := registry.get(uint64(handle))
	st, ok := v.(*componentHandlerState)
	if !ok {
		return ResultInvalidArg
	}
	st.mu.Lock()
	st.restarts = append(st.restarts, int32(flags))
	st.mu.Unlock()
	return ResultOK
}

//export vvdawHandlerRelease
func vvdawHandlerRelease(handle C.uint64_t) {
	registry.release(uint64(handle))
}
