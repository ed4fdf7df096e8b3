package abi

/*
#include "abi.h"

static inline tresult component_initialize(void* c, void* ctx) {
	struct Component* co = (struct Component*)c;
	return co->lpVtbl->initialize(c, ctx);
}
static inline tresult component_terminate(void* c) {
	struct Component* co = (struct Component*)c;
	return co->lpVtbl->terminate(c);
}
static inline tresult component_getControllerClassId(void* c, char* cid) {
	struct Component* co = (struct Component*)c;
	return co->lpVtbl->getControllerClassId(c, cid);
}
static inline int32_t component_getBusCount(void* c, int32_t mediaType, int32_t dir) {
	struct Component* co = (struct Component*)c;
	return co->lpVtbl->getBusCount(c, mediaType, dir);
}
static inline tresult component_activateBus(void* c, int32_t mediaType, int32_t dir, int32_t index, uint8_t state) {
	struct Component* co = (struct Component*)c;
	return co->lpVtbl->activateBus(c, mediaType, dir, index, state);
}
static inline tresult component_setActive(void* c, uint8_t state) {
	struct Component* co = (struct Component*)c;
	return co->lpVtbl->setActive(c, state);
}
static inline tresult component_setState(void* c, void* stream) {
	struct Component* co = (struct Component*)c;
	return co->lpVtbl->setState(c, stream);
}
static inline tresult component_getState(void* c, void* stream) {
	struct Component* co = (struct Component*)c;
	return co->lpVtbl->getState(c, stream);
}
*/
import "C"
import (
	"fmt"
	"unsafe"
)

// MediaType and BusDirection mirror the VST3 enums used when walking a
// component's bus layout.
const (
	MediaTypeAudio = 0
	MediaTypeEvent = 1

	BusDirectionInput  = 0
	BusDirectionOutput = 1
)

// Component wraps a native IComponent: audio I/O structure, bus
// activation, and state persistence.
type Component struct {
	Unknown
}

func WrapComponent(ptr unsafe.Pointer) Component {
	return Component{Unknown: WrapUnknown(ptr)}
}

// Initialize passes the host-application context to the plugin.
func (c Component) Initialize(hostContext unsafe.Pointer) error {
	if res := C.component_initialize(c.ptr, hostContext); res != 0 {
		return fmt.Errorf("abi: component.initialize failed (%d)", int32(res))
	}
	return nil
}

// Terminate releases resources the component acquired at Initialize.
func (c Component) Terminate() error {
	if res := C.component_terminate(c.ptr); res != 0 {
		return fmt.Errorf("abi: component.terminate failed (%d)", int32(res))
	}
	return nil
}

// GetControllerClassID retrieves the class id of this component's
// edit controller, or the zero value if the component implements the
// controller interface itself.
func (c Component) GetControllerClassID() [16]byte {
	var cid [16]byte
	C.component_getControllerClassId(c.ptr, (*C.char)(unsafe.Pointer(&cid[0])))
	return cid
}

// BusCount returns how many buses of mediaType/direction the component
// declares.
func (c Component) BusCount(mediaType, direction int32) int {
	return int(C.component_getBusCount(c.ptr, C.int32_t(mediaType), C.int32_t(direction)))
}

// ActivateBus enables or disables the bus at index.
func (c Component) ActivateBus(mediaType, direction int32, index int, state bool) error {
	res := C.component_activateBus(c.ptr, C.int32_t(mediaType), C.int32_t(direction), C.int32_t(index), cBool(state))
	if res != 0 {
		return fmt.Errorf("abi: component.activateBus(%d) failed (%d)", index, int32(res))
	}
	return nil
}

// SetActive moves the component between active/inactive.
func (c Component) SetActive(state bool) error {
	if res := C.component_setActive(c.ptr, cBool(state)); res != 0 {
		return fmt.Errorf("abi: component.setActive(%v) failed (%d)", state, int32(res))
	}
	return nil
}

// SetState writes a previously captured state into the component via the
// given BStream-compatible pointer.
func (c Component) SetState(stream unsafe.Pointer) error {
	if res := C.component_setState(c.ptr, stream); res != 0 {
		return fmt.Errorf("abi: component.setState failed (%d)", int32(res))
	}
	return nil
}

// GetState asks the component to write its state into the given stream.
func (c Component) GetState(stream unsafe.Pointer) error {
	if res := C.component_getState(c.ptr, stream); res != 0 {
		return fmt.Errorf("abi: component.getState failed (%d)", int32(res))
	}
	return nil
}

func cBool(b bool) C.uint8_t {
	if b {
		return 1
	}
	return 0
}
