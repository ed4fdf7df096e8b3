package abi

/*
#include "abi.h"
void* vvdaw_new_host_application(uint64_t goHandle);
*/
import "C"
import "unsafe"

// hostApplicationState is the Go-side backing for a native
// IHostApplication the host hands to component.initialize. The minimal
// viable implementation advertises a display name and declines every
// sub-object creation request, per §4.3: "plugins that require
// host-created message objects will not fully initialize but most will
// proceed."
type hostApplicationState struct {
	name string
}

// NewHostApplication constructs a native IHostApplication object backed
// by name.
func NewHostApplication(name string) unsafe.Pointer {
	h := registry.register(&hostApplicationState{name: name})
	return C.vvdaw_new_host_application(C.uint64_t(h))
}

//export vvdawHostGetName
func vvdawHostGetName(handle C.uint64_t, out *C.uint16_t, max C.int32_t) C.tresult {
	v := registry.get(uint64(handle))
	st, ok := v.(*hostApplicationState)
	if !ok {
		return ResultInvalidArg
	}
	n := int(max)
	buf := unsafe.Slice(out, n)
	i := 0
	for ; i < len(st.name) && i < n-1; i++ {
		buf[i] = C.uint16_t(st.name[i])
	}
	buf[i] = 0
	return ResultOK
}

//export vvdawHostCreateInstance
func vvdawHostCreateInstance(handle C.uint64_t, cid, iid *C.char, obj *unsafe.Pointer) C.tresult {
	*obj = nil
	return ResultNotImplemented
}

//export vvdawHostRelease
func vvdawHostRelease(handle C.uint64_t) {
	registry.release(uint64(handle))
}
