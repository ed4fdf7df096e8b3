package abi

/*
#include "abi.h"

static inline tresult connectionPoint_connect(void* c, void* other) {
	struct ConnectionPoint* cp = (struct ConnectionPoint*)c;
	return cp->lpVtbl->connect(c, other);
}
static inline tresult connectionPoint_disconnect(void* c, void* other) {
	struct ConnectionPoint* cp = (struct ConnectionPoint*)c;
	return cp->lpVtbl->disconnect(c, other);
}
*/
import "C"
import (
	"fmt"
	"unsafe"
)

// ConnectionPoint wraps a native IConnectionPoint, the optional link
// between a component and a separate edit controller.
type ConnectionPoint struct {
	Unknown
}

func WrapConnectionPoint(ptr unsafe.Pointer) ConnectionPoint {
	return ConnectionPoint{Unknown: WrapUnknown(ptr)}
}

// Connect links this endpoint to other.
func (c ConnectionPoint) Connect(other unsafe.Pointer) error {
	if res := C.connectionPoint_connect(c.ptr, other); res != 0 {
		return fmt.Errorf("abi: connectionPoint.connect failed (%d)", int32(res))
	}
	return nil
}

// Disconnect unlinks this endpoint from other.
func (c ConnectionPoint) Disconnect(other unsafe.Pointer) error {
	if res := C.connectionPoint_disconnect(c.ptr, other); res != 0 {
		return fmt.Errorf("abi: connectionPoint.disconnect failed (%d)", int32(res))
	}
	return nil
}
