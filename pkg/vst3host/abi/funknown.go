package abi

/*
#include "abi.h"
*/
import "C"
import "unsafe"

// Unknown wraps any FUnknown-derived native object: the base
// reference-counted, vtable-polymorphic capability every interface in
// the model extends.
type Unknown struct {
	ptr unsafe.Pointer
}

func WrapUnknown(ptr unsafe.Pointer) Unknown { return Unknown{ptr: ptr} }

func (u Unknown) Ptr() unsafe.Pointer { return u.ptr }
func (u Unknown) IsNil() bool         { return u.ptr == nil }

// AddRef increments the object's reference count.
func (u Unknown) AddRef() uint32 {
	if u.ptr == nil {
		return 0
	}
	return uint32(C.funknown_addRef(u.ptr))
}

// Release decrements the object's reference count. The object
// self-destructs natively when the count reaches zero; the Go side must
// not touch ptr again afterward.
func (u Unknown) Release() uint32 {
	if u.ptr == nil {
		return 0
	}
	return uint32(C.funknown_release(u.ptr))
}

// QueryInterface asks the object for iid, returning the resulting
// pointer (nil if unsupported).
func (u Unknown) QueryInterface(iid [16]byte) unsafe.Pointer {
	if u.ptr == nil {
		return nil
	}
	var obj unsafe.Pointer
	res := C.funknown_queryInterface(u.ptr, (*C.char)(unsafe.Pointer(&iid[0])), &obj)
	if res != 0 {
		return nil
	}
	return obj
}
