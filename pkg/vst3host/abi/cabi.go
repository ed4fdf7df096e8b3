// Package abi is the cgo boundary between the Go host and the native
// VST3 binary object model. No Steinberg SDK headers are vendored here;
// abi.h defines the minimal C struct layouts needed to walk the
// reference-counted, vtable-polymorphic interfaces the specification
// requires (Factory, Component, AudioProcessor, EditController,
// ConnectionPoint) and to expose the small set of host-provided callback
// objects plugins call back into (host-application context, component
// handler, state stream). Field layouts mirror the public, stable VST3
// ABI: a vtable pointer as the first struct member, everything else
// accessed only through that vtable.
package abi

/*
#include "abi.h"

static inline tresult funknown_queryInterface(void* self, const char* iid, void** obj) {
	struct FUnknown* u = (struct FUnknown*)self;
	return u->lpVtbl->queryInterface(self, iid, obj);
}
static inline uint32_t funknown_addRef(void* self) {
	struct FUnknown* u = (struct FUnknown*)self;
	return u->lpVtbl->addRef(self);
}
static inline uint32_t funknown_release(void* self) {
	struct FUnknown* u = (struct FUnknown*)self;
	return u->lpVtbl->release(self);
}
*/
import "C"

// ResultOK and friends mirror the VST3 tresult convention: 0 is success,
// nonzero is a flavor of failure or "not handled."
const (
	ResultOK          = 0
	ResultFalse       = 1
	ResultNotImplemented = -1
	ResultInvalidArg  = -2
)

// Interface identifiers for the interfaces this host queries for.
// These are the published, stable VST3 TUIDs.
var (
	IIDComponent = [16]byte{
		0xE8, 0x31, 0xFF, 0x31, 0xF2, 0xD5, 0x43, 0x01,
		0x92, 0x8E, 0xBB, 0xEE, 0x25, 0x69, 0x78, 0x02,
	}
	IIDAudioProcessor = [16]byte{
		0x42, 0x04, 0x3F, 0x99, 0xB7, 0xDA, 0x45, 0x3C,
		0xA5, 0x69, 0xE7, 0x9D, 0x9A, 0xAE, 0xC3, 0x3D,
	}
	IIDEditController = [16]byte{
		0xDC, 0xD7, 0xBB, 0xE3, 0x77, 0x42, 0x44, 0x8D,
		0xA8, 0x74, 0xAA, 0xCC, 0x97, 0x9C, 0x75, 0x9E,
	}
	IIDConnectionPoint = [16]byte{
		0x70, 0xA4, 0x15, 0x6F, 0x6E, 0x6E, 0x40, 0x26,
		0x98, 0x91, 0x48, 0xBF, 0xAA, 0x60, 0xD8, 0xD1,
	}
)

// CategoryAudioEffect is the class category this host looks for when
// enumerating a factory's classes.
const CategoryAudioEffect = "Audio Module Class"
