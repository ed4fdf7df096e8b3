package abi

/*
#include "abi.h"

static inline tresult editController_initialize(void* e, void* ctx) {
	struct EditController* ec = (struct EditController*)e;
	return ec->lpVtbl->initialize(e, ctx);
}
static inline int32_t editController_getParameterCount(void* e) {
	struct EditController* ec = (struct EditController*)e;
	return ec->lpVtbl->getParameterCount(e);
}
static inline tresult editController_setParamNormalized(void* e, uint32_t id, double value) {
	struct EditController* ec = (struct EditController*)e;
	return ec->lpVtbl->setParamNormalized(e, id, value);
}
static inline double editController_getParamNormalized(void* e, uint32_t id) {
	struct EditController* ec = (struct EditController*)e;
	return ec->lpVtbl->getParamNormalized(e, id);
}
static inline tresult editController_getParameterInfo(void* e, int32_t index, struct PParameterInfo* info) {
	struct EditController* ec = (struct EditController*)e;
	return ec->lpVtbl->getParameterInfo(e, index, info);
}
static inline double editController_normalizedParamToPlain(void* e, uint32_t id, double normalized) {
	struct EditController* ec = (struct EditController*)e;
	return ec->lpVtbl->normalizedParamToPlain(e, id, normalized);
}
static inline double editController_plainParamToNormalized(void* e, uint32_t id, double plain) {
	struct EditController* ec = (struct EditController*)e;
	return ec->lpVtbl->plainParamToNormalized(e, id, plain);
}
static inline tresult editController_setComponentState(void* e, void* stream) {
	struct EditController* ec = (struct EditController*)e;
	return ec->lpVtbl->setComponentState(e, stream);
}
static inline tresult editController_setComponentHandler(void* e, void* handler) {
	struct EditController* ec = (struct EditController*)e;
	return ec->lpVtbl->setComponentHandler(e, handler);
}
*/
import "C"
import (
	"fmt"
	"unicode/utf16"
	"unsafe"
)

// EditController wraps a native IEditController: the parameter model
// plugins expose separately from the signal-processing component.
type EditController struct {
	Unknown
}

func WrapEditController(ptr unsafe.Pointer) EditController {
	return EditController{Unknown: WrapUnknown(ptr)}
}

// Initialize passes the host-application context, mirroring the
// component's own Initialize.
func (e EditController) Initialize(hostContext unsafe.Pointer) error {
	if res := C.editController_initialize(e.ptr, hostContext); res != 0 {
		return fmt.Errorf("abi: editController.initialize failed (%d)", int32(res))
	}
	return nil
}

// ParameterCount returns how many parameters the controller exposes.
func (e EditController) ParameterCount() int {
	return int(C.editController_getParameterCount(e.ptr))
}

// SetParamNormalized sets parameter id to a value in [0, 1].
func (e EditController) SetParamNormalized(id uint32, value float64) error {
	if res := C.editController_setParamNormalized(e.ptr, C.uint32_t(id), C.double(value)); res != 0 {
		return fmt.Errorf("abi: editController.setParamNormalized(%d) failed (%d)", id, int32(res))
	}
	return nil
}

// GetParamNormalized reads the current normalized value of parameter id.
func (e EditController) GetParamNormalized(id uint32) float64 {
	return float64(C.editController_getParamNormalized(e.ptr, C.uint32_t(id)))
}

// NormalizedParamToPlain converts a [0,1] normalized value to the
// parameter's plain (display-range) value.
func (e EditController) NormalizedParamToPlain(id uint32, normalized float64) float64 {
	return float64(C.editController_normalizedParamToPlain(e.ptr, C.uint32_t(id), C.double(normalized)))
}

// PlainParamToNormalized converts a plain (display-range) value to [0,1].
func (e EditController) PlainParamToNormalized(id uint32, plain float64) float64 {
	return float64(C.editController_plainParamToNormalized(e.ptr, C.uint32_t(id), C.double(plain)))
}

// ParamInfo is the Go-side copy of one PParameterInfo entry.
type ParamInfo struct {
	ID                     uint32
	Title                  string
	Units                  string
	StepCount              int32
	DefaultNormalizedValue float64
}

// ParameterInfoAt returns the declared info for the parameter at index,
// converting the plugin's UTF-16 title and units into Go strings.
func (e EditController) ParameterInfoAt(index int) ParamInfo {
	var info C.struct_PParameterInfo
	C.editController_getParameterInfo(e.ptr, C.int32_t(index), &info)
	return ParamInfo{
		ID:                     uint32(info.id),
		Title:                  utf16CString(unsafe.Pointer(&info.title[0]), 128),
		Units:                  utf16CString(unsafe.Pointer(&info.units[0]), 128),
		StepCount:              int32(info.stepCount),
		DefaultNormalizedValue: float64(info.defaultNormalizedValue),
	}
}

func utf16CString(ptr unsafe.Pointer, n int) string {
	units := unsafe.Slice((*uint16)(ptr), n)
	end := n
	for i, u := range units {
		if u == 0 {
			end = i
			break
		}
	}
	return string(utf16.Decode(units[:end]))
}

// SetComponentState transfers the component's saved state into the
// controller, completing the state-transfer sequence in §4.3.
func (e EditController) SetComponentState(stream unsafe.Pointer) error {
	if res := C.editController_setComponentState(e.ptr, stream); res != 0 {
		return fmt.Errorf("abi: editController.setComponentState failed (%d)", int32(res))
	}
	return nil
}

// SetComponentHandler installs the host's IComponentHandler, which the
// controller uses to report UI-driven parameter edits back.
func (e EditController) SetComponentHandler(handler unsafe.Pointer) error {
	if res := C.editController_setComponentHandler(e.ptr, handler); res != 0 {
		return fmt.Errorf("abi: editController.setComponentHandler failed (%d)", int32(res))
	}
	return nil
}
