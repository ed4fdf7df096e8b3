package abi

/*
#include "abi.h"

static inline int32_t factory_countClasses(void* f) {
	struct Factory* fa = (struct Factory*)f;
	return fa->lpVtbl->countClasses(f);
}
static inline tresult factory_getClassInfo(void* f, int32_t index, struct PClassInfo* info) {
	struct Factory* fa = (struct Factory*)f;
	return fa->lpVtbl->getClassInfo(f, index, info);
}
static inline tresult factory_createInstance(void* f, const char* cid, const char* iid, void** obj) {
	struct Factory* fa = (struct Factory*)f;
	return fa->lpVtbl->createInstance(f, cid, iid, obj);
}
*/
import "C"
import (
	"strings"
	"unsafe"
)

// Factory wraps a native IPluginFactory: enumerates and instantiates
// plugin classes.
type Factory struct {
	Unknown
}

func WrapFactory(ptr unsafe.Pointer) Factory {
	return Factory{Unknown: WrapUnknown(ptr)}
}

// ClassInfo is the Go-side copy of a native PClassInfo entry.
type ClassInfo struct {
	CID      [16]byte
	Category string
	Name     string
}

// CountClasses returns the number of classes the factory exposes.
func (f Factory) CountClasses() int {
	return int(C.factory_countClasses(f.ptr))
}

// ClassInfoAt returns metadata for the class at index.
func (f Factory) ClassInfoAt(index int) ClassInfo {
	var info C.struct_PClassInfo
	C.factory_getClassInfo(f.ptr, C.int32_t(index), &info)
	var cid [16]byte
	for i := range cid {
		cid[i] = byte(info.cid[i])
	}
	return ClassInfo{
		CID:      cid,
		Category: cStringN(unsafe.Pointer(&info.category[0]), 32),
		Name:     cStringN(unsafe.Pointer(&info.name[0]), 64),
	}
}

// FindAudioModuleClass returns the first class the factory exposes whose
// category matches "Audio Module Class", per the initialization sequence
// in §4.3.
func (f Factory) FindAudioModuleClass() (ClassInfo, bool) {
	for i := 0; i < f.CountClasses(); i++ {
		ci := f.ClassInfoAt(i)
		if ci.Category == CategoryAudioEffect {
			return ci, true
		}
	}
	return ClassInfo{}, false
}

// CreateInstance asks the factory to construct an instance of cid
// conforming to iid.
func (f Factory) CreateInstance(cid, iid [16]byte) unsafe.Pointer {
	var obj unsafe.Pointer
	res := C.factory_createInstance(f.ptr,
		(*C.char)(unsafe.Pointer(&cid[0])),
		(*C.char)(unsafe.Pointer(&iid[0])),
		&obj)
	if res != 0 {
		return nil
	}
	return obj
}

func cStringN(ptr unsafe.Pointer, n int) string {
	b := unsafe.Slice((*byte)(ptr), n)
	if i := indexZero(b); i >= 0 {
		b = b[:i]
	}
	return strings.TrimRight(string(b), "\x00")
}

func indexZero(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}
	return -1
}
