package abi

/*
#cgo LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>

typedef void* (*entryFn)(void);
typedef void* (*entryFnWithArgs)(void*, void*);

static void* open_library(const char* path) {
	return dlopen(path, RTLD_NOW | RTLD_LOCAL);
}
static void* find_symbol(void* handle, const char* name) {
	return dlsym(handle, name);
}
static int close_library(void* handle) {
	return dlclose(handle);
}
static void* entryFn_call(entryFn fn) {
	return fn();
}
*/
import "C"

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"unsafe"
)

// Library is a loaded native plugin shared object, kept open for the
// lifetime of the Host that created it. It must be unloaded last, after
// every object it produced has released its final reference (§4.3
// teardown ordering).
type Library struct {
	handle unsafe.Pointer
	path   string
}

// ResolveBundlePath turns a .vst3 bundle directory (or a bare shared
// object path) into the concrete file the dynamic loader should open,
// per the platform-specific bundle layout in §4.3.
func ResolveBundlePath(bundlePath string) (string, error) {
	info, err := os.Stat(bundlePath)
	if err != nil {
		return "", fmt.Errorf("abi: stat %s: %w", bundlePath, err)
	}
	if !info.IsDir() {
		return bundlePath, nil
	}
	name := strippedBase(bundlePath)
	var rel string
	switch runtime.GOOS {
	case "darwin":
		rel = filepath.Join("Contents", "MacOS", name)
	case "windows":
		rel = filepath.Join("Contents", "x86_64-win", name+".vst3")
	default:
		rel = filepath.Join("Contents", "x86_64-linux", name+".so")
	}
	full := filepath.Join(bundlePath, rel)
	if _, err := os.Stat(full); err != nil {
		return "", fmt.Errorf("abi: bundle binary not found at %s: %w", full, err)
	}
	return full, nil
}

func strippedBase(bundlePath string) string {
	base := filepath.Base(bundlePath)
	return base[:len(base)-len(filepath.Ext(base))]
}

// LoadLibrary opens the dynamic library at path. path should already be
// resolved via ResolveBundlePath.
func LoadLibrary(path string) (*Library, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	handle := C.open_library(cpath)
	if handle == nil {
		return nil, fmt.Errorf("abi: dlopen %s failed", path)
	}
	return &Library{handle: handle, path: path}, nil
}

// EntryPoint resolves and invokes the module's entry symbol, returning
// the raw factory pointer it produces. VST3 binaries export one of
// GetPluginFactory (no-arg) or ModuleEntry/bundleEntry (platform
// bootstrap, ignored here since this host targets the common no-arg
// factory accessor used across platforms).
func (l *Library) EntryPoint() (unsafe.Pointer, error) {
	csym := C.CString("GetPluginFactory")
	defer C.free(unsafe.Pointer(csym))

	sym := C.find_symbol(l.handle, csym)
	if sym == nil {
		return nil, fmt.Errorf("abi: symbol GetPluginFactory not found in %s", l.path)
	}
	fn := C.entryFn(sym)
	return unsafe.Pointer(C.entryFn_call(fn)), nil
}

// Close unloads the library. Must be called only after every object it
// produced has reached a zero reference count.
func (l *Library) Close() error {
	if C.close_library(l.handle) != 0 {
		return fmt.Errorf("abi: dlclose %s failed", l.path)
	}
	return nil
}
