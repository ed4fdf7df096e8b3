package abi

/*
#include "abi.h"
void* vvdaw_new_bstream(uint64_t goHandle);
*/
import "C"
import (
	"sync"
	"unsafe"
)

// Seek modes mirror IBStream's seek semantics.
const (
	SeekStart   = 0
	SeekCurrent = 1
	SeekEnd     = 2
)

// streamState is the Go-side backing for a native IBStream: a seekable
// in-memory byte buffer used to transfer state into and out of a
// plugin's component and controller.
type streamState struct {
	mu  sync.Mutex
	buf []byte
	pos int64
}

// Stream is a host-implemented state stream, exposing its accumulated
// bytes to Go callers once a write sequence completes.
type Stream struct {
	ptr   unsafe.Pointer
	state *streamState
}

// NewStream constructs an empty, writable state stream (used to receive
// component.getState / controller state).
func NewStream() *Stream {
	st := &streamState{}
	h := registry.register(st)
	return &Stream{ptr: C.vvdaw_new_bstream(C.uint64_t(h)), state: st}
}

// NewStreamFromBytes constructs a state stream pre-loaded with data and
// rewound to the start (used to pre-load a stored plugin state before
// calling component.setState / controller.setComponentState).
func NewStreamFromBytes(data []byte) *Stream {
	st := &streamState{buf: append([]byte(nil), data...)}
	h := registry.register(st)
	return &Stream{ptr: C.vvdaw_new_bstream(C.uint64_t(h)), state: st}
}

// Ptr returns the native pointer to pass to component/controller calls.
func (s *Stream) Ptr() unsafe.Pointer { return s.ptr }

// Bytes returns a copy of everything written to the stream so far.
func (s *Stream) Bytes() []byte {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return append([]byte(nil), s.state.buf...)
}

//export vvdawStreamRead
func vvdawStreamRead(handle C.uint64_t, buffer unsafe.Pointer, numBytes C.int32_t, numRead *C.int32_t) C.tresult {
	v := registry.get(uint64(handle))
	st, ok := v.(*streamState)
	if !ok {
		return ResultInvalidArg
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	avail := int64(len(st.buf)) - st.pos
	if avail < 0 {
		avail = 0
	}
	n := int64(numBytes)
	if n > avail {
		n = avail
	}
	if n > 0 {
		dst := unsafe.Slice((*byte)(buffer), n)
		copy(dst, st.buf[st.pos:st.pos+n])
	}
	st.pos += n
	*numRead = C.int32_t(n)
	return ResultOK
}

//export vvdawStreamWrite
func vvdawStreamWrite(handle C.uint64_t, buffer unsafe.Pointer, numBytes C.int32_t, numWritten *C.int32_t) C.tresult {
	v := registry.get(uint64(handle))
	st, ok := v.(*streamState)
	if !ok {
		return ResultInvalidArg
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	n := int64(numBytes)
	src := unsafe.Slice((*byte)(buffer), n)
	end := st.pos + n
	if end > int64(len(st.buf)) {
		grown := make([]byte, end)
		copy(grown, st.buf)
		st.buf = grown
	}
	copy(st.buf[st.pos:end], src)
	st.pos = end
	*numWritten = C.int32_t(n)
	return ResultOK
}

//export vvdawStreamSeek
func vvdawStreamSeek(handle C.uint64_t, pos C.int64_t, mode C.int32_t, result *C.int64_t) C.tresult {
	v := registry.get(uint64(handle))
	st, ok := v.(*streamState)
	if !ok {
		return ResultInvalidArg
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	var base int64
	switch mode {
	case SeekStart:
		base = 0
	case SeekCurrent:
		base = st.pos
	case SeekEnd:
		base = int64(len(st.buf))
	default:
		return ResultInvalidArg
	}
	newPos := base + int64(pos)
	if newPos < 0 {
		return ResultInvalidArg
	}
	st.pos = newPos
	*result = C.int64_t(newPos)
	return ResultOK
}

//export vvdawStreamTell
func vvdawStreamTell(handle C.uint64_t, pos *C.int64_t) C.tresult {
	v := registry.get(uint64(handle))
	st, ok := v.(*streamState)
	if !ok {
		return ResultInvalidArg
	}
	st.mu.Lock()
	*pos = C.int64_t(st.pos)
	st.mu.Unlock()
	return ResultOK
}

//export vvdawStreamRelease
func vvdawStreamRelease(handle C.uint64_t) {
	registry.release(uint64(handle))
}
