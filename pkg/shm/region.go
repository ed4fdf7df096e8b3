package shm

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"unsafe"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// Region is a memory-mapped SharedRegion as described in the data model:
// a fixed-size block of cross-process memory holding an atomic state
// word, frame/event counters, input/output channel buffers, and an event
// array.
type Region struct {
	name string
	path string
	fd   int
	mem  []byte
}

// NewName produces a collision-resistant region name from the host pid,
// a monotonic instance counter, and a random component, matching the
// data model's (host_pid, instance_counter, timestamp) uniqueness
// requirement without relying on a wall-clock read on a hot path.
func NewName(instanceCounter uint64) string {
	return fmt.Sprintf("vvdaw-%d-%d-%s", os.Getpid(), instanceCounter, uuid.New().String())
}

func shmPath(name string) string {
	return filepath.Join("/dev/shm", name)
}

// Create maps a brand-new region under the given name, sized to
// RegionSize, and initializes its state to Idle. Called by the parent.
func Create(name string) (*Region, error) {
	path := shmPath(name)
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_RDWR|unix.O_EXCL, 0600)
	if err != nil {
		return nil, fmt.Errorf("shm: create %s: %w", name, err)
	}
	if err := unix.Ftruncate(fd, int64(RegionSize)); err != nil {
		unix.Close(fd)
		unix.Unlink(path)
		return nil, fmt.Errorf("shm: truncate %s: %w", name, err)
	}
	mem, err := mapFd(fd)
	if err != nil {
		unix.Close(fd)
		unix.Unlink(path)
		return nil, err
	}
	r := &Region{name: name, path: path, fd: fd, mem: mem}
	r.store(StateIdle)
	return r, nil
}

// Open maps an existing region by name. Called by the worker.
func Open(name string) (*Region, error) {
	path := shmPath(name)
	fd, err := unix.Open(path, unix.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("shm: open %s: %w", name, err)
	}
	mem, err := mapFd(fd)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}
	return &Region{name: name, path: path, fd: fd, mem: mem}, nil
}

func mapFd(fd int) ([]byte, error) {
	mem, err := unix.Mmap(fd, 0, RegionSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("shm: mmap: %w", err)
	}
	return mem, nil
}

// Name returns the region's shared name.
func (r *Region) Name() string { return r.name }

// Close unmaps the region and closes its descriptor. It does not remove
// the backing file; only the parent's Unlink does that.
func (r *Region) Close() error {
	if r.mem != nil {
		if err := unix.Munmap(r.mem); err != nil {
			return fmt.Errorf("shm: munmap: %w", err)
		}
		r.mem = nil
	}
	return unix.Close(r.fd)
}

// Unlink removes the backing shared-memory file. Only the parent calls
// this, after the worker has exited.
func (r *Region) Unlink() error {
	return unix.Unlink(r.path)
}

func (r *Region) FrameCount() uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(&r.mem[offFrameCount])))
}

func (r *Region) SetFrameCount(n uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(&r.mem[offFrameCount])), n)
}

func (r *Region) EventCount() uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(&r.mem[offEventCount])))
}

func (r *Region) SetEventCount(n uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(&r.mem[offEventCount])), n)
}

// InputChannel returns the region's input buffer for channel ch as a
// []float32 view directly over the mapped memory (no copy).
func (r *Region) InputChannel(ch int) []float32 {
	return r.channelSlice(inputChannelOffset(ch))
}

// OutputChannel returns the region's output buffer for channel ch as a
// []float32 view directly over the mapped memory (no copy).
func (r *Region) OutputChannel(ch int) []float32 {
	return r.channelSlice(outputChannelOffset(ch))
}

func (r *Region) channelSlice(byteOffset int) []float32 {
	ptr := unsafe.Pointer(&r.mem[byteOffset])
	return unsafe.Slice((*float32)(ptr), FMax)
}
