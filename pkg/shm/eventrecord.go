package shm

import (
	"unsafe"

	"github.com/vvdaw/host/pkg/processor"
)

// eventRecord is the fixed-width, cross-process wire form of
// processor.Event. Field order and widths are pinned so both sides agree
// on layout without a shared struct definition.
type eventRecord struct {
	kind         uint32
	sampleOffset int32
	channel      int16
	note         int16
	velocity     float32
	paramID      uint32
	_            [4]byte // align value to 8 bytes; total is eventRecordSize
	value        float64
}

func encodeEvent(e processor.Event) eventRecord {
	return eventRecord{
		kind:         uint32(e.Kind),
		sampleOffset: e.SampleOffset,
		channel:      e.Channel,
		note:         e.Note,
		velocity:     e.Velocity,
		paramID:      e.ParamID,
		value:        e.Value,
	}
}

func decodeEvent(r eventRecord) processor.Event {
	return processor.Event{
		Kind:         processor.EventKind(r.kind),
		SampleOffset: r.sampleOffset,
		Channel:      r.channel,
		Note:         r.note,
		Velocity:     r.velocity,
		ParamID:      r.paramID,
		Value:        r.value,
	}
}

func (r *Region) eventSlice() []eventRecord {
	ptr := unsafe.Pointer(&r.mem[offEvents])
	return unsafe.Slice((*eventRecord)(ptr), EMax)
}

// PutEvents writes events into the region's event array and publishes the
// count. events must not exceed EMax; the caller (parent) is responsible
// for truncation policy.
func (r *Region) PutEvents(events []processor.Event) {
	n := len(events)
	if n > EMax {
		n = EMax
	}
	slots := r.eventSlice()
	for i := 0; i < n; i++ {
		slots[i] = encodeEvent(events[i])
	}
	r.SetEventCount(uint32(n))
}

// Events decodes up to EventCount() events out of the region's event
// array into dst, reusing its backing array when it has enough capacity.
func (r *Region) Events(dst []processor.Event) []processor.Event {
	n := int(r.EventCount())
	if n > EMax {
		n = EMax
	}
	if cap(dst) < n {
		dst = make([]processor.Event, n)
	} else {
		dst = dst[:n]
	}
	slots := r.eventSlice()
	for i := 0; i < n; i++ {
		dst[i] = decodeEvent(slots[i])
	}
	return dst
}

// silence is a convenience no-alloc helper for writing zeros into a
// channel slice without depending on math on the hot path.
func silence(buf []float32, n int) {
	for i := 0; i < n && i < len(buf); i++ {
		buf[i] = 0
	}
}
