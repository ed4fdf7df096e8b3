package abi

/*
#include "abi.h"
#include <stdlib.h>
*/
import "C"
import "unsafe"

// ProcessBuffers holds the pointer arrays a ProcessDataC descriptor needs
// and is allocated once per Host (during Initialize) and reused for
// every Process call, per §4.3: "these pointer arrays must remain valid
// for the duration of the call; the host maintains them as instance
// state."
type ProcessBuffers struct {
	maxChannels int

	inBus  C.struct_AudioBusBufferValues
	outBus C.struct_AudioBusBufferValues

	inPtrs  []*C.float
	outPtrs []*C.float

	data C.struct_ProcessDataC
}

// NewProcessBuffers allocates the fixed-size pointer arrays for up to
// maxChannels input and output channels.
func NewProcessBuffers(maxChannels int) *ProcessBuffers {
	pb := &ProcessBuffers{
		maxChannels: maxChannels,
		inPtrs:      make([]*C.float, maxChannels),
		outPtrs:     make([]*C.float, maxChannels),
	}
	return pb
}

// Prepare rewires the descriptor's channel pointers to the given Go
// buffers (input read-only, output write-only) for one Process call.
// Channels beyond either side's declared width are omitted, per §4.3.
func (pb *ProcessBuffers) Prepare(inputs, outputs [][]float32, frames int, sampleRate float64) unsafe.Pointer {
	numIn := min(len(inputs), pb.maxChannels)
	numOut := min(len(outputs), pb.maxChannels)

	for i := 0; i < numIn; i++ {
		if len(inputs[i]) > 0 {
			pb.inPtrs[i] = (*C.float)(unsafe.Pointer(&inputs[i][0]))
		} else {
			pb.inPtrs[i] = nil
		}
	}
	for i := 0; i < numOut; i++ {
		if len(outputs[i]) > 0 {
			pb.outPtrs[i] = (*C.float)(unsafe.Pointer(&outputs[i][0]))
		} else {
			pb.outPtrs[i] = nil
		}
	}

	pb.inBus.numChannels = C.int32_t(numIn)
	if numIn > 0 {
		pb.inBus.channelBuffers32 = (**C.float)(unsafe.Pointer(&pb.inPtrs[0]))
	}
	pb.outBus.numChannels = C.int32_t(numOut)
	if numOut > 0 {
		pb.outBus.channelBuffers32 = (**C.float)(unsafe.Pointer(&pb.outPtrs[0]))
	}

	pb.data = C.struct_ProcessDataC{
		processMode:        ProcessModeRealtime,
		symbolicSampleSize: SampleSize32,
		numSamples:         C.int32_t(frames),
		numInputs:          1,
		numOutputs:         1,
		inputs:             &pb.inBus,
		outputs:            &pb.outBus,
	}
	return unsafe.Pointer(&pb.data)
}

// SetParameterChanges attaches the host's parameter-change queue list for
// this call. Pass nil to clear it.
func (pb *ProcessBuffers) SetParameterChanges(changes unsafe.Pointer) {
	pb.data.inputParameterChanges = changes
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
