package abi

/*
#include "abi.h"

static inline tresult audioProcessor_setupProcessing(void* a, struct ProcessSetupC* setup) {
	struct AudioProcessor* ap = (struct AudioProcessor*)a;
	return ap->lpVtbl->setupProcessing(a, setup);
}
static inline tresult audioProcessor_setProcessing(void* a, uint8_t state) {
	struct AudioProcessor* ap = (struct AudioProcessor*)a;
	return ap->lpVtbl->setProcessing(a, state);
}
static inline tresult audioProcessor_process(void* a, void* data) {
	struct AudioProcessor* ap = (struct AudioProcessor*)a;
	return ap->lpVtbl->process(a, data);
}
*/
import "C"
import (
	"fmt"
	"unsafe"
)

// ProcessModeRealtime is the only processing mode this host requests.
const ProcessModeRealtime = 0

// SampleSize32 selects 32-bit float sample processing.
const SampleSize32 = 0

// ProcessSetup mirrors the native ProcessSetupC the plugin expects at
// setupProcessing time.
type ProcessSetup struct {
	ProcessMode        int32
	SymbolicSampleSize int32
	MaxSamplesPerBlock int32
	SampleRate         float64
}

// AudioProcessor wraps a native IAudioProcessor: the interface that
// actually performs signal processing.
type AudioProcessor struct {
	Unknown
}

func WrapAudioProcessor(ptr unsafe.Pointer) AudioProcessor {
	return AudioProcessor{Unknown: WrapUnknown(ptr)}
}

// SetupProcessing configures block size, sample rate, and mode ahead of
// activation.
func (a AudioProcessor) SetupProcessing(setup ProcessSetup) error {
	cs := C.struct_ProcessSetupC{
		processMode:        C.int32_t(setup.ProcessMode),
		symbolicSampleSize: C.int32_t(setup.SymbolicSampleSize),
		maxSamplesPerBlock: C.int32_t(setup.MaxSamplesPerBlock),
		sampleRate:         C.double(setup.SampleRate),
	}
	if res := C.audioProcessor_setupProcessing(a.ptr, &cs); res != 0 {
		return fmt.Errorf("abi: audioProcessor.setupProcessing failed (%d)", int32(res))
	}
	return nil
}

// SetProcessing toggles the plugin's internal processing-active flag,
// distinct from the component's activation state.
func (a AudioProcessor) SetProcessing(state bool) error {
	if res := C.audioProcessor_setProcessing(a.ptr, cBool(state)); res != 0 {
		return fmt.Errorf("abi: audioProcessor.setProcessing(%v) failed (%d)", state, int32(res))
	}
	return nil
}

// Process invokes the plugin's process() with a pre-built ProcessDataC
// descriptor.
func (a AudioProcessor) Process(data unsafe.Pointer) error {
	if res := C.audioProcessor_process(a.ptr, data); res != 0 {
		return fmt.Errorf("abi: audioProcessor.process failed (%d)", int32(res))
	}
	return nil
}
