package builtin

import (
	"sync/atomic"

	"github.com/vvdaw/host/pkg/processor"
)

// RateMismatchPolicy controls what happens when the engine's sample rate
// differs from the rate the sampler's data was captured at. The core never
// resamples on the audio thread (spec §4.2, §6.3); resampling, if wanted,
// is pkg/loader's job, off the audio thread, before construction.
type RateMismatchPolicy int

const (
	// PolicyWarn plays the data back at the engine's rate regardless,
	// reporting the mismatch via RateMismatched.
	PolicyWarn RateMismatchPolicy = iota
	// PolicyReject fails Initialize with a FormatError instead of playing
	// back a rate-mismatched buffer.
	PolicyReject
)

// Sampler is a zero-input, stereo-output processor that loops a fixed,
// non-sharable interleaved stereo buffer captured at construction.
type Sampler struct {
	data       []float32 // interleaved L,R,L,R,...
	frames     int
	dataRate   float64
	policy     RateMismatchPolicy

	engineRate float64

	position        uint64 // atomic frame position
	rateMismatched  int32  // atomic bool
}

// NewSampler constructs a Sampler over interleaved stereo data captured at
// dataRate. An empty or nil buffer plays silence forever.
func NewSampler(interleavedStereo []float32, dataRate float64) *Sampler {
	return &Sampler{
		data:     interleavedStereo,
		frames:   len(interleavedStereo) / 2,
		dataRate: dataRate,
		policy:   PolicyWarn,
	}
}

// SetRateMismatchPolicy configures behavior for Initialize when the engine
// sample rate differs from the captured data's rate.
func (s *Sampler) SetRateMismatchPolicy(p RateMismatchPolicy) {
	s.policy = p
}

// RateMismatched reports whether the engine's sample rate differs from the
// sampler's data rate (only meaningful after Initialize).
func (s *Sampler) RateMismatched() bool {
	return atomic.LoadInt32(&s.rateMismatched) != 0
}

func (s *Sampler) Info() processor.PluginInfo {
	return processor.PluginInfo{
		Name:    "Sampler",
		Vendor:  "vvdaw",
		Version: "1.0.0",
		UID:     builtinUID(string(NameSampler)),
	}
}

func (s *Sampler) Initialize(sampleRate float64, maxBlockSize int) error {
	s.engineRate = sampleRate
	mismatched := s.dataRate > 0 && sampleRate > 0 && s.dataRate != sampleRate
	if mismatched {
		if s.policy == PolicyReject {
			return processor.NewError(processor.ErrFormatError,
				"sampler data rate %.0fHz does not match engine rate %.0fHz", s.dataRate, sampleRate)
		}
		atomic.StoreInt32(&s.rateMismatched, 1)
	} else {
		atomic.StoreInt32(&s.rateMismatched, 0)
	}
	return nil
}

func (s *Sampler) Process(block processor.AudioBlock, events []processor.Event) error {
	if err := processor.ValidateBlock(block, 0, 2); err != nil {
		return err
	}
	outL, outR := block.Output[0], block.Output[1]
	if s.frames == 0 {
		for i := 0; i < block.Frames; i++ {
			outL[i] = 0
			outR[i] = 0
		}
		return nil
	}

	pos := atomic.LoadUint64(&s.position)
	for i := 0; i < block.Frames; i++ {
		idx := int(pos % uint64(s.frames))
		outL[i] = s.data[idx*2]
		outR[i] = s.data[idx*2+1]
		pos++
	}
	atomic.StoreUint64(&s.position, pos)
	return nil
}

func (s *Sampler) SetParameter(id uint32, value float64) error {
	return processor.NewError(processor.ErrInvalidParameter, "sampler has no parameters")
}

func (s *Sampler) GetParameter(id uint32) (float64, error) {
	return 0, processor.NewError(processor.ErrInvalidParameter, "sampler has no parameters")
}

func (s *Sampler) Parameters() []processor.ParameterInfo { return nil }

func (s *Sampler) InputChannels() int  { return 0 }
func (s *Sampler) OutputChannels() int { return 2 }

func (s *Sampler) Deactivate() {
	atomic.StoreUint64(&s.position, 0)
}
