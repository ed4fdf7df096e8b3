package builtin

import (
	"github.com/vvdaw/host/pkg/processor"
)

// ParamGain is the stable parameter identifier for Gain.Gain.
const ParamGain uint32 = 1

// Gain is a stereo processor with a single linear gain parameter in
// [0, 2], default 1. Output = input * gain, channelwise.
type Gain struct {
	gain *atomicParam
}

// NewGain creates a Gain processor with its parameter at the default value.
func NewGain() *Gain {
	return &Gain{gain: newAtomicParam(0, 2, 1)}
}

func (g *Gain) Info() processor.PluginInfo {
	return processor.PluginInfo{
		Name:    "Gain",
		Vendor:  "vvdaw",
		Version: "1.0.0",
		UID:     builtinUID("builtin.gain"),
	}
}

func (g *Gain) Initialize(sampleRate float64, maxBlockSize int) error { return nil }

func (g *Gain) Process(block processor.AudioBlock, events []processor.Event) error {
	if err := processor.ValidateBlock(block, 2, 2); err != nil {
		return err
	}
	for _, ev := range events {
		if ev.Kind == processor.EventParamChange && ev.ParamID == ParamGain {
			g.gain.store(float32(ev.Value))
		}
	}
	gain := g.gain.load()
	for ch := 0; ch < 2; ch++ {
		in, out := block.Input[ch], block.Output[ch]
		for i := 0; i < block.Frames; i++ {
			out[i] = in[i] * gain
		}
	}
	return nil
}

func (g *Gain) SetParameter(id uint32, value float64) error {
	if id != ParamGain {
		return processor.NewError(processor.ErrInvalidParameter, "unknown parameter %d", id)
	}
	g.gain.store(float32(value))
	return nil
}

func (g *Gain) GetParameter(id uint32) (float64, error) {
	if id != ParamGain {
		return 0, processor.NewError(processor.ErrInvalidParameter, "unknown parameter %d", id)
	}
	return float64(g.gain.load()), nil
}

func (g *Gain) Parameters() []processor.ParameterInfo {
	return []processor.ParameterInfo{
		{ID: ParamGain, Name: "Gain", Min: 0, Max: 2, Default: 1, Unit: "x"},
	}
}

func (g *Gain) InputChannels() int  { return 2 }
func (g *Gain) OutputChannels() int { return 2 }
func (g *Gain) Deactivate()         {}
