package builtin

import "github.com/vvdaw/host/pkg/processor"

// Mixer parameter identifiers.
const (
	ParamGainA     uint32 = 1
	ParamGainB     uint32 = 2
	ParamGainMaster uint32 = 3
)

// Mixer takes four mono inputs, treated as two stereo pairs (A: ch0/ch1,
// B: ch2/ch3), and produces one stereo output:
//
//	out[ch] = (inA[ch]*gainA + inB[ch]*gainB) * master
type Mixer struct {
	gainA, gainB, master *atomicParam
}

func NewMixer() *Mixer {
	return &Mixer{
		gainA:  newAtomicParam(0, 2, 1),
		gainB:  newAtomicParam(0, 2, 1),
		master: newAtomicParam(0, 2, 1),
	}
}

func (m *Mixer) Info() processor.PluginInfo {
	return processor.PluginInfo{
		Name:    "Mixer",
		Vendor:  "vvdaw",
		Version: "1.0.0",
		UID:     builtinUID(string(NameMixer)),
	}
}

func (m *Mixer) Initialize(sampleRate float64, maxBlockSize int) error { return nil }

func (m *Mixer) paramFor(id uint32) *atomicParam {
	switch id {
	case ParamGainA:
		return m.gainA
	case ParamGainB:
		return m.gainB
	case ParamGainMaster:
		return m.master
	default:
		return nil
	}
}

func (m *Mixer) Process(block processor.AudioBlock, events []processor.Event) error {
	if err := processor.ValidateBlock(block, 4, 2); err != nil {
		return err
	}
	for _, ev := range events {
		if ev.Kind != processor.EventParamChange {
			continue
		}
		if p := m.paramFor(ev.ParamID); p != nil {
			p.store(float32(ev.Value))
		}
	}
	ga, gb, gm := m.gainA.load(), m.gainB.load(), m.master.load()

	for ch := 0; ch < 2; ch++ {
		a := block.Input[ch]
		b := block.Input[ch+2]
		out := block.Output[ch]
		for i := 0; i < block.Frames; i++ {
			out[i] = (a[i]*ga + b[i]*gb) * gm
		}
	}
	return nil
}

func (m *Mixer) SetParameter(id uint32, value float64) error {
	p := m.paramFor(id)
	if p == nil {
		return processor.NewError(processor.ErrInvalidParameter, "unknown parameter %d", id)
	}
	p.store(float32(value))
	return nil
}

func (m *Mixer) GetParameter(id uint32) (float64, error) {
	p := m.paramFor(id)
	if p == nil {
		return 0, processor.NewError(processor.ErrInvalidParameter, "unknown parameter %d", id)
	}
	return float64(p.load()), nil
}

func (m *Mixer) Parameters() []processor.ParameterInfo {
	return []processor.ParameterInfo{
		{ID: ParamGainA, Name: "Input A Gain", Min: 0, Max: 2, Default: 1},
		{ID: ParamGainB, Name: "Input B Gain", Min: 0, Max: 2, Default: 1},
		{ID: ParamGainMaster, Name: "Master Gain", Min: 0, Max: 2, Default: 1},
	}
}

func (m *Mixer) InputChannels() int  { return 4 }
func (m *Mixer) OutputChannels() int { return 2 }
func (m *Mixer) Deactivate()         {}
