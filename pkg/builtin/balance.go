package builtin

import (
	"math"

	"github.com/vvdaw/host/pkg/processor"
)

// ParamPan is the stable parameter identifier for Balance.Pan.
const ParamPan uint32 = 1

// Balance is a stereo constant-power pan processor. Pan in [-1, 1], default
// 0. Let theta = (pan+1)/2 * pi/2; left = left_in * cos(theta), right =
// right_in * sin(theta). cos(theta)^2 + sin(theta)^2 == 1 by construction,
// so perceived loudness is preserved across the pan range.
type Balance struct {
	pan *atomicParam
}

func NewBalance() *Balance {
	return &Balance{pan: newAtomicParam(-1, 1, 0)}
}

func (b *Balance) Info() processor.PluginInfo {
	return processor.PluginInfo{
		Name:    "Stereo Balance",
		Vendor:  "vvdaw",
		Version: "1.0.0",
		UID:     builtinUID(string(NameBalance)),
	}
}

func (b *Balance) Initialize(sampleRate float64, maxBlockSize int) error { return nil }

// Gains returns the constant-power left/right gain multipliers for pan.
func Gains(pan float64) (left, right float64) {
	theta := (pan + 1) / 2 * math.Pi / 2
	return math.Cos(theta), math.Sin(theta)
}

func (b *Balance) Process(block processor.AudioBlock, events []processor.Event) error {
	if err := processor.ValidateBlock(block, 2, 2); err != nil {
		return err
	}
	for _, ev := range events {
		if ev.Kind == processor.EventParamChange && ev.ParamID == ParamPan {
			b.pan.store(float32(ev.Value))
		}
	}
	left, right := Gains(float64(b.pan.load()))
	l, r := float32(left), float32(right)

	inL, inR := block.Input[0], block.Input[1]
	outL, outR := block.Output[0], block.Output[1]
	for i := 0; i < block.Frames; i++ {
		outL[i] = inL[i] * l
		outR[i] = inR[i] * r
	}
	return nil
}

func (b *Balance) SetParameter(id uint32, value float64) error {
	if id != ParamPan {
		return processor.NewError(processor.ErrInvalidParameter, "unknown parameter %d", id)
	}
	b.pan.store(float32(value))
	return nil
}

func (b *Balance) GetParameter(id uint32) (float64, error) {
	if id != ParamPan {
		return 0, processor.NewError(processor.ErrInvalidParameter, "unknown parameter %d", id)
	}
	return float64(b.pan.load()), nil
}

func (b *Balance) Parameters() []processor.ParameterInfo {
	return []processor.ParameterInfo{
		{ID: ParamPan, Name: "Pan", Min: -1, Max: 1, Default: 0, Unit: ""},
	}
}

func (b *Balance) InputChannels() int  { return 2 }
func (b *Balance) OutputChannels() int { return 2 }
func (b *Balance) Deactivate()         {}
