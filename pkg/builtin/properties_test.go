package builtin

import (
	"math"
	"testing"

	"github.com/vvdaw/host/pkg/processor"
	"pgregory.net/rapid"
)

// buildBlock allocates input/output buffers for the given channel counts
// and frame count, with input channels filled from gen.
func buildBlock(t *rapid.T, inCh, outCh, frames int, gen *rapid.Generator[float32]) ([][]float32, processor.AudioBlock) {
	in := make([][]float32, inCh)
	for ch := range in {
		in[ch] = make([]float32, frames)
		for i := range in[ch] {
			in[ch][i] = gen.Draw(t, "sample")
		}
	}
	out := make([][]float32, outCh)
	for ch := range out {
		// over-allocate to check nothing beyond Frames is touched
		out[ch] = make([]float32, frames+8)
		for i := range out[ch] {
			out[ch][i] = -999 // sentinel
		}
	}
	block := processor.AudioBlock{Input: in, Output: out, Frames: frames}
	return out, block
}

// TestProcessorOutputLengthInvariance covers spec §8 property 1: every
// built-in writes exactly N frames per output channel and touches nothing
// beyond.
func TestProcessorOutputLengthInvariance(t *testing.T) {
	procs := map[string]func() processor.Processor{
		"gain":    func() processor.Processor { return NewGain() },
		"balance": func() processor.Processor { return NewBalance() },
		"mixer":   func() processor.Processor { return NewMixer() },
		"sampler": func() processor.Processor { return NewSampler([]float32{1, 1, 0.5, 0.5}, 48000) },
	}
	for name, ctor := range procs {
		t.Run(name, func(t *testing.T) {
			rapid.Check(t, func(t *rapid.T) {
				p := ctor()
				_ = p.Initialize(48000, 4096)
				frames := rapid.IntRange(1, 2048).Draw(t, "frames")
				sample := rapid.Float32Range(-1, 1)
				out, block := buildBlock(t, p.InputChannels(), p.OutputChannels(), frames, sample)

				if err := p.Process(block, nil); err != nil {
					t.Fatalf("Process: %v", err)
				}
				for ch := range out {
					for i := frames; i < len(out[ch]); i++ {
						if out[ch][i] != -999 {
							t.Fatalf("channel %d wrote beyond frame %d", ch, frames)
						}
					}
				}
			})
		})
	}
}

// TestGainLinearityProperty covers spec §8 property 2: output is bit-equal
// to x*g under a single-multiply reference.
func TestGainLinearityProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := NewGain()
		gain := rapid.Float32Range(0, 2).Draw(t, "gain")
		if err := g.SetParameter(ParamGain, float64(gain)); err != nil {
			t.Fatalf("SetParameter: %v", err)
		}
		frames := rapid.IntRange(1, 256).Draw(t, "frames")
		x := rapid.Float32Range(-1, 1).Draw(t, "x")

		in := [][]float32{constBuf(frames, x), constBuf(frames, x)}
		out := [][]float32{make([]float32, frames), make([]float32, frames)}
		if err := g.Process(processor.AudioBlock{Input: in, Output: out, Frames: frames}, nil); err != nil {
			t.Fatalf("Process: %v", err)
		}
		want := x * gain
		for ch := 0; ch < 2; ch++ {
			for _, v := range out[ch] {
				if v != want {
					t.Fatalf("got %v, want bit-equal %v", v, want)
				}
			}
		}
	})
}

// TestConstantPowerPanProperty covers spec §8 property 3.
func TestConstantPowerPanProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pan := rapid.Float64Range(-1, 1).Draw(t, "pan")
		l, r := Gains(pan)
		if math.Abs(l*l+r*r-1) > 1e-6 {
			t.Fatalf("pan %v: l^2+r^2 = %v, want ~1", pan, l*l+r*r)
		}
	})
}

// TestParameterClampingProperty covers spec §8 property 5 across every
// built-in parameter.
func TestParameterClampingProperty(t *testing.T) {
	type target struct {
		name string
		proc processor.Processor
		info processor.ParameterInfo
	}
	g := NewGain()
	b := NewBalance()
	m := NewMixer()
	var targets []target
	for _, pi := range g.Parameters() {
		targets = append(targets, target{"gain", g, pi})
	}
	for _, pi := range b.Parameters() {
		targets = append(targets, target{"balance", b, pi})
	}
	for _, pi := range m.Parameters() {
		targets = append(targets, target{"mixer", m, pi})
	}

	for _, tg := range targets {
		tg := tg
		t.Run(tg.name+"/"+tg.info.Name, func(t *testing.T) {
			rapid.Check(t, func(t *rapid.T) {
				// Parameters are stored as 32-bit floats, so v is drawn
				// from float32 values to compare exactly.
				v := float64(rapid.Float32Range(float32(tg.info.Min-10), float32(tg.info.Max+10)).Draw(t, "v"))
				if err := tg.proc.SetParameter(tg.info.ID, v); err != nil {
					t.Fatalf("SetParameter: %v", err)
				}
				got, err := tg.proc.GetParameter(tg.info.ID)
				if err != nil {
					t.Fatalf("GetParameter: %v", err)
				}
				want := tg.info.Clamp(v)
				if got != want {
					t.Fatalf("got %v, want clamp(%v) = %v", got, v, want)
				}
			})
		})
	}
}
