package builtin

import (
	"testing"

	"github.com/vvdaw/host/pkg/processor"
)

func block64(in, out [][]float32) processor.AudioBlock {
	return processor.AudioBlock{Input: in, Output: out, Frames: 64}
}

func constBuf(n int, v float32) []float32 {
	buf := make([]float32, n)
	for i := range buf {
		buf[i] = v
	}
	return buf
}

func TestGainPassthrough(t *testing.T) {
	g := NewGain()
	if err := g.Initialize(48000, 64); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	in := [][]float32{constBuf(64, 0.5), constBuf(64, 0.5)}
	out := [][]float32{make([]float32, 64), make([]float32, 64)}

	if err := g.Process(block64(in, out), nil); err != nil {
		t.Fatalf("Process: %v", err)
	}
	for ch := 0; ch < 2; ch++ {
		for i, v := range out[ch] {
			if v != 0.5 {
				t.Fatalf("ch%d[%d] = %v, want 0.5", ch, i, v)
			}
		}
	}
}

func TestGainAttenuation(t *testing.T) {
	g := NewGain()
	if err := g.SetParameter(ParamGain, 0.5); err != nil {
		t.Fatalf("SetParameter: %v", err)
	}
	in := [][]float32{constBuf(64, 1.0), constBuf(64, 1.0)}
	out := [][]float32{make([]float32, 64), make([]float32, 64)}

	if err := g.Process(block64(in, out), nil); err != nil {
		t.Fatalf("Process: %v", err)
	}
	for ch := 0; ch < 2; ch++ {
		for i, v := range out[ch] {
			if v != 0.5 {
				t.Fatalf("ch%d[%d] = %v, want 0.5", ch, i, v)
			}
		}
	}
}

func TestGainChannelMismatch(t *testing.T) {
	g := NewGain()
	in := [][]float32{constBuf(64, 1.0)}
	out := [][]float32{make([]float32, 64), make([]float32, 64)}
	if err := g.Process(block64(in, out), nil); err == nil {
		t.Fatal("expected error on channel mismatch, got nil")
	}
}

func TestGainParamClamping(t *testing.T) {
	g := NewGain()
	if err := g.SetParameter(ParamGain, 5); err != nil {
		t.Fatalf("SetParameter: %v", err)
	}
	got, err := g.GetParameter(ParamGain)
	if err != nil {
		t.Fatalf("GetParameter: %v", err)
	}
	if got != 2 {
		t.Fatalf("got %v, want clamp(5) = 2", got)
	}

	if err := g.SetParameter(ParamGain, -5); err != nil {
		t.Fatalf("SetParameter: %v", err)
	}
	got, _ = g.GetParameter(ParamGain)
	if got != 0 {
		t.Fatalf("got %v, want clamp(-5) = 0", got)
	}
}

func TestGainParamChangeEventAppliesBeforeProcessing(t *testing.T) {
	g := NewGain()
	in := [][]float32{constBuf(64, 1.0), constBuf(64, 1.0)}
	out := [][]float32{make([]float32, 64), make([]float32, 64)}

	events := []processor.Event{processor.ParamChange(ParamGain, 0.5, 0)}
	if err := g.Process(block64(in, out), events); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out[0][0] != 0.5 {
		t.Fatalf("got %v, want 0.5", out[0][0])
	}
}
