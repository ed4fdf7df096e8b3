package builtin

import (
	"testing"

	"github.com/vvdaw/host/pkg/processor"
)

func zeroInBlock(out [][]float32, frames int) processor.AudioBlock {
	return processor.AudioBlock{Output: out, Frames: frames}
}

func TestSamplerWrap(t *testing.T) {
	s := NewSampler([]float32{1, -1, 0.5, -0.5}, 48000)
	if err := s.Initialize(48000, 64); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	out := [][]float32{make([]float32, 4), make([]float32, 4)}
	if err := s.Process(zeroInBlock(out, 4), nil); err != nil {
		t.Fatalf("Process: %v", err)
	}
	wantL := []float32{1, 0.5, 1, 0.5}
	wantR := []float32{-1, -0.5, -1, -0.5}
	for i := 0; i < 4; i++ {
		if out[0][i] != wantL[i] {
			t.Fatalf("left[%d] = %v, want %v", i, out[0][i], wantL[i])
		}
		if out[1][i] != wantR[i] {
			t.Fatalf("right[%d] = %v, want %v", i, out[1][i], wantR[i])
		}
	}
}

func TestSamplerEmptyIsSilent(t *testing.T) {
	s := NewSampler(nil, 0)
	out := [][]float32{make([]float32, 8), make([]float32, 8)}
	if err := s.Process(zeroInBlock(out, 8), nil); err != nil {
		t.Fatalf("Process: %v", err)
	}
	for ch := 0; ch < 2; ch++ {
		for _, v := range out[ch] {
			if v != 0 {
				t.Fatalf("expected silence, got %v", v)
			}
		}
	}
}

func TestSamplerRateMismatchWarnPolicy(t *testing.T) {
	s := NewSampler([]float32{1, 1}, 44100)
	if err := s.Initialize(48000, 64); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !s.RateMismatched() {
		t.Fatal("expected RateMismatched() true")
	}
}

func TestSamplerRateMismatchRejectPolicy(t *testing.T) {
	s := NewSampler([]float32{1, 1}, 44100)
	s.SetRateMismatchPolicy(PolicyReject)
	if err := s.Initialize(48000, 64); err == nil {
		t.Fatal("expected Initialize to fail under PolicyReject")
	}
}
