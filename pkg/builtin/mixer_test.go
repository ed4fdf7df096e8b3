package builtin

import "testing"

func TestMixerUnity(t *testing.T) {
	m := NewMixer()
	in := [][]float32{
		constBuf(64, 1.0), // A left
		constBuf(64, 0.5), // A right
		constBuf(64, 0.3), // B left
		constBuf(64, 0.2), // B right
	}
	out := [][]float32{make([]float32, 64), make([]float32, 64)}
	if err := m.Process(block64(in, out), nil); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !within(float64(out[0][0]), 1.3, 1e-6) {
		t.Fatalf("left = %v, want 1.3", out[0][0])
	}
	if !within(float64(out[1][0]), 0.7, 1e-6) {
		t.Fatalf("right = %v, want 0.7", out[1][0])
	}
}

func TestMixerChannelMismatch(t *testing.T) {
	m := NewMixer()
	in := [][]float32{constBuf(64, 1.0), constBuf(64, 1.0)}
	out := [][]float32{make([]float32, 64), make([]float32, 64)}
	if err := m.Process(block64(in, out), nil); err == nil {
		t.Fatal("expected error on channel mismatch, got nil")
	}
}
