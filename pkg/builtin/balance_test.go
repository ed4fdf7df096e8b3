package builtin

import (
	"math"
	"testing"
)

func within(a, b, eps float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func TestPanCenter(t *testing.T) {
	b := NewBalance()
	if err := b.SetParameter(ParamPan, 0); err != nil {
		t.Fatalf("SetParameter: %v", err)
	}
	in := [][]float32{constBuf(64, 1.0), constBuf(64, 0.5)}
	out := [][]float32{make([]float32, 64), make([]float32, 64)}
	if err := b.Process(block64(in, out), nil); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !within(float64(out[0][0]), 0.707, 1e-2) {
		t.Fatalf("left = %v, want ~0.707", out[0][0])
	}
	if !within(float64(out[1][0]), 0.354, 1e-2) {
		t.Fatalf("right = %v, want ~0.354", out[1][0])
	}
}

func TestPanHardRight(t *testing.T) {
	b := NewBalance()
	if err := b.SetParameter(ParamPan, 1); err != nil {
		t.Fatalf("SetParameter: %v", err)
	}
	in := [][]float32{constBuf(64, 0.8), constBuf(64, 0.6)}
	out := [][]float32{make([]float32, 64), make([]float32, 64)}
	if err := b.Process(block64(in, out), nil); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !within(float64(out[0][0]), 0.0, 1e-6) {
		t.Fatalf("left = %v, want 0", out[0][0])
	}
	if !within(float64(out[1][0]), 0.6, 1e-6) {
		t.Fatalf("right = %v, want 0.6", out[1][0])
	}
}

func TestPanConstantPowerEndpoints(t *testing.T) {
	cases := []struct {
		pan         float64
		left, right float64
	}{
		{-1, 1, 0},
		{0, math.Sqrt(0.5), math.Sqrt(0.5)},
		{1, 0, 1},
	}
	for _, c := range cases {
		l, r := Gains(c.pan)
		if !within(l, c.left, 1e-9) || !within(r, c.right, 1e-9) {
			t.Fatalf("pan %v: got (%v, %v), want (%v, %v)", c.pan, l, r, c.left, c.right)
		}
		if !within(l*l+r*r, 1, 1e-6) {
			t.Fatalf("pan %v: l^2+r^2 = %v, want 1", c.pan, l*l+r*r)
		}
	}
}
