package loader

import (
	"testing"

	"github.com/vvdaw/host/pkg/builtin"
)

func TestToEngineRateNoopWhenRatesMatch(t *testing.T) {
	data := SampleData{Interleaved: []float32{1, -1, 0.5, -0.5}, Rate: 48000}
	out, err := ToEngineRate(data, 48000)
	if err != nil {
		t.Fatalf("ToEngineRate: %v", err)
	}
	if &out.Interleaved[0] != &data.Interleaved[0] {
		t.Fatal("expected the same backing array when rates match")
	}
}

func TestToEngineRateEmptyData(t *testing.T) {
	out, err := ToEngineRate(SampleData{Rate: 44100}, 48000)
	if err != nil {
		t.Fatalf("ToEngineRate: %v", err)
	}
	if out.Rate != 48000 || len(out.Interleaved) != 0 {
		t.Fatalf("out = %+v", out)
	}
}

func TestNewSamplerSkipsResampleWhenRateUnset(t *testing.T) {
	data := SampleData{Interleaved: []float32{1, -1, 0.5, -0.5}, Rate: 0}
	s, err := NewSampler(data, 48000, builtin.PolicyWarn)
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}
	if s == nil {
		t.Fatal("expected non-nil sampler")
	}
}
