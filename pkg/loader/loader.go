// Package loader performs the pre-processing §4.2 and §9 Open Question 4
// assign to "a pre-processing responsibility of the loader": converting
// captured sample data to the engine's sample rate before a
// builtin.Sampler is ever constructed, off the audio thread. The sampler
// itself never resamples; it only loops whatever interleaved stereo
// buffer it was built with.
package loader

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/vvdaw/host/pkg/builtin"
	"github.com/zaf/resample"
)

// SampleData is raw interleaved stereo float32 data captured at Rate.
type SampleData struct {
	Interleaved []float32
	Rate        float64
}

// ToEngineRate returns a copy of d resampled to targetRate. If the rates
// already match, d is returned unchanged (no copy, no resampler
// construction). Only the control thread (a file-loader goroutine, per
// §5) ever calls this.
func ToEngineRate(d SampleData, targetRate float64) (SampleData, error) {
	if d.Rate <= 0 || targetRate <= 0 || d.Rate == targetRate {
		return d, nil
	}
	if len(d.Interleaved) == 0 {
		return SampleData{Interleaved: nil, Rate: targetRate}, nil
	}

	var out bytes.Buffer
	r, err := resample.New(&out, d.Rate, targetRate, 2, resample.F32, resample.HighQ)
	if err != nil {
		return SampleData{}, fmt.Errorf("loader: construct resampler %gHz->%gHz: %w", d.Rate, targetRate, err)
	}
	defer r.Close()

	raw := make([]byte, len(d.Interleaved)*4)
	for i, s := range d.Interleaved {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(s))
	}
	if _, err := r.Write(raw); err != nil {
		return SampleData{}, fmt.Errorf("loader: resample: %w", err)
	}

	converted := out.Bytes()
	samples := make([]float32, len(converted)/4)
	for i := range samples {
		bits := binary.LittleEndian.Uint32(converted[i*4:])
		samples[i] = math.Float32frombits(bits)
	}
	return SampleData{Interleaved: samples, Rate: targetRate}, nil
}

// NewSampler resamples d to targetRate (if needed) and wraps it in a
// ready-to-add builtin.Sampler node, applying policy for the (by
// construction, now rare) case the conversion itself could not be
// performed.
func NewSampler(d SampleData, targetRate float64, policy builtin.RateMismatchPolicy) (*builtin.Sampler, error) {
	converted, err := ToEngineRate(d, targetRate)
	if err != nil {
		return nil, err
	}
	s := builtin.NewSampler(converted.Interleaved, converted.Rate)
	s.SetRateMismatchPolicy(policy)
	return s, nil
}
