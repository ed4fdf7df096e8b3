// Package workerhost implements the standalone worker process described
// in §4.5: a binary that loads exactly one plugin, owns one shared
// region, runs the region's worker-side audio loop on its own thread,
// and answers a line-delimited JSON control protocol (§6.1) on
// stdin/stdout. cmd/vvdaw-worker is a thin wrapper around Host.
package workerhost

import "github.com/vvdaw/host/pkg/processor"

// Message is the worker control protocol's wire envelope. Exactly one
// field is non-nil per line; the set of populated fields mirrors the
// enumerated messages in §6.1. encoding/json's omitempty keeps every
// other field off the wire.
type Message struct {
	// Messages in (parent -> worker).
	Init          *InitPayload          `json:"Init,omitempty"`
	Activate      *struct{}             `json:"Activate,omitempty"`
	Deactivate    *struct{}             `json:"Deactivate,omitempty"`
	Shutdown      *struct{}             `json:"Shutdown,omitempty"`
	SetParameter  *SetParameterPayload  `json:"SetParameter,omitempty"`
	GetParameter  *GetParameterPayload  `json:"GetParameter,omitempty"`
	GetParameters *struct{}             `json:"GetParameters,omitempty"`

	// Messages out (worker -> parent).
	Ready          *ReadyPayload          `json:"Ready,omitempty"`
	Initialized    *struct{}              `json:"Initialized,omitempty"`
	Activated      *struct{}              `json:"Activated,omitempty"`
	Deactivated    *struct{}              `json:"Deactivated,omitempty"`
	ParameterValue *ParameterValuePayload `json:"ParameterValue,omitempty"`
	Parameters     *ParametersPayload     `json:"Parameters,omitempty"`
	Error          *ErrorPayload          `json:"Error,omitempty"`
}

type InitPayload struct {
	SampleRate   float64 `json:"sample_rate"`
	MaxBlockSize int     `json:"max_block_size"`
}

type SetParameterPayload struct {
	ID    uint32  `json:"id"`
	Value float64 `json:"value"`
}

type GetParameterPayload struct {
	ID uint32 `json:"id"`
}

type ReadyPayload struct {
	Info WirePluginInfo `json:"info"`
}

type ParameterValuePayload struct {
	ID    uint32  `json:"id"`
	Value float64 `json:"value"`
}

type ParametersPayload struct {
	Parameters []WireParameterInfo `json:"parameters"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// WirePluginInfo and WireParameterInfo are JSON-friendly mirrors of
// processor.PluginInfo/ParameterInfo: the native types use a fixed byte
// array UID that encoding/json would otherwise render as a number array.
type WirePluginInfo struct {
	Name    string `json:"name"`
	Vendor  string `json:"vendor"`
	Version string `json:"version"`
	UID     string `json:"uid"` // hex-encoded
}

type WireParameterInfo struct {
	ID        uint32  `json:"id"`
	Name      string  `json:"name"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Default   float64 `json:"default"`
	StepCount int32   `json:"step_count"`
	Unit      string  `json:"unit"`
}

func toWireInfo(info processor.PluginInfo) WirePluginInfo {
	return WirePluginInfo{
		Name:    info.Name,
		Vendor:  info.Vendor,
		Version: info.Version,
		UID:     hexEncode(info.UID[:]),
	}
}

func toWireParams(params []processor.ParameterInfo) []WireParameterInfo {
	out := make([]WireParameterInfo, len(params))
	for i, p := range params {
		out[i] = WireParameterInfo{
			ID: p.ID, Name: p.Name, Min: p.Min, Max: p.Max,
			Default: p.Default, StepCount: p.StepCount, Unit: p.Unit,
		}
	}
	return out
}

const hexDigits = "0123456789abcdef"

func hexEncode(b []byte) string {
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexDigits[c>>4]
		out[i*2+1] = hexDigits[c&0xf]
	}
	return string(out)
}
