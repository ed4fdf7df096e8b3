package builtin

import (
	"crypto/sha1"

	"github.com/vvdaw/host/pkg/processor"
)

// builtinUID derives a stable 128-bit identifier for a built-in processor
// from its registered name, so PluginInfo.UID is populated the same way a
// native plugin's class ID would be, without needing a hand-maintained
// table of random bytes.
func builtinUID(name string) [16]byte {
	sum := sha1.Sum([]byte(name))
	var uid [16]byte
	copy(uid[:], sum[:16])
	return uid
}

// Name identifies a built-in processor kind. It doubles as the
// graph.Source name used to reconstruct a graph.Node from serialized
// state without a native bundle path.
type Name string

const (
	NameGain    Name = "builtin.gain"
	NameBalance Name = "builtin.balance"
	NameMixer   Name = "builtin.mixer"
	NameSampler Name = "builtin.sampler"
)

// New constructs a built-in processor by name. Sampler is constructed empty
// (silent); use NewSampler with interleaved data to load frames.
func New(name Name) (processor.Processor, error) {
	switch name {
	case NameGain:
		return NewGain(), nil
	case NameBalance:
		return NewBalance(), nil
	case NameMixer:
		return NewMixer(), nil
	case NameSampler:
		return NewSampler(nil, 0), nil
	default:
		return nil, processor.NewError(processor.ErrInitializationFailed, "unknown built-in processor %q", name)
	}
}
