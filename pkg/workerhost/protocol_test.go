package workerhost

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vvdaw/host/pkg/processor"
)

func TestMessageRoundTripInit(t *testing.T) {
	msg := Message{Init: &InitPayload{SampleRate: 48000, MaxBlockSize: 512}}
	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	var got Message
	require.NoError(t, json.Unmarshal(raw, &got))
	require.NotNil(t, got.Init)
	require.Equal(t, float64(48000), got.Init.SampleRate)
	require.Equal(t, 512, got.Init.MaxBlockSize)
	require.Nil(t, got.Activate)
	require.Nil(t, got.Error)
}

func TestMessageRoundTripError(t *testing.T) {
	msg := Message{Error: &ErrorPayload{Message: "boom"}}
	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	require.JSONEq(t, `{"Error":{"message":"boom"}}`, string(raw))

	var got Message
	require.NoError(t, json.Unmarshal(raw, &got))
	require.NotNil(t, got.Error)
	require.Equal(t, "boom", got.Error.Message)
}

func TestToWireInfoAndParams(t *testing.T) {
	info := processor.PluginInfo{Name: "Gain", Vendor: "vvdaw", Version: "1.0.0", UID: [16]byte{1, 2, 3}}
	wire := toWireInfo(info)
	require.Equal(t, "Gain", wire.Name)
	require.Len(t, wire.UID, 32)
	require.Equal(t, "010203", wire.UID[:6])

	params := []processor.ParameterInfo{{ID: 1, Name: "Gain", Min: 0, Max: 2, Default: 1}}
	wireParams := toWireParams(params)
	require.Len(t, wireParams, 1)
	require.Equal(t, uint32(1), wireParams[0].ID)
	require.Equal(t, 2.0, wireParams[0].Max)
}

func TestHexEncodeWritesLowercaseDigitPairs(t *testing.T) {
	uid := [16]byte{0xde, 0xad, 0xbe, 0xef}
	encoded := hexEncode(uid[:])
	require.Len(t, encoded, 32)
	require.Equal(t, "deadbeef", encoded[:8])
}
