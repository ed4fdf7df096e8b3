package proxy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vvdaw/host/pkg/workerhost"
)

func TestFromWireInfoDecodesUID(t *testing.T) {
	wire := workerhost.WirePluginInfo{Name: "Gain", Vendor: "vvdaw", Version: "1.0.0", UID: "deadbeef" + strings.Repeat("0", 24)}
	info := fromWireInfo(wire)
	require.Equal(t, "Gain", info.Name)
	require.Equal(t, "vvdaw", info.Vendor)
	require.Equal(t, [4]byte{0xde, 0xad, 0xbe, 0xef}, [4]byte(info.UID[:4]))
}

func TestFromWireParamsPreservesFields(t *testing.T) {
	wire := []workerhost.WireParameterInfo{
		{ID: 1, Name: "Gain", Min: 0, Max: 2, Default: 1, Unit: "x"},
		{ID: 2, Name: "Pan", Min: -1, Max: 1},
	}
	params := fromWireParams(wire)
	require.Len(t, params, 2)
	require.Equal(t, uint32(1), params[0].ID)
	require.Equal(t, "Gain", params[0].Name)
	require.Equal(t, 2.0, params[0].Max)
	require.Equal(t, "x", params[0].Unit)
	require.Equal(t, uint32(2), params[1].ID)
	require.Equal(t, -1.0, params[1].Min)
}

func TestHexDecodeNibbles(t *testing.T) {
	var dst [4]byte
	hexDecode("deadbeef", dst[:])
	require.Equal(t, [4]byte{0xde, 0xad, 0xbe, 0xef}, dst)
}

func TestHexDecodeShortStringFillsLeadingByte(t *testing.T) {
	dst := [2]byte{0xff, 0xff}
	hexDecode("ab", dst[:])
	require.Equal(t, byte(0xab), dst[0])
}
