// Package shm implements the fixed-layout, memory-mapped shared region
// used to exchange one audio block per cycle between the parent process
// and a worker process hosting a single native plugin, synchronized
// through the region's own atomic state word rather than OS-level locks.
package shm

const (
	// Channels is the fixed channel count for the MVP: stereo in, stereo
	// out, on both sides of the region.
	Channels = 2

	// FMax is the maximum frames a single block may carry.
	FMax = 8192

	// EMax is the maximum number of events a single block may carry.
	EMax = 1024

	eventRecordSize = 32
	headerSize      = 16
	channelBytes    = FMax * 4 // float32
	audioBytes      = Channels * 2 * channelBytes
	eventsBytes     = EMax * eventRecordSize

	// RegionSize is the total number of bytes the mapped region occupies.
	RegionSize = headerSize + audioBytes + eventsBytes

	offState      = 0
	offFrameCount = 4
	offEventCount = 8
	// 4 bytes padding at offset 12 keeps the audio arrays 16-byte aligned.
	offInput  = headerSize
	offOutput = offInput + Channels*channelBytes
	offEvents = offOutput + Channels*channelBytes
)

func inputChannelOffset(ch int) int {
	return offInput + ch*channelBytes
}

func outputChannelOffset(ch int) int {
	return offOutput + ch*channelBytes
}

func eventOffset(i int) int {
	return offEvents + i*eventRecordSize
}
