package processor

// ValidateBlock checks that block carries exactly wantIn input channels and
// wantOut output channels, and that every channel buffer is long enough for
// block.Frames. Built-in processors call this at the top of Process so a
// channel-count mismatch returns a processing error instead of writing out
// of bounds.
func ValidateBlock(block AudioBlock, wantIn, wantOut int) error {
	if len(block.Input) != wantIn {
		return NewError(ErrProcessingFailed, "expected %d input channels, got %d", wantIn, len(block.Input))
	}
	if len(block.Output) != wantOut {
		return NewError(ErrProcessingFailed, "expected %d output channels, got %d", wantOut, len(block.Output))
	}
	for i, ch := range block.Input {
		if len(ch) < block.Frames {
			return NewError(ErrProcessingFailed, "input channel %d has %d samples, need >= %d", i, len(ch), block.Frames)
		}
	}
	for i, ch := range block.Output {
		if len(ch) < block.Frames {
			return NewError(ErrProcessingFailed, "output channel %d has %d samples, need >= %d", i, len(ch), block.Frames)
		}
	}
	return nil
}

// SortEvents stable-sorts events by SampleOffset ascending, preserving
// insertion order for ties, per spec.
func SortEvents(events []Event) {
	// insertion sort: event buffers are tiny (bounded by E_max) and already
	// nearly sorted in the common case of one producer appending in time
	// order, so this is cheap and allocation-free, unlike sort.Slice.
	for i := 1; i < len(events); i++ {
		j := i
		for j > 0 && events[j-1].SampleOffset > events[j].SampleOffset {
			events[j-1], events[j] = events[j], events[j-1]
			j--
		}
	}
}
