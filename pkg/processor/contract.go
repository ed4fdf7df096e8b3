package processor

// Processor is the abstract audio-processor capability shared by built-in
// processors (pkg/builtin), the VST3 host binding (pkg/vst3host), and the
// out-of-process proxy (pkg/proxy). A single implementation of this
// interface is usable interchangeably as a graph.PluginNode's payload
// regardless of where the actual signal processing happens.
type Processor interface {
	// Info returns the plugin's read-only metadata.
	Info() PluginInfo

	// Initialize prepares the processor for a given sample rate and the
	// largest block size it will ever be asked to process. It is called
	// once, from the control thread, before the first Process call.
	Initialize(sampleRate float64, maxBlockSize int) error

	// Process runs one block of audio. It is called from the audio thread
	// (or, for out-of-process plugins, from the thread driving the shared
	// region handshake) and must not block unboundedly. events holds any
	// pending NoteOn/NoteOff/ParamChange events for this block, already
	// ordered by SampleOffset.
	Process(block AudioBlock, events []Event) error

	// SetParameter sets parameter id to value, clamped to its declared
	// range.
	SetParameter(id uint32, value float64) error

	// GetParameter returns the current value of parameter id.
	GetParameter(id uint32) (float64, error)

	// Parameters returns the full parameter list. The slice is safe to
	// retain; callers must not mutate it.
	Parameters() []ParameterInfo

	// InputChannels and OutputChannels report the processor's fixed bus
	// width. Process rejects blocks whose channel counts disagree.
	InputChannels() int
	OutputChannels() int

	// Deactivate releases any resources acquired by Initialize and returns
	// the processor to an uninitialized state. It is always safe to call,
	// even if Initialize was never called.
	Deactivate()
}
