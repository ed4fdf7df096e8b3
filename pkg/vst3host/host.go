// Package vst3host implements the processor.Processor contract (§6.3) by
// driving one native VST3 plugin instance through the low-level
// object-model binding in pkg/vst3host/abi, following the
// initialization, processing, and teardown sequences the specification
// pins down in §4.3.
package vst3host

import (
	"sync"
	"unsafe"

	"github.com/charmbracelet/log"

	"github.com/vvdaw/host/pkg/processor"
	"github.com/vvdaw/host/pkg/vst3host/abi"
)

// stereoChannels is the fixed channel width this host drives a plugin
// at. Matching the shared region's fixed Channels=2 (§3) keeps the
// out-of-process proxy's shared-memory copy and the in-process Host's
// native process() call working over identically shaped buffers.
const stereoChannels = 2

// Host owns exactly one loaded native plugin instance: the library, its
// factory, component, optional separate edit controller, and the
// process-time scratch state (channel-pointer arrays, the parameter-change
// list) that must be allocated once and reused every block per §4.3's
// "host maintains them as instance state" note.
type Host struct {
	mu sync.Mutex

	lib       *abi.Library
	factory   abi.Factory
	component abi.Component
	audioProc abi.AudioProcessor

	controller       abi.EditController
	hasController    bool
	controllerIsSame bool
	connected        bool

	hostCtx     unsafe.Pointer
	handlerPtr  unsafe.Pointer
	handlerSink *abi.ComponentHandlerSink

	info   processor.PluginInfo
	params []processor.ParameterInfo
	byID   map[uint32]processor.ParameterInfo

	buffers      *abi.ProcessBuffers
	paramChanges *abi.ParameterChanges

	sampleRate     float64
	maxBlockSize   int
	active         bool
	busesActivated bool
}

// Load resolves bundlePath, opens the native library, and walks the
// factory to construct a component and (if the plugin exposes one) a
// separate edit controller: steps 1-6 of §4.3's initialization sequence.
// Steps 7-9 (setup_processing, bus activation, set_active/set_processing)
// happen in Initialize, once the engine knows its sample rate and block
// size.
func Load(bundlePath string) (*Host, error) {
	resolved, err := abi.ResolveBundlePath(bundlePath)
	if err != nil {
		return nil, processor.NewError(processor.ErrInitializationFailed, "resolve bundle %s: %v", bundlePath, err)
	}

	lib, err := abi.LoadLibrary(resolved)
	if err != nil {
		return nil, processor.NewError(processor.ErrInitializationFailed, "load library: %v", err)
	}

	factoryPtr, err := lib.EntryPoint()
	if err != nil {
		lib.Close()
		return nil, processor.NewError(processor.ErrInitializationFailed, "entry point: %v", err)
	}
	if factoryPtr == nil {
		lib.Close()
		return nil, processor.NewError(processor.ErrInitializationFailed, "GetPluginFactory returned nil")
	}
	factory := abi.WrapFactory(factoryPtr)

	class, ok := factory.FindAudioModuleClass()
	if !ok {
		factory.Release()
		lib.Close()
		return nil, processor.NewError(processor.ErrInitializationFailed, "no Audio Module Class exposed by %s", bundlePath)
	}

	compPtr := factory.CreateInstance(class.CID, abi.IIDComponent)
	if compPtr == nil {
		factory.Release()
		lib.Close()
		return nil, processor.NewError(processor.ErrInitializationFailed, "createInstance(component) failed for class %q", class.Name)
	}

	h := &Host{
		lib:       lib,
		factory:   factory,
		component: abi.WrapComponent(compPtr),
		byID:      make(map[uint32]processor.ParameterInfo),
	}

	if err := h.resolveController(class.CID); err != nil {
		h.releaseAll()
		return nil, err
	}

	h.hostCtx = abi.NewHostApplication("vvdaw")
	if err := h.component.Initialize(h.hostCtx); err != nil {
		h.releaseAll()
		return nil, processor.NewError(processor.ErrInitializationFailed, "component.initialize: %v", err)
	}
	if h.hasController && !h.controllerIsSame {
		if err := h.controller.Initialize(h.hostCtx); err != nil {
			h.releaseAll()
			return nil, processor.NewError(processor.ErrInitializationFailed, "controller.initialize: %v", err)
		}
	}

	h.connectComponentAndController()

	handlerPtr, sink := abi.NewComponentHandler()
	h.handlerPtr = handlerPtr
	h.handlerSink = sink
	if h.hasController {
		// Best-effort: plugins with no UI commonly ignore this call, and
		// a refusal here is not fatal to signal processing.
		h.controller.SetComponentHandler(h.handlerPtr)
	}

	audioPtr := h.component.QueryInterface(abi.IIDAudioProcessor)
	if audioPtr == nil {
		h.releaseAll()
		return nil, processor.NewError(processor.ErrInitializationFailed, "component does not implement IAudioProcessor")
	}
	h.audioProc = abi.WrapAudioProcessor(audioPtr)

	h.info = processor.PluginInfo{Name: class.Name, UID: class.CID}
	h.loadParameters()

	return h, nil
}

func (h *Host) resolveController(componentCID [16]byte) error {
	ctrlCID := h.component.GetControllerClassID()
	if ctrlCID != ([16]byte{}) && ctrlCID != componentCID {
		ctrlPtr := h.factory.CreateInstance(ctrlCID, abi.IIDEditController)
		if ctrlPtr == nil {
			return processor.NewError(processor.ErrInitializationFailed, "createInstance(controller) failed")
		}
		h.controller = abi.WrapEditController(ctrlPtr)
		h.hasController = true
		return nil
	}
	// No distinct controller class: the component may implement
	// IEditController itself.
	if ctrlPtr := h.component.QueryInterface(abi.IIDEditController); ctrlPtr != nil {
		h.controller = abi.WrapEditController(ctrlPtr)
		h.hasController = true
		h.controllerIsSame = true
	}
	return nil
}

func (h *Host) connectComponentAndController() {
	if !h.hasController || h.controllerIsSame {
		return
	}
	compCPPtr := h.component.QueryInterface(abi.IIDConnectionPoint)
	ctrlCPPtr := h.controller.QueryInterface(abi.IIDConnectionPoint)
	if compCPPtr == nil || ctrlCPPtr == nil {
		if compCPPtr != nil {
			abi.WrapUnknown(compCPPtr).Release()
		}
		if ctrlCPPtr != nil {
			abi.WrapUnknown(ctrlCPPtr).Release()
		}
		return
	}
	compCP := abi.WrapConnectionPoint(compCPPtr)
	ctrlCP := abi.WrapConnectionPoint(ctrlCPPtr)
	compCP.Connect(ctrlCP.Ptr())
	ctrlCP.Connect(compCP.Ptr())
	// Per §4.3 step 6: release the connection references once connected;
	// the component and controller keep their own reference to each
	// other internally.
	compCP.Release()
	ctrlCP.Release()
	h.connected = true
}

func (h *Host) loadParameters() {
	if !h.hasController {
		return
	}
	n := h.controller.ParameterCount()
	h.params = make([]processor.ParameterInfo, 0, n)
	for i := 0; i < n; i++ {
		pi := h.controller.ParameterInfoAt(i)
		info := processor.ParameterInfo{
			ID:        pi.ID,
			Name:      pi.Title,
			Unit:      pi.Units,
			StepCount: pi.StepCount,
			Min:       h.controller.NormalizedParamToPlain(pi.ID, 0),
			Max:       h.controller.NormalizedParamToPlain(pi.ID, 1),
			Default:   h.controller.NormalizedParamToPlain(pi.ID, pi.DefaultNormalizedValue),
		}
		h.params = append(h.params, info)
		h.byID[pi.ID] = info
	}
}

// Info returns the plugin's class name and unique id, captured once at
// Load time.
func (h *Host) Info() processor.PluginInfo { return h.info }

// Initialize runs steps 7-9 of §4.3: setup_processing, bus activation for
// every declared audio bus in each direction, then set_active/
// set_processing. It also allocates the process-time scratch state
// (channel-pointer arrays, the parameter-change list) that every
// subsequent Process call reuses; Process still creates one native value
// queue for each parameter that has a change in its block.
func (h *Host) Initialize(sampleRate float64, maxBlockSize int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	setup := abi.ProcessSetup{
		ProcessMode:        abi.ProcessModeRealtime,
		SymbolicSampleSize: abi.SampleSize32,
		MaxSamplesPerBlock: int32(maxBlockSize),
		SampleRate:         sampleRate,
	}
	if err := h.audioProc.SetupProcessing(setup); err != nil {
		return processor.NewError(processor.ErrInitializationFailed, "setupProcessing: %v", err)
	}

	for _, dir := range [2]int32{abi.BusDirectionInput, abi.BusDirectionOutput} {
		count := h.component.BusCount(abi.MediaTypeAudio, dir)
		for i := 0; i < count; i++ {
			if err := h.component.ActivateBus(abi.MediaTypeAudio, dir, i, true); err != nil {
				return processor.NewError(processor.ErrInitializationFailed, "activateBus(dir=%d, index=%d): %v", dir, i, err)
			}
		}
	}
	h.busesActivated = true

	if err := h.component.SetActive(true); err != nil {
		return processor.NewError(processor.ErrInitializationFailed, "setActive: %v", err)
	}
	if err := h.audioProc.SetProcessing(true); err != nil {
		h.component.SetActive(false)
		return processor.NewError(processor.ErrInitializationFailed, "setProcessing: %v", err)
	}
	h.active = true
	h.sampleRate = sampleRate
	h.maxBlockSize = maxBlockSize
	h.buffers = abi.NewProcessBuffers(stereoChannels)
	h.paramChanges = abi.NewParameterChanges()
	return nil
}

// Process populates the process-data descriptor with the caller's input
// and output slices and this block's parameter changes, then invokes the
// plugin's process(). The pointer arrays inside h.buffers are reused
// across every call; only the slice contents they point at change.
func (h *Host) Process(block processor.AudioBlock, events []processor.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.active {
		return processor.NewError(processor.ErrProcessingFailed, "process called before activation")
	}
	if err := processor.ValidateBlock(block, len(block.Input), len(block.Output)); err != nil {
		return err
	}

	h.paramChanges.Reset()
	// §3: events within a block are ordered by sample_offset ascending;
	// callers (the worker's shared-region decode, in particular) don't
	// guarantee that themselves, so the host re-establishes it before
	// building the plugin's IParamValueQueue points.
	processor.SortEvents(events)
	for _, ev := range events {
		if ev.Kind != processor.EventParamChange {
			continue
		}
		normalized := ev.Value
		if h.hasController {
			normalized = h.controller.PlainParamToNormalized(ev.ParamID, ev.Value)
		}
		h.paramChanges.AddPoint(ev.ParamID, ev.SampleOffset, normalized)
	}

	data := h.buffers.Prepare(block.Input, block.Output, block.Frames, h.sampleRate)
	h.buffers.SetParameterChanges(h.paramChanges.Ptr())
	if err := h.audioProc.Process(data); err != nil {
		return processor.NewError(processor.ErrProcessingFailed, "process: %v", err)
	}
	return nil
}

// SetParameter clamps value to the parameter's declared plain range and
// pushes it to the controller as a normalized value.
func (h *Host) SetParameter(id uint32, value float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	info, ok := h.byID[id]
	if !ok {
		return processor.NewError(processor.ErrInvalidParameter, "unknown parameter %d", id)
	}
	if !h.hasController {
		return processor.NewError(processor.ErrInvalidParameter, "plugin exposes no edit controller")
	}
	normalized := h.controller.PlainParamToNormalized(id, info.Clamp(value))
	if err := h.controller.SetParamNormalized(id, normalized); err != nil {
		return processor.NewError(processor.ErrProcessingFailed, "setParamNormalized(%d): %v", id, err)
	}
	return nil
}

// GetParameter reads the controller's current normalized value for id
// and converts it back to the parameter's plain range.
func (h *Host) GetParameter(id uint32) (float64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.byID[id]; !ok {
		return 0, processor.NewError(processor.ErrInvalidParameter, "unknown parameter %d", id)
	}
	if !h.hasController {
		return 0, processor.NewError(processor.ErrInvalidParameter, "plugin exposes no edit controller")
	}
	normalized := h.controller.GetParamNormalized(id)
	return h.controller.NormalizedParamToPlain(id, normalized), nil
}

// Parameters returns the parameter list captured from the controller at
// Load time.
func (h *Host) Parameters() []processor.ParameterInfo { return h.params }

// InputChannels and OutputChannels report the fixed stereo width this
// host drives every plugin at, per §3's MVP channel-count invariant.
func (h *Host) InputChannels() int  { return stereoChannels }
func (h *Host) OutputChannels() int { return stereoChannels }

// Deactivate pauses processing (set_processing(false), set_active(false))
// without releasing the native objects, so the same Host can in
// principle be reactivated. Full resource release happens in Close.
func (h *Host) Deactivate() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.active {
		return
	}
	h.audioProc.SetProcessing(false)
	h.component.SetActive(false)
	h.active = false
}

// Activate resumes processing after a prior Deactivate, restoring
// set_active/set_processing without re-running setup_processing or bus
// activation. It is a no-op if the plugin is already active.
func (h *Host) Activate() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active {
		return nil
	}
	if err := h.component.SetActive(true); err != nil {
		return processor.NewError(processor.ErrInitializationFailed, "setActive: %v", err)
	}
	if err := h.audioProc.SetProcessing(true); err != nil {
		h.component.SetActive(false)
		return processor.NewError(processor.ErrInitializationFailed, "setProcessing: %v", err)
	}
	h.active = true
	return nil
}

// Close runs the full §4.3 teardown sequence in its mandated order:
// set_processing(false), set_active(false), deactivate every bus,
// release the controller (if separate), release the component, release
// the factory, unload the library. Releasing out of order crashes real
// plugins on exit, so every step here is unconditional on the last.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.teardown()
}

func (h *Host) teardown() error {
	if h.active {
		h.audioProc.SetProcessing(false)
		h.component.SetActive(false)
		h.active = false
	}
	if h.busesActivated {
		for _, dir := range [2]int32{abi.BusDirectionInput, abi.BusDirectionOutput} {
			count := h.component.BusCount(abi.MediaTypeAudio, dir)
			for i := 0; i < count; i++ {
				h.component.ActivateBus(abi.MediaTypeAudio, dir, i, false)
			}
		}
		h.busesActivated = false
	}
	h.releaseAll()
	return h.lib.Close()
}

// releaseAll releases every native reference this Host currently holds,
// in reverse order of acquisition except that the host-application
// context goes last, without touching the library handle (the caller
// decides separately whether to unload it). Safe to call on a partially
// constructed Host, e.g. from a failed Load.
func (h *Host) releaseAll() {
	if !h.audioProc.IsNil() {
		h.audioProc.Release()
	}
	if h.handlerPtr != nil {
		abi.WrapUnknown(h.handlerPtr).Release()
		h.handlerPtr = nil
	}
	if h.hasController && !h.controller.IsNil() {
		h.controller.Release()
	}
	if !h.component.IsNil() {
		h.component.Release()
	}
	if !h.factory.IsNil() {
		h.factory.Release()
	}
	if h.hostCtx != nil {
		abi.WrapUnknown(h.hostCtx).Release()
		h.hostCtx = nil
	}
}

// HandlerSink exposes the host-provided IComponentHandler's recorded
// parameter edits and restart requests, for callers that want to drain
// UI-originated parameter changes between blocks.
func (h *Host) HandlerSink() *abi.ComponentHandlerSink { return h.handlerSink }

// SaveState captures the component's state into a byte stream, per the
// state-transfer sequence in §4.3. The controller's own state is not
// captured.
func (h *Host) SaveState() ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	stream := abi.NewStream()
	if err := h.component.GetState(stream.Ptr()); err != nil {
		return nil, processor.NewError(processor.ErrProcessingFailed, "component.getState: %v", err)
	}
	return stream.Bytes(), nil
}

// LoadState writes data into a fresh stream and feeds it to
// component.SetState then, best-effort, controller.SetComponentState
// (§9 Open Question 3: some plugins reject the controller call even
// when component.SetState succeeds; that rejection is logged and does not
// fail LoadState).
func (h *Host) LoadState(data []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	stream := abi.NewStreamFromBytes(data)
	if err := h.component.SetState(stream.Ptr()); err != nil {
		return processor.NewError(processor.ErrProcessingFailed, "component.setState: %v", err)
	}
	if h.hasController {
		ctrlStream := abi.NewStreamFromBytes(data)
		if err := h.controller.SetComponentState(ctrlStream.Ptr()); err != nil {
			log.Warn("controller rejected component state", "err", err)
		}
	}
	return nil
}
