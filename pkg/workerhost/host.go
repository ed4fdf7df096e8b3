package workerhost

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vvdaw/host/pkg/processor"
	"github.com/vvdaw/host/pkg/shm"
	"github.com/vvdaw/host/pkg/vst3host"
)

// Host drives exactly one loaded native plugin on behalf of a parent
// process, per §4.5. It owns the shared region, the control mutex the
// audio thread and the stdin-reader thread both touch, and the plugin
// instance itself.
type Host struct {
	log    *log.Logger
	plugin *vst3host.Host
	region *shm.Region

	mu sync.Mutex // guards plugin access from the control thread; audio thread uses TryLock

	stop chan struct{}
	wg   sync.WaitGroup
}

// Load opens the native plugin at pluginPath and the shared region
// regionName (already created by the parent). It does not yet start the
// audio loop or the control protocol; call Run for that.
func Load(pluginPath, regionName string, logger *log.Logger) (*Host, error) {
	plugin, err := vst3host.Load(pluginPath)
	if err != nil {
		return nil, fmt.Errorf("workerhost: load plugin: %w", err)
	}
	region, err := shm.Open(regionName)
	if err != nil {
		plugin.Close()
		return nil, fmt.Errorf("workerhost: open region %s: %w", regionName, err)
	}
	return &Host{log: logger, plugin: plugin, region: region, stop: make(chan struct{})}, nil
}

// Run starts the worker's audio thread (§4.4's worker-side loop) and
// then drives the stdin control loop (§4.5 step 6) on the calling
// goroutine until Shutdown is received or stdin closes. It writes one
// Ready message before entering the loop.
func (h *Host) Run(stdin io.Reader, stdout io.Writer) error {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer InstallCrashHandler(stdout)
		shm.WorkerLoop(h.region, h.plugin, &h.mu, h.stop)
	}()

	enc := json.NewEncoder(stdout)
	if err := enc.Encode(Message{Ready: &ReadyPayload{Info: toWireInfo(h.plugin.Info())}}); err != nil {
		return fmt.Errorf("workerhost: write Ready: %w", err)
	}

	sc := bufio.NewScanner(stdin)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var msg Message
		if err := json.Unmarshal(sc.Bytes(), &msg); err != nil {
			h.log.Error("malformed control message", "err", err)
			continue
		}
		if h.handle(msg, enc) {
			break
		}
	}
	close(h.stop)
	h.wg.Wait()
	return sc.Err()
}

// handle processes one incoming message and writes its response (if
// any). It returns true once Shutdown has been handled, telling Run to
// stop reading stdin.
func (h *Host) handle(msg Message, enc *json.Encoder) (shutdown bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch {
	case msg.Init != nil:
		err := h.plugin.Initialize(msg.Init.SampleRate, msg.Init.MaxBlockSize)
		if err != nil {
			h.sendError(enc, err)
			return false
		}
		enc.Encode(Message{Initialized: &struct{}{}})

	case msg.Activate != nil:
		if err := h.plugin.Activate(); err != nil {
			h.sendError(enc, err)
			return false
		}
		enc.Encode(Message{Activated: &struct{}{}})

	case msg.Deactivate != nil:
		h.plugin.Deactivate()
		enc.Encode(Message{Deactivated: &struct{}{}})

	case msg.Shutdown != nil:
		h.plugin.Deactivate()
		enc.Encode(Message{Deactivated: &struct{}{}})
		return true

	case msg.SetParameter != nil:
		// Fire-and-forget per §4.6/§9 Open Question 2: no response sent.
		if err := h.plugin.SetParameter(msg.SetParameter.ID, msg.SetParameter.Value); err != nil {
			h.log.Warn("set parameter rejected", "id", msg.SetParameter.ID, "err", err)
		}

	case msg.GetParameter != nil:
		v, err := h.plugin.GetParameter(msg.GetParameter.ID)
		if err != nil {
			h.sendError(enc, err)
			return false
		}
		enc.Encode(Message{ParameterValue: &ParameterValuePayload{ID: msg.GetParameter.ID, Value: v}})

	case msg.GetParameters != nil:
		enc.Encode(Message{Parameters: &ParametersPayload{Parameters: toWireParams(h.plugin.Parameters())}})
	}
	return false
}

func (h *Host) sendError(enc *json.Encoder, err error) {
	h.log.Error("control request failed", "err", err)
	enc.Encode(Message{Error: &ErrorPayload{Message: err.Error()}})
}

// Close releases the plugin and unmaps (but does not unlink) the shared
// region. Unlink is the parent's responsibility.
func (h *Host) Close() {
	h.plugin.Deactivate()
	h.plugin.Close()
	h.region.Close()
}

// WriteFatal emits a structured Error message to stdout for a failure
// that happens before the control loop can start (plugin load, region
// open). Used by cmd/vvdaw-worker before exiting non-zero.
func WriteFatal(stdout io.Writer, err error) {
	json.NewEncoder(stdout).Encode(Message{Error: &ErrorPayload{Message: err.Error()}})
}

// InstallCrashHandler recovers a panic on the goroutine that defers it,
// writes a crash marker to stdout, and exits with status 2 (§4.5 step
// 1). Callers defer it at the top of main; Run defers it on the audio
// goroutine it starts.
func InstallCrashHandler(stdout io.Writer) {
	if r := recover(); r != nil {
		json.NewEncoder(stdout).Encode(Message{Error: &ErrorPayload{Message: fmt.Sprintf("worker panic: %v", r)}})
		os.Exit(2)
	}
}

var _ processor.Processor = (*vst3host.Host)(nil)
