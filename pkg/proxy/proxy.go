// Package proxy implements the parent-side half of §4.6: a
// processor.Processor that drives a vvdaw-worker subprocess through a
// shared memory region (pkg/shm) for audio and a line-delimited JSON
// control protocol (pkg/workerhost, §6.1) over its stdin/stdout for
// lifecycle and parameter operations.
package proxy

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vvdaw/host/pkg/processor"
	"github.com/vvdaw/host/pkg/shm"
	"github.com/vvdaw/host/pkg/workerhost"
)

// stereoChannels matches the shared region's fixed Channels=2 (§3).
const stereoChannels = 2

// initTimeout bounds how long Initialize waits for the worker's
// Initialized response, per §4.6.
const initTimeout = 5 * time.Second

// shutdownGrace and killGrace bound how long Deactivate waits for the worker
// to exit on its own before escalating to a force-kill, per §4.6 and
// §7's shutdown-error policy.
const (
	shutdownGrace = 500 * time.Millisecond
	killGrace     = 100 * time.Millisecond
)

var instanceCounter uint64

// Proxy is a parent-side processor.Processor backed by a worker
// subprocess. Construction spawns the worker and blocks until it
// reports Ready; Deactivate (or the natural end of the host process) must
// run the §4.6 teardown sequence to avoid leaking a subprocess or a
// shared-memory file.
type Proxy struct {
	region *shm.Region
	cmd    *exec.Cmd

	stdin *json.Encoder

	mu      sync.Mutex // serializes control request/response round trips
	respCh  chan workerhost.Message
	readErr chan error

	info   processor.PluginInfo
	params []processor.ParameterInfo

	closed int32 // atomic bool

	exited   chan struct{} // closed once the worker process has been waited on
	exitedAt int32         // atomic bool, set just before exited closes
}

// New spawns a vvdaw-worker subprocess to host the plugin at pluginPath,
// creates the shared region, and blocks until the worker reports Ready.
// workerExe, if empty, resolves to "vvdaw-worker" adjacent to the
// running executable per §4.6 step 2.
func New(pluginPath, workerExe string) (*Proxy, error) {
	if workerExe == "" {
		resolved, err := defaultWorkerPath()
		if err != nil {
			return nil, fmt.Errorf("proxy: resolve worker executable: %w", err)
		}
		workerExe = resolved
	}

	regionName := shm.NewName(atomic.AddUint64(&instanceCounter, 1))
	region, err := shm.Create(regionName)
	if err != nil {
		return nil, fmt.Errorf("proxy: create region: %w", err)
	}

	cmd := exec.Command(workerExe, pluginPath, regionName)
	cmd.Stderr = os.Stderr
	stdinPipe, err := cmd.StdinPipe()
	if err != nil {
		region.Close()
		region.Unlink()
		return nil, fmt.Errorf("proxy: worker stdin pipe: %w", err)
	}
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		region.Close()
		region.Unlink()
		return nil, fmt.Errorf("proxy: worker stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		region.Close()
		region.Unlink()
		return nil, fmt.Errorf("proxy: start worker: %w", err)
	}

	p := &Proxy{
		region:  region,
		cmd:     cmd,
		stdin:   json.NewEncoder(stdinPipe),
		respCh:  make(chan workerhost.Message, 16),
		readErr: make(chan error, 1),
		exited:  make(chan struct{}),
	}
	go p.readLoop(stdoutPipe)
	go p.waitLoop()

	ready, err := p.awaitOneOf(initTimeout, func(m workerhost.Message) bool {
		return m.Ready != nil || m.Error != nil
	})
	if err != nil {
		p.killAndCleanup()
		return nil, fmt.Errorf("proxy: waiting for Ready: %w", err)
	}
	if ready.Error != nil {
		p.killAndCleanup()
		return nil, fmt.Errorf("proxy: worker init failed: %s", ready.Error.Message)
	}
	p.info = fromWireInfo(ready.Ready.Info)
	return p, nil
}

func defaultWorkerPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	name := "vvdaw-worker"
	if filepath.Ext(exe) != "" {
		name += filepath.Ext(exe)
	}
	return filepath.Join(filepath.Dir(exe), name), nil
}

// readLoop decodes every line the worker writes and forwards it to
// respCh; it runs for the proxy's entire lifetime and signals readErr
// once stdout closes (worker exited).
func (p *Proxy) readLoop(stdout io.Reader) {
	sc := bufio.NewScanner(stdout)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var msg workerhost.Message
		if err := json.Unmarshal(sc.Bytes(), &msg); err != nil {
			continue
		}
		select {
		case p.respCh <- msg:
		default:
			// A stalled consumer must never back-pressure the worker's
			// stdout reader; drop rather than block.
		}
	}
	p.readErr <- sc.Err()
}

// awaitOneOf blocks until a message satisfying match arrives or timeout
// elapses.
func (p *Proxy) awaitOneOf(timeout time.Duration, match func(workerhost.Message) bool) (workerhost.Message, error) {
	deadline := time.After(timeout)
	for {
		select {
		case msg := <-p.respCh:
			if match(msg) {
				return msg, nil
			}
		case <-deadline:
			return workerhost.Message{}, fmt.Errorf("timed out after %s", timeout)
		case err := <-p.readErr:
			if err != nil {
				return workerhost.Message{}, fmt.Errorf("worker stdout closed: %w", err)
			}
			return workerhost.Message{}, fmt.Errorf("worker exited")
		}
	}
}

// Info returns the plugin metadata reported in the worker's Ready
// message.
func (p *Proxy) Info() processor.PluginInfo { return p.info }

// Initialize sends Init and blocks for Initialized (or Error) within
// initTimeout, then fetches the parameter list once via GetParameters.
func (p *Proxy) Initialize(sampleRate float64, maxBlockSize int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.stdin.Encode(workerhost.Message{Init: &workerhost.InitPayload{
		SampleRate: sampleRate, MaxBlockSize: maxBlockSize,
	}}); err != nil {
		return processor.NewError(processor.ErrInitializationFailed, "send Init: %v", err)
	}
	resp, err := p.awaitOneOf(initTimeout, func(m workerhost.Message) bool {
		return m.Initialized != nil || m.Error != nil
	})
	if err != nil {
		return processor.NewError(processor.ErrInitializationFailed, "%v", err)
	}
	if resp.Error != nil {
		return processor.NewError(processor.ErrInitializationFailed, "%s", resp.Error.Message)
	}

	if err := p.stdin.Encode(workerhost.Message{GetParameters: &struct{}{}}); err != nil {
		return processor.NewError(processor.ErrInitializationFailed, "send GetParameters: %v", err)
	}
	resp, err = p.awaitOneOf(initTimeout, func(m workerhost.Message) bool {
		return m.Parameters != nil || m.Error != nil
	})
	if err != nil {
		return processor.NewError(processor.ErrInitializationFailed, "%v", err)
	}
	if resp.Error != nil {
		return processor.NewError(processor.ErrInitializationFailed, "%s", resp.Error.Message)
	}
	p.params = fromWireParams(resp.Parameters.Parameters)
	return nil
}

// Process drives one parent-side shared-region cycle (§4.4). It rejects
// outright if the worker has already exited or the block exceeds FMax.
func (p *Proxy) Process(block processor.AudioBlock, events []processor.Event) error {
	if atomic.LoadInt32(&p.closed) != 0 {
		return processor.NewError(processor.ErrProcessingFailed, "proxy closed")
	}
	if !p.workerAlive() {
		return processor.NewError(processor.ErrProcessingFailed, "worker exited")
	}
	if block.Frames > shm.FMax {
		return processor.NewError(processor.ErrProcessingFailed, "block of %d frames exceeds FMax %d", block.Frames, shm.FMax)
	}
	err := p.region.RunBlock(block, events, p.workerAlive)
	if err != nil {
		return processor.NewError(processor.ErrProcessingFailed, "%v", err)
	}
	return nil
}

// waitLoop reaps the worker process exactly once for the proxy's
// lifetime, so workerAlive and Deactivate never race on cmd.Wait.
func (p *Proxy) waitLoop() {
	p.cmd.Wait()
	atomic.StoreInt32(&p.exitedAt, 1)
	close(p.exited)
}

func (p *Proxy) workerAlive() bool {
	return atomic.LoadInt32(&p.exitedAt) == 0
}

// SetParameter sends SetParameter and does not wait for a response
// (§4.6, §9 Open Question 2): a GetParameter racing immediately after
// may still observe the previous value.
func (p *Proxy) SetParameter(id uint32, value float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.stdin.Encode(workerhost.Message{SetParameter: &workerhost.SetParameterPayload{ID: id, Value: value}}); err != nil {
		return processor.NewError(processor.ErrProcessingFailed, "send SetParameter: %v", err)
	}
	return nil
}

// GetParameter sends GetParameter and blocks for the matching
// ParameterValue response.
func (p *Proxy) GetParameter(id uint32) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.stdin.Encode(workerhost.Message{GetParameter: &workerhost.GetParameterPayload{ID: id}}); err != nil {
		return 0, processor.NewError(processor.ErrProcessingFailed, "send GetParameter: %v", err)
	}
	resp, err := p.awaitOneOf(initTimeout, func(m workerhost.Message) bool {
		return (m.ParameterValue != nil && m.ParameterValue.ID == id) || m.Error != nil
	})
	if err != nil {
		return 0, processor.NewError(processor.ErrProcessingFailed, "%v", err)
	}
	if resp.Error != nil {
		return 0, processor.NewError(processor.ErrInvalidParameter, "%s", resp.Error.Message)
	}
	return resp.ParameterValue.Value, nil
}

// Parameters returns the list fetched during Initialize.
func (p *Proxy) Parameters() []processor.ParameterInfo { return p.params }

func (p *Proxy) InputChannels() int  { return stereoChannels }
func (p *Proxy) OutputChannels() int { return stereoChannels }

// Deactivate runs the full §4.6 teardown: publish Shutdown into the
// region, send a Shutdown control message, wait up to shutdownGrace for
// the worker to exit, force-kill and wait killGrace if it doesn't, then
// unmap and unlink the region. Safe to call more than once.
func (p *Proxy) Deactivate() {
	if !atomic.CompareAndSwapInt32(&p.closed, 0, 1) {
		return
	}
	p.region.RequestShutdown()

	p.mu.Lock()
	p.stdin.Encode(workerhost.Message{Shutdown: &struct{}{}})
	p.mu.Unlock()

	select {
	case <-p.exited:
	case <-time.After(shutdownGrace):
		p.cmd.Process.Kill()
		select {
		case <-p.exited:
		case <-time.After(killGrace):
		}
	}

	p.region.Close()
	p.region.Unlink()
}

func (p *Proxy) killAndCleanup() {
	if p.cmd.Process != nil {
		p.cmd.Process.Kill()
		<-p.exited
	}
	p.region.Close()
	p.region.Unlink()
}

func fromWireInfo(w workerhost.WirePluginInfo) processor.PluginInfo {
	var uid [16]byte
	hexDecode(w.UID, uid[:])
	return processor.PluginInfo{Name: w.Name, Vendor: w.Vendor, Version: w.Version, UID: uid}
}

func fromWireParams(ws []workerhost.WireParameterInfo) []processor.ParameterInfo {
	out := make([]processor.ParameterInfo, len(ws))
	for i, w := range ws {
		out[i] = processor.ParameterInfo{
			ID: w.ID, Name: w.Name, Min: w.Min, Max: w.Max,
			Default: w.Default, StepCount: w.StepCount, Unit: w.Unit,
		}
	}
	return out
}

func hexDecode(s string, dst []byte) {
	for i := 0; i+1 < len(s) && i/2 < len(dst); i += 2 {
		dst[i/2] = hexNibble(s[i])<<4 | hexNibble(s[i+1])
	}
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}

var _ processor.Processor = (*Proxy)(nil)
