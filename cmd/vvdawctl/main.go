// Command vvdawctl is the minimal non-GUI operator surface SPEC_FULL.md
// calls for in place of the GUI front-end spec.md marks out of scope: it
// owns one engine.Pipeline, drives it at a fixed block rate on a
// goroutine standing in for the real audio callback, and accepts
// newline commands on stdin to exercise the command/event lifecycle
// (§8's "Lifecycle round-trip" scenario) and wire up both built-in and
// out-of-process native plugin nodes.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/pflag"

	"github.com/vvdaw/host/internal/config"
	"github.com/vvdaw/host/internal/logging"
	"github.com/vvdaw/host/pkg/builtin"
	"github.com/vvdaw/host/pkg/engine"
	"github.com/vvdaw/host/pkg/processor"
	"github.com/vvdaw/host/pkg/proxy"
	"github.com/vvdaw/host/pkg/ringqueue"
)

func main() {
	logLevel := pflag.String("log-level", "info", "log level: debug, info, warn, error")
	configPath := pflag.String("config", "", "path to a YAML engine config file")
	sampleRate := pflag.Float64("sample-rate", 0, "override the configured sample rate")
	blockSize := pflag.Int("block-size", 0, "override the configured block size")
	pflag.Parse()

	logger := logging.New(logging.Options{Level: *logLevel, Prefix: "vvdawctl"})

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Fatal("load config", "err", err)
		}
		cfg = loaded
	}
	if *sampleRate > 0 {
		cfg.SampleRate = *sampleRate
	}
	if *blockSize > 0 {
		cfg.MaxBlockSize = *blockSize
	}

	commands := ringqueue.NewCommandQueue(ringqueue.DefaultCapacity)
	events := ringqueue.NewEventQueue(ringqueue.DefaultCapacity)
	handles := ringqueue.NewHandleChannel(ringqueue.DefaultHandleCapacity)

	pipeline := engine.New(commands, events, handles, cfg.MaxBlockSize)
	ctl := engine.NewController(commands, events, handles, cfg.MaxBlockSize)

	stopRender := make(chan struct{})
	go renderLoop(pipeline, cfg, stopRender)
	go drainEvents(ctl, logger, stopRender)

	logger.Info("vvdawctl ready", "sample_rate", cfg.SampleRate, "block_size", cfg.MaxBlockSize)
	runShell(ctl, cfg, logger)

	close(stopRender)
}

// renderLoop stands in for the real audio output callback: it calls
// Render once per block period into a scratch stereo buffer nobody
// consumes, since this CLI has no sound device attached (§1's explicit
// out-of-scope boundary covers the actual output device).
func renderLoop(p *engine.Pipeline, cfg config.Config, stop <-chan struct{}) {
	period := time.Duration(float64(cfg.MaxBlockSize) / cfg.SampleRate * float64(time.Second))
	if period <= 0 {
		period = 10 * time.Millisecond
	}
	scratch := [][]float32{make([]float32, cfg.MaxBlockSize), make([]float32, cfg.MaxBlockSize)}

	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.Render(scratch, cfg.MaxBlockSize)
		}
	}
}

func drainEvents(ctl *engine.Controller, logger interface {
	Info(msg any, kv ...any)
}, stop <-chan struct{}) {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			for {
				ev, ok := ctl.PollEvent()
				if !ok {
					break
				}
				logger.Info("event", "kind", ev.Kind)
			}
		}
	}
}

var nextNodeID uint64

func runShell(ctl *engine.Controller, cfg config.Config, logger interface {
	Info(msg any, kv ...any)
	Error(msg any, kv ...any)
}) {
	nodes := map[string]uint64{}
	proxies := map[uint64]*proxy.Proxy{}

	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "start":
			ctl.Start()
		case "stop":
			ctl.Stop()
		case "quit", "exit":
			for _, px := range proxies {
				px.Deactivate()
			}
			return
		case "add-builtin":
			if len(fields) < 3 {
				logger.Error("usage: add-builtin <alias> <gain|balance|mixer|sampler>")
				continue
			}
			name := builtin.Name("builtin." + fields[2])
			proc, err := builtin.New(name)
			if err != nil {
				logger.Error("add-builtin", "err", err)
				continue
			}
			if err := proc.Initialize(cfg.SampleRate, cfg.MaxBlockSize); err != nil {
				logger.Error("initialize", "err", err)
				continue
			}
			id := atomic.AddUint64(&nextNodeID, 1)
			if err := ctl.AddNode(id, proc, ringqueue.Source{Kind: ringqueue.SourceBuiltin, Name: string(name)}); err != nil {
				logger.Error("add node", "err", err)
				continue
			}
			nodes[fields[1]] = id

		case "add-native":
			if len(fields) < 3 {
				logger.Error("usage: add-native <alias> <bundle_path>")
				continue
			}
			px, err := proxy.New(fields[2], cfg.WorkerPath)
			if err != nil {
				logger.Error("spawn worker", "err", err)
				continue
			}
			if err := px.Initialize(cfg.SampleRate, cfg.MaxBlockSize); err != nil {
				logger.Error("initialize", "err", err)
				px.Deactivate()
				continue
			}
			id := atomic.AddUint64(&nextNodeID, 1)
			if err := ctl.AddNode(id, px, ringqueue.Source{Kind: ringqueue.SourceNative, Path: fields[2]}); err != nil {
				logger.Error("add node", "err", err)
				px.Deactivate()
				continue
			}
			nodes[fields[1]] = id
			proxies[id] = px

		case "remove":
			if len(fields) < 2 {
				logger.Error("usage: remove <alias>")
				continue
			}
			id, ok := nodes[fields[1]]
			if !ok {
				logger.Error("unknown alias", "alias", fields[1])
				continue
			}
			if err := ctl.RemoveNode(id); err != nil {
				logger.Error("remove node", "err", err)
				continue
			}
			delete(nodes, fields[1])
			if px, ok := proxies[id]; ok {
				px.Deactivate()
				delete(proxies, id)
			}

		case "connect":
			if len(fields) < 3 {
				logger.Error("usage: connect <from> <to>")
				continue
			}
			from, to := nodes[fields[1]], nodes[fields[2]]
			if err := ctl.Connect(from, to); err != nil {
				logger.Error("connect", "err", err)
			}

		case "disconnect":
			if len(fields) < 3 {
				logger.Error("usage: disconnect <from> <to>")
				continue
			}
			from, to := nodes[fields[1]], nodes[fields[2]]
			if err := ctl.Disconnect(from, to); err != nil {
				logger.Error("disconnect", "err", err)
			}

		case "set":
			if len(fields) < 4 {
				logger.Error("usage: set <alias> <param_id> <value>")
				continue
			}
			id, ok := nodes[fields[1]]
			if !ok {
				logger.Error("unknown alias", "alias", fields[1])
				continue
			}
			paramID, err1 := strconv.ParseUint(fields[2], 10, 32)
			value, err2 := strconv.ParseFloat(fields[3], 64)
			if err1 != nil || err2 != nil {
				logger.Error("usage: set <alias> <param_id> <value>")
				continue
			}
			ctl.SetParameter(id, uint32(paramID), value)

		default:
			logger.Error(fmt.Sprintf("unknown command %q", fields[0]))
		}
	}
}

var _ processor.Processor = (*proxy.Proxy)(nil)
