package shm

import (
	"sync"
	"testing"

	"github.com/vvdaw/host/pkg/processor"
)

func TestRegionCreateOpenRoundTrip(t *testing.T) {
	name := NewName(1)
	parent, err := Create(name)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer parent.Unlink()
	defer parent.Close()

	worker, err := Open(name)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer worker.Close()

	if parent.Load() != StateIdle {
		t.Fatalf("initial state = %v, want Idle", parent.Load())
	}

	copy(parent.InputChannel(0), []float32{1, 2, 3})
	parent.SetFrameCount(3)
	if !parent.RequestProcess() {
		t.Fatal("RequestProcess failed")
	}

	if worker.Load() != StateProcess {
		t.Fatalf("worker sees state = %v, want Process", worker.Load())
	}
	if got := worker.FrameCount(); got != 3 {
		t.Fatalf("worker FrameCount = %d, want 3", got)
	}
	copy(worker.OutputChannel(0), []float32{4, 5, 6})
	if !worker.MarkDone() {
		t.Fatal("MarkDone failed")
	}

	if parent.Load() != StateDone {
		t.Fatalf("parent sees state = %v, want Done", parent.Load())
	}
	out := parent.OutputChannel(0)
	if out[0] != 4 || out[1] != 5 || out[2] != 6 {
		t.Fatalf("output = %v, want [4 5 6 ...]", out[:3])
	}
	if !parent.AckIdle() {
		t.Fatal("AckIdle failed")
	}
}

func TestRegionEventRoundTrip(t *testing.T) {
	name := NewName(2)
	r, err := Create(name)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer r.Unlink()
	defer r.Close()

	events := []processor.Event{
		processor.NoteOn(0, 60, 0.8, 10),
		processor.ParamChange(5, 0.25, 20),
	}
	r.PutEvents(events)

	got := r.Events(nil)
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if got[0].Kind != processor.EventNoteOn || got[0].Note != 60 {
		t.Fatalf("got[0] = %+v", got[0])
	}
	if got[1].Kind != processor.EventParamChange || got[1].ParamID != 5 || got[1].Value != 0.25 {
		t.Fatalf("got[1] = %+v", got[1])
	}
}

func TestWorkerLoopProcessesOneBlockThenShutdown(t *testing.T) {
	name := NewName(3)
	parent, err := Create(name)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer parent.Unlink()
	defer parent.Close()

	worker, err := Open(name)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer worker.Close()

	g := struct{ gain float32 }{gain: 2}
	proc := processor.Processor(fakeDoubler{gain: g.gain})

	var mu sync.Mutex
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		WorkerLoop(worker, proc, &mu, stop)
		close(done)
	}()

	copy(parent.InputChannel(0), []float32{1, 2})
	copy(parent.InputChannel(1), []float32{1, 2})
	parent.SetFrameCount(2)
	if err := parent.RunBlock(processor.AudioBlock{
		Input:  [][]float32{{1, 2}, {1, 2}},
		Output: [][]float32{make([]float32, 2), make([]float32, 2)},
		Frames: 2,
	}, nil, func() bool { return true }); err != nil {
		t.Fatalf("RunBlock: %v", err)
	}

	parent.RequestShutdown()
	<-done
}

type fakeDoubler struct{ gain float32 }

func (f fakeDoubler) Info() processor.PluginInfo                         { return processor.PluginInfo{} }
func (f fakeDoubler) Initialize(sampleRate float64, maxBlockSize int) error { return nil }
func (f fakeDoubler) SetParameter(id uint32, value float64) error        { return nil }
func (f fakeDoubler) GetParameter(id uint32) (float64, error)            { return 0, nil }
func (f fakeDoubler) Parameters() []processor.ParameterInfo              { return nil }
func (f fakeDoubler) InputChannels() int                                 { return 2 }
func (f fakeDoubler) OutputChannels() int                                { return 2 }
func (f fakeDoubler) Deactivate()                                        {}

func (f fakeDoubler) Process(block processor.AudioBlock, events []processor.Event) error {
	for ch := range block.Input {
		for i := 0; i < block.Frames; i++ {
			block.Output[ch][i] = block.Input[ch][i] * f.gain
		}
	}
	return nil
}
