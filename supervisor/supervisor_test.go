package supervisor

import (
	"io"
	"testing"
	"time"

	"github.com/rcornwell/ciscocore/config"
	"github.com/rcornwell/ciscocore/cpu/mips"
	"github.com/rcornwell/ciscocore/cpu/ppc"
	"github.com/rcornwell/ciscocore/logger"
	"github.com/rcornwell/ciscocore/periodic"
	"github.com/rcornwell/ciscocore/physmem"
)

func TestMIPSStartStopTransitionsState(t *testing.T) {
	cfg, err := config.New()
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	mem := physmem.New(0x10000)
	log := logger.New("mips-sup-test", io.Discard, nil)
	sched := periodic.NewScheduler()
	t.Cleanup(sched.Shutdown)

	cpu := mips.New(mem, cfg, log, sched)
	sup := NewMIPS(cpu, log)

	sup.Start()
	time.Sleep(10 * time.Millisecond)
	if sup.State() != mips.Running {
		t.Fatalf("State() = %v, want Running", sup.State())
	}

	sup.Stop()
	if !sup.Halted() {
		t.Errorf("Halted() = false after Stop, want true")
	}
	if sup.State() != mips.Halted {
		t.Errorf("State() = %v, want Halted", sup.State())
	}
}

func TestMIPSPauseResume(t *testing.T) {
	cfg, err := config.New()
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	mem := physmem.New(0x10000)
	log := logger.New("mips-sup-test", io.Discard, nil)
	sched := periodic.NewScheduler()
	t.Cleanup(sched.Shutdown)

	cpu := mips.New(mem, cfg, log, sched)
	sup := NewMIPS(cpu, log)

	sup.Start()
	defer sup.Stop()

	sup.Pause()
	time.Sleep(5 * time.Millisecond)
	if sup.State() != mips.Paused {
		t.Fatalf("State() = %v, want Paused", sup.State())
	}

	sup.Resume()
	time.Sleep(5 * time.Millisecond)
	if sup.State() != mips.Running {
		t.Errorf("State() = %v, want Running after Resume", sup.State())
	}
}

func TestPPCStartStopTransitionsState(t *testing.T) {
	cfg, err := config.New()
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	mem := physmem.New(0x10000)
	log := logger.New("ppc-sup-test", io.Discard, nil)
	sched := periodic.NewScheduler()
	t.Cleanup(sched.Shutdown)

	cpu := ppc.New(mem, cfg, log, sched)
	sup := NewPPC(cpu, log)

	sup.Start()
	time.Sleep(10 * time.Millisecond)

	sup.Stop()
	if !sup.Halted() {
		t.Errorf("Halted() = false after Stop, want true")
	}
}

func TestStartIsIdempotent(t *testing.T) {
	cfg, err := config.New()
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	mem := physmem.New(0x10000)
	log := logger.New("mips-sup-test", io.Discard, nil)
	sched := periodic.NewScheduler()
	t.Cleanup(sched.Shutdown)

	cpu := mips.New(mem, cfg, log, sched)
	sup := NewMIPS(cpu, log)

	sup.Start()
	sup.Start() // must not spawn a second execution thread or deadlock
	defer sup.Stop()

	time.Sleep(5 * time.Millisecond)
	if sup.State() != mips.Running {
		t.Errorf("State() = %v, want Running", sup.State())
	}
}
