/*
ciscocore - supervisor: owns guest CPU threads and their run state

Copyright 2024, Richard Cornwell

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

// Package supervisor implements the component spec.md §2/§5 calls "a
// supervisor outside the core": it moves a guest CPU among the states
// {RUNNING, HALTED, PAUSED, SUSPENDED} and owns the dedicated OS thread the
// CPU's execution loop runs on, plus the per-CPU timer thread. The CPU's own
// Run loop only ever reads its state and observes transitions at instruction
// boundaries; every write to that state happens here.
//
// This is the cpu/mips.CPU- and cpu/ppc.CPU-agnostic generalization of
// emu/core/core.go's Start/Stop goroutine-and-WaitGroup shape: both guest
// CPU types expose an identically-shaped State/SetState/Run/StartTimer/
// StopTimer surface (spec.md §4.F/§4.G), captured here as the generic Core
// interface, so one Supervisor implementation drives either architecture.
package supervisor

import (
	"log/slog"
	"sync"
	"time"
)

// joinTimeout bounds how long Stop waits for the CPU goroutine to observe a
// Halted transition and return, mirroring emu/core/core.go's one-second
// Stop timeout. spec.md §5 only promises the join is "bounded by one tick";
// a generous fixed ceiling stands in for a tick-derived one since the
// supervisor has no architecture-specific notion of tick length.
const joinTimeout = time.Second

// Core is the subset of cpu/mips.CPU and cpu/ppc.CPU the supervisor drives.
// S is the architecture's RunState type (cpu/mips.RunState or
// cpu/ppc.RunState): both are `type RunState int32` with Running/Halted/
// Paused/Suspended in the same iota order, so a single generic Supervisor
// works across either without either package importing the other.
type Core[S ~int32] interface {
	Run()
	State() S
	SetState(S)
	StartTimer()
	StopTimer()
}

// Supervisor owns one guest CPU's thread and timer thread and is the only
// writer of the CPU's run state, per spec.md §5's single-writer rule.
type Supervisor[S ~int32] struct {
	cpu       Core[S]
	running   S
	halted    S
	paused    S
	suspended S

	log *slog.Logger

	mu      sync.Mutex
	wg      sync.WaitGroup
	started bool
}

// New returns a Supervisor for cpu. running, halted, paused, and suspended
// must be the architecture's RunState constants of the same name; passing
// them explicitly avoids requiring S to carry named-constant reflection.
func New[S ~int32](cpu Core[S], running, halted, paused, suspended S, log *slog.Logger) *Supervisor[S] {
	return &Supervisor[S]{
		cpu:       cpu,
		running:   running,
		halted:    halted,
		paused:    paused,
		suspended: suspended,
		log:       log,
	}
}

// Start transitions the CPU to Running and launches its dedicated execution
// thread plus its timer thread, mirroring emu/core/core.go's Start. Start is
// a no-op if the CPU thread is already running.
func (s *Supervisor[S]) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	s.cpu.StartTimer()
	s.cpu.SetState(s.running)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.cpu.Run()
	}()
}

// Pause requests the PAUSED state (spec.md §4.F's "PAUSED spin" suspension
// point) without tearing down the CPU thread; Resume moves it back to
// Running in place.
func (s *Supervisor[S]) Pause() {
	s.cpu.SetState(s.paused)
}

// Resume moves a Paused or Suspended CPU back to Running. It does not start
// a new thread: the existing Run loop, still blocked observing its state,
// resumes stepping once it next checks.
func (s *Supervisor[S]) Resume() {
	s.cpu.SetState(s.running)
}

// Suspend requests the SUSPENDED state, spec.md §4.F's other supervisor-
// requested suspension point distinct from PAUSED (e.g. host-level
// checkpoint/migration, as opposed to a guest-requested pause).
func (s *Supervisor[S]) Suspend() {
	s.cpu.SetState(s.suspended)
}

// Stop requests HALTED and waits for the execution thread to observe it and
// return, joining the thread the way emu/core/core.go's Stop joins its
// goroutine, falling back to a timeout rather than blocking forever if the
// loop never observes the transition (it always should, short of a bug in
// Step's State() check).
func (s *Supervisor[S]) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.cpu.SetState(s.halted)
	s.cpu.StopTimer()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(joinTimeout):
		if s.log != nil {
			s.log.Warn("timed out waiting for CPU thread to halt")
		}
	}

	s.mu.Lock()
	s.started = false
	s.mu.Unlock()
}

// State reports the CPU's current supervisor-visible run state.
func (s *Supervisor[S]) State() S {
	return s.cpu.State()
}

// Halted reports whether the supervisor currently observes the CPU unable
// to progress, per spec.md §7's user-visible failure: "the supervisor
// observes state == HALTED when the CPU cannot progress."
func (s *Supervisor[S]) Halted() bool {
	return s.cpu.State() == s.halted
}
