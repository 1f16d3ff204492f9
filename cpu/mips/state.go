/*
ciscocore - MIPS64 guest CPU state

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

// Package mips implements the 64-bit MIPS interpreter: CP0/software-managed
// TLB, the representative core instruction set spec.md §4.E names, the
// execution loop, and the timer thread. Structural idiom (a decode struct
// plus a flat dispatch table, cooperative state machine, PC/exception
// bookkeeping) is grounded on the teacher's emu/cpu package; exact CP0/TLB
// semantics are grounded on original_source/mips64_cp0.rs.
package mips

import (
	"log/slog"
	"sync/atomic"

	"github.com/rcornwell/ciscocore/config"
	"github.com/rcornwell/ciscocore/ilt"
	"github.com/rcornwell/ciscocore/irqline"
	"github.com/rcornwell/ciscocore/mts"
	"github.com/rcornwell/ciscocore/periodic"
	"github.com/rcornwell/ciscocore/physmem"
)

// RunState is the supervisor-visible CPU state machine (spec.md §2/§5).
type RunState int32

const (
	Running RunState = iota
	Halted
	Paused
	Suspended
)

func (s RunState) String() string {
	switch s {
	case Running:
		return "RUNNING"
	case Halted:
		return "HALTED"
	case Paused:
		return "PAUSED"
	case Suspended:
		return "SUSPENDED"
	default:
		return "UNKNOWN"
	}
}

// Handler decodes and executes one instruction word. It returns true when
// PC has already been updated (taken branch, exception, jump); the
// execution loop advances PC by 4 itself otherwise.
type Handler func(c *CPU, word uint32) bool

// CPU holds all architectural and housekeeping state for one MIPS64 guest
// processor. Only the owning execution-loop goroutine touches GPRs, CP0,
// or the TLB; other threads may only call the IRQ lines and state-machine
// methods, per spec.md §5's ordering guarantees.
type CPU struct {
	regs [32]uint64
	hi   uint64
	lo   uint64
	pc   uint64

	cp0 CP0
	tlb []TLBEntry

	irqLines irqline.Lines

	irqCheck         atomic.Bool
	irqDisable       atomic.Bool
	timerIRQPending  atomic.Uint32
	timerIRQArmed    atomic.Bool
	cpuThreadRunning atomic.Bool
	runState         atomic.Int32

	reservationValid bool
	reservationAddr  uint64

	// inDelaySlot is set for the duration of executing a branch-delay-slot
	// instruction, so Raise can record the BD bit and back up EPC.
	inDelaySlot bool

	mtsCache *mts.Cache
	mem      *physmem.Memory

	execPageAddr  uint64
	execPageValid bool
	execPage      []byte

	breakpoints []uint64

	cycles     uint64
	mtsHits    uint64
	mtsMisses  uint64
	timerTicks uint64
	idleCount  int

	// loggedUnknown dedups the WARN spec.md §4.B/§7 requires for unknown
	// opcodes ("logged once per distinct encoding"); written only by the
	// owning execution-loop goroutine.
	loggedUnknown map[uint32]bool

	cfg   *config.Options
	log   *slog.Logger
	sched *periodic.Scheduler
	timer periodic.Handle

	decode *ilt.Table[Handler]
}

// New constructs a MIPS64 CPU bound to mem and governed by cfg.
func New(mem *physmem.Memory, cfg *config.Options, log *slog.Logger, sched *periodic.Scheduler) *CPU {
	c := &CPU{
		mem:           mem,
		cfg:           cfg,
		log:           log,
		sched:         sched,
		tlb:           make([]TLBEntry, cfg.TLBEntries),
		mtsCache:      mts.NewCache(cfg.MTSCacheSize, cfg.ExecPageBits),
		loggedUnknown: make(map[uint32]bool),
		decode:        buildDecodeTable(),
	}
	c.runState.Store(int32(Halted))
	c.cp0.wired = 0
	c.cp0.reg[CP0Status] = 0
	return c
}

// GPR reads general register i (register 0 hardwires to zero).
func (c *CPU) GPR(i uint8) uint64 {
	if i == 0 {
		return 0
	}
	return c.regs[i]
}

// SetGPR writes general register i; writes to register 0 are discarded.
func (c *CPU) SetGPR(i uint8, v uint64) {
	if i == 0 {
		return
	}
	c.regs[i] = v
}

// PC returns the current program counter.
func (c *CPU) PC() uint64 { return c.pc }

// SetPC overwrites the program counter.
func (c *CPU) SetPC(pc uint64) { c.pc = pc }

// IRQLines exposes the interrupt-line bitmap for raise/clear from any thread.
func (c *CPU) IRQLines() *irqline.Lines { return &c.irqLines }

// State returns the current supervisor-visible run state.
func (c *CPU) State() RunState {
	return RunState(c.runState.Load())
}

// SetState transitions the run state; safe from any thread (the supervisor
// sets it, the loop observes it at instruction boundaries only, per
// spec.md §5).
func (c *CPU) SetState(s RunState) {
	c.runState.Store(int32(s))
}

// Cycles, MTSHits, MTSMisses, TimerTicks expose the counters spec.md §3 names.
func (c *CPU) Cycles() uint64     { return c.cycles }
func (c *CPU) MTSHits() uint64    { return c.mtsHits }
func (c *CPU) MTSMisses() uint64  { return c.mtsMisses }
func (c *CPU) TimerTicks() uint64 { return c.timerTicks }
