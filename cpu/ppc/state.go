/*
ciscocore - PowerPC-32 guest CPU state

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

// Package ppc implements the 32-bit PowerPC interpreter: BAT/segment-based
// address translation, the representative core instruction set spec.md
// §4.E names, the execution loop, and the timer (decrementer) thread.
// Structural idiom mirrors cpu/mips, grounded the same way on the
// teacher's emu/cpu package; BAT/SPR dispatch tables and the
// ppc32_exec_run_cpu timer-gating condition are grounded on
// original_source/ppc32_exec.rs, the architecture's own struct layout
// (no separate struct header survived into the pack) derived from
// spec.md §3's explicit data model.
package ppc

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

// RunState is the supervisor-visible CPU state machine (spec.md §2/§5),
// shared in shape (not in type) with cpu/mips.RunState.
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
// PC has already been updated (taken branch, exception, RFI); the
// execution loop advances PC by 4 itself otherwise.
type Handler func(c *CPU, word uint32) bool

// BatEntry is one BAT register pair: an upper (effective) half and a lower
// (real/protection) half, per spec.md §3's "BAT pairs" and written only
// through MTSPR to SPRs 528-543 (spec.md §4.D).
type BatEntry struct {
	Upper uint32
	Lower uint32
}

// bepi returns the block effective page index (the compare key, top 15
// bits of the covered effective address range).
func (b BatEntry) bepi() uint32 { return b.Upper & 0xFFFE0000 }

// blockMask returns the mask of effective-address bits the BL length
// field makes "don't care", derived from the 11-bit BL field at bits
// 19-29 (bit numbering here is standard C MSB-first-at-31).
func (b BatEntry) blockMask() uint32 {
	bl := (b.Upper >> 2) & 0x7FF
	return bl << 17
}

func (b BatEntry) validFor(supervisor bool) bool {
	if supervisor {
		return b.Upper&0x2 != 0 // Vs
	}
	return b.Upper&0x1 != 0 // Vp
}

func (b BatEntry) brpn() uint32 { return b.Lower & 0xFFFE0000 }

// writable reports whether the BAT's PP field (bits 30-31 of Lower)
// permits stores.
func (b BatEntry) writable() bool {
	return b.Lower&0x3 == 0x2 // PP == 10: read/write
}

// CPU holds all architectural and housekeeping state for one PowerPC-32
// guest processor. Only the owning execution-loop goroutine touches GPRs,
// MSR, or translation state; other threads may only call the IRQ lines and
// state-machine methods, mirroring cpu/mips's single-writer rule
// (spec.md §5).
type CPU struct {
	regs [32]uint32
	lr   uint32
	ctr  uint32
	xer  uint32
	cr   uint32 // eight 4-bit fields, field 0 (CR0) in the high nibble
	pc   uint32

	msr  uint32
	srr0 uint32
	srr1 uint32
	dar  uint32 // data address register: faulting EA of the last DataStorage exception
	sprg [4]uint32
	hid0 uint32
	hid1 uint32
	pvr  uint32
	sdr1 uint32
	dec  uint32
	tb   uint64

	sr   [16]uint32
	ibat [4]BatEntry
	dbat [4]BatEntry

	reservationValid bool
	reservationAddr  uint32

	irqLines irqline.Lines

	irqCheck         atomic.Bool
	irqDisable       atomic.Bool
	decPending       atomic.Uint32
	timerIRQArmed    atomic.Bool
	cpuThreadRunning atomic.Bool
	runState         atomic.Int32

	mtsCache *mts.Cache
	mem      *physmem.Memory

	execPageAddr  uint32
	execPageValid bool
	execPage      []byte

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

// New constructs a PowerPC-32 CPU bound to mem and governed by cfg.
func New(mem *physmem.Memory, cfg *config.Options, log *slog.Logger, sched *periodic.Scheduler) *CPU {
	c := &CPU{
		mem:           mem,
		cfg:           cfg,
		log:           log,
		sched:         sched,
		mtsCache:      mts.NewCache(cfg.MTSCacheSize, cfg.ExecPageBits),
		loggedUnknown: make(map[uint32]bool),
		decode:        buildDecodeTable(),
		pvr:           0x00080200, // PPC 750-family PVR, a plausible Cisco-router-era value
	}
	c.runState.Store(int32(Halted))
	return c
}

// GPR reads general register i. PowerPC has no hardwired-zero register.
func (c *CPU) GPR(i uint8) uint32 { return c.regs[i] }

// SetGPR writes general register i.
func (c *CPU) SetGPR(i uint8, v uint32) { c.regs[i] = v }

// PC returns the current program counter.
func (c *CPU) PC() uint32 { return c.pc }

// SetPC overwrites the program counter.
func (c *CPU) SetPC(pc uint32) { c.pc = pc }

// LR/SetLR, CTR/SetCTR: link and count registers.
func (c *CPU) LR() uint32      { return c.lr }
func (c *CPU) SetLR(v uint32)  { c.lr = v }
func (c *CPU) CTR() uint32     { return c.ctr }
func (c *CPU) SetCTR(v uint32) { c.ctr = v }

// MSR/SetMSR: machine state register. SetMSR invalidates the MTS when a
// mode-switching bit (IR/DR) changes, per spec.md §4.C's invalidation
// policy.
func (c *CPU) MSR() uint32 { return c.msr }
func (c *CPU) SetMSR(v uint32) {
	changed := c.msr ^ v
	c.msr = v
	if changed&(msrIR|msrDR) != 0 {
		c.mtsCache.InvalidateAll()
	}
	c.pollInterrupts()
}

// IRQLines exposes the interrupt-line bitmap for raise/clear from any thread.
func (c *CPU) IRQLines() *irqline.Lines { return &c.irqLines }

// State returns the current supervisor-visible run state.
func (c *CPU) State() RunState { return RunState(c.runState.Load()) }

// SetState transitions the run state; safe from any thread.
func (c *CPU) SetState(s RunState) { c.runState.Store(int32(s)) }

// Cycles, MTSHits, MTSMisses, TimerTicks expose the counters spec.md §3 names.
func (c *CPU) Cycles() uint64     { return c.cycles }
func (c *CPU) MTSHits() uint64    { return c.mtsHits }
func (c *CPU) MTSMisses() uint64  { return c.mtsMisses }
func (c *CPU) TimerTicks() uint64 { return c.timerTicks }

// CR0/CRField read/write the eight 4-bit condition-register fields, field 0
// (CR0) occupying the high nibble, per spec.md §3's "CR as eight 4-bit
// fields".
func (c *CPU) CRField(field uint8) uint8 {
	shift := (7 - field) * 4
	return uint8((c.cr >> shift) & 0xF)
}

func (c *CPU) SetCRField(field uint8, v uint8) {
	shift := (7 - field) * 4
	c.cr = (c.cr &^ (0xF << shift)) | (uint32(v&0xF) << shift)
}

// CR bit numbers within a field, per the PowerPC architecture: LT, GT, EQ, SO.
const (
	crLT = 0x8
	crGT = 0x4
	crEQ = 0x2
	crSO = 0x1
)

// setCR0 updates CR0 from a signed comparison of v against zero plus the
// current XER.SO, per spec.md §4.E's "Rc bit variants additionally write
// CR0".
func (c *CPU) setCR0(v int32) {
	var f uint8
	switch {
	case v < 0:
		f = crLT
	case v > 0:
		f = crGT
	default:
		f = crEQ
	}
	if c.xerSO() {
		f |= crSO
	}
	c.SetCRField(0, f)
}

// XER accessors. XER.SO/OV/CA live at bits 31/30/29; a cached bool mirrors
// CA for the hot carry-propagation path spec.md §3 calls out ("XER with its
// carry bit extracted for hot paths").
const (
	xerSOBit = 1 << 31
	xerOVBit = 1 << 30
	xerCABit = 1 << 29
)

func (c *CPU) XER() uint32     { return c.xer }
func (c *CPU) SetXER(v uint32) { c.xer = v }

func (c *CPU) xerSO() bool { return c.xer&xerSOBit != 0 }
func (c *CPU) xerCA() bool { return c.xer&xerCABit != 0 }

func (c *CPU) setXERCA(ca bool) {
	if ca {
		c.xer |= xerCABit
	} else {
		c.xer &^= xerCABit
	}
}

func (c *CPU) setXEROV(ov bool) {
	if ov {
		c.xer |= xerOVBit | xerSOBit
	} else {
		c.xer &^= xerOVBit
	}
}

// MSR bits relevant to interrupt gating and translation mode.
const (
	msrEE = 1 << 15 // external interrupt enable
	msrPR = 1 << 14 // problem state (user mode)
	msrIR = 1 << 5  // instruction address translation enable
	msrDR = 1 << 4  // data address translation enable
)

// pollInterrupts re-evaluates pending interrupts immediately after an MSR
// write, mirroring cpu/mips's pollInterrupts.
func (c *CPU) pollInterrupts() {
	if c.msr&msrEE != 0 {
		c.irqCheck.Store(true)
	}
}
