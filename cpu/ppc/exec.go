/*
ciscocore - PowerPC execution loop

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

package ppc

import (
	"time"

	"github.com/rcornwell/ciscocore/bitutil"
)

// fetchInstruction resolves pc to a host page through the MTS, caching the
// last host page so sequential fetch within one page skips the MTS lookup,
// mirroring cpu/mips/exec.go's fetchInstruction.
func (c *CPU) fetchInstruction(pc uint32) (uint32, bool) {
	pageShift := c.cfg.ExecPageBits
	pageMask := uint32(1)<<pageShift - 1
	pageBase := pc &^ pageMask

	if !c.execPageValid || pageBase != c.execPageAddr {
		entry, err := c.mtsCache.Translate(uint64(pageBase), false, true, c)
		if err != nil {
			c.mtsMisses++
			c.Raise(InstructionStorage, 0)
			return 0, false
		}
		c.mtsHits++
		host := c.mem.HostPage(entry.Host, pageShift)
		if host == nil {
			c.RaiseDataStorage(pageBase, dsisrNotPresent)
			return 0, false
		}
		c.execPage = host
		c.execPageAddr = pageBase
		c.execPageValid = true
	}

	off := pc - c.execPageAddr
	if int(off)+4 > len(c.execPage) {
		c.execPageValid = false
		return 0, false
	}
	return bitutil.NtoH32(c.execPage[off : off+4]), true
}

// tickDecrementer counts DEC down by one and reports a pending Decrementer
// exception on the positive-to-negative transition (MSB 0 to 1), matching
// the architecture's edge-triggered decrementer semantics.
func (c *CPU) tickDecrementer() {
	wasPositive := c.dec&0x80000000 == 0
	c.dec--
	if wasPositive && c.dec&0x80000000 != 0 {
		c.decPending.Store(1)
		c.irqCheck.Store(true)
	}
}

// Step executes exactly one instruction: service a pending decrementer or
// external interrupt if unmasked, fetch, decode, dispatch, advance PC, and
// tick the decrementer, per spec.md §4.F. PowerPC has no branch-delay slot,
// so unlike cpu/mips.Step there is no inDelaySlot bookkeeping.
func (c *CPU) Step() {
	if c.irqCheck.Load() && !c.irqDisable.Load() && c.msr&msrEE != 0 {
		if c.checkInterrupts() {
			return
		}
	}

	if uint64(c.pc) == c.cfg.IdlePC {
		c.idleCount++
	} else {
		c.idleCount = 0
	}

	word, ok := c.fetchInstruction(c.pc)
	if !ok {
		return
	}

	h := c.decode.Lookup(word)
	pc := c.pc
	if !h(c, word) {
		c.pc = pc + 4
	}

	c.cycles++
	c.tickDecrementer()
}

// checkInterrupts delivers a pending decrementer or external interrupt,
// reporting whether an exception was taken so Step can skip fetching at the
// old PC. Decrementer takes priority over External, matching real hardware's
// fixed exception priority.
func (c *CPU) checkInterrupts() bool {
	if c.decPending.Swap(0) != 0 {
		c.timerTicks++
		c.Raise(Decrementer, 0)
		return true
	}
	if line, ok := c.irqLines.Highest(); ok {
		c.irqLines.Clear(line)
		if _, ok := c.irqLines.Highest(); !ok {
			c.irqCheck.Store(false)
		}
		c.Raise(External, 0)
		return true
	}
	c.irqCheck.Store(false)
	return false
}

// Run drives the execution loop until the supervisor moves the CPU to
// Halted, per spec.md §5: only this goroutine ever touches GPRs, MSR, or
// translation state. While the state is Paused or Suspended it sleeps
// briefly between state checks and resumes stepping once the state is
// Running again.
func (c *CPU) Run() {
	c.cpuThreadRunning.Store(true)
	defer c.cpuThreadRunning.Store(false)
	for {
		switch c.State() {
		case Running:
			c.Step()
		case Halted:
			return
		default:
			time.Sleep(time.Millisecond)
		}
	}
}
