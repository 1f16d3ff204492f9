/*
ciscocore - MIPS execution loop

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

package mips

import (
	"time"

	"github.com/rcornwell/ciscocore/bitutil"
)

// fetchInstruction resolves vaddr to a host page through the MTS, caching
// the last host page (spec.md §4.F's "exec-page-cached fetch") so the
// common case of sequential fetch within one page skips the MTS lookup.
func (c *CPU) fetchInstruction(vaddr uint64) (uint32, bool) {
	pageShift := c.cfg.ExecPageBits
	pageMask := uint64(1)<<pageShift - 1
	pageBase := vaddr &^ pageMask

	if !c.execPageValid || pageBase != c.execPageAddr {
		entry, err := c.mtsCache.Translate(pageBase, false, true, c)
		if err != nil {
			c.mtsMisses++
			c.Raise(TLBMiss, pageBase, c.inDelaySlot)
			return 0, false
		}
		c.mtsHits++
		host := c.mem.HostPage(entry.Host, pageShift)
		if host == nil {
			c.Raise(BusError, pageBase, c.inDelaySlot)
			return 0, false
		}
		c.execPage = host
		c.execPageAddr = pageBase
		c.execPageValid = true
	}

	off := vaddr - c.execPageAddr
	if int(off)+4 > len(c.execPage) {
		c.execPageValid = false
		return 0, false
	}
	return bitutil.NtoH32(c.execPage[off : off+4]), true
}

// Step executes exactly one instruction: poll pending IRQs, fetch, decode,
// dispatch, advance PC, re-zero register zero, and tick the CP0 Count
// shadow, per spec.md §4.F.
func (c *CPU) Step() {
	if c.irqCheck.Load() && !c.irqDisable.Load() {
		if c.checkInterrupts() {
			return
		}
	}

	if c.pc == c.cfg.IdlePC {
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
	c.regs[0] = 0

	c.cycles++
	c.cp0.Tick(c.cfg.ClockDivisor)

	if c.cycles%uint64(max1(c.cfg.TimerIRQCheckItv)) == 0 {
		c.checkTimerCompare()
	}
}

func max1(v int) int {
	if v <= 0 {
		return 1
	}
	return v
}

// checkTimerCompare raises IRQ line 7 once Count reaches Compare, mirroring
// the real CP0 timer-interrupt comparator.
func (c *CPU) checkTimerCompare() {
	if c.cp0.ReadCount() >= c.cp0.reg[CP0Compare] {
		c.irqLines.Raise(7)
		c.irqCheck.Store(true)
	}
}

// checkInterrupts delivers a pending IRQ as a MIPS Interrupt exception when
// Status.IE is set and the line is unmasked by Status.IM. It reports
// whether an exception was taken, so Step can skip fetching at the old PC.
func (c *CPU) checkInterrupts() bool {
	if c.cp0.reg[CP0Status]&statusIE == 0 {
		return false
	}
	line, ok := c.irqLines.Highest()
	if !ok {
		c.irqCheck.Store(false)
		return false
	}
	mask := uint64(1) << (8 + line)
	if c.cp0.reg[CP0Status]&mask == 0 {
		return false
	}
	c.cp0.reg[CP0Cause] = (c.cp0.reg[CP0Cause] &^ statusIM) | (uint64(1) << (8 + line))
	if line == timerIRQLine {
		if n := c.timerIRQPending.Swap(0); n > 0 {
			c.timerTicks += uint64(n)
		}
		c.irqLines.Clear(timerIRQLine)
	}
	c.Raise(Interrupt, 0, c.inDelaySlot)
	return true
}

// Run drives the execution loop until the supervisor moves the CPU to
// Halted, per spec.md §5: only this goroutine ever touches GPRs, CP0, or the
// TLB. While the state is Paused or Suspended it sleeps briefly between
// state checks and resumes stepping once the state is Running again.
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
