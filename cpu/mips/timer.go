/*
ciscocore - MIPS per-CPU timer thread

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

// timerIRQLine is the MIPS timer interrupt's IRQ line number (CPU Int5,
// conventionally wired to Cause/Status bit 7 on this core).
const timerIRQLine = 7

// StartTimer arms the per-CPU periodic.Scheduler task that raises the timer
// IRQ line at cfg.TimerFrequency, per spec.md §4.G. The task runs on the
// scheduler's own goroutine and only ever touches the atomic IRQ state -
// never GPRs, CP0, or the TLB, preserving the single-writer rule in
// spec.md §5.
func (c *CPU) StartTimer() {
	if c.timerIRQArmed.Load() {
		return
	}
	c.timerIRQArmed.Store(true)
	c.timer = c.sched.AddTask(c.cfg.TimerFrequency, func() {
		c.timerIRQPending.Add(1)
		c.irqLines.Raise(timerIRQLine)
		c.irqCheck.Store(true)
	})
}

// StopTimer cancels the armed timer task, if any.
func (c *CPU) StopTimer() {
	if !c.timerIRQArmed.Load() {
		return
	}
	c.sched.Cancel(c.timer)
	c.timerIRQArmed.Store(false)
}
