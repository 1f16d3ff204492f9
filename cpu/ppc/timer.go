/*
ciscocore - PowerPC per-CPU timer thread

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

// externalIRQLine is this core's single external-interrupt input line.
const externalIRQLine = 0

// StartTimer arms the per-CPU periodic.Scheduler task that raises the
// external interrupt line at cfg.TimerFrequency, standing in for the board's
// interval timer device, per spec.md §4.G. The decrementer itself is ticked
// once per Step (cpu/ppc/exec.go's tickDecrementer), matching real hardware
// where DEC counts bus cycles rather than wall-clock ticks; this task only
// ever touches the atomic IRQ state, never GPRs, MSR, or translation state,
// preserving the single-writer rule in spec.md §5.
func (c *CPU) StartTimer() {
	if c.timerIRQArmed.Load() {
		return
	}
	c.timerIRQArmed.Store(true)
	c.timer = c.sched.AddTask(c.cfg.TimerFrequency, func() {
		c.irqLines.Raise(externalIRQLine)
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
