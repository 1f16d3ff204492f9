/*
ciscocore - Interrupt line registry

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

// Package irqline is the interrupt-line registry shared between device
// threads and a CPU's execution loop: spec.md §5 names irq_pending as the
// one genuinely shared piece of hot state, safe from any thread because it
// is manipulated with atomic bitwise operations rather than a lock.
package irqline

import (
	"math/bits"
	"sync/atomic"
)

// Lines is a bitmap of pending interrupt lines: 8 lines for MIPS (IP0-IP7),
// 1 line for PowerPC's single external-interrupt input.
type Lines struct {
	pending atomic.Uint32
}

// Raise sets line as pending. Safe from any thread.
func (l *Lines) Raise(line uint) {
	bit := uint32(1) << line
	for {
		old := l.pending.Load()
		if old&bit != 0 {
			return
		}
		if l.pending.CompareAndSwap(old, old|bit) {
			return
		}
	}
}

// Clear clears line. Safe from any thread.
func (l *Lines) Clear(line uint) {
	bit := uint32(1) << line
	for {
		old := l.pending.Load()
		if old&bit == 0 {
			return
		}
		if l.pending.CompareAndSwap(old, old&^bit) {
			return
		}
	}
}

// Pending returns the full pending bitmap.
func (l *Lines) Pending() uint32 {
	return l.pending.Load()
}

// Any reports whether any line is pending.
func (l *Lines) Any() bool {
	return l.pending.Load() != 0
}

// Highest returns the highest-numbered pending line (the loop's
// highest-priority interrupt, per spec.md §4.F step 1) and whether any
// line was pending at all.
func (l *Lines) Highest() (line uint, ok bool) {
	p := l.pending.Load()
	if p == 0 {
		return 0, false
	}
	return uint(bits.Len32(p)) - 1, true
}
