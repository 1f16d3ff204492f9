/*
ciscocore - PowerPC exception handling

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

// Exception is the PowerPC exception kind (spec.md §7). PowerPC has no
// branch-delay slot, so - unlike mips.Exception - Raise never needs a
// BD-bit/EPC-backup parameter.
type Exception int

const (
	MachineCheck Exception = iota
	DataStorage
	InstructionStorage
	External
	Alignment
	Program
	FPUnavailable
	Decrementer
	SystemCall
	Trace
)

// Vector returns the exception's fixed real-address entry point, matching
// the architecture's standard vector offsets.
func (e Exception) Vector() uint32 {
	switch e {
	case MachineCheck:
		return 0x200
	case DataStorage:
		return 0x300
	case InstructionStorage:
		return 0x400
	case External:
		return 0x500
	case Alignment:
		return 0x600
	case Program:
		return 0x700
	case FPUnavailable:
		return 0x800
	case Decrementer:
		return 0x900
	case SystemCall:
		return 0xC00
	case Trace:
		return 0xD00
	default:
		return 0x700
	}
}

// srr1Mask is the set of MSR bits Raise preserves into SRR1 bits 1-4/10-15
// (the rest of SRR1's low bits carry exception-specific status the
// handler itself sets, e.g. DSISR-like bits for Program/DataStorage).
const srr1Mask uint32 = 0x0000FF73

// Raise is the single entry point for taking a PowerPC exception: it
// records the faulting PC/MSR into SRR0/SRR1, clears MSR to the
// architected post-exception state, and resumes at the real-mode vector.
// It never returns an error - a state transition, not a Go error, per
// spec.md §7.
func (c *CPU) Raise(exc Exception, status uint32) {
	c.srr0 = c.pc
	c.srr1 = (c.msr & srr1Mask) | status
	// Post-exception MSR: translation and external interrupts off, boot to
	// supervisor mode; MSR.IP (vector prefix) is not modeled since this
	// core always vectors to the low real-address range.
	c.msr &^= msrIR | msrDR | msrEE | msrPR
	c.pc = exc.Vector()
	c.mtsCache.InvalidateAll()
}

// RaiseSystemCall and friends are thin wrappers kept for readability at
// call sites; SystemCall carries no extra status bits.
func (c *CPU) RaiseSystemCall() { c.Raise(SystemCall, 0) }

// RaiseDataStorage records the faulting effective address in DAR before
// taking a DataStorage exception, mirroring real hardware's DAR/DSISR pair.
func (c *CPU) RaiseDataStorage(vaddr uint32, status uint32) {
	c.dar = vaddr
	c.Raise(DataStorage, status)
}
