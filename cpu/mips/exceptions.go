/*
ciscocore - MIPS exception handling

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

// Exception is the MIPS exception kind (spec.md §7): a fixed set, not a Go
// error type, since exceptions only change PC and mode bits and never
// unwind the host stack.
type Exception int

const (
	AddressError Exception = iota
	TLBMiss
	TLBInvalid
	TLBModified
	BusError
	SystemCall
	Breakpoint
	ReservedInstruction
	Overflow
	Trap
	FloatingPoint
	Interrupt
)

// Vector returns the exception's fixed entry point within the reset
// segment (offset from the general exception base, 0x180 for most kinds
// on a 64-bit MIPS core; TLB-refill uses the dedicated 0x000 vector when
// the TLB-refill special case applies).
func (e Exception) Vector() uint64 {
	switch e {
	case TLBMiss:
		return 0x000
	default:
		return 0x180
	}
}

func (e Exception) causeCode() uint32 {
	switch e {
	case AddressError:
		return 4
	case TLBMiss, TLBInvalid:
		return 2
	case TLBModified:
		return 1
	case BusError:
		return 6
	case SystemCall:
		return 8
	case Breakpoint:
		return 9
	case ReservedInstruction:
		return 10
	case Overflow:
		return 12
	case Trap:
		return 13
	case FloatingPoint:
		return 15
	case Interrupt:
		return 0
	default:
		return 0
	}
}

// Raise is the single entry point for taking an exception: it records the
// faulting PC (and address where applicable), sets the BD bit if the
// fault occurred in a branch-delay slot, and resumes at the exception
// vector. It never returns an error - this is a state transition, not a
// Go error, per spec.md §7.
func (c *CPU) Raise(exc Exception, faultAddr uint64, inDelaySlot bool) {
	epc := c.pc
	cause := c.cp0.reg[CP0Cause] &^ 0x7C
	cause |= uint64(exc.causeCode()) << 2
	if inDelaySlot {
		cause |= 1 << 31
		epc -= 4
	} else {
		cause &^= 1 << 31
	}
	c.cp0.reg[CP0Cause] = cause
	c.cp0.reg[CP0EPC] = epc
	if exc == AddressError || exc == TLBMiss || exc == TLBInvalid || exc == TLBModified || exc == BusError {
		c.cp0.reg[CP0BadVAddr] = faultAddr
	}
	c.cp0.reg[CP0Status] |= 0x2 // EXL: exception level, disables further interrupts
	c.pc = bootstrapBase + exc.Vector()
}

// bootstrapBase is the reset/bootstrap exception base (kseg1, uncached),
// matching where guest firmware expects vectors to live absent a BEV=0
// remap the core doesn't model.
const bootstrapBase uint64 = 0xFFFFFFFFBFC00200
