/*
ciscocore - PowerPC condition-register logical ops and privileged returns

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

// crBitValue reads a single CR bit addressed by its absolute bit number
// (0-31, MSB-first).
func (c *CPU) crBitValue(bit uint8) bool {
	field := bit / 4
	bitInField := 3 - (bit % 4)
	return c.CRField(field)&(1<<bitInField) != 0
}

func (c *CPU) setCRBit(bit uint8, v bool) {
	field := bit / 4
	bitInField := uint8(3 - (bit % 4))
	f := c.CRField(field)
	if v {
		f |= 1 << bitInField
	} else {
		f &^= 1 << bitInField
	}
	c.SetCRField(field, f)
}

func crLogical(c *CPU, word uint32, op func(a, b bool) bool) bool {
	a := c.crBitValue(crbA(word))
	b := c.crbBValue(word)
	c.setCRBit(crbD(word), op(a, b))
	return false
}

// crbBValue is split out only so crLogical can be written generically;
// crB's bit number is crbB(word) in all of these forms.
func (c *CPU) crbBValue(word uint32) bool { return c.crBitValue(crbB(word)) }

func execCRAND(c *CPU, word uint32) bool {
	return crLogical(c, word, func(a, b bool) bool { return a && b })
}

func execCRANDC(c *CPU, word uint32) bool {
	return crLogical(c, word, func(a, b bool) bool { return a && !b })
}

func execCROR(c *CPU, word uint32) bool {
	return crLogical(c, word, func(a, b bool) bool { return a || b })
}

func execCRXOR(c *CPU, word uint32) bool {
	return crLogical(c, word, func(a, b bool) bool { return a != b })
}

func execCRNAND(c *CPU, word uint32) bool {
	return crLogical(c, word, func(a, b bool) bool { return !(a && b) })
}

func execCRNOR(c *CPU, word uint32) bool {
	return crLogical(c, word, func(a, b bool) bool { return !(a || b) })
}

func execCRORC(c *CPU, word uint32) bool {
	return crLogical(c, word, func(a, b bool) bool { return a || !b })
}

func execCREQV(c *CPU, word uint32) bool {
	return crLogical(c, word, func(a, b bool) bool { return a == b })
}

// msrRestoreMask is the set of MSR bits RFI restores from SRR1; reserved
// bits and the always-zero bits are masked off, matching Raise's srr1Mask.
const msrRestoreMask = srr1Mask

// execRFI returns from an exception: MSR is restored from SRR1 under a
// mask, PC is set from SRR0, and pending interrupts are re-polled
// immediately since the restored MSR.EE may now be set, per spec.md §4.E.
func execRFI(c *CPU, word uint32) bool {
	restored := (c.msr &^ msrRestoreMask) | (c.srr1 & msrRestoreMask)
	c.SetMSR(restored)
	c.pc = c.srr0
	return true
}

// execISYNC is an instruction-synchronization barrier; this interpreter
// executes instructions strictly in order, so it is architecturally a NOP.
func execISYNC(c *CPU, word uint32) bool {
	return false
}
