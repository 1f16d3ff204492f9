/*
ciscocore - MIPS COP0 instruction dispatch

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

// execCOP0 decodes the COP0 major opcode's rs field: MF/DMF/MT/DMT read or
// write a CP0 register by number (rd field), CFC0/CTC0 address the R7000
// shadow set, and the CO-class (rs bit 4 set) selects a TLB operation on
// the func field.
func execCOP0(c *CPU, word uint32) bool {
	switch rs(word) {
	case 0x00: // MFC0
		c.SetGPR(rt(word), uint64(int64(int32(c.MFC0(rd(word))))))
	case 0x01: // DMFC0
		c.SetGPR(rt(word), c.DMFC0(rd(word)))
	case 0x02: // CFC0
		c.SetGPR(rt(word), uint64(int64(int32(c.CFC0(rd(word))))))
	case 0x04: // MTC0
		c.MTC0(rd(word), uint32(c.GPR(rt(word))))
	case 0x05: // DMTC0
		c.DMTC0(rd(word), c.GPR(rt(word)))
	case 0x06: // CTC0
		c.CTC0(rd(word), uint32(c.GPR(rt(word))))
	default:
		if rs(word)&0x10 != 0 {
			return execTLBOp(c, word)
		}
		c.Raise(ReservedInstruction, 0, c.inDelaySlot)
		return true
	}
	return false
}
