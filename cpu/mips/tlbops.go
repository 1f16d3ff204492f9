/*
ciscocore - MIPS TLB instruction dispatch

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

// execTLBOp dispatches the CO-class COP0 sub-opcodes (func field) to the
// four software-TLB operations spec.md §4.D names.
func execTLBOp(c *CPU, word uint32) bool {
	switch fn(word) {
	case 0x01: // TLBR
		c.TLBRead()
	case 0x02: // TLBWI
		c.TLBWriteIndexed()
	case 0x06: // TLBWR
		c.TLBWriteRandom()
	case 0x08: // TLBP
		c.TLBProbe()
	default:
		c.Raise(ReservedInstruction, 0, c.inDelaySlot)
		return true
	}
	return false
}
