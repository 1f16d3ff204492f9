/*
ciscocore - PowerPC trap and system-call instructions

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

func execSC(c *CPU, word uint32) bool {
	c.RaiseSystemCall()
	return true
}

// TW's TO field selects which signed/unsigned comparisons between rA and rB
// trigger a Program trap; bit numbering matches the architecture reference
// (TO bit 4 = less-than-signed ... bit 0 = greater-than-unsigned).
func execTW(c *CPU, word uint32) bool {
	to := rD(word)
	a, b := int32(c.GPR(rA(word))), int32(c.GPR(rB(word)))
	ua, ub := c.GPR(rA(word)), c.GPR(rB(word))
	trap := (to&0x10 != 0 && a < b) ||
		(to&0x08 != 0 && a > b) ||
		(to&0x04 != 0 && a == b) ||
		(to&0x02 != 0 && ua < ub) ||
		(to&0x01 != 0 && ua > ub)
	if trap {
		c.Raise(Program, programTrap)
		return true
	}
	return false
}
