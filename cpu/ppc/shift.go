/*
ciscocore - PowerPC shift instructions

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

// Shift amount is the low 6 bits of rB, per spec.md §4.E; a count of 32 or
// more shifts the register out entirely. SLW/SRW zero-fill; SRAW/SRAWI
// sign-extend and additionally set XER.CA when bits are shifted out of a
// negative value, per the architecture reference.

func execSLW(c *CPU, word uint32) bool {
	n := c.GPR(rB(word)) & 0x3F
	var v uint32
	if n < 32 {
		v = c.GPR(rD(word)) << n
	}
	c.SetGPR(rA(word), v)
	if rc(word) {
		c.setCR0(int32(v))
	}
	return false
}

func execSRW(c *CPU, word uint32) bool {
	n := c.GPR(rB(word)) & 0x3F
	var v uint32
	if n < 32 {
		v = c.GPR(rD(word)) >> n
	}
	c.SetGPR(rA(word), v)
	if rc(word) {
		c.setCR0(int32(v))
	}
	return false
}

func execSRAW(c *CPU, word uint32) bool {
	s := int32(c.GPR(rD(word)))
	n := c.GPR(rB(word)) & 0x3F
	var v int32
	ca := false
	if n >= 32 {
		if s < 0 {
			v = -1
			ca = true
		}
	} else {
		v = s >> n
		ca = s < 0 && (uint32(s)<<(32-n)) != 0
	}
	c.setXERCA(ca)
	c.SetGPR(rA(word), uint32(v))
	if rc(word) {
		c.setCR0(v)
	}
	return false
}

func execSRAWI(c *CPU, word uint32) bool {
	s := int32(c.GPR(rD(word)))
	n := uint32(rB(word))
	v := s >> n
	ca := s < 0 && n > 0 && (uint32(s)<<(32-n)) != 0
	c.setXERCA(ca)
	c.SetGPR(rA(word), uint32(v))
	if rc(word) {
		c.setCR0(v)
	}
	return false
}
