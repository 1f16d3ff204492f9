/*
ciscocore - MIPS multiply/divide instructions

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

// MULT/MULTU/DIV/DIVU operate on the low 32 bits of their operands and
// write HI/LO as sign-extended 32-bit results, per the classic MIPS32
// multiply/divide unit semantics this core's 64-bit mode still exposes
// for 32-bit guest code.

func execMULT(c *CPU, word uint32) bool {
	a := int64(int32(c.GPR(rs(word))))
	b := int64(int32(c.GPR(rt(word))))
	p := a * b
	c.lo = uint64(int64(int32(p)))
	c.hi = uint64(int64(int32(p >> 32)))
	return false
}

func execMULTU(c *CPU, word uint32) bool {
	a := uint64(uint32(c.GPR(rs(word))))
	b := uint64(uint32(c.GPR(rt(word))))
	p := a * b
	c.lo = uint64(int64(int32(uint32(p))))
	c.hi = uint64(int64(int32(uint32(p >> 32))))
	return false
}

func execDIV(c *CPU, word uint32) bool {
	a := int32(c.GPR(rs(word)))
	b := int32(c.GPR(rt(word)))
	if b == 0 {
		// Classic MIPS leaves HI/LO undefined on divide-by-zero rather than
		// trapping; callers guard with BEQ/teq as guest software would.
		return false
	}
	c.lo = uint64(int64(a / b))
	c.hi = uint64(int64(a % b))
	return false
}

func execDIVU(c *CPU, word uint32) bool {
	a := uint32(c.GPR(rs(word)))
	b := uint32(c.GPR(rt(word)))
	if b == 0 {
		return false
	}
	c.lo = uint64(int64(int32(a / b)))
	c.hi = uint64(int64(int32(a % b)))
	return false
}

func execMFHI(c *CPU, word uint32) bool {
	c.SetGPR(rd(word), c.hi)
	return false
}

func execMFLO(c *CPU, word uint32) bool {
	c.SetGPR(rd(word), c.lo)
	return false
}
