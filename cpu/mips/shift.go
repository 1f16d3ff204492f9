/*
ciscocore - MIPS shift instructions

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

// 32-bit shifts sign-extend their 32-bit result to 64 bits, per spec.md §8's
// invariant that SLL/SRA/SRL results sign-extend to bit 63.

func execSLL(c *CPU, word uint32) bool {
	v := int32(uint32(c.GPR(rt(word))) << sa(word))
	c.SetGPR(rd(word), uint64(int64(v)))
	return false
}

func execSRL(c *CPU, word uint32) bool {
	v := int32(uint32(c.GPR(rt(word))) >> sa(word))
	c.SetGPR(rd(word), uint64(int64(v)))
	return false
}

func execSRA(c *CPU, word uint32) bool {
	v := int32(c.GPR(rt(word))) >> sa(word)
	c.SetGPR(rd(word), uint64(int64(v)))
	return false
}

func execSLLV(c *CPU, word uint32) bool {
	shift := c.GPR(rs(word)) & 0x1F
	v := int32(uint32(c.GPR(rt(word))) << shift)
	c.SetGPR(rd(word), uint64(int64(v)))
	return false
}

func execSRLV(c *CPU, word uint32) bool {
	shift := c.GPR(rs(word)) & 0x1F
	v := int32(uint32(c.GPR(rt(word))) >> shift)
	c.SetGPR(rd(word), uint64(int64(v)))
	return false
}

func execSRAV(c *CPU, word uint32) bool {
	shift := c.GPR(rs(word)) & 0x1F
	v := int32(c.GPR(rt(word))) >> shift
	c.SetGPR(rd(word), uint64(int64(v)))
	return false
}

// 64-bit shift family: full-width, no sign-extension collapse.

func execDSLL(c *CPU, word uint32) bool {
	c.SetGPR(rd(word), c.GPR(rt(word))<<sa(word))
	return false
}

func execDSRL(c *CPU, word uint32) bool {
	c.SetGPR(rd(word), c.GPR(rt(word))>>sa(word))
	return false
}

func execDSRA(c *CPU, word uint32) bool {
	c.SetGPR(rd(word), uint64(int64(c.GPR(rt(word)))>>sa(word)))
	return false
}

// DSRA32 adds 32 to the shift amount field, covering shifts 32-63.
func execDSRA32(c *CPU, word uint32) bool {
	shift := uint(sa(word)) + 32
	c.SetGPR(rd(word), uint64(int64(c.GPR(rt(word)))>>shift))
	return false
}
