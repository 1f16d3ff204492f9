/*
ciscocore - MIPS trap instructions

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

func execBREAK(c *CPU, word uint32) bool {
	c.Raise(Breakpoint, 0, c.inDelaySlot)
	return true
}

func execSYSCALL(c *CPU, word uint32) bool {
	c.Raise(SystemCall, 0, c.inDelaySlot)
	return true
}

func execTEQ(c *CPU, word uint32) bool {
	if c.GPR(rs(word)) == c.GPR(rt(word)) {
		c.Raise(Trap, 0, c.inDelaySlot)
		return true
	}
	return false
}

func execTNE(c *CPU, word uint32) bool {
	if c.GPR(rs(word)) != c.GPR(rt(word)) {
		c.Raise(Trap, 0, c.inDelaySlot)
		return true
	}
	return false
}
