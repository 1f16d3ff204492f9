/*
ciscocore - MIPS ALU instructions

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

// ADDIU: sign-extends the immediate and never traps on overflow, per
// spec.md §8's concrete scenario.
func execADDIU(c *CPU, word uint32) bool {
	v := int64(c.GPR(rs(word))) + simm16(word)
	c.SetGPR(rt(word), uint64(v))
	return false
}

// ADDI traps to Overflow on signed 32-bit overflow of the low word.
func execADDI(c *CPU, word uint32) bool {
	a := int32(c.GPR(rs(word)))
	b := int32(simm16(word))
	sum := a + b
	if overflowedAdd32(a, b, sum) {
		c.Raise(Overflow, 0, false)
		return true
	}
	c.SetGPR(rt(word), uint64(int64(sum)))
	return false
}

func execADD(c *CPU, word uint32) bool {
	a := int32(c.GPR(rs(word)))
	b := int32(c.GPR(rt(word)))
	sum := a + b
	if overflowedAdd32(a, b, sum) {
		c.Raise(Overflow, 0, false)
		return true
	}
	c.SetGPR(rd(word), uint64(int64(sum)))
	return false
}

func execADDU(c *CPU, word uint32) bool {
	v := int32(c.GPR(rs(word))) + int32(c.GPR(rt(word)))
	c.SetGPR(rd(word), uint64(int64(v)))
	return false
}

func execSUB(c *CPU, word uint32) bool {
	a := int32(c.GPR(rs(word)))
	b := int32(c.GPR(rt(word)))
	diff := a - b
	if overflowedSub32(a, b, diff) {
		c.Raise(Overflow, 0, false)
		return true
	}
	c.SetGPR(rd(word), uint64(int64(diff)))
	return false
}

func execSUBU(c *CPU, word uint32) bool {
	v := int32(c.GPR(rs(word))) - int32(c.GPR(rt(word)))
	c.SetGPR(rd(word), uint64(int64(v)))
	return false
}

func overflowedAdd32(a, b, sum int32) bool {
	return (a >= 0) == (b >= 0) && (sum >= 0) != (a >= 0)
}

func overflowedSub32(a, b, diff int32) bool {
	return (a >= 0) != (b >= 0) && (diff >= 0) != (a >= 0)
}

func execAND(c *CPU, word uint32) bool {
	c.SetGPR(rd(word), c.GPR(rs(word))&c.GPR(rt(word)))
	return false
}

func execOR(c *CPU, word uint32) bool {
	c.SetGPR(rd(word), c.GPR(rs(word))|c.GPR(rt(word)))
	return false
}

func execXOR(c *CPU, word uint32) bool {
	c.SetGPR(rd(word), c.GPR(rs(word))^c.GPR(rt(word)))
	return false
}

func execNOR(c *CPU, word uint32) bool {
	c.SetGPR(rd(word), ^(c.GPR(rs(word)) | c.GPR(rt(word))))
	return false
}

func execANDI(c *CPU, word uint32) bool {
	c.SetGPR(rt(word), c.GPR(rs(word))&uint64(imm16(word)))
	return false
}

func execORI(c *CPU, word uint32) bool {
	c.SetGPR(rt(word), c.GPR(rs(word))|uint64(imm16(word)))
	return false
}

func execXORI(c *CPU, word uint32) bool {
	c.SetGPR(rt(word), c.GPR(rs(word))^uint64(imm16(word)))
	return false
}

func execLUI(c *CPU, word uint32) bool {
	v := int64(int32(uint32(imm16(word)) << 16))
	c.SetGPR(rt(word), uint64(v))
	return false
}

func execSLT(c *CPU, word uint32) bool {
	if int64(c.GPR(rs(word))) < int64(c.GPR(rt(word))) {
		c.SetGPR(rd(word), 1)
	} else {
		c.SetGPR(rd(word), 0)
	}
	return false
}

func execSLTU(c *CPU, word uint32) bool {
	if c.GPR(rs(word)) < c.GPR(rt(word)) {
		c.SetGPR(rd(word), 1)
	} else {
		c.SetGPR(rd(word), 0)
	}
	return false
}

// MOVZ moves rs to rd when rt is zero. Per the Open Question decision
// recorded in DESIGN.md it is implemented unconditionally, with no
// ISA-revision gate.
func execMOVZ(c *CPU, word uint32) bool {
	if c.GPR(rt(word)) == 0 {
		c.SetGPR(rd(word), c.GPR(rs(word)))
	}
	return false
}

// execReservedInstruction is the ILT catch-all: spec.md §4.B/§7 treat an
// unknown encoding as a NOP rather than a trap, logging it at WARN once per
// distinct word to avoid spamming the log on a hot unimplemented opcode,
// and returning control to the supervisor without diverging from firmware.
func execReservedInstruction(c *CPU, word uint32) bool {
	if c.log != nil && !c.loggedUnknown[word] {
		c.loggedUnknown[word] = true
		c.log.Warn("unknown opcode", "word", word, "pc", c.pc)
	}
	return false
}
