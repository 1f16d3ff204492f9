/*
ciscocore - MIPS branch and jump instructions

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

// runDelaySlot executes the single instruction following a branch/jump (the
// delay slot is always architecturally executed for non-likely branches,
// per spec.md §8's branch-plus-delay-slot scenario). While the slot runs, PC
// is the slot's address and the delay-slot flag is set, so an exception
// raised by its fetch or execution records EPC = branch PC with Cause.BD
// set. It returns false if the slot changed PC itself (an exception, which
// the caller must not overwrite) or could not be fetched; otherwise PC is
// back at the branch for the caller to redirect.
func (c *CPU) runDelaySlot() bool {
	branchPC := c.pc
	slotPC := branchPC + 4
	c.pc = slotPC
	c.inDelaySlot = true
	word, ok := c.fetchInstruction(slotPC)
	if ok {
		h := c.decode.Lookup(word)
		ok = !h(c, word)
	}
	c.inDelaySlot = false
	if !ok && c.pc != slotPC {
		return false
	}
	c.pc = branchPC
	return ok
}

// takeBranch executes the delay slot, then resumes at target (or falls
// through past the delay slot when the branch was not taken). The target is
// the delay slot's own address plus 4 (i.e. branch_PC+8), plus the scaled
// offset, matching the architecture's defined branch-target addressing.
func (c *CPU) takeBranch(word uint32, taken bool) bool {
	offset := simm16(word) << 2
	slotPC := c.pc + 4
	target := uint64(int64(slotPC+4) + offset)
	if !c.runDelaySlot() {
		return true
	}
	if taken {
		c.pc = target
	} else {
		c.pc = slotPC + 4
	}
	return true
}

// takeLikelyBranch nullifies the delay slot (skips executing it) when the
// branch is not taken, per the BEQL/BNEL "likely" semantics.
func (c *CPU) takeLikelyBranch(word uint32, taken bool) bool {
	offset := simm16(word) << 2
	slotPC := c.pc + 4
	target := uint64(int64(slotPC+4) + offset)
	if !taken {
		c.pc = slotPC + 4
		return true
	}
	if !c.runDelaySlot() {
		return true
	}
	c.pc = target
	return true
}

func execBEQ(c *CPU, word uint32) bool {
	return c.takeBranch(word, c.GPR(rs(word)) == c.GPR(rt(word)))
}

func execBNE(c *CPU, word uint32) bool {
	return c.takeBranch(word, c.GPR(rs(word)) != c.GPR(rt(word)))
}

func execBEQL(c *CPU, word uint32) bool {
	return c.takeLikelyBranch(word, c.GPR(rs(word)) == c.GPR(rt(word)))
}

func execBNEL(c *CPU, word uint32) bool {
	return c.takeLikelyBranch(word, c.GPR(rs(word)) != c.GPR(rt(word)))
}

// J jumps within the current 256 MiB region; the delay slot always executes.
func execJ(c *CPU, word uint32) bool {
	slotPC := c.pc + 4
	dest := (slotPC & 0xFFFFFFFFF0000000) | uint64(target(word))<<2
	if !c.runDelaySlot() {
		return true
	}
	c.pc = dest
	return true
}

// JAL is J plus a link into $31 of the instruction after the delay slot.
func execJAL(c *CPU, word uint32) bool {
	slotPC := c.pc + 4
	link := slotPC + 4
	dest := (slotPC & 0xFFFFFFFFF0000000) | uint64(target(word))<<2
	if !c.runDelaySlot() {
		return true
	}
	c.SetGPR(31, link)
	c.pc = dest
	return true
}

func execJR(c *CPU, word uint32) bool {
	dest := c.GPR(rs(word))
	if !c.runDelaySlot() {
		return true
	}
	c.pc = dest
	return true
}

func execJALR(c *CPU, word uint32) bool {
	slotPC := c.pc + 4
	link := slotPC + 4
	dest := c.GPR(rs(word))
	linkReg := rd(word)
	if linkReg == 0 {
		linkReg = 31
	}
	if !c.runDelaySlot() {
		return true
	}
	c.SetGPR(linkReg, link)
	c.pc = dest
	return true
}
