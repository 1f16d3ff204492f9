/*
ciscocore - PowerPC branch instructions

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

// PowerPC has no branch-delay slot (unlike MIPS): the branch target takes
// effect immediately, and link registers are set to the instruction
// following the branch itself (PC+4), per the architecture reference.

// bo/bi decode the BC-form condition: bo selects which of the CTR/CR
// conditions to test, bi names the CR bit.
func decodeBO(word uint32) (decrementCTR, ctrCondition, testCR, crValueWanted bool) {
	bo := rD(word)
	decrementCTR = bo&0x04 == 0
	ctrCondition = bo&0x02 != 0
	testCR = bo&0x10 == 0
	crValueWanted = bo&0x08 != 0
	return
}

func (c *CPU) crBit(bi uint8) bool {
	field := bi / 4
	bitInField := 3 - (bi % 4)
	return c.CRField(field)&(1<<bitInField) != 0
}

// branchTaken evaluates the CTR and CR conditions of a BC-form instruction,
// decrementing CTR when required exactly once regardless of outcome.
func (c *CPU) branchTaken(word uint32) bool {
	decCTR, ctrCond, testCR, crWant := decodeBO(word)
	ctrOK := true
	if decCTR {
		c.ctr--
		if ctrCond {
			ctrOK = c.ctr == 0
		} else {
			ctrOK = c.ctr != 0
		}
	}
	crOK := true
	if testCR {
		crOK = c.crBit(rA(word)) == crWant
	}
	return ctrOK && crOK
}

func execB(c *CPU, word uint32) bool {
	var target uint32
	if aa(word) {
		target = uint32(li(word))
	} else {
		target = c.pc + uint32(li(word))
	}
	if lk(word) {
		c.lr = c.pc + 4
	}
	c.pc = target
	return true
}

func execBC(c *CPU, word uint32) bool {
	taken := c.branchTaken(word)
	link := c.pc + 4
	if !taken {
		c.pc = link
		return true
	}
	var target uint32
	if aa(word) {
		target = uint32(bd(word))
	} else {
		target = c.pc + uint32(bd(word))
	}
	if lk(word) {
		c.lr = link
	}
	c.pc = target
	return true
}

func execBCLR(c *CPU, word uint32) bool {
	taken := c.branchTaken(word)
	link := c.pc + 4
	if !taken {
		c.pc = link
		return true
	}
	target := c.lr &^ 0x3
	if lk(word) {
		c.lr = link
	}
	c.pc = target
	return true
}

func execBCCTR(c *CPU, word uint32) bool {
	// BCCTR never tests CTR itself (using CTR as the target precludes
	// decrementing it), only the CR condition.
	_, _, testCR, crWant := decodeBO(word)
	taken := true
	if testCR {
		taken = c.crBit(rA(word)) == crWant
	}
	link := c.pc + 4
	if !taken {
		c.pc = link
		return true
	}
	target := c.ctr &^ 0x3
	if lk(word) {
		c.lr = link
	}
	c.pc = target
	return true
}
