/*
ciscocore - PowerPC integer ALU instructions

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

// Carry/overflow update the corresponding XER bits exactly per the
// PowerPC 32-bit architecture reference; Rc variants additionally write
// CR0, per spec.md §4.E's "PowerPC specifics".

func addCarry(a, b uint32) bool {
	return uint64(a)+uint64(b) > 0xFFFFFFFF
}

func addOverflow(a, b, sum int32) bool {
	return (a >= 0) == (b >= 0) && (sum >= 0) != (a >= 0)
}

func subOverflow(a, b, diff int32) bool {
	return (a >= 0) != (b >= 0) && (diff >= 0) != (a >= 0)
}

// finishArith writes rd, then XER.CA/OV and CR0 as the OE/Rc bits of word
// request, per spec.md §4.E.
func (c *CPU) finishArith(word uint32, rd uint8, v uint32, ca, ov bool, hasCA, hasOV bool) bool {
	c.SetGPR(rd, v)
	if hasCA {
		c.setXERCA(ca)
	}
	if hasOV && oe(word) {
		c.setXEROV(ov)
	}
	if rc(word) {
		c.setCR0(int32(v))
	}
	return false
}

func execADDI(c *CPU, word uint32) bool {
	base := uint32(0)
	if rA(word) != 0 {
		base = c.GPR(rA(word))
	}
	c.SetGPR(rD(word), base+uint32(simm(word)))
	return false
}

func execADDIS(c *CPU, word uint32) bool {
	base := uint32(0)
	if rA(word) != 0 {
		base = c.GPR(rA(word))
	}
	c.SetGPR(rD(word), base+uint32(simm(word))<<16)
	return false
}

func execADDIC(c *CPU, word uint32) bool {
	a := c.GPR(rA(word))
	imm := uint32(simm(word))
	sum := a + imm
	c.setXERCA(addCarry(a, imm))
	c.SetGPR(rD(word), sum)
	return false
}

func execADDICDot(c *CPU, word uint32) bool {
	a := c.GPR(rA(word))
	imm := uint32(simm(word))
	sum := a + imm
	c.setXERCA(addCarry(a, imm))
	c.SetGPR(rD(word), sum)
	c.setCR0(int32(sum))
	return false
}

func execMULLI(c *CPU, word uint32) bool {
	v := int32(c.GPR(rA(word))) * simm(word)
	c.SetGPR(rD(word), uint32(v))
	return false
}

func execADD(c *CPU, word uint32) bool {
	a, b := c.GPR(rA(word)), c.GPR(rB(word))
	sum := a + b
	return c.finishArith(word, rD(word), sum, false, addOverflow(int32(a), int32(b), int32(sum)), false, true)
}

func execADDC(c *CPU, word uint32) bool {
	a, b := c.GPR(rA(word)), c.GPR(rB(word))
	sum := a + b
	return c.finishArith(word, rD(word), sum, addCarry(a, b), addOverflow(int32(a), int32(b), int32(sum)), true, true)
}

func execADDE(c *CPU, word uint32) bool {
	a, b := c.GPR(rA(word)), c.GPR(rB(word))
	carryIn := uint32(0)
	if c.xerCA() {
		carryIn = 1
	}
	sum := a + b + carryIn
	ca := uint64(a)+uint64(b)+uint64(carryIn) > 0xFFFFFFFF
	return c.finishArith(word, rD(word), sum, ca, addOverflow(int32(a), int32(b), int32(sum)), true, true)
}

func execADDME(c *CPU, word uint32) bool {
	a := c.GPR(rA(word))
	carryIn := uint32(0)
	if c.xerCA() {
		carryIn = 1
	}
	sum := a + 0xFFFFFFFF + carryIn
	ca := uint64(a)+0xFFFFFFFF+uint64(carryIn) > 0xFFFFFFFF
	return c.finishArith(word, rD(word), sum, ca, addOverflow(int32(a), -1, int32(sum)), true, true)
}

func execADDZE(c *CPU, word uint32) bool {
	a := c.GPR(rA(word))
	carryIn := uint32(0)
	if c.xerCA() {
		carryIn = 1
	}
	sum := a + carryIn
	ca := uint64(a)+uint64(carryIn) > 0xFFFFFFFF
	return c.finishArith(word, rD(word), sum, ca, addOverflow(int32(a), 0, int32(sum)), true, true)
}

// SUBF computes RB - RA (note the PowerPC operand order), per the
// architecture reference.
func execSUBF(c *CPU, word uint32) bool {
	a, b := c.GPR(rA(word)), c.GPR(rB(word))
	diff := b - a
	return c.finishArith(word, rD(word), diff, false, subOverflow(int32(b), int32(a), int32(diff)), false, true)
}

func execSUBFC(c *CPU, word uint32) bool {
	a, b := c.GPR(rA(word)), c.GPR(rB(word))
	notA := ^a
	sum := notA + b + 1
	ca := uint64(notA)+uint64(b)+1 > 0xFFFFFFFF
	return c.finishArith(word, rD(word), sum, ca, subOverflow(int32(b), int32(a), int32(sum)), true, true)
}

func execSUBFE(c *CPU, word uint32) bool {
	a, b := c.GPR(rA(word)), c.GPR(rB(word))
	carryIn := uint32(0)
	if c.xerCA() {
		carryIn = 1
	}
	notA := ^a
	sum := notA + b + carryIn
	ca := uint64(notA)+uint64(b)+uint64(carryIn) > 0xFFFFFFFF
	return c.finishArith(word, rD(word), sum, ca, subOverflow(int32(b), int32(a), int32(sum)), true, true)
}

func execSUBFME(c *CPU, word uint32) bool {
	a := c.GPR(rA(word))
	carryIn := uint32(0)
	if c.xerCA() {
		carryIn = 1
	}
	notA := ^a
	sum := notA + 0xFFFFFFFF + carryIn
	ca := uint64(notA)+0xFFFFFFFF+uint64(carryIn) > 0xFFFFFFFF
	return c.finishArith(word, rD(word), sum, ca, subOverflow(-1, int32(a), int32(sum)), true, true)
}

func execSUBFZE(c *CPU, word uint32) bool {
	a := c.GPR(rA(word))
	carryIn := uint32(0)
	if c.xerCA() {
		carryIn = 1
	}
	notA := ^a
	sum := notA + carryIn
	ca := uint64(notA)+uint64(carryIn) > 0xFFFFFFFF
	return c.finishArith(word, rD(word), sum, ca, subOverflow(0, int32(a), int32(sum)), true, true)
}

func execNEG(c *CPU, word uint32) bool {
	a := c.GPR(rA(word))
	v := (^a) + 1
	ov := a == 0x80000000
	return c.finishArith(word, rD(word), v, false, ov, false, true)
}

func execMULLW(c *CPU, word uint32) bool {
	a, b := int64(int32(c.GPR(rA(word)))), int64(int32(c.GPR(rB(word))))
	p := a * b
	ov := p != int64(int32(p))
	return c.finishArith(word, rD(word), uint32(int32(p)), false, ov, false, true)
}

func execMULHW(c *CPU, word uint32) bool {
	a, b := int64(int32(c.GPR(rA(word)))), int64(int32(c.GPR(rB(word))))
	p := a * b
	v := uint32(p >> 32)
	c.SetGPR(rD(word), v)
	if rc(word) {
		c.setCR0(int32(v))
	}
	return false
}

func execMULHWU(c *CPU, word uint32) bool {
	a, b := uint64(c.GPR(rA(word))), uint64(c.GPR(rB(word)))
	p := a * b
	v := uint32(p >> 32)
	c.SetGPR(rD(word), v)
	if rc(word) {
		c.setCR0(int32(v))
	}
	return false
}

// DIVW/DIVWU: division by zero (or INT_MIN/-1 for DIVW) leaves the
// destination register's value undefined on real hardware; this
// implementation writes zero rather than leaving the register stale, and
// sets OV when OE is set, mirroring the architecture's documented
// behaviour for the degenerate case.
func execDIVW(c *CPU, word uint32) bool {
	a, b := int32(c.GPR(rA(word))), int32(c.GPR(rB(word)))
	if b == 0 || (a == -0x80000000 && b == -1) {
		return c.finishArith(word, rD(word), 0, false, true, false, true)
	}
	v := a / b
	return c.finishArith(word, rD(word), uint32(v), false, false, false, true)
}

func execDIVWU(c *CPU, word uint32) bool {
	a, b := c.GPR(rA(word)), c.GPR(rB(word))
	if b == 0 {
		return c.finishArith(word, rD(word), 0, false, true, false, true)
	}
	v := a / b
	return c.finishArith(word, rD(word), v, false, false, false, true)
}

// Logical instructions and their immediates. Immediates are zero-extended,
// per spec.md §4.E.

func execAND(c *CPU, word uint32) bool {
	v := c.GPR(rD(word)) & c.GPR(rB(word))
	c.SetGPR(rA(word), v)
	if rc(word) {
		c.setCR0(int32(v))
	}
	return false
}

func execANDC(c *CPU, word uint32) bool {
	v := c.GPR(rD(word)) &^ c.GPR(rB(word))
	c.SetGPR(rA(word), v)
	if rc(word) {
		c.setCR0(int32(v))
	}
	return false
}

func execOR(c *CPU, word uint32) bool {
	v := c.GPR(rD(word)) | c.GPR(rB(word))
	c.SetGPR(rA(word), v)
	if rc(word) {
		c.setCR0(int32(v))
	}
	return false
}

func execORC(c *CPU, word uint32) bool {
	v := c.GPR(rD(word)) | ^c.GPR(rB(word))
	c.SetGPR(rA(word), v)
	if rc(word) {
		c.setCR0(int32(v))
	}
	return false
}

func execXOR(c *CPU, word uint32) bool {
	v := c.GPR(rD(word)) ^ c.GPR(rB(word))
	c.SetGPR(rA(word), v)
	if rc(word) {
		c.setCR0(int32(v))
	}
	return false
}

func execNOR(c *CPU, word uint32) bool {
	v := ^(c.GPR(rD(word)) | c.GPR(rB(word)))
	c.SetGPR(rA(word), v)
	if rc(word) {
		c.setCR0(int32(v))
	}
	return false
}

func execEQV(c *CPU, word uint32) bool {
	v := ^(c.GPR(rD(word)) ^ c.GPR(rB(word)))
	c.SetGPR(rA(word), v)
	if rc(word) {
		c.setCR0(int32(v))
	}
	return false
}

func execANDIDot(c *CPU, word uint32) bool {
	v := c.GPR(rA(word)) & uimm(word)
	// The immediate forms of ANDI/ANDIS always update CR0 (there is no
	// non-dot encoding in this opcode slot).
	c.SetGPR(rD(word), v)
	c.setCR0(int32(v))
	return false
}

func execANDISDot(c *CPU, word uint32) bool {
	v := c.GPR(rA(word)) & (uimm(word) << 16)
	c.SetGPR(rD(word), v)
	c.setCR0(int32(v))
	return false
}

func execORI(c *CPU, word uint32) bool {
	c.SetGPR(rA(word), c.GPR(rD(word))|uimm(word))
	return false
}

func execORIS(c *CPU, word uint32) bool {
	c.SetGPR(rA(word), c.GPR(rD(word))|(uimm(word)<<16))
	return false
}

func execXORI(c *CPU, word uint32) bool {
	c.SetGPR(rA(word), c.GPR(rD(word))^uimm(word))
	return false
}

func execXORIS(c *CPU, word uint32) bool {
	c.SetGPR(rA(word), c.GPR(rD(word))^(uimm(word)<<16))
	return false
}

func execEXTSB(c *CPU, word uint32) bool {
	v := uint32(int32(int8(c.GPR(rD(word)))))
	c.SetGPR(rA(word), v)
	if rc(word) {
		c.setCR0(int32(v))
	}
	return false
}

func execEXTSH(c *CPU, word uint32) bool {
	v := uint32(int32(int16(c.GPR(rD(word)))))
	c.SetGPR(rA(word), v)
	if rc(word) {
		c.setCR0(int32(v))
	}
	return false
}

func execCNTLZW(c *CPU, word uint32) bool {
	v := c.GPR(rD(word))
	n := uint32(0)
	for n < 32 && v&(0x80000000>>n) == 0 {
		n++
	}
	c.SetGPR(rA(word), n)
	if rc(word) {
		c.setCR0(int32(n))
	}
	return false
}

// execIllegalInstruction is the ILT catch-all: spec.md §4.B/§7 treat an
// unknown encoding as a NOP rather than a trap, logging it at WARN once per
// distinct word so the supervisor can inspect state without the core
// diverging from firmware on every unimplemented opcode.
func execIllegalInstruction(c *CPU, word uint32) bool {
	if c.log != nil && !c.loggedUnknown[word] {
		c.loggedUnknown[word] = true
		c.log.Warn("unknown opcode", "word", word, "pc", c.pc)
	}
	return false
}

// Program exception SRR1 status bits (a representative subset): bit 16
// (FP exception), bit 17 (illegal instruction), bit 18 (privileged
// instruction), bit 19 (trap).
const (
	programIllegal   uint32 = 1 << 17
	programPrivilege uint32 = 1 << 18
	programTrap      uint32 = 1 << 19
)
