/*
ciscocore - MIPS instruction decode table

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

import "github.com/rcornwell/ciscocore/ilt"

// Field extraction helpers for the standard MIPS word layout.
func rs(w uint32) uint8     { return uint8((w >> 21) & 0x1F) }
func rt(w uint32) uint8     { return uint8((w >> 16) & 0x1F) }
func rd(w uint32) uint8     { return uint8((w >> 11) & 0x1F) }
func sa(w uint32) uint8     { return uint8((w >> 6) & 0x1F) }
func fn(w uint32) uint32    { return w & 0x3F }
func imm16(w uint32) uint16 { return uint16(w & 0xFFFF) }
func simm16(w uint32) int64 { return int64(int16(w & 0xFFFF)) }
func target(w uint32) uint32 { return w & 0x3FFFFFF }

// opcode/func field masks used to build ILT rows: SPECIAL (opcode 0) is
// decoded further on the low-order func field, everything else on the
// high-order 6-bit opcode.
const (
	opShift = 26
	opMask  = uint32(0x3F) << opShift
)

func op(code uint32) uint32 { return code << opShift }

// special builds a SPECIAL (opcode 0) row's func-field mask and match;
// specialRow adds the opcode field, so the row constrains neither 16-bit
// half fully and lands in the ILT's wild list.
func special(fn uint32) (mask, match uint32) {
	return 0x3F, fn
}

func opcodeRow(opcode uint32, h Handler, name string) ilt.Row[Handler] {
	return ilt.Row[Handler]{Name: name, Mask: opMask, Match: op(opcode), Handler: h}
}

func specialRow(fn uint32, h Handler, name string) ilt.Row[Handler] {
	mask, match := special(fn)
	return ilt.Row[Handler]{Name: name, Mask: opMask | mask, Match: op(0) | match, Handler: h}
}

// buildDecodeTable assembles the representative MIPS64 instruction set
// spec.md §4.E names into an ilt.Table, grounded on the teacher's
// emu/cpu opcode-dispatch idiom (one flat table, built once at CPU
// construction) and spec.md §4.B's mask/prefix bucketing.
func buildDecodeTable() *ilt.Table[Handler] {
	rows := []ilt.Row[Handler]{
		// ALU immediate / register.
		opcodeRow(0x09, execADDIU, "ADDIU"),
		opcodeRow(0x08, execADDI, "ADDI"),
		opcodeRow(0x0C, execANDI, "ANDI"),
		opcodeRow(0x0D, execORI, "ORI"),
		opcodeRow(0x0E, execXORI, "XORI"),
		opcodeRow(0x0F, execLUI, "LUI"),

		specialRow(0x20, execADD, "ADD"),
		specialRow(0x21, execADDU, "ADDU"),
		specialRow(0x22, execSUB, "SUB"),
		specialRow(0x23, execSUBU, "SUBU"),
		specialRow(0x24, execAND, "AND"),
		specialRow(0x25, execOR, "OR"),
		specialRow(0x26, execXOR, "XOR"),
		specialRow(0x27, execNOR, "NOR"),
		specialRow(0x2A, execSLT, "SLT"),
		specialRow(0x2B, execSLTU, "SLTU"),
		specialRow(0x0A, execMOVZ, "MOVZ"),

		// Shifts.
		specialRow(0x00, execSLL, "SLL"),
		specialRow(0x02, execSRL, "SRL"),
		specialRow(0x03, execSRA, "SRA"),
		specialRow(0x04, execSLLV, "SLLV"),
		specialRow(0x06, execSRLV, "SRLV"),
		specialRow(0x07, execSRAV, "SRAV"),
		specialRow(0x38, execDSLL, "DSLL"),
		specialRow(0x3A, execDSRL, "DSRL"),
		specialRow(0x3B, execDSRA, "DSRA"),
		specialRow(0x3F, execDSRA32, "DSRA32"),

		// Multiply/divide.
		specialRow(0x18, execMULT, "MULT"),
		specialRow(0x19, execMULTU, "MULTU"),
		specialRow(0x1A, execDIV, "DIV"),
		specialRow(0x1B, execDIVU, "DIVU"),
		specialRow(0x10, execMFHI, "MFHI"),
		specialRow(0x12, execMFLO, "MFLO"),

		// Branches and jumps.
		opcodeRow(0x04, execBEQ, "BEQ"),
		opcodeRow(0x05, execBNE, "BNE"),
		opcodeRow(0x14, execBEQL, "BEQL"),
		opcodeRow(0x15, execBNEL, "BNEL"),
		opcodeRow(0x02, execJ, "J"),
		opcodeRow(0x03, execJAL, "JAL"),
		specialRow(0x08, execJR, "JR"),
		specialRow(0x09, execJALR, "JALR"),

		// Loads/stores.
		opcodeRow(0x20, execLB, "LB"),
		opcodeRow(0x24, execLBU, "LBU"),
		opcodeRow(0x21, execLH, "LH"),
		opcodeRow(0x25, execLHU, "LHU"),
		opcodeRow(0x23, execLW, "LW"),
		opcodeRow(0x27, execLWU, "LWU"),
		opcodeRow(0x37, execLD, "LD"),
		opcodeRow(0x28, execSB, "SB"),
		opcodeRow(0x29, execSH, "SH"),
		opcodeRow(0x2B, execSW, "SW"),
		opcodeRow(0x3F, execSD, "SD"),
		opcodeRow(0x22, execLWL, "LWL"),
		opcodeRow(0x26, execLWR, "LWR"),
		opcodeRow(0x30, execLL, "LL"),
		opcodeRow(0x38, execSC, "SC"),

		// COP0 / TLB ops / traps live under opcode 0x10 (COP0), further
		// decoded on the rs field (MF/MT/CO-class sub-opcodes); since rs
		// sits in the middle of the word (bits 21-25) rather than a full
		// 16-bit half, these fall into the ILT's wild bucket.
		{Name: "COP0", Mask: opMask, Match: op(0x10), Handler: execCOP0},

		specialRow(0x0D, execBREAK, "BREAK"),
		specialRow(0x0C, execSYSCALL, "SYSCALL"),
		specialRow(0x34, execTEQ, "TEQ"),
		specialRow(0x36, execTNE, "TNE"),
	}
	return ilt.Build(rows, execReservedInstruction)
}
