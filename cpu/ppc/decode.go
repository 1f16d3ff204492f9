/*
ciscocore - PowerPC instruction decode table

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

import "github.com/rcornwell/ciscocore/ilt"

// Field extraction helpers for the standard PowerPC word layout (bit 0 is
// the MSB in IBM/PowerPC numbering; these use ordinary C-style shifts from
// bit 31 down to bit 0).
func rD(w uint32) uint8   { return uint8((w >> 21) & 0x1F) } // also crfD/bo
func rA(w uint32) uint8   { return uint8((w >> 16) & 0x1F) } // also bi
func rB(w uint32) uint8   { return uint8((w >> 11) & 0x1F) }
func rc(w uint32) bool    { return w&0x1 != 0 }
func oe(w uint32) bool    { return w&(1<<10) != 0 }
func simm(w uint32) int32 { return int32(int16(w & 0xFFFF)) }
func uimm(w uint32) uint32 { return w & 0xFFFF }

// spr decodes the split SPR field: the low 5 bits of the SPR number live in
// the rA position, the high 5 bits in the rB position.
func spr(w uint32) uint16 {
	low := uint16(rA(w)) & 0x1F
	high := uint16(rB(w)) & 0x1F
	return (high << 5) | low
}

// bd is the 14-bit signed branch displacement of a BC-form instruction,
// already shifted left 2.
func bd(w uint32) int32 {
	return int32(int16(w&0xFFFC)) // bits 15-2, sign-extended, low 2 bits zero
}

// li is the 24-bit signed displacement of a B-form (unconditional branch)
// instruction, already shifted left 2.
func li(w uint32) int32 {
	v := w & 0x03FFFFFC
	if v&0x02000000 != 0 {
		v |= 0xFC000000
	}
	return int32(v)
}

func aa(w uint32) bool { return w&0x2 != 0 }
func lk(w uint32) bool { return w&0x1 != 0 }

// crbA/crbB/crbD: bit numbers within the 32-bit CR for CR-logical ops.
func crbD(w uint32) uint8 { return rD(w) }
func crbA(w uint32) uint8 { return rA(w) }
func crbB(w uint32) uint8 { return rB(w) }

const (
	opShift = 26
	opMask  = uint32(0x3F) << opShift
)

func op(o uint32) uint32 { return o << opShift }

func primaryRow(opcode uint32, h Handler, name string) ilt.Row[Handler] {
	return ilt.Row[Handler]{Name: name, Mask: opMask, Match: op(opcode), Handler: h}
}

// x31Row builds a form-31/form-19 row keyed by the full 10-bit extended
// opcode (bits 10-1); Rc (bit 0) is left unconstrained so the same row
// matches both the recording and non-recording encodings, and the handler
// itself reads Rc.
func x31Row(opcode, xo uint32, h Handler, name string) ilt.Row[Handler] {
	mask := opMask | (0x3FF << 1)
	match := op(opcode) | (xo << 1)
	return ilt.Row[Handler]{Name: name, Mask: mask, Match: match, Handler: h}
}

// oeRow builds a form-31 arithmetic row keyed by the 9-bit extended opcode
// (bits 9-1), leaving both OE (bit 10) and Rc (bit 0) unconstrained since
// the handler reads both to decide overflow recording and CR0 writeback.
func oeRow(opcode, xo uint32, h Handler, name string) ilt.Row[Handler] {
	mask := opMask | (0x1FF << 1)
	match := op(opcode) | (xo << 1)
	return ilt.Row[Handler]{Name: name, Mask: mask, Match: match, Handler: h}
}

// buildDecodeTable assembles the representative PowerPC-32 instruction set
// spec.md §4.E names into an ilt.Table, grounded on the function catalog of
// original_source/ppc32_exec.rs (ppc32_exec_ADD*, _B*, _CMP*, _L*, _MTSPR,
// _RFI, etc.) and spec.md §4.B's mask/prefix bucketing, mirroring
// cpu/mips/decode.go's one-flat-table idiom.
func buildDecodeTable() *ilt.Table[Handler] {
	rows := []ilt.Row[Handler]{
		// ALU immediate.
		primaryRow(0x0E, execADDI, "ADDI"),
		primaryRow(0x0C, execADDIC, "ADDIC"),
		primaryRow(0x0D, execADDICDot, "ADDIC."),
		primaryRow(0x0F, execADDIS, "ADDIS"),
		primaryRow(0x1C, execANDIDot, "ANDI."),
		primaryRow(0x1D, execANDISDot, "ANDIS."),
		primaryRow(0x18, execORI, "ORI"),
		primaryRow(0x19, execORIS, "ORIS"),
		primaryRow(0x1A, execXORI, "XORI"),
		primaryRow(0x1B, execXORIS, "XORIS"),
		primaryRow(0x07, execMULLI, "MULLI"),

		// Form-31 OE-class arithmetic (Rc/OE read by the handler).
		oeRow(31, 266, execADD, "ADD"),
		oeRow(31, 10, execADDC, "ADDC"),
		oeRow(31, 138, execADDE, "ADDE"),
		oeRow(31, 234, execADDME, "ADDME"),
		oeRow(31, 202, execADDZE, "ADDZE"),
		oeRow(31, 40, execSUBF, "SUBF"),
		oeRow(31, 8, execSUBFC, "SUBFC"),
		oeRow(31, 136, execSUBFE, "SUBFE"),
		oeRow(31, 232, execSUBFME, "SUBFME"),
		oeRow(31, 200, execSUBFZE, "SUBFZE"),
		oeRow(31, 104, execNEG, "NEG"),
		oeRow(31, 491, execDIVW, "DIVW"),
		oeRow(31, 459, execDIVWU, "DIVWU"),
		oeRow(31, 235, execMULLW, "MULLW"),
		x31Row(31, 75, execMULHW, "MULHW"),
		x31Row(31, 11, execMULHWU, "MULHWU"),

		// Form-31 logical.
		x31Row(31, 28, execAND, "AND"),
		x31Row(31, 60, execANDC, "ANDC"),
		x31Row(31, 444, execOR, "OR"),
		x31Row(31, 412, execORC, "ORC"),
		x31Row(31, 316, execXOR, "XOR"),
		x31Row(31, 124, execNOR, "NOR"),
		x31Row(31, 284, execEQV, "EQV"),
		x31Row(31, 954, execEXTSB, "EXTSB"),
		x31Row(31, 922, execEXTSH, "EXTSH"),
		x31Row(31, 26, execCNTLZW, "CNTLZW"),

		// Shifts.
		x31Row(31, 24, execSLW, "SLW"),
		x31Row(31, 536, execSRW, "SRW"),
		x31Row(31, 792, execSRAW, "SRAW"),
		x31Row(31, 824, execSRAWI, "SRAWI"),

		// Compares.
		x31Row(31, 0, execCMP, "CMP"),
		x31Row(31, 32, execCMPL, "CMPL"),
		primaryRow(0x0B, execCMPI, "CMPI"),
		primaryRow(0x0A, execCMPLI, "CMPLI"),

		// Branches.
		primaryRow(0x12, execB, "B"),
		primaryRow(0x10, execBC, "BC"),
		x31Row(19, 16, execBCLR, "BCLR"),
		x31Row(19, 528, execBCCTR, "BCCTR"),

		// CR logical (form 19).
		x31Row(19, 257, execCRAND, "CRAND"),
		x31Row(19, 129, execCRANDC, "CRANDC"),
		x31Row(19, 449, execCROR, "CROR"),
		x31Row(19, 193, execCRXOR, "CRXOR"),
		x31Row(19, 225, execCRNAND, "CRNAND"),
		x31Row(19, 33, execCRNOR, "CRNOR"),
		x31Row(19, 417, execCRORC, "CRORC"),
		x31Row(19, 289, execCREQV, "CREQV"),
		{Name: "RFI", Mask: opMask | (0x3FF << 1), Match: op(19) | (50 << 1), Handler: execRFI},
		{Name: "ISYNC", Mask: opMask | (0x3FF << 1), Match: op(19) | (150 << 1), Handler: execISYNC},

		// Loads/stores.
		primaryRow(0x22, execLBZ, "LBZ"),
		primaryRow(0x23, execLBZU, "LBZU"),
		primaryRow(0x28, execLHZ, "LHZ"),
		primaryRow(0x29, execLHZU, "LHZU"),
		primaryRow(0x2A, execLHA, "LHA"),
		primaryRow(0x2B, execLHAU, "LHAU"),
		primaryRow(0x20, execLWZ, "LWZ"),
		primaryRow(0x21, execLWZU, "LWZU"),
		primaryRow(0x26, execSTB, "STB"),
		primaryRow(0x27, execSTBU, "STBU"),
		primaryRow(0x2C, execSTH, "STH"),
		primaryRow(0x2D, execSTHU, "STHU"),
		primaryRow(0x24, execSTW, "STW"),
		primaryRow(0x25, execSTWU, "STWU"),
		x31Row(31, 20, execLWARX, "LWARX"),
		x31Row(31, 150, execSTWCXDot, "STWCX."),

		// SPR/segment moves.
		x31Row(31, 467, execMTSPR, "MTSPR"),
		x31Row(31, 339, execMFSPR, "MFSPR"),
		x31Row(31, 210, execMTSR, "MTSR"),
		x31Row(31, 242, execMTSRIN, "MTSRIN"),
		x31Row(31, 595, execMFSR, "MFSR"),
		x31Row(31, 659, execMFSRIN, "MFSRIN"),
		x31Row(31, 144, execMTCRF, "MTCRF"),
		x31Row(31, 19, execMFCR, "MFCR"),

		// Cache-control no-ops: these are hints on real hardware and a
		// faithful interpreter can treat them as NOPs, per
		// original_source/ppc32_exec.rs's dcbf/dcbi/dcbt/dcbst/icbi.
		x31Row(31, 86, execCacheNoOp, "DCBF"),
		x31Row(31, 470, execCacheNoOp, "DCBI"),
		x31Row(31, 278, execCacheNoOp, "DCBT"),
		x31Row(31, 54, execCacheNoOp, "DCBST"),
		x31Row(31, 982, execCacheNoOp, "ICBI"),
		x31Row(31, 854, execCacheNoOp, "EIEIO"),
		x31Row(31, 598, execCacheNoOp, "SYNC"),

		// Traps.
		primaryRow(0x11, execSC, "SC"),
		x31Row(31, 4, execTW, "TW"),
	}
	return ilt.Build(rows, execIllegalInstruction)
}
