/*
ciscocore - PowerPC special-purpose register and segment-register moves

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

// SPR numbers this core models. spec.md §4.D: "MTSPR/MFSPR route a 10-bit
// encoded SPR number to typed fields; BAT SPRs go through the BAT setter
// that invalidates MTS."
const (
	sprXER  = 1
	sprLR   = 8
	sprCTR  = 9
	sprDSISR = 18
	sprDAR  = 19
	sprDEC  = 22
	sprSDR1 = 25
	sprSRR0 = 26
	sprSRR1 = 27
	sprSPRG0 = 272
	sprSPRG1 = 273
	sprSPRG2 = 274
	sprSPRG3 = 275
	sprIBAT0U = 528
	sprIBAT0L = 529
	sprIBAT1U = 530
	sprIBAT1L = 531
	sprIBAT2U = 532
	sprIBAT2L = 533
	sprIBAT3U = 534
	sprIBAT3L = 535
	sprDBAT0U = 536
	sprDBAT0L = 537
	sprDBAT1U = 538
	sprDBAT1L = 539
	sprDBAT2U = 540
	sprDBAT2L = 541
	sprDBAT3U = 542
	sprDBAT3L = 543
	sprHID0  = 1008
	sprHID1  = 1009
	sprPVR   = 287
)

// setBAT writes one half of a BAT register pair and invalidates the MTS,
// since BAT state feeds Resolve (data and instruction translation) directly.
func (c *CPU) setBAT(table *[4]BatEntry, index int, upper bool, v uint32) {
	if upper {
		table[index].Upper = v
	} else {
		table[index].Lower = v
	}
	c.mtsCache.InvalidateAll()
}

func execMTSPR(c *CPU, word uint32) bool {
	n := spr(word)
	v := c.GPR(rD(word))
	switch n {
	case sprXER:
		c.xer = v
	case sprLR:
		c.lr = v
	case sprCTR:
		c.ctr = v
	case sprDAR:
		c.dar = v
	case sprDEC:
		c.dec = v
	case sprSDR1:
		c.sdr1 = v
		c.mtsCache.InvalidateAll()
	case sprSRR0:
		c.srr0 = v
	case sprSRR1:
		c.srr1 = v
	case sprSPRG0:
		c.sprg[0] = v
	case sprSPRG1:
		c.sprg[1] = v
	case sprSPRG2:
		c.sprg[2] = v
	case sprSPRG3:
		c.sprg[3] = v
	case sprIBAT0U:
		c.setBAT(&c.ibat, 0, true, v)
	case sprIBAT0L:
		c.setBAT(&c.ibat, 0, false, v)
	case sprIBAT1U:
		c.setBAT(&c.ibat, 1, true, v)
	case sprIBAT1L:
		c.setBAT(&c.ibat, 1, false, v)
	case sprIBAT2U:
		c.setBAT(&c.ibat, 2, true, v)
	case sprIBAT2L:
		c.setBAT(&c.ibat, 2, false, v)
	case sprIBAT3U:
		c.setBAT(&c.ibat, 3, true, v)
	case sprIBAT3L:
		c.setBAT(&c.ibat, 3, false, v)
	case sprDBAT0U:
		c.setBAT(&c.dbat, 0, true, v)
	case sprDBAT0L:
		c.setBAT(&c.dbat, 0, false, v)
	case sprDBAT1U:
		c.setBAT(&c.dbat, 1, true, v)
	case sprDBAT1L:
		c.setBAT(&c.dbat, 1, false, v)
	case sprDBAT2U:
		c.setBAT(&c.dbat, 2, true, v)
	case sprDBAT2L:
		c.setBAT(&c.dbat, 2, false, v)
	case sprDBAT3U:
		c.setBAT(&c.dbat, 3, true, v)
	case sprDBAT3L:
		c.setBAT(&c.dbat, 3, false, v)
	case sprHID0:
		c.hid0 = v
	case sprHID1:
		c.hid1 = v
	default:
		// Unimplemented SPR: silently discarded rather than trapped, since
		// this core does not model the full SPR space (spec.md's
		// device-register non-goal).
	}
	return false
}

func execMFSPR(c *CPU, word uint32) bool {
	n := spr(word)
	var v uint32
	switch n {
	case sprXER:
		v = c.xer
	case sprLR:
		v = c.lr
	case sprCTR:
		v = c.ctr
	case sprDSISR:
		v = 0
	case sprDAR:
		v = c.dar
	case sprDEC:
		v = c.dec
	case sprSDR1:
		v = c.sdr1
	case sprSRR0:
		v = c.srr0
	case sprSRR1:
		v = c.srr1
	case sprSPRG0:
		v = c.sprg[0]
	case sprSPRG1:
		v = c.sprg[1]
	case sprSPRG2:
		v = c.sprg[2]
	case sprSPRG3:
		v = c.sprg[3]
	case sprIBAT0U:
		v = c.ibat[0].Upper
	case sprIBAT0L:
		v = c.ibat[0].Lower
	case sprIBAT1U:
		v = c.ibat[1].Upper
	case sprIBAT1L:
		v = c.ibat[1].Lower
	case sprIBAT2U:
		v = c.ibat[2].Upper
	case sprIBAT2L:
		v = c.ibat[2].Lower
	case sprIBAT3U:
		v = c.ibat[3].Upper
	case sprIBAT3L:
		v = c.ibat[3].Lower
	case sprDBAT0U:
		v = c.dbat[0].Upper
	case sprDBAT0L:
		v = c.dbat[0].Lower
	case sprDBAT1U:
		v = c.dbat[1].Upper
	case sprDBAT1L:
		v = c.dbat[1].Lower
	case sprDBAT2U:
		v = c.dbat[2].Upper
	case sprDBAT2L:
		v = c.dbat[2].Lower
	case sprDBAT3U:
		v = c.dbat[3].Upper
	case sprDBAT3L:
		v = c.dbat[3].Lower
	case sprHID0:
		v = c.hid0
	case sprHID1:
		v = c.hid1
	case sprPVR:
		v = c.pvr
	default:
		v = 0
	}
	c.SetGPR(rD(word), v)
	return false
}

// MTSR/MTSRIN/MFSR/MFSRIN address the 16 segment registers, either by a
// literal 4-bit field in the instruction or by the top 4 bits of rB.
// Segment-register writes invalidate MTS, per spec.md §4.D.
func execMTSR(c *CPU, word uint32) bool {
	sr := rA(word) & 0xF
	c.sr[sr] = c.GPR(rD(word))
	c.mtsCache.InvalidateAll()
	return false
}

func execMTSRIN(c *CPU, word uint32) bool {
	sr := uint8(c.GPR(rB(word))>>28) & 0xF
	c.sr[sr] = c.GPR(rD(word))
	c.mtsCache.InvalidateAll()
	return false
}

func execMFSR(c *CPU, word uint32) bool {
	sr := rA(word) & 0xF
	c.SetGPR(rD(word), c.sr[sr])
	return false
}

func execMFSRIN(c *CPU, word uint32) bool {
	sr := uint8(c.GPR(rB(word))>>28) & 0xF
	c.SetGPR(rD(word), c.sr[sr])
	return false
}

// MTCRF/MFCR move the whole condition register, field-masked in MTCRF's
// case by an 8-bit field mask occupying the instruction's crm position.
func execMTCRF(c *CPU, word uint32) bool {
	crm := (word >> 12) & 0xFF
	v := c.GPR(rD(word))
	var mask uint32
	for i := 0; i < 8; i++ {
		if crm&(1<<uint(7-i)) != 0 {
			mask |= 0xF << uint((7-i)*4)
		}
	}
	c.cr = (c.cr &^ mask) | (v & mask)
	return false
}

func execMFCR(c *CPU, word uint32) bool {
	c.SetGPR(rD(word), c.cr)
	return false
}
