/*
ciscocore - PowerPC load/store instructions

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

import (
	"errors"

	"github.com/rcornwell/ciscocore/mts"
)

// DSISR-style status bits recorded alongside a DataStorage exception.
const (
	dsisrNotPresent = 1 << 31 // no translation found (BAT miss, invalid PTE)
	dsisrProtection = 1 << 27 // translation found but write not permitted
)

// translateData resolves a data-path effective address through the MTS,
// raising DataStorage with the appropriate DSISR bit on a fault.
func (c *CPU) translateData(vaddr uint32, write bool) (mts.Entry, bool) {
	entry, err := c.mtsCache.Translate(uint64(vaddr), write, false, c)
	if err != nil {
		c.mtsMisses++
		status := uint32(dsisrNotPresent)
		if errors.Is(err, mts.ErrReadOnly) {
			status = dsisrProtection
		}
		c.RaiseDataStorage(vaddr, status)
		return mts.Entry{}, false
	}
	c.mtsHits++
	return entry, true
}

func (c *CPU) hostAddr(e mts.Entry, vaddr uint32) uint64 {
	pageMask := uint64(1)<<c.cfg.ExecPageBits - 1
	return e.Host | (uint64(vaddr) & pageMask)
}

func execLBZ(c *CPU, word uint32) bool {
	vaddr := c.GPR(rA(word)) + uint32(simm(word))
	if rA(word) == 0 {
		vaddr = uint32(simm(word))
	}
	e, ok := c.translateData(vaddr, false)
	if !ok {
		return true
	}
	v, rerr := c.mem.Read8(c.hostAddr(e, vaddr))
	if rerr {
		c.RaiseDataStorage(vaddr, dsisrNotPresent)
		return true
	}
	c.SetGPR(rD(word), uint32(v))
	return false
}

func execLBZU(c *CPU, word uint32) bool {
	vaddr := c.GPR(rA(word)) + uint32(simm(word))
	e, ok := c.translateData(vaddr, false)
	if !ok {
		return true
	}
	v, rerr := c.mem.Read8(c.hostAddr(e, vaddr))
	if rerr {
		c.RaiseDataStorage(vaddr, dsisrNotPresent)
		return true
	}
	c.SetGPR(rD(word), uint32(v))
	c.SetGPR(rA(word), vaddr)
	return false
}

func execLHZ(c *CPU, word uint32) bool {
	vaddr := c.GPR(rA(word)) + uint32(simm(word))
	if rA(word) == 0 {
		vaddr = uint32(simm(word))
	}
	e, ok := c.translateData(vaddr, false)
	if !ok {
		return true
	}
	v, rerr := c.mem.Read16(c.hostAddr(e, vaddr))
	if rerr {
		c.RaiseDataStorage(vaddr, dsisrNotPresent)
		return true
	}
	c.SetGPR(rD(word), uint32(v))
	return false
}

func execLHZU(c *CPU, word uint32) bool {
	vaddr := c.GPR(rA(word)) + uint32(simm(word))
	e, ok := c.translateData(vaddr, false)
	if !ok {
		return true
	}
	v, rerr := c.mem.Read16(c.hostAddr(e, vaddr))
	if rerr {
		c.RaiseDataStorage(vaddr, dsisrNotPresent)
		return true
	}
	c.SetGPR(rD(word), uint32(v))
	c.SetGPR(rA(word), vaddr)
	return false
}

func execLHA(c *CPU, word uint32) bool {
	vaddr := c.GPR(rA(word)) + uint32(simm(word))
	if rA(word) == 0 {
		vaddr = uint32(simm(word))
	}
	e, ok := c.translateData(vaddr, false)
	if !ok {
		return true
	}
	v, rerr := c.mem.Read16(c.hostAddr(e, vaddr))
	if rerr {
		c.RaiseDataStorage(vaddr, dsisrNotPresent)
		return true
	}
	c.SetGPR(rD(word), uint32(int32(int16(v))))
	return false
}

func execLHAU(c *CPU, word uint32) bool {
	vaddr := c.GPR(rA(word)) + uint32(simm(word))
	e, ok := c.translateData(vaddr, false)
	if !ok {
		return true
	}
	v, rerr := c.mem.Read16(c.hostAddr(e, vaddr))
	if rerr {
		c.RaiseDataStorage(vaddr, dsisrNotPresent)
		return true
	}
	c.SetGPR(rD(word), uint32(int32(int16(v))))
	c.SetGPR(rA(word), vaddr)
	return false
}

func execLWZ(c *CPU, word uint32) bool {
	vaddr := c.GPR(rA(word)) + uint32(simm(word))
	if rA(word) == 0 {
		vaddr = uint32(simm(word))
	}
	e, ok := c.translateData(vaddr, false)
	if !ok {
		return true
	}
	v, rerr := c.mem.Read32(c.hostAddr(e, vaddr))
	if rerr {
		c.RaiseDataStorage(vaddr, dsisrNotPresent)
		return true
	}
	c.SetGPR(rD(word), v)
	return false
}

func execLWZU(c *CPU, word uint32) bool {
	vaddr := c.GPR(rA(word)) + uint32(simm(word))
	e, ok := c.translateData(vaddr, false)
	if !ok {
		return true
	}
	v, rerr := c.mem.Read32(c.hostAddr(e, vaddr))
	if rerr {
		c.RaiseDataStorage(vaddr, dsisrNotPresent)
		return true
	}
	c.SetGPR(rD(word), v)
	c.SetGPR(rA(word), vaddr)
	return false
}

func execSTB(c *CPU, word uint32) bool {
	vaddr := c.GPR(rA(word)) + uint32(simm(word))
	if rA(word) == 0 {
		vaddr = uint32(simm(word))
	}
	e, ok := c.translateData(vaddr, true)
	if !ok {
		return true
	}
	if c.mem.Write8(c.hostAddr(e, vaddr), uint8(c.GPR(rD(word)))) {
		c.RaiseDataStorage(vaddr, dsisrNotPresent)
		return true
	}
	return false
}

func execSTBU(c *CPU, word uint32) bool {
	vaddr := c.GPR(rA(word)) + uint32(simm(word))
	e, ok := c.translateData(vaddr, true)
	if !ok {
		return true
	}
	if c.mem.Write8(c.hostAddr(e, vaddr), uint8(c.GPR(rD(word)))) {
		c.RaiseDataStorage(vaddr, dsisrNotPresent)
		return true
	}
	c.SetGPR(rA(word), vaddr)
	return false
}

func execSTH(c *CPU, word uint32) bool {
	vaddr := c.GPR(rA(word)) + uint32(simm(word))
	if rA(word) == 0 {
		vaddr = uint32(simm(word))
	}
	e, ok := c.translateData(vaddr, true)
	if !ok {
		return true
	}
	if c.mem.Write16(c.hostAddr(e, vaddr), uint16(c.GPR(rD(word)))) {
		c.RaiseDataStorage(vaddr, dsisrNotPresent)
		return true
	}
	return false
}

func execSTHU(c *CPU, word uint32) bool {
	vaddr := c.GPR(rA(word)) + uint32(simm(word))
	e, ok := c.translateData(vaddr, true)
	if !ok {
		return true
	}
	if c.mem.Write16(c.hostAddr(e, vaddr), uint16(c.GPR(rD(word)))) {
		c.RaiseDataStorage(vaddr, dsisrNotPresent)
		return true
	}
	c.SetGPR(rA(word), vaddr)
	return false
}

func execSTW(c *CPU, word uint32) bool {
	vaddr := c.GPR(rA(word)) + uint32(simm(word))
	if rA(word) == 0 {
		vaddr = uint32(simm(word))
	}
	e, ok := c.translateData(vaddr, true)
	if !ok {
		return true
	}
	if c.mem.Write32(c.hostAddr(e, vaddr), c.GPR(rD(word))) {
		c.RaiseDataStorage(vaddr, dsisrNotPresent)
		return true
	}
	c.invalidateReservation(vaddr)
	return false
}

func execSTWU(c *CPU, word uint32) bool {
	vaddr := c.GPR(rA(word)) + uint32(simm(word))
	e, ok := c.translateData(vaddr, true)
	if !ok {
		return true
	}
	if c.mem.Write32(c.hostAddr(e, vaddr), c.GPR(rD(word))) {
		c.RaiseDataStorage(vaddr, dsisrNotPresent)
		return true
	}
	c.invalidateReservation(vaddr)
	c.SetGPR(rA(word), vaddr)
	return false
}

// LWARX/STWCX. implement the single-reservation atomic pair, mirroring
// cpu/mips's LL/SC idiom (spec.md §8).
func execLWARX(c *CPU, word uint32) bool {
	vaddr := c.GPR(rA(word)) + c.GPR(rB(word))
	if rA(word) == 0 {
		vaddr = c.GPR(rB(word))
	}
	if vaddr&3 != 0 {
		c.Raise(Alignment, 0)
		return true
	}
	e, ok := c.translateData(vaddr, false)
	if !ok {
		return true
	}
	v, rerr := c.mem.Read32(c.hostAddr(e, vaddr))
	if rerr {
		c.RaiseDataStorage(vaddr, dsisrNotPresent)
		return true
	}
	c.SetGPR(rD(word), v)
	c.reservationValid = true
	c.reservationAddr = vaddr
	return false
}

func execSTWCXDot(c *CPU, word uint32) bool {
	vaddr := c.GPR(rA(word)) + c.GPR(rB(word))
	if rA(word) == 0 {
		vaddr = c.GPR(rB(word))
	}
	if vaddr&3 != 0 {
		c.Raise(Alignment, 0)
		return true
	}
	if !c.reservationValid || c.reservationAddr != vaddr {
		c.SetCRField(0, boolToEQ(false)|c.soBit())
		return false
	}
	e, ok := c.translateData(vaddr, true)
	if !ok {
		return true
	}
	if c.mem.Write32(c.hostAddr(e, vaddr), c.GPR(rD(word))) {
		c.RaiseDataStorage(vaddr, dsisrNotPresent)
		return true
	}
	c.reservationValid = false
	c.SetCRField(0, boolToEQ(true)|c.soBit())
	return false
}

func boolToEQ(v bool) uint8 {
	if v {
		return crEQ
	}
	return 0
}

func (c *CPU) soBit() uint8 {
	if c.xerSO() {
		return crSO
	}
	return 0
}

// invalidateReservation breaks any outstanding LWARX reservation aliasing
// addr, per the architectural rule that any store to the reserved block
// clears it.
func (c *CPU) invalidateReservation(addr uint32) {
	if c.reservationValid && c.reservationAddr&^3 == addr&^3 {
		c.reservationValid = false
	}
}
