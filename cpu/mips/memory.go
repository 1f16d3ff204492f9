/*
ciscocore - MIPS load/store instructions

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

import (
	"errors"

	"github.com/rcornwell/ciscocore/mts"
)

// translateData resolves a data-path vaddr through the MTS, raising the
// matching exception (TLBModified on a read-only write, TLBMiss otherwise)
// on a fault.
func (c *CPU) translateData(vaddr uint64, write bool) (mts.Entry, bool) {
	entry, err := c.mtsCache.Translate(vaddr, write, false, c)
	if err != nil {
		c.mtsMisses++
		exc := TLBMiss
		if errors.Is(err, mts.ErrReadOnly) {
			exc = TLBModified
		}
		c.Raise(exc, vaddr, c.inDelaySlot)
		return mts.Entry{}, false
	}
	c.mtsHits++
	return entry, true
}

func (c *CPU) hostAddr(e mts.Entry, vaddr uint64) uint64 {
	pageMask := uint64(1)<<c.cfg.ExecPageBits - 1
	return e.Host | (vaddr & pageMask)
}

func execLB(c *CPU, word uint32) bool {
	vaddr := c.GPR(rs(word)) + uint64(simm16(word))
	e, ok := c.translateData(vaddr, false)
	if !ok {
		return true
	}
	v, rerr := c.mem.Read8(c.hostAddr(e, vaddr))
	if rerr {
		c.Raise(BusError, vaddr, c.inDelaySlot)
		return true
	}
	c.SetGPR(rt(word), uint64(int64(int8(v))))
	return false
}

func execLBU(c *CPU, word uint32) bool {
	vaddr := c.GPR(rs(word)) + uint64(simm16(word))
	e, ok := c.translateData(vaddr, false)
	if !ok {
		return true
	}
	v, rerr := c.mem.Read8(c.hostAddr(e, vaddr))
	if rerr {
		c.Raise(BusError, vaddr, c.inDelaySlot)
		return true
	}
	c.SetGPR(rt(word), uint64(v))
	return false
}

func execLH(c *CPU, word uint32) bool {
	vaddr := c.GPR(rs(word)) + uint64(simm16(word))
	if vaddr&1 != 0 {
		c.Raise(AddressError, vaddr, c.inDelaySlot)
		return true
	}
	e, ok := c.translateData(vaddr, false)
	if !ok {
		return true
	}
	v, rerr := c.mem.Read16(c.hostAddr(e, vaddr))
	if rerr {
		c.Raise(BusError, vaddr, c.inDelaySlot)
		return true
	}
	c.SetGPR(rt(word), uint64(int64(int16(v))))
	return false
}

func execLHU(c *CPU, word uint32) bool {
	vaddr := c.GPR(rs(word)) + uint64(simm16(word))
	if vaddr&1 != 0 {
		c.Raise(AddressError, vaddr, c.inDelaySlot)
		return true
	}
	e, ok := c.translateData(vaddr, false)
	if !ok {
		return true
	}
	v, rerr := c.mem.Read16(c.hostAddr(e, vaddr))
	if rerr {
		c.Raise(BusError, vaddr, c.inDelaySlot)
		return true
	}
	c.SetGPR(rt(word), uint64(v))
	return false
}

func execLW(c *CPU, word uint32) bool {
	vaddr := c.GPR(rs(word)) + uint64(simm16(word))
	if vaddr&3 != 0 {
		c.Raise(AddressError, vaddr, c.inDelaySlot)
		return true
	}
	e, ok := c.translateData(vaddr, false)
	if !ok {
		return true
	}
	v, rerr := c.mem.Read32(c.hostAddr(e, vaddr))
	if rerr {
		c.Raise(BusError, vaddr, c.inDelaySlot)
		return true
	}
	c.SetGPR(rt(word), uint64(int64(int32(v))))
	return false
}

func execLWU(c *CPU, word uint32) bool {
	vaddr := c.GPR(rs(word)) + uint64(simm16(word))
	if vaddr&3 != 0 {
		c.Raise(AddressError, vaddr, c.inDelaySlot)
		return true
	}
	e, ok := c.translateData(vaddr, false)
	if !ok {
		return true
	}
	v, rerr := c.mem.Read32(c.hostAddr(e, vaddr))
	if rerr {
		c.Raise(BusError, vaddr, c.inDelaySlot)
		return true
	}
	c.SetGPR(rt(word), uint64(v))
	return false
}

func execLD(c *CPU, word uint32) bool {
	vaddr := c.GPR(rs(word)) + uint64(simm16(word))
	if vaddr&7 != 0 {
		c.Raise(AddressError, vaddr, c.inDelaySlot)
		return true
	}
	e, ok := c.translateData(vaddr, false)
	if !ok {
		return true
	}
	v, rerr := c.mem.Read64(c.hostAddr(e, vaddr))
	if rerr {
		c.Raise(BusError, vaddr, c.inDelaySlot)
		return true
	}
	c.SetGPR(rt(word), v)
	return false
}

func execSB(c *CPU, word uint32) bool {
	vaddr := c.GPR(rs(word)) + uint64(simm16(word))
	e, ok := c.translateData(vaddr, true)
	if !ok {
		return true
	}
	if c.mem.Write8(c.hostAddr(e, vaddr), uint8(c.GPR(rt(word)))) {
		c.Raise(BusError, vaddr, c.inDelaySlot)
		return true
	}
	return false
}

func execSH(c *CPU, word uint32) bool {
	vaddr := c.GPR(rs(word)) + uint64(simm16(word))
	if vaddr&1 != 0 {
		c.Raise(AddressError, vaddr, c.inDelaySlot)
		return true
	}
	e, ok := c.translateData(vaddr, true)
	if !ok {
		return true
	}
	if c.mem.Write16(c.hostAddr(e, vaddr), uint16(c.GPR(rt(word)))) {
		c.Raise(BusError, vaddr, c.inDelaySlot)
		return true
	}
	return false
}

func execSW(c *CPU, word uint32) bool {
	vaddr := c.GPR(rs(word)) + uint64(simm16(word))
	if vaddr&3 != 0 {
		c.Raise(AddressError, vaddr, c.inDelaySlot)
		return true
	}
	e, ok := c.translateData(vaddr, true)
	if !ok {
		return true
	}
	if c.mem.Write32(c.hostAddr(e, vaddr), uint32(c.GPR(rt(word)))) {
		c.Raise(BusError, vaddr, c.inDelaySlot)
		return true
	}
	c.invalidateReservation(vaddr)
	return false
}

func execSD(c *CPU, word uint32) bool {
	vaddr := c.GPR(rs(word)) + uint64(simm16(word))
	if vaddr&7 != 0 {
		c.Raise(AddressError, vaddr, c.inDelaySlot)
		return true
	}
	e, ok := c.translateData(vaddr, true)
	if !ok {
		return true
	}
	if c.mem.Write64(c.hostAddr(e, vaddr), c.GPR(rt(word))) {
		c.Raise(BusError, vaddr, c.inDelaySlot)
		return true
	}
	c.invalidateReservation(vaddr)
	return false
}

// LWL/LWR implement the classic unaligned-word family: each merges 1-4
// bytes from the aligned word containing vaddr into rt, the rest of rt
// left untouched, per spec.md §8's LWL+LWR scenario.
func execLWL(c *CPU, word uint32) bool {
	vaddr := c.GPR(rs(word)) + uint64(simm16(word))
	aligned := vaddr &^ 3
	e, ok := c.translateData(aligned, false)
	if !ok {
		return true
	}
	mem, rerr := c.mem.Read32(c.hostAddr(e, aligned))
	if rerr {
		c.Raise(BusError, vaddr, c.inDelaySlot)
		return true
	}
	shift := uint(vaddr&3) * 8
	merged := (mem << shift) | (uint32(c.GPR(rt(word))) & ^(^uint32(0) << shift))
	c.SetGPR(rt(word), uint64(int64(int32(merged))))
	return false
}

func execLWR(c *CPU, word uint32) bool {
	vaddr := c.GPR(rs(word)) + uint64(simm16(word))
	aligned := vaddr &^ 3
	e, ok := c.translateData(aligned, false)
	if !ok {
		return true
	}
	mem, rerr := c.mem.Read32(c.hostAddr(e, aligned))
	if rerr {
		c.Raise(BusError, vaddr, c.inDelaySlot)
		return true
	}
	shift := uint(3-(vaddr&3)) * 8
	merged := (mem >> shift) | (uint32(c.GPR(rt(word))) & (^uint32(0) << (32 - shift)))
	c.SetGPR(rt(word), uint64(int64(int32(merged))))
	return false
}

// LL/SC implement a single-reservation atomic pair: LL records the address,
// SC succeeds (writes and returns 1 in rt) only if the reservation still
// holds, per spec.md §8's LL/SC scenario.
func execLL(c *CPU, word uint32) bool {
	vaddr := c.GPR(rs(word)) + uint64(simm16(word))
	if vaddr&3 != 0 {
		c.Raise(AddressError, vaddr, c.inDelaySlot)
		return true
	}
	e, ok := c.translateData(vaddr, false)
	if !ok {
		return true
	}
	v, rerr := c.mem.Read32(c.hostAddr(e, vaddr))
	if rerr {
		c.Raise(BusError, vaddr, c.inDelaySlot)
		return true
	}
	c.SetGPR(rt(word), uint64(int64(int32(v))))
	c.reservationValid = true
	c.reservationAddr = vaddr
	return false
}

func execSC(c *CPU, word uint32) bool {
	vaddr := c.GPR(rs(word)) + uint64(simm16(word))
	if vaddr&3 != 0 {
		c.Raise(AddressError, vaddr, c.inDelaySlot)
		return true
	}
	if !c.reservationValid || c.reservationAddr != vaddr {
		c.SetGPR(rt(word), 0)
		return false
	}
	e, ok := c.translateData(vaddr, true)
	if !ok {
		return true
	}
	if c.mem.Write32(c.hostAddr(e, vaddr), uint32(c.GPR(rt(word)))) {
		c.Raise(BusError, vaddr, c.inDelaySlot)
		return true
	}
	c.reservationValid = false
	c.SetGPR(rt(word), 1)
	return false
}

// invalidateReservation breaks any outstanding LL reservation aliasing addr,
// per the architectural rule that any store to the reserved block clears it.
func (c *CPU) invalidateReservation(addr uint64) {
	if c.reservationValid && c.reservationAddr&^3 == addr&^3 {
		c.reservationValid = false
	}
}
