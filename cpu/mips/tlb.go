/*
ciscocore - MIPS software-managed TLB

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

// TLBEntry is a pair of mapped pages: {mask, hi, lo0, lo1}, per spec.md §3.
type TLBEntry struct {
	Mask uint64
	Hi   uint64
	Lo0  uint64
	Lo1  uint64
}

// Global reports whether both Lo registers carry the global bit, the
// condition under which TLBWI/TLBWR mirror it into Hi (spec.md §4.D).
func (e TLBEntry) Global() bool {
	return e.Lo0&loGlobal != 0 && e.Lo1&loGlobal != 0
}

// PageSize derives the page size in bytes from Mask: (mask+0x2000)>>1,
// per spec.md §3, ranging from 4 KiB to 16 MiB.
func (e TLBEntry) PageSize() uint64 {
	return (e.Mask + 0x2000) >> 1
}

// match reports whether vaddr (with its VPN2 bits) hits this entry under
// the global-bit/ASID rule: at least one of {entry global, matching ASID}
// must hold.
func (e TLBEntry) match(vaddr uint64, asid uint64) bool {
	invMask := ^(e.Mask) & vpn2Mask
	if e.Hi&invMask != vaddr&invMask {
		return false
	}
	global := e.Lo0&loGlobal != 0 || e.Lo1&loGlobal != 0
	if global {
		return true
	}
	return e.Hi&entryHiASID == asid&entryHiASID
}

// TLBProbe scans all entries for a hit against the current EntryHi,
// honouring the global/ASID rule. It writes the first matching entry's
// index to Index, or sets Index's MSB on no match, per spec.md §4.D's TLBP
// description.
func (c *CPU) TLBProbe() {
	entryHi := c.cp0.reg[CP0EntryHi]
	asid := entryHi & entryHiASID
	for i, e := range c.tlb {
		if e.match(entryHi, asid) {
			c.cp0.reg[CP0Index] = uint64(i)
			return
		}
	}
	c.cp0.reg[CP0Index] = 0x8000000000000000
}

// TLBRead copies the entry at Index into PageMask/EntryHi/EntryLo0/EntryLo1,
// relocating the global bit from Hi into both Lo registers.
func (c *CPU) TLBRead() {
	idx := c.cp0.reg[CP0Index] & 0x3F
	if int(idx) >= len(c.tlb) {
		return
	}
	e := c.tlb[idx]
	c.cp0.reg[CP0PageMask] = e.Mask
	c.cp0.reg[CP0EntryHi] = e.Hi
	lo0, lo1 := e.Lo0, e.Lo1
	if e.Hi&loGlobal != 0 {
		lo0 |= loGlobal
		lo1 |= loGlobal
	}
	c.cp0.reg[CP0EntryLo0] = lo0
	c.cp0.reg[CP0EntryLo1] = lo1
}

// writeTLB writes EntryHi/Lo0/Lo1 into the given index, mirrors the global
// bit between Hi and both Lo registers, and invalidates the MTS cache.
func (c *CPU) writeTLB(idx int) {
	if idx < 0 || idx >= len(c.tlb) {
		return
	}
	hi := c.cp0.reg[CP0EntryHi] &^ loGlobal
	lo0 := c.cp0.reg[CP0EntryLo0]
	lo1 := c.cp0.reg[CP0EntryLo1]
	if lo0&loGlobal != 0 && lo1&loGlobal != 0 {
		hi |= loGlobal
	}
	c.tlb[idx] = TLBEntry{
		Mask: c.cp0.reg[CP0PageMask],
		Hi:   hi,
		Lo0:  lo0,
		Lo1:  lo1,
	}
	c.mtsCache.InvalidateAll()
}

// TLBWriteIndexed writes the indexed slot (TLBWI).
func (c *CPU) TLBWriteIndexed() {
	c.writeTLB(int(c.cp0.reg[CP0Index] & 0x3F))
}

// TLBWriteRandom writes the slot named by Random (TLBWR).
func (c *CPU) TLBWriteRandom() {
	c.writeTLB(int(c.cp0.ReadRandom(len(c.tlb))))
}

// tlbLookup walks the software TLB for a data/instruction translation,
// returning the matching entry and which of its two pages (lo0 vs lo1,
// selected by the even/odd page bit above the mask) was hit.
func (c *CPU) tlbLookup(vaddr uint64) (TLBEntry, bool, bool) {
	asid := c.cp0.reg[CP0EntryHi] & entryHiASID
	for _, e := range c.tlb {
		if e.match(vaddr, asid) {
			// Odd/even page select is the page-size bit of the offset from
			// Hi, not of vaddr directly: Hi need not be page-pair aligned.
			oddPage := (vaddr^e.Hi)&e.PageSize() != 0
			return e, oddPage, true
		}
	}
	return TLBEntry{}, false, false
}
