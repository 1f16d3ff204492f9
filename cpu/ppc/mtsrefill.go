/*
ciscocore - PowerPC Memory Translation Subsystem refill

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

var errResolve = errors.New("ppc: mts resolve fault")

// Resolve implements mts.Resolver (spec.md §4.C): if the relevant MSR
// translation bit is off, the effective address passes through as
// physical. Otherwise the four BAT registers for the access kind (IBAT for
// fetches, DBAT for data) are tried first; a miss there falls through to a
// segment-register-derived hashed page table walk rooted at SDR1.
func (c *CPU) Resolve(vaddr uint64, write, exec bool) (mts.Entry, error) {
	ea := uint32(vaddr)
	translating := c.msr&msrDR != 0
	if exec {
		translating = c.msr&msrIR != 0
	}
	if !translating {
		return c.fixedEntry(ea), nil
	}

	supervisor := c.msr&msrPR == 0
	table := &c.dbat
	if exec {
		table = &c.ibat
	}
	if b, ok := batMatch(table, ea, supervisor); ok {
		if write && !b.writable() {
			return mts.Entry{}, mts.ErrReadOnly
		}
		phys := batTranslate(b, ea)
		return c.pageEntry(ea, phys, !b.writable()), nil
	}

	return c.pteWalk(ea, write, supervisor)
}

// fixedEntry covers the translation-disabled case: effective address equals
// physical address directly.
func (c *CPU) fixedEntry(ea uint32) mts.Entry {
	return c.pageEntry(ea, ea, false)
}

func (c *CPU) pageEntry(ea, phys uint32, readOnly bool) mts.Entry {
	pageShift := c.cfg.ExecPageBits
	pageMask := uint64(1)<<pageShift - 1
	e := mts.Entry{
		VPage: uint64(ea) &^ pageMask,
		PPage: uint64(phys) &^ pageMask,
		Host:  uint64(phys) &^ pageMask,
	}
	if readOnly {
		e.Flags |= mts.ReadOnly
	}
	return e
}

// pageTableEntry is one 8-byte PTE within a PTEG, decoded per the PowerPC
// hashed page table layout.
type pageTableEntry struct {
	valid bool
	vsid  uint32
	h     uint32
	api   uint32
	rpn   uint32
	pp    uint32
}

func decodePTE(word0, word1 uint32) pageTableEntry {
	return pageTableEntry{
		valid: word0&0x80000000 != 0,
		vsid:  (word0 >> 7) & 0x00FFFFFF,
		h:     (word0 >> 6) & 0x1,
		api:   word0 & 0x3F,
		rpn:   word1 &^ 0xFFF,
		pp:    word1 & 0x3,
	}
}

func (p pageTableEntry) writable(supervisor bool) bool {
	switch p.pp {
	case 0:
		return supervisor
	case 1:
		return supervisor
	case 2:
		return true
	default: // 3
		return false
	}
}

// pteWalk performs the segment-register-derived hashed page table walk
// spec.md §4.C names: a 24-bit VSID from the segment register selected by
// the top 4 bits of ea, combined with the page index to form the primary
// and secondary PTEG hash, each probed as an 8-PTE group read directly out
// of guest physical memory at the table SDR1 names.
func (c *CPU) pteWalk(ea uint32, write, supervisor bool) (mts.Entry, error) {
	srIndex := ea >> 28
	vsid := c.sr[srIndex] & 0x00FFFFFF
	pageIndex := (ea >> 12) & 0xFFFF
	api := (pageIndex >> 10) & 0x3F

	htabOrg := c.sdr1 & 0xFFFF0000
	htabMask := c.sdr1 & 0x1FF

	primaryHash := (vsid ^ pageIndex) & 0x000FFFFF
	if pte, ok := c.probePTEG(htabOrg, htabMask, primaryHash, 0, vsid, api); ok {
		if write && !pte.writable(supervisor) {
			return mts.Entry{}, mts.ErrReadOnly
		}
		phys := pte.rpn | (ea & 0xFFF)
		return c.pageEntry(ea, phys, !pte.writable(supervisor)), nil
	}

	secondaryHash := (^primaryHash) & 0x000FFFFF
	if pte, ok := c.probePTEG(htabOrg, htabMask, secondaryHash, 1, vsid, api); ok {
		if write && !pte.writable(supervisor) {
			return mts.Entry{}, mts.ErrReadOnly
		}
		phys := pte.rpn | (ea & 0xFFF)
		return c.pageEntry(ea, phys, !pte.writable(supervisor)), nil
	}

	return mts.Entry{}, errResolve
}

// probePTEG reads the 8-PTE (64-byte) group the hash selects and returns
// the first entry matching vsid/api/h.
func (c *CPU) probePTEG(htabOrg, htabMask, hash, h, vsid, api uint32) (pageTableEntry, bool) {
	ptegAddr := uint64(htabOrg) | (uint64(hash&htabMask) << 6)
	for i := 0; i < 8; i++ {
		addr := ptegAddr + uint64(i*8)
		w0, err0 := c.mem.Read32(addr)
		w1, err1 := c.mem.Read32(addr + 4)
		if err0 || err1 {
			continue
		}
		pte := decodePTE(w0, w1)
		if pte.valid && pte.vsid == vsid && pte.api == api && pte.h == h {
			return pte, true
		}
	}
	return pageTableEntry{}, false
}
