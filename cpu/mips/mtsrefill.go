/*
ciscocore - MIPS Memory Translation Subsystem refill

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

// MIPS64 segments (spec.md §4.C): kseg0/kseg1 map directly to physical;
// kuseg/kseg2 consult the TLB; xkphys (64-bit mode) decodes CCA + a 36-bit
// physical payload directly from the top nibble, supplementing the
// distilled spec per original_source/mips64_cp0.rs's addr_mode==64 paths.
const (
	kuseg0Base  uint64 = 0x0000000000000000
	kuseg0Top   uint64 = 0x000000007FFFFFFF
	kseg0Base   uint64 = 0xFFFFFFFF80000000
	kseg0Top    uint64 = 0xFFFFFFFF9FFFFFFF
	kseg1Base   uint64 = 0xFFFFFFFFA0000000
	kseg1Top    uint64 = 0xFFFFFFFFBFFFFFFF
	xkphysBase  uint64 = 0x8000000000000000
	xkphysTop   uint64 = 0xBFFFFFFFFFFFFFFF
	xkphysPhysMask uint64 = 0x0000000FFFFFFFFF // 36-bit physical payload
)

var errResolve = errors.New("mips: mts resolve fault")

// Resolve implements mts.Resolver: the MTS slow-path walk on a cache miss.
func (c *CPU) Resolve(vaddr uint64, write, exec bool) (mts.Entry, error) {
	switch {
	case vaddr >= kseg0Base && vaddr <= kseg0Top:
		return c.fixedEntry(vaddr, vaddr-kseg0Base, false), nil

	case vaddr >= kseg1Base && vaddr <= kseg1Top:
		return c.fixedEntry(vaddr, vaddr-kseg1Base, true), nil

	case vaddr >= xkphysBase && vaddr <= xkphysTop:
		phys := vaddr & xkphysPhysMask
		return c.fixedEntry(vaddr, phys, true), nil

	default:
		// kuseg / kseg2: software TLB.
		return c.tlbResolve(vaddr, write, exec)
	}
}

// fixedEntry builds an MTS entry for an unmapped segment whose guest
// physical address is phys; uncached CCA segments (kseg1, xkphys CCA=2)
// are marked device-backed so the MTS never caches device MMIO behind
// them (uncached passed in explicitly by callers that know their segment).
func (c *CPU) fixedEntry(vaddr, phys uint64, uncached bool) mts.Entry {
	pageShift := c.cfg.ExecPageBits
	pageMask := uint64(1)<<pageShift - 1
	e := mts.Entry{
		VPage: vaddr &^ pageMask,
		PPage: phys &^ pageMask,
		Host:  phys &^ pageMask,
	}
	if uncached {
		e.Flags |= mts.DeviceBacked
	}
	return e
}

func (c *CPU) tlbResolve(vaddr uint64, write, _ bool) (mts.Entry, error) {
	entry, oddPage, ok := c.tlbLookup(vaddr)
	if !ok {
		return mts.Entry{}, errResolve
	}
	lo := entry.Lo0
	if oddPage {
		lo = entry.Lo1
	}
	if lo&loValid == 0 {
		return mts.Entry{}, errResolve
	}
	if write && lo&loDirty == 0 {
		// Valid-but-not-dirty is TLB-Modified on MIPS, not a refill miss:
		// return the distinguishable sentinel directly on this first,
		// uncached resolve (a subsequent cached hit is caught by
		// mts.Cache.Translate itself via the entry's ReadOnly flag).
		return mts.Entry{}, mts.ErrReadOnly
	}

	pageSize := entry.PageSize()
	pfn := (lo >> 6) << 12 // PFN field above the cache-attribute/dirty/valid/global low bits
	phys := pfn &^ (pageSize - 1)

	e := mts.Entry{
		VPage: vaddr &^ (pageSize - 1),
		PPage: phys,
		Host:  phys,
	}
	if lo&loDirty == 0 {
		e.Flags |= mts.ReadOnly
	}
	return e, nil
}
