/*
ciscocore - Memory Translation Subsystem

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

// Package mts is the per-CPU Memory Translation Subsystem: a direct-mapped
// cache of virtual-to-host mappings consulted by every guest load, store,
// and fetch. It is deliberately architecture-agnostic - the slow-path walk
// (TLB for MIPS, BAT/segment/PTE for PowerPC) lives in the cpu/mips and
// cpu/ppc packages, which implement Resolver.
package mts

import "errors"

// Flags classify the access rights and backing of an MTS entry.
type Flags uint8

const (
	DeviceBacked Flags = 1 << iota
	CopyOnWrite
	Executable
	ReadOnly
)

// ErrReadOnly is returned by Translate when a write targets a read-only
// entry; the caller maps this to TLBModified (MIPS) or DataStorage (PPC).
var ErrReadOnly = errors.New("mts: write to read-only page")

// invalid marks an Entry's VPage as unfilled; page addresses are page
// aligned so the low bit is otherwise always zero, matching spec's
// "low bit of guest virtual page address doubles as an invalid sentinel".
const invalid = 1

// Entry is one MTS cache line: a guest virtual page mapped to a guest
// physical page and a host-side backing location, plus access flags.
type Entry struct {
	VPage uint64
	PPage uint64
	Host  uint64
	Flags Flags
}

// Invalid reports whether the entry is an empty cache line.
func (e Entry) Invalid() bool {
	return e.VPage&invalid != 0
}

// Resolver performs the architecture-specific slow-path walk on an MTS
// miss (TLB refill for MIPS, BAT/segment/PTE walk for PowerPC).
type Resolver interface {
	Resolve(vaddr uint64, write, exec bool) (Entry, error)
}

// Cache is a direct-mapped, unsynchronised, per-CPU translation cache.
type Cache struct {
	entries   []Entry
	pageShift uint
	indexMask uint64
	pageMask  uint64
}

// NewCache builds a cache with size entries (must be a power of two) and
// pages of 1<<pageShift bytes (pageShift=12 is the spec's 4 KiB minimum).
func NewCache(size int, pageShift uint) *Cache {
	c := &Cache{
		entries:   make([]Entry, size),
		pageShift: pageShift,
		indexMask: uint64(size) - 1,
		pageMask:  1<<pageShift - 1,
	}
	c.InvalidateAll()
	return c
}

func (c *Cache) index(vaddr uint64) uint64 {
	return (vaddr >> c.pageShift) & c.indexMask
}

func (c *Cache) pageOf(vaddr uint64) uint64 {
	return vaddr &^ c.pageMask
}

// Lookup returns the cached entry for vaddr's page, if any and valid.
func (c *Cache) Lookup(vaddr uint64) (Entry, bool) {
	e := c.entries[c.index(vaddr)]
	if e.Invalid() || e.VPage != c.pageOf(vaddr) {
		return Entry{}, false
	}
	return e, true
}

// Fill installs e in the cache line its VPage maps to.
func (c *Cache) Fill(e Entry) {
	c.entries[c.index(e.VPage)] = e
}

// InvalidateAll clears every cache line. Called whenever guest state that
// could change translations is written (TLB, BAT, segment registers,
// SDR1, or a mode-switching MSR bit).
func (c *Cache) InvalidateAll() {
	for i := range c.entries {
		c.entries[i] = Entry{VPage: invalid}
	}
}

// Translate resolves vaddr to a host page, filling the cache on miss via r.
// A write against a read-only hit returns ErrReadOnly without consulting r.
func (c *Cache) Translate(vaddr uint64, write, exec bool, r Resolver) (Entry, error) {
	if e, ok := c.Lookup(vaddr); ok {
		if write && e.Flags&ReadOnly != 0 {
			return Entry{}, ErrReadOnly
		}
		return e, nil
	}
	e, err := r.Resolve(vaddr, write, exec)
	if err != nil {
		return Entry{}, err
	}
	c.Fill(e)
	return e, nil
}

// HostAddr computes the host-side byte address for vaddr given a hit entry,
// preserving the page offset.
func (c *Cache) HostAddr(e Entry, vaddr uint64) uint64 {
	return e.Host | (vaddr & c.pageMask)
}
