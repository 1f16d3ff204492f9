/*
ciscocore - Instruction Lookup Table

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

// Package ilt is the Instruction Lookup Table: a generic, prefix-hashed
// decoder shared by both guest architectures. Callers build a static table
// of (mask, match, handler) rows once at startup; lookup resolves a 32-bit
// instruction word to a handler in amortised O(1) and never fails to match.
package ilt

import (
	"math/bits"
	"sort"
)

// Row is one decode entry: word&Mask == Match selects Handler.
type Row[H any] struct {
	Name    string
	Mask    uint32
	Match   uint32
	Handler H
}

// Table is a built decode table. The zero value is not usable; use Build.
type Table[H any] struct {
	hiBuckets map[uint16][]Row[H]
	loBuckets map[uint16][]Row[H]
	wild      []Row[H]
	catchAll  H
}

// Build partitions rows by their high-16-bit prefix when the row's mask
// fully determines it, by their low-16-bit prefix when only the low half
// is fully determined, or into a wild list otherwise (rows whose mask
// leaves both halves partially open, e.g. many R-type MIPS encodings that
// key on a low-order function field spanning both halves). Within every
// bucket rows are ordered most-specific-first (more set mask bits), so a
// fully-masked exact match like NOP is tried before a broader pattern it
// would otherwise be subsumed by. catchAll is returned when nothing
// matches; it must itself always match (e.g. mask 0, match 0).
func Build[H any](rows []Row[H], catchAll H) *Table[H] {
	t := &Table[H]{
		hiBuckets: make(map[uint16][]Row[H]),
		loBuckets: make(map[uint16][]Row[H]),
		catchAll:  catchAll,
	}
	for _, r := range rows {
		switch {
		case r.Mask&0xFFFF0000 == 0xFFFF0000:
			hi := uint16(r.Match >> 16)
			t.hiBuckets[hi] = append(t.hiBuckets[hi], r)
		case r.Mask&0x0000FFFF == 0x0000FFFF:
			lo := uint16(r.Match)
			t.loBuckets[lo] = append(t.loBuckets[lo], r)
		default:
			t.wild = append(t.wild, r)
		}
	}
	for k := range t.hiBuckets {
		bySpecificity(t.hiBuckets[k])
	}
	for k := range t.loBuckets {
		bySpecificity(t.loBuckets[k])
	}
	bySpecificity(t.wild)
	return t
}

func bySpecificity[H any](rows []Row[H]) {
	sort.SliceStable(rows, func(i, j int) bool {
		return bits.OnesCount32(rows[i].Mask) > bits.OnesCount32(rows[j].Mask)
	})
}

// Lookup resolves word to a handler: high-16 bucket first, then the low-16
// bucket, then the wild list, then the catch-all. Never fails to match.
func (t *Table[H]) Lookup(word uint32) H {
	hi := uint16(word >> 16)
	for _, r := range t.hiBuckets[hi] {
		if word&r.Mask == r.Match {
			return r.Handler
		}
	}
	lo := uint16(word)
	for _, r := range t.loBuckets[lo] {
		if word&r.Mask == r.Match {
			return r.Handler
		}
	}
	for _, r := range t.wild {
		if word&r.Mask == r.Match {
			return r.Handler
		}
	}
	return t.catchAll
}
