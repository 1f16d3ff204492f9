/*
ciscocore - Physical memory backing store

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

// Package physmem is the host-provided physical memory the MTS slow path
// resolves guest addresses into. The core never assumes host byte order:
// every multi-byte access goes through bitutil's explicit big-endian
// helpers, matching the guest bus semantics spec.md §6 requires.
package physmem

import "github.com/rcornwell/ciscocore/bitutil"

// Memory is a flat byte-addressed physical memory.
type Memory struct {
	bytes []byte
	size  uint64
}

// New allocates a Memory of the given size in bytes.
func New(size uint64) *Memory {
	return &Memory{bytes: make([]byte, size), size: size}
}

// Size returns the memory size in bytes.
func (m *Memory) Size() uint64 {
	return m.size
}

// CheckAddr reports whether addr is within bounds.
func (m *Memory) CheckAddr(addr uint64) bool {
	return addr < m.size
}

// Read8 returns the byte at addr. error is true if addr is out of range.
func (m *Memory) Read8(addr uint64) (value uint8, err bool) {
	if addr >= m.size {
		return 0, true
	}
	return m.bytes[addr], false
}

// Write8 stores value at addr. Returns true on out-of-range addr.
func (m *Memory) Write8(addr uint64, value uint8) bool {
	if addr >= m.size {
		return true
	}
	m.bytes[addr] = value
	return false
}

// Read16 returns a big-endian 16-bit value at addr.
func (m *Memory) Read16(addr uint64) (value uint16, err bool) {
	if addr+1 >= m.size {
		return 0, true
	}
	return bitutil.NtoH16(m.bytes[addr : addr+2]), false
}

// Write16 stores a big-endian 16-bit value at addr.
func (m *Memory) Write16(addr uint64, value uint16) bool {
	if addr+1 >= m.size {
		return true
	}
	bitutil.HtoN16(m.bytes[addr:addr+2], value)
	return false
}

// Read32 returns a big-endian 32-bit value at addr.
func (m *Memory) Read32(addr uint64) (value uint32, err bool) {
	if addr+3 >= m.size {
		return 0, true
	}
	return bitutil.NtoH32(m.bytes[addr : addr+4]), false
}

// Write32 stores a big-endian 32-bit value at addr.
func (m *Memory) Write32(addr uint64, value uint32) bool {
	if addr+3 >= m.size {
		return true
	}
	bitutil.HtoN32(m.bytes[addr:addr+4], value)
	return false
}

// Read64 returns a big-endian 64-bit value at addr.
func (m *Memory) Read64(addr uint64) (value uint64, err bool) {
	if addr+7 >= m.size {
		return 0, true
	}
	return bitutil.NtoH64(m.bytes[addr : addr+8]), false
}

// Write64 stores a big-endian 64-bit value at addr.
func (m *Memory) Write64(addr uint64, value uint64) bool {
	if addr+7 >= m.size {
		return true
	}
	bitutil.HtoN64(m.bytes[addr:addr+8], value)
	return false
}

// HostPage returns a slice of the page containing addr, starting at the
// page boundary, for use as an MTS entry's host-side backing. pageShift
// is the log2 of the page size (12 for a 4 KiB page). It returns nil when
// the page lies past the end of memory.
func (m *Memory) HostPage(addr uint64, pageShift uint) []byte {
	pageMask := uint64(1)<<pageShift - 1
	base := addr &^ pageMask
	if base >= m.size {
		return nil
	}
	size := uint64(1) << pageShift
	if base+size > m.size {
		size = m.size - base
	}
	return m.bytes[base : base+size]
}
