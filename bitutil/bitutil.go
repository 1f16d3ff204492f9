/*
ciscocore - Bit and endian primitives

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

// Package bitutil holds the bit-exact primitives every instruction handler
// and wire helper is built on: sign extension, bitfield extraction, byte
// swapping, and big-endian guest-bus loads/stores from byte slices. All
// functions here are total - no panics, no error returns - and branch-free
// where the underlying operation allows it.
package bitutil

// SignExtend64 extends the low width bits of v, interpreted as a two's
// complement integer, to a full 64-bit value. width must be in [1,64].
func SignExtend64(v uint64, width uint) int64 {
	shift := 64 - width
	return int64(v<<shift) >> shift
}

// SignExtend32 extends the low width bits of v to a full 32-bit value.
// width must be in [1,32].
func SignExtend32(v uint32, width uint) int32 {
	shift := 32 - width
	return int32(v<<shift) >> shift
}

// Bits32 extracts the inclusive bitfield [lo,hi] from v.
func Bits32(v uint32, lo, hi uint) uint32 {
	width := hi - lo + 1
	mask := uint32(1)<<width - 1
	return (v >> lo) & mask
}

// Bits64 extracts the inclusive bitfield [lo,hi] from v.
func Bits64(v uint64, lo, hi uint) uint64 {
	width := hi - lo + 1
	mask := uint64(1)<<width - 1
	return (v >> lo) & mask
}

// Swap16 reverses the byte order of a 16-bit value.
func Swap16(v uint16) uint16 {
	return v<<8 | v>>8
}

// Swap32 reverses the byte order of a 32-bit value.
func Swap32(v uint32) uint32 {
	return v<<24 | (v&0xff00)<<8 | (v>>8)&0xff00 | v>>24
}

// Swap64 reverses the byte order of a 64-bit value.
func Swap64(v uint64) uint64 {
	return uint64(Swap32(uint32(v)))<<32 | uint64(Swap32(uint32(v>>32)))
}

// NtoH16 reads a big-endian 16-bit value from an unaligned byte slice.
// The wire is always big-endian regardless of host byte order.
func NtoH16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

// NtoH32 reads a big-endian 32-bit value from an unaligned byte slice.
func NtoH32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// NtoH64 reads a big-endian 64-bit value from an unaligned byte slice.
func NtoH64(b []byte) uint64 {
	return uint64(NtoH32(b))<<32 | uint64(NtoH32(b[4:]))
}

// HtoN16 writes v to b in big-endian order.
func HtoN16(b []byte, v uint16) {
	b[0] = byte(v >> 8)
	b[1] = byte(v)
}

// HtoN32 writes v to b in big-endian order.
func HtoN32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

// HtoN64 writes v to b in big-endian order.
func HtoN64(b []byte, v uint64) {
	HtoN32(b, uint32(v>>32))
	HtoN32(b[4:], uint32(v))
}

// HtoVM32 converts a host-native 32-bit value into its guest-bus (big-endian
// wire) representation. VMtoH32 performs the inverse. Both are the same
// involutive byte swap, so HtoVM32(VMtoH32(w)) == w and
// VMtoH32(HtoVM32(w)) == w hold unconditionally.
func HtoVM32(v uint32) uint32 { return Swap32(v) }

// VMtoH32 converts a guest-bus big-endian 32-bit value back to host-native.
func VMtoH32(v uint32) uint32 { return Swap32(v) }

// HtoVM16 is the 16-bit counterpart of HtoVM32.
func HtoVM16(v uint16) uint16 { return Swap16(v) }

// VMtoH16 is the 16-bit counterpart of VMtoH32.
func VMtoH16(v uint16) uint16 { return Swap16(v) }
