/*
ciscocore - PowerPC BAT register matching

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

// batMatch searches the four entries of table for one covering vaddr and
// valid in the current privilege mode, mirroring cpu/mips/tlb.go's linear
// probe idiom (four entries is cheap enough that an associative cache adds
// nothing).
func batMatch(table *[4]BatEntry, vaddr uint32, supervisor bool) (BatEntry, bool) {
	for _, b := range table {
		if !b.validFor(supervisor) {
			continue
		}
		mask := b.blockMask()
		if (vaddr & 0xFFFE0000 &^ mask) == b.bepi() {
			return b, true
		}
	}
	return BatEntry{}, false
}

// batTranslate applies a matched BAT entry, returning the guest physical
// address it maps vaddr to.
func batTranslate(b BatEntry, vaddr uint32) uint32 {
	mask := b.blockMask()
	return (b.brpn() &^ mask) | (vaddr & (mask | 0x0001FFFF))
}
