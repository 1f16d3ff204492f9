/*
ciscocore - PowerPC compare instructions

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

// compareInto sets crField from a three-way comparison, ORing in the
// current XER.SO exactly as CMP/CMPI/CMPL/CMPLI require.
func (c *CPU) compareInto(crField uint8, lt, gt, eq bool) {
	var f uint8
	switch {
	case lt:
		f = crLT
	case gt:
		f = crGT
	default:
		f = crEQ
	}
	_ = eq
	if c.xerSO() {
		f |= crSO
	}
	c.SetCRField(crField, f)
}

func execCMP(c *CPU, word uint32) bool {
	crField := rD(word) >> 2
	a, b := int32(c.GPR(rA(word))), int32(c.GPR(rB(word)))
	c.compareInto(crField, a < b, a > b, a == b)
	return false
}

func execCMPL(c *CPU, word uint32) bool {
	crField := rD(word) >> 2
	a, b := c.GPR(rA(word)), c.GPR(rB(word))
	c.compareInto(crField, a < b, a > b, a == b)
	return false
}

func execCMPI(c *CPU, word uint32) bool {
	crField := rD(word) >> 2
	a, b := int32(c.GPR(rA(word))), simm(word)
	c.compareInto(crField, a < b, a > b, a == b)
	return false
}

func execCMPLI(c *CPU, word uint32) bool {
	crField := rD(word) >> 2
	a, b := c.GPR(rA(word)), uimm(word)
	c.compareInto(crField, a < b, a > b, a == b)
	return false
}
