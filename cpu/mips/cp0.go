/*
ciscocore - MIPS CP0 system coprocessor

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

// CP0 register numbers (MIPS64 system coprocessor).
const (
	CP0Index    = 0
	CP0Random   = 1
	CP0EntryLo0 = 2
	CP0EntryLo1 = 3
	CP0Context  = 4
	CP0PageMask = 5
	CP0Wired    = 6
	CP0BadVAddr = 8
	CP0Count    = 9
	CP0EntryHi  = 10
	CP0Compare  = 11
	CP0Status   = 12
	CP0Cause    = 13
	CP0EPC      = 14
	CP0PRId     = 15
	CP0Config   = 16
)

// EntryHi/EntryLo masks.
const (
	vpn2Mask   uint64 = 0xFFFFFFFFFFFFE000
	entryHiASID uint64 = 0x00000000000000FF
	entryHiG    uint64 = 0 // global bit lives in EntryLo on this profile, mirrored into hi by TLBWI/TLBWR
	loValid     uint64 = 0x2
	loDirty     uint64 = 0x4
	loGlobal    uint64 = 0x1
)

// Status register bits relevant to interrupt gating.
const (
	statusIE uint64 = 0x00000001
	statusIM uint64 = 0x0000FF00 // IM0..IM7, bit 8 + line
)

// CP0 is the system coprocessor register file plus the Count/Compare
// virtualisation shadow and R7000 "set 1" shadow registers (CFC0/CTC0),
// grounded on original_source/mips64_cp0.rs.
type CP0 struct {
	reg [32]uint64

	wired uint32

	// Count/Compare virtualisation (spec.md §4.D): instrCount counts
	// executed instructions and the shadow virtCount advances once per
	// clockDivisor of them; reads of Count reconstruct it from
	// Compare - (virtCompare - virtCount).
	instrCount  uint64
	virtCount   uint64
	virtCompare uint64

	// R7000 "set 1" shadow registers, read/written via CFC0/CTC0.
	shadowIPLLo     uint32
	shadowIPLHi     uint32
	shadowIntCtl    uint32
	shadowDerrAddr0 uint64
	shadowDerrAddr1 uint64
}

// Tick advances the virtualised Count once per instruction divided by the
// clock divisor, matching spec.md §4.D's Count virtualisation: every call
// advances instrCount, and virtCount and Count step once per clockDivisor
// calls. Step calls it once per retired instruction.
func (c *CP0) Tick(clockDivisor uint32) {
	c.instrCount++
	if clockDivisor == 0 {
		clockDivisor = 1
	}
	if c.instrCount%uint64(clockDivisor) != 0 {
		return
	}
	c.virtCount++
	c.reg[CP0Count]++
}

// ReadCount reconstructs Count from Compare - (virtCompare - virtCount),
// per spec.md §4.D.
func (c *CP0) ReadCount() uint64 {
	return c.reg[CP0Compare] - (c.virtCompare - c.virtCount)
}

// WriteCount resets the shadow and clears any pending timer IRQ 7.
func (c *CP0) WriteCount(v uint64, irqs *irqLinesClearer) {
	c.reg[CP0Count] = v
	c.virtCount = 0
	c.virtCompare = 0
	irqs.Clear(7)
}

// WriteCompare resets the shadow and clears pending timer IRQ 7.
func (c *CP0) WriteCompare(v uint64, irqs *irqLinesClearer) {
	c.reg[CP0Compare] = v
	c.virtCount = 0
	c.virtCompare = 0
	irqs.Clear(7)
}

// irqLinesClearer is the minimal surface cp0.go needs from irqline.Lines,
// kept as its own tiny struct wrapping a clear callback so cp0.go does not
// import irqline directly.
type irqLinesClearer struct {
	clear func(line uint)
}

func (i *irqLinesClearer) Clear(line uint) {
	if i.clear != nil {
		i.clear(line)
	}
}

// ReadRandom derives Random as Wired + (virtCount mod (entries - Wired)),
// per spec.md §4.D.
func (c *CP0) ReadRandom(tlbEntries int) uint64 {
	span := uint64(tlbEntries) - uint64(c.wired)
	if span == 0 {
		return uint64(c.wired)
	}
	return uint64(c.wired) + c.virtCount%span
}

// MFC0 implements a 32-bit coprocessor-0 read.
func (c *CPU) MFC0(reg uint8) uint32 {
	switch reg {
	case CP0Count:
		return uint32(c.cp0.ReadCount())
	case CP0Random:
		return uint32(c.cp0.ReadRandom(len(c.tlb)))
	default:
		return uint32(c.cp0.reg[reg])
	}
}

// DMFC0 implements a 64-bit coprocessor-0 read.
func (c *CPU) DMFC0(reg uint8) uint64 {
	switch reg {
	case CP0Count:
		return c.cp0.ReadCount()
	case CP0Random:
		return c.cp0.ReadRandom(len(c.tlb))
	default:
		return c.cp0.reg[reg]
	}
}

func (c *CPU) clearer() *irqLinesClearer {
	return &irqLinesClearer{clear: c.irqLines.Clear}
}

// MTC0 implements a 32-bit coprocessor-0 write, including the
// Count/Compare virtualisation reset and MTS invalidation for registers
// that affect translation.
func (c *CPU) MTC0(reg uint8, v uint32) {
	c.DMTC0(reg, uint64(v))
}

// DMTC0 implements a 64-bit coprocessor-0 write.
func (c *CPU) DMTC0(reg uint8, v uint64) {
	switch reg {
	case CP0Count:
		c.cp0.WriteCount(v, c.clearer())
	case CP0Compare:
		c.cp0.WriteCompare(v, c.clearer())
	case CP0PageMask:
		c.cp0.reg[CP0PageMask] = v & canonicalPageMask
	case CP0Status, CP0Cause:
		c.cp0.reg[reg] = v
		c.pollInterrupts()
	case CP0EntryHi, CP0EntryLo0, CP0EntryLo1, CP0Wired, CP0Context:
		c.cp0.reg[reg] = v
	default:
		c.cp0.reg[reg] = v
	}
}

const canonicalPageMask uint64 = 0x01FFE000

// CFC0/CTC0: R7000 "set 1" shadow register access (IPLLO/IPLHI/INTCTL/
// DERRADDR0/1), supplementing the distilled spec per original_source's
// mips64_cp0_s1_get_reg/set_reg.
func (c *CPU) CFC0(reg uint8) uint32 {
	switch reg {
	case 0:
		return c.cp0.shadowIPLLo
	case 1:
		return c.cp0.shadowIPLHi
	case 2:
		return c.cp0.shadowIntCtl
	case 3:
		return uint32(c.cp0.shadowDerrAddr0)
	case 4:
		return uint32(c.cp0.shadowDerrAddr1)
	default:
		return 0
	}
}

func (c *CPU) CTC0(reg uint8, v uint32) {
	switch reg {
	case 0:
		c.cp0.shadowIPLLo = v
	case 1:
		c.cp0.shadowIPLHi = v
	case 2:
		c.cp0.shadowIntCtl = v
	case 3:
		c.cp0.shadowDerrAddr0 = uint64(v)
	case 4:
		c.cp0.shadowDerrAddr1 = uint64(v)
	}
}

// pollInterrupts re-evaluates pending interrupts immediately after a
// Status or Cause write, per spec.md §4.D.
func (c *CPU) pollInterrupts() {
	if c.cp0.reg[CP0Status]&statusIE != 0 {
		c.irqCheck.Store(true)
	}
}
