package ppc

import (
	"io"
	"testing"

	"github.com/rcornwell/ciscocore/config"
	"github.com/rcornwell/ciscocore/logger"
	"github.com/rcornwell/ciscocore/periodic"
	"github.com/rcornwell/ciscocore/physmem"
)

func newTestCPU(t *testing.T, memSize uint64) *CPU {
	t.Helper()
	cfg, err := config.New()
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	mem := physmem.New(memSize)
	log := logger.New("ppc-test", io.Discard, nil)
	sched := periodic.NewScheduler()
	t.Cleanup(sched.Shutdown)
	c := New(mem, cfg, log, sched)
	c.SetState(Running)
	return c
}

func storeWord(t *testing.T, c *CPU, addr uint64, word uint32) {
	t.Helper()
	if c.mem.Write32(addr, word) {
		t.Fatalf("storeWord: out of range at %#x", addr)
	}
}

func buildXForm(opcode uint32, d, a, b uint8, xo uint32, rcBit bool) uint32 {
	w := (opcode << 26) | (uint32(d) << 21) | (uint32(a) << 16) | (uint32(b) << 11) | (xo << 1)
	if rcBit {
		w |= 1
	}
	return w
}

func TestADDSetsCR0OnNegativeResult(t *testing.T) {
	// spec.md §4.E: ADD. (Rc=1) must write CR0 from the signed result.
	c := newTestCPU(t, 0x10000)
	c.SetGPR(1, 0)
	c.SetGPR(2, 0xFFFFFFFF) // -1
	word := buildXForm(31, 3, 1, 2, 266, true) // ADD. r3, r1, r2
	storeWord(t, c, 0, word)
	c.SetPC(0)
	c.Step()
	if c.GPR(3) != 0xFFFFFFFF {
		t.Fatalf("r3 = %#x, want 0xFFFFFFFF", c.GPR(3))
	}
	if c.CRField(0) != crLT {
		t.Errorf("CR0 = %#x, want crLT (negative result)", c.CRField(0))
	}
}

func TestSUBFOperandOrder(t *testing.T) {
	// SUBF computes rB - rA, not rA - rB.
	c := newTestCPU(t, 0x10000)
	c.SetGPR(1, 5)
	c.SetGPR(2, 8)
	word := buildXForm(31, 3, 1, 2, 40, false) // SUBF r3, r1, r2 -> r2 - r1 = 3
	storeWord(t, c, 0, word)
	c.SetPC(0)
	c.Step()
	if c.GPR(3) != 3 {
		t.Errorf("SUBF result = %d, want 3", c.GPR(3))
	}
}

func TestBATTranslationHit(t *testing.T) {
	// A BAT entry covering EA 0x10000000 maps it to physical 0, 128 KiB block.
	c := newTestCPU(t, 0x200000)
	c.SetMSR(msrDR | msrIR) // enable translation
	c.dbat[0] = BatEntry{
		Upper: 0x10000003, // BEPI=0x1000_0, BL=0 (128KiB), Vs=1, Vp=1
		Lower: 0x00000002, // BRPN=0, PP=10 (RW)
	}
	storeWord(t, c, 0x1000, 0xDEADBEEF)

	vaddr := uint32(0x10000000 + 0x1000)
	e, ok := c.translateData(vaddr, false)
	if !ok {
		t.Fatalf("expected BAT hit translating %#x", vaddr)
	}
	v, rerr := c.mem.Read32(c.hostAddr(e, vaddr))
	if rerr {
		t.Fatalf("read at resolved host addr failed")
	}
	if v != 0xDEADBEEF {
		t.Errorf("read %#x, want 0xDEADBEEF", v)
	}
}

func TestBATMissFaultsDataStorage(t *testing.T) {
	c := newTestCPU(t, 0x10000)
	c.SetMSR(msrDR | msrIR)
	// No BAT covers this address and SDR1 is zero, so the PTEG probe will
	// not find a valid entry either: expect a DataStorage exception.
	_, ok := c.translateData(0x40000000, false)
	if ok {
		t.Fatalf("expected translation fault with no BAT/PTE match")
	}
	if c.pc != DataStorage.Vector() {
		t.Errorf("PC = %#x, want DataStorage vector %#x", c.pc, DataStorage.Vector())
	}
	if c.dar != 0x40000000 {
		t.Errorf("DAR = %#x, want faulting address", c.dar)
	}
}

func TestLWARXSTWCXReservation(t *testing.T) {
	c := newTestCPU(t, 0x10000)
	storeWord(t, c, 0x200, 42)
	c.SetGPR(4, 0x200)

	execLWARX(c, buildXForm(31, 2, 4, 0, 20, false)) // LWARX r2, 0, r4
	if c.GPR(2) != 42 {
		t.Fatalf("LWARX loaded %d, want 42", c.GPR(2))
	}

	c.SetGPR(3, 99)
	execSTWCXDot(c, buildXForm(31, 3, 4, 0, 150, true)) // STWCX. r3, 0, r4
	if c.CRField(0)&crEQ == 0 {
		t.Errorf("first STWCX. should succeed (CR0 EQ set)")
	}

	// A second STWCX. without a fresh LWARX must fail.
	c.SetGPR(3, 123)
	execSTWCXDot(c, buildXForm(31, 3, 4, 0, 150, true))
	if c.CRField(0)&crEQ != 0 {
		t.Errorf("second STWCX. should fail (no reservation)")
	}
}

func TestRFIRestoresMSRAndPC(t *testing.T) {
	c := newTestCPU(t, 0x10000)
	c.msr = msrEE
	c.srr0 = 0x4000
	c.srr1 = msrEE | msrPR
	execRFI(c, 0)
	if c.pc != 0x4000 {
		t.Errorf("PC after RFI = %#x, want 0x4000", c.pc)
	}
	if c.msr&msrPR == 0 {
		t.Errorf("MSR.PR not restored from SRR1")
	}
}

func TestMTSPRToBATInvalidatesMTS(t *testing.T) {
	c := newTestCPU(t, 0x10000)
	c.SetMSR(msrDR)
	c.mtsCache.Fill(c.pageEntry(0x1000, 0x1000, false)) // prime a cache line
	// Exercise the SPR writer through mtsprDirect rather than hand-encode
	// the 10-bit split SPR field inline.
	c.regs[5] = 0xABCD0001
	mtsprDirect(c, 5, sprDBAT0U)
	if c.dbat[0].Upper != 0xABCD0001 {
		t.Errorf("DBAT0U = %#x, want 0xABCD0001", c.dbat[0].Upper)
	}
	if _, ok := c.mtsCache.Lookup(0x1000); ok {
		t.Errorf("MTS line for 0x1000 still valid after DBAT0U write")
	}
}

// mtsprDirect builds an MTSPR word with the requested split SPR encoding and
// executes it, sparing tests from hand-deriving the rA/rB bit halves.
func mtsprDirect(c *CPU, rd uint8, sprNum uint16) {
	low := uint32(sprNum) & 0x1F
	high := (uint32(sprNum) >> 5) & 0x1F
	word := (uint32(31) << 26) | (uint32(rd) << 21) | (low << 16) | (high << 11) | (467 << 1)
	execMTSPR(c, word)
}

func TestBranchConditionalCTRLoop(t *testing.T) {
	// BC with BO=0x10 (decrement CTR, branch if CTR!=0, ignore CR) loops
	// while decrementing CTR; verify it's taken while CTR>1 and not when
	// CTR reaches 0.
	c := newTestCPU(t, 0x10000)
	c.SetCTR(2)
	word := (uint32(16) << 26) | (uint32(0x10) << 21) | (uint32(0) << 16) | (uint32(0xFFF8) & 0xFFFC)
	storeWord(t, c, 0x100, word)
	c.SetPC(0x100)
	c.Step()
	if c.CTR() != 1 {
		t.Fatalf("CTR after first BC = %d, want 1", c.CTR())
	}
	if c.PC() == 0x104 {
		t.Errorf("expected branch taken (CTR was 2 before decrement)")
	}

	c.SetPC(0x100)
	c.Step()
	if c.CTR() != 0 {
		t.Fatalf("CTR after second BC = %d, want 0", c.CTR())
	}
	if c.PC() != 0x104 {
		t.Errorf("PC after second BC = %#x, want 0x104 (not taken once CTR reaches 0)", c.PC())
	}
}
