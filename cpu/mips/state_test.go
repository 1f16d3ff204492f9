package mips

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
	log := logger.New("mips-test", io.Discard, nil)
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

func TestGPRZeroHardwired(t *testing.T) {
	c := newTestCPU(t, 0x10000)
	c.SetGPR(0, 0xDEADBEEF)
	if c.GPR(0) != 0 {
		t.Errorf("GPR(0) = %#x, want 0", c.GPR(0))
	}
}

func TestADDIUSignExtends(t *testing.T) {
	// spec.md §8: ADDIU $1, $0, -1 must leave $1 = 0xFFFFFFFFFFFFFFFF, not
	// zero-extended 0x00000000FFFFFFFF.
	c := newTestCPU(t, 0x10000)
	storeWord(t, c, 0, 0x2401FFFF) // ADDIU $1, $0, -1
	c.SetPC(kseg0Base) // kseg0 is unmapped: fetches physical 0
	c.Step()
	if c.GPR(1) != 0xFFFFFFFFFFFFFFFF {
		t.Errorf("$1 = %#x, want all-ones sign extension", c.GPR(1))
	}
}

func buildRType(rsReg, rtReg, rdReg, shamt uint8, funct uint32) uint32 {
	return (uint32(rsReg) << 21) | (uint32(rtReg) << 16) | (uint32(rdReg) << 11) | (uint32(shamt) << 6) | funct
}

func TestSRASignExtendsToBit63(t *testing.T) {
	c := newTestCPU(t, 0x10000)
	c.SetGPR(2, 0x0000000080000000) // negative 32-bit value in the low word
	storeWord(t, c, 0, buildRType(0, 2, 1, 4, 0x03)) // SRA $1, $2, 4
	c.SetPC(kseg0Base)
	c.Step()
	want := uint64(0xFFFFFFFFF8000000) // int32(0x80000000) >> 4, sign-extended to 64 bits
	if c.GPR(1) != want {
		t.Errorf("SRA result = %#x, want %#x", c.GPR(1), want)
	}
}

func TestBranchDelaySlotAlwaysExecutes(t *testing.T) {
	// BEQ $0,$0,1 (taken); delay slot ADDIU $2,$0,7 must still execute.
	c := newTestCPU(t, 0x10000)
	storeWord(t, c, 0, 0x10000001) // BEQ $0, $0, 1
	storeWord(t, c, 4, 0x24020007) // ADDIU $2, $0, 7 (delay slot)
	storeWord(t, c, 12, 0x24030009)
	c.SetPC(kseg0Base)
	c.Step()
	if c.GPR(2) != 7 {
		t.Errorf("delay slot did not execute: $2 = %d, want 7", c.GPR(2))
	}
	if c.PC() != kseg0Base+12 {
		t.Errorf("PC after taken branch = %#x, want %#x", c.PC(), kseg0Base+12)
	}
}

func TestTLBRefillScenario(t *testing.T) {
	// spec.md §8: map VPN2=0x1000 even page to PFN 0 (valid, global), odd
	// page invalid; LB at 0x1000 hits, LB at 0x2000 misses (different VPN2).
	c := newTestCPU(t, 0x10000)
	c.cp0.reg[CP0PageMask] = 0
	c.cp0.reg[CP0EntryHi] = 0x1000
	c.cp0.reg[CP0EntryLo0] = 0x0000003F // valid, dirty, global, PFN 0
	c.cp0.reg[CP0EntryLo1] = 0
	c.cp0.reg[CP0Index] = 0
	c.TLBWriteIndexed()

	// LB $1, 0x1000($0): rs=0 base, rt=1, imm=0x1000.
	storeWord(t, c, 0, 0x80010000|0x1000)
	c.SetPC(kseg0Base)
	c.Step()
	if c.State() == Halted {
		t.Fatalf("unexpected halt servicing mapped address 0x1000")
	}

	// LB $1, 0x2000($0): same VPN2 region test expects a TLB miss since
	// 0x2000 falls outside this entry's VPN2.
	storeWord(t, c, 4, 0x80010000|0x2000)
	c.SetPC(kseg0Base + 4)
	before := c.cp0.reg[CP0EPC]
	c.Step()
	if c.cp0.reg[CP0EPC] == before && c.PC() == kseg0Base+8 {
		t.Errorf("expected a TLB miss exception servicing 0x2000, CPU advanced normally")
	}
}

func TestLWLLWRMergeUnalignedWord(t *testing.T) {
	c := newTestCPU(t, 0x10000)
	// Memory word at 0x100: 0x11223344 (big-endian bytes 11 22 33 44).
	storeWord(t, c, 0x100, 0x11223344)
	c.SetGPR(2, kseg0Base+0x100)
	c.SetGPR(1, 0xAAAAAAAAAAAAAAAA)

	// LWL $1, 1($2): the bytes from 0x101 to the end of the word (22 33 44)
	// fill $1's top three bytes.
	execLWL(c, buildIType(0x22, 2, 1, 1))
	if uint32(c.GPR(1)) != 0x223344AA {
		t.Errorf("LWL result = %#x, want 0x223344AA", uint32(c.GPR(1)))
	}

	c.SetGPR(1, 0xAAAAAAAAAAAAAAAA)
	// LWR $1, 1($2): the bytes from the start of the word up to 0x101
	// (11 22) fill $1's low two bytes.
	execLWR(c, buildIType(0x26, 2, 1, 1))
	if uint32(c.GPR(1)) != 0xAAAA1122 {
		t.Errorf("LWR result = %#x, want 0xAAAA1122", uint32(c.GPR(1)))
	}
}

func buildIType(opcode uint32, rsReg, rtReg uint8, imm uint16) uint32 {
	return (opcode << 26) | (uint32(rsReg) << 21) | (uint32(rtReg) << 16) | uint32(imm)
}

func TestLLSCReservation(t *testing.T) {
	c := newTestCPU(t, 0x10000)
	storeWord(t, c, 0x200, 42)
	c.SetGPR(4, kseg0Base+0x200)

	execLL(c, buildIType(0x30, 4, 2, 0)) // LL $2, 0($4)
	if c.GPR(2) != 42 {
		t.Fatalf("LL loaded %d, want 42", c.GPR(2))
	}
	c.SetGPR(3, 99)
	execSC(c, buildIType(0x38, 4, 3, 0)) // SC $3, 0($4)
	if c.GPR(3) != 1 {
		t.Errorf("first SC result = %d, want 1 (reservation held)", c.GPR(3))
	}

	// A second SC without a fresh LL must fail.
	c.SetGPR(3, 123)
	execSC(c, buildIType(0x38, 4, 3, 0))
	if c.GPR(3) != 0 {
		t.Errorf("second SC result = %d, want 0 (no reservation)", c.GPR(3))
	}
}

func TestTimerIRQDelivery(t *testing.T) {
	c := newTestCPU(t, 0x10000)
	c.cp0.reg[CP0Status] = statusIE | (1 << 15) // IE set, IM7 unmasked
	c.timerIRQPending.Add(1)
	c.irqLines.Raise(timerIRQLine)
	c.irqCheck.Store(true)

	c.SetPC(0x80)
	c.Step()

	if c.TimerTicks() != 1 {
		t.Errorf("TimerTicks = %d, want 1", c.TimerTicks())
	}
	if c.PC() != bootstrapBase+Interrupt.Vector() {
		t.Errorf("PC after interrupt = %#x, want exception vector", c.PC())
	}
}
