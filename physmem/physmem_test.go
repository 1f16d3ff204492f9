package physmem

import "testing"

func TestReadWriteRoundTrip(t *testing.T) {
	m := New(4096)
	if m.Write32(0x100, 0xDEADBEEF) {
		t.Fatal("unexpected out-of-range error")
	}
	v, err := m.Read32(0x100)
	if err {
		t.Fatal("unexpected out-of-range error")
	}
	if v != 0xDEADBEEF {
		t.Errorf("Read32 = %#x, want 0xDEADBEEF", v)
	}
}

func TestBigEndianWireOrder(t *testing.T) {
	m := New(16)
	m.Write16(0, 0x1234)
	b0, _ := m.Read8(0)
	b1, _ := m.Read8(1)
	if b0 != 0x12 || b1 != 0x34 {
		t.Errorf("big-endian byte order violated: %#x %#x", b0, b1)
	}
}

func TestOutOfRange(t *testing.T) {
	m := New(16)
	if _, err := m.Read32(14); !err {
		t.Error("expected out-of-range error")
	}
	if !m.Write64(10, 1) {
		t.Error("expected out-of-range error")
	}
}

func TestMTSRoundTrip(t *testing.T) {
	// Exercises spec.md §8's "MTS round-trip" property at the physical layer:
	// a byte written via the physical path is read back at the same address.
	m := New(8192)
	m.Write8(0x1234, 0x42)
	v, err := m.Read8(0x1234)
	if err || v != 0x42 {
		t.Errorf("round trip failed: v=%#x err=%v", v, err)
	}
}
