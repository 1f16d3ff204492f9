package bitutil

import "testing"

func TestSignExtend64(t *testing.T) {
	tests := []struct {
		v     uint64
		width uint
		want  int64
	}{
		{0x0000000000000001, 32, 1},
		{0x00000000FFFFFFFF, 32, -1},
		{0x000000007FFFFFFF, 32, 0x7FFFFFFF},
		{0x0000000080000000, 32, -0x80000000},
		{0x1, 1, -1},
	}
	for _, tc := range tests {
		if got := SignExtend64(tc.v, tc.width); got != tc.want {
			t.Errorf("SignExtend64(%#x,%d) = %#x, want %#x", tc.v, tc.width, got, tc.want)
		}
	}
}

func TestBits32(t *testing.T) {
	v := uint32(0xABCD1234)
	if got := Bits32(v, 0, 7); got != 0x34 {
		t.Errorf("Bits32 low byte = %#x, want 0x34", got)
	}
	if got := Bits32(v, 16, 31); got != 0xABCD {
		t.Errorf("Bits32 high half = %#x, want 0xABCD", got)
	}
}

func TestSwap(t *testing.T) {
	if Swap16(0x1234) != 0x3412 {
		t.Errorf("Swap16 failed")
	}
	if Swap32(0x12345678) != 0x78563412 {
		t.Errorf("Swap32 failed")
	}
	if Swap64(0x0123456789ABCDEF) != 0xEFCDAB8967452301 {
		t.Errorf("Swap64 failed")
	}
}

func TestNtoHRoundTrip(t *testing.T) {
	b := make([]byte, 8)
	HtoN32(b, 0xDEADBEEF)
	if got := NtoH32(b); got != 0xDEADBEEF {
		t.Errorf("NtoH32(HtoN32(x)) = %#x, want 0xDEADBEEF", got)
	}
	HtoN64(b, 0x1122334455667788)
	if got := NtoH64(b); got != 0x1122334455667788 {
		t.Errorf("NtoH64(HtoN64(x)) = %#x, want 0x1122334455667788", got)
	}
}

func TestVMEndianRoundTrip(t *testing.T) {
	for _, w := range []uint32{0, 1, 0xDEADBEEF, 0xFFFFFFFF, 0x12345678} {
		if got := HtoVM32(VMtoH32(w)); got != w {
			t.Errorf("HtoVM32(VMtoH32(%#x)) = %#x, want %#x", w, got, w)
		}
		if got := VMtoH32(HtoVM32(w)); got != w {
			t.Errorf("VMtoH32(HtoVM32(%#x)) = %#x, want %#x", w, got, w)
		}
	}
}
