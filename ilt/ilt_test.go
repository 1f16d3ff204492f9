package ilt

import "testing"

func TestLookupSpecificityOrdering(t *testing.T) {
	// NOP (mask all-ones, match all-zero) must win over a broader SLL-like
	// pattern that would otherwise subsume word==0.
	rows := []Row[string]{
		{Name: "SLL", Mask: 0xFC00003F, Match: 0x00000000, Handler: "sll"},
		{Name: "NOP", Mask: 0xFFFFFFFF, Match: 0x00000000, Handler: "nop"},
	}
	table := Build(rows, "unknown")
	if got := table.Lookup(0); got != "nop" {
		t.Errorf("Lookup(0) = %q, want %q", got, "nop")
	}
	if got := table.Lookup(0x00000040); got != "sll" {
		t.Errorf("Lookup(0x40) = %q, want %q", got, "sll")
	}
}

func TestLookupCatchAll(t *testing.T) {
	rows := []Row[string]{
		{Name: "ADDIU", Mask: 0xFC000000, Match: 0x24000000, Handler: "addiu"},
	}
	table := Build(rows, "unknown")
	if got := table.Lookup(0xFFFFFFFF); got != "unknown" {
		t.Errorf("Lookup(unmatched) = %q, want %q", got, "unknown")
	}
}

func TestLookupLowBucketFallback(t *testing.T) {
	// A row keyed entirely by its low 16 bits (e.g. a function-field decode
	// that leaves the high half open) must be found via the low bucket when
	// the high-bucket scan misses.
	rows := []Row[string]{
		{Name: "FUNC", Mask: 0x0000FFFF, Match: 0x00000021, Handler: "func"},
	}
	table := Build(rows, "unknown")
	if got := table.Lookup(0x12340021); got != "func" {
		t.Errorf("Lookup via low bucket = %q, want %q", got, "func")
	}
}

func TestLookupWildFallback(t *testing.T) {
	rows := []Row[string]{
		{Name: "WILD", Mask: 0x0000003F, Match: 0x00000021, Handler: "wild"},
	}
	table := Build(rows, "unknown")
	if got := table.Lookup(0xABCD1061); got != "wild" {
		t.Errorf("Lookup via wild list = %q, want %q", got, "wild")
	}
}
