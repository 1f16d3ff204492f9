package mts

import (
	"errors"
	"testing"
)

type fakeResolver struct {
	entry Entry
	err   error
}

func (f fakeResolver) Resolve(vaddr uint64, write, exec bool) (Entry, error) {
	return f.entry, f.err
}

func TestTranslateMissThenHit(t *testing.T) {
	c := NewCache(16, 12)
	r := fakeResolver{entry: Entry{VPage: 0x1000, PPage: 0x2000, Host: 0x3000}}

	e, err := c.Translate(0x1000, false, false, r)
	if err != nil {
		t.Fatalf("Translate miss: %v", err)
	}
	if e.PPage != 0x2000 {
		t.Errorf("PPage = %#x, want 0x2000", e.PPage)
	}

	// Second lookup should hit the cache without consulting the resolver.
	r2 := fakeResolver{err: errors.New("resolver should not be called")}
	if _, err := c.Translate(0x1000, false, false, r2); err != nil {
		t.Fatalf("Translate should have hit cache: %v", err)
	}
}

func TestTranslateReadOnlyWrite(t *testing.T) {
	c := NewCache(16, 12)
	r := fakeResolver{entry: Entry{VPage: 0x1000, Flags: ReadOnly}}
	if _, err := c.Translate(0x1000, false, false, r); err != nil {
		t.Fatalf("read should succeed: %v", err)
	}
	if _, err := c.Translate(0x1000, true, false, r); !errors.Is(err, ErrReadOnly) {
		t.Errorf("write to read-only entry: got %v, want ErrReadOnly", err)
	}
}

func TestInvalidateAll(t *testing.T) {
	c := NewCache(16, 12)
	c.Fill(Entry{VPage: 0x4000})
	if _, ok := c.Lookup(0x4000); !ok {
		t.Fatal("expected hit before invalidation")
	}
	c.InvalidateAll()
	if _, ok := c.Lookup(0x4000); ok {
		t.Error("expected miss after InvalidateAll")
	}
}

func TestHostAddrPreservesOffset(t *testing.T) {
	c := NewCache(16, 12)
	e := Entry{VPage: 0x1000, Host: 0x80000000}
	if got := c.HostAddr(e, 0x1042); got != 0x80000042 {
		t.Errorf("HostAddr = %#x, want 0x80000042", got)
	}
}
