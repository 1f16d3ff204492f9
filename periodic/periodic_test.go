package periodic

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestAddTaskFires(t *testing.T) {
	s := NewScheduler()
	var count atomic.Int32
	h := s.AddTask(5*time.Millisecond, func() {
		count.Add(1)
	})
	defer s.Cancel(h)

	deadline := time.After(500 * time.Millisecond)
	for count.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("task did not fire 3 times in time, got %d", count.Load())
		case <-time.After(time.Millisecond):
		}
	}
}

func TestCancelStopsFiring(t *testing.T) {
	s := NewScheduler()
	var count atomic.Int32
	h := s.AddTask(2*time.Millisecond, func() {
		count.Add(1)
	})
	time.Sleep(20 * time.Millisecond)
	s.Cancel(h)
	after := count.Load()
	time.Sleep(20 * time.Millisecond)
	if count.Load() != after {
		t.Errorf("task fired after cancel: before=%d after=%d", after, count.Load())
	}
}

func TestShutdownCancelsAll(t *testing.T) {
	s := NewScheduler()
	var count atomic.Int32
	s.AddTask(2*time.Millisecond, func() { count.Add(1) })
	s.AddTask(2*time.Millisecond, func() { count.Add(1) })
	time.Sleep(10 * time.Millisecond)
	s.Shutdown()
	after := count.Load()
	time.Sleep(10 * time.Millisecond)
	if count.Load() != after {
		t.Error("tasks still firing after Shutdown")
	}
}
