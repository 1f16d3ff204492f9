/*
ciscocore - CPU construction options

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

// Package config replaces the teacher's configuration-file parser with a
// set of Go-native functional options: the core itself has no CLI or file
// format (spec.md §1 names both as non-goals), but construction-time
// choices spec.md leaves as prose ("48-64 TLB entries", a clock divisor,
// an idle-PC) still need an explicit, validated home instead of scattered
// magic constants.
package config

import (
	"fmt"
	"time"
)

// Options is the immutable snapshot every CPU takes at construction.
type Options struct {
	ClockDivisor     uint32        // instructions per virtual Count tick
	TLBEntries       int           // MIPS software TLB size, 48-64
	IdlePC           uint64        // PC recognised as the guest idle loop
	IdleThreshold    int           // consecutive idle-PC hits before yielding
	ExecPageBits     uint          // log2 of the cached exec-page size
	TimerIRQCheckItv int           // loop iterations between timer-pending checks
	TimerFrequency   time.Duration // virtual timer tick period
	MTSCacheSize     int           // MTS direct-mapped cache entries, power of two
}

// Default returns the baseline snapshot; Option values refine it.
func Default() *Options {
	return &Options{
		ClockDivisor:     4,
		TLBEntries:       64,
		IdlePC:           0,
		IdleThreshold:    1000,
		ExecPageBits:     12,
		TimerIRQCheckItv: 1000,
		TimerFrequency:   time.Millisecond,
		MTSCacheSize:     1024,
	}
}

// Option validates and applies one construction-time setting.
type Option func(*Options) error

// New builds an Options snapshot from Default() refined by opts, in order.
func New(opts ...Option) (*Options, error) {
	o := Default()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithClockDivisor sets the Count-register virtualisation divisor.
func WithClockDivisor(d uint32) Option {
	return func(o *Options) error {
		if d == 0 {
			return fmt.Errorf("config: clock divisor must be nonzero")
		}
		o.ClockDivisor = d
		return nil
	}
}

// WithTLBEntries sets the MIPS software TLB size; spec.md §3 bounds it to
// 48-64 entries.
func WithTLBEntries(n int) Option {
	return func(o *Options) error {
		if n < 48 || n > 64 {
			return fmt.Errorf("config: tlb entries %d out of range [48,64]", n)
		}
		o.TLBEntries = n
		return nil
	}
}

// WithIdlePC sets the PC recognised as the guest idle loop, and the
// consecutive-hit threshold before the execution loop yields to the
// supervisor.
func WithIdlePC(pc uint64, threshold int) Option {
	return func(o *Options) error {
		if threshold <= 0 {
			return fmt.Errorf("config: idle threshold must be positive, got %d", threshold)
		}
		o.IdlePC = pc
		o.IdleThreshold = threshold
		return nil
	}
}

// WithExecPageBits sets the log2 size of the cached exec-page; must be at
// least 12 (4 KiB, the MTS minimum page size from spec.md §4.C).
func WithExecPageBits(bits uint) Option {
	return func(o *Options) error {
		if bits < 12 {
			return fmt.Errorf("config: exec page bits %d below 4 KiB minimum", bits)
		}
		o.ExecPageBits = bits
		return nil
	}
}

// WithTimerIRQCheckItv sets how many loop iterations elapse between checks
// of the timer thread's pending counter (spec.md §4.F step 3).
func WithTimerIRQCheckItv(n int) Option {
	return func(o *Options) error {
		if n <= 0 {
			return fmt.Errorf("config: timer IRQ check interval must be positive, got %d", n)
		}
		o.TimerIRQCheckItv = n
		return nil
	}
}

// WithTimerFrequency sets the virtual timer thread's tick period.
func WithTimerFrequency(d time.Duration) Option {
	return func(o *Options) error {
		if d <= 0 {
			return fmt.Errorf("config: timer frequency must be positive, got %s", d)
		}
		o.TimerFrequency = d
		return nil
	}
}

// WithMTSCacheSize sets the MTS direct-mapped cache entry count; must be a
// power of two so index computation stays a shift-and-mask.
func WithMTSCacheSize(n int) Option {
	return func(o *Options) error {
		if n <= 0 || n&(n-1) != 0 {
			return fmt.Errorf("config: mts cache size %d is not a power of two", n)
		}
		o.MTSCacheSize = n
		return nil
	}
}
