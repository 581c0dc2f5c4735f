// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package listing

import (
	"sync"
	"time"
)

// DebounceConfig holds debouncer configuration.
type DebounceConfig struct {
	// Interval is the quiet window. Values triggered within this window
	// are coalesced and only the last one is delivered.
	Interval time.Duration
	// MaxWait caps how long a burst can postpone delivery (0 = no cap).
	MaxWait time.Duration
}

// DefaultDebounceConfig returns the search box defaults.
func DefaultDebounceConfig() DebounceConfig {
	return DebounceConfig{
		Interval: 450 * time.Millisecond,
	}
}

// pendingValue tracks a debounced value.
type pendingValue[T any] struct {
	value      T
	timer      *time.Timer
	firstSeen  time.Time
	lastUpdate time.Time
}

// Debouncer coalesces rapid-fire values (keystrokes) into a single
// delivery of the most recent one after the quiet window.
type Debouncer[T any] struct {
	config  DebounceConfig
	fn      func(T)
	mu      sync.Mutex
	pending *pendingValue[T]
	stopped bool
	wg      sync.WaitGroup
}

// NewDebouncer creates a debouncer delivering values to fn.
func NewDebouncer[T any](config DebounceConfig, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{
		config: config,
		fn:     fn,
	}
}

// Trigger queues v, replacing any pending value and restarting the window.
func (d *Debouncer[T]) Trigger(v T) {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if p := d.pending; p != nil {
		p.value = v
		p.lastUpdate = now
		if d.config.MaxWait > 0 && now.Sub(p.firstSeen) >= d.config.MaxWait {
			d.dispatchLocked()
			return
		}
		p.timer.Reset(d.config.Interval)
		return
	}

	p := &pendingValue[T]{
		value:      v,
		firstSeen:  now,
		lastUpdate: now,
	}
	p.timer = time.AfterFunc(d.config.Interval, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.pending != p {
			return
		}
		// A trigger may have landed while this callback waited for the lock.
		quiet := time.Since(p.lastUpdate)
		capped := d.config.MaxWait > 0 && time.Since(p.firstSeen) >= d.config.MaxWait
		if quiet < d.config.Interval && !capped {
			p.timer.Reset(d.config.Interval - quiet)
			return
		}
		d.dispatchLocked()
	})
	d.pending = p
}

// dispatchLocked delivers the pending value. Must be called with lock held.
func (d *Debouncer[T]) dispatchLocked() {
	p := d.pending
	if p == nil {
		return
	}
	p.timer.Stop()
	d.pending = nil

	d.wg.Add(1)
	go func(v T) {
		defer d.wg.Done()
		d.fn(v)
	}(p.value)
}

// Flush delivers any pending value now and waits for delivery to finish.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	d.dispatchLocked()
	d.mu.Unlock()
	d.wg.Wait()
}

// Cancel drops the pending value without delivering it.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		d.pending.timer.Stop()
		d.pending = nil
	}
}

// Stop cancels the pending value, rejects further triggers and waits for
// in-flight deliveries.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.pending != nil {
		d.pending.timer.Stop()
		d.pending = nil
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// Pending reports whether a value is waiting for its window to elapse.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}
