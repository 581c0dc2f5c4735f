// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package listing

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	values []string
}

func (r *recorder) add(v string) {
	r.mu.Lock()
	r.values = append(r.values, v)
	r.mu.Unlock()
}

func (r *recorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.values...)
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(DebounceConfig{Interval: 40 * time.Millisecond}, rec.add)
	defer d.Stop()

	for _, v := range []string{"c", "ch", "cha", "chai", "chair"} {
		d.Trigger(v)
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return len(rec.get()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"chair"}, rec.get())
	assert.False(t, d.Pending())
}

func TestDebouncer_Flush(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(DebounceConfig{Interval: time.Hour}, rec.add)
	defer d.Stop()

	d.Trigger("a")
	assert.True(t, d.Pending())
	d.Flush()
	assert.Equal(t, []string{"a"}, rec.get())
}

func TestDebouncer_Cancel(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(DebounceConfig{Interval: 20 * time.Millisecond}, rec.add)
	defer d.Stop()

	d.Trigger("a")
	d.Cancel()
	assert.Never(t, func() bool { return len(rec.get()) > 0 }, 80*time.Millisecond, 10*time.Millisecond)
}

func TestDebouncer_StopRejectsTriggers(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(DebounceConfig{Interval: 10 * time.Millisecond}, rec.add)

	d.Trigger("a")
	d.Stop()
	d.Trigger("b")
	assert.False(t, d.Pending())
	assert.Never(t, func() bool { return len(rec.get()) > 0 }, 60*time.Millisecond, 10*time.Millisecond)
}

func TestDebouncer_MaxWait(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(DebounceConfig{Interval: 30 * time.Millisecond, MaxWait: 60 * time.Millisecond}, rec.add)
	defer d.Stop()

	deadline := time.Now().Add(150 * time.Millisecond)
	for i := 0; time.Now().Before(deadline); i++ {
		d.Trigger("x")
		time.Sleep(10 * time.Millisecond)
	}

	assert.NotEmpty(t, rec.get())
}
