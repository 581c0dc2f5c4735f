// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package notify is the transient notification center. Every user-visible
// outcome of a resource action (saved, deleted, failed) is pushed here and
// fanned out to subscribers such as the CLI printer.
package notify

import (
	"sync"
	"time"
)

// Level is the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Categories used when the caller does not pass one.
const (
	CategoryResource = "resource"
	CategoryUpload   = "upload"
	CategorySession  = "session"
	CategorySystem   = "system"
)

// DefaultHistory is how many notifications a Center keeps for Recent.
const DefaultHistory = 50

// Notification is a single toast.
type Notification struct {
	Level    Level
	Category string
	Message  string
	Time     time.Time
}

// Notifier is what controllers depend on.
type Notifier interface {
	Notify(n Notification)
}

// Center stores recent notifications and fans them out to subscribers.
// It is safe for concurrent use.
type Center struct {
	mu      sync.Mutex
	history []Notification
	max     int
	subs    map[int]func(Notification)
	nextSub int
	now     func() time.Time
}

// NewCenter creates a Center keeping up to max notifications (DefaultHistory if max <= 0).
func NewCenter(max int) *Center {
	if max <= 0 {
		max = DefaultHistory
	}
	return &Center{
		max:  max,
		subs: make(map[int]func(Notification)),
		now:  time.Now,
	}
}

// Notify records n and delivers it to every subscriber.
func (c *Center) Notify(n Notification) {
	if n.Time.IsZero() {
		n.Time = c.now()
	}
	if n.Category == "" {
		n.Category = CategorySystem
	}

	c.mu.Lock()
	c.history = append(c.history, n)
	if len(c.history) > c.max {
		c.history = c.history[len(c.history)-c.max:]
	}
	subs := make([]func(Notification), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(n)
	}
}

// Success pushes a success notification.
func (c *Center) Success(category, msg string) {
	c.Notify(Notification{Level: LevelSuccess, Category: category, Message: msg})
}

// Info pushes an informational notification.
func (c *Center) Info(category, msg string) {
	c.Notify(Notification{Level: LevelInfo, Category: category, Message: msg})
}

// Warn pushes a warning notification.
func (c *Center) Warn(category, msg string) {
	c.Notify(Notification{Level: LevelWarning, Category: category, Message: msg})
}

// Error pushes an error notification.
func (c *Center) Error(category, msg string) {
	c.Notify(Notification{Level: LevelError, Category: category, Message: msg})
}

// Subscribe registers fn and returns a function that removes it.
func (c *Center) Subscribe(fn func(Notification)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Recent returns a copy of the retained notifications, oldest first.
func (c *Center) Recent() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.history))
	copy(out, c.history)
	return out
}

// Last returns the most recent notification, if any.
func (c *Center) Last() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.history) == 0 {
		return Notification{}, false
	}
	return c.history[len(c.history)-1], true
}

// Discard is a Notifier that drops everything.
type Discard struct{}

// Notify implements Notifier.
func (Discard) Notify(Notification) {}

var (
	_ Notifier = (*Center)(nil)
	_ Notifier = Discard{}
)
