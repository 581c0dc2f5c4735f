// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package notify

import (
	"fmt"
	"io"
	"sync"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// Printer writes notifications to a terminal.
type Printer struct {
	mu      sync.Mutex
	w       io.Writer
	noColor bool
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer, noColor bool) *Printer {
	return &Printer{w: w, noColor: noColor}
}

// Print writes a single notification line.
func (p *Printer) Print(n Notification) {
	var color, mark string
	switch n.Level {
	case LevelSuccess:
		color, mark = colorGreen, "✓"
	case LevelWarning:
		color, mark = colorYellow, "⚠"
	case LevelError:
		color, mark = colorRed, "✗"
	default:
		color, mark = colorCyan, "→"
	}

	line := mark + " " + n.Message
	if !p.noColor {
		line = color + line + colorReset
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintln(p.w, line)
}
