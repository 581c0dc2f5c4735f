// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"fmt"
	"time"
)

// Phase is where the create/edit dialog is in its lifecycle.
type Phase int

const (
	// Closed means no dialog; there is no draft.
	Closed Phase = iota
	// Creating means a blank draft is open for a new record.
	Creating
	// LoadingForEdit means the record is being fetched to fill the draft.
	LoadingForEdit
	// Editing means a draft of an existing record is open.
	Editing
	// Submitting means uploads and the save call are in flight; the draft
	// is read-only.
	Submitting
)

func (p Phase) String() string {
	switch p {
	case Closed:
		return "closed"
	case Creating:
		return "creating"
	case LoadingForEdit:
		return "loading-for-edit"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Open reports whether a draft exists in this phase.
func (p Phase) Open() bool {
	return p == Creating || p == Editing || p == Submitting
}

// validTransitions is the transition matrix. A failed submit goes back to
// the phase it came from, so Submitting may lead to Creating or Editing.
var validTransitions = map[Phase]map[Phase]bool{
	Closed:         {Creating: true, LoadingForEdit: true},
	Creating:       {Submitting: true, Closed: true},
	LoadingForEdit: {Editing: true, Closed: true},
	Editing:        {Submitting: true, Closed: true},
	Submitting:     {Closed: true, Creating: true, Editing: true},
}

// CanTransition reports whether from → to is allowed.
func CanTransition(from, to Phase) bool {
	return validTransitions[from][to]
}

// TransitionError is returned for a disallowed phase change.
type TransitionError struct {
	From Phase
	To   Phase
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("form: transition %s → %s not allowed", e.From, e.To)
}

// TransitionRecord is one entry of the phase history.
type TransitionRecord struct {
	From Phase
	To   Phase
	At   time.Time
}
