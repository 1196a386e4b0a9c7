// Package confirm implements the confirmation gate in front of destructive
// donation operations. A Workflow holds at most one pending prompt; the
// presentation layer renders it and reports the user's choice back through
// Confirm, Cancel, or Dismiss.
package confirm

import "sync"

// Prompt is the payload shown to the user while a confirmation is pending.
type Prompt struct {
	Title       string
	Message     string
	OnConfirm   func()
	AllowCancel bool
}

// Workflow is a two-state machine: Idle, or awaiting confirmation of the
// stored prompt. Requesting while a prompt is pending overwrites it (last
// request wins); there is no queue.
type Workflow struct {
	mu      sync.Mutex
	pending *Prompt
}

func New() *Workflow {
	return &Workflow{}
}

// Request transitions the workflow to awaiting-confirmation with the given
// prompt, replacing any prompt already pending.
func (w *Workflow) Request(p Prompt) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = &p
}

// Pending returns the current prompt, if any.
func (w *Workflow) Pending() (Prompt, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil {
		return Prompt{}, false
	}
	return *w.pending, true
}

// Confirm resolves the pending prompt, invoking its action exactly once.
// A no-op while idle. The action runs outside the workflow lock so it may
// issue a follow-up Request (the usual outcome prompt after a delete).
func (w *Workflow) Confirm() {
	w.mu.Lock()
	pending := w.pending
	w.pending = nil
	w.mu.Unlock()
	if pending != nil && pending.OnConfirm != nil {
		pending.OnConfirm()
	}
}

// Cancel resolves the pending prompt without invoking its action. Only
// prompts that offered a cancel option can be cancelled; for the rest the
// call is ignored and the prompt stays pending.
func (w *Workflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil || !w.pending.AllowCancel {
		return
	}
	w.pending = nil
}

// Dismiss drops the pending prompt without invoking its action. This is the
// close-without-choice path; unlike Cancel it applies to any prompt.
func (w *Workflow) Dismiss() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = nil
}
