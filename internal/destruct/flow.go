// internal/destruct/flow.go
package destruct

import (
	"sync"
	"time"

	"remotehire/internal/common/clock"
)

// FlowState is one stage of the confirmation sequence.
type FlowState string

const (
	StateIdle          FlowState = "IDLE"
	StateConfirm1      FlowState = "CONFIRM_1"
	StateConfirm2      FlowState = "CONFIRM_2"
	StateConfirm3      FlowState = "CONFIRM_3"
	StatePasswordEntry FlowState = "PASSWORD_ENTRY"
	StateFinalQuestion FlowState = "FINAL_QUESTION"
	StateExecuting     FlowState = "EXECUTING"
	StateDestroyed     FlowState = "DESTROYED"
	StateLockedOut     FlowState = "LOCKED_OUT"
)

const (
	// MaxAttempts failed executions trigger a lockout.
	MaxAttempts = 3
	// LockoutDuration is how long the flow stays closed after a lockout.
	LockoutDuration = 30 * time.Minute
)

// Flow is the stateful confirmation sequence gating the destructive actions.
// It is a deliberate-friction mechanism, not a security control: the failure
// counter and lockout live with whoever holds the Flow, and a fresh Flow
// starts clean. The authoritative secret check happens in Service.Execute.
type Flow struct {
	mu          sync.Mutex
	clock       clock.Clock
	state       FlowState
	failures    int
	lockedUntil time.Time
}

func NewFlow(clk clock.Clock) *Flow {
	return &Flow{clock: clk, state: StateIdle}
}

// State reports the current stage, resolving an expired lockout first.
func (f *Flow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expireLockout()
	return f.state
}

// AttemptsRemaining reports how many failed executions are left before lockout.
func (f *Flow) AttemptsRemaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expireLockout()
	if f.failures >= MaxAttempts {
		return 0
	}
	return MaxAttempts - f.failures
}

// LockedUntil returns the lockout deadline, or zero when not locked out.
func (f *Flow) LockedUntil() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expireLockout()
	return f.lockedUntil
}

// Open starts the confirmation sequence. It refuses while locked out.
func (f *Flow) Open() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expireLockout()
	if f.state == StateLockedOut || f.state == StateDestroyed {
		return false
	}
	f.state = StateConfirm1
	return true
}

// Acknowledge advances through the three warning stages and into the secret
// entry stages. Returns false when the current state has no forward step.
func (f *Flow) Acknowledge() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expireLockout()
	switch f.state {
	case StateConfirm1:
		f.state = StateConfirm2
	case StateConfirm2:
		f.state = StateConfirm3
	case StateConfirm3:
		f.state = StatePasswordEntry
	default:
		return false
	}
	return true
}

// SubmitPassword advances optimistically to the final question. The password
// is only checked for plausibility here; the authoritative comparison happens
// server-side together with the final answer.
func (f *Flow) SubmitPassword(password string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expireLockout()
	if f.state != StatePasswordEntry || password == "" {
		return false
	}
	f.state = StateFinalQuestion
	return true
}

// BeginExecution moves into the executing stage for the combined server check.
func (f *Flow) BeginExecution() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expireLockout()
	if f.state != StateFinalQuestion {
		return false
	}
	f.state = StateExecuting
	return true
}

// RecordFailure counts one rejected execution. The third strike locks the
// flow for LockoutDuration; earlier strikes return to the first warning with
// the counter preserved.
func (f *Flow) RecordFailure() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures++
	if f.failures >= MaxAttempts {
		f.state = StateLockedOut
		f.lockedUntil = f.clock.Now().Add(LockoutDuration)
		return
	}
	f.state = StateConfirm1
}

// RecordSuccess marks the flow permanently destroyed.
func (f *Flow) RecordSuccess() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateDestroyed
	f.failures = 0
	f.lockedUntil = time.Time{}
}

// Cancel abandons the sequence with no penalty. Lockout and the destroyed
// terminal state are unaffected.
func (f *Flow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expireLockout()
	if f.state == StateLockedOut || f.state == StateDestroyed {
		return
	}
	f.state = StateIdle
}

func (f *Flow) expireLockout() {
	if f.state != StateLockedOut {
		return
	}
	if f.clock.Now().Before(f.lockedUntil) {
		return
	}
	f.state = StateIdle
	f.failures = 0
	f.lockedUntil = time.Time{}
}
