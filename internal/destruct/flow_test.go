// internal/destruct/flow_test.go
package destruct

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remotehire/internal/testutil"
)

func advanceToFinalQuestion(t *testing.T, f *Flow) {
	t.Helper()
	require.True(t, f.Open())
	require.True(t, f.Acknowledge()) // CONFIRM_1 -> CONFIRM_2
	require.True(t, f.Acknowledge()) // CONFIRM_2 -> CONFIRM_3
	require.True(t, f.Acknowledge()) // CONFIRM_3 -> PASSWORD_ENTRY
	require.True(t, f.SubmitPassword("hunter2"))
	assert.Equal(t, StateFinalQuestion, f.State())
}

func TestFlowHappyPath(t *testing.T) {
	f := NewFlow(testutil.FixedClock())
	assert.Equal(t, StateIdle, f.State())

	advanceToFinalQuestion(t, f)
	require.True(t, f.BeginExecution())
	assert.Equal(t, StateExecuting, f.State())

	f.RecordSuccess()
	assert.Equal(t, StateDestroyed, f.State())
	assert.False(t, f.Open(), "a destroyed flow cannot be reopened")
}

func TestFlowCancelIsPenaltyFree(t *testing.T) {
	f := NewFlow(testutil.FixedClock())
	advanceToFinalQuestion(t, f)

	f.Cancel()
	assert.Equal(t, StateIdle, f.State())
	assert.Equal(t, MaxAttempts, f.AttemptsRemaining())
	assert.True(t, f.Open())
}

func TestFlowRejectsOutOfOrderSteps(t *testing.T) {
	f := NewFlow(testutil.FixedClock())

	assert.False(t, f.Acknowledge(), "cannot acknowledge from IDLE")
	assert.False(t, f.SubmitPassword("hunter2"), "cannot submit password from IDLE")
	assert.False(t, f.BeginExecution(), "cannot execute from IDLE")

	require.True(t, f.Open())
	assert.False(t, f.SubmitPassword("hunter2"), "cannot skip the warnings")

	require.True(t, f.Acknowledge())
	require.True(t, f.Acknowledge())
	require.True(t, f.Acknowledge())
	assert.False(t, f.SubmitPassword(""), "empty password does not advance")
	assert.Equal(t, StatePasswordEntry, f.State())
}

func TestFlowEarlyFailuresReturnToFirstWarning(t *testing.T) {
	f := NewFlow(testutil.FixedClock())
	advanceToFinalQuestion(t, f)
	require.True(t, f.BeginExecution())

	f.RecordFailure()
	assert.Equal(t, StateConfirm1, f.State())
	assert.Equal(t, 2, f.AttemptsRemaining())

	// The counter survives a second attempt through the flow.
	require.True(t, f.Acknowledge())
	require.True(t, f.Acknowledge())
	require.True(t, f.Acknowledge())
	require.True(t, f.SubmitPassword("hunter2"))
	require.True(t, f.BeginExecution())
	f.RecordFailure()
	assert.Equal(t, 1, f.AttemptsRemaining())
}

func TestFlowThirdStrikeLocksOut(t *testing.T) {
	clk := testutil.FixedClock()
	f := NewFlow(clk)

	for i := 0; i < MaxAttempts; i++ {
		f.RecordFailure()
	}
	assert.Equal(t, StateLockedOut, f.State())
	assert.Equal(t, 0, f.AttemptsRemaining())
	assert.False(t, f.Open())
	assert.Equal(t, clk.Now().Add(LockoutDuration), f.LockedUntil())

	// Still locked one minute before the deadline.
	clk.Advance(LockoutDuration - time.Minute)
	assert.False(t, f.Open())

	// Expiry clears the counter and reopens the flow.
	clk.Advance(2 * time.Minute)
	assert.Equal(t, StateIdle, f.State())
	assert.Equal(t, MaxAttempts, f.AttemptsRemaining())
	assert.True(t, f.Open())
}

func TestFlowSuccessBeforeThirdStrike(t *testing.T) {
	f := NewFlow(testutil.FixedClock())
	f.RecordFailure()
	f.RecordFailure()

	advanceToFinalQuestion(t, f)
	require.True(t, f.BeginExecution())
	f.RecordSuccess()
	assert.Equal(t, StateDestroyed, f.State())
}
