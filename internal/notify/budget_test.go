// internal/notify/budget_test.go
package notify_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"remotehire/internal/notify"
	"remotehire/internal/testutil"
)

func TestBudgetBlocksAtCeiling(t *testing.T) {
	clk := testutil.FixedClock()
	budget := notify.NewBudget(clk, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, budget.CanSend())
		budget.RecordSent()
	}
	assert.False(t, budget.CanSend())
	assert.Equal(t, 0, budget.Remaining())
}

func TestBudgetResetsAtUTCMidnight(t *testing.T) {
	clk := testutil.NewStubClock(time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC))
	budget := notify.NewBudget(clk, 2)

	budget.RecordSent()
	budget.RecordSent()
	assert.False(t, budget.CanSend())

	clk.Advance(2 * time.Minute)
	assert.True(t, budget.CanSend())
	assert.Equal(t, 2, budget.Remaining())
}

func TestBudgetDefaultsLimit(t *testing.T) {
	budget := notify.NewBudget(testutil.FixedClock(), 0)
	assert.Equal(t, notify.DefaultDailyLimit, budget.Remaining())
}
