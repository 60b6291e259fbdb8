// internal/notify/budget.go
package notify

import (
	"sync"

	"remotehire/internal/common/clock"
)

// DefaultDailyLimit is the ceiling on outbound emails per UTC day.
const DefaultDailyLimit = 80

// Budget tracks outbound email volume per UTC calendar day. The counter is
// in-memory only: a restart resets it, which is acceptable because the limit
// exists to protect the provider quota, not to give a hard guarantee.
type Budget struct {
	mu    sync.Mutex
	clock clock.Clock
	limit int
	day   string
	sent  int
}

func NewBudget(clk clock.Clock, limit int) *Budget {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	return &Budget{clock: clk, limit: limit}
}

// CanSend reports whether another email fits in today's budget.
func (b *Budget) CanSend() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollover()
	return b.sent < b.limit
}

// RecordSent counts one accepted send against today's budget. Callers invoke
// it only after the transport accepted the message.
func (b *Budget) RecordSent() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollover()
	b.sent++
}

// Remaining returns how many sends are left today.
func (b *Budget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollover()
	if b.sent >= b.limit {
		return 0
	}
	return b.limit - b.sent
}

func (b *Budget) rollover() {
	today := b.clock.Now().UTC().Format("2006-01-02")
	if today != b.day {
		b.day = today
		b.sent = 0
	}
}
