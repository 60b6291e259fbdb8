// internal/common/clock/clock.go
package clock

import (
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval so date-sensitive logic (daily budget reset,
// lockout expiry, milestone windows) is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator abstracts unique ID generation so tests are deterministic.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }
