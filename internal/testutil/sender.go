// internal/testutil/sender.go
package testutil

import (
	"context"
	"sync"

	"remotehire/internal/notify"
)

// RecordingSender captures every email handed to it. Set Err to make each
// Send fail with that error.
type RecordingSender struct {
	mu     sync.Mutex
	Err    error
	emails []notify.Email
}

func NewRecordingSender() *RecordingSender {
	return &RecordingSender{}
}

func (s *RecordingSender) Send(_ context.Context, email notify.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.emails = append(s.emails, email)
	return nil
}

// Sent returns a copy of everything delivered so far.
func (s *RecordingSender) Sent() []notify.Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notify.Email, len(s.emails))
	copy(out, s.emails)
	return out
}
