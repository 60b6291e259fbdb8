// internal/tracker/sweep.go
package tracker

import (
	"context"
	"time"

	"remotehire/internal/common/metrics"
	"remotehire/internal/models"
	"remotehire/internal/notify"
)

const (
	milestoneLower = 7 * 24 * time.Hour
	milestoneUpper = 9 * 24 * time.Hour
)

// SweepSevenDayMilestones scans for workers hired roughly seven days ago,
// sends one admin summary, and marks each selected record so it is never
// picked up again. The window has an upper bound so a long-skipped sweep does
// not flag records far past the milestone on every later pass.
//
// Records are marked regardless of the summary send outcome: a failed send
// is never retried, trading a lost summary for no duplicate admin email.
func (s *Service) SweepSevenDayMilestones(ctx context.Context) {
	if s.sender == nil || s.adminEmail == "" {
		return
	}

	records, err := s.store.GetAll(ctx)
	if err != nil {
		s.log.WithError(err).Error("milestone sweep could not load records", nil)
		return
	}

	now := s.clock.Now().UTC()
	var stale []models.ApplicationRecord
	for _, rec := range records {
		if rec.Status != models.StatusHired || rec.StartedDate.IsZero() || rec.SevenDayNotified {
			continue
		}
		age := now.Sub(rec.StartedDate)
		if age >= milestoneLower && age < milestoneUpper {
			stale = append(stale, rec)
		}
	}
	if len(stale) == 0 {
		return
	}

	metrics.MilestoneSweeps.Inc()

	if s.budget.CanSend() {
		email := notify.ComposeMilestoneSummary(s.adminEmail, stale)
		if err := s.sender.Send(ctx, email); err != nil {
			metrics.EmailsSent.WithLabelValues("milestone", "error").Inc()
			s.log.WithError(err).Error("milestone summary send failed",
				map[string]interface{}{"count": len(stale)})
		} else {
			s.budget.RecordSent()
			metrics.EmailsSent.WithLabelValues("milestone", "ok").Inc()
		}
	} else {
		metrics.EmailBudgetExhausted.Inc()
		s.log.Warn("daily email budget exhausted, milestone summary skipped",
			map[string]interface{}{"count": len(stale)})
	}

	for _, rec := range stale {
		err := s.store.UpdateFields(ctx, rec.AppID, map[string]string{
			models.FieldSevenDayNotified: "true",
		})
		if err != nil {
			s.log.WithError(err).Error("could not mark milestone record",
				map[string]interface{}{"appId": rec.AppID})
		}
	}
}
