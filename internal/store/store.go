// internal/store/store.go
package store

import (
	"context"
	"fmt"

	"remotehire/internal/models"
)

// RowStore is the flat-table abstraction over the backing record store.
// Lookups that find nothing return (nil, nil); only transport or parse
// failures surface as errors. Highlighting is cosmetic and its failures are
// swallowed by callers.
type RowStore interface {
	GetAll(ctx context.Context) ([]models.ApplicationRecord, error)
	GetByID(ctx context.Context, appID string) (*models.ApplicationRecord, error)
	GetByEmail(ctx context.Context, email string) (*models.ApplicationRecord, error)
	Append(ctx context.Context, rec models.ApplicationRecord) error
	UpdateFields(ctx context.Context, appID string, updates map[string]string) error
	Delete(ctx context.Context, appID string) error
	ApplyRowHighlight(ctx context.Context, appID, colorToken string) error
}

// ErrNoRowsUpdated is wrapped into field updates against a missing appId.
var ErrNoRowsUpdated = fmt.Errorf("no rows updated")

// applyFieldUpdates mutates rec according to the flat string updates map.
// Shared by the in-memory store; the Postgres store applies the same map as a
// SET clause and relies on the same field names.
func applyFieldUpdates(rec *models.ApplicationRecord, updates map[string]string) error {
	for field, value := range updates {
		switch field {
		case models.FieldStatus:
			s, ok := models.ParseStatus(value)
			if !ok {
				return fmt.Errorf("invalid status value %q", value)
			}
			rec.Status = s
		case models.FieldNotes:
			rec.Notes = value
		case models.FieldLastUpdated:
			t, err := models.DecodeTime(value)
			if err != nil {
				return err
			}
			rec.LastUpdated = t
		case models.FieldStartedDate:
			t, err := models.DecodeTime(value)
			if err != nil {
				return err
			}
			rec.StartedDate = t
		case models.FieldRejectionDate:
			t, err := models.DecodeTime(value)
			if err != nil {
				return err
			}
			rec.RejectionDate = t
		case models.FieldNotifiedStatuses:
			statuses, err := models.DecodeStatuses(value)
			if err != nil {
				return err
			}
			rec.NotifiedStatuses = statuses
		case models.FieldAuditTrail:
			trail, err := models.DecodeAuditTrail(value)
			if err != nil {
				return err
			}
			rec.AuditTrail = trail
		case models.FieldSevenDayNotified:
			rec.SevenDayNotified = value == "true"
		case models.FieldHighlight:
			// cosmetic only, not part of the record
		default:
			return fmt.Errorf("unknown field %q", field)
		}
	}
	return nil
}
