// internal/models/application.go
package models

import (
	"fmt"
	"strings"
	"time"
)

// Status is the current stage of an application in the hiring pipeline.
type Status string

const (
	StatusNew       Status = "NEW"
	StatusAudioPass Status = "AUDIO_PASS"
	StatusInterview Status = "INTERVIEW"
	StatusHired     Status = "HIRED"
	StatusRejected  Status = "REJECTED"
)

// AllStatuses lists every recognized status token.
var AllStatuses = []Status{StatusNew, StatusAudioPass, StatusInterview, StatusHired, StatusRejected}

// ParseStatus validates a raw status token.
func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case StatusNew, StatusAudioPass, StatusInterview, StatusHired, StatusRejected:
		return s, true
	default:
		return "", false
	}
}

// AuditEntry records one status visit at minute precision.
type AuditEntry struct {
	Status Status    `json:"status"`
	At     time.Time `json:"at"`
}

// ApplicationRecord is the persisted row representing one candidate's
// submission and its lifecycle state. The legacy layout folded the
// notified-set, the audit trail and the 7-day marker into a single
// comma-joined column; they are kept as three distinct fields here.
type ApplicationRecord struct {
	AppID                 string       `json:"appId"`
	CreatedAt             time.Time    `json:"timestamp"`
	Status                Status       `json:"status"`
	CompanyID             string       `json:"companyId"`
	RoleID                string       `json:"roleId"`
	RoleTitle             string       `json:"roleTitle"`
	FullName              string       `json:"fullName"`
	Email                 string       `json:"email"`
	Phone                 string       `json:"phone"`
	Nationality           string       `json:"nationality"`
	Reference             string       `json:"reference"`
	BlacklistAcknowledged bool         `json:"blacklistAcknowledged"`
	CVLink                string       `json:"cvLink"`
	AudioLink             string       `json:"audioLink"`
	Notes                 string       `json:"notes"`
	LastUpdated           time.Time    `json:"lastUpdated"`
	StartedDate           time.Time    `json:"startedDate"`   // zero unless status is HIRED
	RejectionDate         time.Time    `json:"rejectionDate"` // zero unless status is REJECTED
	NotifiedStatuses      []Status     `json:"notifiedStatuses"`
	AuditTrail            []AuditEntry `json:"auditTrail"`
	SevenDayNotified      bool         `json:"sevenDayNotified"`
}

// HasNotified reports whether a status-change email was already sent for s.
func (r *ApplicationRecord) HasNotified(s Status) bool {
	for _, n := range r.NotifiedStatuses {
		if n == s {
			return true
		}
	}
	return false
}

// WithNotified returns the notified-set with s added, without duplicates.
func (r *ApplicationRecord) WithNotified(s Status) []Status {
	if r.HasNotified(s) {
		return r.NotifiedStatuses
	}
	out := make([]Status, 0, len(r.NotifiedStatuses)+1)
	out = append(out, r.NotifiedStatuses...)
	return append(out, s)
}

// NormalizeEmail is the de-duplication key: lowercase, trimmed.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Field names accepted by RowStore.UpdateFields. Values are the flat string
// representation used at the row-store boundary: RFC 3339 for timestamps,
// empty string for cleared dates, "true" for set booleans.
const (
	FieldStatus           = "status"
	FieldNotes            = "notes"
	FieldLastUpdated      = "last_updated"
	FieldStartedDate      = "started_date"
	FieldRejectionDate    = "rejection_date"
	FieldNotifiedStatuses = "notified_statuses"
	FieldAuditTrail       = "audit_trail"
	FieldSevenDayNotified = "seven_day_notified"
	FieldHighlight        = "highlight"
)

const auditTimeLayout = "2006-01-02T15:04"

// EncodeTime renders a timestamp for the row store; zero encodes as ''.
func EncodeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// DecodeTime parses a row-store timestamp; '' decodes as zero.
func DecodeTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed timestamp %q: %w", raw, err)
	}
	return t, nil
}

// EncodeStatuses renders the notified-set as a comma-joined token list.
func EncodeStatuses(statuses []Status) string {
	if len(statuses) == 0 {
		return ""
	}
	tokens := make([]string, len(statuses))
	for i, s := range statuses {
		tokens[i] = string(s)
	}
	return strings.Join(tokens, ",")
}

// DecodeStatuses parses a comma-joined token list, rejecting unknown tokens.
func DecodeStatuses(raw string) ([]Status, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]Status, 0, len(parts))
	for _, p := range parts {
		s, ok := ParseStatus(p)
		if !ok {
			return nil, fmt.Errorf("unknown status token %q", p)
		}
		out = append(out, s)
	}
	return out, nil
}

// EncodeAuditTrail renders the visit log as "STATUS@minute" tokens.
func EncodeAuditTrail(trail []AuditEntry) string {
	if len(trail) == 0 {
		return ""
	}
	tokens := make([]string, len(trail))
	for i, e := range trail {
		tokens[i] = fmt.Sprintf("%s@%s", e.Status, e.At.UTC().Format(auditTimeLayout))
	}
	return strings.Join(tokens, ",")
}

// DecodeAuditTrail parses the visit log written by EncodeAuditTrail.
func DecodeAuditTrail(raw string) ([]AuditEntry, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]AuditEntry, 0, len(parts))
	for _, p := range parts {
		statusPart, timePart, found := strings.Cut(p, "@")
		if !found {
			return nil, fmt.Errorf("malformed audit entry %q", p)
		}
		s, ok := ParseStatus(statusPart)
		if !ok {
			return nil, fmt.Errorf("unknown status token in audit entry %q", p)
		}
		at, err := time.ParseInLocation(auditTimeLayout, timePart, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("malformed audit timestamp %q: %w", p, err)
		}
		out = append(out, AuditEntry{Status: s, At: at})
	}
	return out, nil
}
