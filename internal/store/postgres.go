// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"remotehire/internal/common/errors"
	"remotehire/internal/models"
)

// Columns persisted as flat text, mirroring the original spreadsheet layout.
// Every value round-trips through its string form; decoding happens in one
// validating parse so the rest of the system never sees a half-formed record.
const recordColumns = `app_id, created_at, status, company_id, role_id, role_title,
	full_name, email, phone, nationality, reference, blacklist_ack,
	cv_link, audio_link, notes, last_updated, started_date, rejection_date,
	notified_statuses, audit_trail, seven_day_notified`

var updatableColumns = map[string]bool{
	models.FieldStatus:           true,
	models.FieldNotes:            true,
	models.FieldLastUpdated:      true,
	models.FieldStartedDate:      true,
	models.FieldRejectionDate:    true,
	models.FieldNotifiedStatuses: true,
	models.FieldAuditTrail:       true,
	models.FieldSevenDayNotified: true,
	models.FieldHighlight:        true,
}

// PostgresStore implements RowStore on a PostgreSQL `applications` table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetAll(ctx context.Context) ([]models.ApplicationRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM applications ORDER BY created_at`)
	if err != nil {
		return nil, errors.NewUpstreamFailureError("getAll", err)
	}
	defer rows.Close()

	var records []models.ApplicationRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewUpstreamFailureError("getAll", err)
	}
	return records, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, appID string) (*models.ApplicationRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM applications WHERE app_id = $1`, appID)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (*models.ApplicationRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM applications WHERE LOWER(TRIM(email)) = $1 LIMIT 1`,
		models.NormalizeEmail(email))
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

func (s *PostgresStore) Append(ctx context.Context, rec models.ApplicationRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO applications (
			app_id, created_at, status, company_id, role_id, role_title,
			full_name, email, phone, nationality, reference, blacklist_ack,
			cv_link, audio_link, notes, last_updated, started_date, rejection_date,
			notified_statuses, audit_trail, seven_day_notified, highlight
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`,
		rec.AppID,
		models.EncodeTime(rec.CreatedAt),
		string(rec.Status),
		rec.CompanyID,
		rec.RoleID,
		rec.RoleTitle,
		rec.FullName,
		rec.Email,
		rec.Phone,
		rec.Nationality,
		rec.Reference,
		encodeBool(rec.BlacklistAcknowledged),
		rec.CVLink,
		rec.AudioLink,
		rec.Notes,
		models.EncodeTime(rec.LastUpdated),
		models.EncodeTime(rec.StartedDate),
		models.EncodeTime(rec.RejectionDate),
		models.EncodeStatuses(rec.NotifiedStatuses),
		models.EncodeAuditTrail(rec.AuditTrail),
		encodeBool(rec.SevenDayNotified),
		"",
	)
	if err != nil {
		return errors.NewUpstreamFailureError("append", err)
	}
	return nil
}

func (s *PostgresStore) UpdateFields(ctx context.Context, appID string, updates map[string]string) error {
	if len(updates) == 0 {
		return nil
	}

	// Deterministic column order keeps the generated SQL stable.
	fields := make([]string, 0, len(updates))
	for field := range updates {
		if !updatableColumns[field] {
			return errors.NewUpstreamFailureError("updateFields", fmt.Errorf("unknown field %q", field))
		}
		fields = append(fields, field)
	}
	sort.Strings(fields)

	setClauses := make([]string, len(fields))
	args := make([]interface{}, 0, len(fields)+1)
	for i, field := range fields {
		setClauses[i] = fmt.Sprintf("%s = $%d", field, i+1)
		args = append(args, updates[field])
	}
	args = append(args, appID)

	query := fmt.Sprintf("UPDATE applications SET %s WHERE app_id = $%d",
		strings.Join(setClauses, ", "), len(fields)+1)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.NewUpstreamFailureError("updateFields", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NewUpstreamFailureError("updateFields", fmt.Errorf("%w: %s", ErrNoRowsUpdated, appID))
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, appID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM applications WHERE app_id = $1`, appID)
	if err != nil {
		return errors.NewUpstreamFailureError("delete", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NewNotFoundError(appID)
	}
	return nil
}

func (s *PostgresStore) ApplyRowHighlight(ctx context.Context, appID, colorToken string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE applications SET highlight = $1 WHERE app_id = $2`, colorToken, appID)
	if err != nil {
		return errors.NewUpstreamFailureError("applyRowHighlight", err)
	}
	return nil
}

func encodeBool(b bool) string {
	if b {
		return "true"
	}
	return ""
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*models.ApplicationRecord, error) {
	var (
		rec                    models.ApplicationRecord
		status                 string
		createdAt, lastUpdated string
		startedDate, rejection string
		blacklistAck, sevenDay string
		notified, trail        string
	)
	err := row.Scan(
		&rec.AppID, &createdAt, &status, &rec.CompanyID, &rec.RoleID, &rec.RoleTitle,
		&rec.FullName, &rec.Email, &rec.Phone, &rec.Nationality, &rec.Reference, &blacklistAck,
		&rec.CVLink, &rec.AudioLink, &rec.Notes, &lastUpdated, &startedDate, &rejection,
		&notified, &trail, &sevenDay,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, errors.NewUpstreamFailureError("scan", err)
	}

	parsed, ok := models.ParseStatus(status)
	if !ok {
		return nil, errors.NewUpstreamFailureError("scan", fmt.Errorf("record %s has unknown status %q", rec.AppID, status))
	}
	rec.Status = parsed

	if rec.CreatedAt, err = models.DecodeTime(createdAt); err != nil {
		return nil, errors.NewUpstreamFailureError("scan", err)
	}
	if rec.LastUpdated, err = models.DecodeTime(lastUpdated); err != nil {
		return nil, errors.NewUpstreamFailureError("scan", err)
	}
	if rec.StartedDate, err = models.DecodeTime(startedDate); err != nil {
		return nil, errors.NewUpstreamFailureError("scan", err)
	}
	if rec.RejectionDate, err = models.DecodeTime(rejection); err != nil {
		return nil, errors.NewUpstreamFailureError("scan", err)
	}
	if rec.NotifiedStatuses, err = models.DecodeStatuses(notified); err != nil {
		return nil, errors.NewUpstreamFailureError("scan", err)
	}
	if rec.AuditTrail, err = models.DecodeAuditTrail(trail); err != nil {
		return nil, errors.NewUpstreamFailureError("scan", err)
	}
	rec.BlacklistAcknowledged = blacklistAck == "true"
	rec.SevenDayNotified = sevenDay == "true"

	return &rec, nil
}
