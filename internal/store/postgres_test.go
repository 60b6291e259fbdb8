// internal/store/postgres_test.go
package store

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remotehire/internal/common/errors"
	"remotehire/internal/models"
)

var testColumns = []string{
	"app_id", "created_at", "status", "company_id", "role_id", "role_title",
	"full_name", "email", "phone", "nationality", "reference", "blacklist_ack",
	"cv_link", "audio_link", "notes", "last_updated", "started_date", "rejection_date",
	"notified_statuses", "audit_trail", "seven_day_notified",
}

func testRow() []driverValue {
	return []driverValue{
		"RC-a1b2c3d4", "2026-03-02T10:30:00Z", "AUDIO_PASS", "acme", "eng-1", "Backend Engineer",
		"Dana Cole", "dana@example.com", "+15550100", "US", "referral", "true",
		"https://cv.example.com/dana", "https://audio.example.com/dana", "strong intro",
		"2026-03-02T10:30:00Z", "", "",
		"NEW,AUDIO_PASS", "NEW@2026-03-01T09:00,AUDIO_PASS@2026-03-02T10:30", "",
	}
}

type driverValue = driver.Value

func rowsWith(values ...[]driverValue) *sqlmock.Rows {
	rows := sqlmock.NewRows(testColumns)
	for _, v := range values {
		rows.AddRow(v...)
	}
	return rows
}

func TestGetByIDDecodesRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM applications WHERE app_id = \\$1").
		WithArgs("RC-a1b2c3d4").
		WillReturnRows(rowsWith(testRow()))

	s := NewPostgresStore(db)
	rec, err := s.GetByID(context.Background(), "RC-a1b2c3d4")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "RC-a1b2c3d4", rec.AppID)
	assert.Equal(t, models.StatusAudioPass, rec.Status)
	assert.Equal(t, "Dana Cole", rec.FullName)
	assert.True(t, rec.BlacklistAcknowledged)
	assert.False(t, rec.SevenDayNotified)
	assert.True(t, rec.StartedDate.IsZero())
	assert.Equal(t, []models.Status{models.StatusNew, models.StatusAudioPass}, rec.NotifiedStatuses)
	require.Len(t, rec.AuditTrail, 2)
	assert.Equal(t, models.StatusAudioPass, rec.AuditTrail[1].Status)
	assert.Equal(t, time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC), rec.AuditTrail[1].At)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDMissingReturnsNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM applications WHERE app_id = \\$1").
		WithArgs("RC-missing").
		WillReturnRows(rowsWith())

	s := NewPostgresStore(db)
	rec, err := s.GetByID(context.Background(), "RC-missing")
	assert.NoError(t, err)
	assert.Nil(t, rec)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmailNormalizesLookupKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(TRIM(email)) = $1")).
		WithArgs("dana@example.com").
		WillReturnRows(rowsWith(testRow()))

	s := NewPostgresStore(db)
	rec, err := s.GetByEmail(context.Background(), "  Dana@Example.COM ")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "RC-a1b2c3d4", rec.AppID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFieldsBuildsSortedSetClause(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE applications SET last_updated = $1, status = $2 WHERE app_id = $3")).
		WithArgs("2026-03-02T10:30:00Z", "INTERVIEW", "RC-a1b2c3d4").
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := NewPostgresStore(db)
	err = s.UpdateFields(context.Background(), "RC-a1b2c3d4", map[string]string{
		models.FieldStatus:      "INTERVIEW",
		models.FieldLastUpdated: "2026-03-02T10:30:00Z",
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFieldsNoRowMatched(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE applications SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := NewPostgresStore(db)
	err = s.UpdateFields(context.Background(), "RC-missing", map[string]string{
		models.FieldNotes: "ping",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeUpstreamFailure))
}

func TestUpdateFieldsRejectsUnknownColumn(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewPostgresStore(db)
	err = s.UpdateFields(context.Background(), "RC-a1b2c3d4", map[string]string{
		"email": "attacker@example.com",
	})
	require.Error(t, err)
}

func TestDeleteMissingRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM applications WHERE app_id = $1")).
		WithArgs("RC-missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := NewPostgresStore(db)
	err = s.Delete(context.Background(), "RC-missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestAppendInsertsEncodedRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO applications").
		WillReturnResult(sqlmock.NewResult(1, 1))

	s := NewPostgresStore(db)
	err = s.Append(context.Background(), models.ApplicationRecord{
		AppID:     "RC-a1b2c3d4",
		CreatedAt: time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC),
		Status:    models.StatusNew,
		FullName:  "Dana Cole",
		Email:     "dana@example.com",
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
