// internal/tracker/service.go
package tracker

import (
	"context"
	"strings"
	"time"

	"remotehire/internal/common/clock"
	"remotehire/internal/common/errors"
	"remotehire/internal/common/logger"
	"remotehire/internal/common/metrics"
	"remotehire/internal/models"
	"remotehire/internal/notify"
	"remotehire/internal/store"
)

// Source identifies which entry path created a record. Public submissions get
// a short code id; admin manual logs get a full UUID.
type Source string

const (
	SourcePublic Source = "public"
	SourceAdmin  Source = "admin"
)

// DefaultSendTimeout bounds how long a status update waits for its
// notification before responding. The send is not cancelled on timeout.
const DefaultSendTimeout = 8 * time.Second

// Service owns the application lifecycle: creation with duplicate guarding,
// status transitions and their side effects, the milestone sweep, and record
// deletion. A nil sender means the notification transport is unconfigured.
type Service struct {
	store       store.RowStore
	sender      notify.EmailSender
	budget      *notify.Budget
	clock       clock.Clock
	ids         clock.IDGenerator
	log         logger.Logger
	adminEmail  string
	sendTimeout time.Duration
}

// Options carries the optional knobs for NewService.
type Options struct {
	AdminEmail  string
	SendTimeout time.Duration
}

func NewService(rs store.RowStore, sender notify.EmailSender, budget *notify.Budget,
	clk clock.Clock, ids clock.IDGenerator, log logger.Logger, opts Options) *Service {
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = DefaultSendTimeout
	}
	return &Service{
		store:       rs,
		sender:      sender,
		budget:      budget,
		clock:       clk,
		ids:         ids,
		log:         log,
		adminEmail:  opts.AdminEmail,
		sendTimeout: opts.SendTimeout,
	}
}

// SubmissionInput is the applicant-supplied portion of a new record.
type SubmissionInput struct {
	CompanyID             string
	RoleID                string
	RoleTitle             string
	FullName              string
	Email                 string
	Phone                 string
	Nationality           string
	Reference             string
	BlacklistAcknowledged bool
	CVLink                string
	AudioLink             string
}

// StatusChangeResult reports whether a notification was judged necessary,
// not whether it was delivered.
type StatusChangeResult struct {
	EmailSent bool
}

// CreateApplication appends a new record after running the duplicate guard.
// The guard is creation-time only; the read-then-write race between two
// simultaneous submissions with the same email is accepted.
func (s *Service) CreateApplication(ctx context.Context, in SubmissionInput, source Source) (*models.ApplicationRecord, error) {
	if strings.TrimSpace(in.Email) == "" {
		return nil, errors.NewInvalidInputError("email is required")
	}
	if strings.TrimSpace(in.FullName) == "" {
		return nil, errors.NewInvalidInputError("fullName is required")
	}

	existing, err := s.store.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.NewDuplicateApplicationError(existing.AppID, existing.FullName)
	}

	now := s.clock.Now().UTC()
	rec := models.ApplicationRecord{
		AppID:                 s.newAppID(source),
		CreatedAt:             now,
		Status:                models.StatusNew,
		CompanyID:             in.CompanyID,
		RoleID:                in.RoleID,
		RoleTitle:             in.RoleTitle,
		FullName:              strings.TrimSpace(in.FullName),
		Email:                 strings.TrimSpace(in.Email),
		Phone:                 in.Phone,
		Nationality:           in.Nationality,
		Reference:             in.Reference,
		BlacklistAcknowledged: in.BlacklistAcknowledged,
		CVLink:                in.CVLink,
		AudioLink:             in.AudioLink,
		LastUpdated:           now,
	}

	if err := s.store.Append(ctx, rec); err != nil {
		return nil, err
	}
	metrics.ApplicationsCreated.WithLabelValues(string(source)).Inc()

	if err := s.store.ApplyRowHighlight(ctx, rec.AppID, StatusColor(models.StatusNew)); err != nil {
		s.log.WithError(err).Warn("row highlight failed", map[string]interface{}{"appId": rec.AppID})
	}

	if source == SourcePublic {
		s.sendBestEffort(notify.ComposeReceivedEmail(&rec), "received")
	}

	return &rec, nil
}

// newAppID derives the record identifier for the given entry path. Public
// submissions get a short tracking code; admin manual logs keep the raw UUID.
func (s *Service) newAppID(source Source) string {
	id := s.ids.New()
	if source == SourceAdmin {
		return id
	}
	compact := strings.ReplaceAll(id, "-", "")
	return "RC-" + strings.ToUpper(compact[:8])
}

// CheckDuplicate returns the existing record for a normalized email, or nil.
func (s *Service) CheckDuplicate(ctx context.Context, email string) (*models.ApplicationRecord, error) {
	return s.store.GetByEmail(ctx, email)
}

// Get loads one record, failing with NOT_FOUND when the id is unknown.
func (s *Service) Get(ctx context.Context, appID string) (*models.ApplicationRecord, error) {
	rec, err := s.store.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.NewNotFoundError(appID)
	}
	return rec, nil
}

// List returns every record.
func (s *Service) List(ctx context.Context) ([]models.ApplicationRecord, error) {
	return s.store.GetAll(ctx)
}

// ApplyStatusChange moves a record to newStatus and runs the side-effect
// pipeline: derived date bookkeeping, notified-set and audit-trail updates,
// one persist, best-effort notification raced against the send timeout,
// best-effort row highlight, and a fire-and-forget milestone sweep on HIRED.
//
// Any status is reachable from any other; there is deliberately no
// forward-only enforcement, which doubles as an admin override capability.
func (s *Service) ApplyStatusChange(ctx context.Context, appID, rawStatus string, notes *string) (*StatusChangeResult, error) {
	newStatus, ok := models.ParseStatus(rawStatus)
	if !ok {
		return nil, errors.NewInvalidStatusError(rawStatus)
	}

	rec, err := s.store.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.NewNotFoundError(appID)
	}

	now := s.clock.Now().UTC()
	currentStatus := rec.Status
	shouldNotify := !rec.HasNotified(newStatus) &&
		newStatus != models.StatusNew &&
		newStatus != currentStatus

	updates := map[string]string{
		models.FieldStatus:      string(newStatus),
		models.FieldLastUpdated: models.EncodeTime(now),
	}
	if notes != nil {
		updates[models.FieldNotes] = *notes
	}

	// startedDate tracks the current HIRED stretch: set on entering HIRED with
	// no prior value, cleared on leaving. HIRED -> HIRED keeps the original.
	if newStatus == models.StatusHired && rec.StartedDate.IsZero() {
		updates[models.FieldStartedDate] = models.EncodeTime(now)
	} else if newStatus != models.StatusHired && currentStatus == models.StatusHired {
		updates[models.FieldStartedDate] = ""
	}
	if newStatus == models.StatusRejected && rec.RejectionDate.IsZero() {
		updates[models.FieldRejectionDate] = models.EncodeTime(now)
	} else if newStatus != models.StatusRejected && currentStatus == models.StatusRejected {
		updates[models.FieldRejectionDate] = ""
	}

	if shouldNotify {
		updates[models.FieldNotifiedStatuses] = models.EncodeStatuses(rec.WithNotified(newStatus))
	}
	trail := append(append([]models.AuditEntry{}, rec.AuditTrail...),
		models.AuditEntry{Status: newStatus, At: now})
	updates[models.FieldAuditTrail] = models.EncodeAuditTrail(trail)

	if err := s.store.UpdateFields(ctx, appID, updates); err != nil {
		return nil, err
	}
	metrics.StatusChanges.WithLabelValues(string(newStatus)).Inc()

	if err := s.store.ApplyRowHighlight(ctx, appID, StatusColor(newStatus)); err != nil {
		s.log.WithError(err).Warn("row highlight failed", map[string]interface{}{"appId": appID})
	}

	if shouldNotify {
		rec.Status = newStatus
		if email, ok := notify.ComposeStatusEmail(rec, newStatus); ok {
			s.raceSend(email, "status")
		}
	}

	if newStatus == models.StatusHired {
		go s.SweepSevenDayMilestones(context.Background())
	}

	return &StatusChangeResult{EmailSent: shouldNotify}, nil
}

// UpdateNotes rewrites the free-text notes field. Notes edits are independent
// of status and do not touch lastUpdated.
func (s *Service) UpdateNotes(ctx context.Context, appID, notes string) error {
	rec, err := s.store.GetByID(ctx, appID)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.NewNotFoundError(appID)
	}
	return s.store.UpdateFields(ctx, appID, map[string]string{models.FieldNotes: notes})
}

// Delete removes one record.
func (s *Service) Delete(ctx context.Context, appID string) error {
	if err := s.store.Delete(ctx, appID); err != nil {
		return err
	}
	metrics.RecordsDeleted.WithLabelValues("admin").Inc()
	return nil
}

// BulkDeleteItem is the per-id outcome of a bulk delete.
type BulkDeleteItem struct {
	AppID   string `json:"appId"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// BulkDeleteResult summarizes a bulk delete pass.
type BulkDeleteResult struct {
	Deleted int              `json:"deleted"`
	Failed  int              `json:"failed"`
	Details []BulkDeleteItem `json:"details"`
}

// BulkDelete deletes each id independently; one failure never aborts the rest.
func (s *Service) BulkDelete(ctx context.Context, appIDs []string) *BulkDeleteResult {
	result := &BulkDeleteResult{Details: make([]BulkDeleteItem, 0, len(appIDs))}
	for _, id := range appIDs {
		if err := s.store.Delete(ctx, id); err != nil {
			result.Failed++
			result.Details = append(result.Details, BulkDeleteItem{AppID: id, Error: err.Error()})
			s.log.WithError(err).Warn("bulk delete item failed", map[string]interface{}{"appId": id})
			continue
		}
		metrics.RecordsDeleted.WithLabelValues("admin").Inc()
		result.Deleted++
		result.Details = append(result.Details, BulkDeleteItem{AppID: id, Success: true})
	}
	return result
}

// raceSend attempts one budget-checked delivery, waiting at most sendTimeout
// before returning. The losing send is abandoned, not cancelled: it can still
// complete and count against the budget after the caller has moved on.
func (s *Service) raceSend(email notify.Email, emailType string) {
	if s.sender == nil {
		s.log.Info("notification transport unconfigured, skipping send",
			map[string]interface{}{"type": emailType, "to": email.To})
		return
	}
	if !s.budget.CanSend() {
		metrics.EmailBudgetExhausted.Inc()
		s.log.Warn("daily email budget exhausted, skipping send",
			map[string]interface{}{"type": emailType, "to": email.To})
		return
	}

	done := make(chan error, 1)
	go func() {
		err := s.sender.Send(context.Background(), email)
		if err == nil {
			s.budget.RecordSent()
			metrics.EmailsSent.WithLabelValues(emailType, "ok").Inc()
		} else {
			metrics.EmailsSent.WithLabelValues(emailType, "error").Inc()
			s.log.WithError(err).Error("notification send failed",
				map[string]interface{}{"type": emailType, "to": email.To})
		}
		done <- err
	}()

	select {
	case <-done:
	case <-time.After(s.sendTimeout):
		s.log.Warn("notification send still running past timeout, responding anyway",
			map[string]interface{}{"type": emailType, "to": email.To})
	}
}

// sendBestEffort delivers immediately without the timeout race. Used for the
// submission confirmation where the caller already has its response.
func (s *Service) sendBestEffort(email notify.Email, emailType string) {
	if s.sender == nil {
		return
	}
	if !s.budget.CanSend() {
		metrics.EmailBudgetExhausted.Inc()
		return
	}
	if err := s.sender.Send(context.Background(), email); err != nil {
		metrics.EmailsSent.WithLabelValues(emailType, "error").Inc()
		s.log.WithError(err).Error("confirmation send failed",
			map[string]interface{}{"to": email.To})
		return
	}
	s.budget.RecordSent()
	metrics.EmailsSent.WithLabelValues(emailType, "ok").Inc()
}
