// internal/destruct/service.go
package destruct

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"remotehire/internal/common/errors"
	"remotehire/internal/common/logger"
	"remotehire/internal/common/metrics"
	"remotehire/internal/store"
)

// SNSAPI is the slice of the SNS client used for the post-destruct alert.
type SNSAPI interface {
	Publish(ctx context.Context, input *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// ActionResult is the per-action outcome of an executed self-destruct.
type ActionResult struct {
	Action string `json:"action"`
	Status string `json:"status"` // ok | skipped | failed
	Detail string `json:"detail,omitempty"`
}

// Result summarizes one executed self-destruct.
type Result struct {
	Deleted int            `json:"deleted"`
	Failed  int            `json:"failed"`
	Results []ActionResult `json:"results"`
}

// Service performs the two irreversible actions behind the confirmation flow:
// wipe every application record, then replace the remote repository content.
// Both are best-effort and independently reported.
type Service struct {
	store      store.RowStore
	destroyer  *RepoDestroyer
	sms        SNSAPI
	adminPhone string
	password   string
	answer     string
	log        logger.Logger
}

func NewService(rs store.RowStore, destroyer *RepoDestroyer, sms SNSAPI, adminPhone,
	password, finalAnswer string, log logger.Logger) *Service {
	return &Service{
		store:      rs,
		destroyer:  destroyer,
		sms:        sms,
		adminPhone: adminPhone,
		password:   password,
		answer:     finalAnswer,
		log:        log,
	}
}

// Authorize runs the combined secret check: the password must match exactly
// and the final answer must match after trimming and case-folding. An
// unconfigured password never matches anything.
func (s *Service) Authorize(password, finalAnswer string) error {
	if s.password == "" {
		return errors.NewForbiddenError("self-destruct is not configured")
	}
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	answerOK := strings.EqualFold(strings.TrimSpace(finalAnswer), strings.TrimSpace(s.answer))
	if !passOK || !answerOK {
		return errors.NewForbiddenError("password or final answer did not match")
	}
	return nil
}

// Execute validates both secrets and, on success, runs the destructive
// actions. One record's delete failure never aborts the wipe; a missing
// repository credential reports the repo step as skipped.
func (s *Service) Execute(ctx context.Context, password, finalAnswer string) (*Result, error) {
	if err := s.Authorize(password, finalAnswer); err != nil {
		metrics.SelfDestructAttempts.WithLabelValues("rejected").Inc()
		return nil, err
	}

	s.log.Warn("self-destruct authorized, executing", nil)
	result := &Result{}

	records, err := s.store.GetAll(ctx)
	if err != nil {
		metrics.SelfDestructAttempts.WithLabelValues("failed").Inc()
		result.Results = append(result.Results, ActionResult{
			Action: "wipe-records", Status: "failed", Detail: err.Error(),
		})
		return result, nil
	}
	for _, rec := range records {
		if err := s.store.Delete(ctx, rec.AppID); err != nil {
			result.Failed++
			result.Results = append(result.Results, ActionResult{
				Action: "delete " + rec.AppID, Status: "failed", Detail: err.Error(),
			})
			s.log.WithError(err).Error("self-destruct record delete failed",
				map[string]interface{}{"appId": rec.AppID})
			continue
		}
		metrics.RecordsDeleted.WithLabelValues("self-destruct").Inc()
		result.Deleted++
	}
	result.Results = append(result.Results, ActionResult{
		Action: "wipe-records", Status: "ok",
		Detail: fmt.Sprintf("deleted %d, failed %d", result.Deleted, result.Failed),
	})

	if s.destroyer == nil || !s.destroyer.Configured() {
		result.Results = append(result.Results, ActionResult{
			Action: "replace-repository", Status: "skipped",
			Detail: "no repository credential configured",
		})
	} else if commitSHA, err := s.destroyer.Destroy(ctx); err != nil {
		result.Results = append(result.Results, ActionResult{
			Action: "replace-repository", Status: "failed", Detail: err.Error(),
		})
		s.log.WithError(err).Error("repository replacement failed", nil)
	} else {
		result.Results = append(result.Results, ActionResult{
			Action: "replace-repository", Status: "ok", Detail: commitSHA,
		})
	}

	metrics.SelfDestructAttempts.WithLabelValues("executed").Inc()
	s.alertAdmin(ctx, result)
	return result, nil
}

// alertAdmin sends a best-effort SMS about the executed destruct.
func (s *Service) alertAdmin(ctx context.Context, result *Result) {
	if s.sms == nil || s.adminPhone == "" {
		return
	}
	message := fmt.Sprintf("Self-destruct executed: %d record(s) deleted, %d failed.",
		result.Deleted, result.Failed)
	_, err := s.sms.Publish(ctx, &sns.PublishInput{
		PhoneNumber: awssdk.String(s.adminPhone),
		Message:     awssdk.String(message),
	})
	if err != nil {
		s.log.WithError(err).Error("self-destruct admin alert failed", nil)
	}
}
