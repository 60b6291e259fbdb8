// internal/server/handlers.go
package server

import (
	"encoding/json"
	"io"
	"net/http"

	"remotehire/internal/common/errors"
	"remotehire/internal/common/logger"
	"remotehire/internal/destruct"
	"remotehire/internal/tracker"
)

// Handlers binds the HTTP surface to the application services.
type Handlers struct {
	tracker     *tracker.Service
	destruct    *destruct.Service
	statusCache *StatusCache
	log         logger.Logger
}

func NewHandlers(trackerSvc *tracker.Service, destructSvc *destruct.Service,
	statusCache *StatusCache, log logger.Logger) *Handlers {
	return &Handlers{
		tracker:     trackerSvc,
		destruct:    destructSvc,
		statusCache: statusCache,
		log:         log,
	}
}

type submissionRequest struct {
	CompanyID             string `json:"companyId"`
	RoleID                string `json:"roleId"`
	RoleTitle             string `json:"roleTitle"`
	FullName              string `json:"fullName"`
	Email                 string `json:"email"`
	Phone                 string `json:"phone"`
	Nationality           string `json:"nationality"`
	Reference             string `json:"reference"`
	BlacklistAcknowledged bool   `json:"blacklistAcknowledged"`
	CVLink                string `json:"cvLink"`
	AudioLink             string `json:"audioLink"`
}

func (r submissionRequest) toInput() tracker.SubmissionInput {
	return tracker.SubmissionInput{
		CompanyID:             r.CompanyID,
		RoleID:                r.RoleID,
		RoleTitle:             r.RoleTitle,
		FullName:              r.FullName,
		Email:                 r.Email,
		Phone:                 r.Phone,
		Nationality:           r.Nationality,
		Reference:             r.Reference,
		BlacklistAcknowledged: r.BlacklistAcknowledged,
		CVLink:                r.CVLink,
		AudioLink:             r.AudioLink,
	}
}

// SubmitApplication handles the public application form.
func (h *Handlers) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, errors.NewInvalidInputError("could not read request body"))
		return
	}
	if err := validateSubmission(body); err != nil {
		writeError(w, err)
		return
	}
	var req submissionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, errors.NewInvalidInputError("request body is not valid JSON"))
		return
	}

	rec, err := h.tracker.CreateApplication(r.Context(), req.toInput(), tracker.SourcePublic)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"appId":   rec.AppID,
		"status":  string(rec.Status),
	})
}

// ManualLog handles admin-entered applications. Same shape as the public
// form but skips the schema gate: admins get a UUID id and no confirmation
// email.
func (h *Handlers) ManualLog(w http.ResponseWriter, r *http.Request) {
	var req submissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewInvalidInputError("request body is not valid JSON"))
		return
	}
	rec, err := h.tracker.CreateApplication(r.Context(), req.toInput(), tracker.SourceAdmin)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"appId":   rec.AppID,
		"status":  string(rec.Status),
	})
}

// GetStatus is the public status lookup over the short-lived cache.
func (h *Handlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	appID := r.URL.Query().Get("id")
	if appID == "" {
		writeError(w, errors.NewInvalidInputError("id query parameter is required"))
		return
	}

	if proj, ok := h.statusCache.Get(r.Context(), appID); ok {
		writeJSON(w, http.StatusOK, proj)
		return
	}

	rec, err := h.tracker.Get(r.Context(), appID)
	if err != nil {
		writeError(w, err)
		return
	}
	proj := ProjectStatus(rec)
	h.statusCache.Set(r.Context(), proj)
	writeJSON(w, http.StatusOK, proj)
}

type statusUpdateRequest struct {
	AppID  string  `json:"appId"`
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

// UpdateStatus applies a status transition and reports whether a
// notification was judged necessary.
func (h *Handlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewInvalidInputError("request body is not valid JSON"))
		return
	}
	if req.AppID == "" {
		writeError(w, errors.NewInvalidInputError("appId is required"))
		return
	}

	result, err := h.tracker.ApplyStatusChange(r.Context(), req.AppID, req.Status, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	h.statusCache.Invalidate(r.Context(), req.AppID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"emailSent": result.EmailSent,
	})
}

type notesRequest struct {
	AppID string `json:"appId"`
	Notes string `json:"notes"`
}

func (h *Handlers) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewInvalidInputError("request body is not valid JSON"))
		return
	}
	if req.AppID == "" {
		writeError(w, errors.NewInvalidInputError("appId is required"))
		return
	}
	if err := h.tracker.UpdateNotes(r.Context(), req.AppID, req.Notes); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

type deleteRequest struct {
	AppID string `json:"appId"`
}

func (h *Handlers) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewInvalidInputError("request body is not valid JSON"))
		return
	}
	if req.AppID == "" {
		writeError(w, errors.NewInvalidInputError("appId is required"))
		return
	}
	if err := h.tracker.Delete(r.Context(), req.AppID); err != nil {
		writeError(w, err)
		return
	}
	h.statusCache.Invalidate(r.Context(), req.AppID)
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

type bulkDeleteRequest struct {
	AppIDs []string `json:"appIds"`
}

func (h *Handlers) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewInvalidInputError("request body is not valid JSON"))
		return
	}
	if len(req.AppIDs) == 0 {
		writeError(w, errors.NewInvalidInputError("appIds is required"))
		return
	}
	result := h.tracker.BulkDelete(r.Context(), req.AppIDs)
	for _, item := range result.Details {
		if item.Success {
			h.statusCache.Invalidate(r.Context(), item.AppID)
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"deleted": result.Deleted,
		"failed":  result.Failed,
		"details": result.Details,
	})
}

func (h *Handlers) ListApplications(w http.ResponseWriter, r *http.Request) {
	records, err := h.tracker.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"applications": records,
	})
}

type selfDestructRequest struct {
	Password    string `json:"password"`
	FinalAnswer string `json:"finalAnswer"`
}

// SelfDestruct runs the terminal transition of the confirmation flow: the
// combined secret check plus both destructive actions.
func (h *Handlers) SelfDestruct(w http.ResponseWriter, r *http.Request) {
	var req selfDestructRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewInvalidInputError("request body is not valid JSON"))
		return
	}
	result, err := h.destruct.Execute(r.Context(), req.Password, req.FinalAnswer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"deleted": result.Deleted,
		"failed":  result.Failed,
		"results": result.Results,
	})
}
