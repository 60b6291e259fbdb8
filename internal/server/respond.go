// internal/server/respond.go
package server

import (
	"encoding/json"
	"net/http"

	"remotehire/internal/common/errors"
)

type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError renders the standard error envelope. Unrecognized errors become
// an opaque 500 so internal detail never leaks.
func writeError(w http.ResponseWriter, err error) {
	stdErr, ok := errors.AsStandardError(err)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorEnvelope{
			Error: errorBody{Code: string(errors.ErrCodeUpstreamFailure), Message: "internal error"},
		})
		return
	}
	writeJSON(w, errors.HTTPStatus(stdErr.Code), errorEnvelope{
		Error: errorBody{
			Code:    string(stdErr.Code),
			Message: stdErr.Message,
			Details: stdErr.Details,
		},
	})
}
