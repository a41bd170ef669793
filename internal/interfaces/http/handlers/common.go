// Package handlers implements the HTTP endpoints of the SDS wizard API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sds-wizard/pkg/errors"
)

// maxBodyBytes bounds decoded request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Detail  string            `json:"detail,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, statusCode int, err error) {
	resp := ErrorResponse{
		Code:    http.StatusText(statusCode),
		Message: err.Error(),
	}
	writeJSON(w, statusCode, resp)
}

// writeAppError maps application errors to HTTP status codes.  Server-side
// failures are logged and masked.
func writeAppError(w http.ResponseWriter, log logging.Logger, err error) {
	var ae *errors.AppError
	if !errors.As(err, &ae) {
		log.Error("unhandled error", logging.Err(err))
		writeError(w, http.StatusInternalServerError, errors.New(errors.ErrCodeInternal, "internal server error"))
		return
	}

	status := ae.HTTPStatus()
	if status >= http.StatusInternalServerError {
		log.Error("request failed", logging.String("code", ae.Code.String()), logging.Err(err))
		writeJSON(w, status, ErrorResponse{
			Code:    ae.Code.String(),
			Message: errors.DefaultMessageForCode(ae.Code),
		})
		return
	}
	writeJSON(w, status, ErrorResponse{
		Code:    ae.Code.String(),
		Message: ae.Message,
		Detail:  ae.Detail,
	})
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(err, errors.ErrCodeBadRequest, "malformed JSON body")
	}
	return nil
}

//Personal.AI order the ending
