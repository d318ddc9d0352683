package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/bpview/pkg/errors"
)

// Meta is attached to every JSON response.
type Meta struct {
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp"`
}

// APIError is the error member of an [Envelope].
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope wraps every JSON response. Exactly one of Data and Error is set.
type Envelope struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
	Meta  Meta      `json:"meta"`
}

func newMeta(requestID string) Meta {
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return Meta{
		RequestID: requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) success(w http.ResponseWriter, r *http.Request, data any) {
	s.writeJSON(w, http.StatusOK, Envelope{Data: data, Meta: newMeta(RequestID(r.Context()))})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "requestId", RequestID(r.Context()), "err", err)
		msg = "An unexpected error occurred"
	}
	s.writeJSON(w, status, Envelope{
		Error: &APIError{Code: string(code), Message: msg},
		Meta:  newMeta(RequestID(r.Context())),
	})
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidViewport, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidName, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeNetwork, errors.ErrCodeInvalidResponse:
		return http.StatusBadGateway
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
