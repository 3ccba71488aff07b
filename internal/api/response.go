package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"flashcards/internal/importer"
	"flashcards/internal/quiz"
	"flashcards/internal/repository"
	"flashcards/internal/service"

	"go.uber.org/zap"
)

// ErrorResponse is the standard error envelope
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is returned by mutating dictionary routes
type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrUnitNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, quiz.ErrSessionClosed):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrInvalidUnit),
		errors.Is(err, repository.ErrInvalidIndex),
		errors.Is(err, importer.ErrUnsupportedFormat),
		errors.Is(err, importer.ErrNoWords):
		return http.StatusBadRequest
	case errors.Is(err, quiz.ErrEmptyItemSet):
		return http.StatusUnprocessableEntity
	case errors.Is(err, quiz.ErrSessionComplete):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status. Internal errors are logged and
// their details are not sent to the client.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, internalMessage string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(internalMessage,
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, status, internalMessage)
		return
	}
	writeError(w, status, err.Error())
}
