package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/logger"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response. Kind tells the caller who has
// to act: the player (user), an operator (configuration) or nobody yet (storage).
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// maxPooledBuffer keeps one oversized inventory listing from pinning memory
const maxPooledBuffer = 64 << 10

var encodeBuffers = sync.Pool{
	New: func() any { return bytes.NewBuffer(make([]byte, 0, 512)) },
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := encodeBuffers.Get().(*bytes.Buffer)
	defer func() {
		if buf.Cap() <= maxPooledBuffer {
			buf.Reset()
			encodeBuffers.Put(buf)
		}
	}()

	// Encode before writing headers so a failure can still become a 500
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error(LogMsgEncodeFailed, "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError maps a service error onto status, message and kind
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := mapServiceError(err)
	kind := domain.KindOf(err)

	log := logger.FromContext(r.Context())
	switch kind {
	case domain.KindConfiguration:
		log.Error(LogMsgConfigurationError, "error", err, "path", r.URL.Path)
	case domain.KindUser:
		log.Debug(LogMsgRequestFailed, "error", err, "status", status)
	default:
		log.Error(LogMsgRequestFailed, "error", err, "status", status)
	}

	resp := ErrorResponse{Error: message}
	if kind != domain.KindUnknown {
		resp.Kind = string(kind)
	}
	respondJSON(w, status, resp)
}

// mapServiceError converts domain errors to HTTP status codes and messages
// the player can act on. Internal details never leave the process.
func mapServiceError(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, ErrMsgGenericServerError
	case errors.Is(err, domain.ErrStorage):
		return http.StatusServiceUnavailable, ErrMsgUnavailableError
	case domain.KindOf(err) == domain.KindConfiguration:
		return http.StatusInternalServerError, ErrMsgConfigurationError
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrMsgUserNotFoundError
	case errors.Is(err, domain.ErrCaseNotFound):
		return http.StatusNotFound, ErrMsgCaseNotFoundError
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, ErrMsgItemNotFoundError
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, ErrMsgNotEnoughMoneyError
	case errors.Is(err, domain.ErrItemNotInInventory):
		return http.StatusBadRequest, ErrMsgNotInInventoryError
	case errors.Is(err, domain.ErrNotAdmin):
		return http.StatusForbidden, ErrMsgNotAdminError
	case errors.Is(err, domain.ErrDialogInactive):
		return http.StatusConflict, ErrMsgDialogInactiveError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidInputError
	}
	return http.StatusInternalServerError, ErrMsgGenericServerError
}
