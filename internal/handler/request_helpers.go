package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/CaseBot_Go/internal/logger"
)

// ValidationErrorResponse defines the response structure for validation errors
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Kind   string            `json:"kind"`
	Fields map[string]string `json:"fields"`
}

// DecodeAndValidateRequest decodes a JSON body into req and validates its tags.
// When it returns an error the response has already been written.
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	log := logger.FromContext(r.Context())

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		log.Warn(fmt.Sprintf("Failed to decode %s request", actionName), "error", err)
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrMsgInvalidRequest, Kind: "user"})
		return err
	}

	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Kind:   "user",
			Fields: FormatValidationError(err),
		})
		return err
	}

	log.Debug(fmt.Sprintf("%s request decoded", actionName))
	return nil
}

// pathID parses a positive int64 chi URL parameter
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf(ErrMsgInvalidPathParam, name), Kind: "user"})
		return 0, false
	}
	return id, true
}

// queryID parses a required positive int64 query parameter
func queryID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf(ErrMsgMissingQueryParam, name), Kind: "user"})
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf(ErrMsgMissingQueryParam, name), Kind: "user"})
		return 0, false
	}
	return id, true
}

// queryLimit parses an optional limit; 0 means "use the service default"
func queryLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrMsgInvalidLimit, Kind: "user"})
		return 0, false
	}
	return limit, true
}
