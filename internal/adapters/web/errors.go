package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"garment-tracker/internal/core"
)

type errorResponse struct {
	Error     string          `json:"error"`
	Code      string          `json:"code"`
	Field     string          `json:"field,omitempty"`
	Shortages []core.Shortage `json:"shortages,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	writeErrorResponse(w, r, errorResponse{Error: message, Code: code}, status)
}

func writeErrorResponse(w http.ResponseWriter, r *http.Request, resp errorResponse, status int) {
	resp.RequestID = requestIDFromContext(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// writeServiceError maps a domain error to its HTTP status and code. Anything not
// recognized is logged and reported as a generic internal error.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *core.ValidationError
	var short *core.InsufficientStockError
	switch {
	case errors.As(err, &validation):
		writeErrorResponse(w, r, errorResponse{Error: validation.Error(), Code: "VALIDATION_ERROR", Field: validation.Field}, http.StatusBadRequest)
	case errors.As(err, &short):
		writeErrorResponse(w, r, errorResponse{Error: short.Error(), Code: "INSUFFICIENT_STOCK", Shortages: short.Shortages}, http.StatusConflict)
	case errors.Is(err, core.ErrNotFound):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrInvalidTransition):
		writeError(w, r, err.Error(), "INVALID_TRANSITION", http.StatusConflict)
	case errors.Is(err, core.ErrConflict):
		writeError(w, r, err.Error(), "CONFLICT", http.StatusConflict)
	default:
		h.logger.WithField("request_id", requestIDFromContext(r.Context())).
			WithField("path", r.URL.Path).
			Error(err.Error())
		writeError(w, r, "internal error, please retry", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
