package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"finvision/internal/core"
	"finvision/internal/dashboard"
)

// All responses share the same envelope: {"success":true,"data":...} or
// {"success":false,"message":...}.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data}); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: false, Message: message}); err != nil {
		slog.Error("Failed to encode error response", "error", err)
	}
}

// respondDomainError maps domain errors onto HTTP statuses. Aggregation
// failures name the failing sub-query in the log but not in the response.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var aggErr *dashboard.AggregationError
	switch {
	case errors.Is(err, core.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, core.ErrEmailTaken):
		respondError(w, http.StatusConflict, "email already registered")
	case errors.As(err, &aggErr):
		slog.ErrorContext(r.Context(), "Dashboard aggregation failed",
			"aggregation", aggErr.Op, "error", aggErr.Err)
		respondError(w, http.StatusInternalServerError, "failed to load dashboard data")
	case errors.Is(err, core.ErrInvalidPeriod),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidCategory),
		errors.Is(err, core.ErrInvalidBudgetPeriod),
		errors.Is(err, core.ErrEndBeforeStart),
		errors.Is(err, core.ErrEmptyName):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON reads the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// parseYearMonth reads the year/month query parameters, defaulting to the
// current month. Non-numeric values fall back to the defaults; out-of-range
// numbers pass through so the period resolver can reject them.
func parseYearMonth(r *http.Request) (year, month int) {
	now := time.Now()
	year = now.Year()
	month = int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			month = m
		}
	}
	return year, month
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
