/*
handlers.go - HTTP API handlers for the intake tracker

PURPOSE:
  Exposes the DayTracker to a local front-end via a small JSON API.
  Handles HTTP request/response and delegates every decision to the
  tracker; no domain rules live here.

ENDPOINTS:
  Activation:
    POST   /api/activate              Run the rollover check (app foregrounded)

  Today:
    GET    /api/today                 Current day
    POST   /api/today/records         Log an amount
    POST   /api/today/records/quick   Log a configured quick amount
    POST   /api/today/records/delete  Delete records by index
    PUT    /api/today/target          Change today's (and the default) target
    POST   /api/today/reset           Manual reset

  History:
    GET    /api/history               Archived days, newest first
    GET    /api/history/stats         Aggregates

  Settings:
    GET    /api/settings
    PUT    /api/settings

ACTIVATION:
  Every mutating handler runs the rollover check first, so a write made
  just after midnight lands on the new day even between scheduler ticks.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid amount, target or index
  - 409: Reset needs confirmation
  - 500: Storage failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/warp/intake-engine/hydration"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Tracker *hydration.DayTracker
}

// NewHandler creates a new handler around tracker.
func NewHandler(tracker *hydration.DayTracker) *Handler {
	return &Handler{Tracker: tracker}
}

// =============================================================================
// ACTIVATION
// =============================================================================

// Activate runs the rollover check. Front-ends call it whenever they come
// to the foreground.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.Tracker.ResetIfNeeded(r.Context())
	if err != nil {
		writeTrackerError(w, "Failed to check day rollover", err)
		return
	}
	writeJSON(w, http.StatusOK, ActivateResponse{
		Outcome: string(outcome),
		Today:   toTodayDTO(h.Tracker.Snapshot()),
	})
}

// =============================================================================
// TODAY HANDLERS
// =============================================================================

// GetToday returns the current day.
func (h *Handler) GetToday(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toTodayDTO(h.Tracker.Snapshot()))
}

// AddRecord logs an amount.
func (h *Handler) AddRecord(w http.ResponseWriter, r *http.Request) {
	var req AddRecordRequest
	if !decodeBody(w, r, &req) || !h.activate(w, r) {
		return
	}
	if _, err := h.Tracker.Add(r.Context(), req.Amount); err != nil {
		writeTrackerError(w, "Failed to add record", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTodayDTO(h.Tracker.Snapshot()))
}

// QuickAdd logs the configured quick amount at the given index.
func (h *Handler) QuickAdd(w http.ResponseWriter, r *http.Request) {
	var req QuickAddRequest
	if !decodeBody(w, r, &req) || !h.activate(w, r) {
		return
	}
	if _, err := h.Tracker.AddQuick(r.Context(), req.Index); err != nil {
		writeTrackerError(w, "Failed to add quick amount", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTodayDTO(h.Tracker.Snapshot()))
}

// DeleteRecords removes records by index. All or nothing.
func (h *Handler) DeleteRecords(w http.ResponseWriter, r *http.Request) {
	var req DeleteRecordsRequest
	if !decodeBody(w, r, &req) || !h.activate(w, r) {
		return
	}
	if _, err := h.Tracker.DeleteRecords(r.Context(), req.Indices...); err != nil {
		writeTrackerError(w, "Failed to delete records", err)
		return
	}
	writeJSON(w, http.StatusOK, toTodayDTO(h.Tracker.Snapshot()))
}

// UpdateTarget changes today's target and the default for future days.
func (h *Handler) UpdateTarget(w http.ResponseWriter, r *http.Request) {
	var req UpdateTargetRequest
	if !decodeBody(w, r, &req) || !h.activate(w, r) {
		return
	}
	if err := h.Tracker.UpdateTarget(r.Context(), req.Target); err != nil {
		writeTrackerError(w, "Failed to update target", err)
		return
	}
	writeJSON(w, http.StatusOK, toTodayDTO(h.Tracker.Snapshot()))
}

// Reset clears today. Without confirmation a non-empty day returns 409 so
// the client can ask the user.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if !decodeBody(w, r, &req) || !h.activate(w, r) {
		return
	}
	archived, err := h.Tracker.ManualReset(r.Context(), req.Confirmed)
	if err != nil {
		writeTrackerError(w, "Failed to reset day", err)
		return
	}

	resp := ResetResponse{Today: toTodayDTO(h.Tracker.Snapshot())}
	if archived != nil {
		s := toSummaryDTO(*archived)
		resp.Archived = &s
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// HISTORY HANDLERS
// =============================================================================

// ListHistory returns archived days, newest first.
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Tracker.History().All(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load history", err)
		return
	}

	dtos := make([]SummaryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toSummaryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetStats returns history aggregates.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Tracker.History().Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute stats", err)
		return
	}
	writeJSON(w, http.StatusOK, StatsDTO{
		Days:            stats.Days,
		DaysMetTarget:   stats.DaysMetTarget,
		TotalIntake:     stats.TotalIntake,
		AverageTotal:    stats.AverageTotal.String(),
		AverageProgress: stats.AverageProgress.String(),
	})
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.Tracker.Settings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(s))
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsDTO
	if !decodeBody(w, r, &req) || !h.activate(w, r) {
		return
	}
	if err := h.Tracker.UpdateSettings(r.Context(), req.toSettings()); err != nil {
		writeTrackerError(w, "Failed to update settings", err)
		return
	}
	s, err := h.Tracker.Settings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(s))
}

// =============================================================================
// HELPERS
// =============================================================================

// activate runs the rollover check ahead of a mutation.
func (h *Handler) activate(w http.ResponseWriter, r *http.Request) bool {
	if _, err := h.Tracker.ResetIfNeeded(r.Context()); err != nil {
		writeTrackerError(w, "Failed to check day rollover", err)
		return false
	}
	return true
}

// decodeBody decodes the JSON body into v. An empty body leaves v at its
// zero value.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

func writeTrackerError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, hydration.ErrConfirmationRequired):
		writeError(w, http.StatusConflict, message, err)
	case hydration.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
