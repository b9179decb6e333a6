/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the persisted model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done by the tracker, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/intake-engine/hydration"
)

// =============================================================================
// TODAY
// =============================================================================

// TodayDTO is the current day's state for rendering.
type TodayDTO struct {
	Day       string      `json:"day"`
	Target    int         `json:"target"`
	Total     int         `json:"total"`
	Remaining int         `json:"remaining"`
	Progress  string      `json:"progress_percent"`
	Liters    string      `json:"liters"`
	Records   []RecordDTO `json:"records"`
}

// RecordDTO is one logged intake. Index is its position for deletion.
type RecordDTO struct {
	Index     int    `json:"index"`
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Amount    int    `json:"amount"`
}

type AddRecordRequest struct {
	Amount int `json:"amount"`
}

type QuickAddRequest struct {
	Index int `json:"index"`
}

type DeleteRecordsRequest struct {
	Indices []int `json:"indices"`
}

type UpdateTargetRequest struct {
	Target int `json:"target"`
}

type ResetRequest struct {
	Confirmed bool `json:"confirmed"`
}

// ResetResponse reports a manual reset. Archived is nil for an empty day.
type ResetResponse struct {
	Today    TodayDTO    `json:"today"`
	Archived *SummaryDTO `json:"archived,omitempty"`
}

// ActivateResponse reports what activation did.
type ActivateResponse struct {
	Outcome string   `json:"outcome"`
	Today   TodayDTO `json:"today"`
}

// =============================================================================
// HISTORY
// =============================================================================

type SummaryDTO struct {
	ID        string      `json:"id"`
	Day       string      `json:"day"`
	Target    int         `json:"target"`
	Total     int         `json:"total"`
	Progress  string      `json:"progress_percent"`
	MetTarget bool        `json:"met_target"`
	Records   []RecordDTO `json:"records"`
}

type StatsDTO struct {
	Days            int    `json:"days"`
	DaysMetTarget   int    `json:"days_met_target"`
	TotalIntake     int    `json:"total_intake"`
	AverageTotal    string `json:"average_total"`
	AverageProgress string `json:"average_progress_percent"`
}

// =============================================================================
// SETTINGS
// =============================================================================

type SettingsDTO struct {
	DefaultTarget        int   `json:"default_target"`
	QuickAmounts         []int `json:"quick_amounts"`
	AutoResetAtMidnight  bool  `json:"auto_reset_at_midnight"`
	NotificationsEnabled bool  `json:"notifications_enabled"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toTodayDTO(snap hydration.DaySnapshot) TodayDTO {
	return TodayDTO{
		Day:       snap.LastSavedDay.String(),
		Target:    snap.Target,
		Total:     snap.Total(),
		Remaining: snap.Remaining(),
		Progress:  snap.Progress().String(),
		Liters:    hydration.Liters(snap.Total()).StringFixed(2),
		Records:   toRecordDTOs(snap.Records),
	}
}

func toRecordDTOs(records []hydration.Record) []RecordDTO {
	out := make([]RecordDTO, len(records))
	for i, r := range records {
		out[i] = RecordDTO{
			Index:     i,
			ID:        r.ID,
			Timestamp: r.Timestamp.Format(time.RFC3339),
			Amount:    r.Amount,
		}
	}
	return out
}

func toSummaryDTO(s hydration.DailySummary) SummaryDTO {
	return SummaryDTO{
		ID:        s.ID,
		Day:       s.Day.String(),
		Target:    s.Target,
		Total:     s.Total,
		Progress:  s.Progress().String(),
		MetTarget: s.MetTarget(),
		Records:   toRecordDTOs(s.Records),
	}
}

func toSettingsDTO(s hydration.Settings) SettingsDTO {
	quick := s.QuickAmounts
	if quick == nil {
		quick = []int{}
	}
	return SettingsDTO{
		DefaultTarget:        s.DefaultTarget,
		QuickAmounts:         quick,
		AutoResetAtMidnight:  s.AutoResetAtMidnight,
		NotificationsEnabled: s.NotificationsEnabled,
	}
}

func (d SettingsDTO) toSettings() hydration.Settings {
	return hydration.Settings{
		DefaultTarget:        d.DefaultTarget,
		QuickAmounts:         d.QuickAmounts,
		AutoResetAtMidnight:  d.AutoResetAtMidnight,
		NotificationsEnabled: d.NotificationsEnabled,
	}
}
