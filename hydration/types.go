/*
Package hydration tracks daily water intake and archives finished days.

PURPOSE:
  Holds today's intake records and target, detects calendar-day
  transitions and turns a finished day into an immutable DailySummary
  that is prepended to history.

KEY CONCEPTS IN THIS FILE (types.go):
  - Record:       One logged drink (immutable)
  - DaySnapshot:  Today's mutable working state
  - DailySummary: An archived day (immutable)
  - Settings:     User preferences driving defaults and rollover

PERSISTED KEYS:
  settings  -> Settings
  todayData -> DaySnapshot
  history   -> historyDoc (newest first)

INVARIANTS:
  1. Total always equals the sum of record amounts (it is derived, never stored
     on the snapshot)
  2. A summary exists only for a day that had at least one record
  3. History entries are never modified, only prepended

SEE ALSO:
  - tracker.go: DayTracker and the rollover algorithm
  - history.go: HistoryStore
*/
package hydration

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/intake-engine/generic"
)

// Persisted keys.
const (
	KeySettings = "settings"
	KeyToday    = "todayData"
	KeyHistory  = "history"
)

const schemaVersion = 1

// =============================================================================
// RECORD - One logged intake
// =============================================================================

// Record is a single logged intake in milliliters.
type Record struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Amount    int       `json:"amount"`
}

// =============================================================================
// DAY SNAPSHOT - Today's working state
// =============================================================================

// DaySnapshot is the current day's state. Records are newest first.
type DaySnapshot struct {
	Version      int           `json:"version"`
	Target       int           `json:"target"`
	Records      []Record      `json:"records"`
	LastSavedDay generic.DayID `json:"lastSavedDay"`
}

func newSnapshot(target int, day generic.DayID) DaySnapshot {
	return DaySnapshot{
		Version:      schemaVersion,
		Target:       target,
		Records:      []Record{},
		LastSavedDay: day,
	}
}

func (s DaySnapshot) SchemaVersion() int         { return s.Version }
func (s DaySnapshot) ExpectedSchemaVersion() int { return schemaVersion }

// Total is the sum of all record amounts.
func (s DaySnapshot) Total() int { return sumAmounts(s.Records) }

// Progress is the percentage of Target reached, rounded to one decimal.
func (s DaySnapshot) Progress() decimal.Decimal { return progress(s.Total(), s.Target) }

// Remaining is how much is left to reach Target, never negative.
func (s DaySnapshot) Remaining() int {
	if r := s.Target - s.Total(); r > 0 {
		return r
	}
	return 0
}

func (s DaySnapshot) clone() DaySnapshot {
	out := s
	out.Records = append([]Record{}, s.Records...)
	return out
}

// =============================================================================
// DAILY SUMMARY - Archived day
// =============================================================================

// DailySummary is an archived day. Day is the day the records belong to,
// not the day the archive happened.
type DailySummary struct {
	ID      string        `json:"id"`
	Day     generic.DayID `json:"dayIdentifier"`
	Target  int           `json:"target"`
	Total   int           `json:"total"`
	Records []Record      `json:"records"`
}

func newSummary(id string, snap DaySnapshot) DailySummary {
	return DailySummary{
		ID:      id,
		Day:     snap.LastSavedDay,
		Target:  snap.Target,
		Total:   snap.Total(),
		Records: append([]Record{}, snap.Records...),
	}
}

func (d DailySummary) Progress() decimal.Decimal { return progress(d.Total, d.Target) }
func (d DailySummary) MetTarget() bool           { return d.Target > 0 && d.Total >= d.Target }
func (d DailySummary) Liters() decimal.Decimal   { return Liters(d.Total) }

type historyDoc struct {
	Version int            `json:"version"`
	Entries []DailySummary `json:"entries"`
}

func (h historyDoc) SchemaVersion() int         { return h.Version }
func (h historyDoc) ExpectedSchemaVersion() int { return schemaVersion }

// =============================================================================
// SETTINGS
// =============================================================================

// Settings are the user's preferences.
type Settings struct {
	Version              int   `json:"version"`
	DefaultTarget        int   `json:"defaultTarget"`
	QuickAmounts         []int `json:"quickAmounts"`
	AutoResetAtMidnight  bool  `json:"autoResetAtMidnight"`
	NotificationsEnabled bool  `json:"notificationsEnabled"`
}

// DefaultSettings returns the settings used on first run.
func DefaultSettings() Settings {
	return Settings{
		Version:              schemaVersion,
		DefaultTarget:        2000,
		QuickAmounts:         []int{100, 250, 500},
		AutoResetAtMidnight:  true,
		NotificationsEnabled: false,
	}
}

func (s Settings) SchemaVersion() int         { return s.Version }
func (s Settings) ExpectedSchemaVersion() int { return schemaVersion }

// Validate checks the target and every quick amount are positive.
func (s Settings) Validate() error {
	if s.DefaultTarget <= 0 {
		return &ValueError{Field: "defaultTarget", Value: s.DefaultTarget, Err: ErrInvalidTarget}
	}
	for _, a := range s.QuickAmounts {
		if a <= 0 {
			return &ValueError{Field: "quickAmounts", Value: a, Err: ErrInvalidAmount}
		}
	}
	return nil
}

func (s Settings) clone() Settings {
	out := s
	out.QuickAmounts = append([]int{}, s.QuickAmounts...)
	return out
}

// =============================================================================
// HELPERS
// =============================================================================

// Liters converts milliliters for display.
func Liters(ml int) decimal.Decimal {
	return decimal.New(int64(ml), -3)
}

func sumAmounts(records []Record) int {
	total := 0
	for _, r := range records {
		total += r.Amount
	}
	return total
}

func progress(total, target int) decimal.Decimal {
	if target <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(total)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(target))).
		Round(1)
}
