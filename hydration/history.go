package hydration

import (
	"context"
	"log"

	"github.com/shopspring/decimal"
	"github.com/warp/intake-engine/generic"
)

// =============================================================================
// HISTORY STORE - Append-only archive of finished days
// =============================================================================

// HistoryStore is the newest-first list of archived days.
// IMPORTANT: HistoryStore is APPEND-ONLY. No Update, No Delete.
// The whole list is written on every Archive.
//
// There is no deduplication by day. Rollover idempotence in DayTracker is
// what keeps one summary per transition.
type HistoryStore struct {
	store generic.Store
}

func NewHistoryStore(store generic.Store) *HistoryStore {
	return &HistoryStore{store: store}
}

// Archive prepends summary and persists the full list.
func (h *HistoryStore) Archive(ctx context.Context, summary DailySummary) error {
	return archiveIn(ctx, h.store, summary)
}

// All returns the archived days, newest first. The slice is a copy.
func (h *HistoryStore) All(ctx context.Context) ([]DailySummary, error) {
	entries, err := loadHistory(ctx, h.store)
	if err != nil {
		return nil, err
	}
	out := make([]DailySummary, len(entries))
	copy(out, entries)
	return out, nil
}

// archiveIn is Archive against an arbitrary store, so rollover can run it
// inside the same transaction that resets the snapshot.
func archiveIn(ctx context.Context, store generic.Store, summary DailySummary) error {
	entries, err := loadHistory(ctx, store)
	if err != nil {
		return err
	}
	next := make([]DailySummary, 0, len(entries)+1)
	next = append(next, summary)
	next = append(next, entries...)
	return generic.Save(ctx, store, KeyHistory, historyDoc{Version: schemaVersion, Entries: next})
}

func loadHistory(ctx context.Context, store generic.Store) ([]DailySummary, error) {
	loaded, err := generic.Load[historyDoc](ctx, store, KeyHistory)
	if err != nil {
		return nil, err
	}
	switch loaded.Status {
	case generic.LoadCorrupt:
		log.Printf("[History] %v; treating history as empty", loaded.Err)
		return nil, nil
	case generic.LoadAbsent:
		return nil, nil
	}
	return loaded.Value.Entries, nil
}

// =============================================================================
// STATS
// =============================================================================

// Stats aggregates the archive.
type Stats struct {
	Days            int
	DaysMetTarget   int
	TotalIntake     int
	AverageTotal    decimal.Decimal
	AverageProgress decimal.Decimal
}

// Stats computes aggregates over every archived day.
func (h *HistoryStore) Stats(ctx context.Context) (Stats, error) {
	entries, err := loadHistory(ctx, h.store)
	if err != nil {
		return Stats{}, err
	}
	return computeStats(entries), nil
}

func computeStats(entries []DailySummary) Stats {
	s := Stats{AverageTotal: decimal.Zero, AverageProgress: decimal.Zero}
	if len(entries) == 0 {
		return s
	}

	progressSum := decimal.Zero
	for _, e := range entries {
		s.Days++
		s.TotalIntake += e.Total
		if e.MetTarget() {
			s.DaysMetTarget++
		}
		progressSum = progressSum.Add(e.Progress())
	}
	n := decimal.NewFromInt(int64(s.Days))
	s.AverageTotal = decimal.NewFromInt(int64(s.TotalIntake)).Div(n).Round(1)
	s.AverageProgress = progressSum.Div(n).Round(1)
	return s
}
