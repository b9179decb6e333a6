/*
tracker.go - Today's intake and the day-rollover algorithm

PURPOSE:
  DayTracker owns the current day's records and target. The host shell
  calls ResetIfNeeded on every activation; everything else is a direct
  user action (add, delete, change target, manual reset).

ROLLOVER ALGORITHM (ResetIfNeeded):
  1. current = DayOf(clock.Now()) in the reference zone
  2. No readable snapshot (absent or corrupt) -> first run: empty
     records, default target, persist, stop
  3. Stored day == current -> nothing to roll; adopt the persisted
     snapshot so in-memory state matches storage
  4. Stored day != current and auto-reset enabled ->
       archive the stored day if it has records,
       reset to {default target, no records}, persist both atomically
     Stored day != current and auto-reset disabled -> leave as is

  A stored day ahead of the current one (clock moved backward) still
  rolls over. A gap of several days produces a single summary for the
  last stored day; the days in between had no records.

IDEMPOTENCY:
  After a rollover the snapshot carries the current day, so a second
  call on the same day takes path 3.

PERSISTENCE:
  Every mutation writes the new state before it replaces the in-memory
  copy. A failed write leaves the tracker on its previous state.

SEE ALSO:
  - history.go: HistoryStore
  - generic/load.go: absent/corrupt/present loading
*/
package hydration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/warp/intake-engine/generic"
)

// =============================================================================
// CHANGE NOTIFICATION
// =============================================================================

type ChangeKind string

const (
	ChangeInitialized     ChangeKind = "initialized"
	ChangeReconciled      ChangeKind = "reconciled"
	ChangeRolledOver      ChangeKind = "rolled_over"
	ChangeRecordAdded     ChangeKind = "record_added"
	ChangeRecordsDeleted  ChangeKind = "records_deleted"
	ChangeTargetUpdated   ChangeKind = "target_updated"
	ChangeSettingsUpdated ChangeKind = "settings_updated"
	ChangeReset           ChangeKind = "reset"
)

// Change describes a state transition. Archived is set when a day was
// moved to history.
type Change struct {
	Kind     ChangeKind
	Snapshot DaySnapshot
	Archived *DailySummary
}

// Observer is notified after every successful state change.
// Observers run after the tracker's lock is released and may call back in.
type Observer interface {
	TrackerChanged(Change)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Change)

func (f ObserverFunc) TrackerChanged(c Change) { f(c) }

// =============================================================================
// OUTCOME - What ResetIfNeeded did
// =============================================================================

type Outcome string

const (
	OutcomeInitialized Outcome = "initialized" // first run or unreadable snapshot
	OutcomeUnchanged   Outcome = "unchanged"   // same day
	OutcomeRolledOver  Outcome = "rolled_over" // new day, previous archived or discarded
	OutcomeStale       Outcome = "stale"       // new day but auto-reset disabled
)

// =============================================================================
// DAY TRACKER
// =============================================================================

// Options configures a DayTracker. Zero values fall back to the system
// clock, UTC and DefaultSettings.
type Options struct {
	Clock    generic.Clock
	Calendar generic.DayCalendar
	Defaults *Settings
	NewID    func() string
}

type DayTracker struct {
	mu       sync.Mutex
	store    generic.TxStore
	history  *HistoryStore
	clock    generic.Clock
	calendar generic.DayCalendar
	defaults Settings
	newID    func() string

	snap   DaySnapshot
	loaded bool

	obsMu     sync.RWMutex
	observers []Observer
}

// NewDayTracker builds a tracker over store. State is read lazily: call
// ResetIfNeeded on activation.
func NewDayTracker(store generic.TxStore, opts Options) (*DayTracker, error) {
	if store == nil {
		return nil, generic.ErrStoreRequired
	}
	t := &DayTracker{
		store:    store,
		history:  NewHistoryStore(store),
		clock:    opts.Clock,
		calendar: opts.Calendar,
		defaults: DefaultSettings(),
		newID:    opts.NewID,
	}
	if t.clock == nil {
		t.clock = generic.SystemClock{}
	}
	if opts.Defaults != nil {
		if err := opts.Defaults.Validate(); err != nil {
			return nil, fmt.Errorf("default settings: %w", err)
		}
		t.defaults = opts.Defaults.clone()
		t.defaults.Version = schemaVersion
	}
	if t.newID == nil {
		t.newID = uuid.NewString
	}
	return t, nil
}

// Subscribe registers o for change notifications.
func (t *DayTracker) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

func (t *DayTracker) notify(c Change) {
	t.obsMu.RLock()
	observers := append([]Observer{}, t.observers...)
	t.obsMu.RUnlock()
	for _, o := range observers {
		o.TrackerChanged(c)
	}
}

// History exposes the archive.
func (t *DayTracker) History() *HistoryStore { return t.history }

// Today returns the current day identifier.
func (t *DayTracker) Today() generic.DayID { return t.calendar.DayOf(t.clock.Now()) }

// =============================================================================
// READ ACCESSORS
// =============================================================================

func (t *DayTracker) Snapshot() DaySnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap.clone()
}

func (t *DayTracker) Total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap.Total()
}

func (t *DayTracker) Target() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap.Target
}

// Records returns today's records, newest first.
func (t *DayTracker) Records() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Record{}, t.snap.Records...)
}

// Settings returns the persisted settings, or defaults if unreadable.
func (t *DayTracker) Settings(ctx context.Context) (Settings, error) {
	return t.loadSettings(ctx, t.store)
}

// =============================================================================
// ROLLOVER
// =============================================================================

// ResetIfNeeded runs the rollover algorithm. Safe to call repeatedly.
func (t *DayTracker) ResetIfNeeded(ctx context.Context) (Outcome, error) {
	t.mu.Lock()
	outcome, change, err := t.resetIfNeededLocked(ctx)
	t.mu.Unlock()

	if err != nil {
		return "", err
	}
	if change != nil {
		t.notify(*change)
	}
	return outcome, nil
}

func (t *DayTracker) resetIfNeededLocked(ctx context.Context) (Outcome, *Change, error) {
	current := t.calendar.DayOf(t.clock.Now())

	settings, err := t.loadSettings(ctx, t.store)
	if err != nil {
		return "", nil, err
	}

	loaded, err := generic.Load[DaySnapshot](ctx, t.store, KeyToday)
	if err != nil {
		return "", nil, err
	}

	if loaded.OK() {
		if err := validateSnapshot(loaded.Value); err != nil {
			loaded.Status = generic.LoadCorrupt
			loaded.Err = &generic.DecodeError{Key: KeyToday, Err: err}
		}
	}
	if !loaded.OK() {
		if loaded.Status == generic.LoadCorrupt {
			log.Printf("[Tracker] %v; reinitializing today", loaded.Err)
		}
		fresh := newSnapshot(settings.DefaultTarget, current)
		if err := generic.Save(ctx, t.store, KeyToday, fresh); err != nil {
			return "", nil, err
		}
		t.snap, t.loaded = fresh, true
		log.Printf("[Tracker] Initialized %s with target %d", current, fresh.Target)
		return OutcomeInitialized, &Change{Kind: ChangeInitialized, Snapshot: fresh.clone()}, nil
	}

	stored := normalizeSnapshot(loaded.Value)

	if stored.LastSavedDay == current {
		var change *Change
		if t.loaded && t.snap.Target != stored.Target {
			log.Printf("[Tracker] Target reconciled %d -> %d", t.snap.Target, stored.Target)
			change = &Change{Kind: ChangeReconciled, Snapshot: stored.clone()}
		}
		t.snap, t.loaded = stored, true
		return OutcomeUnchanged, change, nil
	}

	if !settings.AutoResetAtMidnight {
		t.snap, t.loaded = stored, true
		return OutcomeStale, nil, nil
	}

	if stored.LastSavedDay.After(current) {
		log.Printf("[Tracker] Stored day %s is ahead of %s (clock moved backward); rolling over", stored.LastSavedDay, current)
	} else if gap := generic.DaysBetween(stored.LastSavedDay, current); gap > 1 {
		log.Printf("[Tracker] %d days since %s; archiving last stored day only", gap, stored.LastSavedDay)
	}

	archived, err := t.archiveAndResetLocked(ctx, stored, settings, current)
	if err != nil {
		return "", nil, err
	}
	return OutcomeRolledOver, &Change{Kind: ChangeRolledOver, Snapshot: t.snap.clone(), Archived: archived}, nil
}

// archiveAndResetLocked archives prev (when it has records) and replaces
// the snapshot with an empty one for day. History and snapshot are written
// in one transaction.
func (t *DayTracker) archiveAndResetLocked(ctx context.Context, prev DaySnapshot, settings Settings, day generic.DayID) (*DailySummary, error) {
	fresh := newSnapshot(settings.DefaultTarget, day)

	var archived *DailySummary
	if len(prev.Records) > 0 {
		s := newSummary(t.newID(), prev)
		archived = &s
	}

	err := t.store.WithTx(ctx, func(s generic.Store) error {
		if archived != nil {
			if err := archiveIn(ctx, s, *archived); err != nil {
				return err
			}
		}
		return generic.Save(ctx, s, KeyToday, fresh)
	})
	if err != nil {
		return nil, fmt.Errorf("archive %s: %w", prev.LastSavedDay, err)
	}

	t.snap, t.loaded = fresh, true
	if archived != nil {
		log.Printf("[Tracker] Archived %s: total=%d target=%d records=%d",
			archived.Day, archived.Total, archived.Target, len(archived.Records))
	} else {
		log.Printf("[Tracker] Reset %s with no records; nothing archived", prev.LastSavedDay)
	}
	return archived, nil
}

// ManualReset clears today. With records present it requires confirmed;
// without confirmation it returns ErrConfirmationRequired and changes
// nothing. A confirmed reset archives exactly like a rollover.
func (t *DayTracker) ManualReset(ctx context.Context, confirmed bool) (*DailySummary, error) {
	t.mu.Lock()
	archived, change, err := t.manualResetLocked(ctx, confirmed)
	t.mu.Unlock()

	if err != nil {
		return nil, err
	}
	t.notify(change)
	return archived, nil
}

func (t *DayTracker) manualResetLocked(ctx context.Context, confirmed bool) (*DailySummary, Change, error) {
	if err := t.ensureLoadedLocked(ctx); err != nil {
		return nil, Change{}, err
	}
	cur, err := t.persistedLocked(ctx, t.store)
	if err != nil {
		return nil, Change{}, err
	}
	t.snap = cur
	if len(t.snap.Records) > 0 && !confirmed {
		return nil, Change{}, ErrConfirmationRequired
	}

	settings, err := t.loadSettings(ctx, t.store)
	if err != nil {
		return nil, Change{}, err
	}
	archived, err := t.archiveAndResetLocked(ctx, t.snap, settings, t.calendar.DayOf(t.clock.Now()))
	if err != nil {
		return nil, Change{}, err
	}
	return archived, Change{Kind: ChangeReset, Snapshot: t.snap.clone(), Archived: archived}, nil
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Add logs amount milliliters as the newest record.
func (t *DayTracker) Add(ctx context.Context, amount int) (Record, error) {
	if amount <= 0 {
		return Record{}, &ValueError{Field: "amount", Value: amount, Err: ErrInvalidAmount}
	}

	t.mu.Lock()
	rec, change, err := t.addLocked(ctx, amount)
	t.mu.Unlock()

	if err != nil {
		return Record{}, err
	}
	t.notify(change)
	return rec, nil
}

func (t *DayTracker) addLocked(ctx context.Context, amount int) (Record, Change, error) {
	rec := Record{
		ID:        t.newID(),
		Timestamp: t.clock.Now().UTC().Round(0),
		Amount:    amount,
	}
	next, err := t.mutateLocked(ctx, func(_ generic.Store, next *DaySnapshot) error {
		next.Records = append([]Record{rec}, next.Records...)
		return nil
	})
	if err != nil {
		return Record{}, Change{}, err
	}
	return rec, Change{Kind: ChangeRecordAdded, Snapshot: next.clone()}, nil
}

// AddQuick logs the configured quick amount at index.
func (t *DayTracker) AddQuick(ctx context.Context, index int) (Record, error) {
	settings, err := t.loadSettings(ctx, t.store)
	if err != nil {
		return Record{}, err
	}
	if index < 0 || index >= len(settings.QuickAmounts) {
		return Record{}, &IndexError{Index: index, Len: len(settings.QuickAmounts)}
	}
	return t.Add(ctx, settings.QuickAmounts[index])
}

// DeleteRecords removes the records at the given positions. Every index
// is validated first; one bad index rejects the whole call. Repeated
// indices remove the record once.
func (t *DayTracker) DeleteRecords(ctx context.Context, indices ...int) ([]Record, error) {
	t.mu.Lock()
	removed, change, err := t.deleteLocked(ctx, indices)
	t.mu.Unlock()

	if err != nil || change == nil {
		return nil, err
	}
	t.notify(*change)
	return removed, nil
}

func (t *DayTracker) deleteLocked(ctx context.Context, indices []int) ([]Record, *Change, error) {
	if len(indices) == 0 {
		return nil, nil, t.ensureLoadedLocked(ctx)
	}

	var removed []Record
	next, err := t.mutateLocked(ctx, func(_ generic.Store, next *DaySnapshot) error {
		n := len(next.Records)
		drop := make(map[int]bool, len(indices))
		for _, i := range indices {
			if i < 0 || i >= n {
				return &IndexError{Index: i, Len: n}
			}
			drop[i] = true
		}

		kept := make([]Record, 0, n-len(drop))
		for i, r := range next.Records {
			if drop[i] {
				removed = append(removed, r)
				continue
			}
			kept = append(kept, r)
		}
		next.Records = kept
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return removed, &Change{Kind: ChangeRecordsDeleted, Snapshot: next.clone()}, nil
}

// UpdateTarget sets today's target and makes it the default for future
// days. Snapshot and settings are written together.
func (t *DayTracker) UpdateTarget(ctx context.Context, target int) error {
	if target <= 0 {
		return &ValueError{Field: "target", Value: target, Err: ErrInvalidTarget}
	}

	t.mu.Lock()
	change, err := t.updateTargetLocked(ctx, target)
	t.mu.Unlock()

	if err != nil {
		return err
	}
	t.notify(change)
	return nil
}

func (t *DayTracker) updateTargetLocked(ctx context.Context, target int) (Change, error) {
	next, err := t.mutateLocked(ctx, func(tx generic.Store, next *DaySnapshot) error {
		settings, err := t.loadSettings(ctx, tx)
		if err != nil {
			return err
		}
		settings.DefaultTarget = target
		if err := generic.Save(ctx, tx, KeySettings, settings); err != nil {
			return err
		}
		next.Target = target
		return nil
	})
	if err != nil {
		return Change{}, fmt.Errorf("update target: %w", err)
	}
	return Change{Kind: ChangeTargetUpdated, Snapshot: next.clone()}, nil
}

// UpdateSettings validates and persists settings. A changed default
// target also becomes today's target.
func (t *DayTracker) UpdateSettings(ctx context.Context, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	s = s.clone()
	s.Version = schemaVersion

	t.mu.Lock()
	change, err := t.updateSettingsLocked(ctx, s)
	t.mu.Unlock()

	if err != nil {
		return err
	}
	t.notify(change)
	return nil
}

func (t *DayTracker) updateSettingsLocked(ctx context.Context, s Settings) (Change, error) {
	next, err := t.mutateLocked(ctx, func(tx generic.Store, next *DaySnapshot) error {
		prev, err := t.loadSettings(ctx, tx)
		if err != nil {
			return err
		}
		if err := generic.Save(ctx, tx, KeySettings, s); err != nil {
			return err
		}
		if prev.DefaultTarget != s.DefaultTarget {
			next.Target = s.DefaultTarget
		}
		return nil
	})
	if err != nil {
		return Change{}, fmt.Errorf("update settings: %w", err)
	}
	return Change{Kind: ChangeSettingsUpdated, Snapshot: next.clone()}, nil
}

// =============================================================================
// INTERNALS
// =============================================================================

// ensureLoadedLocked makes sure the tracker reflects storage before the
// first mutation. It runs the same path as activation.
func (t *DayTracker) ensureLoadedLocked(ctx context.Context) error {
	if t.loaded {
		return nil
	}
	_, _, err := t.resetIfNeededLocked(ctx)
	return err
}

// mutateLocked applies fn to the persisted snapshot and saves the result
// in one transaction. Starting from storage rather than the cached copy
// keeps records written by another tracker on the same store.
func (t *DayTracker) mutateLocked(ctx context.Context, fn func(tx generic.Store, next *DaySnapshot) error) (DaySnapshot, error) {
	if err := t.ensureLoadedLocked(ctx); err != nil {
		return DaySnapshot{}, err
	}

	var next DaySnapshot
	err := t.store.WithTx(ctx, func(tx generic.Store) error {
		cur, err := t.persistedLocked(ctx, tx)
		if err != nil {
			return err
		}
		next = cur
		if err := fn(tx, &next); err != nil {
			return err
		}
		return generic.Save(ctx, tx, KeyToday, next)
	})
	if err != nil {
		return DaySnapshot{}, err
	}
	t.snap = next
	return next.clone(), nil
}

// persistedLocked reads today's snapshot through s. It falls back to the
// cached snapshot when storage holds nothing usable.
func (t *DayTracker) persistedLocked(ctx context.Context, s generic.Store) (DaySnapshot, error) {
	loaded, err := generic.Load[DaySnapshot](ctx, s, KeyToday)
	if err != nil {
		return DaySnapshot{}, err
	}
	if !loaded.OK() || validateSnapshot(loaded.Value) != nil {
		return t.snap.clone(), nil
	}
	return normalizeSnapshot(loaded.Value), nil
}

func (t *DayTracker) loadSettings(ctx context.Context, store generic.Store) (Settings, error) {
	loaded, err := generic.Load[Settings](ctx, store, KeySettings)
	if err != nil {
		return Settings{}, err
	}
	switch loaded.Status {
	case generic.LoadAbsent:
		return t.defaults.clone(), nil
	case generic.LoadCorrupt:
		log.Printf("[Tracker] %v; using default settings", loaded.Err)
		return t.defaults.clone(), nil
	}
	if err := loaded.Value.Validate(); err != nil {
		log.Printf("[Tracker] invalid stored settings (%v); using defaults", err)
		return t.defaults.clone(), nil
	}
	return loaded.Value, nil
}

// validateSnapshot rejects decoded snapshots that break the data model.
func validateSnapshot(s DaySnapshot) error {
	if s.Target <= 0 {
		return ErrInvalidTarget
	}
	if _, err := generic.ParseDayID(string(s.LastSavedDay)); err != nil {
		return err
	}
	for _, r := range s.Records {
		if r.Amount <= 0 {
			return ErrInvalidAmount
		}
	}
	return nil
}

func normalizeSnapshot(s DaySnapshot) DaySnapshot {
	if s.Records == nil {
		s.Records = []Record{}
	}
	return s
}

// IsValidationError reports whether err rejected the call without side
// effects.
func IsValidationError(err error) bool {
	return IsClientError(err) || errors.Is(err, ErrConfirmationRequired)
}
