package generic

import (
	"fmt"
	"sync"
	"time"
)

// =============================================================================
// DAY ID - Calendar date in a reference zone (the unit of rollover)
// =============================================================================

// DayID is a calendar date formatted as "2006-01-02".
type DayID string

const dayLayout = "2006-01-02"

// ParseDayID validates s as a calendar date.
func ParseDayID(s string) (DayID, error) {
	if _, err := time.Parse(dayLayout, s); err != nil {
		return "", fmt.Errorf("invalid day %q: %w", s, err)
	}
	return DayID(s), nil
}

func (d DayID) String() string { return string(d) }
func (d DayID) IsZero() bool   { return d == "" }

// Before compares two day identifiers. The layout sorts lexically.
func (d DayID) Before(other DayID) bool { return d < other }
func (d DayID) After(other DayID) bool  { return d > other }

// DaysBetween returns the number of calendar days from d to other.
// Unparseable identifiers yield 0.
func DaysBetween(from, to DayID) int {
	a, err1 := time.Parse(dayLayout, string(from))
	b, err2 := time.Parse(dayLayout, string(to))
	if err1 != nil || err2 != nil {
		return 0
	}
	return int(b.Sub(a).Hours() / 24)
}

// =============================================================================
// CLOCK - Injected time source
// =============================================================================

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock returns a settable instant. Safe for concurrent use.
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFixedClock(t time.Time) *FixedClock { return &FixedClock{t: t} }

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// =============================================================================
// DAY CALENDAR - Maps instants to DayIDs in a fixed zone
// =============================================================================

// DayCalendar computes day identifiers under a fixed reference time zone.
// Two instants map to the same DayID iff they fall on the same local date
// in Location.
type DayCalendar struct {
	Location *time.Location
}

// NewDayCalendar loads the named IANA zone. An empty name means UTC.
func NewDayCalendar(zone string) (DayCalendar, error) {
	if zone == "" {
		return DayCalendar{Location: time.UTC}, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return DayCalendar{}, fmt.Errorf("load time zone %q: %w", zone, err)
	}
	return DayCalendar{Location: loc}, nil
}

func (c DayCalendar) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// DayOf returns the DayID of t.
func (c DayCalendar) DayOf(t time.Time) DayID {
	return DayID(t.In(c.location()).Format(dayLayout))
}

// StartOfDay returns local midnight of the day containing t.
func (c DayCalendar) StartOfDay(t time.Time) time.Time {
	lt := t.In(c.location())
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, c.location())
}

// NextMidnight returns the first instant of the day after t.
func (c DayCalendar) NextMidnight(t time.Time) time.Time {
	start := c.StartOfDay(t)
	return time.Date(start.Year(), start.Month(), start.Day()+1, 0, 0, 0, 0, c.location())
}
