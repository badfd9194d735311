package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimeOfDay is a wall-clock slot such as 19:30.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: want HH:MM", s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

// BulkPlan asks for one movie on one screen at every slot of every day from
// StartDate to EndDate inclusive. Only the calendar date of StartDate and
// EndDate is used.
type BulkPlan struct {
	MovieID   uuid.UUID
	ScreenID  uuid.UUID
	StartDate time.Time
	EndDate   time.Time
	Slots     []TimeOfDay
	Price     decimal.Decimal
	VIPPrice  decimal.NullDecimal
}

// Validate checks the plan's preconditions. maxDays of zero disables the
// range limit.
func (p BulkPlan) Validate(maxDays int) error {
	verr := &ValidationError{}

	start, end := calendarDate(p.StartDate), calendarDate(p.EndDate)
	if end.Before(start) {
		verr.Add("end_date", "must not be before start_date")
	} else if days := int(end.Sub(start).Hours()/24) + 1; maxDays > 0 && days > maxDays {
		verr.Add("end_date", fmt.Sprintf("range must not exceed %d days", maxDays))
	}
	if len(p.Slots) == 0 {
		verr.Add("time_slots", "at least one time slot is required")
	}
	if p.Price.IsNegative() {
		verr.Add("price", "must not be negative")
	}
	if p.VIPPrice.Valid && p.VIPPrice.Decimal.IsNegative() {
		verr.Add("vip_price", "must not be negative")
	}

	if verr.Empty() {
		return nil
	}
	return verr
}

// Expand returns the start time of every screening in the plan, in loc,
// ordered chronologically, keeping only those strictly after now. Repeated
// slots collapse into one. A slot that falls in a daylight-saving gap starts
// at the first instant after the gap.
func (p BulkPlan) Expand(loc *time.Location, now time.Time) ([]time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	slots := uniqueSlots(p.Slots)
	start, end := calendarDate(p.StartDate), calendarDate(p.EndDate)

	var starts []time.Time
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		var prev time.Time
		for _, slot := range slots {
			ts := slotInstant(day, slot, loc)
			// two slots inside one gap land on the same instant
			if ts.Equal(prev) {
				continue
			}
			prev = ts
			if ts.After(now) {
				starts = append(starts, ts)
			}
		}
	}

	if len(starts) == 0 {
		return nil, ErrNoValidSlots
	}
	return starts, nil
}

// slotInstant resolves slot on day in loc. time.Date normalizes a wall
// clock that does not exist to either side of the gap; both are pulled to
// the transition instant.
func slotInstant(day time.Time, slot TimeOfDay, loc *time.Location) time.Time {
	ts := time.Date(day.Year(), day.Month(), day.Day(), slot.Hour, slot.Minute, 0, 0, loc)

	want := time.Date(day.Year(), day.Month(), day.Day(), slot.Hour, slot.Minute, 0, 0, time.UTC)
	got := time.Date(ts.Year(), ts.Month(), ts.Day(), ts.Hour(), ts.Minute(), 0, 0, time.UTC)
	switch {
	case got.Before(want):
		_, end := ts.ZoneBounds()
		return end
	case got.After(want):
		start, _ := ts.ZoneBounds()
		return start
	}
	return ts
}

// calendarDate drops the clock and zone so day stepping is immune to DST.
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func uniqueSlots(slots []TimeOfDay) []TimeOfDay {
	seen := make(map[int]bool, len(slots))
	out := make([]TimeOfDay, 0, len(slots))
	for _, s := range slots {
		if seen[s.minutes()] {
			continue
		}
		seen[s.minutes()] = true
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].minutes() < out[j].minutes() })
	return out
}
