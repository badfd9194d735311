package domain

import "time"

// DefaultBuffer is the turnover time appended to every screening.
const DefaultBuffer = 15 * time.Minute

// Interval is the half-open span [Start, End) a screening occupies a screen.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ScreeningInterval covers the movie runtime plus the turnover buffer.
func ScreeningInterval(start time.Time, runtime, buffer time.Duration) Interval {
	return Interval{Start: start, End: start.Add(runtime + buffer)}
}

// Overlaps reports whether the intervals share any instant. Intervals that
// only touch at an endpoint do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && i.End.After(o.Start)
}

// Ended reports whether the interval is entirely before t.
func (i Interval) Ended(t time.Time) bool {
	return !i.End.After(t)
}
