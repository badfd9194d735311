package domain

import (
	"time"

	"github.com/google/uuid"
)

// Screening is one placement of a movie on a screen, either already stored
// (ShowtimeID set) or a candidate that has not been written yet.
type Screening struct {
	ShowtimeID uuid.UUID
	MovieID    uuid.UUID
	MovieTitle string
	Start      time.Time
	Runtime    time.Duration
}

type ConflictSource string

const (
	// ConflictExisting is a clash with a stored active showtime.
	ConflictExisting ConflictSource = "existing"
	// ConflictBatch is a clash between two candidates of the same request.
	ConflictBatch ConflictSource = "batch"
)

// ConflictInfo describes one overlapping pair.
type ConflictInfo struct {
	Candidate          Interval       `json:"candidate"`
	Existing           Interval       `json:"existing"`
	ExistingShowtimeID uuid.UUID      `json:"existing_showtime_id,omitempty"`
	MovieTitle         string         `json:"movie_title"`
	Source             ConflictSource `json:"source"`
}

// Detector finds overlapping screenings on a single screen.
type Detector struct {
	Buffer time.Duration
}

func NewDetector(buffer time.Duration) Detector {
	if buffer < 0 {
		buffer = 0
	}
	return Detector{Buffer: buffer}
}

func (d Detector) Interval(s Screening) Interval {
	return ScreeningInterval(s.Start, s.Runtime, d.Buffer)
}

// Detect returns one ConflictInfo per (candidate, existing) pair whose
// buffered intervals overlap. A candidate carrying the ID of an existing
// showtime is an edit of it and is never compared with itself.
func (d Detector) Detect(candidates, existing []Screening) []ConflictInfo {
	var conflicts []ConflictInfo
	for _, c := range candidates {
		ci := d.Interval(c)
		for _, e := range existing {
			if c.ShowtimeID != uuid.Nil && c.ShowtimeID == e.ShowtimeID {
				continue
			}
			ei := d.Interval(e)
			if !ci.Overlaps(ei) {
				continue
			}
			conflicts = append(conflicts, ConflictInfo{
				Candidate:          ci,
				Existing:           ei,
				ExistingShowtimeID: e.ShowtimeID,
				MovieTitle:         e.MovieTitle,
				Source:             ConflictExisting,
			})
		}
	}
	return conflicts
}

// DetectWithinBatch compares candidates with each other, each unordered pair
// once.
func (d Detector) DetectWithinBatch(candidates []Screening) []ConflictInfo {
	var conflicts []ConflictInfo
	for i := range candidates {
		ci := d.Interval(candidates[i])
		for j := i + 1; j < len(candidates); j++ {
			cj := d.Interval(candidates[j])
			if !ci.Overlaps(cj) {
				continue
			}
			conflicts = append(conflicts, ConflictInfo{
				Candidate:  cj,
				Existing:   ci,
				MovieTitle: candidates[i].MovieTitle,
				Source:     ConflictBatch,
			})
		}
	}
	return conflicts
}
