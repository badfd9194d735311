package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func screening(id uuid.UUID, title string, start time.Time, runtime time.Duration) Screening {
	return Screening{ShowtimeID: id, MovieID: uuid.New(), MovieTitle: title, Start: start, Runtime: runtime}
}

func TestDetectRespectsBuffer(t *testing.T) {
	d := NewDetector(DefaultBuffer)
	existing := []Screening{screening(uuid.New(), "Dune", at(10, 0), 100*time.Minute)}

	// 10:00 + 100m + 15m ends at 11:55
	clash := d.Detect([]Screening{screening(uuid.Nil, "Arrival", at(11, 54), 90*time.Minute)}, existing)
	require.Len(t, clash, 1)
	assert.Equal(t, "Dune", clash[0].MovieTitle)
	assert.Equal(t, existing[0].ShowtimeID, clash[0].ExistingShowtimeID)
	assert.Equal(t, at(11, 55), clash[0].Existing.End)
	assert.Equal(t, ConflictExisting, clash[0].Source)

	clear := d.Detect([]Screening{screening(uuid.Nil, "Arrival", at(11, 55), 90*time.Minute)}, existing)
	assert.Empty(t, clear)
}

func TestDetectUsesConfiguredBuffer(t *testing.T) {
	existing := []Screening{screening(uuid.New(), "Dune", at(10, 0), 100*time.Minute)}
	candidate := []Screening{screening(uuid.Nil, "Arrival", at(11, 50), 90*time.Minute)}

	assert.Len(t, NewDetector(15*time.Minute).Detect(candidate, existing), 1)
	assert.Empty(t, NewDetector(5*time.Minute).Detect(candidate, existing))
	assert.Equal(t, time.Duration(0), NewDetector(-time.Minute).Buffer)
}

func TestDetectIsSymmetric(t *testing.T) {
	d := NewDetector(DefaultBuffer)
	a := screening(uuid.New(), "A", at(14, 0), 120*time.Minute)
	b := screening(uuid.New(), "B", at(15, 30), 90*time.Minute)
	c := screening(uuid.New(), "C", at(18, 0), 90*time.Minute)

	for _, pair := range [][2]Screening{{a, b}, {a, c}, {b, c}} {
		ab := d.Detect([]Screening{pair[0]}, []Screening{pair[1]})
		ba := d.Detect([]Screening{pair[1]}, []Screening{pair[0]})
		assert.Equal(t, len(ab), len(ba), "%s vs %s", pair[0].MovieTitle, pair[1].MovieTitle)
	}
}

func TestDetectSkipsSelf(t *testing.T) {
	d := NewDetector(DefaultBuffer)
	id := uuid.New()
	stored := screening(id, "Dune", at(10, 0), 100*time.Minute)

	// rescheduling by ten minutes overlaps the old slot of the same showtime
	moved := stored
	moved.Start = at(10, 10)

	assert.Empty(t, d.Detect([]Screening{moved}, []Screening{stored}))
}

func TestDetectReportsEveryPair(t *testing.T) {
	d := NewDetector(DefaultBuffer)
	existing := []Screening{
		screening(uuid.New(), "Morning", at(9, 0), 90*time.Minute),
		screening(uuid.New(), "Noon", at(11, 0), 90*time.Minute),
	}
	candidates := []Screening{
		screening(uuid.Nil, "Long", at(10, 0), 150*time.Minute),
		screening(uuid.Nil, "Short", at(10, 30), 10*time.Minute),
	}

	conflicts := d.Detect(candidates, existing)

	// Long hits both, Short hits Morning only
	require.Len(t, conflicts, 3)
	assert.Equal(t, "Morning", conflicts[0].MovieTitle)
	assert.Equal(t, "Noon", conflicts[1].MovieTitle)
	assert.Equal(t, "Morning", conflicts[2].MovieTitle)
}

func TestDetectWithinBatch(t *testing.T) {
	d := NewDetector(DefaultBuffer)
	candidates := []Screening{
		screening(uuid.Nil, "Dune", at(10, 0), 100*time.Minute),
		screening(uuid.Nil, "Dune", at(11, 0), 100*time.Minute),
		screening(uuid.Nil, "Dune", at(14, 0), 100*time.Minute),
	}

	conflicts := d.DetectWithinBatch(candidates)

	require.Len(t, conflicts, 1)
	assert.Equal(t, ConflictBatch, conflicts[0].Source)
	assert.Equal(t, at(10, 0), conflicts[0].Existing.Start)
	assert.Equal(t, at(11, 0), conflicts[0].Candidate.Start)
	assert.Equal(t, uuid.Nil, conflicts[0].ExistingShowtimeID)
}
