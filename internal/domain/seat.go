package domain

import (
	"fmt"
	"sort"
)

// SeatType classifies a physical seat. Every switch over it must handle all
// three values.
type SeatType string

const (
	SeatRegular     SeatType = "regular"
	SeatVIP         SeatType = "vip"
	SeatUnavailable SeatType = "unavailable"
)

func ParseSeatType(s string) (SeatType, error) {
	switch t := SeatType(s); t {
	case SeatRegular, SeatVIP, SeatUnavailable:
		return t, nil
	default:
		return "", fmt.Errorf("unknown seat type %q", s)
	}
}

// Sellable reports whether a seat of this type can ever be booked.
func (t SeatType) Sellable() bool {
	switch t {
	case SeatRegular, SeatVIP:
		return true
	case SeatUnavailable:
		return false
	default:
		return false
	}
}

// SeatKey identifies a seat within a screen, e.g. {"A", 1} is A1.
type SeatKey struct {
	Row    string `json:"row"`
	Number int    `json:"seat_number"`
}

func (k SeatKey) String() string {
	return fmt.Sprintf("%s%d", k.Row, k.Number)
}

func (k SeatKey) less(o SeatKey) bool {
	if len(k.Row) != len(o.Row) {
		return len(k.Row) < len(o.Row)
	}
	if k.Row != o.Row {
		return k.Row < o.Row
	}
	return k.Number < o.Number
}

// SortSeatKeys orders keys A1, A2, ..., Z9, AA1.
func SortSeatKeys(keys []SeatKey) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
}

// RowLabel returns the label of the zero-based row index: 0 is A, 25 is Z,
// 26 is AA.
func RowLabel(i int) string {
	label := ""
	for i >= 0 {
		label = string(rune('A'+i%26)) + label
		i = i/26 - 1
	}
	return label
}

// SeatSet is an unordered set of seats.
type SeatSet map[SeatKey]struct{}

func NewSeatSet(keys ...SeatKey) SeatSet {
	s := make(SeatSet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func (s SeatSet) Has(k SeatKey) bool {
	_, ok := s[k]
	return ok
}

// Add inserts k and reports whether it was not already present.
func (s SeatSet) Add(k SeatKey) bool {
	if _, ok := s[k]; ok {
		return false
	}
	s[k] = struct{}{}
	return true
}

// Remove deletes k and reports whether it was present.
func (s SeatSet) Remove(k SeatKey) bool {
	if _, ok := s[k]; !ok {
		return false
	}
	delete(s, k)
	return true
}

func (s SeatSet) Len() int {
	return len(s)
}

// Keys returns the members in seat order.
func (s SeatSet) Keys() []SeatKey {
	keys := make([]SeatKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	SortSeatKeys(keys)
	return keys
}

func (s SeatSet) Clone() SeatSet {
	c := make(SeatSet, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}
