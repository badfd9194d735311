package domain

// SeatState is what a viewer sees for one seat.
type SeatState int

const (
	StateAvailable SeatState = iota
	StateBooked
	StateSelected
	StateUnavailable
)

func (s SeatState) String() string {
	switch s {
	case StateAvailable:
		return "available"
	case StateBooked:
		return "booked"
	case StateSelected:
		return "selected"
	case StateUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

func (s SeatState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// LayoutSeat is one entry of a screen's static seat layout.
type LayoutSeat struct {
	Key         SeatKey
	Type        SeatType
	IsAvailable bool
}

func (s LayoutSeat) Sellable() bool {
	return s.IsAvailable && s.Type.Sellable()
}

// SeatMap is the static layout of one screen.
type SeatMap struct {
	Rows    int
	Columns int

	seats []LayoutSeat
	index map[SeatKey]int
}

// NewSeatMap builds a map from explicit layout rows. Without any, the screen
// is a rows x columns grid of regular seats.
func NewSeatMap(rows, columns int, layout []LayoutSeat) *SeatMap {
	seats := make([]LayoutSeat, 0, max(len(layout), rows*columns))
	if len(layout) > 0 {
		seats = append(seats, layout...)
	} else {
		for r := 0; r < rows; r++ {
			for c := 1; c <= columns; c++ {
				seats = append(seats, LayoutSeat{
					Key:         SeatKey{Row: RowLabel(r), Number: c},
					Type:        SeatRegular,
					IsAvailable: true,
				})
			}
		}
	}

	keys := make([]SeatKey, len(seats))
	byKey := make(map[SeatKey]LayoutSeat, len(seats))
	for i, s := range seats {
		keys[i] = s.Key
		byKey[s.Key] = s
	}
	SortSeatKeys(keys)

	m := &SeatMap{Rows: rows, Columns: columns, index: make(map[SeatKey]int, len(keys))}
	for _, k := range keys {
		if _, dup := m.index[k]; dup {
			continue
		}
		m.index[k] = len(m.seats)
		m.seats = append(m.seats, byKey[k])
	}
	return m
}

// Seats returns the layout in row then seat-number order.
func (m *SeatMap) Seats() []LayoutSeat {
	out := make([]LayoutSeat, len(m.seats))
	copy(out, m.seats)
	return out
}

func (m *SeatMap) Seat(k SeatKey) (LayoutSeat, bool) {
	i, ok := m.index[k]
	if !ok {
		return LayoutSeat{}, false
	}
	return m.seats[i], true
}

// Capacity counts the seats that can be sold.
func (m *SeatMap) Capacity() int {
	n := 0
	for _, s := range m.seats {
		if s.Sellable() {
			n++
		}
	}
	return n
}

func (m *SeatMap) Occupancy(booked SeatSet) Occupancy {
	return NewOccupancy(booked.Len(), m.Capacity())
}

// State resolves one seat against the booked set and the viewer's own
// selection. A booked seat reads as booked even if the layout later marked it
// unavailable.
func (m *SeatMap) State(k SeatKey, booked, selected SeatSet) SeatState {
	seat, ok := m.Seat(k)
	if !ok {
		return StateUnavailable
	}
	switch {
	case booked.Has(k):
		return StateBooked
	case !seat.Sellable():
		return StateUnavailable
	case selected.Has(k):
		return StateSelected
	default:
		return StateAvailable
	}
}

// Clickable reports whether a viewer may add k to a selection. Nothing is
// clickable once the showtime is sold out.
func (m *SeatMap) Clickable(k SeatKey, booked SeatSet) bool {
	seat, ok := m.Seat(k)
	if !ok || !seat.Sellable() || booked.Has(k) {
		return false
	}
	return m.Occupancy(booked).Badge != BadgeSoldOut
}
