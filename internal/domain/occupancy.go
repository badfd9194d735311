package domain

// Badge is the occupancy label shown next to a showtime.
type Badge string

const (
	BadgeNone        Badge = ""
	BadgeFillingFast Badge = "filling_fast"
	BadgeAlmostFull  Badge = "almost_full"
	BadgeSoldOut     Badge = "sold_out"
)

// OccupancyBadge grades booked/capacity against 95%, 80% and 50% using
// integer arithmetic so the boundaries are exact. A zero capacity screen has
// nothing left to sell.
func OccupancyBadge(booked, capacity int) Badge {
	if capacity <= 0 {
		return BadgeSoldOut
	}
	switch pct := booked * 100; {
	case pct >= 95*capacity:
		return BadgeSoldOut
	case pct >= 80*capacity:
		return BadgeAlmostFull
	case pct >= 50*capacity:
		return BadgeFillingFast
	default:
		return BadgeNone
	}
}

func (b Badge) Label() string {
	switch b {
	case BadgeSoldOut:
		return "Sold out"
	case BadgeAlmostFull:
		return "Almost full"
	case BadgeFillingFast:
		return "Filling fast"
	default:
		return ""
	}
}

type Occupancy struct {
	Booked   int   `json:"booked"`
	Capacity int   `json:"capacity"`
	Badge    Badge `json:"badge,omitempty"`
}

func NewOccupancy(booked, capacity int) Occupancy {
	return Occupancy{Booked: booked, Capacity: capacity, Badge: OccupancyBadge(booked, capacity)}
}
