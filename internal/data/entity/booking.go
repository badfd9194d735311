package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusPaid      BookingStatus = "paid"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	BaseNoDelete
	TenantID      uuid.UUID       `db:"tenant_id"`
	ShowtimeID    uuid.UUID       `db:"showtime_id"`
	Reference     string          `db:"reference"`
	CustomerName  string          `db:"customer_name"`
	CustomerEmail string          `db:"customer_email"`
	CustomerPhone *string         `db:"customer_phone"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	Status        BookingStatus   `db:"status"`
}
