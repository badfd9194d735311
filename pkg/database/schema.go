package database

import (
	"context"
	"fmt"
)

var schema = []struct {
	name string
	ddl  string
}{
	{"screens", `
CREATE TABLE IF NOT EXISTS screens (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	tenant_id UUID NOT NULL,
	name VARCHAR(100) NOT NULL,
	row_count INTEGER NOT NULL CHECK (row_count > 0),
	column_count INTEGER NOT NULL CHECK (column_count > 0),
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
	deleted_at TIMESTAMP WITH TIME ZONE
);`},
	{"seat_layouts", `
CREATE TABLE IF NOT EXISTS seat_layouts (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	screen_id UUID NOT NULL REFERENCES screens(id) ON DELETE CASCADE,
	row_label VARCHAR(4) NOT NULL,
	seat_number INTEGER NOT NULL CHECK (seat_number > 0),
	seat_type VARCHAR(16) NOT NULL CHECK (seat_type IN ('regular', 'vip', 'unavailable')),
	is_available BOOLEAN NOT NULL DEFAULT true,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
	UNIQUE (screen_id, row_label, seat_number)
);`},
	{"movies", `
CREATE TABLE IF NOT EXISTS movies (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	tenant_id UUID NOT NULL,
	title VARCHAR(255) NOT NULL,
	duration_minutes INTEGER NOT NULL CHECK (duration_minutes > 0),
	status VARCHAR(16) NOT NULL DEFAULT 'coming_soon',
	is_active BOOLEAN NOT NULL DEFAULT true,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
	deleted_at TIMESTAMP WITH TIME ZONE
);`},
	{"showtimes", `
CREATE TABLE IF NOT EXISTS showtimes (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	tenant_id UUID NOT NULL,
	movie_id UUID NOT NULL REFERENCES movies(id),
	screen_id UUID NOT NULL REFERENCES screens(id),
	start_time TIMESTAMP WITH TIME ZONE NOT NULL,
	price NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
	vip_price NUMERIC(12, 2) CHECK (vip_price >= 0),
	is_active BOOLEAN NOT NULL DEFAULT true,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_showtimes_screen_active ON showtimes (screen_id, start_time) WHERE is_active;
CREATE INDEX IF NOT EXISTS idx_showtimes_movie_active ON showtimes (movie_id, start_time) WHERE is_active;`},
	{"bookings", `
CREATE TABLE IF NOT EXISTS bookings (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	tenant_id UUID NOT NULL,
	showtime_id UUID NOT NULL REFERENCES showtimes(id),
	reference VARCHAR(32) NOT NULL UNIQUE,
	customer_name VARCHAR(255) NOT NULL,
	customer_email VARCHAR(255) NOT NULL,
	customer_phone VARCHAR(32),
	total_amount NUMERIC(12, 2) NOT NULL,
	status VARCHAR(16) NOT NULL DEFAULT 'pending',
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);`},
	// the unique key is what makes double-selling impossible
	{"booked_seats", `
CREATE TABLE IF NOT EXISTS booked_seats (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	booking_id UUID NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
	showtime_id UUID NOT NULL REFERENCES showtimes(id),
	row_label VARCHAR(4) NOT NULL,
	seat_number INTEGER NOT NULL,
	seat_type VARCHAR(16) NOT NULL,
	price NUMERIC(12, 2) NOT NULL,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
	CONSTRAINT booked_seats_showtime_seat_key UNIQUE (showtime_id, row_label, seat_number)
);`},
}

// Migrate creates the tables when they are missing.
func Migrate(ctx context.Context, db PgxIface) error {
	for _, table := range schema {
		if _, err := db.Exec(ctx, table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}
	return nil
}
