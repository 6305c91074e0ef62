package postgres

import (
	"context"
	"testing"

	"mobiwash-service/internal/domain/booking"
	"mobiwash-service/internal/domain/status"
)

func TestBookingListIncludesServiceLines(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	var serviceID int64
	err := pool.QueryRow(ctx, `
		INSERT INTO services (name, price) VALUES ($1, 2500) RETURNING id
	`, uniqueRef("Exterior Wash")).Scan(&serviceID)
	if err != nil {
		t.Fatalf("failed to insert service: %v", err)
	}

	ref := uniqueRef("BK")
	var bookingID int64
	err = pool.QueryRow(ctx, `
		INSERT INTO bookings (booking_reference, booking_date, time_slot, location, status, total_amount)
		VALUES ($1, CURRENT_DATE, 'morning', '12 Main St', $2, 2500)
		RETURNING id
	`, ref, status.StatusScheduled).Scan(&bookingID)
	if err != nil {
		t.Fatalf("failed to insert booking: %v", err)
	}

	if _, err := pool.Exec(ctx, `
		INSERT INTO booking_services (booking_id, service_id, quantity, price_at_booking)
		VALUES ($1, $2, 1, 2500)
	`, bookingID, serviceID); err != nil {
		t.Fatalf("failed to attach service: %v", err)
	}

	out, total, err := NewBookingRepository(pool).List(ctx, &booking.BookingListFilters{
		Search:   ref,
		Page:     1,
		PageSize: 10,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(out) != 1 {
		t.Fatalf("expected exactly one booking, got %d (total %d)", len(out), total)
	}
	if len(out[0].Services) != 1 || out[0].Services[0].ServiceID != serviceID {
		t.Fatalf("service lines missing from list row: %+v", out[0].Services)
	}
	if out[0].Services[0].ServiceName == "" {
		t.Error("service line has no name")
	}
}
