package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	// PaymentStatusBlocked closes capacity without a payment record.
	PaymentStatusBlocked PaymentStatus = "blocked"
)

type Booking struct {
	ID            int64
	Date          time.Time
	TourID        string
	Guests        int
	PaymentStatus PaymentStatus
	Reference     string
	CustomerEmail string
	CustomerName  string
	CreatedAt     time.Time
}

// OccupancyRow is the projection the availability read selects.
type OccupancyRow struct {
	Date   time.Time
	Guests int
}
