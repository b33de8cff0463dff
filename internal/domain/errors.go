package domain

import "errors"

var (
	ErrTourNotFound          = errors.New("tour not found")
	ErrIncompleteBooking     = errors.New("date, time and guests are required")
	ErrCheckoutNotConfigured = errors.New("checkout url is not configured")
	ErrSoldOut               = errors.New("not enough spots left for this date")
	ErrInvalidDate           = errors.New("invalid date")
	ErrInvalidGuests         = errors.New("guests must be positive")
	ErrDateInPast            = errors.New("date is in the past")
)
