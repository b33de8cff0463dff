package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/tourbooking/internal/kafka"
	"github.com/sirupsen/logrus"
)

// Sender turns booking events into customer or operator notices. Delivery is
// a structured log entry; a mail transport plugs in behind Send.
type Sender struct {
	log logrus.FieldLogger
}

func NewSender(log logrus.FieldLogger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	recipient := event.CustomerEmail
	if recipient == "" {
		recipient = "operator"
	}
	s.log.WithFields(logrus.Fields{
		"to":        recipient,
		"event":     event.Type,
		"reference": event.Reference,
	}).Info(Subject(event))
	return nil
}

// Subject is the notification headline for an event.
func Subject(event kafka.BookingEvent) string {
	switch event.Type {
	case kafka.EventPendingCreated:
		return fmt.Sprintf("Reservation started: %s on %s for %d guests", event.TourID, event.Date, event.Guests)
	case kafka.EventExpired:
		return fmt.Sprintf("Reservation released: %s on %s (%d guests) was not paid in time", event.TourID, event.Date, event.Guests)
	case kafka.EventDateBlocked:
		return fmt.Sprintf("Date closed: %s on %s (%d spots blocked)", event.TourID, event.Date, event.Guests)
	default:
		return fmt.Sprintf("Booking update %s for %s", event.Type, event.Reference)
	}
}
