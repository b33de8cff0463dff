package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/tourbooking/internal/domain"
	"github.com/Domenick1991/tourbooking/internal/kafka"
	"github.com/Domenick1991/tourbooking/internal/metrics"
	"github.com/Domenick1991/tourbooking/internal/repository"
	"github.com/Domenick1991/tourbooking/internal/service/availability"
	"github.com/Domenick1991/tourbooking/internal/service/tours"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

type BookingUseCase interface {
	Quote(ctx context.Context, input QuoteInput) (*Quote, error)
	Submit(ctx context.Context, input SubmitInput) (*Checkout, error)
	BlockDate(ctx context.Context, tourID, date string, guests int) (*domain.Booking, error)
	ExpireStalePending(ctx context.Context) ([]domain.Booking, error)
}

type IdempotencyStore interface {
	ClaimIdempotencyKey(ctx context.Context, tourID, key string, value []byte, ttl time.Duration) ([]byte, bool, error)
	UpdateIdempotencyKey(ctx context.Context, tourID, key string, value []byte) error
	ReleaseIdempotencyKey(ctx context.Context, tourID, key string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	tours              tours.TourUseCase
	bookings           repository.BookingRepository
	availability       availability.AvailabilityUseCase
	idempotency        IdempotencyStore
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	allowOverbooking   bool
	pendingTTL         time.Duration
	idempotencyTTL     time.Duration
	loc                *time.Location
	now                func() time.Time
	log                logrus.FieldLogger
}

type QuoteInput struct {
	TourID string `json:"tour_id"`
	Date   string `json:"date"`
	Guests int    `json:"guests"`
}

type SubmitInput struct {
	TourID         string `json:"tour_id"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	Guests         int    `json:"guests"`
	IdempotencyKey string `json:"idempotency_key"`
	CustomerEmail  string `json:"customer_email"`
	CustomerName   string `json:"customer_name"`
}

// Checkout is the hand-off to the external payment page. Persisted is false
// when the pending row could not be written; the checkout is still valid.
// A replayed checkout carries the values stored by the first submission.
type Checkout struct {
	Reference string `json:"reference"`
	URL       string `json:"url"`
	Persisted bool   `json:"persisted"`
	Replayed  bool   `json:"replayed,omitempty"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithIdempotency(store IdempotencyStore, ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.idempotency = store
		s.idempotencyTTL = ttl
	}
}

// WithOverbooking switches Submit to the unconditional insert.
func WithOverbooking(allow bool) BookingServiceOption {
	return func(s *BookingService) {
		s.allowOverbooking = allow
	}
}

func WithPendingTTL(ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.pendingTTL = ttl
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	tours tours.TourUseCase,
	bookings repository.BookingRepository,
	availability availability.AvailabilityUseCase,
	producer Producer,
	bookingTopic string,
	loc *time.Location,
	log logrus.FieldLogger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		tours:        tours,
		bookings:     bookings,
		availability: availability,
		producer:     producer,
		bookingTopic: bookingTopic,
		loc:          loc,
		now:          time.Now,
		log:          log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) today() time.Time {
	return domain.StartOfDay(s.now(), s.loc)
}

// Quote clamps the requested guests against the live occupancy of the date.
func (s *BookingService) Quote(ctx context.Context, input QuoteInput) (*Quote, error) {
	tour, err := s.tours.GetByID(ctx, input.TourID)
	if err != nil {
		return nil, err
	}

	occupancy := s.availability.Occupancy(ctx, tour.ID)
	form := NewForm(*tour, occupancy.Counts)
	if input.Date != "" {
		date, err := domain.ParseDate(input.Date, s.loc)
		if err != nil {
			return nil, err
		}
		if date.Before(s.today()) {
			return nil, domain.ErrDateInPast
		}
		form.SelectDate(date)
	}
	form.SetGuests(input.Guests)

	quote := form.Quote()
	quote.Degraded = occupancy.Degraded
	return &quote, nil
}

// Submit records a pending hold and returns the checkout hand-off. Insert
// failures are logged and skipped; only a capacity rejection stops the
// hand-off.
func (s *BookingService) Submit(ctx context.Context, input SubmitInput) (*Checkout, error) {
	tour, err := s.tours.GetByID(ctx, input.TourID)
	if err != nil {
		return nil, err
	}

	log := s.log.WithField("tour", tour.ID)
	if input.Date == "" || strings.TrimSpace(input.Time) == "" || input.Guests <= 0 {
		log.WithFields(logrus.Fields{
			"date":   input.Date,
			"time":   input.Time,
			"guests": input.Guests,
		}).Warn("booking submitted without date, time or guests")
		metrics.BookingSubmissions.WithLabelValues(tour.ID, "incomplete").Inc()
		return nil, domain.ErrIncompleteBooking
	}

	date, err := domain.ParseDate(input.Date, s.loc)
	if err != nil {
		return nil, err
	}
	if date.Before(s.today()) {
		return nil, domain.ErrDateInPast
	}

	base, err := parseCheckoutURL(tour.CheckoutURL)
	if err != nil {
		log.WithError(err).Error("checkout url is not usable")
		return nil, err
	}

	dateKey := domain.DateKey(date)
	ref := BuildReference(tour.ID, dateKey, input.Time, input.Guests, s.now())
	checkout := &Checkout{
		Reference: ref,
		URL:       BuildCheckoutURL(base, ref, tour.ID, dateKey, input.Time, input.Guests),
	}

	replay, owned := s.claim(ctx, tour.ID, input.IdempotencyKey, checkout)
	if replay != nil {
		metrics.BookingSubmissions.WithLabelValues(tour.ID, "replayed").Inc()
		return replay, nil
	}

	booking := &domain.Booking{
		Date:          date,
		TourID:        tour.ID,
		Guests:        input.Guests,
		PaymentStatus: domain.PaymentStatusPending,
		Reference:     ref,
		CustomerEmail: input.CustomerEmail,
		CustomerName:  input.CustomerName,
	}

	err = s.insertPending(ctx, booking, tour.MaxCapacity)
	switch {
	case errors.Is(err, domain.ErrSoldOut):
		if owned {
			s.release(ctx, tour.ID, input.IdempotencyKey)
		}
		metrics.BookingSubmissions.WithLabelValues(tour.ID, "sold_out").Inc()
		return nil, err
	case err != nil:
		log.WithError(err).WithField("ref", ref).Warn("pending booking insert failed, continuing to checkout")
		metrics.PendingInsertFailures.WithLabelValues(tour.ID).Inc()
		metrics.BookingSubmissions.WithLabelValues(tour.ID, "unpersisted").Inc()
	default:
		checkout.Persisted = true
		if owned {
			s.remember(ctx, tour.ID, input.IdempotencyKey, checkout)
		}
		metrics.BookingSubmissions.WithLabelValues(tour.ID, "persisted").Inc()
		s.availability.Invalidate(ctx, tour.ID)
		if err := s.publish(ctx, kafka.EventPendingCreated, booking, input.Time); err != nil {
			log.WithError(err).WithField("ref", ref).Warn("failed to publish booking event")
		}
	}

	return checkout, nil
}

func (s *BookingService) insertPending(ctx context.Context, booking *domain.Booking, maxCapacity int) error {
	if s.allowOverbooking {
		return s.bookings.Create(ctx, booking)
	}
	return s.bookings.CreateWithinCapacity(ctx, booking, maxCapacity)
}

// claim returns the stored checkout when key was already used for tourID.
// owned reports whether this call stored checkout under key. Store errors
// disable deduplication for this call.
func (s *BookingService) claim(ctx context.Context, tourID, key string, checkout *Checkout) (replay *Checkout, owned bool) {
	if key == "" || s.idempotency == nil {
		return nil, false
	}
	payload, err := json.Marshal(checkout)
	if err != nil {
		return nil, false
	}
	stored, claimed, err := s.idempotency.ClaimIdempotencyKey(ctx, tourID, key, payload, s.idempotencyTTL)
	if err != nil {
		s.log.WithError(err).WithField("tour", tourID).Warn("idempotency store unavailable")
		return nil, false
	}
	if claimed {
		return nil, true
	}

	var previous Checkout
	if err := json.Unmarshal(stored, &previous); err != nil {
		s.log.WithError(err).WithField("tour", tourID).Warn("stored checkout is unreadable")
		return nil, false
	}
	previous.Replayed = true
	return &previous, false
}

// remember overwrites the claimed record once the pending row exists so
// replays report it as persisted.
func (s *BookingService) remember(ctx context.Context, tourID, key string, checkout *Checkout) {
	payload, err := json.Marshal(checkout)
	if err != nil {
		return
	}
	if err := s.idempotency.UpdateIdempotencyKey(ctx, tourID, key, payload); err != nil {
		s.log.WithError(err).WithField("tour", tourID).Debug("failed to update idempotency key")
	}
}

func (s *BookingService) release(ctx context.Context, tourID, key string) {
	if key == "" || s.idempotency == nil {
		return
	}
	if err := s.idempotency.ReleaseIdempotencyKey(ctx, tourID, key); err != nil {
		s.log.WithError(err).WithField("tour", tourID).Debug("failed to release idempotency key")
	}
}

// BlockDate closes guests spots on date with a blocked row. guests <= 0
// closes whatever is left, at least one spot.
func (s *BookingService) BlockDate(ctx context.Context, tourID, date string, guests int) (*domain.Booking, error) {
	tour, err := s.tours.GetByID(ctx, tourID)
	if err != nil {
		return nil, err
	}
	day, err := domain.ParseDate(date, s.loc)
	if err != nil {
		return nil, err
	}
	if day.Before(s.today()) {
		return nil, domain.ErrDateInPast
	}

	// Closing the rest of a date reads the table, not the occupancy cache.
	if guests <= 0 {
		rows, err := s.bookings.ListOccupancy(ctx, tour.ID, day)
		if err != nil {
			return nil, fmt.Errorf("read occupancy: %w", err)
		}
		guests = max(1, availability.SpotsLeft(availability.Aggregate(rows), day, tour.MaxCapacity))
	}

	booking := &domain.Booking{
		Date:          day,
		TourID:        tour.ID,
		Guests:        guests,
		PaymentStatus: domain.PaymentStatusBlocked,
		Reference:     fmt.Sprintf("block_%s_%s_%d", tour.ID, domain.DateKey(day), s.now().UnixMilli()),
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("block %s %s: %w", tour.ID, domain.DateKey(day), err)
	}

	s.availability.Invalidate(ctx, tour.ID)
	if err := s.publish(ctx, kafka.EventDateBlocked, booking, ""); err != nil {
		s.log.WithError(err).WithField("tour", tour.ID).Warn("failed to publish block event")
	}
	return booking, nil
}

// ExpireStalePending cancels pending rows older than the pending TTL. A zero
// TTL disables the sweep.
func (s *BookingService) ExpireStalePending(ctx context.Context) ([]domain.Booking, error) {
	if s.pendingTTL <= 0 {
		return nil, nil
	}

	deadline := s.now().Add(-s.pendingTTL)
	expired, err := s.bookings.ExpirePendingBefore(ctx, deadline)
	if err != nil {
		return nil, err
	}

	for i := range expired {
		metrics.ExpiredHolds.Inc()
		if err := s.publish(ctx, kafka.EventExpired, &expired[i], ""); err != nil {
			s.log.WithError(err).WithField("ref", expired[i].Reference).Warn("failed to publish expiry event")
		}
	}
	tourIDs := lo.Uniq(lo.Map(expired, func(b domain.Booking, _ int) string { return b.TourID }))
	for _, id := range tourIDs {
		s.availability.Invalidate(ctx, id)
	}
	return expired, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking, slot string) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		Reference:     booking.Reference,
		TourID:        booking.TourID,
		Date:          domain.DateKey(booking.Date),
		Time:          slot,
		Guests:        booking.Guests,
		PaymentStatus: string(booking.PaymentStatus),
		CustomerEmail: booking.CustomerEmail,
		CustomerName:  booking.CustomerName,
		OccurredAt:    s.now(),
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.Reference, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, booking.Reference, event)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
