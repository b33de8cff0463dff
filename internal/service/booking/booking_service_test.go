package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/Domenick1991/tourbooking/internal/domain"
	"github.com/Domenick1991/tourbooking/internal/kafka"
	"github.com/Domenick1991/tourbooking/internal/logger"
	"github.com/Domenick1991/tourbooking/internal/service/availability"
	"github.com/Domenick1991/tourbooking/internal/service/tours"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) ListOccupancy(ctx context.Context, tourID string, from time.Time) ([]domain.OccupancyRow, error) {
	args := m.Called(ctx, tourID, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OccupancyRow), args.Error(1)
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) CreateWithinCapacity(ctx context.Context, booking *domain.Booking, maxCapacity int) error {
	args := m.Called(ctx, booking, maxCapacity)
	return args.Error(0)
}

func (m *MockBookingRepository) ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, deadline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Check(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockAvailability struct {
	mock.Mock
}

func (m *MockAvailability) Occupancy(ctx context.Context, tourID string) availability.Result {
	args := m.Called(ctx, tourID)
	return args.Get(0).(availability.Result)
}

func (m *MockAvailability) Invalidate(ctx context.Context, tourID string) {
	m.Called(ctx, tourID)
}

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) ClaimIdempotencyKey(ctx context.Context, tourID, key string, value []byte, ttl time.Duration) ([]byte, bool, error) {
	args := m.Called(ctx, tourID, key, value, ttl)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.Bool(1), args.Error(2)
}

func (m *MockIdempotencyStore) UpdateIdempotencyKey(ctx context.Context, tourID, key string, value []byte) error {
	args := m.Called(ctx, tourID, key, value)
	return args.Error(0)
}

func (m *MockIdempotencyStore) ReleaseIdempotencyKey(ctx context.Context, tourID, key string) error {
	args := m.Called(ctx, tourID, key)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

var lisbon = mustLoad("Europe/Lisbon")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

var now = time.Date(2026, time.May, 20, 12, 0, 0, 0, lisbon)

func fixedClock() time.Time { return now }

func newService(repo *MockBookingRepository, avail *MockAvailability, producer Producer, opts ...BookingServiceOption) *BookingService {
	opts = append([]BookingServiceOption{WithClock(fixedClock)}, opts...)
	return NewBookingService(
		tours.NewTourService(tours.DefaultCatalog(), nil),
		repo,
		avail,
		producer,
		"tour-bookings",
		lisbon,
		logger.Discard(),
		opts...,
	)
}

func eveningInput() SubmitInput {
	return SubmitInput{
		TourID: "evening",
		Date:   "2026-06-01",
		Time:   "5:00 PM - 8:00 PM",
		Guests: 2,
	}
}

func TestBookingService_Submit_Success(t *testing.T) {
	repo := &MockBookingRepository{}
	avail := &MockAvailability{}
	producer := &MockProducer{}
	service := newService(repo, avail, producer, WithNotificationsTopic("notifications"))
	ctx := context.Background()

	repo.On("CreateWithinCapacity", ctx, mock.AnythingOfType("*domain.Booking"), 12).Return(nil).Once()
	avail.On("Invalidate", ctx, "evening").Once()
	producer.On("Publish", ctx, "tour-bookings", mock.Anything, mock.AnythingOfType("kafka.BookingEvent")).Return(nil).Once()
	producer.On("Publish", ctx, "notifications", mock.Anything, mock.AnythingOfType("kafka.BookingEvent")).Return(nil).Once()

	checkout, err := service.Submit(ctx, eveningInput())

	require.NoError(t, err)
	assert.True(t, checkout.Persisted)
	assert.Equal(t, "evening_2026-06-01_500PM_2_"+strconv.FormatInt(now.UnixMilli(), 10), checkout.Reference)

	booking := repo.Calls[0].Arguments.Get(1).(*domain.Booking)
	assert.Equal(t, domain.PaymentStatusPending, booking.PaymentStatus)
	assert.Equal(t, "2026-06-01", domain.DateKey(booking.Date))
	assert.Equal(t, 2, booking.Guests)
	assert.Equal(t, checkout.Reference, booking.Reference)

	event := producer.Calls[0].Arguments.Get(3).(kafka.BookingEvent)
	assert.Equal(t, kafka.EventPendingCreated, event.Type)
	assert.Equal(t, "5:00 PM - 8:00 PM", event.Time)
	assert.Equal(t, checkout.Reference, producer.Calls[0].Arguments.String(2))

	repo.AssertExpectations(t)
	avail.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestBookingService_Submit_InsertFailureStillChecksOut(t *testing.T) {
	repo := &MockBookingRepository{}
	avail := &MockAvailability{}
	service := newService(repo, avail, nil)
	ctx := context.Background()

	repo.On("CreateWithinCapacity", ctx, mock.AnythingOfType("*domain.Booking"), 12).
		Return(errors.New("dial tcp: network is unreachable")).Once()

	checkout, err := service.Submit(ctx, eveningInput())

	require.NoError(t, err)
	require.NotNil(t, checkout)
	assert.False(t, checkout.Persisted)

	u, err := url.Parse(checkout.URL)
	require.NoError(t, err)
	assert.Equal(t, "example.com", u.Host)
	assert.Equal(t, "/checkout/evening", u.Path)

	q := u.Query()
	assert.Equal(t, checkout.Reference, q.Get("ref"))
	assert.Equal(t, "evening", q.Get("tour"))
	assert.Equal(t, "2026-06-01", q.Get("date"))
	assert.Equal(t, "5:00 PM - 8:00 PM", q.Get("time"))
	assert.Equal(t, "2", q.Get("guests"))

	avail.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestBookingService_Submit_SoldOut(t *testing.T) {
	repo := &MockBookingRepository{}
	avail := &MockAvailability{}
	store := &MockIdempotencyStore{}
	service := newService(repo, avail, nil, WithIdempotency(store, 30*time.Minute))
	ctx := context.Background()

	input := eveningInput()
	input.IdempotencyKey = "key-1"

	store.On("ClaimIdempotencyKey", ctx, "evening", "key-1", mock.Anything, 30*time.Minute).Return([]byte("{}"), true, nil).Once()
	store.On("ReleaseIdempotencyKey", ctx, "evening", "key-1").Return(nil).Once()
	repo.On("CreateWithinCapacity", ctx, mock.AnythingOfType("*domain.Booking"), 12).Return(domain.ErrSoldOut).Once()

	checkout, err := service.Submit(ctx, input)

	assert.ErrorIs(t, err, domain.ErrSoldOut)
	assert.Nil(t, checkout)
	store.AssertExpectations(t)
}

func TestBookingService_Submit_AllowOverbooking(t *testing.T) {
	repo := &MockBookingRepository{}
	avail := &MockAvailability{}
	service := newService(repo, avail, nil, WithOverbooking(true))
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	avail.On("Invalidate", ctx, "evening").Once()

	checkout, err := service.Submit(ctx, eveningInput())

	require.NoError(t, err)
	assert.True(t, checkout.Persisted)
	repo.AssertNotCalled(t, "CreateWithinCapacity", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_Submit_Incomplete(t *testing.T) {
	tests := []struct {
		name  string
		input SubmitInput
	}{
		{"no date", SubmitInput{TourID: "evening", Time: "5:00 PM - 8:00 PM", Guests: 2}},
		{"no time", SubmitInput{TourID: "evening", Date: "2026-06-01", Guests: 2}},
		{"blank time", SubmitInput{TourID: "evening", Date: "2026-06-01", Time: "  ", Guests: 2}},
		{"no guests", SubmitInput{TourID: "evening", Date: "2026-06-01", Time: "5:00 PM - 8:00 PM"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockBookingRepository{}
			service := newService(repo, &MockAvailability{}, nil)

			checkout, err := service.Submit(context.Background(), tt.input)

			assert.ErrorIs(t, err, domain.ErrIncompleteBooking)
			assert.Nil(t, checkout)
			assert.Empty(t, repo.Calls)
		})
	}
}

func TestBookingService_Submit_UnknownTour(t *testing.T) {
	service := newService(&MockBookingRepository{}, &MockAvailability{}, nil)

	input := eveningInput()
	input.TourID = "sunset"
	_, err := service.Submit(context.Background(), input)

	assert.ErrorIs(t, err, domain.ErrTourNotFound)
}

func TestBookingService_Submit_PastDate(t *testing.T) {
	repo := &MockBookingRepository{}
	service := newService(repo, &MockAvailability{}, nil)

	input := eveningInput()
	input.Date = "2026-05-19"
	_, err := service.Submit(context.Background(), input)

	assert.ErrorIs(t, err, domain.ErrDateInPast)
	assert.Empty(t, repo.Calls)
}

func TestBookingService_Submit_InvalidDate(t *testing.T) {
	service := newService(&MockBookingRepository{}, &MockAvailability{}, nil)

	input := eveningInput()
	input.Date = "01/06/2026"
	_, err := service.Submit(context.Background(), input)

	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestBookingService_Submit_CheckoutNotConfigured(t *testing.T) {
	for _, raw := range []string{"", "not a url", "ftp://example.com/pay", "/checkout/evening"} {
		t.Run(raw, func(t *testing.T) {
			repo := &MockBookingRepository{}
			service := NewBookingService(
				tours.NewTourService(tours.DefaultCatalog(), map[string]string{"evening": raw}),
				repo,
				&MockAvailability{},
				nil,
				"tour-bookings",
				lisbon,
				logger.Discard(),
				WithClock(fixedClock),
			)

			_, err := service.Submit(context.Background(), eveningInput())

			assert.ErrorIs(t, err, domain.ErrCheckoutNotConfigured)
			assert.Empty(t, repo.Calls)
		})
	}
}

func TestBookingService_Submit_ReplaysIdempotencyKey(t *testing.T) {
	repo := &MockBookingRepository{}
	store := &MockIdempotencyStore{}
	service := newService(repo, &MockAvailability{}, nil, WithIdempotency(store, time.Minute))
	ctx := context.Background()

	stored, err := json.Marshal(Checkout{Reference: "evening_2026-06-01_500PM_2_1", URL: "https://example.com/checkout/evening?ref=evening_2026-06-01_500PM_2_1"})
	require.NoError(t, err)

	input := eveningInput()
	input.IdempotencyKey = "key-1"
	store.On("ClaimIdempotencyKey", ctx, "evening", "key-1", mock.Anything, time.Minute).Return(stored, false, nil).Once()

	checkout, err := service.Submit(ctx, input)

	require.NoError(t, err)
	assert.True(t, checkout.Replayed)
	assert.Equal(t, "evening_2026-06-01_500PM_2_1", checkout.Reference)
	assert.Empty(t, repo.Calls)
}

func TestBookingService_Submit_StoresPersistedCheckout(t *testing.T) {
	repo := &MockBookingRepository{}
	avail := &MockAvailability{}
	store := &MockIdempotencyStore{}
	service := newService(repo, avail, nil, WithIdempotency(store, time.Minute))
	ctx := context.Background()

	input := eveningInput()
	input.IdempotencyKey = "key-1"

	var claimedValue, updatedValue []byte
	store.On("ClaimIdempotencyKey", ctx, "evening", "key-1", mock.Anything, time.Minute).
		Run(func(args mock.Arguments) { claimedValue = args.Get(3).([]byte) }).
		Return([]byte("{}"), true, nil).Once()
	store.On("UpdateIdempotencyKey", ctx, "evening", "key-1", mock.Anything).
		Run(func(args mock.Arguments) { updatedValue = args.Get(3).([]byte) }).
		Return(nil).Once()
	repo.On("CreateWithinCapacity", ctx, mock.AnythingOfType("*domain.Booking"), 12).Return(nil).Once()
	avail.On("Invalidate", ctx, "evening").Once()

	checkout, err := service.Submit(ctx, input)
	require.NoError(t, err)
	store.AssertExpectations(t)

	var claimed, updated Checkout
	require.NoError(t, json.Unmarshal(claimedValue, &claimed))
	require.NoError(t, json.Unmarshal(updatedValue, &updated))
	assert.False(t, claimed.Persisted)
	assert.True(t, updated.Persisted)
	assert.Equal(t, checkout.Reference, updated.Reference)
	assert.Equal(t, checkout.URL, updated.URL)
}

func TestBookingService_Submit_UnpersistedCheckoutNotUpdated(t *testing.T) {
	repo := &MockBookingRepository{}
	store := &MockIdempotencyStore{}
	service := newService(repo, &MockAvailability{}, nil, WithIdempotency(store, time.Minute))
	ctx := context.Background()

	input := eveningInput()
	input.IdempotencyKey = "key-1"
	store.On("ClaimIdempotencyKey", ctx, "evening", "key-1", mock.Anything, time.Minute).Return([]byte("{}"), true, nil).Once()
	repo.On("CreateWithinCapacity", ctx, mock.AnythingOfType("*domain.Booking"), 12).Return(errors.New("db down")).Once()

	checkout, err := service.Submit(ctx, input)

	require.NoError(t, err)
	assert.False(t, checkout.Persisted)
	store.AssertNotCalled(t, "UpdateIdempotencyKey", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_Submit_ReplayReportsPersisted(t *testing.T) {
	repo := &MockBookingRepository{}
	store := &MockIdempotencyStore{}
	service := newService(repo, &MockAvailability{}, nil, WithIdempotency(store, time.Minute))
	ctx := context.Background()

	stored, err := json.Marshal(Checkout{Reference: "evening_2026-06-01_500PM_2_1", URL: "https://example.com/checkout/evening", Persisted: true})
	require.NoError(t, err)

	input := eveningInput()
	input.IdempotencyKey = "key-1"
	store.On("ClaimIdempotencyKey", ctx, "evening", "key-1", mock.Anything, time.Minute).Return(stored, false, nil).Once()

	checkout, err := service.Submit(ctx, input)

	require.NoError(t, err)
	assert.True(t, checkout.Replayed)
	assert.True(t, checkout.Persisted)
	assert.Empty(t, repo.Calls)
}

func TestBookingService_Submit_IdempotencyStoreDown(t *testing.T) {
	repo := &MockBookingRepository{}
	avail := &MockAvailability{}
	store := &MockIdempotencyStore{}
	service := newService(repo, avail, nil, WithIdempotency(store, time.Minute))
	ctx := context.Background()

	input := eveningInput()
	input.IdempotencyKey = "key-1"
	store.On("ClaimIdempotencyKey", ctx, "evening", "key-1", mock.Anything, time.Minute).Return(nil, false, errors.New("redis down")).Once()
	repo.On("CreateWithinCapacity", ctx, mock.AnythingOfType("*domain.Booking"), 12).Return(nil).Once()
	avail.On("Invalidate", ctx, "evening").Once()

	checkout, err := service.Submit(ctx, input)

	require.NoError(t, err)
	assert.True(t, checkout.Persisted)
	assert.False(t, checkout.Replayed)
}

func TestBookingService_Submit_PublishFailureIgnored(t *testing.T) {
	repo := &MockBookingRepository{}
	avail := &MockAvailability{}
	producer := &MockProducer{}
	service := newService(repo, avail, producer)
	ctx := context.Background()

	repo.On("CreateWithinCapacity", ctx, mock.AnythingOfType("*domain.Booking"), 12).Return(nil).Once()
	avail.On("Invalidate", ctx, "evening").Once()
	producer.On("Publish", ctx, "tour-bookings", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	checkout, err := service.Submit(ctx, eveningInput())

	require.NoError(t, err)
	assert.True(t, checkout.Persisted)
}

func TestBookingService_Quote(t *testing.T) {
	avail := &MockAvailability{}
	service := newService(&MockBookingRepository{}, avail, nil)
	ctx := context.Background()

	avail.On("Occupancy", ctx, "evening").Return(availability.Result{Counts: map[string]int{"2026-06-01": 9}})

	quote, err := service.Quote(ctx, QuoteInput{TourID: "evening", Date: "2026-06-01", Guests: 5})

	require.NoError(t, err)
	assert.Equal(t, 3, quote.Guests)
	assert.Equal(t, 3, quote.SpotsLeft)
	assert.Equal(t, 177, quote.Total)
	assert.Equal(t, 207, quote.RegularTotal)
	assert.True(t, quote.ShowRegular)
	assert.Equal(t, "Only 3 spots left!", quote.LowStockMessage)
	assert.False(t, quote.Degraded)
}

func TestBookingService_Quote_Degraded(t *testing.T) {
	avail := &MockAvailability{}
	service := newService(&MockBookingRepository{}, avail, nil)
	ctx := context.Background()

	avail.On("Occupancy", ctx, "brunch").Return(availability.Result{Counts: map[string]int{}, Degraded: true, Err: errors.New("timeout")})

	quote, err := service.Quote(ctx, QuoteInput{TourID: "brunch", Date: "2026-06-01", Guests: 4})

	require.NoError(t, err)
	assert.True(t, quote.Degraded)
	assert.Equal(t, 4, quote.Guests)
	assert.Equal(t, 10, quote.SpotsLeft)
}

func TestBookingService_Quote_PastDate(t *testing.T) {
	avail := &MockAvailability{}
	service := newService(&MockBookingRepository{}, avail, nil)
	ctx := context.Background()

	avail.On("Occupancy", ctx, "evening").Return(availability.Result{Counts: map[string]int{}})

	_, err := service.Quote(ctx, QuoteInput{TourID: "evening", Date: "2026-05-01", Guests: 1})

	assert.ErrorIs(t, err, domain.ErrDateInPast)
}

func TestBookingService_BlockDate_ClosesRemaining(t *testing.T) {
	repo := &MockBookingRepository{}
	avail := &MockAvailability{}
	producer := &MockProducer{}
	service := newService(repo, avail, producer)
	ctx := context.Background()

	june1 := time.Date(2026, time.June, 1, 0, 0, 0, 0, lisbon)
	repo.On("ListOccupancy", ctx, "evening", june1).Return([]domain.OccupancyRow{
		{Date: june1, Guests: 5},
		{Date: june1, Guests: 4},
		{Date: june1.AddDate(0, 0, 1), Guests: 12},
	}, nil).Once()
	repo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	avail.On("Invalidate", ctx, "evening").Once()
	producer.On("Publish", ctx, "tour-bookings", mock.Anything, mock.AnythingOfType("kafka.BookingEvent")).Return(nil).Once()

	booking, err := service.BlockDate(ctx, "evening", "2026-06-01", 0)

	require.NoError(t, err)
	assert.Equal(t, 3, booking.Guests)
	assert.Equal(t, domain.PaymentStatusBlocked, booking.PaymentStatus)
	assert.Contains(t, booking.Reference, "block_evening_2026-06-01_")

	event := producer.Calls[0].Arguments.Get(3).(kafka.BookingEvent)
	assert.Equal(t, kafka.EventDateBlocked, event.Type)
	repo.AssertExpectations(t)
	avail.AssertExpectations(t)
	avail.AssertNotCalled(t, "Occupancy", mock.Anything, mock.Anything)
}

func TestBookingService_BlockDate_SoldOutStillBlocksOne(t *testing.T) {
	repo := &MockBookingRepository{}
	avail := &MockAvailability{}
	service := newService(repo, avail, nil)
	ctx := context.Background()

	june1 := time.Date(2026, time.June, 1, 0, 0, 0, 0, lisbon)
	repo.On("ListOccupancy", ctx, "evening", june1).Return([]domain.OccupancyRow{{Date: june1, Guests: 12}}, nil).Once()
	repo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	avail.On("Invalidate", ctx, "evening").Once()

	booking, err := service.BlockDate(ctx, "evening", "2026-06-01", 0)

	require.NoError(t, err)
	assert.Equal(t, 1, booking.Guests)
}

func TestBookingService_BlockDate_ExplicitGuests(t *testing.T) {
	repo := &MockBookingRepository{}
	avail := &MockAvailability{}
	service := newService(repo, avail, nil)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	avail.On("Invalidate", ctx, "brunch").Once()

	booking, err := service.BlockDate(ctx, "brunch", "2026-07-04", 4)

	require.NoError(t, err)
	assert.Equal(t, 4, booking.Guests)
	avail.AssertNotCalled(t, "Occupancy", mock.Anything, mock.Anything)
}

func TestBookingService_BlockDate_OccupancyReadFails(t *testing.T) {
	repo := &MockBookingRepository{}
	avail := &MockAvailability{}
	service := newService(repo, avail, nil)
	ctx := context.Background()

	backendErr := errors.New("connection refused")
	repo.On("ListOccupancy", ctx, "evening", time.Date(2026, time.June, 1, 0, 0, 0, 0, lisbon)).Return(nil, backendErr).Once()

	_, err := service.BlockDate(ctx, "evening", "2026-06-01", 0)

	assert.ErrorIs(t, err, backendErr)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	avail.AssertNotCalled(t, "Occupancy", mock.Anything, mock.Anything)
}

func TestBookingService_BlockDate_IgnoresStaleCache(t *testing.T) {
	repo := &MockBookingRepository{}
	avail := &MockAvailability{}
	service := newService(repo, avail, nil)
	ctx := context.Background()

	june1 := time.Date(2026, time.June, 1, 0, 0, 0, 0, lisbon)
	avail.On("Occupancy", ctx, "evening").Return(availability.Result{Counts: map[string]int{"2026-06-01": 2}}).Maybe()
	repo.On("ListOccupancy", ctx, "evening", june1).Return([]domain.OccupancyRow{{Date: june1, Guests: 2}}, nil).Once()
	repo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	avail.On("Invalidate", ctx, "evening").Once()

	booking, err := service.BlockDate(ctx, "evening", "2026-06-01", 0)

	require.NoError(t, err)
	assert.Equal(t, 10, booking.Guests)
	avail.AssertNotCalled(t, "Occupancy", mock.Anything, mock.Anything)
}

func TestBookingService_ExpireStalePending(t *testing.T) {
	repo := &MockBookingRepository{}
	avail := &MockAvailability{}
	producer := &MockProducer{}
	service := newService(repo, avail, producer, WithPendingTTL(30*time.Minute))
	ctx := context.Background()

	expired := []domain.Booking{
		{ID: 1, TourID: "evening", Date: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), Guests: 2, PaymentStatus: domain.PaymentStatusCancelled, Reference: "a"},
		{ID: 2, TourID: "evening", Date: time.Date(2026, time.June, 2, 0, 0, 0, 0, time.UTC), Guests: 1, PaymentStatus: domain.PaymentStatusCancelled, Reference: "b"},
		{ID: 3, TourID: "brunch", Date: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), Guests: 3, PaymentStatus: domain.PaymentStatusCancelled, Reference: "c"},
	}
	repo.On("ExpirePendingBefore", ctx, now.Add(-30*time.Minute)).Return(expired, nil).Once()
	producer.On("Publish", ctx, "tour-bookings", mock.Anything, mock.AnythingOfType("kafka.BookingEvent")).Return(nil).Times(3)
	avail.On("Invalidate", ctx, "evening").Once()
	avail.On("Invalidate", ctx, "brunch").Once()

	result, err := service.ExpireStalePending(ctx)

	require.NoError(t, err)
	assert.Len(t, result, 3)
	event := producer.Calls[0].Arguments.Get(3).(kafka.BookingEvent)
	assert.Equal(t, kafka.EventExpired, event.Type)
	assert.Equal(t, "2026-06-01", event.Date)
	repo.AssertExpectations(t)
	avail.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestBookingService_ExpireStalePending_Disabled(t *testing.T) {
	repo := &MockBookingRepository{}
	service := newService(repo, &MockAvailability{}, nil)

	result, err := service.ExpireStalePending(context.Background())

	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.Empty(t, repo.Calls)
}

func TestBookingService_ExpireStalePending_Error(t *testing.T) {
	repo := &MockBookingRepository{}
	service := newService(repo, &MockAvailability{}, nil, WithPendingTTL(time.Hour))
	ctx := context.Background()

	repo.On("ExpirePendingBefore", ctx, mock.AnythingOfType("time.Time")).Return(nil, errors.New("db down")).Once()

	_, err := service.ExpireStalePending(ctx)

	assert.Error(t, err)
}
