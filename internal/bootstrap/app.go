package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/tourbooking/config"
	"github.com/Domenick1991/tourbooking/internal/cache"
	"github.com/Domenick1991/tourbooking/internal/kafka"
	"github.com/Domenick1991/tourbooking/internal/repository"
	"github.com/Domenick1991/tourbooking/internal/service/availability"
	"github.com/Domenick1991/tourbooking/internal/service/booking"
	"github.com/Domenick1991/tourbooking/internal/service/tours"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// App holds the process-wide clients and the services built on them. It is
// shared by the API server, the worker and bookingctl.
type App struct {
	Config       *config.Config
	Log          logrus.FieldLogger
	Location     *time.Location
	Pool         *pgxpool.Pool
	Cache        *cache.RedisCache
	Producer     *kafka.Producer
	Repository   repository.BookingRepository
	Tours        *tours.TourService
	Availability *availability.Service
	Bookings     *booking.BookingService
}

func NewApp(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*App, error) {
	loc, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Booking.Timezone, err)
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	app := &App{
		Config:     cfg,
		Log:        log,
		Location:   loc,
		Pool:       pool,
		Cache:      cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.AvailabilityCacheTTL)*time.Second),
		Repository: repository.NewBookingRepository(pool),
		Tours:      tours.NewTourService(tours.DefaultCatalog(), cfg.Checkout.URLs),
	}

	var producer booking.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		app.Producer = kafka.NewProducer(cfg.Kafka.Brokers, log)
		producer = app.Producer
	} else {
		log.Warn("no kafka brokers configured, booking events are not published")
	}

	app.Availability = availability.NewService(app.Repository, loc, log, availability.WithCache(app.Cache))
	app.Bookings = booking.NewBookingService(
		app.Tours,
		app.Repository,
		app.Availability,
		producer,
		cfg.Kafka.BookingTopic,
		loc,
		log,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithIdempotency(app.Cache, time.Duration(cfg.Booking.IdempotencyTTLMinutes)*time.Minute),
		booking.WithOverbooking(cfg.Booking.AllowOverbooking),
		booking.WithPendingTTL(time.Duration(cfg.Booking.PendingTTLMinutes)*time.Minute),
	)
	return app, nil
}

// HealthChecks covers the stores a request depends on.
func (a *App) HealthChecks() []HealthCheck {
	return []HealthCheck{
		{Name: "postgres", Check: a.Repository.Check},
		{Name: "redis", Check: a.Cache.Ping},
	}
}

func (a *App) Close() {
	if a.Producer != nil {
		if err := a.Producer.Close(); err != nil {
			a.Log.WithError(err).Warn("close kafka producer")
		}
	}
	if err := a.Cache.Close(); err != nil {
		a.Log.WithError(err).Warn("close redis")
	}
	a.Pool.Close()
}
