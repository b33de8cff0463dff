package availability

import (
	"context"
	"time"

	"github.com/Domenick1991/tourbooking/internal/domain"
	"github.com/Domenick1991/tourbooking/internal/metrics"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

type AvailabilityUseCase interface {
	Occupancy(ctx context.Context, tourID string) Result
	Invalidate(ctx context.Context, tourID string)
}

type Repository interface {
	ListOccupancy(ctx context.Context, tourID string, from time.Time) ([]domain.OccupancyRow, error)
}

type Cache interface {
	GetOccupancy(ctx context.Context, tourID string) (map[string]int, bool, error)
	SetOccupancy(ctx context.Context, tourID string, counts map[string]int) error
	InvalidateOccupancy(ctx context.Context, tourID string) error
}

// Result is the occupancy for one tour. Degraded is set when the backend
// read failed and Counts was replaced by an empty map; callers treat every
// date as unbooked in that case.
type Result struct {
	Counts   map[string]int
	Degraded bool
	Err      error
}

// Occupied returns the guests already booked on date.
func (r Result) Occupied(date time.Time) int {
	return r.Counts[domain.DateKey(date)]
}

type Service struct {
	repo  Repository
	cache Cache
	loc   *time.Location
	now   func() time.Time
	log   logrus.FieldLogger
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithCache(cache Cache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func NewService(repo Repository, loc *time.Location, log logrus.FieldLogger, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		loc:  loc,
		now:  time.Now,
		log:  log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Occupancy sums guests per date for tourID from today onwards, counting
// every row that is not cancelled.
func (s *Service) Occupancy(ctx context.Context, tourID string) Result {
	if s.cache != nil {
		if counts, ok, err := s.cache.GetOccupancy(ctx, tourID); err == nil && ok {
			return Result{Counts: counts}
		}
	}

	today := domain.StartOfDay(s.now(), s.loc)
	rows, err := s.repo.ListOccupancy(ctx, tourID, today)
	if err != nil {
		s.log.WithError(err).WithField("tour", tourID).Warn("occupancy read failed, serving empty availability")
		metrics.AvailabilityFallbacks.WithLabelValues(tourID).Inc()
		return Result{Counts: map[string]int{}, Degraded: true, Err: err}
	}

	counts := Aggregate(rows)
	if s.cache != nil {
		if err := s.cache.SetOccupancy(ctx, tourID, counts); err != nil {
			s.log.WithError(err).WithField("tour", tourID).Debug("occupancy cache write failed")
		}
	}
	return Result{Counts: counts}
}

// Invalidate drops cached counts after a write touched tourID.
func (s *Service) Invalidate(ctx context.Context, tourID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateOccupancy(ctx, tourID); err != nil {
		s.log.WithError(err).WithField("tour", tourID).Debug("occupancy cache invalidation failed")
	}
}

// Aggregate sums guests per YYYY-MM-DD key. Dates without rows are absent.
func Aggregate(rows []domain.OccupancyRow) map[string]int {
	return lo.Reduce(rows, func(acc map[string]int, row domain.OccupancyRow, _ int) map[string]int {
		acc[domain.DateKey(row.Date)] += row.Guests
		return acc
	}, map[string]int{})
}

// SpotsLeft is maxCapacity minus the occupancy of date, floored at zero.
func SpotsLeft(counts map[string]int, date time.Time, maxCapacity int) int {
	return max(0, maxCapacity-counts[domain.DateKey(date)])
}

var _ AvailabilityUseCase = (*Service)(nil)
