package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/tourbooking/api"
	"github.com/Domenick1991/tourbooking/config"
	"github.com/Domenick1991/tourbooking/internal/content"
	"github.com/Domenick1991/tourbooking/internal/logger"
	"github.com/Domenick1991/tourbooking/internal/metrics"
	"github.com/Domenick1991/tourbooking/internal/service/availability"
	"github.com/Domenick1991/tourbooking/internal/service/booking"
	"github.com/Domenick1991/tourbooking/internal/service/tours"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Services struct {
	Tours        tours.TourUseCase
	Availability availability.AvailabilityUseCase
	Bookings     booking.BookingUseCase
	Content      content.ContentUseCase
}

// HealthCheck is reported by /health. A failing check turns the response
// into 503.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type RouterOptions struct {
	Location      *time.Location
	AdminToken    string
	BookingLimits gin.HandlerFunc
	Checks        []HealthCheck
}

func NewRouter(log logrus.FieldLogger, svc Services, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), logger.GinMiddleware(log), metrics.GinMiddleware())

	router.GET("/health", health(opts.Checks))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")

	bookingHandler := api.NewBookingHandler(svc.Bookings)
	toursGroup := v1.Group("/tours")
	api.NewTourHandler(svc.Tours, svc.Availability, opts.Location).Register(toursGroup)
	bookingHandler.RegisterQuote(toursGroup)

	bookingsGroup := v1.Group("/bookings")
	if opts.BookingLimits != nil {
		bookingsGroup.Use(opts.BookingLimits)
	}
	bookingHandler.Register(bookingsGroup)

	api.NewAdminHandler(svc.Bookings, opts.AdminToken).Register(v1.Group("/admin"))
	api.NewBlogHandler(svc.Content).Register(v1.Group("/blog"))

	return router
}

func health(checks []HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := gin.H{}
		for _, hc := range checks {
			if err := hc.Check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[hc.Name] = err.Error()
				continue
			}
			results[hc.Name] = "ok"
		}
		c.JSON(status, gin.H{"status": http.StatusText(status), "checks": results})
	}
}

// Run serves handler on cfg.Address and blocks until ctx is canceled or the
// server fails.
func Run(ctx context.Context, cfg config.HTTPConfig, handler http.Handler, log logrus.FieldLogger) error {
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("address", cfg.Address).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen http %s: %w", cfg.Address, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})
	return g.Wait()
}
