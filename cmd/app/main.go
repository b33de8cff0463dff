package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/tourbooking/config"
	"github.com/Domenick1991/tourbooking/internal/bootstrap"
	"github.com/Domenick1991/tourbooking/internal/content"
	"github.com/Domenick1991/tourbooking/internal/logger"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logr, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewApp(ctx, cfg, logr)
	if err != nil {
		logr.WithError(err).Fatal("init app")
	}
	defer app.Close()

	router := bootstrap.NewRouter(logr, bootstrap.Services{
		Tours:        app.Tours,
		Availability: app.Availability,
		Bookings:     app.Bookings,
		Content:      content.NewClient(cfg.Content, logr),
	}, bootstrap.RouterOptions{
		Location:      app.Location,
		AdminToken:    cfg.Admin.Token,
		BookingLimits: bootstrap.NewRateLimiter(app.Cache.Client(), cfg.HTTP.RateLimit, "bookings", logr),
		Checks:        app.HealthChecks(),
	})

	if err := bootstrap.Run(ctx, cfg.HTTP, router, logr); err != nil {
		logr.WithError(err).Error("server error")
	}
}
