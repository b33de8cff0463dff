package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/tourbooking/config"
	"github.com/Domenick1991/tourbooking/internal/bootstrap"
	"github.com/Domenick1991/tourbooking/internal/email"
	"github.com/Domenick1991/tourbooking/internal/kafka"
	"github.com/Domenick1991/tourbooking/internal/logger"
	"github.com/Domenick1991/tourbooking/internal/service/booking"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
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

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sweep(gctx, app.Bookings, time.Duration(cfg.Worker.ExpirationSweepMinutes)*time.Minute, logr)
		return nil
	})

	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.NotificationsTopic != "" {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, logr)
		defer consumer.Close()

		sender := email.NewSender(logr)
		g.Go(func() error {
			return consumer.Consume(gctx, sender.Send)
		})
	} else {
		logr.Info("notifications topic not configured, consumer disabled")
	}

	if err := g.Wait(); err != nil {
		logr.WithError(err).Error("worker stopped")
		return
	}
	logr.Info("worker shut down")
}

func sweep(ctx context.Context, bookings booking.BookingUseCase, every time.Duration, log logrus.FieldLogger) {
	if every <= 0 {
		log.WithField("every", every).Warn("sweep interval is not positive, expiry disabled")
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			expired, err := bookings.ExpireStalePending(ctx)
			if err != nil {
				log.WithError(err).Warn("expire pending bookings")
				continue
			}
			if len(expired) > 0 {
				log.WithField("count", len(expired)).Info("expired stale pending bookings")
			}
		case <-ctx.Done():
			return
		}
	}
}
