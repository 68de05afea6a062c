package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/roombooking/config"
	"github.com/Domenick1991/roombooking/internal/email"
	"github.com/Domenick1991/roombooking/internal/kafka"
	"github.com/Domenick1991/roombooking/internal/logger"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	l := logger.New(log.Default(), logger.ParseLevel(cfg.Log.Level))

	if len(cfg.Kafka.Brokers) == 0 {
		log.Fatalf("worker requires kafka.brokers")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.ReservationsTopic, l)
	sender := email.NewSender(l)

	done := make(chan error, 1)
	go func() { done <- consumer.ConsumeReservations(ctx, sender.Send) }()

	select {
	case err := <-done:
		if err != nil {
			l.Errorf("consumer stopped: %v", err)
		}
	case <-ctx.Done():
		l.Infof("shutting down worker")
		select {
		case <-done:
		case <-time.After(time.Duration(cfg.Worker.ShutdownTimeoutSeconds) * time.Second):
			l.Warnf("consumer did not stop within %ds", cfg.Worker.ShutdownTimeoutSeconds)
		}
	}

	if err := consumer.Close(); err != nil {
		l.Errorf("close consumer: %v", err)
	}
}
