// Package main runs the email notifier. It consumes the storefront's domain
// events from Kafka and sends the matching transactional email.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"aesthetx/internal/config"
	"aesthetx/internal/events"
	"aesthetx/internal/kafka"
	"aesthetx/internal/services/notification"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	if len(cfg.Kafka.Brokers) == 0 {
		log.Fatal("KAFKA_BROKERS must be set for the notifier")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var mailer notification.Mailer = notification.LogMailer{}
	if cfg.Email.ServiceURL != "" {
		mailer = notification.NewHTTPMailer(cfg.Email.ServiceURL)
		log.Printf("✅ Sending email through %s", cfg.Email.ServiceURL)
	} else {
		log.Println("⚠️ EMAIL_SERVICE_URL not set, emails will only be logged")
	}
	svc := notification.NewService(mailer, cfg.Email.From)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, events.Topics, config.GetIntEnv("NOTIFIER_WORKERS", 4))
	log.Printf("📬 Notifier listening on %v", events.Topics)
	if err := consumer.Start(ctx, svc.HandleMessage); err != nil {
		log.Fatalf("Consumer stopped: %v", err)
	}
	log.Println("Notifier stopped")
}
