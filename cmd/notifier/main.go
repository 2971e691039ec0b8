// Command notifier consumes confirmation messages published by the API in
// kafka notify mode and delivers them over SMTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"planet-beauty/internal/config"
	"planet-beauty/internal/notify"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Read()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.Topic == "" {
		return errors.New("KAFKA_BROKERS and KAFKA_TOPIC are required")
	}

	logger := config.NewLogger(cfg.Logger)

	var sender notify.Dispatcher
	if cfg.SMTP.Host != "" {
		sender = notify.NewSMTPDispatcher(notify.SMTPConfig{
			Addr:     cfg.SMTP.Address(),
			Host:     cfg.SMTP.Host,
			Username: cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			FromName: cfg.SMTP.FromName,
		}, nil)
	} else {
		logger.Warn().Msg("SMTP_HOST not set, notifications will only be logged")
		sender = notify.NewLogDispatcher(logger)
	}

	consumer := notify.NewConsumer(
		notify.NewKafkaReader(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID),
		sender,
		logger,
	)
	defer func() {
		if err := consumer.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close kafka reader")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Strs("brokers", cfg.Kafka.Brokers).
		Str("topic", cfg.Kafka.Topic).
		Str("group", cfg.Kafka.GroupID).
		Msg("notifier started")

	consumer.Run(ctx)

	logger.Info().Msg("notifier stopped")
	return nil
}
