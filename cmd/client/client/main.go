package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/0x6flab/namegenerator"
	"github.com/absmach/flotilla/client"
	"github.com/absmach/flotilla/dataset"
	mqttpubsub "github.com/absmach/flotilla/pkg/pubsub/mqtt"
	"github.com/absmach/flotilla/trainer"
	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

const pathEnv = ".env"

var logLevel slog.Level

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := os.Stat(pathEnv); err == nil {
		_ = godotenv.Load(pathEnv)
	}

	cfg := client.Config{}
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.ClientID == "" {
		cfg.ClientID = uuid.NewString()
	}
	if cfg.ClientName == "" {
		cfg.ClientName = namegenerator.NewGenerator().Generate()
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := configureLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	logger.Info("starting client service",
		slog.String("client_id", cfg.ClientID),
		slog.String("data_path", cfg.DataPath),
	)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
		cancel()
	}()

	ds, err := dataset.LoadCSV(cfg.DataPath)
	if err != nil {
		logger.Error("failed to load shard", slog.String("path", cfg.DataPath), slog.Any("error", err))

		return fmt.Errorf("failed to load shard: %w", err)
	}
	logger.Info("shard loaded", slog.Int("rows", ds.Len()))

	mqttPubSub, err := mqttpubsub.NewPubSub(cfg.BrokerURL, cfg.QoS, cfg.ClientID, cfg.ClientID, cfg.Password, cfg.ChannelID, cfg.MQTTTimeout, logger)
	if err != nil {
		logger.Error("failed to initialize mqtt pubsub", slog.Any("error", err))

		return fmt.Errorf("failed to initialize mqtt pubsub: %w", err)
	}

	c := client.New(cfg.ClientID, cfg.ClientName, ds.AsShard(), trainer.New(cfg.LocalEpochs, cfg.LearningRate))

	service, err := client.NewService(ctx, cfg.ChannelID, c, cfg.LivelinessInterval, mqttPubSub, logger)
	if err != nil {
		logger.Error("error initializing service", slog.Any("error", err))

		return fmt.Errorf("service initialization error: %w", err)
	}

	if err := service.Run(ctx, logger); err != nil {
		logger.Error("error running service", slog.Any("error", err))

		return fmt.Errorf("service run error: %w", err)
	}

	return nil
}

func configureLogger(level string) *slog.Logger {
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		log.Printf("Invalid log level: %s. Defaulting to info.\n", level)
		logLevel = slog.LevelInfo
	}

	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(logHandler)
}
