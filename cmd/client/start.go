package client

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/absmach/flotilla/client"
	"github.com/absmach/flotilla/dataset"
	mqttpubsub "github.com/absmach/flotilla/pkg/pubsub/mqtt"
	"github.com/absmach/flotilla/trainer"
)

// StartClient runs a client daemon until the context is cancelled. It
// is the programmatic entry point used by the flotillad commands; the
// binary's main performs the same steps from environment configuration.
func StartClient(ctx context.Context, cancel context.CancelFunc, cfg client.Config) error {
	defer cancel()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("failed to parse log level: %s", err.Error())
	}
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	ds, err := dataset.LoadCSV(cfg.DataPath)
	if err != nil {
		return fmt.Errorf("failed to load shard: %w", err)
	}

	mqttPubSub, err := mqttpubsub.NewPubSub(cfg.BrokerURL, cfg.QoS, cfg.ClientID, cfg.ClientID, cfg.Password, cfg.ChannelID, cfg.MQTTTimeout, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize mqtt pubsub: %w", err)
	}

	c := client.New(cfg.ClientID, cfg.ClientName, ds.AsShard(), trainer.New(cfg.LocalEpochs, cfg.LearningRate))

	service, err := client.NewService(ctx, cfg.ChannelID, c, cfg.LivelinessInterval, mqttPubSub, logger)
	if err != nil {
		return fmt.Errorf("service initialization error: %w", err)
	}

	return service.Run(ctx, logger)
}
