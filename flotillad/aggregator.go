package flotillad

import (
	"context"
	"log/slog"
	"time"

	aggregatorcmd "github.com/absmach/flotilla/cmd/aggregator"
	"github.com/absmach/flotilla/pkg/artifact"
	"github.com/absmach/flotilla/pkg/storage"
	"github.com/absmach/supermq/pkg/server"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	logLevel    = "info"
	mqttAddress = "tcp://localhost:1883"
	mqttQOS     = 2
	mqttTimeout = 30 * time.Second
	channelID   = ""
	clientID    = ""
	clientKey   = ""
	httpPort    = "7070"
	storageType = "memory"
	artifactDir = "./data/artifact"
)

var aggregatorCmd = []cobra.Command{
	{
		Use:   "start",
		Short: "Start aggregator",
		Long:  `Start aggregator.`,
		Run: func(cmd *cobra.Command, _ []string) {
			cfg := aggregatorcmd.Config{
				LogLevel:    logLevel,
				InstanceID:  uuid.NewString(),
				MQTTAddress: mqttAddress,
				MQTTQoS:     uint8(mqttQOS),
				MQTTTimeout: mqttTimeout,
				ChannelID:   channelID,
				ClientID:    clientID,
				ClientKey:   clientKey,
				Storage: storage.Config{
					Type: storageType,
				},
				Artifact: artifact.Config{
					Kind:    "file",
					FileDir: artifactDir,
				},
				Server: server.Config{
					Port: httpPort,
				},
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if err := aggregatorcmd.StartAggregator(ctx, cancel, cfg); err != nil {
				slog.Error("failed to start aggregator", slog.String("error", err.Error()))
			}
		},
	},
}

func NewAggregatorCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "aggregator [start]",
		Short: "Aggregator management",
		Long:  `Start the federated aggregator.`,
	}

	for i := range aggregatorCmd {
		cmd.AddCommand(&aggregatorCmd[i])
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", logLevel, "Log level")
	cmd.PersistentFlags().StringVar(&mqttAddress, "mqtt-address", mqttAddress, "MQTT broker address")
	cmd.PersistentFlags().IntVar(&mqttQOS, "mqtt-qos", mqttQOS, "MQTT QoS")
	cmd.PersistentFlags().DurationVar(&mqttTimeout, "mqtt-timeout", mqttTimeout, "MQTT operation timeout")
	cmd.PersistentFlags().StringVar(&channelID, "channel-id", channelID, "Fleet channel ID")
	cmd.PersistentFlags().StringVar(&clientID, "client-id", clientID, "Broker client ID")
	cmd.PersistentFlags().StringVar(&clientKey, "client-key", clientKey, "Broker client key")
	cmd.PersistentFlags().StringVar(&httpPort, "http-port", httpPort, "HTTP control plane port")
	cmd.PersistentFlags().StringVar(&storageType, "storage", storageType, "Run storage backend (memory|sqlite|postgres)")
	cmd.PersistentFlags().StringVar(&artifactDir, "artifact-dir", artifactDir, "Artifact file store directory")

	return &cmd
}
