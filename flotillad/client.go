package flotillad

import (
	"context"
	"log/slog"
	"time"

	"github.com/absmach/flotilla/client"
	clientcmd "github.com/absmach/flotilla/cmd/client"
	"github.com/absmach/flotilla/run"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	livelinessInterval = 10 * time.Second
	dataPath           = ""
	localEpochs        = run.DefaultConfig().LocalEpochs
	learningRate       = run.DefaultConfig().LearningRate
	id                 = uuid.NewString()
	name               = ""
)

var clientCmd = []cobra.Command{
	{
		Use:   "start",
		Short: "Start client",
		Long:  `Start client.`,
		Run: func(cmd *cobra.Command, _ []string) {
			cfg := client.Config{
				LogLevel:           logLevel,
				BrokerURL:          mqttAddress,
				QoS:                byte(mqttQOS),
				MQTTTimeout:        mqttTimeout,
				ClientID:           id,
				ClientName:         name,
				Password:           clientKey,
				ChannelID:          channelID,
				DataPath:           dataPath,
				LocalEpochs:        localEpochs,
				LearningRate:       learningRate,
				LivelinessInterval: livelinessInterval,
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if err := clientcmd.StartClient(ctx, cancel, cfg); err != nil {
				slog.Error("failed to start client", slog.String("error", err.Error()))
			}
		},
	},
}

func NewClientCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "client [start]",
		Short: "Client management",
		Long:  `Start a federated client over its data shard.`,
	}

	for i := range clientCmd {
		cmd.AddCommand(&clientCmd[i])
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", logLevel, "Log level")
	cmd.PersistentFlags().StringVar(&mqttAddress, "mqtt-address", mqttAddress, "MQTT broker address")
	cmd.PersistentFlags().IntVar(&mqttQOS, "mqtt-qos", mqttQOS, "MQTT QoS")
	cmd.PersistentFlags().DurationVar(&mqttTimeout, "mqtt-timeout", mqttTimeout, "MQTT operation timeout")
	cmd.PersistentFlags().StringVar(&channelID, "channel-id", channelID, "Fleet channel ID")
	cmd.PersistentFlags().StringVar(&clientKey, "client-key", clientKey, "Broker client key")
	cmd.PersistentFlags().StringVar(&id, "id", id, "Client ID")
	cmd.PersistentFlags().StringVar(&name, "name", name, "Client name")
	cmd.PersistentFlags().StringVar(&dataPath, "data", dataPath, "Shard CSV path")
	cmd.PersistentFlags().Uint64Var(&localEpochs, "local-epochs", localEpochs, "Local epochs per round")
	cmd.PersistentFlags().Float64Var(&learningRate, "learning-rate", learningRate, "Learning rate")
	cmd.PersistentFlags().DurationVar(&livelinessInterval, "liveliness-interval", livelinessInterval, "Liveliness publish interval")

	return &cmd
}
