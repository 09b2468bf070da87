package cli

import (
	"github.com/absmach/flotilla"
	"github.com/absmach/supermq/pkg/errors"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	errFailedToFillForm    = errors.New("failed to fill provision form")
	errFailedToWriteConfig = errors.New("failed to write config file")

	provisionPath = "config.toml"
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Provision a config file",
	Long:  `Interactively create the TOML config file the aggregator and client daemons read.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 0 {
			logUsageCmd(*cmd, cmd.Use)

			return
		}

		cfg := flotilla.Config{
			Aggregator: flotilla.AggregatorConfig{
				HTTPURL: "http://localhost:7070",
			},
			Simulation: flotilla.SimulationConfig{
				ClientCount:  3,
				TotalRounds:  5,
				LocalEpochs:  1,
				LearningRate: 0.01,
			},
		}

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Aggregator channel ID").
					Description("MQTT channel the fleet communicates over").
					Value(&cfg.Aggregator.ChannelID),
				huh.NewInput().
					Title("Aggregator client ID").
					Value(&cfg.Aggregator.ClientID),
				huh.NewInput().
					Title("Aggregator client key").
					EchoMode(huh.EchoModePassword).
					Value(&cfg.Aggregator.ClientKey),
				huh.NewInput().
					Title("Aggregator HTTP URL").
					Value(&cfg.Aggregator.HTTPURL),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("Client ID").
					Value(&cfg.Client.ClientID),
				huh.NewInput().
					Title("Client key").
					EchoMode(huh.EchoModePassword).
					Value(&cfg.Client.ClientKey),
				huh.NewInput().
					Title("Client shard CSV path").
					Value(&cfg.Client.DataPath),
			),
		)

		if err := form.Run(); err != nil {
			logErrorCmd(*cmd, errors.Wrap(errFailedToFillForm, err))

			return
		}

		cfg.Client.ChannelID = cfg.Aggregator.ChannelID

		if err := flotilla.SaveConfig(provisionPath, cfg); err != nil {
			logErrorCmd(*cmd, errors.Wrap(errFailedToWriteConfig, err))

			return
		}
		logSuccessCmd(*cmd, "Successfully created "+provisionPath)

		logJSONCmd(*cmd, cfg)
	},
}

func NewProvisionCmd() *cobra.Command {
	provisionCmd.Flags().StringVar(
		&provisionPath,
		"path",
		provisionPath,
		"Where to write the config file",
	)

	return provisionCmd
}
