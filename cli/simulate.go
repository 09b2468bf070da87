package cli

import (
	"log/slog"
	"os"

	"github.com/absmach/flotilla/dataset"
	"github.com/absmach/flotilla/run"
	"github.com/absmach/flotilla/simulation"
	"github.com/spf13/cobra"
)

var (
	simDataPath     string
	simRows         int
	simSeed         int64
	simClientCount  uint64
	simTotalRounds  uint64
	simMinFit       uint64
	simFraction     float64
	simLocalEpochs  uint64
	simLearningRate float64
	simLogLevel     string
)

func NewSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a federated run",
		Long: `Run a complete federated round trip in-process: partition a dataset,
spawn one client per shard and drive the aggregator through all rounds.

Examples:
  # Simulate on a synthetic diabetes-style dataset
  flotilla-cli simulate --rows 300 --clients 3 --rounds 5

  # Simulate on your own CSV (header row, numeric cells, label last)
  flotilla-cli simulate --data ./diabetes.csv --clients 5`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			var level slog.Level
			if err := level.UnmarshalText([]byte(simLogLevel)); err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			}))

			var ds dataset.Dataset
			switch simDataPath {
			case "":
				ds = dataset.Synthetic(simRows, simSeed)
			default:
				var err error
				ds, err = dataset.LoadCSV(simDataPath)
				if err != nil {
					logErrorCmd(*cmd, err)

					return
				}
			}

			cfg := run.Config{
				ClientCount:       simClientCount,
				TotalRounds:       simTotalRounds,
				MinFitClients:     simMinFit,
				SelectionFraction: simFraction,
				LocalEpochs:       simLocalEpochs,
				LearningRate:      simLearningRate,
			}

			result, err := simulation.NewDriver(logger).Run(cmd.Context(), ds, cfg)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, result.Artifact, result.Run)
		},
	}

	cmd.Flags().StringVar(&simDataPath, "data", "", "CSV dataset path (synthetic data when empty)")
	cmd.Flags().IntVar(&simRows, "rows", 300, "Synthetic dataset rows")
	cmd.Flags().Int64Var(&simSeed, "seed", 1, "Synthetic dataset seed")
	cmd.Flags().Uint64Var(&simClientCount, "clients", 3, "Number of simulated clients")
	cmd.Flags().Uint64Var(&simTotalRounds, "rounds", 5, "Total training rounds")
	cmd.Flags().Uint64Var(&simMinFit, "min-fit-clients", 0, "Minimum clients per round")
	cmd.Flags().Float64Var(&simFraction, "selection-fraction", 1.0, "Fraction of clients selected per round")
	cmd.Flags().Uint64Var(&simLocalEpochs, "local-epochs", 1, "Local epochs per client per round")
	cmd.Flags().Float64Var(&simLearningRate, "learning-rate", 0.01, "Client learning rate")
	cmd.Flags().StringVar(&simLogLevel, "log-level", "warn", "Driver log level")

	return cmd
}
