package cli

import (
	"time"

	"github.com/absmach/flotilla/pkg/sdk"
	"github.com/spf13/cobra"
)

var (
	defOffset uint64 = 0
	defLimit  uint64 = 10

	runCfg = sdk.RunConfig{}
)

var fsdk sdk.SDK

// SetSDK sets the flotilla SDK instance used by all commands.
func SetSDK(s sdk.SDK) {
	fsdk = s
}

func NewRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs [start|view|list|stop|rounds]",
		Short: "Runs manager",
		Long:  `Start, view, list, stop federated runs and inspect their rounds.`,
	}

	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start run",
		Long: `Start a federated run. Unset options take server-side defaults.

Examples:
  # Start a run with defaults (5 rounds, quorum of 2)
  flotilla-cli runs start

  # Start a tighter run
  flotilla-cli runs start --rounds 10 --min-fit-clients 3 --selection-fraction 0.3`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			r, err := fsdk.StartRun(runCfg)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, r)
		},
	}

	startCmd.Flags().Uint64Var(&runCfg.TotalRounds, "rounds", 0, "Total training rounds")
	startCmd.Flags().Uint64Var(&runCfg.MinFitClients, "min-fit-clients", 0, "Minimum clients per round")
	startCmd.Flags().Float64Var(&runCfg.SelectionFraction, "selection-fraction", 0, "Fraction of registered clients selected per round")
	startCmd.Flags().Uint64Var(&runCfg.LocalEpochs, "local-epochs", 0, "Local epochs per client per round")
	startCmd.Flags().Float64Var(&runCfg.LearningRate, "learning-rate", 0, "Client learning rate")
	startCmd.Flags().Uint64Var(&runCfg.ParameterDim, "parameter-dim", 0, "Parameter vector length (when no initial parameters)")
	startCmd.Flags().DurationVar(&runCfg.RegistrationTimeout, "registration-timeout", time.Duration(0), "Quorum registration deadline")
	startCmd.Flags().DurationVar(&runCfg.RoundTimeout, "round-timeout", time.Duration(0), "Per-round update deadline")
	startCmd.Flags().Uint64Var(&runCfg.MaxRetries, "max-retries", 0, "Round retries before aborting the run")

	viewCmd := &cobra.Command{
		Use:   "view <id>",
		Short: "View run",
		Long:  `View run.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			r, err := fsdk.GetRun(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, r)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List runs",
		Long:  `List runs.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			page, err := fsdk.ListRuns(defOffset, defLimit)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, page)
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop <id>",
		Short: "Stop run",
		Long:  `Stop the active run. The run is marked failed and no artifact is written.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			if err := fsdk.StopRun(args[0]); err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logOKCmd(*cmd)
		},
	}

	roundsCmd := &cobra.Command{
		Use:   "rounds <run-id>",
		Short: "List rounds",
		Long:  `List the recorded rounds of a run.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			page, err := fsdk.ListRounds(args[0], defOffset, defLimit)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, page)
		},
	}

	cmd.AddCommand(startCmd)
	cmd.AddCommand(viewCmd)
	cmd.AddCommand(listCmd)
	cmd.AddCommand(stopCmd)
	cmd.AddCommand(roundsCmd)

	cmd.PersistentFlags().Uint64VarP(
		&defOffset,
		"offset",
		"o",
		defOffset,
		"Offset",
	)

	cmd.PersistentFlags().Uint64VarP(
		&defLimit,
		"limit",
		"l",
		defLimit,
		"Limit",
	)

	return cmd
}
