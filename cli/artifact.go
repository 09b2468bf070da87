package cli

import (
	"github.com/spf13/cobra"
)

func NewArtifactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artifact [get]",
		Short: "Model artifact",
		Long:  `Inspect the stored global model artifact.`,
	}

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Get artifact",
		Long: `Get the model artifact of the last completed run.

A not-found error means no run has completed yet; consumers should fall
back to their baseline model in that case.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			a, err := fsdk.GetArtifact()
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, a)
		},
	}

	cmd.AddCommand(getCmd)

	return cmd
}
