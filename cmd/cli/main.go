package main

import (
	"log"

	"github.com/absmach/flotilla/cli"
	"github.com/absmach/flotilla/flotillad"
	"github.com/absmach/flotilla/pkg/sdk"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "flotilla-cli",
		Short: "Flotilla CLI",
		Long:  `Flotilla CLI is a command line interface for interacting with flotilla components.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			sdkConf := sdk.Config{
				AggregatorURL:   flotillad.DefAggregatorURL,
				TLSVerification: flotillad.DefTLSVerification,
			}
			s := sdk.NewSDK(sdkConf)
			cli.SetSDK(s)
		},
	}

	rootCmd.AddCommand(cli.NewRunsCmd())
	rootCmd.AddCommand(cli.NewClientsCmd())
	rootCmd.AddCommand(cli.NewArtifactCmd())
	rootCmd.AddCommand(cli.NewSimulateCmd())
	rootCmd.AddCommand(cli.NewPartitionCmd())
	rootCmd.AddCommand(cli.NewProvisionCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
