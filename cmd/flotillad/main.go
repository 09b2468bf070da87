package main

import (
	"log"

	"github.com/absmach/flotilla/flotillad"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "flotillad",
		Short: "Flotilla Daemon",
		Long:  `Flotilla Daemon is a daemon that manages the lifecycle of flotilla components.`,
	}

	rootCmd.AddCommand(flotillad.NewAggregatorCmd())
	rootCmd.AddCommand(flotillad.NewClientCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
