package cli

import (
	"github.com/absmach/flotilla/pkg/sdk"
	"github.com/spf13/cobra"
)

func NewClientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients [register|view|list|deregister]",
		Short: "Clients manager",
		Long:  `Register, view, list and deregister federated clients.`,
	}

	registerCmd := &cobra.Command{
		Use:   "register <id> [name]",
		Short: "Register client",
		Long:  `Register a client with the aggregator. Client daemons register themselves; this command is for pre-provisioning.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 1 || len(args) > 2 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			c := sdk.Client{ID: args[0]}
			if len(args) == 2 {
				c.Name = args[1]
			}

			c, err := fsdk.RegisterClient(c)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, c)
		},
	}

	viewCmd := &cobra.Command{
		Use:   "view <id>",
		Short: "View client",
		Long:  `View client.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			c, err := fsdk.GetClient(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, c)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List clients",
		Long:  `List registered clients.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			page, err := fsdk.ListClients(defOffset, defLimit)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, page)
		},
	}

	deregisterCmd := &cobra.Command{
		Use:   "deregister <id>",
		Short: "Deregister client",
		Long:  `Remove a client from the fleet. It may re-register on the next round.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			if err := fsdk.DeregisterClient(args[0]); err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logOKCmd(*cmd)
		},
	}

	cmd.AddCommand(registerCmd)
	cmd.AddCommand(viewCmd)
	cmd.AddCommand(listCmd)
	cmd.AddCommand(deregisterCmd)

	return cmd
}
