package cli

import (
	"fmt"
	"path/filepath"

	"github.com/absmach/flotilla/dataset"
	"github.com/spf13/cobra"
)

var (
	partitionClients int
	partitionOutDir  string
)

func NewPartitionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "partition <dataset.csv>",
		Short: "Split a dataset into client shards",
		Long: `Split a CSV dataset into contiguous per-client shard files,
client_1.csv .. client_N.csv, each keeping the header row.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			ds, err := dataset.LoadCSV(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			shards, err := dataset.Partition(ds, partitionClients)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			for i, shard := range shards {
				path := filepath.Join(partitionOutDir, fmt.Sprintf("client_%d.csv", i+1))
				if err := dataset.SaveCSV(path, shard.AsDataset()); err != nil {
					logErrorCmd(*cmd, err)

					return
				}
				logSuccessCmd(*cmd, fmt.Sprintf("wrote %s (%d rows)", path, shard.Len()))
			}
		},
	}

	cmd.Flags().IntVarP(&partitionClients, "clients", "n", 3, "Number of shards")
	cmd.Flags().StringVar(&partitionOutDir, "out", ".", "Output directory")

	return cmd
}
