package graphrag

import (
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print entity and relation counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := initializeClient(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer client.Close(cmd.Context())

		stats, err := client.Stats(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), stats)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
