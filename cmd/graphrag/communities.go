package graphrag

import (
	"fmt"

	"github.com/spf13/cobra"
)

var communitiesCmd = &cobra.Command{
	Use:   "communities",
	Short: "Manage entity communities",
}

var communitiesBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Cluster the entity graph and regenerate every community summary",
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

		result, err := client.BuildCommunities(cmd.Context())
		if err != nil {
			return fmt.Errorf("community build failed: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

func init() {
	rootCmd.AddCommand(communitiesCmd)
	communitiesCmd.AddCommand(communitiesBuildCmd)
}
