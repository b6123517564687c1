package graphrag

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Answer a question over the indexed corpus",
}

var queryTopK int

var queryLocalCmd = &cobra.Command{
	Use:   "local [question]",
	Short: "Answer from the nearest chunks and their graph neighbourhood",
	Args:  cobra.MinimumNArgs(1),
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

		topK := cfg.Search.LocalTopK
		if cmd.Flags().Changed("top-k") {
			topK = queryTopK
		}
		result, err := client.LocalSearch(cmd.Context(), strings.Join(args, " "), topK)
		if err != nil {
			return fmt.Errorf("local search failed: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

var queryGlobalCmd = &cobra.Command{
	Use:   "global [question]",
	Short: "Answer from the most relevant community summaries",
	Args:  cobra.MinimumNArgs(1),
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

		topK := cfg.Search.GlobalTopK
		if cmd.Flags().Changed("top-k") {
			topK = queryTopK
		}
		result, err := client.GlobalSearch(cmd.Context(), strings.Join(args, " "), topK)
		if err != nil {
			return fmt.Errorf("global search failed: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.AddCommand(queryLocalCmd, queryGlobalCmd)
	queryCmd.PersistentFlags().IntVar(&queryTopK, "top-k", 0, "number of chunks (local) or communities (global) to use")
}
