package graphrag

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/soundprediction/graphrag/pkg/types"
)

var (
	indexDocID   string
	indexChunkID string
	indexSchema  bool
)

var indexCmd = &cobra.Command{
	Use:   "index [file]",
	Short: "Extract entities from a text file and index it as one chunk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := initializeClient(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer client.Close(cmd.Context())

		if indexSchema {
			if err := client.CreateIndices(cmd.Context()); err != nil {
				return err
			}
		}

		docID := indexDocID
		if docID == "" {
			docID = filepath.Base(args[0])
		}
		result, err := client.IndexText(cmd.Context(), types.Chunk{
			ChunkID: indexChunkID,
			DocID:   docID,
			Source:  args[0],
			Text:    string(text),
		})
		if err != nil {
			return fmt.Errorf("indexing failed: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringVar(&indexDocID, "doc-id", "", "document id (default is the file name)")
	indexCmd.Flags().StringVar(&indexChunkID, "chunk-id", "", "chunk id (default is a generated uuid)")
	indexCmd.Flags().BoolVar(&indexSchema, "ensure-schema", true, "create graph indexes and the chunk table first")
}
