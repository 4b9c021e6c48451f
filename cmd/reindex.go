package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the retrieval index from the document corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		embedder := createEmbedder(cfg)
		store, err := openStore(cfg, embedder)
		if err != nil {
			return err
		}

		ix := &indexer{cfg: cfg, store: store}
		count, err := ix.Reindex(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Indexed %d chunks from %s into %s\n", count, cfg.DocumentsDir, cfg.VectorStoreDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}
