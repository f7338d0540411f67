package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daniel/fieldnote-analyzer/internal/store"
	"github.com/daniel/fieldnote-analyzer/internal/types"
)

var syncTagsCmd = &cobra.Command{
	Use:   "sync-tags",
	Short: "Load an affinity tag catalog into the database",
	Long:  "Replaces the affinity tag catalog with the entries from a JSON file. Running servers pick up the new catalog on their next scheduled or triggered refresh.",
	RunE:  runSyncTags,
}

var syncTagsInputFile string

func init() {
	syncTagsCmd.Flags().StringVarP(&syncTagsInputFile, "in", "i", "", "Path to tag catalog JSON file (required)")

	if err := syncTagsCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(syncTagsCmd)
}

func runSyncTags(_ *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	content, err := os.ReadFile(syncTagsInputFile)
	if err != nil {
		return fmt.Errorf("failed to read tag file: %w", err)
	}

	var tags []types.TagCatalogEntry
	if err := json.Unmarshal(content, &tags); err != nil {
		return fmt.Errorf("failed to unmarshal tag JSON: %w", err)
	}
	if len(tags) == 0 {
		return fmt.Errorf("tag file contains no entries")
	}

	ctx := context.Background()
	st, err := store.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer st.Close()

	if err := st.ReplaceTags(ctx, tags); err != nil {
		return fmt.Errorf("failed to replace tags: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Loaded %d tags\n", len(tags))
	return nil
}
