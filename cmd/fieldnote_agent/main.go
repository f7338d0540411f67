// Package main provides the entry point for the Field Note Analyzer.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fieldnote_agent",
	Short: "Field Note Analyzer",
	Long:  "Field Note Analyzer converts free-text or recorded field interaction accounts into structured CRM contact reports: summary, categorization, interest lists, affinity tags, a quality score, and a prose synopsis.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
