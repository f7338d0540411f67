package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/daniel/fieldnote-analyzer/internal/analysis"
	"github.com/daniel/fieldnote-analyzer/internal/llm"
	"github.com/daniel/fieldnote-analyzer/internal/matching"
	"github.com/daniel/fieldnote-analyzer/internal/speech"
	"github.com/daniel/fieldnote-analyzer/internal/store"
	"github.com/daniel/fieldnote-analyzer/internal/transcript"
	"github.com/daniel/fieldnote-analyzer/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze one field interaction account",
	Long:  "Runs the full analysis pipeline over a typed narrative or a recorded audio file and prints the structured contact report as JSON.",
	RunE:  runAnalyze,
}

var (
	analyzeTextFile     string
	analyzeAudioFile    string
	analyzeProspectName string
	analyzeOutputFile   string
	analyzeAPIKey       string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeTextFile, "in", "i", "", "Path to narrative text file")
	analyzeCmd.Flags().StringVarP(&analyzeAudioFile, "audio", "a", "", "Path to recorded audio file")
	analyzeCmd.Flags().StringVar(&analyzeProspectName, "prospect", "", "Prospect name to attach to the report")
	analyzeCmd.Flags().StringVarP(&analyzeOutputFile, "out", "o", "", "Path to output JSON file (default stdout)")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, _ []string) error {
	if analyzeTextFile == "" && analyzeAudioFile == "" {
		return fmt.Errorf("either --in or --audio is required")
	}

	apiKey := analyzeAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}

	var input types.NarrativeInput
	if analyzeTextFile != "" {
		text, err := os.ReadFile(analyzeTextFile)
		if err != nil {
			return fmt.Errorf("failed to read narrative file: %w", err)
		}
		input.RawText = string(text)
	} else {
		audio, err := os.ReadFile(analyzeAudioFile)
		if err != nil {
			return fmt.Errorf("failed to read audio file: %w", err)
		}
		input.Audio = audio
	}

	ctx := context.Background()

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	// Tag matching needs a catalog; without a database the run still
	// produces a report, just with no matched tags.
	catalog, threshold := loadCatalog(ctx)

	var transcriber transcript.Transcriber
	if speechURL := os.Getenv("SPEECH_URL"); speechURL != "" {
		transcriber = speech.NewClient(speechURL)
	}

	pipeline := analysis.NewPipeline(analysis.Options{
		Resolver:  transcript.NewResolver(transcriber),
		Inference: analysis.NewInference(client),
		Catalog:   catalog,
		Threshold: threshold,
	})

	result, err := pipeline.Analyze(ctx, analysis.Request{
		Input:        input,
		ProspectName: analyzeProspectName,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if analyzeOutputFile == "" {
		fmt.Println(string(jsonBytes))
		return nil
	}

	outputDir := filepath.Dir(analyzeOutputFile)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(analyzeOutputFile, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Output: %s\n", analyzeOutputFile)
	return nil
}

// loadCatalog fetches the tag catalog and threshold from the database when
// DATABASE_URL is set, and falls back to an empty catalog otherwise.
func loadCatalog(ctx context.Context) (*matching.Catalog, analysis.ThresholdSource) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return matching.NewCatalogFromSnapshot(matching.NewSnapshot(nil)),
			analysis.FixedThreshold(matching.ThresholdFromPercent(store.DefaultThresholdPercent))
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	st, err := store.Connect(connectCtx, databaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: database unavailable, matching against empty catalog: %v\n", err)
		return matching.NewCatalogFromSnapshot(matching.NewSnapshot(nil)),
			analysis.FixedThreshold(matching.ThresholdFromPercent(store.DefaultThresholdPercent))
	}

	catalog, err := matching.NewCatalog(ctx, st)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: tag sync failed, matching against empty catalog: %v\n", err)
		catalog = matching.NewCatalogFromSnapshot(matching.NewSnapshot(nil))
	}
	return catalog, storeThreshold(st)
}
