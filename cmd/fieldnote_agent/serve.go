package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/daniel/fieldnote-analyzer/internal/analysis"
	"github.com/daniel/fieldnote-analyzer/internal/config"
	"github.com/daniel/fieldnote-analyzer/internal/llm"
	"github.com/daniel/fieldnote-analyzer/internal/logging"
	"github.com/daniel/fieldnote-analyzer/internal/matching"
	"github.com/daniel/fieldnote-analyzer/internal/server"
	"github.com/daniel/fieldnote-analyzer/internal/speech"
	"github.com/daniel/fieldnote-analyzer/internal/store"
	"github.com/daniel/fieldnote-analyzer/internal/transcript"
)

var (
	serveAddr       string
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for analyzing field interaction accounts.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (default :8080)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	log := logging.New("main")

	cfg, err := loadMergedConfig(serveConfigPath)
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	if cfg.Verbose {
		logging.SetDebug()
	}

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	ctx := context.Background()

	st, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer st.Close()

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	// A failed initial sync starts the server with an empty catalog; the
	// refresher keeps retrying on its schedule.
	catalog, err := matching.NewCatalog(ctx, st)
	if err != nil {
		log.WithError(err).Warn("initial tag sync failed, starting with empty catalog")
		catalog = matching.NewCatalogFromSnapshot(matching.NewSnapshot(nil))
	}
	// The stored administrative settings win over the config file when
	// present; the config value is the bootstrap default.
	interval := matching.RefreshInterval(cfg.TagRefreshInterval)
	autoRefresh := true
	if settings, err := st.GetMatchingSettings(ctx); err == nil {
		if matching.RefreshInterval(settings.RefreshInterval).Valid() {
			interval = matching.RefreshInterval(settings.RefreshInterval)
		}
		autoRefresh = settings.AutoRefresh
	}

	refresher := matching.NewRefresher(catalog, interval)
	if !autoRefresh {
		log.Info("catalog auto-refresh disabled, manual sync only")
		refresher.WithoutSchedule()
	}
	refresher.Start()

	var transcriber transcript.Transcriber
	if cfg.SpeechURL != "" {
		transcriber = speech.NewClient(cfg.SpeechURL)
	} else {
		log.Warn("SPEECH_URL not set, audio narratives will be rejected")
	}

	pipeline := analysis.NewPipeline(analysis.Options{
		Resolver:      transcript.NewResolver(transcriber),
		Inference:     analysis.NewInference(client),
		Catalog:       catalog,
		Threshold:     storeThreshold(st),
		Deadline:      time.Duration(cfg.DeadlineSeconds) * time.Second,
		BranchTimeout: time.Duration(cfg.BranchTimeoutSeconds) * time.Second,
	})

	srv := server.New(server.Config{Addr: cfg.Addr}, server.Deps{
		Analyzer:  pipeline,
		Storage:   st,
		Catalog:   catalog,
		Refresher: refresher,
	})

	return srv.Start()
}

// loadMergedConfig builds the effective configuration: file values (when a
// path is given) layered over environment variables and built-in defaults.
func loadMergedConfig(path string) (*config.Config, error) {
	defaults := config.Config{
		APIKey:             os.Getenv("GEMINI_API_KEY"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		SpeechURL:          os.Getenv("SPEECH_URL"),
		Addr:               ":8080",
		TagRefreshInterval: string(matching.RefreshDaily),
	}

	cfg := &config.Config{}
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	merged := cfg.MergeWithDefaults(defaults)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// storeThreshold reads the confidence threshold from the settings table at
// request start. Lookup failures fall back to the default so a database blip
// never fails an analysis.
func storeThreshold(st *store.Store) analysis.ThresholdSource {
	return analysis.ThresholdFunc(func(ctx context.Context) float64 {
		settings, err := st.GetMatchingSettings(ctx)
		if err != nil {
			return matching.ThresholdFromPercent(store.DefaultThresholdPercent)
		}
		return matching.ThresholdFromPercent(settings.ThresholdPercent)
	})
}
