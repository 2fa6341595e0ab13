package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mawa-labs/mawa/internal/config"
	"github.com/mawa-labs/mawa/internal/home"
	"github.com/mawa-labs/mawa/internal/pipeline"
	"github.com/mawa-labs/mawa/internal/providers"
	"github.com/mawa-labs/mawa/version"
)

var (
	cfgFile  string
	homePath string
	verbose  bool
	cityFlag string
)

var rootCmd = &cobra.Command{
	Use:   "mawa",
	Short: "PLU processing pipeline with LLM-powered OCR and zone splitting",
	Long: `Mawa turns scanned French local land-use plans (PLU) into structured,
per-zone regulatory documents.

The pipeline includes:
  - OCR extraction with Mistral and raw-response checkpointing
  - Standardization into a canonical page/block document model
  - Content-hash deduplication of repeated blocks and images
  - LLM zone inference with a reviewable page-split artifact
  - Per-zone splitting, curation and regulatory analysis`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.mawa/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homePath, "home", "", "mawa home directory (default: ~/.mawa)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the process logger honoring --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newPipeline assembles the pipeline from the config file and the configured
// default providers. Stages that never call out work even when no API keys
// are set; the provider constructors only run for stages that need them.
func newPipeline(needOCR, needClient bool) (*pipeline.Pipeline, error) {
	logger := newLogger()
	slog.SetDefault(logger)

	h, err := home.New(homePath)
	if err != nil {
		return nil, err
	}
	if err := h.EnsureExists(); err != nil {
		return nil, err
	}

	path := cfgFile
	if path == "" && h.ConfigExists() {
		path = h.ConfigPath()
	}
	mgr, err := config.NewManager(path)
	if err != nil {
		return nil, err
	}
	cfg := mgr.Get()

	opts := pipeline.Options{
		Home:   h,
		Config: cfg,
		Logger: logger,
	}

	if needOCR {
		name := cfg.Defaults.OCRProvider
		ocrCfg, ok := cfg.GetOCRProvider(name)
		if !ok || !ocrCfg.Enabled {
			return nil, fmt.Errorf("OCR provider %q is not configured", name)
		}
		opts.OCR = providers.NewMistralOCRClient(providers.MistralOCRConfig{
			APIKey:        config.ResolveEnvVars(ocrCfg.APIKey),
			Model:         ocrCfg.Model,
			RateLimit:     ocrCfg.RateLimit,
			IncludeImages: true,
		})
	}

	if needClient {
		name := cfg.Defaults.AnalysisProvider
		llmCfg, ok := cfg.GetAnalysisProvider(name)
		if !ok || !llmCfg.Enabled {
			return nil, fmt.Errorf("analysis provider %q is not configured", name)
		}
		opts.Client = providers.NewOpenRouterClient(providers.OpenRouterConfig{
			APIKey:       config.ResolveEnvVars(llmCfg.APIKey),
			DefaultModel: llmCfg.Model,
		})
		opts.Model = llmCfg.Model
	}

	return pipeline.New(opts)
}
