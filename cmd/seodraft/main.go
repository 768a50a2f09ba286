package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hpungsan/seodraft/internal/config"
	"github.com/hpungsan/seodraft/internal/db"
	"github.com/hpungsan/seodraft/internal/errors"
	"github.com/hpungsan/seodraft/internal/genai"
	"github.com/hpungsan/seodraft/internal/logger"
	"github.com/hpungsan/seodraft/internal/mcp"
	"github.com/hpungsan/seodraft/internal/pipeline"
	"github.com/hpungsan/seodraft/internal/telemetry"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// deps is everything the commands need, built once in main.
type deps struct {
	cfg      *config.Config
	store    *db.Store
	pipeline *pipeline.Pipeline
	metrics  *telemetry.Metrics
	log      logger.Logger
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return true
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

func main() {
	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	d, err := bootstrap(filepath.Join(homeDir, ".seodraft"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	app := newCLIApp(d)
	runErr := app.Run(os.Args)

	d.close()
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		os.Exit(1)
	}
}

// bootstrap loads configuration and wires the store, model clients and pipeline.
// A missing API key leaves the pipeline nil so read-only commands still work.
func bootstrap(baseDir string) (*deps, error) {
	cfg, err := config.Load(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		log.Warn("ignoring unknown disabled_tools", logger.Any("tools", unknown))
	}

	store, err := db.Open(cfg.Database, baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	d := &deps{
		cfg:     cfg,
		store:   store,
		metrics: telemetry.NewMetrics(reg),
		log:     log,
	}

	p, err := buildPipeline(cfg, store, telemetry.Multi{telemetry.NewLogObserver(log), d.metrics})
	switch {
	case errors.Is(err, errors.ErrNotConfigured):
		log.Warn("generation disabled", logger.Error(err))
	case err != nil:
		store.Close()
		return nil, err
	}
	d.pipeline = p

	return d, nil
}

// buildPipeline creates the model clients and the pipeline around them.
func buildPipeline(cfg *config.Config, store pipeline.PostStore, obs telemetry.Observer) (*pipeline.Pipeline, error) {
	generator, scorer, err := genai.New(cfg.Generation, nil)
	if err != nil {
		return nil, err
	}

	return pipeline.New(pipeline.Deps{
		Writer:       pipeline.NewWriter(generator),
		Scorer:       pipeline.NewScorer(scorer),
		Store:        store,
		Observer:     obs,
		Timeout:      cfg.Pipeline.Timeout(),
		PreviewChars: cfg.Pipeline.PreviewChars,
	})
}

func (d *deps) close() {
	if d.store != nil {
		d.store.Close()
	}
	_ = d.log.Sync()
}
