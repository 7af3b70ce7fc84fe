package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mealgraph/mealgraph/internal/adapters/llm"
	"github.com/mealgraph/mealgraph/internal/adapters/memory"
	"github.com/mealgraph/mealgraph/internal/adapters/redis"
	"github.com/mealgraph/mealgraph/internal/config"
	"github.com/mealgraph/mealgraph/internal/logging"
	"github.com/mealgraph/mealgraph/internal/metrics"
	"github.com/mealgraph/mealgraph/pkg/agents"
	"github.com/mealgraph/mealgraph/pkg/pipeline"
	"github.com/mealgraph/mealgraph/pkg/ports"
)

var rootCmd = &cobra.Command{
	Use:   "mealgraph",
	Short: "MealGraph turns free-text nutrition messages into validated actions",
	Long: `MealGraph processes one nutrition message at a time: search foods,
scan barcodes, log meals, summarize a day or get food recommendations.
Without an API key every intent runs on its deterministic path; with one,
a model classifies intents and enriches turns through read-only tools.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Override the log level: debug, info, warn or error")
}

// app bundles everything a command needs after bootstrap.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	store    *memory.Store
	contexts ports.ContextStore
	metrics  *metrics.Metrics
	pipeline *pipeline.Pipeline
	close    func()
}

// bootstrap assembles the application from configuration. The model client
// and Redis context store are wired only when configured; everything else
// has in-process defaults.
func bootstrap(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	logger := logging.New(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)

	store := memory.New()
	m := metrics.New()

	opts := pipeline.Options{
		Logger:   logger,
		Observer: m,
	}
	if cfg.LLM.APIKey != "" {
		client := llm.New(llm.Config{
			BaseURL:    cfg.LLM.BaseURL,
			APIKey:     cfg.LLM.APIKey,
			Model:      cfg.LLM.Model,
			Timeout:    time.Duration(cfg.LLM.TimeoutSec) * time.Second,
			MaxRetries: cfg.LLM.MaxRetries,
		}, logger)
		opts.Model = client
		opts.Classifier = client
	} else {
		logger.Info("no API key configured, running deterministic paths only")
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		metrics: m,
		close:   func() {},
	}

	if cfg.Redis.Addr != "" {
		rs := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithTTL(time.Duration(cfg.Redis.TTLSec)*time.Second))
		a.contexts = rs
		a.close = func() {
			if err := rs.Close(); err != nil {
				logger.Warn("redis close failed", "err", err)
			}
		}
	} else {
		a.contexts = memory.NewContextStore()
	}

	a.pipeline = pipeline.New(agents.Deps{
		Foods:  store,
		Meals:  store,
		Goals:  store,
		Logger: logger,
	}, opts)

	return a, nil
}
