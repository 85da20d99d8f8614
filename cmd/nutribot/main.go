// Package main is the entry point for the response cache server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"nutribot/config"
	"nutribot/internal/cache"
	"nutribot/internal/core"
	"nutribot/internal/generator"
	"nutribot/internal/observability"
	"nutribot/internal/personalize"
	"nutribot/internal/profile"
	"nutribot/internal/server"
	"nutribot/internal/version"
)

func main() {
	versionFlag := flag.Bool("version", false, "Print version information")
	flag.Parse()

	if *versionFlag {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	var handler slog.Handler
	if cfg.Log.Format == "pretty" {
		handler = tint.NewHandler(os.Stdout, &tint.Options{TimeFormat: time.TimeOnly})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("starting nutribot",
		"version", version.Version,
		"commit", version.Commit,
		"build_date", version.Date,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Cache metrics hooks must exist before the cache so every lookup counts
	var hooks cache.Hooks
	if cfg.Metrics.Enabled {
		hooks = observability.NewPrometheusHooks()
		slog.Info("prometheus metrics enabled", "endpoint", "/metrics")
	} else {
		slog.Info("prometheus metrics disabled")
	}

	cacheCfg := cache.Config{
		TTL:                 cfg.Cache.TTL,
		SimilarityThreshold: cfg.Cache.SimilarityThreshold,
		CostPerCall:         cfg.Cache.CostPerCall,
		ExactCapacity:       cfg.Cache.ExactCapacity,
		PatternsPerUser:     cfg.Cache.PatternsPerUser,
		Hooks:               hooks,
	}
	if cfg.Cache.StaticResponsesPath != "" {
		extra, err := cache.LoadStaticResponses(cfg.Cache.StaticResponsesPath)
		if err != nil {
			slog.Error("failed to load static responses", "error", err)
			os.Exit(1)
		}
		cacheCfg.ExtraStaticResponses = extra
		slog.Info("loaded extra static responses", "count", len(extra))
	}

	responseCache, err := cache.New(cacheCfg)
	if err != nil {
		slog.Error("failed to create response cache", "error", err)
		os.Exit(1)
	}

	var extraTemplates []personalize.Template
	if cfg.Cache.TemplatesPath != "" {
		extraTemplates, err = personalize.LoadTemplates(cfg.Cache.TemplatesPath)
		if err != nil {
			slog.Error("failed to load templates", "error", err)
			os.Exit(1)
		}
		slog.Info("loaded extra templates", "count", len(extraTemplates))
	}
	engine := personalize.NewEngine(extraTemplates, cfg.Cache.CostPerCall)

	profiles, err := profile.New(ctx, cfg.Profile)
	if err != nil {
		slog.Error("failed to create profile store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := profiles.Close(); err != nil {
			slog.Error("failed to close profile store", "error", err)
		}
	}()
	slog.Info("profile store ready", "type", cfg.Profile.Type)

	// Generation is optional: without an API key, cache misses serve the
	// upsell fallback instead.
	var gen core.Generator
	if cfg.Generator.APIKey != "" {
		gen, err = generator.New(generator.Config{
			BaseURL: cfg.Generator.BaseURL,
			APIKey:  cfg.Generator.APIKey,
			Model:   cfg.Generator.Model,
		})
		if err != nil {
			slog.Error("failed to create generator", "error", err)
			os.Exit(1)
		}
		slog.Info("generator configured", "model", cfg.Generator.Model)
	} else {
		slog.Warn("no generator API key; cache misses will serve the fallback response")
	}

	srv := server.New(responseCache, engine, profiles, gen, &server.Config{
		MetricsEnabled: cfg.Metrics.Enabled,
	})

	go func() {
		addr := ":" + cfg.Server.Port
		slog.Info("http server listening", "addr", addr)
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
