// Command clipforge warms index artifacts for a batch of media files so a
// later editing session can open them without waiting on d2vwitch or
// ffmsindex. Programs embedding the library register decode plugins and use
// the dispatcher's resolve entry points instead.
package main

import (
	"context"
	"log"
	"os"

	"ClipForge/internal/config"
	"ClipForge/internal/index/store"
	"ClipForge/internal/source"
	"ClipForge/pkg/plugin"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	configPath := pflag.String("config", "", "path to config.yaml")
	reindex := pflag.Bool("reindex", false, "rebuild indexes even when fresh")
	pflag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			log.Printf("error syncing logger: %v", err)
		}
	}(logger)

	paths := pflag.Args()
	if len(paths) == 0 {
		logger.Fatal("no source paths given")
	}

	cfg := config.Default()
	if *configPath != "" {
		loader := config.NewConfigLoader(logger)
		cfg, err = loader.Load(*configPath)
		if err != nil {
			logger.Fatal("Failed to load config", zap.Error(err))
		}
	}
	if *reindex {
		cfg.Indexing.ReuseIndexes = false
	}

	artifacts, err := store.New(cfg.Store)
	if err != nil {
		logger.Fatal("Failed to init index store", zap.Error(err))
	}

	dispatcher := source.NewDispatcher(cfg, plugin.NewRegistry(), artifacts, logger)
	results := dispatcher.PrepareIndexes(context.Background(), paths)

	failures := 0
	for _, res := range results {
		if res.IsError {
			failures++
			logger.Error("source failed",
				zap.String("label", res.Label),
				zap.String("path", res.SourcePath),
				zap.String("failed_exec", res.FailedExecPath))
			continue
		}
		logger.Info("source ready",
			zap.String("label", res.Label),
			zap.String("ext", res.SourceExt))
	}
	if failures > 0 {
		logger.Warn("finished with failures",
			zap.Int("failed", failures),
			zap.Int("total", len(results)))
		os.Exit(1)
	}
}
