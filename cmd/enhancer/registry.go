package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bindEnhance/internal/config"
	"bindEnhance/internal/registry"
	"bindEnhance/internal/registry/postgres"
)

func openSinks(ctx context.Context, cfg config.Config) ([]registry.Sink, func(), error) {
	sinks := make([]registry.Sink, 0, 2)
	closeFn := func() {}

	if cfg.RegistryOut != "" {
		sinks = append(sinks, registry.NewJsonlSink(cfg.RegistryOut))
	}
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
		sinks = append(sinks, registry.WithRetry(store, cfg.RegistryRetries, cfg.RegistryBackoff))
		closeFn = store.Close
	}

	return sinks, closeFn, nil
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RegistryOut == "" && cfg.PGDSN == "" {
		return fmt.Errorf("registry-out or pg-dsn is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var source registry.Source
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		source = store
	} else {
		source = registry.NewJsonlSink(cfg.RegistryOut)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	for _, selector := range args {
		entries, err := source.Lookup(ctx, selector)
		if err != nil {
			return fmt.Errorf("lookup %s: %w", selector, err)
		}
		if len(entries) == 0 {
			logger.Warn("selector not found", zap.String("selector", selector))
			continue
		}
		for _, entry := range entries {
			if err := enc.Encode(entry); err != nil {
				return fmt.Errorf("write entry: %w", err)
			}
		}
	}
	return nil
}
