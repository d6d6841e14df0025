package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bindEnhance/internal/config"
	"bindEnhance/internal/watch"
)

func runWatch(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadWatch(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, closeSinks, err := buildEnhancer(ctx, cfg.Config, logger)
	if err != nil {
		return err
	}
	defer closeSinks()

	w, err := watch.New(e, watch.Options{
		Root:      args[0],
		Patterns:  cfg.Patterns,
		Debounce:  cfg.Debounce,
		Recursive: cfg.Recursive,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	if cfg.InitialScan {
		if err := w.Scan(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}

	logger.Info("watch start",
		zap.String("root", args[0]),
		zap.Strings("patterns", cfg.Patterns),
		zap.String("hash_tool", cfg.HashTool),
	)
	return w.Run(ctx)
}
