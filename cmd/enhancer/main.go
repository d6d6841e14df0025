package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bindEnhance/internal/config"
	"bindEnhance/internal/enhancer"
	"bindEnhance/internal/signature"
)

func main() {
	root := &cobra.Command{
		Use:          "enhancer",
		Short:        "Augment abigen v2 bindings with dispatch, topic and calldata helpers",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run <file>...",
		Short: "Augment binding files in place",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runEnhance,
	}
	addCommonFlags(runCmd)
	root.AddCommand(runCmd)

	watchCmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Re-augment binding files whenever they change",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatch,
	}
	addCommonFlags(watchCmd)
	watchCmd.Flags().StringSlice("pattern", []string{"*Pack.go"}, "binding file glob patterns (comma-separated)")
	watchCmd.Flags().Duration("debounce", 300*time.Millisecond, "quiet period before a changed file is processed")
	watchCmd.Flags().Bool("recursive", false, "watch subdirectories")
	watchCmd.Flags().Bool("initial-scan", true, "process existing files before watching")
	root.AddCommand(watchCmd)

	lookupCmd := &cobra.Command{
		Use:   "lookup <selector>...",
		Short: "Resolve event topics or function selectors from the signature registry",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runLookup,
	}
	lookupCmd.Flags().String("registry-out", "", "signature registry JSONL path")
	lookupCmd.Flags().String("pg-dsn", "", "Postgres DSN for the signature registry")
	lookupCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(lookupCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("hash-tool", signature.ToolCast, "event topic hasher (cast, builtin)")
	cmd.Flags().String("cast-path", "cast", "path to the cast binary")
	cmd.Flags().Bool("emit-signatures", false, "also generate Signature() on event types")
	cmd.Flags().String("registry-out", "", "append extracted topics and selectors to this JSONL file")
	cmd.Flags().String("pg-dsn", "", "upsert extracted topics and selectors into Postgres")
	cmd.Flags().Int("registry-retries", 3, "maximum retry attempts for Postgres registry writes")
	cmd.Flags().Duration("registry-backoff", 500*time.Millisecond, "initial Postgres registry retry backoff")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func runEnhance(cmd *cobra.Command, args []string) error {
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, closeSinks, err := buildEnhancer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSinks()

	logger.Info("enhancer start",
		zap.String("hash_tool", cfg.HashTool),
		zap.Int("files", len(args)),
		zap.Bool("emit_signatures", cfg.EmitSignatures),
	)

	for _, path := range args {
		if _, err := e.Run(ctx, path); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func buildEnhancer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*enhancer.Enhancer, func(), error) {
	hasher, err := signature.NewHasher(cfg.HashTool, cfg.CastPath)
	if err != nil {
		return nil, nil, err
	}

	sinks, closeSinks, err := openSinks(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	e, err := enhancer.New(enhancer.Options{
		Hasher:         hasher,
		Logger:         logger,
		EmitSignatures: cfg.EmitSignatures,
		Sinks:          sinks,
	})
	if err != nil {
		closeSinks()
		return nil, nil, err
	}
	return e, closeSinks, nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
