// Package enhancer augments one abigen binding file per run.
package enhancer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"bindEnhance/internal/extract"
	"bindEnhance/internal/model"
	"bindEnhance/internal/patch"
	"bindEnhance/internal/registry"
	"bindEnhance/internal/signature"
	"bindEnhance/internal/synth"
)

var (
	// ErrSourceNotFound means the binding file does not exist.
	ErrSourceNotFound = errors.New("source file not found")
	// ErrNoRecordsFound means the file declares no UnpackXxxEvent methods.
	ErrNoRecordsFound = errors.New("no unpack event methods found")
	// ErrWriteFailure means the augmented text could not be written back.
	ErrWriteFailure = errors.New("write augmented source")
)

// Options configures an Enhancer.
type Options struct {
	Hasher         signature.Hasher
	Logger         *zap.Logger
	EmitSignatures bool
	// Sinks receive registry entries after a successful run.
	Sinks []registry.Sink
}

// Enhancer runs the extract, synthesize and patch pipeline over binding files.
type Enhancer struct {
	hasher signature.Hasher
	logger *zap.Logger
	opts   synth.Options
	sinks  []registry.Sink
}

func New(opts Options) (*Enhancer, error) {
	if opts.Hasher == nil {
		return nil, fmt.Errorf("hasher is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enhancer{
		hasher: opts.Hasher,
		logger: logger,
		opts:   synth.Options{Signatures: opts.EmitSignatures},
		sinks:  opts.Sinks,
	}, nil
}

// Run augments the file at path in place. Per-record hash failures are logged
// and skipped; the run only fails when the file cannot be read, has no event
// records, cannot be written, or ctx is done.
func (e *Enhancer) Run(ctx context.Context, path string) (model.RunReport, error) {
	report := model.RunReport{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return report, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return report, fmt.Errorf("read source: %w", err)
	}
	src := string(data)

	events, container := extract.Events(src)
	if len(events) == 0 {
		return report, fmt.Errorf("%w: %s", ErrNoRecordsFound, path)
	}
	packs := extract.Packs(src, container)
	report.Container = container.Name
	report.Events = len(events)
	report.Methods = len(packs)

	logger := e.logger.With(zap.String("path", path), zap.String("container", container.Name))
	warnDuplicates(logger, events)
	warnParamMismatch(logger, packs)

	topics, skipped, err := e.hashEvents(ctx, logger, events)
	if err != nil {
		return report, err
	}
	report.SkippedTopics = skipped

	blocks := synth.Synthesize(container, events, packs, topics, e.opts)
	out := patch.ApplyAll(src, container.Name, blocks)
	if out != src {
		if err := writeFileAtomic(path, []byte(out)); err != nil {
			return report, fmt.Errorf("%w: %v", ErrWriteFailure, err)
		}
		report.Changed = true
	}

	if len(e.sinks) > 0 {
		entries := registry.Entries(path, container, events, topics, packs)
		for _, sink := range e.sinks {
			if err := sink.PutEntries(ctx, entries); err != nil {
				return report, fmt.Errorf("export registry entries: %w", err)
			}
		}
	}

	logger.Info("binding augmented",
		zap.Int("events", report.Events),
		zap.Int("methods", report.Methods),
		zap.Int("skipped_topics", len(report.SkippedTopics)),
		zap.Bool("changed", report.Changed),
	)
	return report, nil
}

func (e *Enhancer) hashEvents(ctx context.Context, logger *zap.Logger, events []model.UnpackEventRecord) (map[string]string, []string, error) {
	topics := make(map[string]string, len(events))
	var skipped []string
	for _, event := range events {
		canonical := signature.Canonicalize(event.RawSignature)
		hash, err := e.hasher.Hash(ctx, canonical)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, ctxErr
			}
			logger.Warn("skip event topic",
				zap.String("method", event.MethodName),
				zap.String("signature", canonical),
				zap.Error(err),
			)
			skipped = append(skipped, event.MethodName)
			continue
		}
		topics[event.MethodName] = hash
	}
	return topics, skipped, nil
}

func warnDuplicates(logger *zap.Logger, events []model.UnpackEventRecord) {
	seen := make(map[string]string, len(events))
	for _, event := range events {
		key := signature.TypeOnly(event.RawSignature)
		if first, ok := seen[key]; ok {
			logger.Warn("duplicate event signature",
				zap.String("signature", key),
				zap.String("first", first),
				zap.String("second", event.MethodName),
			)
			continue
		}
		seen[key] = event.MethodName
	}
}

func warnParamMismatch(logger *zap.Logger, packs []model.PackMethodRecord) {
	for _, pack := range packs {
		if len(pack.HostParams) != len(pack.ExternalParams) {
			logger.Warn("pack parameter count mismatch",
				zap.String("method", pack.PackName),
				zap.Int("host", len(pack.HostParams)),
				zap.Int("solidity", len(pack.ExternalParams)),
			)
		}
	}
}
