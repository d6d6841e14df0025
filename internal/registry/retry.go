package registry

import (
	"context"
	"time"

	"bindEnhance/internal/model"
)

type retrySink struct {
	sink       Sink
	maxRetries int
	baseDelay  time.Duration
}

// WithRetry retries failed writes to sink with doubling backoff.
func WithRetry(sink Sink, maxRetries int, baseDelay time.Duration) Sink {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}
	return &retrySink{sink: sink, maxRetries: maxRetries, baseDelay: baseDelay}
}

func (r *retrySink) PutEntries(ctx context.Context, entries []model.SignatureEntry) error {
	delay := r.baseDelay
	for attempt := 0; ; attempt++ {
		err := r.sink.PutEntries(ctx, entries)
		if err == nil {
			return nil
		}
		if attempt >= r.maxRetries {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}
}
