package ai

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/predictos/predictd/internal/domain"
)

const (
	// maxAttempts is the per-provider attempt budget.
	maxAttempts = 3
	// baseBackoff doubles per attempt: 100ms, 200ms, 400ms.
	baseBackoff = 100 * time.Millisecond
)

// retrier runs an operation up to a fixed number of attempts with exponential
// backoff. Only transport/parse failures are retried; validation failures on
// the input surface immediately.
type retrier struct {
	attempts int
	base     time.Duration
	logger   *slog.Logger
}

func newRetrier(logger *slog.Logger) retrier {
	return retrier{attempts: maxAttempts, base: baseBackoff, logger: logger}
}

// do invokes fn until it succeeds, the attempt budget is spent, or the
// context ends. It returns the last error on exhaustion.
func (r retrier) do(ctx context.Context, op string, fn func(context.Context) error) error {
	var last error

	for attempt := 0; attempt < r.attempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				r.logger.InfoContext(ctx, "ai: call succeeded after retry",
					slog.String("op", op),
					slog.Int("attempt", attempt+1),
				)
			}
			return nil
		}
		if errors.Is(err, domain.ErrValidation) {
			return err
		}
		last = err

		if attempt < r.attempts-1 {
			delay := r.base << attempt
			r.logger.WarnContext(ctx, "ai: call failed, backing off",
				slog.String("op", op),
				slog.Int("attempt", attempt+1),
				slog.Duration("delay", delay),
				slog.String("error", err.Error()),
			)

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	return last
}
