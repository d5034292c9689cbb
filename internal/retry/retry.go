package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/yoockh/nebula/internal/utils"
)

// Policy bounds the retry behavior of one external call.
type Policy struct {
	// Attempts is the total number of tries, including the first. Zero means 3.
	Attempts int
	// InitialInterval is the first backoff delay. Zero means 500ms.
	InitialInterval time.Duration
}

func (p Policy) attempts() int {
	if p.Attempts <= 0 {
		return 3
	}
	return p.Attempts
}

func (p Policy) initialInterval() time.Duration {
	if p.InitialInterval <= 0 {
		return 500 * time.Millisecond
	}
	return p.InitialInterval
}

// Do runs fn with exponential backoff until it succeeds, fails permanently, or
// the attempt budget is spent. Only errors classified transient by
// utils.IsTransient are retried; anything else is returned immediately.
func Do[T any](ctx context.Context, pol Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T

	op := func() error {
		v, err := fn(ctx)
		if err != nil {
			if utils.IsTransient(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		result = v
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = pol.initialInterval()
	bo.MaxElapsedTime = 0

	err := backoff.Retry(op, backoff.WithContext(
		backoff.WithMaxRetries(bo, uint64(pol.attempts()-1)), ctx))
	return result, err
}
