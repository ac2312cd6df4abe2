package util

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrPollExhausted is returned by PollUntil when the attempt budget runs
// out before `work` reports completion.
var ErrPollExhausted = errors.New("poll attempts exhausted")

// PollOptions bound a PollUntil loop. The delay between attempts grows
// geometrically from StartDelay and is capped at MaxDelay.
type PollOptions struct {
	MaxAttempts int
	StartDelay  time.Duration
	MaxDelay    time.Duration
}

// DefaultPollOptions returns the bounds used for "wait for eventually
// consistent backend state" reads.
func DefaultPollOptions() PollOptions {
	return PollOptions{
		MaxAttempts: 30,
		StartDelay:  400 * time.Millisecond,
		MaxDelay:    1500 * time.Millisecond,
	}
}

// PollUntil calls `work` until it reports done, the attempt budget is
// exhausted or the context is cancelled. A (false, nil) result schedules
// another attempt; any error aborts the loop and is returned as-is.
func PollUntil(ctx context.Context, opts PollOptions, work func(context.Context) (bool, error)) error {
	if opts.MaxAttempts <= 0 {
		opts = DefaultPollOptions()
	}
	delay := opts.StartDelay
	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		done, err := work(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = time.Duration(float64(delay) * 1.6)
		if delay > opts.MaxDelay {
			delay = opts.MaxDelay
		}
	}
	return ErrPollExhausted
}
