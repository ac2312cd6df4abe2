package util

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_PollUntil(t *testing.T) {
	ctx := context.Background()
	opts := PollOptions{MaxAttempts: 5, StartDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

	attempts := 0
	err := PollUntil(ctx, opts, func(context.Context) (bool, error) {
		attempts++
		return attempts == 3, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)

	attempts = 0
	err = PollUntil(ctx, opts, func(context.Context) (bool, error) {
		attempts++
		return false, nil
	})
	assert.Equal(t, ErrPollExhausted, err)
	assert.Equal(t, 5, attempts)

	err = PollUntil(ctx, opts, func(context.Context) (bool, error) {
		return false, errors.New("backend gone")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend gone")
}

func Test_PollUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	opts := PollOptions{MaxAttempts: 100, StartDelay: 10 * time.Millisecond, MaxDelay: 10 * time.Millisecond}

	go func() {
		time.Sleep(25 * time.Millisecond)
		cancel()
	}()
	err := PollUntil(ctx, opts, func(context.Context) (bool, error) {
		return false, nil
	})
	assert.Equal(t, context.Canceled, err)
}
