package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_SuccessFirstAttempt(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), func() ([]byte, error) {
		calls++
		return []byte("ok"), nil
	}, Config{})

	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), result)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesOnRetryableError(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), func() ([]byte, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("connection refused")
		}
		return []byte("ok"), nil
	}, Config{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond})

	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), result)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsOnNonRetryableError(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), func() ([]byte, error) {
		calls++
		return nil, errors.New("status 404 not found")
	}, Config{MaxAttempts: 3, InitialBackoff: time.Millisecond})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_AllAttemptsFail(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), func() ([]byte, error) {
		calls++
		return nil, errors.New("timeout")
	}, Config{MaxAttempts: 2, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond})

	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "all 2 attempts failed")
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Do(ctx, func() ([]byte, error) {
		return nil, errors.New("timeout")
	}, Config{MaxAttempts: 3, InitialBackoff: time.Second})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(errors.New("401 unauthorized")))
	assert.False(t, IsRetryable(errors.New("unknown problem")))
	assert.True(t, IsRetryable(errors.New("connection reset by peer")))
	assert.True(t, IsRetryable(errors.New("503 service unavailable")))
	assert.True(t, IsRetryable(errors.New("rate limit exceeded")))
}

func TestCalculateBackoff(t *testing.T) {
	assert.Equal(t, time.Second, calculateBackoff(0, time.Second, 10*time.Second))
	assert.Equal(t, 2*time.Second, calculateBackoff(1, time.Second, 10*time.Second))
	assert.Equal(t, 4*time.Second, calculateBackoff(2, time.Second, 10*time.Second))
	assert.Equal(t, 10*time.Second, calculateBackoff(5, time.Second, 10*time.Second))
}
