package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/catalog-ingest/v1/embedding"
)

type statusErr int

func (s statusErr) Error() string   { return fmt.Sprintf("status %d", int(s)) }
func (s statusErr) HTTPStatus() int { return int(s) }

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"throttled", statusErr(429), true},
		{"server error", &embedding.HTTPError{StatusCode: 502}, true},
		{"wrapped server error", fmt.Errorf("call: %w", statusErr(500)), true},
		{"unauthorized", statusErr(401), false},
		{"bad request", statusErr(400), false},
		{"network", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, true},
		{"unexpected eof", io.ErrUnexpectedEOF, true},
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, false},
		{"unknown", errors.New("weird"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func newTestRetrier(attempts int, sleeps *sleepRecorder, results *[]string) retrier {
	return retrier{
		maxAttempts: attempts,
		baseDelay:   500 * time.Millisecond,
		sleep:       sleeps.sleep,
		retryable:   IsRetryable,
		onAttempt:   func(r string) { *results = append(*results, r) },
	}
}

func TestRetrierBacksOffExponentially(t *testing.T) {
	sleeps := &sleepRecorder{}
	var results []string
	r := newTestRetrier(4, sleeps, &results)

	calls := 0
	err := r.do(context.Background(), "op", func(context.Context) error {
		calls++
		if calls < 4 {
			return statusErr(503)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 4, calls)
	assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second, 2 * time.Second}, sleeps.delays)
	assert.Equal(t, []string{"retryable", "retryable", "retryable", "success"}, results)
}

func TestRetrierStopsOnFatalError(t *testing.T) {
	sleeps := &sleepRecorder{}
	var results []string
	r := newTestRetrier(3, sleeps, &results)

	calls := 0
	err := r.do(context.Background(), "op", func(context.Context) error {
		calls++
		return statusErr(401)
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeps.delays)
	assert.Equal(t, []string{"fatal"}, results)
	var sc StatusCoder
	require.ErrorAs(t, err, &sc)
	assert.Equal(t, 401, sc.HTTPStatus())
}

func TestRetrierGivesUp(t *testing.T) {
	sleeps := &sleepRecorder{}
	var results []string
	r := newTestRetrier(3, sleeps, &results)

	calls := 0
	err := r.do(context.Background(), "embedding sku A", func(context.Context) error {
		calls++
		return statusErr(500)
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, sleeps.delays, 2, "no sleep after the last attempt")
	assert.Contains(t, err.Error(), "embedding sku A failed after 3 attempts")
}

func TestRetrierHonoursCanceledSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := retrier{maxAttempts: 3, baseDelay: time.Hour, sleep: sleepContext, retryable: IsRetryable}

	calls := 0
	err := r.do(ctx, "op", func(context.Context) error {
		calls++
		return statusErr(500)
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{BaseDelay: -time.Second}.withDefaults()

	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Zero(t, cfg.BaseDelay)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.EqualValues(t, 4, cfg.MaxConcurrentRuns)
}
