package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/Aleph-Alpha/catalog-ingest/v1/mongo"
	"github.com/Aleph-Alpha/catalog-ingest/v1/postgres"
)

// StatusCoder is implemented by errors that carry an HTTP status, such as
// embedding.HTTPError and qdrant.OperationError.
type StatusCoder interface {
	HTTPStatus() int
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// IsRetryableStatus reports whether an HTTP status is worth retrying:
// throttling and server errors.
func IsRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || (code >= 500 && code <= 599)
}

// IsRetryable classifies errors from the embedding provider and the vector
// index. Status-carrying errors decide by status; transport failures
// (connection reset, timeouts, DNS) are retryable; anything unrecognized is
// not.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var sc StatusCoder
	if errors.As(err, &sc) {
		return IsRetryableStatus(sc.HTTPStatus())
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, context.DeadlineExceeded)
}

// IsRetryableStoreError classifies errors from the relational and document stores.
func IsRetryableStoreError(err error) bool {
	return postgres.IsRetryable(err) || mongo.IsRetryable(err) || IsRetryable(err)
}

// retrier runs an operation up to maxAttempts times with exponential backoff.
type retrier struct {
	maxAttempts int
	baseDelay   time.Duration
	sleep       SleepFunc
	retryable   func(error) bool
	onAttempt   func(result string)
}

// do returns nil on success, the wrapped error immediately when it is not
// retryable, and an error naming the attempt count once attempts run out.
func (r retrier) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			r.record("success")
			return nil
		}
		if !r.retryable(err) {
			r.record("fatal")
			return fmt.Errorf("%s: non-retryable error: %w", op, err)
		}
		r.record("retryable")
		if attempt == r.maxAttempts {
			break
		}
		delay := r.baseDelay * time.Duration(1<<(attempt-1))
		if serr := r.sleep(ctx, delay); serr != nil {
			return fmt.Errorf("%s: interrupted after %d attempts: %w", op, attempt, serr)
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", op, r.maxAttempts, err)
}

func (r retrier) record(result string) {
	if r.onAttempt != nil {
		r.onAttempt(result)
	}
}
