package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// IsRetryable reports whether a failed driver call may succeed when repeated:
// network errors, timeouts and server errors the driver labels as retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	var labeled mongo.LabeledError
	if errors.As(err, &labeled) {
		return labeled.HasErrorLabel("RetryableWriteError") || labeled.HasErrorLabel("TransientTransactionError")
	}
	return false
}

// IsDuplicateKey reports whether err contains a duplicate key error.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
