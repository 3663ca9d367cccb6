package redis

import "errors"

var (
	// ErrLockNotAcquired is returned when a lock is held by another owner.
	ErrLockNotAcquired = errors.New("redis: lock not acquired")

	// ErrLockNotHeld is returned when releasing or refreshing a lock that expired or changed owner.
	ErrLockNotHeld = errors.New("redis: lock not held")
)
