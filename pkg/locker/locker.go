// Package locker provides distributed locks for coordinating work across
// service instances, such as coupon redemption and scheduled maintenance.
package locker

import (
	"context"
	"time"
)

// DistributedLocker serializes an operation across instances. A caller
// that fails to acquire the lock skips the operation rather than waiting.
// Implementations must be safe for concurrent use.
//
//	acquired, err := locker.Acquire(ctx, "coupon:redeem:SAVE10", 10*time.Second)
//	if err != nil || !acquired {
//	    return
//	}
//	defer locker.Release(ctx, "coupon:redeem:SAVE10")
type DistributedLocker interface {
	// Acquire takes the lock for key, returning false when another
	// instance already holds it. The lock expires on its own after ttl,
	// so a crashed holder cannot block the key forever.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release gives the lock back. Releasing a lock this instance does
	// not own is a no-op.
	Release(ctx context.Context, key string) error
}
