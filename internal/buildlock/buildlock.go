// Package buildlock provides advisory file locking over a build's shared
// mutable state: cache subdirectories that concurrent fetchers write into,
// and the project root a concurrent `kcjpm build` invocation must not
// clobber. It replaces ad-hoc "check then write" races with an explicit
// lock held for the duration of the critical section, the same way a
// cargo.lock or npm package-lock guards concurrent installs.
package buildlock

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// DefaultRetryInterval is how often a blocked Acquire retries the lock.
const DefaultRetryInterval = 25 * time.Millisecond

// Lock is one held advisory lock.
type Lock struct {
	fl   *flock.Flock
	path string
}

// Acquire blocks until it holds an exclusive advisory lock on lockPath, or
// ctx is done. The lock file itself is never read for content; its
// existence and flock state are the only thing that matters.
func Acquire(ctx context.Context, lockPath string) (*Lock, error) {
	fl := flock.New(lockPath)

	locked, err := fl.TryLockContext(ctx, DefaultRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", lockPath, err)
	}
	if !locked {
		return nil, fmt.Errorf("acquire lock %s: not locked", lockPath)
	}
	return &Lock{fl: fl, path: lockPath}, nil
}

// AcquireResource is Acquire for a cache subdirectory: it locks
// resourcePath+".lock" rather than the resource path itself, so the lock
// file never collides with the resource it guards.
func AcquireResource(ctx context.Context, resourcePath string) (*Lock, error) {
	return Acquire(ctx, resourcePath+".lock")
}

// Release drops the lock. Callers typically defer this immediately after
// a successful Acquire.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	return l.fl.Unlock()
}
