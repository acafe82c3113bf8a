// Package lock serializes mutating commands against one namespace on the
// operator's machine with an advisory file lock.
package lock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/StephaneRenouard/virtual-dataframe/internal/sentinel"
	"github.com/gofrs/flock"
)

// ErrLocked is returned when another command holds the lock for the same
// cluster and namespace.
const ErrLocked = sentinel.Error("another command is running against this namespace")

// retryInterval is the delay between two lock attempts while waiting.
const retryInterval = 50 * time.Millisecond

// Lock is a held namespace lock.
type Lock struct {
	fl  *flock.Flock
	log *slog.Logger
}

// Path returns the lock file path for a cluster endpoint and namespace under
// dir. The host is hashed so any URL maps to a safe file name.
func Path(dir, host, namespace string) string {
	sum := sha256.Sum256([]byte(host))
	return filepath.Join(dir, hex.EncodeToString(sum[:6])+"-"+namespace+".lock")
}

// Acquire takes the lock at path, waiting up to wait for a concurrent holder
// to finish. It returns ErrLocked if the lock is still held after wait, and
// the context error if ctx ends first.
func Acquire(ctx context.Context, path string, wait time.Duration, log *slog.Logger) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}

	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	fl := flock.New(path)
	locked, err := fl.TryLockContext(waitCtx, retryInterval)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", path, ctx.Err())
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("acquire lock %s: %w", path, ErrLocked)
		}
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("acquire lock %s: %w", path, ErrLocked)
	}

	log.Debug("namespace lock acquired", "path", path)
	return &Lock{fl: fl, log: log}, nil
}

// Release unlocks and closes the lock file. The file stays on disk so a
// concurrent Acquire never locks an unlinked inode. Safe on a nil Lock.
func (l *Lock) Release() {
	if l == nil || l.fl == nil {
		return
	}
	if err := l.fl.Close(); err != nil {
		l.log.Debug("failed to release namespace lock", "path", l.fl.Path(), "err", err)
	}
}
