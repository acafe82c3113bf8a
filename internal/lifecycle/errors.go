package lifecycle

import (
	"github.com/StephaneRenouard/virtual-dataframe/internal/cluster"
	"github.com/StephaneRenouard/virtual-dataframe/internal/gateway"
	"github.com/StephaneRenouard/virtual-dataframe/internal/lock"
	"github.com/StephaneRenouard/virtual-dataframe/internal/poll"
	"github.com/StephaneRenouard/virtual-dataframe/internal/sentinel"
)

// ErrNotInstalled is returned by operations that need an installed toolkit
// when its deployment does not exist.
const ErrNotInstalled = sentinel.Error("toolkit is not installed")

// ErrNotRunning is returned by operations that need a running toolkit pod.
const ErrNotRunning = sentinel.Error("toolkit is not running")

// ErrUnsupported is returned for commands this controller does not carry out.
const ErrUnsupported = sentinel.Error("operation not supported")

// ErrNotInitialized is returned when an operation runs before Initialize.
const ErrNotInitialized = sentinel.Error("controller not initialized")

// Re-exported so the public API reaches every sentinel through lifecycle.
const (
	ErrPrecondition     = cluster.ErrPrecondition
	ErrApply            = gateway.ErrApply
	ErrNotFound         = gateway.ErrNotFound
	ErrReadinessTimeout = poll.ErrReadinessTimeout
	ErrTerminalPhase    = poll.ErrTerminalPhase
	ErrLocked           = lock.ErrLocked
)
