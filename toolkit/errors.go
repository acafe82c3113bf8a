package toolkit

import "github.com/StephaneRenouard/virtual-dataframe/internal/lifecycle"

// Sentinel errors for error inspection with errors.Is.
// These are immutable constants safe for use in wrapped error chain comparison.
const (
	// ErrPrecondition is returned when the cluster is not configured or not
	// reachable with the given credentials.
	ErrPrecondition = lifecycle.ErrPrecondition

	// ErrNotInitialized is returned by every operation called before
	// Initialize succeeded.
	ErrNotInitialized = lifecycle.ErrNotInitialized

	// ErrNotInstalled is returned when an operation needs the toolkit
	// deployment and it does not exist. Run Install first.
	ErrNotInstalled = lifecycle.ErrNotInstalled

	// ErrNotRunning is returned by Logs, Exec, Test and Pytest when no
	// toolkit pod is running. Run Start first.
	ErrNotRunning = lifecycle.ErrNotRunning

	// ErrApply is returned when the cluster rejects a rendered manifest.
	ErrApply = lifecycle.ErrApply

	// ErrReadinessTimeout is returned when a pod does not reach its target
	// phase within the poll budget.
	ErrReadinessTimeout = lifecycle.ErrReadinessTimeout

	// ErrTerminalPhase is returned when a polled pod ends up Failed or
	// Unknown.
	ErrTerminalPhase = lifecycle.ErrTerminalPhase

	// ErrNotFound is returned when a cluster object does not exist.
	ErrNotFound = lifecycle.ErrNotFound

	// ErrLocked is returned when another command holds the namespace lock.
	ErrLocked = lifecycle.ErrLocked

	// ErrUnsupported is returned by Push.
	ErrUnsupported = lifecycle.ErrUnsupported
)
