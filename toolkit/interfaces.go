package toolkit

import (
	"context"
	"io"
)

// Controller drives the lifecycle of one toolkit release.
//
// Callers must follow this ordering:
//
//	New → Initialize → any operation (repeatable)
//
// Every operation except Config returns ErrNotInitialized before Initialize
// succeeded.
type Controller interface {
	// Initialize validates the configuration and checks that the cluster is
	// reachable. Returns an error wrapping ErrPrecondition if it is not.
	// Safe to call multiple times: after a success, later calls return nil
	// immediately; after a failure, they retry.
	Initialize(ctx context.Context) error

	// Config returns the deployment configuration of the release.
	Config() DeploymentConfig

	// Install deploys the toolkit and waits until its pod runs.
	//
	// Returns an error wrapping ErrApply if the cluster rejects the
	// installer manifest, ErrTerminalPhase if the installer or toolkit pod
	// fails, and ErrReadinessTimeout if either does not finish in time. On
	// the last two, the installer logs and events are written to the
	// diagnostics writer first.
	Install(ctx context.Context) error

	// Uninstall removes the toolkit. Uninstalling an absent toolkit
	// succeeds.
	Uninstall(ctx context.Context) error

	// Start scales the toolkit up and waits until its pod runs. A running
	// toolkit is left alone. Returns ErrNotInstalled without a deployment.
	Start(ctx context.Context) error

	// Stop scales the toolkit down to zero. A stopped toolkit is left
	// alone. Returns ErrNotInstalled without a deployment.
	Stop(ctx context.Context) error

	// Status reports whether the toolkit is installed and running. It never
	// mutates the cluster.
	Status(ctx context.Context) (Status, error)

	// Logs writes the toolkit pod logs to w. With follow set, it streams
	// until ctx is canceled or the pod exits.
	Logs(ctx context.Context, w io.Writer, follow bool) error

	// Password returns the toolkit password.
	Password(ctx context.Context) (string, error)

	// Exec runs command in the toolkit pod, or an interactive shell if
	// command is empty.
	Exec(ctx context.Context, command []string, streams Streams) error

	// Test runs the test suite bundled in the toolkit image, passing args
	// to pytest.
	Test(ctx context.Context, args []string, streams Streams) error

	// Pytest runs pytest with args in the toolkit pod.
	Pytest(ctx context.Context, args []string, streams Streams) error

	// Push publishes the toolkit image under target. Always returns
	// ErrUnsupported: pushing needs a container engine on the operator's
	// machine.
	Push(ctx context.Context, target string) error
}
