package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/StephaneRenouard/virtual-dataframe/internal/gateway"
)

const (
	// DefaultShell is the command run by Exec when none is given.
	DefaultShell = "/bin/bash"

	// TestSuiteDir is the directory of the test suite shipped in the toolkit
	// image.
	TestSuiteDir = "/opt/toolkit/tests"

	// PasswordKey is the data key of the toolkit credentials secret.
	PasswordKey = "password"
)

// CredentialsSecretName returns the name of the secret holding the toolkit
// credentials of release.
func CredentialsSecretName(release string) string {
	return release + "-credentials"
}

// Logs copies the log lines of the running toolkit pod to w, one per line.
// With follow set it returns only when the stream ends or ctx is canceled.
func (o *Orchestrator) Logs(ctx context.Context, release string, w io.Writer, follow bool) error {
	h, err := o.runningPod(ctx, release)
	if err != nil {
		return fmt.Errorf("logs %s: %w", release, err)
	}
	for line, err := range o.cluster.StreamLogs(ctx, h, follow) {
		if err != nil {
			return fmt.Errorf("logs %s: %w", release, err)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("logs %s: %w", release, err)
		}
	}
	return nil
}

// Password returns the toolkit password of release.
func (o *Orchestrator) Password(ctx context.Context, release string) (string, error) {
	if _, err := o.replicas(ctx, release); err != nil {
		return "", fmt.Errorf("get password %s: %w", release, err)
	}
	v, err := o.cluster.SecretValue(ctx, CredentialsSecretName(release), PasswordKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("get password %s: %w: %w", release, ErrNotInstalled, err)
		}
		return "", fmt.Errorf("get password %s: %w", release, err)
	}
	return string(v), nil
}

// Exec runs command in the running toolkit pod. An empty command opens
// DefaultShell.
func (o *Orchestrator) Exec(ctx context.Context, release string, command []string, streams gateway.Streams) error {
	if len(command) == 0 {
		command = []string{DefaultShell}
	}
	h, err := o.runningPod(ctx, release)
	if err != nil {
		return fmt.Errorf("exec %s: %w", release, err)
	}
	o.log.Debug("exec in toolkit pod", "release", release, "pod", h.Name, "command", command)
	if err := o.cluster.Exec(ctx, h, command, streams); err != nil {
		return fmt.Errorf("exec %s: %w", release, err)
	}
	return nil
}

// Test runs the bundled test suite with pytest in the toolkit pod. args are
// passed to pytest after the suite directory.
func (o *Orchestrator) Test(ctx context.Context, release string, args []string, streams gateway.Streams) error {
	return o.Exec(ctx, release, PytestCommand(true, args), streams)
}

// Pytest runs pytest with args in the toolkit pod.
func (o *Orchestrator) Pytest(ctx context.Context, release string, args []string, streams gateway.Streams) error {
	return o.Exec(ctx, release, PytestCommand(false, args), streams)
}

// PytestCommand returns the pytest command line, prefixed with TestSuiteDir
// when suite is set.
func PytestCommand(suite bool, args []string) []string {
	cmd := make([]string, 0, len(args)+2)
	cmd = append(cmd, "pytest")
	if suite {
		cmd = append(cmd, TestSuiteDir)
	}
	return append(cmd, args...)
}
