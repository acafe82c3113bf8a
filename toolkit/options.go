package toolkit

import (
	"fmt"
	"io"
	"time"
)

// requirePositive panics if v <= 0 with a descriptive message.
func requirePositive[T int | time.Duration](name string, v T) {
	if v <= 0 {
		panic(fmt.Sprintf("toolkit: %s must be greater than 0, got %v", name, v))
	}
}

// requireNonEmpty panics if s is empty with a descriptive message.
func requireNonEmpty(name, s string) {
	if s == "" {
		panic(fmt.Sprintf("toolkit: %s must not be empty", name))
	}
}

// Option configures a Controller during construction via New.
//
// Several With* functions panic on invalid input (empty names, non-positive
// ports or durations). Option values are typically constants or validated
// flags, so an invalid value is a programmer error. Values that need the
// cluster's rules to check (label syntax, port range) are validated by
// Initialize instead.
type Option func(*controllerConfig)

// WithName sets the release name. It names the installer objects and the
// toolkit deployment.
//
// Default: "toolkit".
//
// Panics if name is empty.
func WithName(name string) Option {
	requireNonEmpty("name", name)
	return func(c *controllerConfig) {
		c.Deployment.Name = name
	}
}

// WithNamespace sets the namespace that hosts the installer and the toolkit.
//
// Default: "toolkit".
//
// Panics if namespace is empty.
func WithNamespace(namespace string) Option {
	requireNonEmpty("namespace", namespace)
	return func(c *controllerConfig) {
		c.Deployment.Namespace = namespace
	}
}

// WithImage sets the image repository.
// Panics if image is empty.
func WithImage(image string) Option {
	requireNonEmpty("image", image)
	return func(c *controllerConfig) {
		c.Deployment.Image = image
	}
}

// WithTag sets the image tag.
// Panics if tag is empty.
func WithTag(tag string) Option {
	requireNonEmpty("tag", tag)
	return func(c *controllerConfig) {
		c.Deployment.Tag = tag
	}
}

// WithImagePullSecret names an existing docker-registry secret used to pull
// the images.
// Panics if name is empty.
func WithImagePullSecret(name string) Option {
	requireNonEmpty("image pull secret", name)
	return func(c *controllerConfig) {
		c.Deployment.ImagePullSecret = name
	}
}

// WithAppPort sets the port the toolkit application listens on.
//
// Default: 8080.
//
// Panics if port <= 0.
func WithAppPort(port int) Option {
	requirePositive("app port", port)
	return func(c *controllerConfig) {
		c.Deployment.AppPort = port
	}
}

// WithDaemonSet enables daemon set mode with the daemon set listening on
// port.
//
// Panics if port <= 0.
func WithDaemonSet(port int) Option {
	requirePositive("daemon set port", port)
	return func(c *controllerConfig) {
		c.Deployment.DaemonSetMode = true
		c.Deployment.DaemonSetPort = port
	}
}

// WithIngress enables or disables the toolkit ingress.
//
// Default: enabled.
func WithIngress(enabled bool) Option {
	return func(c *controllerConfig) {
		c.Deployment.IngressEnabled = enabled
	}
}

// WithPollInterval sets the delay between two readiness samples.
//
// Default: 5 seconds.
//
// Panics if d <= 0.
func WithPollInterval(d time.Duration) Option {
	requirePositive("poll interval", d)
	return func(c *controllerConfig) {
		c.PollInterval = d
	}
}

// WithPollAttempts sets how many readiness samples are taken before a wait
// fails with ErrReadinessTimeout.
//
// Default: 36.
//
// Panics if n <= 0.
func WithPollAttempts(n int) Option {
	requirePositive("poll attempts", n)
	return func(c *controllerConfig) {
		c.PollAttempts = n
	}
}

// WithDiagnostics sets where installer logs and events are written when a
// readiness wait fails.
//
// Default: os.Stderr.
//
// Panics if w is nil.
func WithDiagnostics(w io.Writer) Option {
	if w == nil {
		panic("toolkit: diagnostics writer must not be nil")
	}
	return func(c *controllerConfig) {
		c.Diagnostics = w
	}
}

// WithLockDir sets the directory holding the namespace lock files.
//
// Default: filepath.Join(os.TempDir(), DefaultLockDirName).
//
// Panics if dir is empty.
func WithLockDir(dir string) Option {
	requireNonEmpty("lock dir", dir)
	return func(c *controllerConfig) {
		c.LockDir = dir
	}
}

// WithLockWait sets how long mutating operations wait for the namespace lock.
//
// Default: 10 seconds.
//
// Panics if d <= 0.
func WithLockWait(d time.Duration) Option {
	requirePositive("lock wait", d)
	return func(c *controllerConfig) {
		c.LockWait = d
	}
}
