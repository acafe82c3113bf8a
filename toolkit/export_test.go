package toolkit

import (
	"io"
	"time"

	"github.com/StephaneRenouard/virtual-dataframe/internal/lifecycle"
	"k8s.io/client-go/rest"
)

// NewForTesting returns a Controller whose Initialize connects to cl instead
// of dialing a cluster. connectErr, if set, is returned by Initialize.
//
//nolint:ireturn // mirrors New
func NewForTesting(cl lifecycle.Cluster, connectErr error, opts ...Option) Controller {
	connect := func(*rest.Config, string) (lifecycle.Cluster, string, error) {
		if connectErr != nil {
			return nil, "", connectErr
		}
		return cl, "v1.35.1", nil
	}
	return newController(&rest.Config{Host: "https://test.invalid"}, "https://test.invalid", connect, opts...)
}

// ConfigSnapshot holds a copy of controllerConfig fields for test
// assertions.
type ConfigSnapshot struct {
	Deployment   DeploymentConfig
	PollInterval time.Duration
	PollAttempts int
	Diagnostics  io.Writer
	LockDir      string
	LockWait     time.Duration
}

// ApplyOptionsForTesting creates a default controllerConfig, applies the
// given options, and returns a snapshot of the result.
func ApplyOptionsForTesting(opts ...Option) ConfigSnapshot {
	cfg := defaultControllerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return ConfigSnapshot(cfg)
}
