package toolkit

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/StephaneRenouard/virtual-dataframe/internal/lifecycle"
	"github.com/StephaneRenouard/virtual-dataframe/internal/manifest"
)

// DeploymentConfig describes one toolkit release. It is a type alias so
// that its Validate, ImageRef and WithAction methods are part of the public
// API.
type DeploymentConfig = lifecycle.DeploymentConfig

// controllerConfig holds configuration for a Controller. It is immutable
// after New returns.
type controllerConfig struct {
	Deployment DeploymentConfig

	PollInterval time.Duration
	PollAttempts int

	// Diagnostics receives installer logs and events when a readiness wait
	// fails.
	Diagnostics io.Writer

	LockDir  string
	LockWait time.Duration
}

// defaultControllerConfig returns a controllerConfig populated with all
// default values. Both New and test helpers use it.
func defaultControllerConfig() controllerConfig {
	return controllerConfig{
		Deployment:   manifest.DefaultConfig(),
		PollInterval: DefaultPollInterval,
		PollAttempts: DefaultPollAttempts,
		Diagnostics:  os.Stderr,
		LockDir:      filepath.Join(os.TempDir(), DefaultLockDirName),
		LockWait:     DefaultLockWait,
	}
}
