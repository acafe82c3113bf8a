package toolkit

import (
	"time"

	"github.com/StephaneRenouard/virtual-dataframe/internal/manifest"
	"github.com/StephaneRenouard/virtual-dataframe/internal/poll"
)

// Default configuration values for New.
const (
	// DefaultName is the release name of the toolkit.
	DefaultName = manifest.DefaultName

	// DefaultNamespace is used when neither WithNamespace nor the kubeconfig
	// context selects a namespace.
	DefaultNamespace = manifest.DefaultNamespace

	// DefaultImage is the installer image repository.
	DefaultImage = manifest.DefaultImage

	// DefaultTag is the installer image tag.
	DefaultTag = manifest.DefaultTag

	// DefaultAppPort is the port the toolkit application listens on.
	DefaultAppPort = manifest.DefaultAppPort

	// DefaultDaemonSetPort is the port of the toolkit daemon set when
	// daemon set mode is enabled.
	DefaultDaemonSetPort = manifest.DefaultDaemonSetPort

	// DefaultPollInterval is the delay between two readiness samples.
	DefaultPollInterval = poll.DefaultInterval

	// DefaultPollAttempts is the number of readiness samples taken before
	// giving up. With DefaultPollInterval this bounds each wait to three
	// minutes.
	DefaultPollAttempts = poll.DefaultMaxAttempts

	// DefaultLockDirName is the directory name under the system temp
	// directory where namespace lock files are kept.
	DefaultLockDirName = "toolkit-locks"

	// DefaultLockWait is how long a mutating operation waits for a
	// concurrent command on the same namespace before failing with
	// ErrLocked.
	DefaultLockWait = 10 * time.Second
)
