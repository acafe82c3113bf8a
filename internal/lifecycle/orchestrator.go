package lifecycle

import (
	"io"
	"log/slog"
	"time"

	"github.com/StephaneRenouard/virtual-dataframe/internal/poll"
	"k8s.io/utils/clock"
)

// Params configures New. Cluster is required; zero values of the remaining
// fields select defaults.
type Params struct {
	Cluster Cluster

	// PollInterval defaults to poll.DefaultInterval.
	PollInterval time.Duration

	// PollAttempts defaults to poll.DefaultMaxAttempts.
	PollAttempts int

	// Clock drives poll waits. Defaults to clock.RealClock.
	Clock clock.Clock

	// Diagnostics receives installer logs and events when a readiness wait
	// fails. Defaults to io.Discard.
	Diagnostics io.Writer

	// Logger defaults to the package-level Logger().
	Logger *slog.Logger
}

// Orchestrator sequences cluster operations into the toolkit lifecycle.
// It holds no lifecycle state of its own and is safe for concurrent use as
// long as the Cluster is.
type Orchestrator struct {
	cluster  Cluster
	interval time.Duration
	attempts int
	clock    clock.Clock
	diag     io.Writer
	log      *slog.Logger
}

// New returns an Orchestrator. It panics if p.Cluster is nil or a poll
// setting is negative.
func New(p Params) *Orchestrator {
	if p.Cluster == nil {
		panic("lifecycle: Cluster must not be nil")
	}
	if p.PollInterval < 0 {
		panic("lifecycle: PollInterval must not be negative")
	}
	if p.PollAttempts < 0 {
		panic("lifecycle: PollAttempts must not be negative")
	}

	o := &Orchestrator{
		cluster:  p.Cluster,
		interval: p.PollInterval,
		attempts: p.PollAttempts,
		clock:    p.Clock,
		diag:     p.Diagnostics,
		log:      p.Logger,
	}
	if o.interval == 0 {
		o.interval = poll.DefaultInterval
	}
	if o.attempts == 0 {
		o.attempts = poll.DefaultMaxAttempts
	}
	if o.clock == nil {
		o.clock = clock.RealClock{}
	}
	if o.diag == nil {
		o.diag = io.Discard
	}
	if o.log == nil {
		o.log = Logger()
	}
	return o
}

func (o *Orchestrator) pollConfig(name string, log *slog.Logger) poll.Config {
	return poll.Config{
		Interval:    o.interval,
		MaxAttempts: o.attempts,
		Name:        name,
		Clock:       o.clock,
		Logger:      log,
	}
}
