package poll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/utils/clock"
)

const (
	// DefaultInterval is the delay between two samples.
	DefaultInterval = 5 * time.Second

	// DefaultMaxAttempts bounds the wait to DefaultInterval * 36 = 3 minutes.
	DefaultMaxAttempts = 36
)

// ErrIntervalNotPositive indicates a non-positive poll interval.
var ErrIntervalNotPositive = errors.New("interval must be positive")

// ErrMaxAttemptsNotPositive indicates a non-positive attempt budget.
var ErrMaxAttemptsNotPositive = errors.New("max attempts must be positive")

// Sampler returns the current phase of the observed object. A non-nil error
// aborts polling immediately.
type Sampler func(ctx context.Context) (corev1.PodPhase, error)

// Config configures Until.
type Config struct {
	Interval    time.Duration
	MaxAttempts int

	// Name identifies the polled object in logs.
	Name string

	// Clock defaults to clock.RealClock.
	Clock clock.Clock

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with DefaultInterval and DefaultMaxAttempts.
func DefaultConfig(name string) Config {
	return Config{
		Interval:    DefaultInterval,
		MaxAttempts: DefaultMaxAttempts,
		Name:        name,
	}
}

// Until samples until target is observed, a fail phase is observed, the
// sampler errors, ctx is canceled, or MaxAttempts samples have been taken.
//
// A target reached on attempt N (N <= MaxAttempts) returns Reached after
// exactly N samples. A fail phase or sampler error returns Error without
// sampling again. A budget exhausted on non-target phases returns
// StillPending after exactly MaxAttempts samples; there is no sleep after
// the last sample.
func Until(ctx context.Context, cfg Config, sample Sampler, target corev1.PodPhase, failPhases ...corev1.PodPhase) Outcome {
	if cfg.Interval <= 0 {
		return Outcome{Kind: Error, Cause: fmt.Errorf("poll %s: %w", cfg.Name, ErrIntervalNotPositive)}
	}
	if cfg.MaxAttempts <= 0 {
		return Outcome{Kind: Error, Cause: fmt.Errorf("poll %s: %w", cfg.Name, ErrMaxAttemptsNotPositive)}
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	var phase corev1.PodPhase
	for attempt := 1; ; attempt++ {
		left := cfg.MaxAttempts - attempt

		if err := ctx.Err(); err != nil {
			return Outcome{Kind: Error, Phase: phase, Attempts: attempt - 1, AttemptsLeft: left + 1,
				Cause: fmt.Errorf("poll %s: %w", cfg.Name, context.Cause(ctx))}
		}

		got, err := sample(ctx)
		if err != nil {
			return Outcome{Kind: Error, Phase: phase, Attempts: attempt, AttemptsLeft: left,
				Cause: fmt.Errorf("poll %s: %w", cfg.Name, err)}
		}
		phase = got

		switch {
		case phase == target:
			log.Debug("target phase reached", "name", cfg.Name, "phase", phase, "attempt", attempt)
			return Outcome{Kind: Reached, Phase: phase, Attempts: attempt, AttemptsLeft: left}
		case slices.Contains(failPhases, phase):
			return Outcome{Kind: Error, Phase: phase, Attempts: attempt, AttemptsLeft: left,
				Cause: fmt.Errorf("poll %s: %w: %s", cfg.Name, ErrTerminalPhase, phase)}
		case left == 0:
			return Outcome{Kind: StillPending, Phase: phase, Attempts: attempt}
		}

		log.Debug("waiting for phase", "name", cfg.Name, "phase", phaseOrNone(phase), "target", target,
			"attempt", attempt, "left", left)

		timer := clk.NewTimer(cfg.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Outcome{Kind: Error, Phase: phase, Attempts: attempt, AttemptsLeft: left,
				Cause: fmt.Errorf("poll %s: %w", cfg.Name, context.Cause(ctx))}
		case <-timer.C():
		}
	}
}
