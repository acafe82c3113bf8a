package poll

import (
	"fmt"

	"github.com/StephaneRenouard/virtual-dataframe/internal/sentinel"
	corev1 "k8s.io/api/core/v1"
)

// ErrReadinessTimeout is returned when the attempt budget runs out before
// the target phase is observed.
const ErrReadinessTimeout = sentinel.Error("readiness timeout")

// ErrTerminalPhase is returned when a fail phase (e.g. Failed, Unknown) is
// observed. No further samples are taken after it.
const ErrTerminalPhase = sentinel.Error("terminal phase reached")

// Kind classifies an Outcome.
type Kind int

const (
	// Reached means the target phase was observed.
	Reached Kind = iota

	// StillPending means every attempt observed a non-target, non-fail phase.
	StillPending

	// Error means a fail phase was observed, the sampler failed, or the
	// context was canceled.
	Error
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Reached:
		return "Reached"
	case StillPending:
		return "StillPending"
	case Error:
		return "Error"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Outcome is the result of one Until call.
type Outcome struct {
	Kind Kind

	// Phase is the last phase sampled. Empty if the sampler never returned
	// a phase.
	Phase corev1.PodPhase

	// Attempts is the number of samples taken.
	Attempts int

	// AttemptsLeft is the remaining budget when the loop stopped.
	AttemptsLeft int

	// Cause is set for Kind == Error.
	Cause error
}

// Err converts the outcome into an error: nil for Reached,
// ErrReadinessTimeout for StillPending, and Cause for Error. Cause wraps
// ErrTerminalPhase when a fail phase was observed.
func (o Outcome) Err() error {
	switch o.Kind {
	case Reached:
		return nil
	case StillPending:
		return fmt.Errorf("%w: phase %s after %d attempts", ErrReadinessTimeout, phaseOrNone(o.Phase), o.Attempts)
	default:
		return o.Cause
	}
}

func phaseOrNone(p corev1.PodPhase) string {
	if p == "" {
		return "<none>"
	}
	return string(p)
}
