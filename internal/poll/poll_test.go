package poll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/utils/clock"
)

// instantClock fires every timer immediately and records the requested
// durations, so the loop runs without real delays.
type instantClock struct {
	clock.RealClock

	mu    sync.Mutex
	waits []time.Duration
}

func (c *instantClock) NewTimer(d time.Duration) clock.Timer {
	c.mu.Lock()
	c.waits = append(c.waits, d)
	c.mu.Unlock()

	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return &instantTimer{ch: ch}
}

func (c *instantClock) Waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.waits...)
}

type instantTimer struct {
	ch chan time.Time
}

func (t *instantTimer) C() <-chan time.Time        { return t.ch }
func (t *instantTimer) Stop() bool                 { return true }
func (t *instantTimer) Reset(_ time.Duration) bool { return true }

// scriptedSampler returns phases[i] on call i and repeats the last phase
// once the script runs out.
type scriptedSampler struct {
	phases []corev1.PodPhase
	calls  int
}

func (s *scriptedSampler) sample(_ context.Context) (corev1.PodPhase, error) {
	idx := min(s.calls, len(s.phases)-1)
	s.calls++
	return s.phases[idx], nil
}

func testConfig(clk clock.Clock, attempts int) Config {
	return Config{Interval: time.Second, MaxAttempts: attempts, Name: "pod/test", Clock: clk}
}

func pendingThen(n int, last corev1.PodPhase) []corev1.PodPhase {
	phases := make([]corev1.PodPhase, n)
	for i := range phases {
		phases[i] = corev1.PodPending
	}
	phases[n-1] = last
	return phases
}

func TestUntilReachedAfterExactlyNSamples(t *testing.T) {
	t.Parallel()

	const maxAttempts = 10
	for _, n := range []int{1, 2, 5, maxAttempts} {
		clk := &instantClock{}
		s := &scriptedSampler{phases: pendingThen(n, corev1.PodSucceeded)}

		out := Until(context.Background(), testConfig(clk, maxAttempts), s.sample, corev1.PodSucceeded,
			corev1.PodFailed, corev1.PodUnknown)

		if out.Kind != Reached {
			t.Fatalf("n=%d: kind = %s, want Reached (cause %v)", n, out.Kind, out.Cause)
		}
		if s.calls != n || out.Attempts != n {
			t.Errorf("n=%d: sampled %d times (outcome says %d), want %d", n, s.calls, out.Attempts, n)
		}
		if out.AttemptsLeft != maxAttempts-n {
			t.Errorf("n=%d: AttemptsLeft = %d, want %d", n, out.AttemptsLeft, maxAttempts-n)
		}
		if got := len(clk.Waits()); got != n-1 {
			t.Errorf("n=%d: waited %d times, want %d", n, got, n-1)
		}
		if out.Err() != nil {
			t.Errorf("n=%d: Err() = %v, want nil", n, out.Err())
		}
	}
}

func TestUntilFailPhaseStopsAfterOneSample(t *testing.T) {
	t.Parallel()

	for _, phase := range []corev1.PodPhase{corev1.PodFailed, corev1.PodUnknown} {
		clk := &instantClock{}
		s := &scriptedSampler{phases: []corev1.PodPhase{phase}}

		out := Until(context.Background(), testConfig(clk, 10), s.sample, corev1.PodSucceeded,
			corev1.PodFailed, corev1.PodUnknown)

		if out.Kind != Error {
			t.Fatalf("%s: kind = %s, want Error", phase, out.Kind)
		}
		if s.calls != 1 {
			t.Errorf("%s: sampled %d times, want 1", phase, s.calls)
		}
		if !errors.Is(out.Err(), ErrTerminalPhase) {
			t.Errorf("%s: Err() = %v, want ErrTerminalPhase", phase, out.Err())
		}
		if len(clk.Waits()) != 0 {
			t.Errorf("%s: waited after a terminal phase", phase)
		}
	}
}

func TestUntilStillPendingAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	clk := &instantClock{}
	s := &scriptedSampler{phases: []corev1.PodPhase{corev1.PodPending}}

	out := Until(context.Background(), testConfig(clk, 7), s.sample, corev1.PodRunning, corev1.PodFailed)

	if out.Kind != StillPending {
		t.Fatalf("kind = %s, want StillPending", out.Kind)
	}
	if s.calls != 7 {
		t.Errorf("sampled %d times, want 7", s.calls)
	}
	if out.AttemptsLeft != 0 || out.Phase != corev1.PodPending {
		t.Errorf("outcome = %+v", out)
	}
	if !errors.Is(out.Err(), ErrReadinessTimeout) {
		t.Errorf("Err() = %v, want ErrReadinessTimeout", out.Err())
	}
	waits := clk.Waits()
	if len(waits) != 6 {
		t.Errorf("waited %d times, want 6", len(waits))
	}
	for _, d := range waits {
		if d != time.Second {
			t.Errorf("waited %v, want the configured interval", d)
		}
	}
}

func TestUntilSamplerErrorAbortsImmediately(t *testing.T) {
	t.Parallel()

	errTransport := errors.New("connection refused")
	calls := 0
	sample := func(context.Context) (corev1.PodPhase, error) {
		calls++
		return "", errTransport
	}

	out := Until(context.Background(), testConfig(&instantClock{}, 5), sample, corev1.PodRunning)
	if out.Kind != Error || calls != 1 {
		t.Fatalf("kind = %s after %d calls, want Error after 1", out.Kind, calls)
	}
	if !errors.Is(out.Err(), errTransport) {
		t.Errorf("Err() = %v, want the sampler error", out.Err())
	}
}

func TestUntilCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	sample := func(context.Context) (corev1.PodPhase, error) {
		calls++
		cancel()
		return corev1.PodPending, nil
	}

	// A real clock with a long interval: the loop must return on cancel
	// without waiting for the timer.
	cfg := Config{Interval: time.Hour, MaxAttempts: 5, Name: "pod/test"}
	start := time.Now()
	out := Until(ctx, cfg, sample, corev1.PodRunning)

	if time.Since(start) > 5*time.Second {
		t.Fatal("Until did not honor cancellation promptly")
	}
	if out.Kind != Error || !errors.Is(out.Err(), context.Canceled) {
		t.Fatalf("outcome = %+v, want Error wrapping context.Canceled", out)
	}
	if calls != 1 {
		t.Errorf("sampled %d times, want 1", calls)
	}
}

func TestUntilAlreadyCanceledDoesNotSample(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := Until(ctx, testConfig(&instantClock{}, 3), func(context.Context) (corev1.PodPhase, error) {
		t.Fatal("sampler called with a canceled context")
		return "", nil
	}, corev1.PodRunning)

	if out.Kind != Error || out.Attempts != 0 {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestUntilInvalidConfig(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cfg  Config
		want error
	}{
		"zero interval":     {cfg: Config{Interval: 0, MaxAttempts: 1}, want: ErrIntervalNotPositive},
		"negative interval": {cfg: Config{Interval: -time.Second, MaxAttempts: 1}, want: ErrIntervalNotPositive},
		"zero attempts":     {cfg: Config{Interval: time.Second}, want: ErrMaxAttemptsNotPositive},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			out := Until(context.Background(), tc.cfg, func(context.Context) (corev1.PodPhase, error) {
				t.Fatal("sampler should not be called with an invalid config")
				return "", nil
			}, corev1.PodRunning)
			if !errors.Is(out.Err(), tc.want) {
				t.Errorf("Err() = %v, want %v", out.Err(), tc.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	tests := map[Kind]string{Reached: "Reached", StillPending: "StillPending", Error: "Error", Kind(9): "Kind(9)"}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
