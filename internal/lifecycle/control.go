package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/StephaneRenouard/virtual-dataframe/internal/manifest"
	corev1 "k8s.io/api/core/v1"
)

// Status is a point-in-time view of an installed toolkit.
type Status struct {
	// Installed reports whether the toolkit deployment exists.
	Installed bool

	// Running reports whether the newest toolkit pod is in phase Running.
	Running bool

	// Replicas is the desired replica count of the deployment.
	Replicas int32

	// Pod and Phase describe the newest toolkit pod. Both are empty when no
	// pod exists.
	Pod   string
	Phase corev1.PodPhase
}

// Start scales the toolkit deployment to one replica and waits for its pod
// to run. A toolkit that is already running is left alone.
func (o *Orchestrator) Start(ctx context.Context, release string) error {
	log := o.log.With("release", release, "action", "start")

	replicas, err := o.replicas(ctx, release)
	if err != nil {
		return fmt.Errorf("start %s: %w", release, err)
	}

	if replicas > 0 {
		_, phase, err := o.cluster.WorkloadPod(ctx, release)
		switch {
		case err == nil && phase == corev1.PodRunning:
			log.Info("toolkit already running")
			return nil
		case err != nil && !errors.Is(err, ErrNotFound):
			return fmt.Errorf("start %s: %w", release, err)
		}
		log.Info("toolkit scaled up but not running yet", "replicas", replicas, "phase", phase)
	} else if err := o.cluster.Scale(ctx, release, 1); err != nil {
		return fmt.Errorf("start %s: %w", release, err)
	}

	if err := o.awaitWorkload(ctx, release, manifest.Handle{}, log); err != nil {
		return fmt.Errorf("start %s: %w", release, err)
	}
	log.Info("toolkit started")
	return nil
}

// Stop scales the toolkit deployment to zero replicas. It does not wait for
// the pod to terminate. A stopped toolkit is left alone.
func (o *Orchestrator) Stop(ctx context.Context, release string) error {
	log := o.log.With("release", release, "action", "stop")

	replicas, err := o.replicas(ctx, release)
	if err != nil {
		return fmt.Errorf("stop %s: %w", release, err)
	}
	if replicas == 0 {
		log.Info("toolkit already stopped")
		return nil
	}

	if err := o.cluster.Scale(ctx, release, 0); err != nil {
		return fmt.Errorf("stop %s: %w", release, err)
	}
	log.Info("toolkit stopped")
	return nil
}

// Status reads the current state of the toolkit. It never mutates the
// cluster. An absent toolkit is reported as not installed, not as an error.
func (o *Orchestrator) Status(ctx context.Context, release string) (Status, error) {
	replicas, err := o.cluster.Replicas(ctx, release)
	if errors.Is(err, ErrNotFound) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("status %s: %w", release, err)
	}

	st := Status{Installed: true, Replicas: replicas}
	h, phase, err := o.cluster.WorkloadPod(ctx, release)
	switch {
	case errors.Is(err, ErrNotFound):
		return st, nil
	case err != nil:
		return Status{}, fmt.Errorf("status %s: %w", release, err)
	}
	st.Pod = h.Name
	st.Phase = phase
	st.Running = phase == corev1.PodRunning
	return st, nil
}

// replicas returns the desired replica count, mapping a missing deployment
// to ErrNotInstalled.
func (o *Orchestrator) replicas(ctx context.Context, release string) (int32, error) {
	n, err := o.cluster.Replicas(ctx, release)
	if errors.Is(err, ErrNotFound) {
		return 0, fmt.Errorf("%w: deployment %s not found", ErrNotInstalled, release)
	}
	return n, err
}

// runningPod returns the handle of the running toolkit pod.
func (o *Orchestrator) runningPod(ctx context.Context, release string) (manifest.Handle, error) {
	if _, err := o.replicas(ctx, release); err != nil {
		return manifest.Handle{}, err
	}
	h, phase, err := o.cluster.WorkloadPod(ctx, release)
	if errors.Is(err, ErrNotFound) {
		return manifest.Handle{}, fmt.Errorf("%w: no pod for %s", ErrNotRunning, release)
	}
	if err != nil {
		return manifest.Handle{}, err
	}
	if phase != corev1.PodRunning {
		return manifest.Handle{}, fmt.Errorf("%w: pod %s is %s", ErrNotRunning, h.Name, phase)
	}
	return h, nil
}
