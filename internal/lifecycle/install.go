package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/StephaneRenouard/virtual-dataframe/internal/manifest"
	"github.com/StephaneRenouard/virtual-dataframe/internal/poll"
	corev1 "k8s.io/api/core/v1"
)

// Install deploys the toolkit described by cfg. It removes any stale
// installer objects, applies a fresh install bundle, waits for the installer
// pod to succeed and then for a workload pod to run. Once the toolkit runs,
// the installer objects are removed so the cluster-admin binding does not
// outlive the install.
//
// On a readiness failure the installer logs and events are written to the
// diagnostics writer and the poll error is returned. The installer objects
// are then kept for inspection.
func (o *Orchestrator) Install(ctx context.Context, cfg manifest.DeploymentConfig) error {
	cfg = cfg.WithAction(manifest.ActionInstall)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("install %s: %w", cfg.Name, err)
	}
	log := o.log.With("release", cfg.Name, "action", cfg.Action)

	if err := o.runInstaller(ctx, cfg, log); err != nil {
		return fmt.Errorf("install %s: %w", cfg.Name, err)
	}

	log.Info("waiting for toolkit pod")
	if err := o.awaitWorkload(ctx, cfg.Name, manifest.InstallerPod(cfg), log); err != nil {
		return fmt.Errorf("install %s: %w", cfg.Name, err)
	}

	if err := o.cluster.Delete(ctx, manifest.InstallerHandles(cfg)...); err != nil {
		log.Warn("failed to remove installer objects", "error", err)
	}

	log.Info("toolkit installed", "image", cfg.ImageRef())
	return nil
}

// Uninstall removes the toolkit described by cfg. It runs a cleanup
// installer pod to completion and then deletes the installer objects.
// Uninstalling an absent toolkit succeeds.
//
// A failure to delete the installer objects after a successful cleanup is
// logged and not returned: the toolkit itself is gone, and the next install
// or uninstall removes the leftovers first.
func (o *Orchestrator) Uninstall(ctx context.Context, cfg manifest.DeploymentConfig) error {
	cfg = cfg.WithAction(manifest.ActionCleanup)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("uninstall %s: %w", cfg.Name, err)
	}
	log := o.log.With("release", cfg.Name, "action", cfg.Action)

	if err := o.runInstaller(ctx, cfg, log); err != nil {
		return fmt.Errorf("uninstall %s: %w", cfg.Name, err)
	}

	if err := o.cluster.Delete(ctx, manifest.InstallerHandles(cfg)...); err != nil {
		log.Warn("failed to remove installer objects", "error", err)
	}

	log.Info("toolkit uninstalled")
	return nil
}

// runInstaller replaces the installer objects of cfg with a freshly rendered
// bundle and waits for the installer pod to succeed.
func (o *Orchestrator) runInstaller(ctx context.Context, cfg manifest.DeploymentConfig, log *slog.Logger) error {
	if err := o.cluster.Delete(ctx, manifest.InstallerHandles(cfg)...); err != nil {
		return fmt.Errorf("remove stale installer: %w", err)
	}

	bundle := manifest.Render(cfg)
	log.Debug("applying installer bundle", "objects", bundle.Len())
	if err := o.cluster.Apply(ctx, bundle); err != nil {
		return err
	}

	pod := manifest.InstallerPod(cfg)
	log.Info("waiting for installer", "pod", pod.Name)
	out := poll.Until(ctx, o.pollConfig(pod.Name, log),
		func(ctx context.Context) (corev1.PodPhase, error) {
			return o.cluster.Phase(ctx, pod)
		},
		corev1.PodSucceeded, corev1.PodFailed, corev1.PodUnknown)
	if out.Kind != poll.Reached {
		o.diagnose(ctx, pod, log)
		return fmt.Errorf("installer %s: %w", pod.Name, out.Err())
	}
	return nil
}

// awaitWorkload waits for the newest workload pod of release to run. A
// missing pod counts as pending: the deployment may not have created it yet.
// On failure the installer pod is diagnosed when installer is set, followed
// by the last workload pod seen, if any.
func (o *Orchestrator) awaitWorkload(ctx context.Context, release string, installer manifest.Handle, log *slog.Logger) error {
	var last manifest.Handle
	out := poll.Until(ctx, o.pollConfig(release, log),
		func(ctx context.Context) (corev1.PodPhase, error) {
			h, phase, err := o.cluster.WorkloadPod(ctx, release)
			if errors.Is(err, ErrNotFound) {
				return corev1.PodPending, nil
			}
			if err != nil {
				return "", err
			}
			last = h
			return phase, nil
		},
		corev1.PodRunning, corev1.PodSucceeded, corev1.PodFailed, corev1.PodUnknown)
	if out.Kind == poll.Reached {
		return nil
	}
	if installer.Name != "" {
		o.diagnose(ctx, installer, log)
	}
	if last.Name != "" {
		o.diagnose(ctx, last, log)
	}
	return fmt.Errorf("toolkit pod: %w", out.Err())
}
