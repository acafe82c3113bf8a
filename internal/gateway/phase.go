package gateway

import (
	"context"
	"fmt"

	"github.com/StephaneRenouard/virtual-dataframe/internal/manifest"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Phase returns the lifecycle phase of the pod identified by h. A pod that
// has no phase yet is reported as Pending. A missing pod returns an error
// wrapping ErrNotFound.
func (g *Gateway) Phase(ctx context.Context, h manifest.Handle) (corev1.PodPhase, error) {
	ri, err := g.handleResource(h)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", h, err)
	}

	obj, err := ri.Get(ctx, h.Name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return "", fmt.Errorf("get %s: %w: %w", h, ErrNotFound, err)
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", h, err)
	}
	return podPhase(obj), nil
}

// WorkloadPod returns the handle and phase of the newest live pod of the
// toolkit workload for release. Pods being deleted are ignored. Returns an
// error wrapping ErrNotFound when no such pod exists.
func (g *Gateway) WorkloadPod(ctx context.Context, release string) (manifest.Handle, corev1.PodPhase, error) {
	ri, _, err := g.resourceFor(podGVK)
	if err != nil {
		return manifest.Handle{}, "", fmt.Errorf("list workload pods: %w", err)
	}

	list, err := ri.List(ctx, metav1.ListOptions{LabelSelector: manifest.WorkloadSelector(release)})
	if err != nil {
		return manifest.Handle{}, "", fmt.Errorf("list workload pods: %w", err)
	}

	var newest *unstructured.Unstructured
	for idx := range list.Items {
		pod := &list.Items[idx]
		if pod.GetDeletionTimestamp() != nil {
			continue
		}
		if newest == nil || newest.GetCreationTimestamp().Time.Before(pod.GetCreationTimestamp().Time) {
			newest = pod
		}
	}
	if newest == nil {
		return manifest.Handle{}, "", fmt.Errorf("workload pod for %s: %w", release, ErrNotFound)
	}

	h := manifest.Handle{APIVersion: "v1", Kind: podGVK.Kind, Name: newest.GetName(), Namespace: g.namespace}
	return h, podPhase(newest), nil
}

// WorkloadPhase returns the phase of the pod WorkloadPod selects.
func (g *Gateway) WorkloadPhase(ctx context.Context, release string) (corev1.PodPhase, error) {
	_, phase, err := g.WorkloadPod(ctx, release)
	return phase, err
}

func podPhase(obj *unstructured.Unstructured) corev1.PodPhase {
	phase, _, _ := unstructured.NestedString(obj.Object, "status", "phase")
	if phase == "" {
		return corev1.PodPending
	}
	return corev1.PodPhase(phase)
}
