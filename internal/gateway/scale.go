package gateway

import (
	"context"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"
)

// defaultReplicas is what the API server assumes when spec.replicas is unset.
const defaultReplicas = 1

// Replicas returns the desired replica count of the toolkit deployment.
// A missing deployment returns an error wrapping ErrNotFound.
func (g *Gateway) Replicas(ctx context.Context, name string) (int32, error) {
	ri, _, err := g.resourceFor(deploymentGVK)
	if err != nil {
		return 0, fmt.Errorf("get deployment %s: %w", name, err)
	}

	obj, err := ri.Get(ctx, name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return 0, fmt.Errorf("get deployment %s: %w: %w", name, ErrNotFound, err)
	}
	if err != nil {
		return 0, fmt.Errorf("get deployment %s: %w", name, err)
	}

	replicas, found, err := unstructured.NestedInt64(obj.Object, "spec", "replicas")
	if err != nil {
		return 0, fmt.Errorf("read deployment %s replicas: %w", name, err)
	}
	if !found {
		return defaultReplicas, nil
	}
	return int32(replicas), nil //nolint:gosec // replicas is an int32 field in the API
}

// Scale sets the desired replica count of the toolkit deployment.
func (g *Gateway) Scale(ctx context.Context, name string, replicas int32) error {
	ri, _, err := g.resourceFor(deploymentGVK)
	if err != nil {
		return fmt.Errorf("scale deployment %s: %w", name, err)
	}

	patch := fmt.Appendf(nil, `{"spec":{"replicas":%d}}`, replicas)
	if _, err := ri.Patch(ctx, name, types.MergePatchType, patch, metav1.PatchOptions{}); err != nil {
		if apierrors.IsNotFound(err) {
			return fmt.Errorf("scale deployment %s: %w: %w", name, ErrNotFound, err)
		}
		return fmt.Errorf("scale deployment %s: %w", name, err)
	}

	g.log.Debug("scaled deployment", "name", name, "replicas", replicas)
	return nil
}
