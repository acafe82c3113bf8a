package gateway

import (
	"context"
	"fmt"

	"github.com/StephaneRenouard/virtual-dataframe/internal/manifest"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Delete removes the objects identified by handles, in order. Objects that
// do not exist are skipped. Pods are deleted with a zero grace period so a
// pod with the same name can be created right after; installer pods are
// one-shot and have nothing to drain.
func (g *Gateway) Delete(ctx context.Context, handles ...manifest.Handle) error {
	background := metav1.DeletePropagationBackground
	for _, h := range handles {
		ri, err := g.handleResource(h)
		if err != nil {
			return fmt.Errorf("delete %s: %w", h, err)
		}

		opts := metav1.DeleteOptions{PropagationPolicy: &background}
		if h.Kind == podGVK.Kind {
			var zero int64
			opts.GracePeriodSeconds = &zero
		}

		err = ri.Delete(ctx, h.Name, opts)
		switch {
		case err == nil:
			g.log.Debug("deleted resource", "handle", h.String())
		case apierrors.IsNotFound(err):
			g.log.Debug("resource already absent", "handle", h.String())
		default:
			return fmt.Errorf("delete %s: %w", h, err)
		}
	}
	return nil
}
