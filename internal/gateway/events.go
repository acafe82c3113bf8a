package gateway

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/StephaneRenouard/virtual-dataframe/internal/manifest"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/fields"
)

// Events returns the events recorded for the object identified by h, oldest
// first.
func (g *Gateway) Events(ctx context.Context, h manifest.Handle) ([]corev1.Event, error) {
	selector := fields.AndSelectors(
		fields.OneTermEqualSelector("involvedObject.kind", h.Kind),
		fields.OneTermEqualSelector("involvedObject.name", h.Name),
	)
	list, err := g.kube.CoreV1().Events(g.namespace).List(ctx, metav1.ListOptions{FieldSelector: selector.String()})
	if err != nil {
		return nil, fmt.Errorf("list events for %s: %w", h, err)
	}

	// Not every client honors field selectors, so filter again.
	events := slices.DeleteFunc(list.Items, func(e corev1.Event) bool {
		return e.InvolvedObject.Kind != h.Kind || e.InvolvedObject.Name != h.Name
	})
	slices.SortStableFunc(events, func(a, b corev1.Event) int {
		return eventTime(a).Compare(eventTime(b))
	})
	return events, nil
}

func eventTime(e corev1.Event) time.Time {
	switch {
	case !e.LastTimestamp.IsZero():
		return e.LastTimestamp.Time
	case !e.EventTime.IsZero():
		return e.EventTime.Time
	default:
		return e.CreationTimestamp.Time
	}
}
