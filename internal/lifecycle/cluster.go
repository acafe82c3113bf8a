package lifecycle

import (
	"context"
	"iter"

	"github.com/StephaneRenouard/virtual-dataframe/internal/gateway"
	"github.com/StephaneRenouard/virtual-dataframe/internal/manifest"
	corev1 "k8s.io/api/core/v1"
)

// Cluster is the control-plane surface the orchestrator drives. It is
// satisfied by *gateway.Gateway; tests substitute an in-memory cluster.
type Cluster interface {
	Apply(ctx context.Context, bundle manifest.Bundle) error
	Delete(ctx context.Context, handles ...manifest.Handle) error
	Phase(ctx context.Context, h manifest.Handle) (corev1.PodPhase, error)
	WorkloadPod(ctx context.Context, release string) (manifest.Handle, corev1.PodPhase, error)
	Replicas(ctx context.Context, name string) (int32, error)
	Scale(ctx context.Context, name string, replicas int32) error
	StreamLogs(ctx context.Context, h manifest.Handle, follow bool) iter.Seq2[string, error]
	Events(ctx context.Context, h manifest.Handle) ([]corev1.Event, error)
	SecretValue(ctx context.Context, name, key string) ([]byte, error)
	Exec(ctx context.Context, h manifest.Handle, command []string, streams gateway.Streams) error
}

var _ Cluster = (*gateway.Gateway)(nil)
