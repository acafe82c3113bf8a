package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/StephaneRenouard/virtual-dataframe/internal/cluster"
	"github.com/StephaneRenouard/virtual-dataframe/internal/gateway"
	"github.com/StephaneRenouard/virtual-dataframe/internal/lock"
	"github.com/StephaneRenouard/virtual-dataframe/internal/manifest"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
)

// Aliases that let the public package depend on lifecycle alone.
type (
	DeploymentConfig = manifest.DeploymentConfig
	Streams          = gateway.Streams
)

// Connect checks that the API server behind restCfg answers and returns a
// Cluster bound to namespace together with the server version. Every
// failure wraps ErrPrecondition.
func Connect(restCfg *rest.Config, namespace string, log *slog.Logger) (Cluster, string, error) {
	kube, err := kubernetes.NewForConfig(restCfg)
	if err != nil {
		return nil, "", fmt.Errorf("%w: create client: %w", ErrPrecondition, err)
	}
	version, err := cluster.Ping(kube.Discovery())
	if err != nil {
		return nil, "", err
	}
	gw, err := gateway.NewForConfig(restCfg, namespace, log)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrPrecondition, err)
	}
	return gw, version, nil
}

// LockNamespace takes the operator lock for namespace on the cluster at host.
// The lock files live under dir.
func LockNamespace(ctx context.Context, dir, host, namespace string, wait time.Duration, log *slog.Logger) (*lock.Lock, error) {
	return lock.Acquire(ctx, lock.Path(dir, host, namespace), wait, log)
}
