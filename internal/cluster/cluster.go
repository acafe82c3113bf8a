// Package cluster loads the operator's kubeconfig and checks that the
// cluster is reachable before any command runs.
package cluster

import (
	"fmt"
	"time"

	"github.com/StephaneRenouard/virtual-dataframe/internal/sentinel"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// ErrPrecondition is wrapped by every error caused by a missing or
// unusable cluster configuration.
const ErrPrecondition = sentinel.Error("cluster is not configured")

// Settings selects the kubeconfig to load. Empty fields fall back to the
// standard kubectl lookup (KUBECONFIG, ~/.kube/config, in-cluster).
type Settings struct {
	Kubeconfig string
	Context    string
	Namespace  string

	// Timeout applies to every API request. Zero means no timeout.
	Timeout time.Duration
}

// Connection is a loaded cluster configuration.
type Connection struct {
	Config *rest.Config

	// Namespace is Settings.Namespace if set, otherwise the namespace of
	// the selected kubeconfig context. Empty if neither is set.
	Namespace string
}

// Load resolves s into a REST config and a namespace.
func Load(s Settings) (Connection, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if s.Kubeconfig != "" {
		rules.ExplicitPath = s.Kubeconfig
	}
	overrides := &clientcmd.ConfigOverrides{CurrentContext: s.Context}
	loader := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides)

	cfg, err := loader.ClientConfig()
	if err != nil {
		return Connection{}, fmt.Errorf("%w: load kubeconfig: %w", ErrPrecondition, err)
	}
	cfg.Timeout = s.Timeout

	ns := s.Namespace
	if ns == "" {
		ns, err = contextNamespace(loader, s.Context)
		if err != nil {
			return Connection{}, err
		}
	}

	return Connection{Config: cfg, Namespace: ns}, nil
}

// contextNamespace returns the namespace of the named context, or of the
// current context when name is empty. Empty if the context sets none.
func contextNamespace(loader clientcmd.ClientConfig, name string) (string, error) {
	raw, err := loader.RawConfig()
	if err != nil {
		return "", fmt.Errorf("%w: resolve namespace: %w", ErrPrecondition, err)
	}
	if name == "" {
		name = raw.CurrentContext
	}
	kubeCtx, ok := raw.Contexts[name]
	if !ok || kubeCtx == nil {
		return "", nil
	}
	return kubeCtx.Namespace, nil
}

// Ping asks the API server for its version. Any failure means the cluster
// is unreachable or the credentials are rejected.
func Ping(v discovery.ServerVersionInterface) (string, error) {
	info, err := v.ServerVersion()
	if err != nil {
		return "", fmt.Errorf("%w: cluster unreachable: %w", ErrPrecondition, err)
	}
	return info.GitVersion, nil
}
