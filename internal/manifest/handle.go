package manifest

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Handle identifies a live cluster object.
type Handle struct {
	APIVersion string
	Kind       string
	Name       string
	Namespace  string // empty for cluster-scoped objects
}

// GroupVersionKind parses APIVersion and Kind.
func (h Handle) GroupVersionKind() schema.GroupVersionKind {
	return schema.FromAPIVersionAndKind(h.APIVersion, h.Kind)
}

// IsClusterScoped reports whether the handle has no namespace.
func (h Handle) IsClusterScoped() bool {
	return h.Namespace == ""
}

// String returns "kind/name" or "kind/namespace/name".
func (h Handle) String() string {
	kind := strings.ToLower(h.Kind)
	if h.IsClusterScoped() {
		return fmt.Sprintf("%s/%s", kind, h.Name)
	}
	return fmt.Sprintf("%s/%s/%s", kind, h.Namespace, h.Name)
}

// InstallerPodName returns the name of the one-shot installer pod.
func InstallerPodName(release string) string {
	return release + "-installer"
}

// InstallerPod returns the handle of the installer pod for cfg.
func InstallerPod(cfg DeploymentConfig) Handle {
	return Handle{APIVersion: "v1", Kind: "Pod", Name: InstallerPodName(cfg.Name), Namespace: cfg.Namespace}
}

// InstallerHandles returns the handles of every installer object for cfg, in
// the order they are applied. The action does not affect the result.
func InstallerHandles(cfg DeploymentConfig) []Handle {
	return Render(cfg).Handles()
}
