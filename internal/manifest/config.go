package manifest

import (
	"errors"
	"fmt"

	"k8s.io/apimachinery/pkg/util/validation"
)

// Action selects what the installer pod does once it starts.
type Action int

const (
	// ActionInstall deploys the toolkit workload.
	ActionInstall Action = iota

	// ActionCleanup removes the toolkit workload and everything the
	// installer created for it.
	ActionCleanup
)

// IsValid reports whether a is a recognized Action value.
func (a Action) IsValid() bool {
	switch a {
	case ActionInstall, ActionCleanup:
		return true
	default:
		return false
	}
}

// String returns the value passed to the installer in the ACTION variable.
func (a Action) String() string {
	switch a {
	case ActionInstall:
		return "install"
	case ActionCleanup:
		return "cleanup"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Default values used by DefaultConfig.
const (
	DefaultName          = "toolkit"
	DefaultNamespace     = "toolkit"
	DefaultImage         = "quay.io/domino/cre"
	DefaultTag           = "latest"
	DefaultAppPort       = 8080
	DefaultDaemonSetPort = 8090
)

// DeploymentConfig describes one toolkit release. It is a plain value: copy
// it freely, and use the With* helpers to derive variants.
type DeploymentConfig struct {
	// Name is the release name. Installer objects are named after it.
	Name string

	// Namespace hosts the installer pod and the toolkit workload.
	Namespace string

	// Image and Tag form the image reference of both the installer pod
	// and the workload it deploys.
	Image string
	Tag   string

	// ImagePullSecret names an existing docker-registry secret in Namespace.
	// Empty means the images are public.
	ImagePullSecret string

	AppPort       int
	DaemonSetPort int

	// DaemonSetMode runs the toolkit agent on every node instead of a
	// single deployment replica.
	DaemonSetMode bool

	IngressEnabled bool

	Action Action
}

// DefaultConfig returns the configuration used when no overrides are given.
func DefaultConfig() DeploymentConfig {
	return DeploymentConfig{
		Name:           DefaultName,
		Namespace:      DefaultNamespace,
		Image:          DefaultImage,
		Tag:            DefaultTag,
		AppPort:        DefaultAppPort,
		DaemonSetPort:  DefaultDaemonSetPort,
		IngressEnabled: true,
		Action:         ActionInstall,
	}
}

// WithAction returns a copy of c with the given action.
func (c DeploymentConfig) WithAction(a Action) DeploymentConfig {
	c.Action = a
	return c
}

// ImageRef returns "image:tag".
func (c DeploymentConfig) ImageRef() string {
	return c.Image + ":" + c.Tag
}

// Validate returns all configuration errors joined together, or nil.
func (c DeploymentConfig) Validate() error {
	var errs []error

	for _, msg := range validation.IsDNS1123Label(c.Name) {
		errs = append(errs, fmt.Errorf("name %q: %s", c.Name, msg))
	}
	for _, msg := range validation.IsDNS1123Label(c.Namespace) {
		errs = append(errs, fmt.Errorf("namespace %q: %s", c.Namespace, msg))
	}
	if c.Image == "" {
		errs = append(errs, errors.New("image must not be empty"))
	}
	if c.Tag == "" {
		errs = append(errs, errors.New("tag must not be empty"))
	}
	for _, msg := range validation.IsValidPortNum(c.AppPort) {
		errs = append(errs, fmt.Errorf("app port %d: %s", c.AppPort, msg))
	}
	for _, msg := range validation.IsValidPortNum(c.DaemonSetPort) {
		errs = append(errs, fmt.Errorf("daemonset port %d: %s", c.DaemonSetPort, msg))
	}
	if !c.Action.IsValid() {
		errs = append(errs, fmt.Errorf("invalid action %s", c.Action))
	}

	return errors.Join(errs...)
}
