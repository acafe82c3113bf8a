package manifest

import "k8s.io/apimachinery/pkg/labels"

// Standard Kubernetes label keys.
const (
	LabelAppName      = "app.kubernetes.io/name"
	LabelAppInstance  = "app.kubernetes.io/instance"
	LabelAppComponent = "app.kubernetes.io/component"
	LabelAppManagedBy = "app.kubernetes.io/managed-by"
)

const (
	// AppName is the app.kubernetes.io/name of the toolkit workload pods.
	AppName = "toolkit"

	// InstallerAppName is the app.kubernetes.io/name of installer objects.
	// It differs from AppName so the workload selector never matches the
	// installer pod.
	InstallerAppName = "toolkit-installer"

	// ComponentInstaller marks the installer scaffolding.
	ComponentInstaller = "installer"

	// ManagedBy identifies objects created by this controller.
	ManagedBy = "toolkit-controller"
)

// installerLabels returns the labels set on every installer object.
func installerLabels(release string) map[string]string {
	return map[string]string{
		LabelAppName:      InstallerAppName,
		LabelAppInstance:  release,
		LabelAppComponent: ComponentInstaller,
		LabelAppManagedBy: ManagedBy,
	}
}

// WorkloadLabels returns the labels that identify the pods of the
// long-lived toolkit workload for a release.
func WorkloadLabels(release string) map[string]string {
	return map[string]string{
		LabelAppName:     AppName,
		LabelAppInstance: release,
	}
}

// WorkloadSelector returns WorkloadLabels as a label selector string.
func WorkloadSelector(release string) string {
	return labels.SelectorFromSet(WorkloadLabels(release)).String()
}
