package manifest

import (
	"fmt"
	"strconv"

	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
)

const (
	// clusterAdminRole is the ClusterRole granted to the installer identity.
	clusterAdminRole = "cluster-admin"

	// podInfoVolume is the downward API volume exposing the pod's labels.
	podInfoVolume = "podinfo"

	// PodInfoMountPath is where podInfoVolume is mounted in the installer.
	PodInfoMountPath = "/etc/podinfo"

	// PodInfoLabelsFile is the file (relative to PodInfoMountPath) that
	// holds the pod's labels.
	PodInfoLabelsFile = "labels"

	installerContainer = "installer"
)

// Installer environment variable names.
const (
	EnvDaemonSetMode   = "DAEMONSET_MODE"
	EnvDaemonSetPort   = "DAEMONSET_PORT"
	EnvAppPort         = "APP_PORT"
	EnvImage           = "IMAGE"
	EnvTag             = "TAG"
	EnvImagePullSecret = "IMAGE_PULLSECRET"
	EnvNamespace       = "PLATFORM_NAMESPACE"
	EnvReleaseName     = "RELEASE_NAME"
	EnvAction          = "ACTION"
	EnvIngressEnabled  = "INGRESS_ENABLED"
)

// Render builds the installer bundle for cfg: ServiceAccount,
// ClusterRoleBinding and Pod, in that order.
//
// cfg is expected to pass Validate; Render does not check it.
func Render(cfg DeploymentConfig) Bundle {
	sa := buildServiceAccount(cfg)
	crb := buildClusterRoleBinding(cfg, sa)
	pod := buildInstallerPod(cfg, sa)

	return Bundle{objects: []*unstructured.Unstructured{
		mustToUnstructured(sa),
		mustToUnstructured(crb),
		mustToUnstructured(pod),
	}}
}

func buildServiceAccount(cfg DeploymentConfig) *corev1.ServiceAccount {
	return &corev1.ServiceAccount{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "ServiceAccount"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      InstallerPodName(cfg.Name),
			Namespace: cfg.Namespace,
			Labels:    installerLabels(cfg.Name),
		},
	}
}

// buildClusterRoleBinding grants the installer identity cluster-admin. The
// binding is cluster-scoped, so its name includes the namespace to keep
// releases in different namespaces apart.
func buildClusterRoleBinding(cfg DeploymentConfig, sa *corev1.ServiceAccount) *rbacv1.ClusterRoleBinding {
	return &rbacv1.ClusterRoleBinding{
		TypeMeta: metav1.TypeMeta{APIVersion: rbacv1.SchemeGroupVersion.String(), Kind: "ClusterRoleBinding"},
		ObjectMeta: metav1.ObjectMeta{
			Name:   fmt.Sprintf("%s-%s", sa.Name, cfg.Namespace),
			Labels: installerLabels(cfg.Name),
		},
		RoleRef: rbacv1.RoleRef{
			APIGroup: rbacv1.GroupName,
			Kind:     "ClusterRole",
			Name:     clusterAdminRole,
		},
		Subjects: []rbacv1.Subject{{
			Kind:      rbacv1.ServiceAccountKind,
			Name:      sa.Name,
			Namespace: sa.Namespace,
		}},
	}
}

func buildInstallerPod(cfg DeploymentConfig, sa *corev1.ServiceAccount) *corev1.Pod {
	var pullSecrets []corev1.LocalObjectReference
	if cfg.ImagePullSecret != "" {
		pullSecrets = []corev1.LocalObjectReference{{Name: cfg.ImagePullSecret}}
	}

	return &corev1.Pod{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Pod"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      InstallerPodName(cfg.Name),
			Namespace: cfg.Namespace,
			Labels:    installerLabels(cfg.Name),
		},
		Spec: corev1.PodSpec{
			ServiceAccountName: sa.Name,
			RestartPolicy:      corev1.RestartPolicyNever,
			ImagePullSecrets:   pullSecrets,
			Containers: []corev1.Container{{
				Name:            installerContainer,
				Image:           cfg.ImageRef(),
				ImagePullPolicy: corev1.PullAlways,
				Env:             installerEnv(cfg),
				VolumeMounts: []corev1.VolumeMount{{
					Name:      podInfoVolume,
					MountPath: PodInfoMountPath,
					ReadOnly:  true,
				}},
			}},
			Volumes: []corev1.Volume{{
				Name: podInfoVolume,
				VolumeSource: corev1.VolumeSource{
					DownwardAPI: &corev1.DownwardAPIVolumeSource{
						Items: []corev1.DownwardAPIVolumeFile{{
							Path:     PodInfoLabelsFile,
							FieldRef: &corev1.ObjectFieldSelector{FieldPath: "metadata.labels"},
						}},
					},
				},
			}},
		},
	}
}

// installerEnv exposes every config field to the installer. Booleans use the
// True/False spelling the in-pod bootstrap expects.
func installerEnv(cfg DeploymentConfig) []corev1.EnvVar {
	return []corev1.EnvVar{
		{Name: EnvDaemonSetMode, Value: boolString(cfg.DaemonSetMode)},
		{Name: EnvDaemonSetPort, Value: strconv.Itoa(cfg.DaemonSetPort)},
		{Name: EnvAppPort, Value: strconv.Itoa(cfg.AppPort)},
		{Name: EnvImage, Value: cfg.Image},
		{Name: EnvTag, Value: cfg.Tag},
		{Name: EnvImagePullSecret, Value: cfg.ImagePullSecret},
		{Name: EnvNamespace, Value: cfg.Namespace},
		{Name: EnvReleaseName, Value: cfg.Name},
		{Name: EnvAction, Value: cfg.Action.String()},
		{Name: EnvIngressEnabled, Value: boolString(cfg.IngressEnabled)},
	}
}

func boolString(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// mustToUnstructured converts a typed API object. Conversion of the built-in
// types above cannot fail, so an error is a programming bug.
func mustToUnstructured(obj runtime.Object) *unstructured.Unstructured {
	content, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		panic(fmt.Sprintf("manifest: convert %T: %v", obj, err))
	}
	return &unstructured.Unstructured{Object: content}
}
