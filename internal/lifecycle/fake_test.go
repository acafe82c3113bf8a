package lifecycle

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/StephaneRenouard/virtual-dataframe/internal/gateway"
	"github.com/StephaneRenouard/virtual-dataframe/internal/manifest"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// fakeCluster is an in-memory Cluster. An installer pod walks through
// installerPhases, one per Phase call; when it reaches Succeeded the effect
// of its action is applied: install creates the deployment with one
// replica, cleanup removes it.
type fakeCluster struct {
	mu sync.Mutex

	objects map[manifest.Handle]bool

	installerPhases []corev1.PodPhase
	installerCalls  int
	pendingAction   string

	// replicas is nil while the toolkit is not installed.
	replicas       *int32
	workloadPhases []corev1.PodPhase
	workloadCalls  int

	applyErr error
	logs     []string
	events   []corev1.Event
	secrets  map[string]map[string][]byte

	applies []manifest.Bundle
	deletes [][]manifest.Handle
	scales  []int32
	execs   [][]string
}

func newFakeCluster() *fakeCluster {
	return &fakeCluster{
		objects:         make(map[manifest.Handle]bool),
		installerPhases: []corev1.PodPhase{corev1.PodPending, corev1.PodRunning, corev1.PodSucceeded},
		workloadPhases:  []corev1.PodPhase{corev1.PodRunning},
		secrets:         make(map[string]map[string][]byte),
	}
}

// installed puts the cluster into the state a successful install leaves.
func (f *fakeCluster) installed(replicas int32) *fakeCluster {
	f.replicas = &replicas
	return f
}

func (f *fakeCluster) Apply(_ context.Context, bundle manifest.Bundle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applies = append(f.applies, bundle)
	if f.applyErr != nil {
		return f.applyErr
	}
	for _, h := range bundle.Handles() {
		f.objects[h] = true
	}
	f.installerCalls = 0
	f.pendingAction = bundleAction(bundle)
	return nil
}

func (f *fakeCluster) Delete(_ context.Context, handles ...manifest.Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, slices.Clone(handles))
	for _, h := range handles {
		delete(f.objects, h)
	}
	return nil
}

func (f *fakeCluster) Phase(_ context.Context, h manifest.Handle) (corev1.PodPhase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.objects[h] {
		return "", fmt.Errorf("%s: %w", h, gateway.ErrNotFound)
	}
	phase := f.installerPhases[min(f.installerCalls, len(f.installerPhases)-1)]
	f.installerCalls++
	if phase == corev1.PodSucceeded {
		switch f.pendingAction {
		case manifest.ActionInstall.String():
			one := int32(1)
			f.replicas = &one
		case manifest.ActionCleanup.String():
			f.replicas = nil
		}
		f.pendingAction = ""
	}
	return phase, nil
}

func (f *fakeCluster) WorkloadPod(_ context.Context, release string) (manifest.Handle, corev1.PodPhase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.replicas == nil || *f.replicas == 0 {
		return manifest.Handle{}, "", fmt.Errorf("pod of %s: %w", release, gateway.ErrNotFound)
	}
	phase := f.workloadPhases[min(f.workloadCalls, len(f.workloadPhases)-1)]
	f.workloadCalls++
	h := manifest.Handle{APIVersion: "v1", Kind: "Pod", Name: release + "-7d9f8-x2k4p", Namespace: "toolkit"}
	return h, phase, nil
}

func (f *fakeCluster) Replicas(_ context.Context, name string) (int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.replicas == nil {
		return 0, fmt.Errorf("deployment %s: %w", name, gateway.ErrNotFound)
	}
	return *f.replicas, nil
}

func (f *fakeCluster) Scale(_ context.Context, name string, replicas int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.replicas == nil {
		return fmt.Errorf("deployment %s: %w", name, gateway.ErrNotFound)
	}
	f.scales = append(f.scales, replicas)
	f.replicas = &replicas
	return nil
}

func (f *fakeCluster) StreamLogs(_ context.Context, _ manifest.Handle, _ bool) iter.Seq2[string, error] {
	f.mu.Lock()
	lines := slices.Clone(f.logs)
	f.mu.Unlock()
	return func(yield func(string, error) bool) {
		for _, l := range lines {
			if !yield(l, nil) {
				return
			}
		}
	}
}

func (f *fakeCluster) Events(_ context.Context, _ manifest.Handle) ([]corev1.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.events), nil
}

func (f *fakeCluster) SecretValue(_ context.Context, name, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.secrets[name][key]
	if !ok {
		return nil, fmt.Errorf("secret %s key %s: %w", name, key, gateway.ErrNotFound)
	}
	return v, nil
}

func (f *fakeCluster) Exec(_ context.Context, _ manifest.Handle, command []string, _ gateway.Streams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execs = append(f.execs, slices.Clone(command))
	return nil
}

// installerObjects returns the number of installer objects present.
func (f *fakeCluster) installerObjects() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// bundleAction returns the ACTION env var of the bundle's installer pod.
func bundleAction(b manifest.Bundle) string {
	for _, obj := range b.Objects() {
		if obj.GetKind() != "Pod" {
			continue
		}
		containers, _, _ := unstructured.NestedSlice(obj.Object, "spec", "containers")
		for _, c := range containers {
			env, _, _ := unstructured.NestedSlice(c.(map[string]any), "env")
			for _, e := range env {
				m := e.(map[string]any)
				if m["name"] == manifest.EnvAction {
					v, _ := m["value"].(string)
					return v
				}
			}
		}
	}
	return ""
}
