package cluster

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/version"
	fakediscovery "k8s.io/client-go/discovery/fake"
	kubefake "k8s.io/client-go/kubernetes/fake"
	clienttesting "k8s.io/client-go/testing"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

// writeKubeconfig writes a kubeconfig with two contexts and returns its path.
func writeKubeconfig(t *testing.T) string {
	t.Helper()

	cfg := clientcmdapi.NewConfig()
	cfg.Clusters["dev"] = &clientcmdapi.Cluster{Server: "https://dev.example:6443"}
	cfg.Clusters["prod"] = &clientcmdapi.Cluster{Server: "https://prod.example:6443"}
	cfg.AuthInfos["operator"] = &clientcmdapi.AuthInfo{Token: "token"}
	cfg.Contexts["dev"] = &clientcmdapi.Context{Cluster: "dev", AuthInfo: "operator", Namespace: "toolkit-dev"}
	cfg.Contexts["prod"] = &clientcmdapi.Context{Cluster: "prod", AuthInfo: "operator"}
	cfg.CurrentContext = "dev"

	path := filepath.Join(t.TempDir(), "kubeconfig")
	if err := clientcmd.WriteToFile(*cfg, path); err != nil {
		t.Fatalf("write kubeconfig: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeKubeconfig(t)

	tests := map[string]struct {
		settings   Settings
		wantHost   string
		wantNS     string
		wantErrPre bool
	}{
		"current context": {
			settings: Settings{Kubeconfig: path, Timeout: time.Second},
			wantHost: "https://dev.example:6443",
			wantNS:   "toolkit-dev",
		},
		"explicit context with namespace": {
			settings: Settings{Kubeconfig: path, Context: "dev"},
			wantHost: "https://dev.example:6443",
			wantNS:   "toolkit-dev",
		},
		"explicit context without namespace": {
			settings: Settings{Kubeconfig: path, Context: "prod"},
			wantHost: "https://prod.example:6443",
			wantNS:   "",
		},
		"namespace override": {
			settings: Settings{Kubeconfig: path, Namespace: "custom"},
			wantHost: "https://dev.example:6443",
			wantNS:   "custom",
		},
		"unknown context": {
			settings:   Settings{Kubeconfig: path, Context: "staging"},
			wantErrPre: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			conn, err := Load(tc.settings)
			if tc.wantErrPre {
				if !errors.Is(err, ErrPrecondition) {
					t.Fatalf("error = %v, want ErrPrecondition", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if conn.Config.Host != tc.wantHost {
				t.Errorf("host = %q, want %q", conn.Config.Host, tc.wantHost)
			}
			if conn.Namespace != tc.wantNS {
				t.Errorf("namespace = %q, want %q", conn.Namespace, tc.wantNS)
			}
			if conn.Config.Timeout != tc.settings.Timeout {
				t.Errorf("timeout = %v, want %v", conn.Config.Timeout, tc.settings.Timeout)
			}
		})
	}
}

func TestPing(t *testing.T) {
	t.Parallel()

	disc, ok := kubefake.NewClientset().Discovery().(*fakediscovery.FakeDiscovery)
	if !ok {
		t.Fatal("unexpected discovery type")
	}
	disc.FakedServerVersion = &version.Info{GitVersion: "v1.35.1"}

	got, err := Ping(disc)
	if err != nil || got != "v1.35.1" {
		t.Fatalf("Ping = %q, %v", got, err)
	}

	disc.PrependReactor("get", "version", func(clienttesting.Action) (bool, runtime.Object, error) {
		return true, nil, errors.New("dial tcp: connection refused")
	})
	if _, err := Ping(disc); !errors.Is(err, ErrPrecondition) {
		t.Fatalf("Ping error = %v, want ErrPrecondition", err)
	}
}
