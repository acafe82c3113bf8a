package manifest

import (
	"strings"
	"testing"
)

func TestActionString(t *testing.T) {
	t.Parallel()

	tests := map[Action]string{
		ActionInstall: "install",
		ActionCleanup: "cleanup",
		Action(42):    "Action(42)",
	}
	for a, want := range tests {
		if got := a.String(); got != want {
			t.Errorf("Action(%d).String() = %q, want %q", int(a), got, want)
		}
	}
	if Action(42).IsValid() {
		t.Error("Action(42).IsValid() = true")
	}
}

func TestDeploymentConfigValidate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mutate  func(*DeploymentConfig)
		wantErr string
	}{
		"defaults":       {mutate: func(*DeploymentConfig) {}},
		"empty name":     {mutate: func(c *DeploymentConfig) { c.Name = "" }, wantErr: "name"},
		"bad namespace":  {mutate: func(c *DeploymentConfig) { c.Namespace = "Not_Valid" }, wantErr: "namespace"},
		"empty image":    {mutate: func(c *DeploymentConfig) { c.Image = "" }, wantErr: "image must not be empty"},
		"empty tag":      {mutate: func(c *DeploymentConfig) { c.Tag = "" }, wantErr: "tag must not be empty"},
		"zero app port":  {mutate: func(c *DeploymentConfig) { c.AppPort = 0 }, wantErr: "app port"},
		"huge ds port":   {mutate: func(c *DeploymentConfig) { c.DaemonSetPort = 70000 }, wantErr: "daemonset port"},
		"unknown action": {mutate: func(c *DeploymentConfig) { c.Action = Action(7) }, wantErr: "invalid action"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error = %v, want it to contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestWithActionLeavesOriginalUntouched(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cleanup := cfg.WithAction(ActionCleanup)
	if cfg.Action != ActionInstall || cleanup.Action != ActionCleanup {
		t.Errorf("WithAction mutated the receiver: %v / %v", cfg.Action, cleanup.Action)
	}
}

func TestWorkloadSelector(t *testing.T) {
	t.Parallel()

	got := WorkloadSelector("toolkit")
	want := "app.kubernetes.io/instance=toolkit,app.kubernetes.io/name=toolkit"
	if got != want {
		t.Errorf("WorkloadSelector = %q, want %q", got, want)
	}
}
