// Package toolkit installs and operates the toolkit workload in a Kubernetes
// namespace.
//
// A Controller renders a one-shot installer pod (with its service account
// and cluster role binding), applies it, and polls the cluster until the
// installer succeeds and the long-lived toolkit pod runs. Uninstall runs the
// same installer with the cleanup action. Start and Stop scale the toolkit
// deployment without touching any manifest.
//
// # Basic Usage
//
//	import "github.com/StephaneRenouard/virtual-dataframe/toolkit"
//
//	ctx := context.Background()
//
//	// restCfg is a *rest.Config, e.g. from clientcmd.
//	ctl := toolkit.New(restCfg,
//	    toolkit.WithNamespace("data-science"),
//	    toolkit.WithTag("1.4.2"),
//	)
//	if err := ctl.Initialize(ctx); err != nil {
//	    log.Fatal(err) // errors.Is(err, toolkit.ErrPrecondition)
//	}
//	if err := ctl.Install(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	st, err := ctl.Status(ctx)
//	// st.Installed, st.Running
//
// # State
//
// Nothing is stored between calls. Every operation reads the cluster, so a
// command interrupted half way can simply be run again: install and
// uninstall delete stale installer objects before applying new ones.
//
// # Concurrency
//
// Mutating operations (Install, Uninstall, Start, Stop) take an advisory
// file lock per cluster and namespace, so two commands on the same machine
// never drive the same namespace at once. A held lock is reported as
// ErrLocked after the configured wait. Commands on different machines are
// not coordinated.
//
// # Logging
//
// The package logs through log/slog. Use SetLogger to route its output.
package toolkit
