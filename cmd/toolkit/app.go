package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/StephaneRenouard/virtual-dataframe/internal/cluster"
	"github.com/StephaneRenouard/virtual-dataframe/internal/versioncheck"
	"github.com/StephaneRenouard/virtual-dataframe/toolkit"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"k8s.io/client-go/rest"
)

// Environment variables consulted when the matching flag is not set.
const (
	EnvNamespace = "TOOLKIT_NAMESPACE"
	EnvImage     = "TOOLKIT_IMAGE"
	EnvTag       = "TOOLKIT_TAG"
)

// app holds the process boundary of the CLI. Tests replace the function
// fields to run commands without a cluster or network.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string

	loadCluster   func(cluster.Settings) (cluster.Connection, error)
	newController func(*rest.Config, ...toolkit.Option) toolkit.Controller
	checkVersion  func(ctx context.Context, current string) (versioncheck.Result, error)
	openTerminal  func(stdin io.Reader) (*terminal, error)
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:         stdin,
		stdout:        stdout,
		stderr:        stderr,
		getenv:        os.Getenv,
		loadCluster:   cluster.Load,
		newController: toolkit.New,
		openTerminal:  openTerminal,
		checkVersion: func(ctx context.Context, current string) (versioncheck.Result, error) {
			c := versioncheck.New(versioncheck.DefaultEndpoint, versioncheck.DefaultTimeout)
			defer c.Close()
			return c.Check(ctx, current)
		},
	}
}

// globalOptions are the flags shared by every command.
type globalOptions struct {
	namespace        string
	name             string
	kubeconfig       string
	kubeContext      string
	timeout          time.Duration
	pollInterval     time.Duration
	pollAttempts     int
	verbose          bool
	skipVersionCheck bool
}

// installOptions are the flags of the install command.
type installOptions struct {
	image         string
	tag           string
	pullSecret    string
	daemonSet     bool
	daemonSetPort int
	noIngress     bool
}

// execute runs the command line args and returns the process exit code.
func (a *app) execute(ctx context.Context, args []string) int {
	root := a.newRootCommand()
	root.SetArgs(args)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		a.reportError(err)
		return 1
	}
	return 0
}

func (a *app) reportError(err error) {
	fmt.Fprintf(a.stderr, "Error: %v\n", err)
	switch {
	case errors.Is(err, toolkit.ErrPrecondition):
		fmt.Fprintln(a.stderr, "Hint: check your kubeconfig, or select one with --kubeconfig and --context.")
	case errors.Is(err, toolkit.ErrNotInstalled):
		fmt.Fprintln(a.stderr, "Hint: run 'toolkit install' first.")
	case errors.Is(err, toolkit.ErrNotRunning):
		fmt.Fprintln(a.stderr, "Hint: run 'toolkit start' first.")
	case errors.Is(err, toolkit.ErrLocked):
		fmt.Fprintln(a.stderr, "Hint: wait for the other command to finish.")
	case errors.Is(err, toolkit.ErrReadinessTimeout):
		fmt.Fprintln(a.stderr, "Hint: raise --poll-attempts if the cluster is slow to pull images.")
	}
}

// setupLogger installs the CLI logger and returns it.
func (a *app) setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	l := slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level})).
		With("invocation", uuid.NewString())
	toolkit.SetLogger(l)
	return l
}

// run executes c with the advisory version check beside it. The check
// never delays the result: it is canceled as soon as the command returns.
func (a *app) run(cmd *cobra.Command, c Command, g *globalOptions, inst *installOptions, inv invocation) error {
	log := a.setupLogger(g.verbose)
	ctx := cmd.Context()

	checkCtx, cancelCheck := context.WithCancel(ctx)
	defer cancelCheck()

	var (
		eg     errgroup.Group
		notice string
	)
	if !g.skipVersionCheck && c.NeedsCluster() {
		eg.Go(func() error {
			current := versioncheck.Current()
			res, err := a.checkVersion(checkCtx, current)
			if err != nil {
				log.Debug("version check skipped", "error", err)
				return nil
			}
			if res.UpdateAvailable {
				notice = fmt.Sprintf("A new toolkit release is available: %s (current %s).", res.Latest, res.Current)
			}
			return nil
		})
	}

	var cmdErr error
	eg.Go(func() error {
		defer cancelCheck()
		cmdErr = a.runCommand(ctx, log, c, g, inst, inv)
		return nil
	})
	_ = eg.Wait()

	if notice != "" {
		fmt.Fprintln(a.stderr, notice)
	}
	return cmdErr
}

func (a *app) runCommand(ctx context.Context, log *slog.Logger, c Command, g *globalOptions, inst *installOptions, inv invocation) error {
	switch {
	case c == CommandHelp:
		return dispatch(ctx, c, nil, inv)
	case !c.NeedsCluster():
		// The controller is never initialized, so no kubeconfig is read.
		ctl := a.newController(&rest.Config{}, a.controllerOptions(c, g, inst, g.namespace)...)
		return dispatch(ctx, c, ctl, inv)
	}

	conn, err := a.loadCluster(cluster.Settings{
		Kubeconfig: g.kubeconfig,
		Context:    g.kubeContext,
		Namespace:  g.namespace,
		Timeout:    g.timeout,
	})
	if err != nil {
		return err
	}

	ctl := a.newController(conn.Config, a.controllerOptions(c, g, inst, conn.Namespace)...)
	if err := ctl.Initialize(ctx); err != nil {
		return err
	}

	if inv.tty {
		tt, err := a.openTerminal(inv.stdin)
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		if tt == nil {
			inv.tty = false
		} else {
			defer func() {
				if err := tt.restore(); err != nil {
					log.Warn("failed to restore terminal", "error", err)
				}
			}()
			inv.sizes = tt.sizes
		}
	}
	return dispatch(ctx, c, ctl, inv)
}

// controllerOptions maps flags to Controller options. The image flags apply
// to the commands that run an installer pod; the feature flags to install
// only.
func (a *app) controllerOptions(c Command, g *globalOptions, inst *installOptions, namespace string) []toolkit.Option {
	opts := []toolkit.Option{
		toolkit.WithName(g.name),
		toolkit.WithPollInterval(g.pollInterval),
		toolkit.WithPollAttempts(g.pollAttempts),
		toolkit.WithDiagnostics(a.stderr),
	}
	if namespace != "" {
		opts = append(opts, toolkit.WithNamespace(namespace))
	}
	if c != CommandInstall && c != CommandUninstall {
		return opts
	}

	if inst.image != "" {
		opts = append(opts, toolkit.WithImage(inst.image))
	}
	if inst.tag != "" {
		opts = append(opts, toolkit.WithTag(inst.tag))
	}
	if inst.pullSecret != "" {
		opts = append(opts, toolkit.WithImagePullSecret(inst.pullSecret))
	}
	if c != CommandInstall {
		return opts
	}
	if inst.daemonSet {
		opts = append(opts, toolkit.WithDaemonSet(inst.daemonSetPort))
	}
	if inst.noIngress {
		opts = append(opts, toolkit.WithIngress(false))
	}
	return opts
}
