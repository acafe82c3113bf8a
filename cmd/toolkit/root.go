package main

import (
	"errors"
	"fmt"

	"github.com/StephaneRenouard/virtual-dataframe/internal/versioncheck"
	"github.com/StephaneRenouard/virtual-dataframe/toolkit"
	"github.com/spf13/cobra"
)

var (
	errNotPositive = errors.New("must be greater than 0")
	errEmptyFlag   = errors.New("must not be empty")
)

type commandSpec struct {
	use   string
	short string
	long  string
	args  cobra.PositionalArgs

	// passthrough stops flag parsing at the first positional argument so
	// that the rest reaches the pod untouched.
	passthrough bool
}

var commandSpecs = map[Command]commandSpec{
	CommandInstall: {
		use:   "install",
		short: "Install the toolkit and wait until it runs",
		long: `Install the toolkit into the namespace.

A one-shot installer pod is started with a service account bound to
cluster-admin. Once it succeeds, the command waits for the toolkit pod to
run. On failure the installer logs and events are printed.`,
		args: cobra.NoArgs,
	},
	CommandUninstall: {
		use:   "uninstall",
		short: "Remove the toolkit",
		long: `Remove the toolkit from the namespace by running the installer pod in
cleanup mode. Uninstalling an absent toolkit succeeds.`,
		args: cobra.NoArgs,
	},
	CommandStart:       {use: "start", short: "Scale the toolkit up and wait until it runs", args: cobra.NoArgs},
	CommandStop:        {use: "stop", short: "Scale the toolkit down to zero", args: cobra.NoArgs},
	CommandStatus:      {use: "status", short: "Show whether the toolkit is installed and running", args: cobra.NoArgs},
	CommandTest:        {use: "test [-- pytest args...]", short: "Run the bundled test suite in the toolkit pod", passthrough: true},
	CommandPytest:      {use: "pytest [-- pytest args...]", short: "Run pytest in the toolkit pod", passthrough: true},
	CommandExec:        {use: "exec [-- command...]", short: "Run a command in the toolkit pod (default: an interactive shell)", passthrough: true},
	CommandLogs:        {use: "logs", short: "Print the toolkit pod logs", args: cobra.NoArgs},
	CommandGetPassword: {use: "get-password", short: "Print the toolkit password", args: cobra.NoArgs},
	CommandPush:        {use: "push <target-image>", short: "Push the toolkit image to another registry (not supported)", args: cobra.ExactArgs(1)},
}

func (a *app) newRootCommand() *cobra.Command {
	g := &globalOptions{}
	inst := &installOptions{}

	root := &cobra.Command{
		Use:   "toolkit [command]",
		Short: "Install and operate the toolkit in a Kubernetes namespace",
		Long: `toolkit installs, starts, stops and removes the toolkit workload in a
Kubernetes namespace, using the current kubeconfig context.`,
		Version:           versioncheck.Current(),
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		SilenceErrors:     true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return g.validate()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&g.namespace, "namespace", "n", a.getenv(EnvNamespace),
		"namespace of the toolkit (default: the kubeconfig context namespace, then \""+toolkit.DefaultNamespace+"\") [$"+EnvNamespace+"]")
	pf.StringVar(&g.name, "name", toolkit.DefaultName, "release name of the toolkit")
	pf.StringVar(&g.kubeconfig, "kubeconfig", "", "path to the kubeconfig file")
	pf.StringVar(&g.kubeContext, "context", "", "kubeconfig context to use")
	pf.DurationVar(&g.timeout, "timeout", 0, "timeout of a single API request (0 disables it)")
	pf.DurationVar(&g.pollInterval, "poll-interval", toolkit.DefaultPollInterval, "delay between two readiness checks")
	pf.IntVar(&g.pollAttempts, "poll-attempts", toolkit.DefaultPollAttempts, "readiness checks before giving up")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&g.skipVersionCheck, "skip-version-check", false, "do not check for a newer release")

	for _, c := range Commands {
		if c == CommandHelp {
			continue
		}
		root.AddCommand(a.newSubcommand(c, g, inst))
	}
	root.SetHelpCommand(&cobra.Command{
		Use:   CommandHelp.String() + " [command]",
		Short: "Help about any command",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, _, err := root.Find(args)
			if err != nil || target == nil {
				target = root
			}
			return a.run(cmd, CommandHelp, g, inst, invocation{help: target.Help})
		},
	})
	return root
}

func (a *app) newSubcommand(c Command, g *globalOptions, inst *installOptions) *cobra.Command {
	spec, ok := commandSpecs[c]
	if !ok {
		panic(fmt.Sprintf("no command spec for %s", c))
	}

	var (
		follow bool
		output = outputTable
	)
	cmd := &cobra.Command{
		Use:   spec.use,
		Short: spec.short,
		Long:  spec.long,
		Args:  spec.args,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := inst.validate(c); err != nil {
				return err
			}
			return a.run(cmd, c, g, inst, invocation{
				args:   args,
				follow: follow,
				output: output,
				stdin:  cmd.InOrStdin(),
				stdout: cmd.OutOrStdout(),
				stderr: cmd.ErrOrStderr(),
				tty:    c == CommandExec && len(args) == 0,
			})
		},
	}
	if spec.passthrough {
		cmd.Flags().SetInterspersed(false)
	}

	switch c {
	case CommandInstall:
		a.addImageFlags(cmd, inst)
		cmd.Flags().BoolVar(&inst.daemonSet, "daemonset", false, "run the toolkit agent as a daemon set")
		cmd.Flags().IntVar(&inst.daemonSetPort, "daemonset-port", toolkit.DefaultDaemonSetPort, "port of the daemon set agent")
		cmd.Flags().BoolVar(&inst.noIngress, "no-ingress", false, "do not create an ingress for the toolkit")
	case CommandUninstall:
		a.addImageFlags(cmd, inst)
	case CommandStatus:
		cmd.Flags().VarP(&output, "output", "o", "output format")
	case CommandLogs:
		cmd.Flags().BoolVarP(&follow, "follow", "f", true, "keep streaming new log lines")
	}
	return cmd
}

func (a *app) addImageFlags(cmd *cobra.Command, inst *installOptions) {
	cmd.Flags().StringVar(&inst.image, "image", a.getenv(EnvImage), "installer image repository (default \""+toolkit.DefaultImage+"\") [$"+EnvImage+"]")
	cmd.Flags().StringVar(&inst.tag, "tag", a.getenv(EnvTag), "installer image tag (default \""+toolkit.DefaultTag+"\") [$"+EnvTag+"]")
	cmd.Flags().StringVar(&inst.pullSecret, "image-pull-secret", "", "docker-registry secret used to pull the images")
}

func (g *globalOptions) validate() error {
	switch {
	case g.name == "":
		return fmt.Errorf("--name %w", errEmptyFlag)
	case g.pollInterval <= 0:
		return fmt.Errorf("--poll-interval %w", errNotPositive)
	case g.pollAttempts <= 0:
		return fmt.Errorf("--poll-attempts %w", errNotPositive)
	case g.timeout < 0:
		return fmt.Errorf("--timeout must not be negative")
	}
	return nil
}

func (inst *installOptions) validate(c Command) error {
	if c == CommandInstall && inst.daemonSet && inst.daemonSetPort <= 0 {
		return fmt.Errorf("--daemonset-port %w", errNotPositive)
	}
	return nil
}
