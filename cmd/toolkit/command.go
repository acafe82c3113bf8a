package main

import (
	"context"
	"fmt"
	"io"

	"github.com/StephaneRenouard/virtual-dataframe/toolkit"
	"k8s.io/client-go/tools/remotecommand"
)

// Command is a CLI command. The set is closed: every value is handled by
// dispatch.
type Command int

const (
	CommandInstall Command = iota
	CommandUninstall
	CommandStart
	CommandStop
	CommandStatus
	CommandTest
	CommandPytest
	CommandExec
	CommandLogs
	CommandGetPassword
	CommandPush
	CommandHelp
)

// Commands lists every command in help order.
var Commands = []Command{
	CommandInstall, CommandUninstall, CommandStart, CommandStop, CommandStatus,
	CommandTest, CommandPytest, CommandExec, CommandLogs, CommandGetPassword,
	CommandPush, CommandHelp,
}

// String returns the command name as typed on the command line.
func (c Command) String() string {
	switch c {
	case CommandInstall:
		return "install"
	case CommandUninstall:
		return "uninstall"
	case CommandStart:
		return "start"
	case CommandStop:
		return "stop"
	case CommandStatus:
		return "status"
	case CommandTest:
		return "test"
	case CommandPytest:
		return "pytest"
	case CommandExec:
		return "exec"
	case CommandLogs:
		return "logs"
	case CommandGetPassword:
		return "get-password"
	case CommandPush:
		return "push"
	case CommandHelp:
		return "help"
	default:
		return fmt.Sprintf("Command(%d)", int(c))
	}
}

// NeedsCluster reports whether the command talks to the cluster, and so
// needs an initialized Controller.
func (c Command) NeedsCluster() bool {
	switch c {
	case CommandPush, CommandHelp:
		return false
	default:
		return true
	}
}

// invocation carries what dispatch needs beyond the Controller.
type invocation struct {
	args   []string
	follow bool
	output outputFormat
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	tty    bool
	sizes  remotecommand.TerminalSizeQueue
	help   func() error
}

func (inv invocation) streams() toolkit.Streams {
	return toolkit.Streams{Stdin: inv.stdin, Stdout: inv.stdout, Stderr: inv.stderr, TTY: inv.tty, Sizes: inv.sizes}
}

// dispatch runs c against ctl. ctl is nil for CommandHelp.
func dispatch(ctx context.Context, c Command, ctl toolkit.Controller, inv invocation) error {
	switch c {
	case CommandInstall:
		return ctl.Install(ctx)
	case CommandUninstall:
		return ctl.Uninstall(ctx)
	case CommandStart:
		return ctl.Start(ctx)
	case CommandStop:
		return ctl.Stop(ctx)
	case CommandStatus:
		st, err := ctl.Status(ctx)
		if err != nil {
			return err
		}
		return writeStatus(inv.stdout, inv.output, ctl.Config(), st)
	case CommandTest:
		return ctl.Test(ctx, inv.args, inv.streams())
	case CommandPytest:
		return ctl.Pytest(ctx, inv.args, inv.streams())
	case CommandExec:
		return ctl.Exec(ctx, inv.args, inv.streams())
	case CommandLogs:
		return ctl.Logs(ctx, inv.stdout, inv.follow)
	case CommandGetPassword:
		pw, err := ctl.Password(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(inv.stdout, pw)
		return err
	case CommandPush:
		return ctl.Push(ctx, inv.args[0])
	case CommandHelp:
		return inv.help()
	default:
		return fmt.Errorf("unknown command %s", c)
	}
}
