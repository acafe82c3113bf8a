package gateway

import (
	"context"
	"fmt"
	"io"

	"github.com/StephaneRenouard/virtual-dataframe/internal/manifest"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/remotecommand"
)

// Streams are the standard streams of an Exec session. Nil streams are not
// attached.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	TTY    bool

	// Sizes reports the local terminal size. Only used with TTY.
	Sizes remotecommand.TerminalSizeQueue
}

// Exec runs command in the first container of the pod identified by h and
// blocks until it exits or ctx is canceled. A non-zero exit status is
// returned as an error from the remotecommand package.
func (g *Gateway) Exec(ctx context.Context, h manifest.Handle, command []string, streams Streams) error {
	if g.restConfig == nil {
		return fmt.Errorf("exec in %s: %w", h, ErrNoRESTConfig)
	}

	req := g.kube.CoreV1().RESTClient().Post().
		Resource("pods").
		Namespace(g.namespace).
		Name(h.Name).
		SubResource("exec").
		VersionedParams(&corev1.PodExecOptions{
			Command: command,
			Stdin:   streams.Stdin != nil,
			Stdout:  streams.Stdout != nil,
			Stderr:  streams.Stderr != nil && !streams.TTY,
			TTY:     streams.TTY,
		}, scheme.ParameterCodec)

	executor, err := remotecommand.NewSPDYExecutor(g.restConfig, "POST", req.URL())
	if err != nil {
		return fmt.Errorf("exec in %s: %w", h, err)
	}

	opts := remotecommand.StreamOptions{
		Stdin:  streams.Stdin,
		Stdout: streams.Stdout,
		Tty:    streams.TTY,
	}
	// With a TTY, stderr is merged into stdout by the container runtime.
	if streams.TTY {
		opts.TerminalSizeQueue = streams.Sizes
	} else {
		opts.Stderr = streams.Stderr
	}

	g.log.Debug("exec", "handle", h.String(), "command", command)
	if err := executor.StreamWithContext(ctx, opts); err != nil {
		return fmt.Errorf("exec in %s: %w", h, err)
	}
	return nil
}
