package toolkit

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/StephaneRenouard/virtual-dataframe/internal/lifecycle"
	"k8s.io/client-go/rest"
)

// Status is a point-in-time view of the toolkit. It is a type alias so the
// field set stays in one place.
type Status = lifecycle.Status

// Streams are the standard streams attached to Exec, Test and Pytest. Nil
// streams are not attached.
type Streams = lifecycle.Streams

// connectFunc builds the cluster client. Replaced in tests.
type connectFunc func(restCfg *rest.Config, namespace string) (lifecycle.Cluster, string, error)

var _ Controller = (*controller)(nil)

type controller struct {
	cfg     controllerConfig
	restCfg *rest.Config
	host    string
	connect connectFunc

	mu   sync.Mutex
	orch *lifecycle.Orchestrator
}

// New returns a Controller for the cluster behind restCfg. It performs no
// I/O; call Initialize before any operation.
//
// Panics if restCfg is nil or any option receives an invalid value. See the
// individual With* functions for constraints.
//
//nolint:ireturn // Controller is the public surface.
func New(restCfg *rest.Config, opts ...Option) Controller {
	if restCfg == nil {
		panic("toolkit: rest config must not be nil")
	}
	return newController(restCfg, restCfg.Host, func(rc *rest.Config, ns string) (lifecycle.Cluster, string, error) {
		return lifecycle.Connect(rc, ns, lifecycle.Logger())
	}, opts...)
}

func newController(restCfg *rest.Config, host string, connect connectFunc, opts ...Option) *controller {
	cfg := defaultControllerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &controller{cfg: cfg, restCfg: restCfg, host: host, connect: connect}
}

func (c *controller) Initialize(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.orch != nil {
		return nil
	}

	dep := c.cfg.Deployment
	if err := dep.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cl, version, err := c.connect(c.restCfg, dep.Namespace)
	if err != nil {
		return err
	}
	lifecycle.Logger().Debug("connected to cluster", "host", c.host, "version", version, "namespace", dep.Namespace)

	c.orch = lifecycle.New(lifecycle.Params{
		Cluster:      cl,
		PollInterval: c.cfg.PollInterval,
		PollAttempts: c.cfg.PollAttempts,
		Diagnostics:  c.cfg.Diagnostics,
		Logger:       lifecycle.Logger().With("namespace", dep.Namespace),
	})
	return nil
}

func (c *controller) Config() DeploymentConfig {
	return c.cfg.Deployment
}

func (c *controller) orchestrator() (*lifecycle.Orchestrator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.orch == nil {
		return nil, ErrNotInitialized
	}
	return c.orch, nil
}

// locked runs fn under the namespace lock.
func (c *controller) locked(ctx context.Context, fn func(*lifecycle.Orchestrator) error) error {
	o, err := c.orchestrator()
	if err != nil {
		return err
	}
	l, err := lifecycle.LockNamespace(ctx, c.cfg.LockDir, c.host, c.cfg.Deployment.Namespace, c.cfg.LockWait, lifecycle.Logger())
	if err != nil {
		return err
	}
	defer l.Release()
	return fn(o)
}

func (c *controller) Install(ctx context.Context) error {
	return c.locked(ctx, func(o *lifecycle.Orchestrator) error {
		return o.Install(ctx, c.cfg.Deployment)
	})
}

func (c *controller) Uninstall(ctx context.Context) error {
	return c.locked(ctx, func(o *lifecycle.Orchestrator) error {
		return o.Uninstall(ctx, c.cfg.Deployment)
	})
}

func (c *controller) Start(ctx context.Context) error {
	return c.locked(ctx, func(o *lifecycle.Orchestrator) error {
		return o.Start(ctx, c.cfg.Deployment.Name)
	})
}

func (c *controller) Stop(ctx context.Context) error {
	return c.locked(ctx, func(o *lifecycle.Orchestrator) error {
		return o.Stop(ctx, c.cfg.Deployment.Name)
	})
}

func (c *controller) Status(ctx context.Context) (Status, error) {
	o, err := c.orchestrator()
	if err != nil {
		return Status{}, err
	}
	return o.Status(ctx, c.cfg.Deployment.Name)
}

func (c *controller) Logs(ctx context.Context, w io.Writer, follow bool) error {
	o, err := c.orchestrator()
	if err != nil {
		return err
	}
	return o.Logs(ctx, c.cfg.Deployment.Name, w, follow)
}

func (c *controller) Password(ctx context.Context) (string, error) {
	o, err := c.orchestrator()
	if err != nil {
		return "", err
	}
	return o.Password(ctx, c.cfg.Deployment.Name)
}

func (c *controller) Exec(ctx context.Context, command []string, streams Streams) error {
	o, err := c.orchestrator()
	if err != nil {
		return err
	}
	return o.Exec(ctx, c.cfg.Deployment.Name, command, streams)
}

func (c *controller) Test(ctx context.Context, args []string, streams Streams) error {
	o, err := c.orchestrator()
	if err != nil {
		return err
	}
	return o.Test(ctx, c.cfg.Deployment.Name, args, streams)
}

func (c *controller) Pytest(ctx context.Context, args []string, streams Streams) error {
	o, err := c.orchestrator()
	if err != nil {
		return err
	}
	return o.Pytest(ctx, c.cfg.Deployment.Name, args, streams)
}

func (c *controller) Push(_ context.Context, target string) error {
	return fmt.Errorf("push %s: %w", target, ErrUnsupported)
}
