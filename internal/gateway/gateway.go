package gateway

import (
	"fmt"
	"log/slog"

	"github.com/StephaneRenouard/virtual-dataframe/internal/manifest"
	"github.com/StephaneRenouard/virtual-dataframe/internal/sentinel"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/discovery/cached/memory"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/restmapper"
)

// ErrApply is wrapped by every error returned from Apply.
const ErrApply = sentinel.Error("apply rejected")

// ErrNotFound signals that the requested object does not exist.
const ErrNotFound = sentinel.Error("not found")

// ErrNoRESTConfig is returned by Exec when the gateway was built without a
// REST config.
const ErrNoRESTConfig = sentinel.Error("exec requires a REST config")

var (
	podGVK        = schema.GroupVersionKind{Version: "v1", Kind: "Pod"}
	deploymentGVK = schema.GroupVersionKind{Group: "apps", Version: "v1", Kind: "Deployment"}
)

// Gateway is bound to one namespace. It is not safe for concurrent use;
// the orchestrator drives it from a single goroutine.
type Gateway struct {
	namespace  string
	dynamic    dynamic.Interface
	kube       kubernetes.Interface
	mapper     meta.RESTMapper
	restConfig *rest.Config
	log        *slog.Logger
}

// Params holds the dependencies of a Gateway.
type Params struct {
	Namespace string
	Dynamic   dynamic.Interface
	Kube      kubernetes.Interface
	Mapper    meta.RESTMapper

	// RESTConfig is only needed by Exec.
	RESTConfig *rest.Config

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// New creates a Gateway from explicit dependencies.
//
// Panics if Namespace is empty or a client is nil: these are wiring bugs.
func New(p Params) *Gateway {
	if p.Namespace == "" {
		panic("gateway: namespace must not be empty")
	}
	if p.Dynamic == nil || p.Kube == nil || p.Mapper == nil {
		panic("gateway: dynamic client, kube client and mapper must not be nil")
	}
	log := p.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{
		namespace:  p.Namespace,
		dynamic:    p.Dynamic,
		kube:       p.Kube,
		mapper:     p.Mapper,
		restConfig: p.RESTConfig,
		log:        log.With("namespace", p.Namespace),
	}
}

// NewForConfig builds the clients from restCfg. The REST mapper is backed by
// a memory-cached discovery client and resolved lazily, so commands that
// never map a kind (status, start, stop) cost no discovery round trips.
func NewForConfig(restCfg *rest.Config, namespace string, log *slog.Logger) (*Gateway, error) {
	dyn, err := dynamic.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("create dynamic client: %w", err)
	}
	kube, err := kubernetes.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("create kube client: %w", err)
	}
	disc, err := discovery.NewDiscoveryClientForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("create discovery client: %w", err)
	}

	return New(Params{
		Namespace:  namespace,
		Dynamic:    dyn,
		Kube:       kube,
		Mapper:     restmapper.NewDeferredDiscoveryRESTMapper(memory.NewMemCacheClient(disc)),
		RESTConfig: restCfg,
		Logger:     log,
	}), nil
}

// Namespace returns the namespace the gateway is bound to.
func (g *Gateway) Namespace() string {
	return g.namespace
}

// resourceFor resolves gvk to a dynamic resource client. Namespaced kinds are
// always scoped to the gateway's namespace.
func (g *Gateway) resourceFor(gvk schema.GroupVersionKind) (dynamic.ResourceInterface, bool, error) {
	mapping, err := g.mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return nil, false, fmt.Errorf("get rest mapping for %v: %w", gvk, err)
	}
	if mapping.Scope.Name() == meta.RESTScopeNameNamespace {
		return g.dynamic.Resource(mapping.Resource).Namespace(g.namespace), true, nil
	}
	return g.dynamic.Resource(mapping.Resource), false, nil
}

// handleResource resolves h to a dynamic resource client.
func (g *Gateway) handleResource(h manifest.Handle) (dynamic.ResourceInterface, error) {
	ri, _, err := g.resourceFor(h.GroupVersionKind())
	return ri, err
}
