package gateway

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/StephaneRenouard/virtual-dataframe/internal/manifest"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	yamlutil "k8s.io/apimachinery/pkg/util/yaml"
)

// yamlDecoderBufferSize is the initial buffer size of the document decoder.
const yamlDecoderBufferSize = 4096

// Apply creates every object of the bundle, in order. It submits the
// bundle's encoded bytes, the same bytes every render of an equal config
// produces.
//
// ServiceAccounts and ClusterRoleBindings that already exist are left in
// place. An existing Pod is an error: installer pods are one-shot and must be
// deleted before they are recreated. The first failure stops the apply and
// is returned wrapping ErrApply and the API error.
func (g *Gateway) Apply(ctx context.Context, bundle manifest.Bundle) error {
	content, err := bundle.Bytes()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrApply, err)
	}

	reader := yamlutil.NewYAMLReader(bufio.NewReader(bytes.NewReader(content)))
	for docNum := 1; ; docNum++ {
		doc, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: read yaml doc %d: %w", ErrApply, docNum, err)
		}
		if len(bytes.TrimSpace(doc)) == 0 {
			continue
		}
		if err := g.applyDocument(ctx, doc); err != nil {
			return fmt.Errorf("%w: doc %d: %w", ErrApply, docNum, err)
		}
	}
}

func (g *Gateway) applyDocument(ctx context.Context, doc []byte) error {
	obj := &unstructured.Unstructured{}
	dec := yamlutil.NewYAMLOrJSONDecoder(bytes.NewReader(doc), yamlDecoderBufferSize)
	if err := dec.Decode(obj); err != nil {
		return fmt.Errorf("decode yaml: %w", err)
	}

	gvk := obj.GroupVersionKind()
	ri, namespaced, err := g.resourceFor(gvk)
	if err != nil {
		return err
	}
	if namespaced {
		obj.SetNamespace(g.namespace)
	}

	_, err = ri.Create(ctx, obj, metav1.CreateOptions{})
	switch {
	case err == nil:
		g.log.Debug("created resource", "kind", gvk.Kind, "name", obj.GetName())
		return nil
	case apierrors.IsAlreadyExists(err) && gvk.Kind != podGVK.Kind:
		g.log.Debug("resource already exists", "kind", gvk.Kind, "name", obj.GetName())
		return nil
	default:
		return fmt.Errorf("create %s/%s: %w", gvk.Kind, obj.GetName(), err)
	}
}
