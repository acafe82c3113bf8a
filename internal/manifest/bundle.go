package manifest

import (
	"bytes"
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/yaml"
)

// documentSeparator separates YAML documents in Bytes.
const documentSeparator = "---\n"

// Bundle is the ordered set of installer objects produced by Render.
// The zero value is an empty bundle.
type Bundle struct {
	objects []*unstructured.Unstructured
}

// Len returns the number of objects in the bundle.
func (b Bundle) Len() int {
	return len(b.objects)
}

// Objects returns deep copies of the bundle's objects, in apply order.
func (b Bundle) Objects() []*unstructured.Unstructured {
	out := make([]*unstructured.Unstructured, len(b.objects))
	for i, obj := range b.objects {
		out[i] = obj.DeepCopy()
	}
	return out
}

// Handles returns a handle for every object, in apply order.
func (b Bundle) Handles() []Handle {
	out := make([]Handle, len(b.objects))
	for i, obj := range b.objects {
		out[i] = Handle{
			APIVersion: obj.GetAPIVersion(),
			Kind:       obj.GetKind(),
			Name:       obj.GetName(),
			Namespace:  obj.GetNamespace(),
		}
	}
	return out
}

// Bytes encodes the bundle as multi-document YAML. Map keys are sorted by
// the encoder, so equal bundles always encode to identical bytes.
func (b Bundle) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	for i, obj := range b.objects {
		doc, err := yaml.Marshal(obj.Object)
		if err != nil {
			return nil, fmt.Errorf("encode %s/%s: %w", obj.GetKind(), obj.GetName(), err)
		}
		if i > 0 {
			buf.WriteString(documentSeparator)
		}
		buf.Write(doc)
	}
	return buf.Bytes(), nil
}
