package gateway

import (
	"context"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// SecretValue returns one decoded field of a secret. A missing secret or
// key returns an error wrapping ErrNotFound.
func (g *Gateway) SecretValue(ctx context.Context, name, key string) ([]byte, error) {
	secret, err := g.kube.CoreV1().Secrets(g.namespace).Get(ctx, name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return nil, fmt.Errorf("get secret %s: %w: %w", name, ErrNotFound, err)
	}
	if err != nil {
		return nil, fmt.Errorf("get secret %s: %w", name, err)
	}

	value, ok := secret.Data[key]
	if !ok {
		return nil, fmt.Errorf("secret %s key %q: %w", name, key, ErrNotFound)
	}
	return value, nil
}
