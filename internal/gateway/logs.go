package gateway

import (
	"bufio"
	"context"
	"fmt"
	"iter"
	"sync/atomic"

	"github.com/StephaneRenouard/virtual-dataframe/internal/manifest"
	"github.com/StephaneRenouard/virtual-dataframe/internal/sentinel"
	corev1 "k8s.io/api/core/v1"
)

// ErrStreamConsumed is yielded when a log stream is ranged over twice.
const ErrStreamConsumed = sentinel.Error("log stream already consumed")

// maxLogLineSize caps a single log line. Longer lines end the stream with
// bufio.ErrTooLong.
const maxLogLineSize = 1 << 20

// StreamLogs returns the log lines of the pod identified by h. The stream is
// opened lazily on the first range and can be consumed only once; a second
// range yields ErrStreamConsumed. With follow set, the sequence ends when
// the container exits or ctx is canceled.
func (g *Gateway) StreamLogs(ctx context.Context, h manifest.Handle, follow bool) iter.Seq2[string, error] {
	var used atomic.Bool
	return func(yield func(string, error) bool) {
		if used.Swap(true) {
			yield("", fmt.Errorf("logs %s: %w", h, ErrStreamConsumed))
			return
		}

		rc, err := g.kube.CoreV1().Pods(g.namespace).
			GetLogs(h.Name, &corev1.PodLogOptions{Follow: follow}).
			Stream(ctx)
		if err != nil {
			yield("", fmt.Errorf("logs %s: %w", h, err))
			return
		}
		defer func() {
			if closeErr := rc.Close(); closeErr != nil {
				g.log.Debug("close log stream", "handle", h.String(), "error", closeErr)
			}
		}()

		scanner := bufio.NewScanner(rc)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLogLineSize)
		for scanner.Scan() {
			if !yield(scanner.Text(), nil) {
				return
			}
		}
		// A canceled follow ends with a read error; that is a normal stop.
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			yield("", fmt.Errorf("logs %s: %w", h, err))
		}
	}
}
