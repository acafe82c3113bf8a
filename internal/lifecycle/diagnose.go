package lifecycle

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/StephaneRenouard/virtual-dataframe/internal/manifest"
	"github.com/jedib0t/go-pretty/v6/table"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/duration"
)

// diagnose writes the logs and events of the pod identified by h to the
// diagnostics writer. It is skipped once ctx is canceled: an interrupted
// operator wants out, not a log dump. Failures are logged.
func (o *Orchestrator) diagnose(ctx context.Context, h manifest.Handle, log *slog.Logger) {
	if ctx.Err() != nil {
		return
	}

	fmt.Fprintf(o.diag, "==> logs of %s\n", h)
	for line, err := range o.cluster.StreamLogs(ctx, h, false) {
		if err != nil {
			log.Warn("failed to read pod logs", "pod", h.Name, "error", err)
			break
		}
		fmt.Fprintln(o.diag, line)
	}

	events, err := o.cluster.Events(ctx, h)
	if err != nil {
		log.Warn("failed to list pod events", "pod", h.Name, "error", err)
		return
	}
	fmt.Fprintf(o.diag, "==> events of %s\n", h)
	writeEvents(o.diag, events, o.clock.Now())
}

func writeEvents(w io.Writer, events []corev1.Event, now time.Time) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events.")
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Age", "Type", "Reason", "Message"})
	for _, e := range events {
		age := "<unknown>"
		if t := lastSeen(e); !t.IsZero() {
			age = duration.HumanDuration(now.Sub(t))
		}
		tw.AppendRow(table.Row{age, e.Type, e.Reason, e.Message})
	}
	tw.Render()
}

func lastSeen(e corev1.Event) time.Time {
	switch {
	case !e.LastTimestamp.IsZero():
		return e.LastTimestamp.Time
	case !e.EventTime.IsZero():
		return e.EventTime.Time
	default:
		return e.FirstTimestamp.Time
	}
}
