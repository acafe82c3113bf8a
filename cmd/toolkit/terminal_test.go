package main

import (
	"strings"
	"testing"
)

func TestOpenTerminalNonFile(t *testing.T) {
	t.Parallel()

	tt, err := openTerminal(strings.NewReader("ls\n"))
	if err != nil || tt != nil {
		t.Fatalf("openTerminal() = %v, %v, want nil, nil", tt, err)
	}
}

func TestSizeQueueStopsWhenClosed(t *testing.T) {
	t.Parallel()

	q := newSizeQueue(-1)
	if got := q.Next(); got != nil {
		t.Errorf("Next() on invalid fd = %+v, want nil", got)
	}
	q.close()
	q.close()
	if got := q.Next(); got != nil {
		t.Errorf("Next() after close = %+v, want nil", got)
	}
}

func TestRestoreWithoutRawState(t *testing.T) {
	t.Parallel()

	stopped := false
	tt := &terminal{stop: func() { stopped = true }}
	if err := tt.restore(); err != nil {
		t.Fatalf("restore() error = %v", err)
	}
	if !stopped {
		t.Error("size queue not stopped")
	}
}
