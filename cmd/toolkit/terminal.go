package main

import (
	"io"
	"os"
	"os/signal"
	"sync"

	"golang.org/x/term"
	"k8s.io/client-go/tools/remotecommand"
)

// terminal is the local side of an interactive exec session: stdin in raw
// mode and a queue of size changes for the remote TTY.
type terminal struct {
	fd    int
	state *term.State
	sizes remotecommand.TerminalSizeQueue
	stop  func()
}

// openTerminal puts stdin into raw mode. It returns nil when stdin is not a
// terminal; the session then runs without a TTY.
func openTerminal(stdin io.Reader) (*terminal, error) {
	f, ok := stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) { //nolint:gosec // file descriptors fit in int
		return nil, nil //nolint:nilnil // no terminal is not an error
	}
	fd := int(f.Fd()) //nolint:gosec // file descriptors fit in int

	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	q := newSizeQueue(fd)
	return &terminal{fd: fd, state: state, sizes: q, stop: q.close}, nil
}

// restore leaves raw mode and stops watching for size changes.
func (t *terminal) restore() error {
	if t.stop != nil {
		t.stop()
	}
	if t.state == nil {
		return nil
	}
	return term.Restore(t.fd, t.state)
}

// sizeQueue yields the terminal size once, then again on every resize
// signal, until closed.
type sizeQueue struct {
	fd      int
	resized chan os.Signal
	done    chan struct{}
	sent    bool
	once    sync.Once
}

func newSizeQueue(fd int) *sizeQueue {
	q := &sizeQueue{fd: fd, resized: make(chan os.Signal, 1), done: make(chan struct{})}
	notifyResize(q.resized)
	return q
}

// Next implements remotecommand.TerminalSizeQueue. It returns nil once the
// queue is closed or the size cannot be read.
func (q *sizeQueue) Next() *remotecommand.TerminalSize {
	if q.sent {
		select {
		case <-q.resized:
		case <-q.done:
			return nil
		}
	}
	q.sent = true

	width, height, err := term.GetSize(q.fd)
	if err != nil {
		return nil
	}
	return &remotecommand.TerminalSize{
		Width:  uint16(width),  //nolint:gosec // terminal sizes fit in uint16
		Height: uint16(height), //nolint:gosec // terminal sizes fit in uint16
	}
}

func (q *sizeQueue) close() {
	q.once.Do(func() {
		signal.Stop(q.resized)
		close(q.done)
	})
}
