//go:build !unix

package main

import "os"

// notifyResize is a no-op where there is no SIGWINCH. The remote terminal
// keeps the size it had when the session started.
func notifyResize(_ chan<- os.Signal) {}
