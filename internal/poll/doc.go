// Package poll implements the bounded readiness loop used to wait for pods
// to reach a target phase.
//
// The loop is the only place where the controller blocks on wall-clock time.
// The clock is injectable so tests run without real delays, and the loop
// returns as soon as its context is canceled.
package poll
