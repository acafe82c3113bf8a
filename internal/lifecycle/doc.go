// Package lifecycle implements the toolkit lifecycle state machine: install,
// uninstall, start, stop and status, plus the diagnostic and interactive
// operations that act on an installed toolkit.
//
// Nothing is kept between invocations. Every operation re-reads the cluster,
// which is the single source of truth, so any operation can be re-run after
// an interrupted one. Install and uninstall both delete stale installer
// objects before applying a freshly rendered bundle, so at most one installer
// pod exists per release.
//
// Dependency layering: public toolkit package → lifecycle → manifest,
// gateway, poll, cluster, lock.
package lifecycle
