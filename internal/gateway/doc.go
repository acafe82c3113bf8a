// Package gateway talks to the Kubernetes control plane on behalf of the
// lifecycle orchestrator: it applies installer bundles, deletes objects by
// handle, reads pod phases, scales the toolkit deployment, and streams logs
// and events for diagnostics.
//
// Every Gateway is bound to one namespace at construction. The gateway never
// retries: transport errors are returned wrapped with the failing operation,
// and retry policy belongs to the caller.
package gateway
