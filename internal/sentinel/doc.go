// Package sentinel provides the constant error type used for every
// classified failure of the toolkit controller (precondition, not installed,
// apply, readiness timeout, terminal phase).
//
// Declaring sentinels as const keeps them immutable while errors.Is still
// matches them through %w-wrapped chains.
package sentinel
