// Package manifest renders the installer bundle: the ServiceAccount,
// ClusterRoleBinding and one-shot Pod that install or clean up the toolkit
// workload inside the cluster.
//
// Rendering is pure. The same DeploymentConfig always produces the same
// Bundle, and Bundle.Bytes is byte-for-byte identical across calls, which is
// what makes delete-then-recreate re-applies safe.
package manifest
