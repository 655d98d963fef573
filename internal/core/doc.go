// Package core implements the registration workflow: validating and
// materializing submissions, enforcing the per-email edit quota, and
// keeping the submission store and its CSV mirror in step.
//
// The package has no HTTP dependencies and is driven entirely through
// the Service type. Storage backends satisfy SubmissionStore and are
// provided by internal/store; the mirror writer is internal/mirror.
package core
