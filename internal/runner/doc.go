// Package runner owns command execution against a target host.
//
// Ownership boundary:
// - local execution via os/exec
// - remote execution over SSH
// - path/file probing on the target host
//
// Runner does not decide which commands to run; env and installer own that.
package runner
