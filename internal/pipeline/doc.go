// Package pipeline owns bootstrap orchestration concerns.
//
// Ownership boundary:
// - pipeline state machine and transition validation
// - step sequencing (provision -> activate -> install)
// - user-facing progress reporting and the re-entry instruction
//
// The pipeline does not create environments or install dependencies itself;
// env and installer own those.
package pipeline
