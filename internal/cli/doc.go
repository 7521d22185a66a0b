// Package cli wires together the Cobra command tree for the commit-review
// binary.
//
// It defines the root command and all subcommands (watch, review, config,
// version), binds flags, reads configuration, builds the
// [monitor.Controller], and returns deterministic exit codes.
package cli
