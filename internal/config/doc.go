// Package config loads and merges commit-review configuration.
//
// Precedence (highest to lowest):
//  1. CLI flags (applied by the cli package)
//  2. Environment variables (COMMIT_REVIEW_PROVIDER, COMMIT_REVIEW_MODEL, ...)
//  3. Config file (./commit-review.yaml, then
//     ~/.config/commit-review/config.yaml)
//  4. Built-in defaults
//
// Loaded configs are validated with struct tags; the poll-interval floor is
// enforced separately by the detector so a low configured value degrades to
// the floor instead of failing.
package config
