// Package redact strips secret-looking strings from diff text before it is
// sent to a review service. Detection is regex heuristics for common key and
// token shapes; matches are replaced with a fixed placeholder.
package redact
