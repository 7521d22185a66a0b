// Package output formats finished reviews for display or machine
// consumption.
//
// Three formats are supported:
//   - text     — human-readable terminal output (default)
//   - json     — structured JSON with commit metadata
//   - markdown — metadata header over the raw review markdown
//
// Use [GetWriter] to obtain a [Writer] for a given format string, or
// [WriteReview] to handle destination selection (file path or stdout).
package output
