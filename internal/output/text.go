package output

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// TextWriter outputs a human-readable review for the terminal.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, rev *Review) error {
	ew := &errWriter{w: w}

	ew.printf("=== Commit %s: %s ===\n", rev.Commit.Short(), rev.Commit.Subject)
	ew.printf("Author: %s <%s>\n", rev.Commit.Author, rev.Commit.Email)
	if !rev.Commit.When.IsZero() {
		ew.printf("Date: %s\n", rev.Commit.When.UTC().Format(time.RFC3339))
	}
	if rev.Provider != "" {
		ew.printf("Reviewer: %s (%s)\n", rev.Provider, rev.Model)
	}
	ew.println("")
	ew.println(strings.TrimRight(rev.Text, "\n"))
	ew.println("")

	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
