package output

import (
	"io"
	"strings"
	"time"
)

// MarkdownWriter outputs a document-friendly markdown review. The review text
// itself is already markdown, so it is passed through under a metadata header.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, rev *Review) error {
	ew := &errWriter{w: w}

	ew.printf("## Review: `%s` %s\n\n", rev.Commit.Short(), rev.Commit.Subject)
	ew.printf("- **Author:** %s <%s>\n", rev.Commit.Author, rev.Commit.Email)
	if !rev.Commit.When.IsZero() {
		ew.printf("- **Date:** %s\n", rev.Commit.When.UTC().Format(time.RFC3339))
	}
	if rev.Provider != "" {
		ew.printf("- **Reviewer:** %s (%s)\n", rev.Provider, rev.Model)
	}
	ew.println("")
	ew.println(strings.TrimRight(rev.Text, "\n"))
	ew.println("")

	return ew.err
}
