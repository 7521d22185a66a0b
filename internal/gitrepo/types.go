package gitrepo

import (
	"strings"
	"time"
)

// CommitRef is a lightweight immutable descriptor of a single commit.
type CommitRef struct {
	Hash    string
	Author  string
	Email   string
	When    time.Time
	Subject string
	Body    string
}

// Message reassembles the full commit message from subject and body.
func (c CommitRef) Message() string {
	if c.Body == "" {
		return c.Subject
	}
	return c.Subject + "\n\n" + c.Body
}

// Short returns an abbreviated hash for log lines.
func (c CommitRef) Short() string {
	if len(c.Hash) > 8 {
		return c.Hash[:8]
	}
	return c.Hash
}

func splitMessage(message string) (subject, body string) {
	subject, body, _ = strings.Cut(message, "\n")
	return strings.TrimSpace(subject), strings.TrimSpace(body)
}

// FileDiff is the unified diff for a single changed path.
type FileDiff struct {
	Path   string
	Patch  string
	Binary bool
}

// TreeFile is one tracked file in a commit's tree.
type TreeFile struct {
	Path    string
	Content string
	Binary  bool
}

// Payload is the normalized unit of work submitted for review: the commit,
// its combined diff text, and the changed paths in diff order.
type Payload struct {
	Commit        CommitRef
	Diff          string
	Files         []string
	InitialCommit bool
}
