package review

import (
	"fmt"
	"strings"
	"time"

	"github.com/Tbelkk/Commit-Review/internal/gitrepo"
)

const systemPrompt = `You are an expert code reviewer. You are shown a single commit: its metadata, its commit message, and its diff. Critique it the way a senior engineer reviewing a teammate's work would.

Rules:
1. Only review what the diff shows. Do not speculate about unchanged code.
2. Focus on bugs, security issues, correctness, and clarity. Mention style only when it hurts readability.
3. Review the commit message too: does it explain the change accurately and follow good conventions?
4. Keep it short and easy to scan. Put a blank line between points.

Your response MUST be lightweight markdown with exactly these four sections, in this order:

## Summary
One or two sentences on what the commit does.

## Code Review
Bullet points on the code changes.

## Commit Message Review
One short paragraph on the message quality.

## Recommendations
Concrete, actionable improvements, most important first.`

// SystemPrompt returns the fixed system instruction for the review service.
func SystemPrompt() string {
	return systemPrompt
}

// BuildPrompt renders a payload into the user prompt.
func BuildPrompt(p gitrepo.Payload) string {
	var b strings.Builder

	fmt.Fprintf(&b, "COMMIT HASH: %s\n", p.Commit.Hash)
	fmt.Fprintf(&b, "AUTHOR: %s\n", p.Commit.Author)
	fmt.Fprintf(&b, "DATE: %s\n", p.Commit.When.UTC().Format(time.RFC3339))
	b.WriteString("COMMIT MESSAGE:\n")
	b.WriteString(p.Commit.Message())
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "FILES CHANGED: %s\n", strings.Join(p.Files, ", "))
	b.WriteString("\nDIFF:\n")
	b.WriteString(p.Diff)

	return b.String()
}
