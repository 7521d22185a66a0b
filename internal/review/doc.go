// Package review assembles the prompts sent to the review service.
//
// The system prompt fixes the reviewer persona and the four required output
// sections (Summary, Code Review, Commit Message Review, Recommendations) as
// lightweight markdown. [BuildPrompt] renders a [gitrepo.Payload] into the
// user prompt: commit metadata header, full commit message, changed file
// list, and the diff text.
package review
