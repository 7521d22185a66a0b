// Commit-review watches a git repository and reviews new commits with an
// LLM provider.
//
// It polls the repository HEAD, fetches from the remote, and sends every new
// commit (message plus diff) to the configured provider for review, printing
// the reviews to stdout as they complete.
//
// Usage:
//
//	commit-review watch                   # poll and review new commits
//	commit-review watch --review-current  # review HEAD first, then watch
//	commit-review review [rev]            # review one commit and exit
//	commit-review config init             # write a default config file
//	commit-review config show             # print effective configuration
//
// See https://github.com/Tbelkk/Commit-Review for full documentation.
package main
