package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Tbelkk/Commit-Review/internal/config"
	"github.com/Tbelkk/Commit-Review/internal/gitrepo"
	"github.com/Tbelkk/Commit-Review/internal/output"
	"github.com/Tbelkk/Commit-Review/internal/providers"
	"github.com/Tbelkk/Commit-Review/internal/redact"
	"github.com/Tbelkk/Commit-Review/internal/review"
	"github.com/spf13/cobra"
)

var (
	flagFormat string
	flagOut    string
)

var reviewCmd = &cobra.Command{
	Use:   "review [rev]",
	Short: "Review a single commit and exit",
	Long:  "Review one commit (default HEAD) against its first parent and print the review to stdout.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		rev := "HEAD"
		if len(args) == 1 {
			rev = args[0]
		}

		reviewer, err := providers.New(cfg.Provider, cfg.Model)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		if err := reviewOne(context.Background(), cfg, reviewer, rev, flagFormat, flagOut); err != nil {
			if providers.IsAuthError(err) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				exitCode = ExitAuthError
				return nil
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		return nil
	},
}

// reviewOne extracts rev from the configured repository, sends it for review,
// and writes the formatted review to outPath or stdout.
func reviewOne(ctx context.Context, cfg config.Config, reviewer providers.Reviewer, rev, format, outPath string) error {
	repo, err := gitrepo.Open(cfg.RepoPath)
	if err != nil {
		return err
	}

	commit, err := repo.Resolve(rev)
	if err != nil {
		return err
	}
	parent, err := repo.FirstParent(commit.Hash)
	if err != nil {
		return err
	}

	payload, err := repo.Extract(commit, parent, cfg.MaxDiffBytes)
	if err != nil {
		return err
	}
	payload.Diff = redact.Secrets(payload.Diff)

	ctx, cancel := context.WithTimeout(ctx, cfg.ReviewTimeoutDuration())
	defer cancel()

	resp, err := reviewer.Review(ctx, providers.ReviewRequest{
		SystemPrompt: review.SystemPrompt(),
		UserPrompt:   review.BuildPrompt(payload),
	})
	if err != nil {
		return fmt.Errorf("reviewing %s: %w", commit.Short(), err)
	}

	return output.WriteReview(&output.Review{
		Commit:      payload.Commit,
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		Text:        resp.Content,
		GeneratedAt: time.Now(),
	}, format, outPath)
}

func init() {
	reviewCmd.Flags().StringVar(&flagFormat, "format", "text", "Output format (text, json, markdown)")
	reviewCmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
}
