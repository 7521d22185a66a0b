package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tbelkk/Commit-Review/internal/config"
	"github.com/Tbelkk/Commit-Review/internal/detector"
	"github.com/Tbelkk/Commit-Review/internal/monitor"
	"github.com/Tbelkk/Commit-Review/internal/output"
	"github.com/Tbelkk/Commit-Review/internal/pipeline"
	"github.com/Tbelkk/Commit-Review/internal/providers"
	"github.com/spf13/cobra"
)

var (
	flagInterval      int
	flagWorkers       int
	flagReviewCurrent bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the repository and review new commits as they land",
	Long:  "Poll the repository for new commits, fetch from the remote, and send each new commit for review. Runs until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if flagInterval > 0 {
			cfg.PollInterval = flagInterval
		}
		if flagWorkers > 0 {
			cfg.Workers = flagWorkers
		}
		if flagReviewCurrent {
			cfg.ReviewCurrent = true
		}

		log := newLogger()
		defer func() { _ = log.Sync() }()

		reviewer, err := providers.New(cfg.Provider, cfg.Model)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.ReviewCurrent {
			if err := reviewOne(ctx, cfg, reviewer, "HEAD", "text", ""); err != nil {
				if providers.IsAuthError(err) {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
					exitCode = ExitAuthError
					return nil
				}
				fmt.Fprintf(os.Stderr, "Warning: initial review failed: %v\n", err)
			}
		}

		ctrl := monitor.New(reviewer, monitor.Options{
			RepoPath:      cfg.RepoPath,
			PollInterval:  cfg.PollIntervalDuration(),
			FetchEvery:    cfg.FetchEvery,
			Workers:       cfg.Workers,
			QueueSize:     cfg.QueueSize,
			ReviewTimeout: cfg.ReviewTimeoutDuration(),
			MaxDiffBytes:  cfg.MaxDiffBytes,
		}, monitor.Callbacks{
			OnStatus: printStatus,
			OnReview: func(res pipeline.Result) { printResult(cfg, res) },
		}, log)

		if err := ctrl.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		<-ctx.Done()
		ctrl.Stop()
		return nil
	},
}

// printStatus writes detector status lines to stderr, keeping stdout clean
// for review text.
func printStatus(message string, severity detector.Severity) {
	fmt.Fprintf(os.Stderr, "%s [%s] %s\n", time.Now().Format("15:04:05"), severity, message)
}

func printResult(cfg config.Config, res pipeline.Result) {
	if res.Failed() {
		fmt.Fprintf(os.Stderr, "review of %s failed: %v\n", res.Payload.Commit.Short(), res.Err)
		return
	}
	rev := &output.Review{
		Commit:      res.Payload.Commit,
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		Text:        res.Text,
		GeneratedAt: time.Now(),
	}
	if err := (&output.TextWriter{}).Write(os.Stdout, rev); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
	}
}

func init() {
	watchCmd.Flags().IntVar(&flagInterval, "interval", 0, "Poll interval in seconds (minimum 5)")
	watchCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Review worker goroutines")
	watchCmd.Flags().BoolVar(&flagReviewCurrent, "review-current", false, "Review the current HEAD before watching for new commits")
}
