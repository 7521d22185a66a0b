package cli

import (
	"fmt"
	"os"

	"github.com/Tbelkk/Commit-Review/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "0.1.0"

// Exit codes returned by Run.
const (
	ExitSuccess      = 0
	ExitUsageError   = 2
	ExitAuthError    = 3
	ExitRuntimeError = 4
)

// Shared flags across commands.
var (
	flagConfig   string
	flagVerbose  bool
	flagRepo     string
	flagProvider string
	flagModel    string
)

var rootCmd = &cobra.Command{
	Use:   "commit-review",
	Short: "Watch a git repository and review new commits with an LLM",
	Long:  "Commit-review polls a git repository for new commits and sends each one to an LLM provider for review, printing the reviews as they complete.",
}

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ./commit-review.yaml, ~/.config/commit-review/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagRepo, "repo", "", "Repository path")
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "LLM provider (ollama, lmstudio, anthropic)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "Model name")
}

// loadConfig resolves the effective configuration: file (or defaults),
// environment, then command-line flags.
func loadConfig() (config.Config, error) {
	var cfg config.Config
	var err error
	if flagConfig != "" {
		cfg, err = config.Load(flagConfig)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return config.Config{}, err
	}
	applyFlagOverrides(&cfg)
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func applyFlagOverrides(cfg *config.Config) {
	if flagRepo != "" {
		cfg.RepoPath = flagRepo
	}
	if flagProvider != "" {
		cfg.Provider = flagProvider
	}
	if flagModel != "" {
		cfg.Model = flagModel
	}
}

// newLogger builds the process logger. Debug level with --verbose, info
// otherwise. Log lines go to stderr so stdout stays clean for review text.
func newLogger() *zap.SugaredLogger {
	zcfg := zap.NewDevelopmentConfig()
	if !flagVerbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	log, err := zcfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return log.Sugar()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print commit-review version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "commit-review version %s\n", version)
	},
}
