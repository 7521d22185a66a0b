package cli

import (
	"fmt"
	"os"

	"github.com/Tbelkk/Commit-Review/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const configFileName = "commit-review.yaml"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage commit-review configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default configuration file in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configFileName); err == nil {
			fmt.Fprintf(os.Stderr, "Config file already exists at %s\n", configFileName)
			return nil
		}

		data, err := yaml.Marshal(config.Default())
		if err != nil {
			return err
		}
		if err := os.WriteFile(configFileName, data, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Fprintf(os.Stdout, "Config file created at %s\n", configFileName)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}

		fmt.Fprint(os.Stdout, string(data))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
