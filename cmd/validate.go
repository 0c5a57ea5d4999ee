package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/relnotes/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration file for problems",
	Long: `Load the configuration file and report every problem found: missing server URL,
invalid regular expressions, empty sections, heading levels out of range and
missing Word templates. Missing JIRA credentials are reported as a warning.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runValidate(cmd.OutOrStdout(), cfg, config.LoadCredentials())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(out io.Writer, cfg *config.Config, creds config.Credentials) error {
	if err := config.ValidateJiraCredentials(creds); err != nil {
		fmt.Fprintf(out, "warning: %v\n", err)
	}

	problems := config.Validate(cfg)
	if len(problems) > 0 {
		fmt.Fprintf(out, "Validation failed with %d problem(s):\n", len(problems))
		for i, p := range problems {
			fmt.Fprintf(out, "  %d. %s\n", i+1, p)
		}
		return fmt.Errorf("%w: %d problem(s) in %s", config.ErrInvalidConfig, len(problems), cfg.Path)
	}

	fmt.Fprintf(out, "Configuration %s is valid.\n", cfg.Path)
	return nil
}
