package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/relnotes/internal/config"
	"github.com/danielolaszy/relnotes/internal/logging"
	"github.com/danielolaszy/relnotes/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a sample configuration file",
	Long: `Write a sample configuration file to path (default is the --config path).

The sample defines one grouped section and one flat section and is a starting
point for your own layout. An existing file is only replaced with --force, or
after confirming on a terminal.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		if len(args) == 1 {
			path = args[0]
		}
		force, err := cmd.Flags().GetBool("force")
		if err != nil {
			return err
		}
		var confirm confirmFunc
		if ui.Interactive() {
			confirm = ui.Confirm
		}
		return runInit(cmd.OutOrStdout(), path, force, confirm)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolP("force", "f", false, "overwrite an existing file")
}

// confirmFunc asks a yes/no question.
type confirmFunc func(title string) (bool, error)

// runInit writes the sample configuration. An existing file is replaced with
// force, or when confirm is set and the user agrees.
func runInit(out io.Writer, path string, force bool, confirm confirmFunc) error {
	if _, err := os.Stat(path); err == nil && !force {
		if confirm == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		ok, err := confirm(fmt.Sprintf("%s already exists. Overwrite it?", path))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(out, "Left %s unchanged.\n", path)
			return nil
		}
	}

	data, err := config.Encode(config.Sample())
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write sample configuration: %w", err)
	}

	logging.Info("sample configuration written", "path", path)
	fmt.Fprintf(out, "Sample configuration written to %s\n", path)
	return nil
}
