// Package cmd provides the command-line interface for relnotes.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/danielolaszy/relnotes/internal/config"
	"github.com/danielolaszy/relnotes/internal/credential"
	"github.com/danielolaszy/relnotes/internal/logging"
)

var (
	cfgFile  string
	logLevel string

	rootCmd = &cobra.Command{
		Use:   "relnotes",
		Short: "Relnotes generates release notes from JIRA filters",
		Long: `Relnotes is a CLI tool that turns the issues of a saved JIRA filter into
release notes. Issues are grouped by release version, component and issue type
according to a YAML configuration, and rendered to Markdown and Word documents.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// openCredentialStore opens the keyring. Tests replace it with an in-memory ring.
var openCredentialStore = credential.Open

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "configuration file (default is $RELNOTES_CONFIG or config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error (default is $LOG_LEVEL)")
}

// initLogging applies --log-level over the LOG_LEVEL default.
func initLogging() {
	if logLevel == "" {
		return
	}
	logging.SetupLoggerWithFormat(os.Stderr, logging.ParseLevel(logLevel), logging.ParseFormat(os.Getenv("LOG_FORMAT")))
}

// configPath resolves the configuration file: --config, then
// RELNOTES_CONFIG, then config.yaml.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}

	v := viper.New()
	v.BindEnv("config", "RELNOTES_CONFIG")
	if p := v.GetString("config"); p != "" {
		return p
	}
	return config.DefaultPath
}

func loadConfig() (*config.Config, error) {
	path := configPath()
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
