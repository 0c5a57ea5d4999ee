package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/relnotes/internal/config"
	"github.com/danielolaszy/relnotes/internal/credential"
	"github.com/danielolaszy/relnotes/internal/jira"
	"github.com/danielolaszy/relnotes/internal/logging"
	"github.com/danielolaszy/relnotes/internal/pipeline"
	"github.com/danielolaszy/relnotes/internal/snapshot"
	"github.com/danielolaszy/relnotes/internal/ui"
	"github.com/danielolaszy/relnotes/pkg/models"
)

// generateOptions carries the flags of the generate command.
type generateOptions struct {
	filterID        string
	outputDir       string
	format          string
	snapshotID      string
	offline         bool
	noSave          bool
	saveCredentials bool
	publish         bool
	tag             string
	interactive     bool
}

var generateCmd = &cobra.Command{
	Use:   "generate [filter-id]",
	Short: "Generate release notes for a JIRA filter",
	Long: `Fetch the issues of a saved JIRA filter and render release notes.

The filter id comes from the argument, then defaults.filter_id in the
configuration (or RELNOTES_FILTER_ID), then an interactive prompt.

Every fetch is stored as a local snapshot unless --no-save is given, so the
notes can be regenerated later with --offline (latest snapshot of the filter)
or --snapshot <id> without reaching JIRA.

Example:
  relnotes generate 12345 --format all --output-dir out`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := generateOptions{interactive: ui.Interactive()}
		if len(args) == 1 {
			opts.filterID = args[0]
		}

		flags := cmd.Flags()
		var err error
		if opts.outputDir, err = flags.GetString("output-dir"); err != nil {
			return err
		}
		if opts.format, err = flags.GetString("format"); err != nil {
			return err
		}
		if opts.snapshotID, err = flags.GetString("snapshot"); err != nil {
			return err
		}
		if opts.offline, err = flags.GetBool("offline"); err != nil {
			return err
		}
		if opts.noSave, err = flags.GetBool("no-save"); err != nil {
			return err
		}
		if opts.saveCredentials, err = flags.GetBool("save-credentials"); err != nil {
			return err
		}
		if opts.publish, err = flags.GetBool("publish"); err != nil {
			return err
		}
		if opts.tag, err = flags.GetString("tag"); err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runGenerate(cmd.Context(), cmd.OutOrStdout(), cfg, opts, time.Now())
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringP("output-dir", "o", "", "directory for the generated files (default is defaults.output_dir)")
	generateCmd.Flags().String("format", "", "output format: markdown, word or all (default is the formats enabled in the configuration)")
	generateCmd.Flags().Bool("offline", false, "render from the latest stored snapshot of the filter")
	generateCmd.Flags().String("snapshot", "", "render from the stored snapshot with this id")
	generateCmd.Flags().Bool("no-save", false, "do not store the fetched issues as a snapshot")
	generateCmd.Flags().Bool("save-credentials", false, "store a prompted JIRA cookie in the keyring")
	generateCmd.Flags().Bool("publish", false, "publish the Markdown notes as a GitHub release")
	generateCmd.Flags().String("tag", "", "release tag used with --publish (default is the global version)")
}

func runGenerate(ctx context.Context, out io.Writer, cfg *config.Config, opts generateOptions, now time.Time) error {
	for _, problem := range config.Validate(cfg) {
		logging.Warn("configuration problem", "problem", problem)
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to prepare pipeline: %w", err)
	}

	format, err := pipeline.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	prompted := false
	if opts.snapshotID == "" {
		opts.filterID, prompted, err = resolveFilterID(opts.filterID, cfg, opts.interactive)
		if err != nil {
			return err
		}
	}

	outputDir := resolveOutputDir(opts.outputDir, cfg)
	if prompted && opts.outputDir == "" {
		if outputDir, err = ui.PromptOutputDir(outputDir); err != nil {
			return err
		}
	}

	issues, err := loadIssues(ctx, cfg, opts)
	if err != nil {
		return err
	}

	release := p.Process(issues, now)

	files, err := p.WriteOutputs(release, outputDir, format, now)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, ui.RenderSummary(release, files))

	if !opts.publish {
		return nil
	}

	tag := opts.tag
	if tag == "" {
		if release.GlobalVersion == pipeline.UnknownGlobalVersion {
			return fmt.Errorf("no global version found, use --tag to name the release")
		}
		tag = release.GlobalVersion
	}
	return publishRelease(ctx, out, cfg.GitHub.Repository, publishInput{
		tag:         tag,
		name:        p.Layout().Title(release),
		body:        p.Markdown(release),
		interactive: opts.interactive,
	})
}

// resolveFilterID returns the filter id from the argument, the configuration
// or a prompt. It reports whether the user was prompted.
func resolveFilterID(arg string, cfg *config.Config, interactive bool) (string, bool, error) {
	if id := strings.TrimSpace(arg); id != "" {
		return id, false, nil
	}
	if id := strings.TrimSpace(cfg.Defaults.FilterID); id != "" {
		return id, false, nil
	}
	if interactive {
		id, err := ui.PromptFilterID("")
		if err != nil {
			return "", false, err
		}
		if id != "" {
			return id, true, nil
		}
	}
	return "", false, fmt.Errorf("filter id is required (pass it as an argument or set defaults.filter_id)")
}

func resolveOutputDir(flag string, cfg *config.Config) string {
	if dir := strings.TrimSpace(flag); dir != "" {
		return dir
	}
	if dir := strings.TrimSpace(cfg.Defaults.OutputDir); dir != "" {
		return dir
	}
	return "."
}

// loadIssues reads the batch from a snapshot or from JIRA.
func loadIssues(ctx context.Context, cfg *config.Config, opts generateOptions) ([]models.Issue, error) {
	if opts.snapshotID != "" || opts.offline {
		store, err := snapshot.Open(cfg.Snapshots.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open snapshot store: %w", err)
		}
		defer store.Close()

		var snap snapshot.Snapshot
		if opts.snapshotID != "" {
			snap, err = store.Get(ctx, opts.snapshotID)
		} else {
			snap, err = store.Latest(ctx, opts.filterID)
		}
		if err != nil {
			return nil, err
		}

		logging.Info("using stored snapshot",
			"snapshot_id", snap.ID,
			"filter_id", snap.FilterID,
			"created_at", snap.CreatedAt,
			"issue_count", snap.IssueCount)
		return snap.Issues, nil
	}

	creds, err := resolveJiraCredentials(config.LoadCredentials(), opts)
	if err != nil {
		return nil, err
	}

	client, err := jira.NewClient(cfg.Jira, creds)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize jira client: %w", err)
	}
	logging.Info("connecting to jira", "server_url", cfg.Jira.ServerURL, "auth", string(client.Auth()))
	if _, err := client.CheckConnection(ctx); err != nil {
		return nil, err
	}

	jql, issues, err := client.FetchFilterIssues(ctx, opts.filterID)
	if err != nil {
		return nil, err
	}

	if cfg.Snapshots.Enabled && !opts.noSave {
		saveSnapshot(ctx, cfg.Snapshots.Path, opts.filterID, jql, issues)
	}
	return issues, nil
}

// saveSnapshot stores a fetched batch. A failure only costs the snapshot.
func saveSnapshot(ctx context.Context, path, filterID, jql string, issues []models.Issue) {
	store, err := snapshot.Open(path)
	if err != nil {
		logging.Warn("failed to open snapshot store", "path", path, "error", err)
		return
	}
	defer store.Close()

	if _, err := store.Save(ctx, filterID, jql, issues); err != nil {
		logging.Warn("failed to save snapshot", "filter_id", filterID, "error", err)
	}
}

// resolveJiraCredentials fills missing JIRA secrets from the keyring and,
// on a terminal, a prompt. The keyring is only opened when the environment
// holds neither a cookie nor a token.
func resolveJiraCredentials(creds config.Credentials, opts generateOptions) (config.Credentials, error) {
	if config.ValidateJiraCredentials(creds) == nil {
		return creds, nil
	}

	resolver := credential.Resolver{}
	store, err := openCredentialStore()
	if err != nil {
		logging.Warn("keyring unavailable", "error", err)
	} else {
		resolver.Store = store
	}
	if opts.interactive {
		resolver.Prompt = ui.PromptSecret
	}

	creds, resolved, err := resolver.ResolveJira(creds)
	if err != nil {
		return creds, err
	}

	for _, r := range resolved {
		logging.Debug("jira credential resolved", "key", r.Key, "source", string(r.Source))
		if r.Source == credential.SourcePrompt && opts.saveCredentials && resolver.Store != nil {
			if err := resolver.Store.Set(r.Key, r.Value); err != nil {
				logging.Warn("failed to store credential", "key", r.Key, "error", err)
			} else {
				logging.Info("credential stored in keyring", "key", r.Key)
			}
		}
	}

	return creds, config.ValidateJiraCredentials(creds)
}
