package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/relnotes/internal/config"
	"github.com/danielolaszy/relnotes/internal/credential"
	"github.com/danielolaszy/relnotes/internal/github"
	"github.com/danielolaszy/relnotes/internal/logging"
	"github.com/danielolaszy/relnotes/internal/ui"
)

type publishInput struct {
	tag         string
	name        string
	body        string
	draft       bool
	interactive bool
}

var publishCmd = &cobra.Command{
	Use:   "publish <markdown-file>",
	Short: "Publish release notes as a GitHub release",
	Long: `Publish a generated Markdown file as the body of a GitHub release.

The release with the given tag is updated when it exists and created otherwise.
The repository comes from --repository or github.repository in the
configuration. The token comes from GITHUB_TOKEN, then the keyring, then a
prompt. GITHUB_DOMAIN selects a GitHub Enterprise server.

Example:
  relnotes publish out/ReleaseNotes_2.5.0_2026-10-19.md --tag v2.5.0 -r owner/repo`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		tag, err := flags.GetString("tag")
		if err != nil {
			return err
		}
		repository, err := flags.GetString("repository")
		if err != nil {
			return err
		}
		name, err := flags.GetString("name")
		if err != nil {
			return err
		}
		draft, err := flags.GetBool("draft")
		if err != nil {
			return err
		}

		if repository == "" {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			repository = cfg.GitHub.Repository
		}

		body, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read release notes: %w", err)
		}
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}

		return publishRelease(cmd.Context(), cmd.OutOrStdout(), repository, publishInput{
			tag:         tag,
			name:        name,
			body:        string(body),
			draft:       draft,
			interactive: ui.Interactive(),
		})
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
	publishCmd.Flags().StringP("tag", "t", "", "release tag (required)")
	publishCmd.Flags().StringP("repository", "r", "", "GitHub repository (e.g., 'owner/repo')")
	publishCmd.Flags().String("name", "", "release name (default is the file name)")
	publishCmd.Flags().Bool("draft", false, "create the release as a draft")
}

func publishRelease(ctx context.Context, out io.Writer, repository string, in publishInput) error {
	if in.tag == "" {
		return fmt.Errorf("release tag is required")
	}
	if repository == "" {
		return fmt.Errorf("repository is required (use --repository or set github.repository)")
	}

	creds, err := resolveGitHubToken(config.LoadCredentials(), in.interactive)
	if err != nil {
		return err
	}

	client, err := github.NewClient(ctx, creds.GitHubToken, creds.GitHubDomain)
	if err != nil {
		return fmt.Errorf("failed to initialize github client: %w", err)
	}

	url, err := client.PublishRelease(ctx, repository, github.ReleaseInput{
		Tag:   in.tag,
		Name:  in.name,
		Body:  in.body,
		Draft: in.draft,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Release %s published: %s\n", in.tag, url)
	return nil
}

func resolveGitHubToken(creds config.Credentials, interactive bool) (config.Credentials, error) {
	if creds.GitHubToken != "" {
		return creds, nil
	}

	resolver := credential.Resolver{}
	if store, err := openCredentialStore(); err != nil {
		logging.Warn("keyring unavailable", "error", err)
	} else {
		resolver.Store = store
	}
	if interactive {
		resolver.Prompt = ui.PromptSecret
	}

	creds, _, err := resolver.ResolveGitHub(creds)
	if err != nil {
		return creds, err
	}
	if creds.GitHubToken == "" {
		return creds, fmt.Errorf("missing required environment variables: [GITHUB_TOKEN]")
	}
	return creds, nil
}
