package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/relnotes/internal/config"
	"github.com/danielolaszy/relnotes/internal/credential"
	"github.com/danielolaszy/relnotes/internal/logging"
	"github.com/danielolaszy/relnotes/internal/ui"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored JIRA and GitHub credentials",
	Long: `Store, remove and inspect the secrets relnotes keeps in the system keyring.

Environment variables (JIRA_COOKIE_STRING, JIRA_TOKEN, GITHUB_TOKEN, also read
from a .env file) always take precedence over stored values.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store credentials in the keyring",
	Long: `Store credentials in the keyring. Values are taken from the flags; without
flags, the JIRA cookie string is prompted for on a terminal.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		values := map[string]string{}
		for flag, key := range map[string]string{
			"cookie":       credential.KeyJiraCookie,
			"token":        credential.KeyJiraToken,
			"github-token": credential.KeyGitHubToken,
		} {
			v, err := cmd.Flags().GetString(flag)
			if err != nil {
				return err
			}
			if v != "" {
				values[key] = v
			}
		}

		if len(values) == 0 {
			if !ui.Interactive() {
				return fmt.Errorf("no credentials given (use --cookie, --token or --github-token)")
			}
			cookie, err := ui.PromptSecret("JIRA cookie string")
			if err != nil {
				return err
			}
			values[credential.KeyJiraCookie] = cookie
		}

		store, err := openCredentialStore()
		if err != nil {
			return err
		}
		return runAuthLogin(cmd.OutOrStdout(), store, values)
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove every stored credential",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCredentialStore()
		if err != nil {
			return err
		}
		return runAuthLogout(cmd.OutOrStdout(), store)
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which credentials are available and where they come from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCredentialStore()
		if err != nil {
			logging.Warn("keyring unavailable", "error", err)
		}
		return runAuthStatus(cmd.OutOrStdout(), store, config.LoadCredentials())
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)

	authLoginCmd.Flags().String("cookie", "", "JIRA session cookie string")
	authLoginCmd.Flags().String("token", "", "JIRA API token or personal access token")
	authLoginCmd.Flags().String("github-token", "", "GitHub token used by publish")
}

func runAuthLogin(out io.Writer, store *credential.Store, values map[string]string) error {
	stored := 0
	for _, key := range credential.Keys {
		v, ok := values[key]
		if !ok || v == "" {
			continue
		}
		if err := store.Set(key, v); err != nil {
			return err
		}
		stored++
		fmt.Fprintf(out, "Stored %s (%s)\n", key, logging.MaskSensitive(v))
	}
	if stored == 0 {
		return fmt.Errorf("no credentials given")
	}
	return nil
}

func runAuthLogout(out io.Writer, store *credential.Store) error {
	for _, key := range credential.Keys {
		if err := store.Remove(key); err != nil {
			return err
		}
	}
	fmt.Fprintln(out, "Stored credentials removed.")
	return nil
}

func runAuthStatus(out io.Writer, store *credential.Store, creds config.Credentials) error {
	resolver := credential.Resolver{Store: store}
	for _, key := range credential.Keys {
		r, err := resolver.Resolve(key, credential.EnvValue(creds, key), "")
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-13s %-12s %s\n", key, logging.MaskSensitive(r.Value), r.Source)
	}
	return nil
}
