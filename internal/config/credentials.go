package config

import (
	"strings"

	"github.com/spf13/viper"
)

// DefaultGitHubDomain is used when GITHUB_DOMAIN is not set.
const DefaultGitHubDomain = "github.com"

// Credentials holds secrets read from the environment.
type Credentials struct {
	JiraCookie   string
	JiraUsername string
	JiraToken    string
	GitHubToken  string
	GitHubDomain string
}

// LoadCredentials initializes and loads credentials from environment variables.
func LoadCredentials() Credentials {
	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("jira.cookie", "JIRA_COOKIE_STRING")
	v.BindEnv("jira.username", "JIRA_USERNAME")
	v.BindEnv("jira.token", "JIRA_TOKEN")
	v.BindEnv("github.token", "GITHUB_TOKEN")
	v.BindEnv("github.domain", "GITHUB_DOMAIN")

	creds := Credentials{
		JiraCookie:   strings.TrimSpace(v.GetString("jira.cookie")),
		JiraUsername: v.GetString("jira.username"),
		JiraToken:    v.GetString("jira.token"),
		GitHubToken:  v.GetString("github.token"),
		GitHubDomain: v.GetString("github.domain"),
	}
	if creds.GitHubDomain == "" {
		creds.GitHubDomain = DefaultGitHubDomain
	}
	return creds
}
