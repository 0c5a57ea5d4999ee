package credential

import (
	"errors"
	"strings"

	"github.com/danielolaszy/relnotes/internal/config"
	"github.com/danielolaszy/relnotes/internal/logging"
)

// Source tells where a credential value came from.
type Source string

const (
	SourceEnv     Source = "environment"
	SourceKeyring Source = "keyring"
	SourcePrompt  Source = "prompt"
	SourceNone    Source = "not set"
)

// Resolved is a credential value and its origin.
type Resolved struct {
	Key    string
	Value  string
	Source Source
}

// PromptFunc asks the user for a secret.
type PromptFunc func(title string) (string, error)

// Resolver looks a credential up in the environment, then the keyring, then
// through Prompt. A nil Store or Prompt skips that step.
type Resolver struct {
	Store  *Store
	Prompt PromptFunc
}

// Resolve returns the first non-empty value for key. envValue is the value
// already read from the environment.
func (r Resolver) Resolve(key, envValue, title string) (Resolved, error) {
	if v := strings.TrimSpace(envValue); v != "" {
		return Resolved{Key: key, Value: v, Source: SourceEnv}, nil
	}

	if r.Store != nil {
		v, err := r.Store.Get(key)
		switch {
		case err == nil && strings.TrimSpace(v) != "":
			logging.Debug("credential loaded from keyring", "key", key)
			return Resolved{Key: key, Value: strings.TrimSpace(v), Source: SourceKeyring}, nil
		case err != nil && !errors.Is(err, ErrNotFound):
			logging.Warn("failed to read keyring", "key", key, "error", err)
		}
	}

	if r.Prompt != nil {
		v, err := r.Prompt(title)
		if err != nil {
			return Resolved{}, err
		}
		if v = strings.TrimSpace(v); v != "" {
			return Resolved{Key: key, Value: v, Source: SourcePrompt}, nil
		}
	}

	return Resolved{Key: key, Source: SourceNone}, nil
}

// ResolveJira fills the JIRA cookie and token of creds. The prompt is only
// used for the cookie, and only when neither the cookie nor the token is
// available from the environment or the keyring.
func (r Resolver) ResolveJira(creds config.Credentials) (config.Credentials, []Resolved, error) {
	quiet := Resolver{Store: r.Store}

	token, err := quiet.Resolve(KeyJiraToken, creds.JiraToken, "")
	if err != nil {
		return creds, nil, err
	}

	cookieResolver := quiet
	if token.Value == "" {
		cookieResolver.Prompt = r.Prompt
	}
	cookie, err := cookieResolver.Resolve(KeyJiraCookie, creds.JiraCookie, "JIRA cookie string")
	if err != nil {
		return creds, nil, err
	}

	creds.JiraCookie = cookie.Value
	creds.JiraToken = token.Value
	return creds, []Resolved{cookie, token}, nil
}

// ResolveGitHub fills the GitHub token of creds.
func (r Resolver) ResolveGitHub(creds config.Credentials) (config.Credentials, Resolved, error) {
	token, err := r.Resolve(KeyGitHubToken, creds.GitHubToken, "GitHub token")
	if err != nil {
		return creds, Resolved{}, err
	}
	creds.GitHubToken = token.Value
	return creds, token, nil
}

// EnvValue returns the environment value of a keyring key.
func EnvValue(creds config.Credentials, key string) string {
	switch key {
	case KeyJiraCookie:
		return creds.JiraCookie
	case KeyJiraToken:
		return creds.JiraToken
	case KeyGitHubToken:
		return creds.GitHubToken
	default:
		return ""
	}
}
