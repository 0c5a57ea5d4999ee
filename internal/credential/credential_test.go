package credential

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielolaszy/relnotes/internal/config"
)

func newTestStore(items ...keyring.Item) *Store {
	return NewStore(keyring.NewArrayKeyring(items))
}

func TestStore(t *testing.T) {
	store := newTestStore()

	_, err := store.Get(KeyJiraCookie)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(KeyJiraCookie, "JSESSIONID=abc"))
	value, err := store.Get(KeyJiraCookie)
	require.NoError(t, err)
	assert.Equal(t, "JSESSIONID=abc", value)

	require.NoError(t, store.Remove(KeyJiraCookie))
	_, err = store.Get(KeyJiraCookie)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, store.Remove(KeyJiraCookie))
}

func TestResolve(t *testing.T) {
	prompted := func(value string) PromptFunc {
		return func(string) (string, error) { return value, nil }
	}

	testCases := []struct {
		name     string
		env      string
		stored   []keyring.Item
		prompt   PromptFunc
		expected Resolved
	}{
		{
			name:     "environment wins",
			env:      " from-env ",
			stored:   []keyring.Item{{Key: KeyJiraCookie, Data: []byte("from-ring")}},
			prompt:   prompted("from-prompt"),
			expected: Resolved{Key: KeyJiraCookie, Value: "from-env", Source: SourceEnv},
		},
		{
			name:     "keyring before prompt",
			stored:   []keyring.Item{{Key: KeyJiraCookie, Data: []byte("from-ring")}},
			prompt:   prompted("from-prompt"),
			expected: Resolved{Key: KeyJiraCookie, Value: "from-ring", Source: SourceKeyring},
		},
		{
			name:     "prompt as last resort",
			prompt:   prompted("from-prompt"),
			expected: Resolved{Key: KeyJiraCookie, Value: "from-prompt", Source: SourcePrompt},
		},
		{
			name:     "blank prompt answer",
			prompt:   prompted("  "),
			expected: Resolved{Key: KeyJiraCookie, Source: SourceNone},
		},
		{
			name:     "nothing available",
			expected: Resolved{Key: KeyJiraCookie, Source: SourceNone},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := Resolver{Store: newTestStore(tc.stored...), Prompt: tc.prompt}

			got, err := r.Resolve(KeyJiraCookie, tc.env, "JIRA cookie string")
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestResolvePromptError(t *testing.T) {
	r := Resolver{Prompt: func(string) (string, error) { return "", errors.New("aborted") }}

	_, err := r.Resolve(KeyJiraCookie, "", "JIRA cookie string")
	assert.EqualError(t, err, "aborted")
}

func TestResolveJira(t *testing.T) {
	prompts := 0
	prompt := func(string) (string, error) {
		prompts++
		return "JSESSIONID=prompted", nil
	}

	testCases := []struct {
		name    string
		creds   config.Credentials
		stored  []keyring.Item
		cookie  string
		token   string
		prompts int
	}{
		{
			name:   "token in keyring skips cookie prompt",
			stored: []keyring.Item{{Key: KeyJiraToken, Data: []byte("pat")}},
			token:  "pat",
		},
		{
			name:   "cookie from environment",
			creds:  config.Credentials{JiraCookie: "JSESSIONID=env"},
			cookie: "JSESSIONID=env",
		},
		{
			name:    "prompts for cookie when nothing is stored",
			cookie:  "JSESSIONID=prompted",
			prompts: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			prompts = 0
			r := Resolver{Store: newTestStore(tc.stored...), Prompt: prompt}

			creds, resolved, err := r.ResolveJira(tc.creds)
			require.NoError(t, err)

			assert.Equal(t, tc.cookie, creds.JiraCookie)
			assert.Equal(t, tc.token, creds.JiraToken)
			assert.Len(t, resolved, 2)
			assert.Equal(t, tc.prompts, prompts)
		})
	}
}

func TestResolveGitHub(t *testing.T) {
	r := Resolver{Store: newTestStore(keyring.Item{Key: KeyGitHubToken, Data: []byte("ghp_stored")})}

	creds, resolved, err := r.ResolveGitHub(config.Credentials{GitHubDomain: "github.com"})
	require.NoError(t, err)

	assert.Equal(t, "ghp_stored", creds.GitHubToken)
	assert.Equal(t, SourceKeyring, resolved.Source)
	assert.Equal(t, "github.com", creds.GitHubDomain)
}

func TestEnvValue(t *testing.T) {
	creds := config.Credentials{JiraCookie: "c", JiraToken: "t", GitHubToken: "g"}

	assert.Equal(t, "c", EnvValue(creds, KeyJiraCookie))
	assert.Equal(t, "t", EnvValue(creds, KeyJiraToken))
	assert.Equal(t, "g", EnvValue(creds, KeyGitHubToken))
	assert.Empty(t, EnvValue(creds, "other"))
}
