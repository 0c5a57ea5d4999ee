package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/require"

	"github.com/danielolaszy/relnotes/internal/config"
	"github.com/danielolaszy/relnotes/internal/credential"
	"github.com/danielolaszy/relnotes/internal/snapshot"
	"github.com/danielolaszy/relnotes/pkg/models"
)

var testNow = time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC)

// testConfig returns the sample configuration with its snapshot store and
// output directory inside a temporary directory.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Sample()
	cfg.Path = filepath.Join(dir, "config.yaml")
	cfg.Snapshots.Path = filepath.Join(dir, "snapshots.db")
	cfg.Defaults.OutputDir = filepath.Join(dir, "out")
	return cfg
}

func testIssue(key, typeName, change string, versions ...string) models.Issue {
	fixVersions := make([]models.RawValue, 0, len(versions))
	for _, v := range versions {
		fixVersions = append(fixVersions, models.Object(map[string]models.RawValue{"name": models.String(v)}))
	}
	return models.Issue{
		Key: key,
		Fields: map[string]models.RawValue{
			"summary":           models.String("Summary of " + key),
			"issuetype":         models.Object(map[string]models.RawValue{"name": models.String(typeName)}),
			"fixVersions":       models.List(fixVersions...),
			"customfield_10100": models.String(change),
		},
	}
}

func testIssues() []models.Issue {
	return []models.Issue{
		testIssue("P-2", "Bug", "Crash on start", "2.5.0 (global)", "IN2.5.0"),
		testIssue("P-1", "Story", "Export to CSV", "IN2.5.1"),
	}
}

// saveTestSnapshot stores issues for filterID in the configured store.
func saveTestSnapshot(t *testing.T, cfg *config.Config, filterID string, issues []models.Issue) snapshot.Snapshot {
	t.Helper()

	store, err := snapshot.Open(cfg.Snapshots.Path)
	require.NoError(t, err)
	defer store.Close()

	snap, err := store.Save(context.Background(), filterID, "project = PROJ", issues)
	require.NoError(t, err)
	return snap
}

func listTestSnapshots(t *testing.T, cfg *config.Config, filterID string) []snapshot.Snapshot {
	t.Helper()

	store, err := snapshot.Open(cfg.Snapshots.Path)
	require.NoError(t, err)
	defer store.Close()

	list, err := store.List(context.Background(), filterID, 0)
	require.NoError(t, err)
	return list
}

// newFakeJira serves the session check, filter 10 and a single page search.
func newFakeJira(t *testing.T, issues []models.Issue) *httptest.Server {
	t.Helper()

	write := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(v))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/myself", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cookie") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		write(w, map[string]string{"name": "jdoe", "displayName": "John Doe"})
	})
	mux.HandleFunc("/rest/api/2/filter/10", func(w http.ResponseWriter, r *http.Request) {
		write(w, map[string]string{"id": "10", "jql": "project = PROJ"})
	})
	mux.HandleFunc("/rest/api/2/search", func(w http.ResponseWriter, r *http.Request) {
		write(w, map[string]any{"startAt": 0, "maxResults": 50, "total": len(issues), "issues": issues})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// useTestKeyring swaps the system keyring for an in-memory one.
func useTestKeyring(t *testing.T, items ...keyring.Item) *credential.Store {
	t.Helper()

	store := credential.NewStore(keyring.NewArrayKeyring(items))
	original := openCredentialStore
	openCredentialStore = func() (*credential.Store, error) { return store, nil }
	t.Cleanup(func() { openCredentialStore = original })
	return store
}

// clearCredentialEnv hides any credentials of the developer's environment.
func clearCredentialEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"JIRA_COOKIE_STRING", "JIRA_USERNAME", "JIRA_TOKEN", "GITHUB_TOKEN", "GITHUB_DOMAIN"} {
		t.Setenv(name, "")
	}
}
