package snapshot

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielolaszy/relnotes/pkg/models"
)

// newTestStore opens an in-memory store whose clock advances one hour per
// saved snapshot.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, s.Close())
	})

	clock := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Hour)
		return clock
	}
	return s
}

func testIssues(keys ...string) []models.Issue {
	issues := make([]models.Issue, 0, len(keys))
	for _, k := range keys {
		issues = append(issues, models.Issue{
			Key: k,
			Fields: map[string]models.RawValue{
				"summary":     models.String("Summary of " + k),
				"issuetype":   models.Object(map[string]models.RawValue{"name": models.String("Bug")}),
				"fixVersions": models.List(models.Object(map[string]models.RawValue{"name": models.String("IN2.5.0")})),
			},
		})
	}
	return issues
}

func TestSaveAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, "10", "project = PROJ", testIssues("PROJ-1", "PROJ-2"))
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, 2, saved.IssueCount)

	got, err := s.Get(ctx, saved.ID)
	require.NoError(t, err)

	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "10", got.FilterID)
	assert.Equal(t, "project = PROJ", got.JQL)
	assert.True(t, saved.CreatedAt.Equal(got.CreatedAt))
	require.Len(t, got.Issues, 2)
	assert.Equal(t, "PROJ-1", got.Issues[0].Key)
	assert.Equal(t, "Summary of PROJ-1", got.Issues[0].Field("summary").Text())
	assert.Equal(t, "Bug", got.Issues[0].Field("issuetype").Str("name"))
	assert.Equal(t, []string{"IN2.5.0"}, got.Issues[1].VersionLabels())
}

func TestSaveEmptyBatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, "10", "", nil)
	require.NoError(t, err)

	got, err := s.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Issues)
	assert.Equal(t, 0, got.IssueCount)
}

func TestLatest(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, "10", "first", testIssues("PROJ-1"))
	require.NoError(t, err)
	second, err := s.Save(ctx, "10", "second", testIssues("PROJ-2"))
	require.NoError(t, err)
	_, err = s.Save(ctx, "20", "other", testIssues("OTHER-1"))
	require.NoError(t, err)

	latest, err := s.Latest(ctx, "10")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, "second", latest.JQL)
	require.Len(t, latest.Issues, 1)
	assert.Equal(t, "PROJ-2", latest.Issues[0].Key)

	_, err = s.Latest(ctx, "30")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var ids []string
	for _, filter := range []string{"10", "20", "10", "10"} {
		snap, err := s.Save(ctx, filter, "jql", testIssues("PROJ-1"))
		require.NoError(t, err)
		ids = append(ids, snap.ID)
	}

	testCases := []struct {
		name     string
		filterID string
		limit    int
		expected []string
	}{
		{name: "all filters", expected: []string{ids[3], ids[2], ids[1], ids[0]}},
		{name: "one filter", filterID: "10", expected: []string{ids[3], ids[2], ids[0]}},
		{name: "limited", filterID: "10", limit: 2, expected: []string{ids[3], ids[2]}},
		{name: "unknown filter", filterID: "99"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			list, err := s.List(ctx, tc.filterID, tc.limit)
			require.NoError(t, err)

			var got []string
			for _, snap := range list {
				got = append(got, snap.ID)
				assert.Nil(t, snap.Issues)
				assert.Equal(t, 1, snap.IssueCount)
			}
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	snap, err := s.Save(ctx, "10", "jql", testIssues("PROJ-1"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, snap.ID))

	_, err = s.Get(ctx, snap.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, snap.ID), ErrNotFound)
}

func TestOpenFileReappliesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "snapshots.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	snap, err := s.Save(ctx, "10", "jql", testIssues("PROJ-1"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	var version int
	require.NoError(t, reopened.db.Get(&version, "SELECT MAX(version) FROM schema_version"))
	assert.Equal(t, len(migrations), version)

	got, err := reopened.Get(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, "PROJ-1", got.Issues[0].Key)
}
