package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielolaszy/relnotes/internal/grouping"
	"github.com/danielolaszy/relnotes/internal/snapshot"
)

func TestValidateFilterID(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "number", input: "12345"},
		{name: "padded number", input: " 42 "},
		{name: "empty", input: "  ", wantErr: true},
		{name: "not a number", input: "abc", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateFilterID(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRenderSummary(t *testing.T) {
	release := grouping.Release{
		GlobalVersion: "2.5.0",
		CurrentDate:   "2026-10-19",
		Summary:       []grouping.SummaryEntry{{Prefix: "IN", Name: "Integration Service", Version: "2.5.0"}},
		Sections: []*grouping.SectionResult{
			grouping.NewSectionResult(grouping.Section{ID: "changes", Title: "Changes"}),
		},
	}

	out := RenderSummary(release, []string{"out/Release_Notes_2.5.0.md"})

	assert.Contains(t, out, "Release notes generated")
	assert.Contains(t, out, "2.5.0")
	assert.Contains(t, out, "2026-10-19")
	assert.Contains(t, out, "Changes")
	assert.Contains(t, out, "0 issues")
	assert.Contains(t, out, "out/Release_Notes_2.5.0.md")

	assert.Contains(t, RenderSummary(release, nil), "No files written.")
}

func TestRenderSnapshots(t *testing.T) {
	assert.Contains(t, RenderSnapshots(nil), "No snapshots stored.")

	out := RenderSnapshots([]snapshot.Snapshot{{
		ID:         "0b7c",
		FilterID:   "10",
		IssueCount: 3,
		CreatedAt:  time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
	}})

	assert.Contains(t, out, "0b7c")
	assert.Contains(t, out, "filter 10")
	assert.Contains(t, out, "3 issues")
}

func TestConfirmField(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "yes", input: "y\n", expected: true},
		{name: "long yes", input: "YES\n", expected: true},
		{name: "no", input: "n\n"},
		{name: "empty defaults to no", input: "\n"},
		{name: "invalid answer is asked again", input: "maybe\nyes\n", expected: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var ok bool
			var out bytes.Buffer
			err := confirmField("Overwrite config.yaml?", &ok).RunAccessible(&out, strings.NewReader(tc.input))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ok)
			assert.Contains(t, out.String(), "Overwrite config.yaml?")
		})
	}
}
