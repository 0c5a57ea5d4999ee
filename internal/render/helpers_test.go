package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danielolaszy/relnotes/internal/classify"
	"github.com/danielolaszy/relnotes/internal/grouping"
	"github.com/danielolaszy/relnotes/internal/version"
	"github.com/danielolaszy/relnotes/pkg/models"
)

var testSections = []grouping.Section{
	{
		ID:               "changes",
		Title:            "Changes",
		SourceFieldID:    "customfield_1",
		GroupByIssueType: true,
		Template:         "{key}: {summary}\n{content}",
	},
	{
		ID:               "all",
		Title:            "All",
		SourceFieldID:    "customfield_1",
		GroupingDisabled: true,
		Template:         "{key} [{linked_microservices_names}]",
	},
	{
		ID:               "empty",
		Title:            "Empty",
		SourceFieldID:    "customfield_9",
		GroupingDisabled: true,
		Template:         "{key}",
	},
	{
		ID:            "broken",
		Title:         "Broken",
		SourceFieldID: "customfield_1",
	},
}

var testIssues = []string{
	`{"key": "P-2", "fields": {
		"summary": "Second", "issuetype": {"name": "Bug"},
		"customfield_1": "Line A\n\nLine B",
		"fixVersions": [{"name": "2.5.0 (global)"}, {"name": "IN2.5.0"}]}}`,
	`{"key": "P-1", "fields": {
		"summary": "First", "issuetype": {"name": "Story"},
		"customfield_1": "Only",
		"fixVersions": [{"name": "IN2.5.1"}, {"name": "PAY1.0"}]}}`,
}

var testLayout = Layout{
	Table: SummaryTable{
		Enabled: true,
		Title:   "Components",
		Columns: []Column{
			{Header: "Component", ValueTemplate: "{name}"},
			{Header: "Version", ValueTemplate: "{version}"},
		},
	},
}

func buildRelease(t *testing.T, sections []grouping.Section, docs ...string) grouping.Release {
	t.Helper()
	matcher := version.NewMatcher([]string{`^(.*?)\s*\(global\)$`}, version.ComponentPattern{
		Pattern:      `^([A-Z]+)(\d+\.\d+(?:\.\d+)?)$`,
		PrefixGroup:  1,
		VersionGroup: 2,
		Mapping:      map[string]string{"IN": "Integration Service", "PAY": "Payments"},
	})
	c := classify.New(classify.Options{}, matcher)

	var issues []classify.ClassifiedIssue
	for _, doc := range docs {
		var issue models.Issue
		require.NoError(t, json.Unmarshal([]byte(doc), &issue))
		issues = append(issues, c.Classify(issue))
	}

	results, summary := grouping.Group(sections, issues)
	return grouping.Release{
		GlobalVersion: "2.5.0",
		CurrentDate:   "2026-10-19",
		Summary:       summary.Entries(),
		Sections:      results,
	}
}
