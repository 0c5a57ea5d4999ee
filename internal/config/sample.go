package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Sample returns a starter configuration written by "relnotes init".
func Sample() *Config {
	cfg := Default()
	cfg.Jira.ServerURL = "https://jira.example.com"
	cfg.Jira.IssueFieldsToRequest = []string{
		"summary", "issuetype", "fixVersions", "issuelinks", "customfield_12902", "customfield_10100",
	}
	cfg.VersionParsing.MicroserviceMapping = map[string]string{
		"IN": "Integration Service",
	}
	cfg.ReleaseNotes.ExcludeIssueTypes = []string{"Sub-task"}
	cfg.ReleaseNotes.Sections = Sections{
		{
			ID:                   "changes",
			Title:                "Changes",
			SourceCustomFieldID:  "customfield_10100",
			GroupByIssueType:     true,
			IssueDisplayTemplate: "{key}: {summary}\n{content}",
		},
		{
			ID:                   "all_issues",
			Title:                "All Issues",
			SourceCustomFieldID:  "summary",
			DisableGrouping:      true,
			IssueDisplayTemplate: "{key} ({issuetype_name}): {summary}",
		},
	}
	return cfg
}

// Encode renders a configuration as YAML with two-space indentation.
func Encode(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}
