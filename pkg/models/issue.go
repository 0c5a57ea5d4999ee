// Package models defines data structures shared across the application.
package models

import (
	"encoding/json"
	"fmt"
)

// Issue is one tracker ticket as returned by a search.
type Issue struct {
	// Key is the ticket identifier (e.g., "PROJ-123")
	Key string

	// Fields maps field ids (e.g., "summary", "customfield_10100") to raw values
	Fields map[string]RawValue
}

type issueJSON struct {
	Key    string              `json:"key"`
	Fields map[string]RawValue `json:"fields"`
}

// UnmarshalJSON decodes the tracker's {"key": ..., "fields": {...}} shape.
func (i *Issue) UnmarshalJSON(data []byte) error {
	var aux issueJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("failed to decode issue: %w", err)
	}
	i.Key = aux.Key
	i.Fields = aux.Fields
	return nil
}

// MarshalJSON encodes the issue back into the tracker's shape.
func (i Issue) MarshalJSON() ([]byte, error) {
	return json.Marshal(issueJSON{Key: i.Key, Fields: i.Fields})
}

// Field returns the raw value of a field, or Null when absent.
func (i Issue) Field(id string) RawValue {
	return i.Fields[id]
}

// VersionLabels returns the non-empty fixVersions names in their original order.
func (i Issue) VersionLabels() []string {
	var labels []string
	for _, item := range i.Field("fixVersions").Items() {
		name := item.Str("name")
		if item.IsString() {
			name = item.Text()
		}
		if name == "" {
			continue
		}
		labels = append(labels, name)
	}
	return labels
}

// VersionLabels flattens the version labels of a batch, issue by issue.
func VersionLabels(issues []Issue) []string {
	var labels []string
	for _, issue := range issues {
		labels = append(labels, issue.VersionLabels()...)
	}
	return labels
}
