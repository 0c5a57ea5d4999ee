// Package classify turns raw tracker issues into flat, template-ready field maps.
package classify

import (
	"sort"
	"strings"

	"github.com/danielolaszy/relnotes/internal/logging"
	"github.com/danielolaszy/relnotes/internal/version"
	"github.com/danielolaszy/relnotes/pkg/models"
)

// Defaults for Options fields left empty.
const (
	DefaultClientFieldID = "customfield_12902"
	DefaultLinksLabel    = "Related issues: "
	DefaultClientLabel   = "Client: "
	DefaultSummary       = "Untitled"
)

// Options configure a Classifier.
type Options struct {
	// ExcludeIssueTypes lists issue type names dropped before any processing
	ExcludeIssueTypes []string

	// LinkProjectPrefixes restricts formatted links to these target projects
	LinkProjectPrefixes []string

	// ClientFieldID is the field holding the client name
	ClientFieldID string

	// LinksLabel prefixes formatted_issuelinks
	LinksLabel string

	// ClientLabel prefixes formatted_client_info
	ClientLabel string
}

// ClassifiedIssue is the flat view of one issue used for rendering.
type ClassifiedIssue struct {
	Key     string
	Summary string

	// IssueType is the issue type name, or "" when the issue has none
	IssueType string

	// Values holds every template field with a displayable value; fields
	// that are null are absent.
	Values map[string]string

	// Components are the component versions parsed from the issue's labels.
	Components []version.ComponentVersion

	source models.Issue
}

// Data returns the placeholder values of the issue.
func (c ClassifiedIssue) Data() map[string]string {
	return c.Values
}

// ForSection returns a copy of the issue scoped to a section whose content
// comes from sourceFieldID. It returns false when that field is null.
func (c ClassifiedIssue) ForSection(sourceFieldID string) (ClassifiedIssue, bool) {
	raw := c.source.Field(sourceFieldID)
	if raw.IsNull() {
		return ClassifiedIssue{}, false
	}

	values := make(map[string]string, len(c.Values)+1)
	for k, v := range c.Values {
		values[k] = v
	}
	delete(values, ContentField)
	if content, ok := Display(sourceFieldID, raw); ok {
		values[ContentField] = content
	}

	scoped := c
	scoped.Values = values
	return scoped, true
}

// Classifier derives ClassifiedIssues from raw issues.
type Classifier struct {
	opts    Options
	matcher *version.Matcher
	exclude map[string]bool
}

// New creates a Classifier. Empty option strings take their defaults.
func New(opts Options, matcher *version.Matcher) *Classifier {
	if opts.ClientFieldID == "" {
		opts.ClientFieldID = DefaultClientFieldID
	}
	if opts.LinksLabel == "" {
		opts.LinksLabel = DefaultLinksLabel
	}
	if opts.ClientLabel == "" {
		opts.ClientLabel = DefaultClientLabel
	}

	exclude := make(map[string]bool, len(opts.ExcludeIssueTypes))
	for _, t := range opts.ExcludeIssueTypes {
		if t = strings.TrimSpace(t); t != "" {
			exclude[t] = true
		}
	}

	return &Classifier{opts: opts, matcher: matcher, exclude: exclude}
}

// Accept reports whether an issue takes part in processing at all. Issues
// without a key or fields, and issues of an excluded type, are rejected.
func (c *Classifier) Accept(issue models.Issue) bool {
	if issue.Key == "" {
		logging.Warn("issue without key skipped", "field_count", len(issue.Fields))
		return false
	}
	if len(issue.Fields) == 0 {
		logging.Warn("issue without fields skipped", "issue_key", issue.Key)
		return false
	}
	if typeName, ok := Display(FieldIssueType, issue.Field(FieldIssueType)); ok && c.exclude[typeName] {
		logging.Debug("issue excluded by type", "issue_key", issue.Key, "issue_type", typeName)
		return false
	}
	return true
}

// Classify builds the section-independent view of an accepted issue.
func (c *Classifier) Classify(issue models.Issue) ClassifiedIssue {
	values := map[string]string{KeyField: issue.Key}

	for id, raw := range issue.Fields {
		if id == KeyField || id == FieldIssueLinks || id == FieldFixVersions {
			continue
		}
		if text, ok := Display(id, raw); ok {
			values[TemplateName(id)] = text
		}
	}

	if _, ok := values[SummaryField]; !ok {
		values[SummaryField] = DefaultSummary
	}

	links, hasLinks := FormatLinks(issue.Field(FieldIssueLinks), c.opts.LinkProjectPrefixes, c.opts.LinksLabel)
	if hasLinks {
		values[FormattedLinksField] = links
	}

	client, hasClient := ParseClientName(issue.Field(c.opts.ClientFieldID))
	if hasClient {
		values[ClientNameField] = client
	}
	if hasClient && hasLinks {
		values[FormattedClientField] = c.opts.ClientLabel + client
	}

	var components []version.ComponentVersion
	if c.matcher != nil {
		labels := issue.VersionLabels()
		components = c.matcher.ParseComponentVersions(labels, c.matcher.RawGlobalStrings(labels))
	}
	if names := componentNames(components); names != "" {
		values[LinkedComponentsField] = names
	}

	logging.Debug("issue classified",
		"issue_key", issue.Key,
		"has_links", hasLinks,
		"client_name", client,
		"component_count", len(components))

	return ClassifiedIssue{
		Key:        issue.Key,
		Summary:    values[SummaryField],
		IssueType:  values[IssueTypeNameField],
		Values:     values,
		Components: components,
		source:     issue,
	}
}

// componentNames joins the distinct component names in sorted order.
func componentNames(components []version.ComponentVersion) string {
	seen := make(map[string]bool, len(components))
	var names []string
	for _, cv := range components {
		if seen[cv.Name] {
			continue
		}
		seen[cv.Name] = true
		names = append(names, cv.Name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
