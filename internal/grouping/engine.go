package grouping

import (
	"github.com/danielolaszy/relnotes/internal/classify"
	"github.com/danielolaszy/relnotes/internal/logging"
)

// Release is the fully processed input of the renderers.
type Release struct {
	// GlobalVersion is the release version, "N/A" when none was found
	GlobalVersion string

	// CurrentDate is the formatted generation date
	CurrentDate string

	// Summary lists every component seen in grouped sections
	Summary []SummaryEntry

	// Sections follow configuration order
	Sections []*SectionResult
}

// Group distributes issues into the sections, in issue order. It returns the
// section results in the order of sections together with the component
// summary accumulated from grouped sections.
func Group(sections []Section, issues []classify.ClassifiedIssue) ([]*SectionResult, Summary) {
	summary := NewSummary()
	results := make([]*SectionResult, len(sections))
	for i, sec := range sections {
		results[i] = NewSectionResult(sec)
	}

	for _, issue := range issues {
		for _, result := range results {
			scoped, ok := issue.ForSection(result.Section.SourceFieldID)
			if !ok {
				continue
			}

			if result.Mode() == ModeFlat {
				if result.AddFlat(scoped) {
					logging.Debug("issue added to flat section",
						"issue_key", issue.Key,
						"section_id", result.Section.ID)
				}
				continue
			}

			addGrouped(result, scoped, summary)
		}
	}

	return results, summary
}

// addGrouped files the issue once under each distinct component it carries
// and records every component version in the summary.
func addGrouped(result *SectionResult, issue classify.ClassifiedIssue, summary Summary) {
	if len(issue.Components) == 0 {
		if title := result.Section.UnmappedComponentTitle; title != "" {
			result.AddToComponent(title, issue)
			logging.Debug("issue without component filed under fallback",
				"issue_key", issue.Key,
				"section_id", result.Section.ID,
				"component", title)
			return
		}
		logging.Debug("issue without component left out of grouped section",
			"issue_key", issue.Key,
			"section_id", result.Section.ID)
		return
	}

	added := make(map[string]bool, len(issue.Components))
	for _, cv := range issue.Components {
		summary.Add(cv)
		if added[cv.Name] {
			continue
		}
		added[cv.Name] = true
		result.AddToComponent(cv.Name, issue)
		logging.Debug("issue added to component",
			"issue_key", issue.Key,
			"section_id", result.Section.ID,
			"component", cv.Name)
	}
}
