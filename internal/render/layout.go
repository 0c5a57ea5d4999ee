package render

import (
	"github.com/danielolaszy/relnotes/internal/grouping"
)

// Placeholder texts for sections that cannot list issues.
const (
	MissingTemplateText = "*Issue display configuration is missing.*"
	NoIssuesText        = "*No issues to display in this section.*"
)

// DefaultTitleTemplate is used when Layout.TitleTemplate is empty.
const DefaultTitleTemplate = "Release Notes - {global_version} - {current_date}"

// Column is one column of the component summary table.
type Column struct {
	Header string

	// ValueTemplate is expanded against SummaryEntry.Data
	ValueTemplate string
}

// SummaryTable configures the component summary table.
type SummaryTable struct {
	Enabled bool
	Title   string
	Columns []Column
}

// Layout holds the parts shared by every output format.
type Layout struct {
	TitleTemplate string
	Table         SummaryTable
}

// Title expands the document title for a release.
func (l Layout) Title(release grouping.Release) string {
	tpl := l.TitleTemplate
	if tpl == "" {
		tpl = DefaultTitleTemplate
	}
	return Expand(tpl, map[string]string{
		"global_version": release.GlobalVersion,
		"current_date":   release.CurrentDate,
	})
}

// tableCells returns the header row and the body rows of the summary table.
// It returns ok=false when the table must not be rendered.
func (l Layout) tableCells(entries []grouping.SummaryEntry) (headers []string, rows [][]string, ok bool) {
	if !l.Table.Enabled || len(entries) == 0 || len(l.Table.Columns) == 0 {
		return nil, nil, false
	}

	blank := true
	for _, col := range l.Table.Columns {
		headers = append(headers, col.Header)
		if col.Header != "" {
			blank = false
		}
	}
	if blank {
		return nil, nil, false
	}

	for _, e := range entries {
		data := e.Data()
		row := make([]string, len(l.Table.Columns))
		for i, col := range l.Table.Columns {
			row[i] = Expand(col.ValueTemplate, data)
		}
		rows = append(rows, row)
	}
	return headers, rows, true
}

// issueBlock is one heading or one rendered issue inside a component.
type issueBlock struct {
	heading string
	lines   []string
}

// componentBlocks lays out a component bucket: optional issue-type headings,
// each followed by its issues in key order.
func componentBlocks(sec *grouping.SectionResult, bucket *grouping.ComponentBucket) []issueBlock {
	var blocks []issueBlock
	if sec.Section.GroupByIssueType {
		for _, typeName := range bucket.Types() {
			blocks = append(blocks, issueBlock{heading: typeName})
			for _, issue := range bucket.IssuesOfType(typeName) {
				if lines := nonBlankLines(Expand(sec.Section.Template, issue.Data())); len(lines) > 0 {
					blocks = append(blocks, issueBlock{lines: lines})
				}
			}
		}
		return blocks
	}
	for _, issue := range bucket.Untyped() {
		if lines := nonBlankLines(Expand(sec.Section.Template, issue.Data())); len(lines) > 0 {
			blocks = append(blocks, issueBlock{lines: lines})
		}
	}
	return blocks
}
