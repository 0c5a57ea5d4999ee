package render

import (
	"strings"

	"github.com/danielolaszy/relnotes/internal/grouping"
	"github.com/danielolaszy/relnotes/internal/logging"
)

// MarkdownOptions control heading depths and the list marker.
type MarkdownOptions struct {
	MainTitleLevel      int
	TableTitleLevel     int
	SectionTitleLevel   int
	ComponentGroupLevel int
	IssueTypeGroupLevel int
	ListMarker          string
}

// DefaultMarkdownOptions returns the standard heading layout.
func DefaultMarkdownOptions() MarkdownOptions {
	return MarkdownOptions{
		MainTitleLevel:      1,
		TableTitleLevel:     2,
		SectionTitleLevel:   2,
		ComponentGroupLevel: 3,
		IssueTypeGroupLevel: 4,
		ListMarker:          "-",
	}
}

func (o MarkdownOptions) withDefaults() MarkdownOptions {
	d := DefaultMarkdownOptions()
	if o.MainTitleLevel < 1 {
		o.MainTitleLevel = d.MainTitleLevel
	}
	if o.TableTitleLevel < 1 {
		o.TableTitleLevel = d.TableTitleLevel
	}
	if o.SectionTitleLevel < 1 {
		o.SectionTitleLevel = d.SectionTitleLevel
	}
	if o.ComponentGroupLevel < 1 {
		o.ComponentGroupLevel = d.ComponentGroupLevel
	}
	if o.IssueTypeGroupLevel < 1 {
		o.IssueTypeGroupLevel = d.IssueTypeGroupLevel
	}
	if o.ListMarker == "" {
		o.ListMarker = d.ListMarker
	}
	return o
}

// Markdown renders the release as a Markdown document.
func Markdown(release grouping.Release, layout Layout, opts MarkdownOptions) string {
	opts = opts.withDefaults()
	var b strings.Builder

	writeHeading(&b, layout.Title(release), opts.MainTitleLevel)

	if headers, rows, ok := layout.tableCells(release.Summary); ok {
		writeHeading(&b, layout.Table.Title, opts.TableTitleLevel)
		writeTable(&b, headers, rows)
	}

	for _, sec := range release.Sections {
		writeHeading(&b, sec.Section.Title, opts.SectionTitleLevel)

		if sec.Section.Template == "" {
			logging.Warn("section has no issue template", "section_id", sec.Section.ID)
			b.WriteString(opts.ListMarker + " " + MissingTemplateText + "\n\n")
			continue
		}

		if sec.Mode() == grouping.ModeFlat {
			issues := sec.Issues()
			if len(issues) == 0 {
				b.WriteString(opts.ListMarker + " " + NoIssuesText + "\n\n")
				continue
			}
			for _, issue := range issues {
				writeItem(&b, nonBlankLines(Expand(sec.Section.Template, issue.Data())), opts.ListMarker)
			}
			b.WriteString("\n")
			continue
		}

		for _, name := range sec.ComponentNames() {
			blocks := componentBlocks(sec, sec.Component(name))
			if len(blocks) == 0 {
				continue
			}
			writeHeading(&b, name, opts.ComponentGroupLevel)
			for _, block := range blocks {
				if block.heading != "" {
					writeHeading(&b, block.heading, opts.IssueTypeGroupLevel)
					continue
				}
				writeItem(&b, block.lines, opts.ListMarker)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

func writeHeading(b *strings.Builder, text string, level int) {
	if text == "" {
		return
	}
	b.WriteString(strings.Repeat("#", level))
	b.WriteString(" ")
	b.WriteString(text)
	b.WriteString("\n")
}

func writeTable(b *strings.Builder, headers []string, rows [][]string) {
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteString("|" + strings.Join(sep, "|") + "|\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	b.WriteString("\n")
}

// writeItem writes one issue as a list item. Continuation lines are indented
// by two spaces.
func writeItem(b *strings.Builder, lines []string, marker string) {
	for i, line := range lines {
		if i == 0 {
			b.WriteString(marker + " " + line + "\n")
			continue
		}
		b.WriteString("  " + line + "\n")
	}
}
