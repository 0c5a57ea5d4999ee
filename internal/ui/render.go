package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/danielolaszy/relnotes/internal/grouping"
	"github.com/danielolaszy/relnotes/internal/snapshot"
)

const timeLayout = "2006-01-02 15:04"

// RenderSummary describes a finished run: the release header, per-section
// issue counts and the files written.
func RenderSummary(release grouping.Release, files []string) string {
	lines := []string{
		headerStyle.Render("Release notes generated"),
		"",
		row("Version", release.GlobalVersion),
		row("Date", release.CurrentDate),
		row("Components", fmt.Sprintf("%d", len(release.Summary))),
	}

	for _, sec := range release.Sections {
		lines = append(lines, row(sec.Section.Title, fmt.Sprintf("%d issues", sec.IssueCount())))
	}

	lines = append(lines, "")
	if len(files) == 0 {
		lines = append(lines, mutedStyle.Render("No files written."))
	} else {
		lines = append(lines, valueStyle.Render("Files:"))
		for _, f := range files {
			lines = append(lines, fileStyle.Render(f))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderSnapshots lists stored snapshots, newest first.
func RenderSnapshots(list []snapshot.Snapshot) string {
	if len(list) == 0 {
		return mutedStyle.Render("No snapshots stored.")
	}

	lines := []string{headerStyle.Render("Snapshots")}
	for _, s := range list {
		lines = append(lines, fmt.Sprintf("%s  %s  %s  %s",
			valueStyle.Render(s.ID),
			labelStyle.Render("filter "+s.FilterID),
			valueStyle.Render(s.CreatedAt.Local().Format(timeLayout)),
			mutedStyle.Render(fmt.Sprintf("%d issues", s.IssueCount))))
	}
	return strings.Join(lines, "\n")
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}
