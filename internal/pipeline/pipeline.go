// Package pipeline turns a batch of raw issues into release notes: version
// matching, classification, grouping and rendering, driven by a Config.
package pipeline

import (
	"errors"
	"time"

	docx "github.com/fumiama/go-docx"
	"github.com/ncruces/go-strftime"

	"github.com/danielolaszy/relnotes/internal/classify"
	"github.com/danielolaszy/relnotes/internal/config"
	"github.com/danielolaszy/relnotes/internal/grouping"
	"github.com/danielolaszy/relnotes/internal/logging"
	"github.com/danielolaszy/relnotes/internal/render"
	"github.com/danielolaszy/relnotes/internal/version"
	"github.com/danielolaszy/relnotes/pkg/models"
)

// ErrNoSections is returned when the configuration defines no sections.
var ErrNoSections = errors.New("no sections configured")

// UnknownGlobalVersion is the release version when no label yields one.
const UnknownGlobalVersion = "N/A"

// Pipeline holds the compiled configuration of one run.
type Pipeline struct {
	cfg        *config.Config
	matcher    *version.Matcher
	classifier *classify.Classifier
	sections   []grouping.Section
}

// New compiles the configuration into a Pipeline.
func New(cfg *config.Config) (*Pipeline, error) {
	if len(cfg.ReleaseNotes.Sections) == 0 {
		return nil, ErrNoSections
	}

	vp := cfg.VersionParsing
	matcher := version.NewMatcher(vp.GlobalVersion.ExtractionPatterns, version.ComponentPattern{
		Pattern:      vp.MicroserviceVersion.ExtractionPattern,
		PrefixGroup:  vp.MicroserviceVersion.PrefixGroupIndex,
		VersionGroup: vp.MicroserviceVersion.VersionGroupIndex,
		Mapping:      vp.MicroserviceMapping,
	})

	rn := cfg.ReleaseNotes
	classifier := classify.New(classify.Options{
		ExcludeIssueTypes:   rn.ExcludeIssueTypes,
		LinkProjectPrefixes: rn.FilterIssuelinksByProjectPrefixes,
		ClientFieldID:       rn.ClientFieldID,
		LinksLabel:          rn.IssuelinksLabel,
		ClientLabel:         rn.ClientLabel,
	}, matcher)

	sections := make([]grouping.Section, 0, len(rn.Sections))
	for _, sc := range rn.Sections {
		sections = append(sections, grouping.Section{
			ID:                     sc.ID,
			Title:                  sc.Title,
			SourceFieldID:          sc.SourceCustomFieldID,
			GroupingDisabled:       sc.DisableGrouping,
			GroupByIssueType:       sc.GroupByIssueType,
			Template:               sc.IssueDisplayTemplate,
			UnmappedComponentTitle: sc.UnmappedComponentTitle,
		})
	}

	return &Pipeline{cfg: cfg, matcher: matcher, classifier: classifier, sections: sections}, nil
}

// Process builds the release structure of a batch. now only feeds the
// formatted date, so equal inputs give equal releases.
func (p *Pipeline) Process(issues []models.Issue, now time.Time) grouping.Release {
	accepted := make([]models.Issue, 0, len(issues))
	for _, issue := range issues {
		if p.classifier.Accept(issue) {
			accepted = append(accepted, issue)
		}
	}

	globalVersion, ok := p.matcher.ExtractGlobalVersion(models.VersionLabels(accepted))
	if !ok {
		globalVersion = UnknownGlobalVersion
	}

	classified := make([]classify.ClassifiedIssue, 0, len(accepted))
	for _, issue := range accepted {
		classified = append(classified, p.classifier.Classify(issue))
	}

	results, summary := grouping.Group(p.sections, classified)

	logging.Info("issues processed",
		"issue_count", len(issues),
		"accepted_count", len(accepted),
		"global_version", globalVersion,
		"component_count", summary.Len())

	return grouping.Release{
		GlobalVersion: globalVersion,
		CurrentDate:   strftime.Format(p.cfg.ReleaseNotes.DateFormat, now),
		Summary:       summary.Entries(),
		Sections:      results,
	}
}

// Layout returns the format independent rendering settings.
func (p *Pipeline) Layout() render.Layout {
	table := p.cfg.ReleaseNotes.MicroservicesTable
	columns := make([]render.Column, 0, len(table.Columns))
	for _, c := range table.Columns {
		columns = append(columns, render.Column{Header: c.Header, ValueTemplate: c.ValuePlaceholder})
	}
	return render.Layout{
		TitleTemplate: p.cfg.ReleaseNotes.TitleTemplate,
		Table: render.SummaryTable{
			Enabled: table.Enabled,
			Title:   table.Title,
			Columns: columns,
		},
	}
}

// Markdown renders a release with the configured Markdown settings.
func (p *Pipeline) Markdown(release grouping.Release) string {
	md := p.cfg.OutputFormats.Markdown
	return render.Markdown(release, p.Layout(), render.MarkdownOptions{
		MainTitleLevel:      md.MainTitleLevel,
		TableTitleLevel:     md.TableTitleLevel,
		SectionTitleLevel:   md.SectionTitleLevel,
		ComponentGroupLevel: md.MicroserviceGroupLevel,
		IssueTypeGroupLevel: md.IssueTypeGroupLevel,
		ListMarker:          md.TaskListItemMarker,
	})
}

// Word renders a release with the configured Word settings.
func (p *Pipeline) Word(release grouping.Release) *docx.Docx {
	w := p.cfg.OutputFormats.Word
	return render.Word(release, p.Layout(), render.WordOptions{
		TemplatePath: w.TemplatePath,
		Styles: render.WordStyles{
			MainTitle:        w.Styles.MainTitle,
			TableTitle:       w.Styles.TableTitle,
			SectionTitle:     w.Styles.SectionTitle,
			ComponentGroup:   w.Styles.MicroserviceGroup,
			IssueTypeGroup:   w.Styles.IssueTypeGroup,
			ListFirstLine:    w.Styles.ListBulletFirstLine,
			ListContinuation: w.Styles.ListBulletMultilineIndent,
			Table:            w.Styles.TableStyle,
		},
	})
}
