// Package grouping files classified issues into sections, components and
// issue types, and accumulates the release-wide component summary.
package grouping

import (
	"sort"

	"github.com/danielolaszy/relnotes/internal/classify"
)

// UnknownType is the issue-type bucket for issues without a type.
const UnknownType = "Unknown type"

// Section is one configured block of the release notes.
type Section struct {
	// ID is the configuration key of the section
	ID string

	// Title is the heading rendered for the section
	Title string

	// SourceFieldID names the issue field that supplies {content}
	SourceFieldID string

	// GroupingDisabled lists issues flat instead of by component
	GroupingDisabled bool

	// GroupByIssueType adds an issue-type level below each component
	GroupByIssueType bool

	// Template renders one issue
	Template string

	// UnmappedComponentTitle, when set, collects issues without any mapped
	// component under a component of this name
	UnmappedComponentTitle string
}

// Mode tells which shape a SectionResult has.
type Mode int

const (
	// ModeFlat is a single list of issues.
	ModeFlat Mode = iota
	// ModeGrouped is a mapping of component name to ComponentBucket.
	ModeGrouped
)

// ComponentBucket holds the issues of one component within a section.
type ComponentBucket struct {
	byType  map[string][]classify.ClassifiedIssue
	untyped []classify.ClassifiedIssue
}

func newComponentBucket() *ComponentBucket {
	return &ComponentBucket{byType: make(map[string][]classify.ClassifiedIssue)}
}

func (b *ComponentBucket) add(issue classify.ClassifiedIssue, byType bool) {
	if !byType {
		b.untyped = append(b.untyped, issue)
		return
	}
	typeName := issue.IssueType
	if typeName == "" {
		typeName = UnknownType
	}
	b.byType[typeName] = append(b.byType[typeName], issue)
}

// Types returns the issue-type names with at least one issue, sorted.
func (b *ComponentBucket) Types() []string {
	types := make([]string, 0, len(b.byType))
	for t, issues := range b.byType {
		if len(issues) > 0 {
			types = append(types, t)
		}
	}
	sort.Strings(types)
	return types
}

// IssuesOfType returns the issues filed under typeName, sorted by key.
func (b *ComponentBucket) IssuesOfType(typeName string) []classify.ClassifiedIssue {
	return sortedByKey(b.byType[typeName])
}

// Untyped returns the issues filed without type grouping, sorted by key.
func (b *ComponentBucket) Untyped() []classify.ClassifiedIssue {
	return sortedByKey(b.untyped)
}

// Empty reports whether the bucket holds no issue at all.
func (b *ComponentBucket) Empty() bool {
	return len(b.untyped) == 0 && len(b.Types()) == 0
}

// SectionResult is the grouped content of one section: either a flat list or
// a set of component buckets, depending on Mode.
type SectionResult struct {
	Section Section

	mode       Mode
	flat       []classify.ClassifiedIssue
	flatKeys   map[string]bool
	components map[string]*ComponentBucket
}

// NewSectionResult creates an empty result shaped by the section's grouping flag.
func NewSectionResult(sec Section) *SectionResult {
	if sec.GroupingDisabled {
		sec.GroupByIssueType = false
		return &SectionResult{Section: sec, mode: ModeFlat, flatKeys: make(map[string]bool)}
	}
	return &SectionResult{Section: sec, mode: ModeGrouped, components: make(map[string]*ComponentBucket)}
}

// Mode returns the shape of the result.
func (r *SectionResult) Mode() Mode { return r.mode }

// AddFlat appends an issue to a flat section unless its key is already there.
// It reports whether the issue was added.
func (r *SectionResult) AddFlat(issue classify.ClassifiedIssue) bool {
	if r.mode != ModeFlat || r.flatKeys[issue.Key] {
		return false
	}
	r.flatKeys[issue.Key] = true
	r.flat = append(r.flat, issue)
	return true
}

// AddToComponent files an issue under a component of a grouped section.
func (r *SectionResult) AddToComponent(component string, issue classify.ClassifiedIssue) {
	if r.mode != ModeGrouped {
		return
	}
	bucket, ok := r.components[component]
	if !ok {
		bucket = newComponentBucket()
		r.components[component] = bucket
	}
	bucket.add(issue, r.Section.GroupByIssueType)
}

// Issues returns the issues of a flat section, sorted by key.
func (r *SectionResult) Issues() []classify.ClassifiedIssue {
	return sortedByKey(r.flat)
}

// ComponentNames returns the components holding issues, sorted by name.
func (r *SectionResult) ComponentNames() []string {
	names := make([]string, 0, len(r.components))
	for name, bucket := range r.components {
		if !bucket.Empty() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Component returns the bucket of a component, or nil.
func (r *SectionResult) Component(name string) *ComponentBucket {
	return r.components[name]
}

// IssueCount counts issue entries in the section. In grouped mode an issue
// filed under two components counts twice.
func (r *SectionResult) IssueCount() int {
	if r.mode == ModeFlat {
		return len(r.flat)
	}
	n := 0
	for _, bucket := range r.components {
		n += len(bucket.untyped)
		for _, issues := range bucket.byType {
			n += len(issues)
		}
	}
	return n
}

func sortedByKey(issues []classify.ClassifiedIssue) []classify.ClassifiedIssue {
	out := make([]classify.ClassifiedIssue, len(issues))
	copy(out, issues)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})
	return out
}
