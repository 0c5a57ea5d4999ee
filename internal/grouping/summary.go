package grouping

import (
	"sort"
	"strings"

	"github.com/danielolaszy/relnotes/internal/version"
)

// SummaryEntry is one row of the release-wide component summary.
type SummaryEntry struct {
	Prefix string
	Name   string

	// Version joins the distinct versions, sorted, with ", "
	Version string
}

// Data exposes the entry to column templates as {prefix}, {name} and {version}.
func (e SummaryEntry) Data() map[string]string {
	return map[string]string{
		"prefix":  e.Prefix,
		"name":    e.Name,
		"version": e.Version,
	}
}

type componentKey struct {
	prefix string
	name   string
}

// Summary accumulates the versions seen per (prefix, name) component.
type Summary struct {
	versions map[componentKey]map[string]bool
}

// NewSummary returns an empty accumulator.
func NewSummary() Summary {
	return Summary{versions: make(map[componentKey]map[string]bool)}
}

// Add records one parsed component version.
func (s Summary) Add(cv version.ComponentVersion) {
	k := componentKey{prefix: cv.Prefix, name: cv.Name}
	set, ok := s.versions[k]
	if !ok {
		set = make(map[string]bool)
		s.versions[k] = set
	}
	set[cv.Version] = true
}

// Len returns the number of distinct components.
func (s Summary) Len() int {
	return len(s.versions)
}

// Entries returns the summary rows sorted by component name, then prefix.
func (s Summary) Entries() []SummaryEntry {
	entries := make([]SummaryEntry, 0, len(s.versions))
	for k, set := range s.versions {
		versions := make([]string, 0, len(set))
		for v := range set {
			versions = append(versions, v)
		}
		sort.Strings(versions)
		entries = append(entries, SummaryEntry{
			Prefix:  k.prefix,
			Name:    k.name,
			Version: strings.Join(versions, ", "),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Prefix < entries[j].Prefix
	})
	return entries
}
