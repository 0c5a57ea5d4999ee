// Package version extracts release and component versions from version labels.
package version

import (
	"fmt"
	"regexp"

	"github.com/danielolaszy/relnotes/internal/logging"
)

// ComponentPattern describes how a component label is parsed.
type ComponentPattern struct {
	// Pattern is the regular expression applied to each label
	Pattern string

	// PrefixGroup is the 1-based capture group holding the component prefix
	PrefixGroup int

	// VersionGroup is the 1-based capture group holding the component version
	VersionGroup int

	// Mapping translates a captured prefix into a component display name
	Mapping map[string]string
}

// ComponentVersion is one parsed (prefix, name, version) triple.
type ComponentVersion struct {
	Prefix  string
	Name    string
	Version string
}

// Matcher applies the configured global and component patterns to labels.
// Patterns are anchored at the start of the label only.
type Matcher struct {
	global       []*regexp.Regexp
	component    *regexp.Regexp
	prefixGroup  int
	versionGroup int
	mapping      map[string]string
}

// Compile compiles a pattern anchored at the start of the input, keeping
// the pattern's own group numbering.
func Compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`\A(?:` + pattern + `)`)
	if err != nil {
		return nil, fmt.Errorf("failed to compile pattern %q: %w", pattern, err)
	}
	return re, nil
}

// NewMatcher compiles the patterns. Invalid patterns are logged and dropped,
// so the matcher degrades to producing no matches for them.
func NewMatcher(globalPatterns []string, component ComponentPattern) *Matcher {
	m := &Matcher{
		prefixGroup:  component.PrefixGroup,
		versionGroup: component.VersionGroup,
		mapping:      component.Mapping,
	}

	for _, p := range globalPatterns {
		re, err := Compile(p)
		if err != nil {
			logging.Error("invalid global version pattern", "pattern", p, "error", err)
			continue
		}
		if re.NumSubexp() < 1 {
			logging.Warn("global version pattern has no capture group", "pattern", p)
		}
		m.global = append(m.global, re)
	}
	if len(globalPatterns) == 0 {
		logging.Error("no global version patterns configured")
	}

	if component.Pattern == "" || component.PrefixGroup < 1 || component.VersionGroup < 1 || len(component.Mapping) == 0 {
		logging.Warn("component version parsing is not fully configured, grouping by component may be empty",
			"pattern", component.Pattern,
			"prefix_group", component.PrefixGroup,
			"version_group", component.VersionGroup,
			"mapping_size", len(component.Mapping))
		return m
	}

	re, err := Compile(component.Pattern)
	if err != nil {
		logging.Error("invalid component version pattern", "pattern", component.Pattern, "error", err)
		return m
	}
	m.component = re
	return m
}

// canParseComponents reports whether component parsing is usable.
func (m *Matcher) canParseComponents() bool {
	return m.component != nil
}

// globalCapture returns the non-empty group 1 of the first global pattern
// that matches the label.
func (m *Matcher) globalCapture(label string) (string, bool) {
	for _, re := range m.global {
		if re.NumSubexp() < 1 {
			continue
		}
		loc := re.FindStringSubmatchIndex(label)
		if loc == nil || loc[2] < 0 || loc[2] == loc[3] {
			continue
		}
		return label[loc[2]:loc[3]], true
	}
	return "", false
}

// matchesAnyGlobal reports whether any global pattern with a capture group
// matches the label, regardless of what the group captured.
func (m *Matcher) matchesAnyGlobal(label string) bool {
	for _, re := range m.global {
		if re.NumSubexp() >= 1 && re.MatchString(label) {
			return true
		}
	}
	return false
}

// ExtractGlobalVersion returns the release version found across a batch of
// labels. When different labels yield different versions, the first one
// encountered wins and the conflict is logged.
func (m *Matcher) ExtractGlobalVersion(labels []string) (string, bool) {
	var found []string
	seen := make(map[string]bool)
	for _, label := range labels {
		capture, ok := m.globalCapture(label)
		if !ok || seen[capture] {
			continue
		}
		seen[capture] = true
		found = append(found, capture)
	}

	switch len(found) {
	case 0:
		logging.Warn("no global version found in version labels", "label_count", len(labels))
		return "", false
	case 1:
		logging.Info("global version determined", "global_version", found[0])
	default:
		logging.Warn("multiple global versions found, using the first one",
			"candidates", found,
			"global_version", found[0])
	}
	return found[0], true
}

// RawGlobalStrings returns the labels, unmodified, that yield a global version.
func (m *Matcher) RawGlobalStrings(labels []string) []string {
	var raw []string
	for _, label := range labels {
		if _, ok := m.globalCapture(label); ok {
			raw = append(raw, label)
		}
	}
	return raw
}

// ParseComponentVersions parses component labels of one issue. Labels listed
// in rawGlobal, or matching a global pattern, are never treated as components.
// Duplicates are kept; they are collapsed during grouping.
func (m *Matcher) ParseComponentVersions(labels, rawGlobal []string) []ComponentVersion {
	if !m.canParseComponents() || len(labels) == 0 {
		return nil
	}

	skip := make(map[string]bool, len(rawGlobal))
	for _, s := range rawGlobal {
		skip[s] = true
	}

	need := m.prefixGroup
	if m.versionGroup > need {
		need = m.versionGroup
	}

	var result []ComponentVersion
	for _, label := range labels {
		if skip[label] {
			logging.Debug("label skipped, raw global version", "label", label)
			continue
		}
		if m.matchesAnyGlobal(label) {
			logging.Debug("label skipped, matches global pattern", "label", label)
			continue
		}

		loc := m.component.FindStringSubmatchIndex(label)
		if loc == nil {
			continue
		}
		if m.component.NumSubexp() < need {
			logging.Warn("component pattern has fewer groups than configured",
				"label", label,
				"groups", m.component.NumSubexp(),
				"required", need)
			continue
		}

		ps, pe := loc[2*m.prefixGroup], loc[2*m.prefixGroup+1]
		vs, ve := loc[2*m.versionGroup], loc[2*m.versionGroup+1]
		if ps < 0 || vs < 0 {
			logging.Debug("component groups did not participate in match", "label", label)
			continue
		}
		prefix, ver := label[ps:pe], label[vs:ve]

		name := m.mapping[prefix]
		if name == "" {
			logging.Warn("no component mapping for prefix",
				"prefix", prefix,
				"label", label)
			continue
		}

		logging.Debug("component version parsed",
			"component", name,
			"prefix", prefix,
			"version", ver,
			"label", label)
		result = append(result, ComponentVersion{Prefix: prefix, Name: name, Version: ver})
	}
	return result
}
