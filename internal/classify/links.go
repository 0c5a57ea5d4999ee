package classify

import (
	"sort"
	"strings"
	"unicode"

	"github.com/danielolaszy/relnotes/pkg/models"
)

// defaultVerb is used when a link type carries no verb for its direction.
const defaultVerb = "~"

// FormatLinks renders the issue links whose target key starts with one of
// the allowed project prefixes (all links when prefixes is empty). It returns
// false when no link survives.
func FormatLinks(links models.RawValue, prefixes []string, label string) (string, bool) {
	var texts []string
	for _, link := range links.Items() {
		verb, target := linkTarget(link)
		if verb == "" || target == "" {
			continue
		}
		if !allowedTarget(target, prefixes) {
			continue
		}
		texts = append(texts, capitalize(verb)+" "+target)
	}

	if len(texts) == 0 {
		return "", false
	}
	sort.Strings(texts)
	return label + strings.Join(texts, "; "), true
}

// linkTarget returns the verb and target key for whichever direction the
// link carries, preferring outward.
func linkTarget(link models.RawValue) (string, string) {
	linkType := link.Field("type")

	var direction, issueField string
	switch {
	case link.Has("outwardIssue"):
		direction, issueField = "outward", "outwardIssue"
	case link.Has("inwardIssue"):
		direction, issueField = "inward", "inwardIssue"
	default:
		return "", ""
	}

	verb := defaultVerb
	if linkType.Has(direction) {
		verb = linkType.Str(direction)
	}
	return verb, link.Field(issueField).Str("key")
}

func allowedTarget(key string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.HasPrefix(key, strings.ToUpper(p)+"-") {
			return true
		}
	}
	return false
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) > 0 {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return string(runes)
}

// ParseClientName extracts the client name from the client field, which is
// either a string or an option object with a "value". The name is the part
// before " - ", cut at the first "#".
func ParseClientName(v models.RawValue) (string, bool) {
	var raw string
	switch {
	case v.IsString():
		raw = v.Text()
	case v.Kind() == models.KindObject && v.Field("value").IsString():
		raw = v.Str("value")
	default:
		return "", false
	}

	if strings.TrimSpace(raw) == "" {
		return "", false
	}

	name, _, _ := strings.Cut(raw, " - ")
	name = strings.TrimSpace(name)
	if before, _, found := strings.Cut(name, "#"); found {
		name = strings.TrimSpace(before)
	}
	if name == "" {
		return "", false
	}
	return name, true
}
