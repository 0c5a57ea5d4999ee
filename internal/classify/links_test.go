package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleLinks = `[
	{"type": {"outward": "blocks", "inward": "is blocked by"}, "outwardIssue": {"key": "PROJ-2"}},
	{"type": {"outward": "relates to", "inward": "relates to"}, "inwardIssue": {"key": "OPS-9"}},
	{"type": {"inward": "is CLONED by"}, "inwardIssue": {"key": "PROJ-1"}},
	{"type": {}, "outwardIssue": {"key": "ABC-3"}},
	{"type": {"outward": ""}, "outwardIssue": {"key": "PROJ-4"}},
	{"type": {"outward": "blocks"}, "outwardIssue": {}},
	{"type": {"outward": "blocks"}}
]`

func TestFormatLinks(t *testing.T) {
	testCases := []struct {
		name     string
		prefixes []string
		expected string
		present  bool
	}{
		{
			name:     "No filter keeps all resolvable links",
			prefixes: nil,
			expected: "Related issues: Blocks PROJ-2; Is cloned by PROJ-1; Relates to OPS-9; ~ ABC-3",
			present:  true,
		},
		{
			name:     "Filter by project prefix",
			prefixes: []string{"proj"},
			expected: "Related issues: Blocks PROJ-2; Is cloned by PROJ-1",
			present:  true,
		},
		{
			name:     "Prefix must be followed by a dash",
			prefixes: []string{"PRO"},
			present:  false,
		},
		{
			name:     "Blank prefixes are ignored",
			prefixes: []string{"", "OPS"},
			expected: "Related issues: Relates to OPS-9",
			present:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := FormatLinks(raw(t, sampleLinks), tc.prefixes, DefaultLinksLabel)
			assert.Equal(t, tc.present, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestFormatLinksEmpty(t *testing.T) {
	_, ok := FormatLinks(raw(t, `null`), nil, DefaultLinksLabel)
	assert.False(t, ok)

	_, ok = FormatLinks(raw(t, `[]`), nil, DefaultLinksLabel)
	assert.False(t, ok)
}

func TestParseClientName(t *testing.T) {
	testCases := []struct {
		name     string
		value    string
		expected string
		present  bool
	}{
		{name: "Hash and details", value: `"Client A #1 - Details"`, expected: "Client A", present: true},
		{name: "Leading hash", value: `"#LeadingHash"`, present: false},
		{name: "No separators", value: `"Client C"`, expected: "Client C", present: true},
		{name: "Only details separator", value: `"  Client B - contract 7 - extra"`, expected: "Client B", present: true},
		{name: "Hash after separator is ignored", value: `"Client D - #42"`, expected: "Client D", present: true},
		{name: "Option object", value: `{"value": "Client E #9", "id": "100"}`, expected: "Client E", present: true},
		{name: "Option object without value", value: `{"id": "100"}`, present: false},
		{name: "Blank string", value: `"   "`, present: false},
		{name: "Null", value: `null`, present: false},
		{name: "Number", value: `12`, present: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseClientName(raw(t, tc.value))
			assert.Equal(t, tc.present, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Is blocked by", capitalize("is Blocked BY"))
	assert.Equal(t, "Блокирует", capitalize("блокирует"))
	assert.Equal(t, "", capitalize(""))
}
