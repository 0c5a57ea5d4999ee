package classify

import (
	"strings"

	"github.com/danielolaszy/relnotes/pkg/models"
)

// Field ids with dedicated handling.
const (
	FieldSummary     = "summary"
	FieldIssueType   = "issuetype"
	FieldFixVersions = "fixVersions"
	FieldIssueLinks  = "issuelinks"
)

// Template field names derived by the classifier.
const (
	KeyField              = "key"
	SummaryField          = "summary"
	IssueTypeNameField    = "issuetype_name"
	ContentField          = "content"
	FormattedLinksField   = "formatted_issuelinks"
	ClientNameField       = "client_name"
	FormattedClientField  = "formatted_client_info"
	LinkedComponentsField = "linked_microservices_names"
)

// standardFields maps structured tracker fields to their template names.
var standardFields = map[string]string{
	"issuetype":  "issuetype_name",
	"priority":   "priority_name",
	"assignee":   "assignee_name",
	"reporter":   "reporter_name",
	"status":     "status_name",
	"resolution": "resolution_name",
}

var peopleFields = map[string]bool{
	"assignee": true,
	"reporter": true,
}

// TemplateName returns the placeholder name under which a field is exposed.
func TemplateName(fieldID string) string {
	if name, ok := standardFields[fieldID]; ok {
		return name
	}
	return fieldID
}

// Display converts a raw field value into the text used in templates.
// The boolean is false when the field should render as nothing.
func Display(fieldID string, v models.RawValue) (string, bool) {
	if v.IsNull() {
		return "", false
	}

	if _, ok := standardFields[fieldID]; ok && v.Kind() == models.KindObject {
		name := v.Str("name")
		if peopleFields[fieldID] {
			if dn := v.Str("displayName"); dn != "" {
				name = dn
			}
		}
		return name, name != ""
	}

	switch v.Kind() {
	case models.KindList:
		if fieldID == FieldFixVersions || fieldID == FieldIssueLinks {
			return "", false
		}
		return displayList(v.Items())
	case models.KindObject:
		for _, member := range []string{"value", "name"} {
			if s := v.Field(member).String(); s != "" {
				return s, true
			}
		}
		return v.String(), true
	default:
		return v.Text(), true
	}
}

// displayList joins list items: object names or values, non-blank strings,
// or the text of every non-null item when the list is mixed.
func displayList(items []models.RawValue) (string, bool) {
	if len(items) == 0 {
		return "", false
	}

	allObjects, allStrings := true, true
	for _, item := range items {
		if item.Kind() != models.KindObject {
			allObjects = false
		}
		if !item.IsString() {
			allStrings = false
		}
	}

	var parts []string
	switch {
	case allObjects:
		for _, item := range items {
			s := item.Field("name").String()
			if s == "" {
				s = item.Field("value").String()
			}
			if s != "" {
				parts = append(parts, s)
			}
		}
	case allStrings:
		for _, item := range items {
			if strings.TrimSpace(item.Text()) != "" {
				parts = append(parts, item.Text())
			}
		}
	default:
		for _, item := range items {
			if !item.IsNull() {
				parts = append(parts, item.String())
			}
		}
	}

	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, ", "), true
}
