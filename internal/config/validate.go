package config

import (
	"fmt"
	"os"
	"regexp"
)

// Validate returns every problem found in the configuration, in a stable
// order. An empty result means the configuration is usable.
func Validate(cfg *Config) []string {
	var errs []string

	if cfg.Jira.ServerURL == "" {
		errs = append(errs, "jira.server_url is required")
	}
	if cfg.Jira.MaxResultsPerRequest < 0 {
		errs = append(errs, "jira.max_results_per_request must not be negative")
	}

	for i, p := range cfg.VersionParsing.GlobalVersion.ExtractionPatterns {
		if _, err := regexp.Compile(p); err != nil {
			errs = append(errs, fmt.Sprintf("version_parsing.global_version.extraction_patterns[%d]: invalid regex: %v", i, err))
		}
	}

	mv := cfg.VersionParsing.MicroserviceVersion
	if mv.ExtractionPattern == "" {
		errs = append(errs, "version_parsing.microservice_version.extraction_pattern is required")
	} else if _, err := regexp.Compile(mv.ExtractionPattern); err != nil {
		errs = append(errs, fmt.Sprintf("version_parsing.microservice_version.extraction_pattern: invalid regex: %v", err))
	}
	if mv.PrefixGroupIndex < 1 {
		errs = append(errs, "version_parsing.microservice_version.prefix_group_index must be at least 1")
	}
	if mv.VersionGroupIndex < 1 {
		errs = append(errs, "version_parsing.microservice_version.version_group_index must be at least 1")
	}
	if len(cfg.VersionParsing.MicroserviceMapping) == 0 {
		errs = append(errs, "version_parsing.microservice_mapping is empty")
	}

	if len(cfg.ReleaseNotes.Sections) == 0 {
		errs = append(errs, "release_notes.sections must define at least one section")
	}
	for _, sec := range cfg.ReleaseNotes.Sections {
		if sec.SourceCustomFieldID == "" {
			errs = append(errs, fmt.Sprintf("release_notes.sections.%s: source_custom_field_id is required", sec.ID))
		}
		if sec.IssueDisplayTemplate == "" {
			errs = append(errs, fmt.Sprintf("release_notes.sections.%s: issue_display_template is empty", sec.ID))
		}
	}

	md := cfg.OutputFormats.Markdown
	levels := []struct {
		name  string
		value int
	}{
		{"main_title_level", md.MainTitleLevel},
		{"table_title_level", md.TableTitleLevel},
		{"section_title_level", md.SectionTitleLevel},
		{"microservice_group_level", md.MicroserviceGroupLevel},
		{"issue_type_group_level", md.IssueTypeGroupLevel},
	}
	for _, l := range levels {
		if l.value < 1 || l.value > 6 {
			errs = append(errs, fmt.Sprintf("output_formats.markdown.%s must be between 1 and 6, got %d", l.name, l.value))
		}
	}

	if p := cfg.OutputFormats.Word.TemplatePath; p != "" {
		if _, err := os.Stat(p); err != nil {
			errs = append(errs, fmt.Sprintf("output_formats.word.template_path %q does not exist", p))
		}
	}

	if !cfg.OutputFormats.Markdown.Enabled && !cfg.OutputFormats.Word.Enabled {
		errs = append(errs, "output_formats: no output format is enabled")
	}

	return errs
}

// ValidateJiraCredentials validates the credentials needed to reach JIRA.
func ValidateJiraCredentials(creds Credentials) error {
	var missingVars []string

	if creds.JiraCookie == "" && creds.JiraToken == "" {
		missingVars = append(missingVars, "JIRA_COOKIE_STRING or JIRA_TOKEN")
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missingVars)
	}

	return nil
}
