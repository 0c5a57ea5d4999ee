// Package config provides centralized configuration management for the application.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/danielolaszy/relnotes/internal/logging"
)

// ErrInvalidConfig marks configuration files that cannot be used at all.
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "config.yaml"

// Config holds all configuration parameters for the application.
type Config struct {
	Jira           JiraConfig           `yaml:"jira"`
	VersionParsing VersionParsingConfig `yaml:"version_parsing"`
	ReleaseNotes   ReleaseNotesConfig   `yaml:"release_notes"`
	OutputFormats  OutputFormatsConfig  `yaml:"output_formats"`
	Defaults       DefaultsConfig       `yaml:"defaults"`
	Snapshots      SnapshotsConfig      `yaml:"snapshots"`
	GitHub         GitHubConfig         `yaml:"github"`

	// Path is the file the configuration was loaded from
	Path string `yaml:"-"`
}

// JiraConfig holds JIRA specific configuration.
type JiraConfig struct {
	ServerURL      string            `yaml:"server_url"`
	RequestHeaders map[string]string `yaml:"request_headers,omitempty"`

	// Timeout is the HTTP timeout in seconds
	Timeout int `yaml:"timeout"`

	IssueFieldsToRequest []string `yaml:"issue_fields_to_request"`

	// MaxResultsPerRequest caps the number of issues fetched per run
	MaxResultsPerRequest int `yaml:"max_results_per_request"`

	PageSize int `yaml:"page_size"`
}

// VersionParsingConfig holds the release label patterns.
type VersionParsingConfig struct {
	GlobalVersion       GlobalVersionConfig       `yaml:"global_version"`
	MicroserviceVersion MicroserviceVersionConfig `yaml:"microservice_version"`
	MicroserviceMapping map[string]string         `yaml:"microservice_mapping"`
}

// GlobalVersionConfig lists the patterns of release-wide labels.
type GlobalVersionConfig struct {
	ExtractionPatterns []string `yaml:"extraction_patterns"`
}

// MicroserviceVersionConfig describes component version labels.
type MicroserviceVersionConfig struct {
	ExtractionPattern string `yaml:"extraction_pattern"`
	PrefixGroupIndex  int    `yaml:"prefix_group_index"`
	VersionGroupIndex int    `yaml:"version_group_index"`
}

// ReleaseNotesConfig holds the content settings of the document.
type ReleaseNotesConfig struct {
	DateFormat                        string      `yaml:"date_format"`
	TitleTemplate                     string      `yaml:"title_template"`
	ExcludeIssueTypes                 []string    `yaml:"exclude_issue_types"`
	FilterIssuelinksByProjectPrefixes []string    `yaml:"filter_issuelinks_by_project_prefixes"`
	ClientFieldID                     string      `yaml:"client_field_id"`
	IssuelinksLabel                   string      `yaml:"issuelinks_label"`
	ClientLabel                       string      `yaml:"client_label"`
	MicroservicesTable                TableConfig `yaml:"microservices_table"`
	Sections                          Sections    `yaml:"sections"`
}

// TableConfig describes the component summary table.
type TableConfig struct {
	Enabled bool           `yaml:"enabled"`
	Title   string         `yaml:"title"`
	Columns []ColumnConfig `yaml:"columns"`
}

// ColumnConfig is one column of the summary table.
type ColumnConfig struct {
	Header           string `yaml:"header"`
	ValuePlaceholder string `yaml:"value_placeholder"`
}

// SectionConfig is one configured section, keyed by ID in the file.
type SectionConfig struct {
	ID                     string `yaml:"-"`
	Title                  string `yaml:"title"`
	SourceCustomFieldID    string `yaml:"source_custom_field_id"`
	DisableGrouping        bool   `yaml:"disable_grouping"`
	GroupByIssueType       bool   `yaml:"group_by_issue_type"`
	IssueDisplayTemplate   string `yaml:"issue_display_template"`
	UnmappedComponentTitle string `yaml:"unmapped_component_title,omitempty"`
}

// OutputFormatsConfig holds per-format output settings.
type OutputFormatsConfig struct {
	Markdown MarkdownConfig `yaml:"markdown"`
	Word     WordConfig     `yaml:"word"`
}

// MarkdownConfig holds Markdown output settings.
type MarkdownConfig struct {
	Enabled                bool   `yaml:"enabled"`
	OutputFilenameTemplate string `yaml:"output_filename_template"`
	MainTitleLevel         int    `yaml:"main_title_level"`
	TableTitleLevel        int    `yaml:"table_title_level"`
	SectionTitleLevel      int    `yaml:"section_title_level"`
	MicroserviceGroupLevel int    `yaml:"microservice_group_level"`
	IssueTypeGroupLevel    int    `yaml:"issue_type_group_level"`
	TaskListItemMarker     string `yaml:"task_list_item_marker"`
}

// WordConfig holds Word output settings.
type WordConfig struct {
	Enabled                bool       `yaml:"enabled"`
	OutputFilenameTemplate string     `yaml:"output_filename_template"`
	TemplatePath           string     `yaml:"template_path"`
	Styles                 WordStyles `yaml:"styles"`
}

// WordStyles names the paragraph and table styles of the Word output.
type WordStyles struct {
	MainTitle                 string `yaml:"main_title"`
	TableTitle                string `yaml:"table_title"`
	SectionTitle              string `yaml:"section_title"`
	MicroserviceGroup         string `yaml:"microservice_group"`
	IssueTypeGroup            string `yaml:"issue_type_group"`
	ListBulletFirstLine       string `yaml:"list_bullet_first_line"`
	ListBulletMultilineIndent string `yaml:"list_bullet_multiline_indent"`
	TableStyle                string `yaml:"table_style"`
}

// DefaultsConfig holds values used when the command line leaves them out.
type DefaultsConfig struct {
	FilterID  string `yaml:"filter_id"`
	OutputDir string `yaml:"output_dir"`
}

// SnapshotsConfig controls the local issue snapshot store.
type SnapshotsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// GitHubConfig holds GitHub specific configuration.
type GitHubConfig struct {
	// Repository is the owner/name that releases are published to
	Repository string `yaml:"repository"`
}

// Default returns a configuration with every default applied and no sections.
func Default() *Config {
	return &Config{
		Jira: JiraConfig{
			Timeout:              30,
			IssueFieldsToRequest: []string{"summary", "issuetype", "fixVersions", "issuelinks", "customfield_12902"},
			MaxResultsPerRequest: 1000,
			PageSize:             50,
		},
		VersionParsing: VersionParsingConfig{
			GlobalVersion: GlobalVersionConfig{
				ExtractionPatterns: []string{`^(.*?)\s*\(global\)$`},
			},
			MicroserviceVersion: MicroserviceVersionConfig{
				ExtractionPattern: `^([A-Z]+)(\d+\.\d+(?:\.\d+)?)$`,
				PrefixGroupIndex:  1,
				VersionGroupIndex: 2,
			},
		},
		ReleaseNotes: ReleaseNotesConfig{
			DateFormat:      "%Y-%m-%d",
			TitleTemplate:   "Release Notes - {global_version} - {current_date}",
			ClientFieldID:   "customfield_12902",
			IssuelinksLabel: "Related issues: ",
			ClientLabel:     "Client: ",
			MicroservicesTable: TableConfig{
				Enabled: true,
				Title:   "Components",
				Columns: []ColumnConfig{
					{Header: "Component", ValuePlaceholder: "{name}"},
					{Header: "Version", ValuePlaceholder: "{version}"},
				},
			},
		},
		OutputFormats: OutputFormatsConfig{
			Markdown: MarkdownConfig{
				Enabled:                true,
				OutputFilenameTemplate: "ReleaseNotes_{global_version}_{current_date_filename}.md",
				MainTitleLevel:         1,
				TableTitleLevel:        2,
				SectionTitleLevel:      2,
				MicroserviceGroupLevel: 3,
				IssueTypeGroupLevel:    4,
				TaskListItemMarker:     "-",
			},
			Word: WordConfig{
				OutputFilenameTemplate: "ReleaseNotes_{global_version}_{current_date_filename}.docx",
				Styles: WordStyles{
					MainTitle:                 "Heading 1",
					TableTitle:                "Heading 2",
					SectionTitle:              "Heading 2",
					MicroserviceGroup:         "Heading 3",
					IssueTypeGroup:            "Heading 4",
					ListBulletFirstLine:       "List Bullet",
					ListBulletMultilineIndent: "Normal",
					TableStyle:                "TableGrid",
				},
			},
		},
		Defaults: DefaultsConfig{
			OutputDir: ".",
		},
		Snapshots: SnapshotsConfig{
			Enabled: true,
		},
	}
}

// Load reads the YAML configuration at path on top of the defaults, then
// applies environment overrides. A .env file next to the configuration or in
// the working directory is loaded first.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	LoadDotEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.Path = path

	applyEnv(cfg)
	normalize(cfg)

	logging.Debug("configuration loaded",
		"path", path,
		"section_count", len(cfg.ReleaseNotes.Sections),
		"server_url", cfg.Jira.ServerURL)

	return cfg, nil
}

// Parse decodes YAML on top of the defaults without touching the
// environment.
func Parse(data []byte) (*Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrInvalidConfig)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping", ErrInvalidConfig)
	}

	cfg := Default()
	if err := root.Content[0].Decode(cfg); err != nil {
		return nil, err
	}
	normalize(cfg)
	return cfg, nil
}

// LoadDotEnv loads .env files without overriding variables already set.
func LoadDotEnv(configPath string) {
	candidates := []string{filepath.Join(filepath.Dir(configPath), ".env"), ".env"}
	seen := make(map[string]bool, len(candidates))

	for _, candidate := range candidates {
		abs, err := filepath.Abs(candidate)
		if err != nil || seen[abs] {
			continue
		}
		seen[abs] = true

		if _, err := os.Stat(abs); err != nil {
			continue
		}
		if err := godotenv.Load(abs); err != nil {
			logging.Warn("failed to load env file", "path", abs, "error", err)
			continue
		}
		logging.Debug("env file loaded", "path", abs)
	}
}

// applyEnv overrides file values with environment variables.
func applyEnv(cfg *Config) {
	v := viper.New()
	v.AutomaticEnv()
	v.BindEnv("jira.server_url", "JIRA_URL")
	v.BindEnv("defaults.filter_id", "RELNOTES_FILTER_ID")
	v.BindEnv("defaults.output_dir", "RELNOTES_OUTPUT_DIR")

	if s := v.GetString("jira.server_url"); s != "" {
		cfg.Jira.ServerURL = s
	}
	if s := v.GetString("defaults.filter_id"); s != "" {
		cfg.Defaults.FilterID = s
	}
	if s := v.GetString("defaults.output_dir"); s != "" {
		cfg.Defaults.OutputDir = s
	}
}

// normalize fills derived values after decoding.
func normalize(cfg *Config) {
	cfg.Jira.ServerURL = strings.TrimRight(strings.TrimSpace(cfg.Jira.ServerURL), "/")
	if cfg.Jira.PageSize <= 0 {
		cfg.Jira.PageSize = 50
	}
	if cfg.Jira.Timeout <= 0 {
		cfg.Jira.Timeout = 30
	}
	if cfg.Defaults.OutputDir == "" {
		cfg.Defaults.OutputDir = "."
	}
	if cfg.Snapshots.Path == "" {
		cfg.Snapshots.Path = DefaultSnapshotPath()
	}

	if p := cfg.OutputFormats.Word.TemplatePath; p != "" && !filepath.IsAbs(p) && cfg.Path != "" {
		cfg.OutputFormats.Word.TemplatePath = filepath.Join(filepath.Dir(cfg.Path), p)
	}

	for i := range cfg.ReleaseNotes.Sections {
		sec := &cfg.ReleaseNotes.Sections[i]
		if strings.TrimSpace(sec.Title) == "" {
			sec.Title = TitleFromID(sec.ID)
		}
		if sec.DisableGrouping {
			sec.GroupByIssueType = false
		}
	}
}

// DefaultSnapshotPath returns $HOME/.relnotes/snapshots.db.
func DefaultSnapshotPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".relnotes", "snapshots.db")
	}
	return filepath.Join(home, ".relnotes", "snapshots.db")
}

// TitleFromID turns a section id such as "new_features" into "New Features".
func TitleFromID(id string) string {
	words := strings.Fields(strings.ReplaceAll(id, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}
