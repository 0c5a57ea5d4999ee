package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/danielolaszy/relnotes/internal/grouping"
	"github.com/danielolaszy/relnotes/internal/logging"
	"github.com/danielolaszy/relnotes/internal/render"
)

// UnknownVersionFilename replaces an empty version in file names.
const UnknownVersionFilename = "UNKNOWN_VERSION"

var unsafeFilenameChars = regexp.MustCompile(`[^\p{L}\p{N}_.-]`)

// Format selects the documents to write.
type Format string

const (
	// FormatConfigured writes the formats enabled in the configuration.
	FormatConfigured Format = ""
	FormatMarkdown   Format = "markdown"
	FormatWord       Format = "word"
	FormatAll        Format = "all"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatConfigured, FormatMarkdown, FormatWord, FormatAll:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected markdown, word or all)", s)
	}
}

// OutputFilename expands a file name template with the sanitised release
// version and the date.
func OutputFilename(template, globalVersion string, now time.Time) string {
	safe := unsafeFilenameChars.ReplaceAllString(globalVersion, "_")
	if safe == "" {
		safe = UnknownVersionFilename
	}
	return render.Expand(template, map[string]string{
		"global_version":        safe,
		"current_date_filename": strftime.Format("%Y-%m-%d", now),
	})
}

// WriteOutputs renders the selected formats into dir and returns the paths
// written.
func (p *Pipeline) WriteOutputs(release grouping.Release, dir string, format Format, now time.Time) ([]string, error) {
	writeMarkdown, writeWord := p.selected(format)
	if !writeMarkdown && !writeWord {
		return nil, fmt.Errorf("no output format is enabled")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var files []string
	if writeMarkdown {
		name := OutputFilename(p.cfg.OutputFormats.Markdown.OutputFilenameTemplate, release.GlobalVersion, now)
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(p.Markdown(release)), 0o644); err != nil {
			return files, fmt.Errorf("failed to write markdown output: %w", err)
		}
		logging.Info("markdown written", "path", path)
		files = append(files, path)
	}

	if writeWord {
		name := OutputFilename(p.cfg.OutputFormats.Word.OutputFilenameTemplate, release.GlobalVersion, now)
		path := filepath.Join(dir, name)

		var buf bytes.Buffer
		if _, err := p.Word(release).WriteTo(&buf); err != nil {
			return files, fmt.Errorf("failed to render word output: %w", err)
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return files, fmt.Errorf("failed to write word output: %w", err)
		}
		logging.Info("word document written", "path", path)
		files = append(files, path)
	}

	return files, nil
}

func (p *Pipeline) selected(format Format) (markdown, word bool) {
	switch format {
	case FormatMarkdown:
		return true, false
	case FormatWord:
		return false, true
	case FormatAll:
		return true, true
	default:
		return p.cfg.OutputFormats.Markdown.Enabled, p.cfg.OutputFormats.Word.Enabled
	}
}
