package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/fumiama/go-docx"

	"github.com/danielolaszy/relnotes/internal/grouping"
	"github.com/danielolaszy/relnotes/internal/logging"
)

// ContinuationIndent is the left indent, in twips, of continuation lines
// that fall back to the plain paragraph style.
const ContinuationIndent = 720

// WordStyles names the styles used for each part of the document.
type WordStyles struct {
	MainTitle        string
	TableTitle       string
	SectionTitle     string
	ComponentGroup   string
	IssueTypeGroup   string
	ListFirstLine    string
	ListContinuation string
	Table            string
}

// DefaultWordStyles returns the built-in Word style names.
func DefaultWordStyles() WordStyles {
	return WordStyles{
		MainTitle:        "Heading 1",
		TableTitle:       "Heading 2",
		SectionTitle:     "Heading 2",
		ComponentGroup:   "Heading 3",
		IssueTypeGroup:   "Heading 4",
		ListFirstLine:    "List Bullet",
		ListContinuation: "Normal",
		Table:            "Table Grid",
	}
}

// starterDocument is the blank document used without a template. It
// defines Heading 1 to 6, List Bullet with a bullet numbering and Table Grid.
//
//go:embed starter.docx
var starterDocument []byte

// WordOptions configure the Word renderer.
type WordOptions struct {
	// TemplatePath is a .docx whose content is kept and appended to. An
	// empty path starts from the built-in blank document.
	TemplatePath string

	Styles WordStyles
}

// headingSizes are half-point font sizes for headings without a style.
var headingSizes = map[int]string{1: "32", 2: "28", 3: "26", 4: "24", 5: "22", 6: "22"}

type wordWriter struct {
	doc    *docx.Docx
	styles StyleCatalog
	warned map[string]bool
}

// Word renders the release into a Word document. A template that cannot be
// loaded is logged and replaced by a blank document.
func Word(release grouping.Release, layout Layout, opts WordOptions) *docx.Docx {
	w := &wordWriter{warned: make(map[string]bool)}
	w.doc, w.styles = openDocument(opts.TemplatePath)
	st := withDefaultStyles(opts.Styles)

	// The section properties must stay the last body element.
	var sectPr interface{}
	if n := len(w.doc.Document.Body.Items); n > 0 {
		if sp, ok := w.doc.Document.Body.Items[n-1].(*docx.SectPr); ok {
			sectPr = sp
			w.doc.Document.Body.Items = w.doc.Document.Body.Items[:n-1]
		}
	}

	w.heading(layout.Title(release), st.MainTitle, 1)
	w.doc.AddParagraph()

	if headers, rows, ok := layout.tableCells(release.Summary); ok {
		w.heading(layout.Table.Title, st.TableTitle, 2)
		w.table(headers, rows, st.Table)
		w.doc.AddParagraph()
	}

	for _, sec := range release.Sections {
		w.section(sec, st)
		w.doc.AddParagraph()
	}

	if sectPr != nil {
		w.doc.Document.Body.Items = append(w.doc.Document.Body.Items, sectPr)
	}
	return w.doc
}

func (w *wordWriter) section(sec *grouping.SectionResult, st WordStyles) {
	w.heading(sec.Section.Title, st.SectionTitle, 2)

	if sec.Section.Template == "" {
		logging.Warn("section has no issue template", "section_id", sec.Section.ID)
		w.paragraph(MissingTemplateText, st.ListFirstLine)
		return
	}

	if sec.Mode() == grouping.ModeFlat {
		issues := sec.Issues()
		if len(issues) == 0 {
			w.paragraph(NoIssuesText, st.ListFirstLine)
			return
		}
		for _, issue := range issues {
			w.item(nonBlankLines(Expand(sec.Section.Template, issue.Data())), st)
		}
		return
	}

	for _, name := range sec.ComponentNames() {
		blocks := componentBlocks(sec, sec.Component(name))
		if len(blocks) == 0 {
			continue
		}
		w.heading(name, st.ComponentGroup, 3)
		for _, block := range blocks {
			if block.heading != "" {
				w.heading(block.heading, st.IssueTypeGroup, 4)
				continue
			}
			w.item(block.lines, st)
		}
		w.doc.AddParagraph()
	}
}

// heading adds a heading paragraph. The configured style falls back to
// "Heading N", then to a bold run sized by level.
func (w *wordWriter) heading(text, style string, level int) {
	if text == "" {
		return
	}
	p := w.doc.AddParagraph()
	if id, ok := w.styles.Resolve(StyleTypeParagraph, style); ok {
		p.Style(id).AddText(text)
		return
	}
	fallback := fmt.Sprintf("Heading %d", level)
	if id, ok := w.styles.Resolve(StyleTypeParagraph, fallback); ok {
		w.warnOnce("heading style not found, using fallback", style, "fallback", fallback)
		p.Style(id).AddText(text)
		return
	}
	w.warnOnce("heading style not found, using bold text", style, "level", level)
	p.AddText(text).Bold().Size(headingSizes[level])
}

// paragraph adds a paragraph in the named style, falling back to the normal
// style. It reports whether the paragraph ended up in the normal style.
func (w *wordWriter) paragraph(text, style string) (*docx.Paragraph, bool) {
	p := w.doc.AddParagraph()
	id, ok := w.styles.Resolve(StyleTypeParagraph, style)
	if !ok {
		w.warnOnce("paragraph style not found, using normal", style)
		id = w.styles.NormalID()
	}
	if id != "" {
		p.Style(id)
	}
	p.AddText(text)
	return p, id == "" || id == w.styles.NormalID()
}

// item adds one issue: the first line as a list item, the rest as
// continuation paragraphs.
func (w *wordWriter) item(lines []string, st WordStyles) {
	for i, line := range lines {
		if i == 0 {
			w.paragraph(line, st.ListFirstLine)
			continue
		}
		p, normal := w.paragraph(line, st.ListContinuation)
		if normal {
			if p.Properties == nil {
				p.Properties = &docx.ParagraphProperties{}
			}
			p.Properties.Ind = &docx.Ind{Left: ContinuationIndent}
		}
	}
}

func (w *wordWriter) table(headers []string, rows [][]string, style string) {
	tbl := w.doc.AddTable(len(rows)+1, len(headers), 0, nil)

	id, ok := w.styles.Resolve(StyleTypeTable, style)
	if !ok {
		w.warnOnce("table style not found, using Table Grid", style)
		id, ok = w.styles.Resolve(StyleTypeTable, "Table Grid")
	}
	if ok {
		tbl.TableProperties.Style = &docx.WTableStyle{Val: id}
	}

	for j, h := range headers {
		tbl.TableRows[0].TableCells[j].AddParagraph().AddText(h)
	}
	for i, row := range rows {
		for j, cell := range row {
			tbl.TableRows[i+1].TableCells[j].AddParagraph().AddText(cell)
		}
	}
}

func (w *wordWriter) warnOnce(msg, style string, args ...any) {
	if w.warned[style] {
		return
	}
	w.warned[style] = true
	logging.Warn(msg, append([]any{"style", style}, args...)...)
}

// openDocument starts from the template at path, or from the built-in
// blank document.
func openDocument(path string) (*docx.Docx, StyleCatalog) {
	if path != "" {
		doc, styles, err := loadTemplate(path)
		if err == nil {
			logging.Info("using word template", "path", path)
			return doc, styles
		}
		logging.Warn("failed to load word template, using blank document", "path", path, "error", err)
	}

	doc, styles, err := parseDocument(starterDocument)
	if err == nil {
		return doc, styles
	}
	logging.Warn("failed to load blank document, using bare defaults", "error", err)

	styles, err = DefaultStyles()
	if err != nil {
		logging.Warn("failed to read default styles", "error", err)
	}
	return docx.New().WithDefaultTheme(), styles
}

func loadTemplate(path string) (*docx.Docx, StyleCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, StyleCatalog{}, fmt.Errorf("failed to read template: %w", err)
	}
	return parseDocument(data)
}

// parseDocument parses a .docx held in memory together with its styles.
func parseDocument(data []byte) (*docx.Docx, StyleCatalog, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, StyleCatalog{}, fmt.Errorf("failed to parse template: %w", err)
	}
	styles, err := StylesFromPackage(data)
	if err != nil {
		logging.Warn("template has no readable styles", "error", err)
	}
	return doc, styles, nil
}

func withDefaultStyles(st WordStyles) WordStyles {
	d := DefaultWordStyles()
	if st.MainTitle == "" {
		st.MainTitle = d.MainTitle
	}
	if st.TableTitle == "" {
		st.TableTitle = d.TableTitle
	}
	if st.SectionTitle == "" {
		st.SectionTitle = d.SectionTitle
	}
	if st.ComponentGroup == "" {
		st.ComponentGroup = d.ComponentGroup
	}
	if st.IssueTypeGroup == "" {
		st.IssueTypeGroup = d.IssueTypeGroup
	}
	if st.ListFirstLine == "" {
		st.ListFirstLine = d.ListFirstLine
	}
	if st.ListContinuation == "" {
		st.ListContinuation = d.ListContinuation
	}
	if st.Table == "" {
		st.Table = d.Table
	}
	return st
}
