package render

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fumiama/go-docx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customStyles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
  <w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/></w:style>
  <w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/></w:style>
  <w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/></w:style>
  <w:style w:type="paragraph" w:styleId="ListBullet"><w:name w:val="List Bullet"/></w:style>
  <w:style w:type="paragraph" w:styleId="BodyIndent"><w:name w:val="Body Indent"/></w:style>
  <w:style w:type="table" w:styleId="TableGrid"><w:name w:val="Table Grid"/></w:style>
</w:styles>`

// bodyTexts lists paragraph texts in body order, with "<table>" for tables.
func bodyTexts(doc *docx.Docx) []string {
	var out []string
	for _, item := range doc.Document.Body.Items {
		switch v := item.(type) {
		case *docx.Paragraph:
			out = append(out, v.String())
		case *docx.Table:
			out = append(out, "<table>")
		}
	}
	return out
}

func findParagraph(t *testing.T, doc *docx.Docx, text string) *docx.Paragraph {
	t.Helper()
	for _, item := range doc.Document.Body.Items {
		if p, ok := item.(*docx.Paragraph); ok && p.String() == text {
			return p
		}
	}
	t.Fatalf("paragraph %q not found", text)
	return nil
}

func styleOf(p *docx.Paragraph) string {
	if p.Properties == nil || p.Properties.Style == nil {
		return ""
	}
	return p.Properties.Style.Val
}

func indentOf(p *docx.Paragraph) int {
	if p.Properties == nil || p.Properties.Ind == nil {
		return 0
	}
	return p.Properties.Ind.Left
}

// writeTemplate saves a document with one intro paragraph and section
// properties. A non-empty styles replaces the styles part.
func writeTemplate(t *testing.T, styles string) string {
	t.Helper()
	doc := docx.New().WithDefaultTheme()
	doc.AddParagraph().AddText("Intro")
	doc.Document.Body.Items = append(doc.Document.Body.Items, &docx.SectPr{PgSz: &docx.PgSz{W: 11906, H: 16838}})

	var buf bytes.Buffer
	_, err := doc.WriteTo(&buf)
	require.NoError(t, err)

	data := buf.Bytes()
	if styles != "" {
		data = replacePart(t, data, "word/styles.xml", styles)
	}

	path := filepath.Join(t.TempDir(), "template.docx")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func replacePart(t *testing.T, data []byte, name, content string) []byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	for _, f := range zr.File {
		w, err := zw.Create(f.Name)
		require.NoError(t, err)
		if f.Name == name {
			_, err = io.WriteString(w, content)
			require.NoError(t, err)
			continue
		}
		r, err := f.Open()
		require.NoError(t, err)
		_, err = io.Copy(w, r)
		require.NoError(t, err)
		require.NoError(t, r.Close())
	}
	require.NoError(t, zw.Close())
	return out.Bytes()
}

func TestParseStyles(t *testing.T) {
	catalog, err := ParseStyles(strings.NewReader(customStyles))
	require.NoError(t, err)

	testCases := []struct {
		name     string
		kind     string
		style    string
		expected string
		found    bool
	}{
		{name: "by display name", kind: StyleTypeParagraph, style: "Heading 1", expected: "Heading1", found: true},
		{name: "by id", kind: StyleTypeParagraph, style: "ListBullet", expected: "ListBullet", found: true},
		{name: "spaces and case ignored", kind: StyleTypeTable, style: "tablegrid", expected: "TableGrid", found: true},
		{name: "wrong type", kind: StyleTypeTable, style: "Heading 1"},
		{name: "unknown", kind: StyleTypeParagraph, style: "Heading 4"},
		{name: "empty", kind: StyleTypeParagraph, style: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := catalog.Resolve(tc.kind, tc.style)
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.expected, id)
		})
	}

	assert.Equal(t, "Normal", catalog.NormalID())
}

func TestDefaultStyles(t *testing.T) {
	catalog, err := DefaultStyles()
	require.NoError(t, err)

	id, ok := catalog.Resolve(StyleTypeTable, "TableGrid")
	assert.True(t, ok)
	assert.Equal(t, "a3", id)
	assert.Equal(t, "a", catalog.NormalID())
}

func TestStarterStyles(t *testing.T) {
	catalog, err := StylesFromPackage(starterDocument)
	require.NoError(t, err)

	testCases := []struct {
		name     string
		kind     string
		style    string
		expected string
	}{
		{name: "heading 1", kind: StyleTypeParagraph, style: "Heading 1", expected: "Heading1"},
		{name: "heading 4", kind: StyleTypeParagraph, style: "Heading 4", expected: "Heading4"},
		{name: "heading 6", kind: StyleTypeParagraph, style: "Heading 6", expected: "Heading6"},
		{name: "list bullet", kind: StyleTypeParagraph, style: "List Bullet", expected: "ListBullet"},
		{name: "table grid", kind: StyleTypeTable, style: "TableGrid", expected: "TableGrid"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := catalog.Resolve(tc.kind, tc.style)
			assert.True(t, ok)
			assert.Equal(t, tc.expected, id)
		})
	}

	assert.Equal(t, "Normal", catalog.NormalID())
}

func TestWordBlankDocument(t *testing.T) {
	release := buildRelease(t, testSections, testIssues...)

	doc := Word(release, testLayout, WordOptions{})

	assert.Equal(t, []string{
		"Release Notes - 2.5.0 - 2026-10-19", "",
		"Components", "<table>", "",
		"Changes",
		"Integration Service", "Bug", "P-2: Second", "Line A", "Line B", "Story", "P-1: First", "Only", "",
		"Payments", "Story", "P-1: First", "Only", "",
		"",
		"All", "P-1 [Integration Service, Payments]", "P-2 [Integration Service]", "",
		"Empty", NoIssuesText, "",
		"Broken", MissingTemplateText, "",
	}, bodyTexts(doc))

	headings := []struct {
		text  string
		style string
	}{
		{text: "Release Notes - 2.5.0 - 2026-10-19", style: "Heading1"},
		{text: "Components", style: "Heading2"},
		{text: "Changes", style: "Heading2"},
		{text: "Integration Service", style: "Heading3"},
		{text: "Bug", style: "Heading4"},
	}
	for _, h := range headings {
		assert.Equal(t, h.style, styleOf(findParagraph(t, doc, h.text)), h.text)
	}

	first := findParagraph(t, doc, "P-2: Second")
	assert.Equal(t, "ListBullet", styleOf(first))
	assert.Zero(t, indentOf(first))

	cont := findParagraph(t, doc, "Line A")
	assert.Equal(t, "Normal", styleOf(cont))
	assert.Equal(t, ContinuationIndent, indentOf(cont))

	assert.Equal(t, "ListBullet", styleOf(findParagraph(t, doc, NoIssuesText)))

	items := doc.Document.Body.Items
	_, ok := items[len(items)-1].(*docx.SectPr)
	assert.True(t, ok, "section properties must stay last")

	var tbl *docx.Table
	for _, item := range doc.Document.Body.Items {
		if v, ok := item.(*docx.Table); ok {
			tbl = v
		}
	}
	require.NotNil(t, tbl)
	assert.Equal(t, "TableGrid", tbl.TableProperties.Style.Val)
	require.Len(t, tbl.TableRows, 3)
	assert.Equal(t, "Version", tbl.TableRows[0].TableCells[1].Paragraphs[0].String())
	assert.Equal(t, "Integration Service", tbl.TableRows[1].TableCells[0].Paragraphs[0].String())
	assert.Equal(t, "2.5.0, 2.5.1", tbl.TableRows[1].TableCells[1].Paragraphs[0].String())
}

func TestWordTemplate(t *testing.T) {
	path := writeTemplate(t, customStyles)
	release := buildRelease(t, testSections, testIssues...)

	doc := Word(release, testLayout, WordOptions{
		TemplatePath: path,
		Styles: WordStyles{
			MainTitle:        "Title",
			ComponentGroup:   "Heading 3",
			ListContinuation: "Body Indent",
		},
	})

	items := doc.Document.Body.Items
	require.NotEmpty(t, items)
	intro, ok := items[0].(*docx.Paragraph)
	require.True(t, ok)
	assert.Equal(t, "Intro", intro.String())
	_, ok = items[len(items)-1].(*docx.SectPr)
	assert.True(t, ok, "section properties must stay last")

	assert.Equal(t, "Title", styleOf(findParagraph(t, doc, "Release Notes - 2.5.0 - 2026-10-19")))
	assert.Equal(t, "Heading2", styleOf(findParagraph(t, doc, "Changes")))

	// Heading 3 is missing and has no "Heading 3" fallback either.
	component := findParagraph(t, doc, "Payments")
	assert.Empty(t, styleOf(component))

	first := findParagraph(t, doc, "P-2: Second")
	assert.Equal(t, "ListBullet", styleOf(first))

	cont := findParagraph(t, doc, "Line A")
	assert.Equal(t, "BodyIndent", styleOf(cont))
	assert.Zero(t, indentOf(cont))
}

func TestWordContinuationFallsBackToNormal(t *testing.T) {
	path := writeTemplate(t, customStyles)
	release := buildRelease(t, testSections, testIssues...)

	doc := Word(release, testLayout, WordOptions{
		TemplatePath: path,
		Styles:       WordStyles{ListContinuation: "Missing Style"},
	})

	cont := findParagraph(t, doc, "Line B")
	assert.Equal(t, "Normal", styleOf(cont))
	assert.Equal(t, ContinuationIndent, indentOf(cont))
}

func TestWordMissingTemplateFallsBack(t *testing.T) {
	release := buildRelease(t, testSections, testIssues...)

	doc := Word(release, testLayout, WordOptions{TemplatePath: filepath.Join(t.TempDir(), "missing.docx")})

	assert.Equal(t, "Release Notes - 2.5.0 - 2026-10-19", bodyTexts(doc)[0])
}

func TestWordRoundTrip(t *testing.T) {
	release := buildRelease(t, testSections, testIssues...)
	doc := Word(release, testLayout, WordOptions{})

	var buf bytes.Buffer
	_, err := doc.WriteTo(&buf)
	require.NoError(t, err)

	parsed, err := docx.Parse(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	texts := bodyTexts(parsed)
	require.NotEmpty(t, texts)
	assert.Equal(t, "Release Notes - 2.5.0 - 2026-10-19", texts[0])
	assert.Contains(t, texts, "P-1 [Integration Service, Payments]")
	assert.Equal(t, "Heading1", styleOf(findParagraph(t, parsed, texts[0])))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "word/numbering.xml")
	assert.Contains(t, names, "word/styles.xml")
}
