package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/fumiama/go-docx"
)

// Style types as found in styles.xml.
const (
	StyleTypeParagraph = "paragraph"
	StyleTypeTable     = "table"
)

const defaultStylesPath = "xml/default/word/styles.xml"

type stylesPart struct {
	Styles []struct {
		Type    string `xml:"type,attr"`
		Default string `xml:"default,attr"`
		ID      string `xml:"styleId,attr"`
		Name    struct {
			Val string `xml:"val,attr"`
		} `xml:"name"`
	} `xml:"style"`
}

type styleKey struct {
	kind string
	name string
}

// StyleCatalog resolves style names of one document to style ids.
type StyleCatalog struct {
	byName map[styleKey]string
	byID   map[styleKey]string
	normal string
}

// ParseStyles reads a word/styles.xml part.
func ParseStyles(r io.Reader) (StyleCatalog, error) {
	var part stylesPart
	if err := xml.NewDecoder(r).Decode(&part); err != nil {
		return StyleCatalog{}, fmt.Errorf("failed to decode styles: %w", err)
	}

	c := StyleCatalog{
		byName: make(map[styleKey]string, len(part.Styles)),
		byID:   make(map[styleKey]string, len(part.Styles)),
	}
	for _, s := range part.Styles {
		if s.ID == "" {
			continue
		}
		c.byID[styleKey{kind: s.Type, name: normalizeStyleName(s.ID)}] = s.ID
		if s.Name.Val != "" {
			c.byName[styleKey{kind: s.Type, name: normalizeStyleName(s.Name.Val)}] = s.ID
		}
		if s.Type == StyleTypeParagraph && (s.Default == "1" || s.Default == "true") && c.normal == "" {
			c.normal = s.ID
		}
	}
	if c.normal == "" {
		c.normal, _ = c.Resolve(StyleTypeParagraph, "Normal")
	}
	return c, nil
}

// DefaultStyles returns the catalog of the document created by docx.New
// with its default theme.
func DefaultStyles() (StyleCatalog, error) {
	data, err := fs.ReadFile(docx.TemplateXMLFS, defaultStylesPath)
	if err != nil {
		return StyleCatalog{}, fmt.Errorf("failed to read default styles: %w", err)
	}
	return ParseStyles(bytes.NewReader(data))
}

// StylesFromPackage reads the styles part of a .docx held in memory.
func StylesFromPackage(data []byte) (StyleCatalog, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return StyleCatalog{}, fmt.Errorf("failed to open document package: %w", err)
	}
	f, err := zr.Open("word/styles.xml")
	if err != nil {
		return StyleCatalog{}, fmt.Errorf("failed to open styles part: %w", err)
	}
	defer f.Close()
	return ParseStyles(f)
}

// Resolve returns the id of the style of the given type whose name or id
// matches name. Case and spaces are ignored, so "TableGrid" finds
// "Table Grid".
func (c StyleCatalog) Resolve(kind, name string) (string, bool) {
	key := styleKey{kind: kind, name: normalizeStyleName(name)}
	if key.name == "" {
		return "", false
	}
	if id, ok := c.byName[key]; ok {
		return id, true
	}
	id, ok := c.byID[key]
	return id, ok
}

// NormalID returns the id of the default paragraph style, or "".
func (c StyleCatalog) NormalID() string {
	return c.normal
}

func normalizeStyleName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}
