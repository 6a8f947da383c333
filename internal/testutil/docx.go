// Package testutil builds small document fixtures for tests.
package testutil

import (
	"archive/zip"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// WordXML renders a WordprocessingML part with one w:p per paragraph.
// Each paragraph is split on "|" into separate runs.
func WordXML(root string, paragraphs ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<w:` + root + ` xmlns:w="` + wordNS + `">`)
	if root == "document" {
		b.WriteString("<w:body>")
	}
	for _, p := range paragraphs {
		b.WriteString("<w:p>")
		if p != "" {
			for _, run := range strings.Split(p, "|") {
				b.WriteString(`<w:r><w:t xml:space="preserve">`)
				b.WriteString(xmlEscape(run))
				b.WriteString("</w:t></w:r>")
			}
		}
		b.WriteString("</w:p>")
	}
	if root == "document" {
		b.WriteString("</w:body>")
	}
	b.WriteString("</w:" + root + ">")
	return b.String()
}

// WriteDocx writes a zip archive at path holding parts (name -> content).
func WriteDocx(t *testing.T, path string, parts map[string]string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	names := make([]string, 0, len(parts))
	for name := range parts {
		names = append(names, name)
	}
	sort.Strings(names)

	zw := zip.NewWriter(f)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(parts[name])); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return path
}

// WriteSimpleDocx writes a .docx whose body holds paragraphs.
func WriteSimpleDocx(t *testing.T, path string, paragraphs ...string) string {
	t.Helper()
	return WriteDocx(t, path, map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml":   WordXML("document", paragraphs...),
	})
}

func xmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
