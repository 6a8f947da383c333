package adapter

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// docxSegments are read in this order; headers come before the body.
var docxSegments = []string{
	"word/header1.xml",
	"word/header2.xml",
	"word/header3.xml",
	"word/document.xml",
}

// readDocx returns the paragraph text of a .docx archive.
// found reports whether any of docxSegments exists in the archive.
func readDocx(path string) (text string, found bool, err error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", false, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	byName := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		byName[f.Name] = f
	}

	var paragraphs []string
	for _, name := range docxSegments {
		f, ok := byName[name]
		if !ok {
			continue
		}
		found = true
		rc, err := f.Open()
		if err != nil {
			return "", found, fmt.Errorf("open %s: %w", name, err)
		}
		paras, err := segmentParagraphs(rc)
		rc.Close()
		if err != nil {
			return "", found, fmt.Errorf("parse %s: %w", name, err)
		}
		paragraphs = append(paragraphs, paras...)
	}
	return strings.Join(paragraphs, "\n"), found, nil
}

// segmentParagraphs returns the text of every w:p in document order.
// A paragraph's text is the concatenation of all w:t leaves beneath it,
// including those of nested paragraphs (text boxes); empty paragraphs are dropped.
func segmentParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		slots  []*strings.Builder // one per paragraph, in start order
		open   []int              // indexes into slots of the paragraphs being read
		inText int
	)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "p":
				slots = append(slots, &strings.Builder{})
				open = append(open, len(slots)-1)
			case "t":
				inText++
			}
		case xml.EndElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "p":
				if len(open) > 0 {
					open = open[:len(open)-1]
				}
			case "t":
				if inText > 0 {
					inText--
				}
			}
		case xml.CharData:
			if inText == 0 {
				continue
			}
			for _, i := range open {
				slots[i].Write(t)
			}
		}
	}

	out := make([]string, 0, len(slots))
	for _, b := range slots {
		if b.Len() > 0 {
			out = append(out, b.String())
		}
	}
	return out, nil
}
