package adapter

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/resume-extractor/internal/testutil"
)

func TestSegmentParagraphs(t *testing.T) {
	xml := testutil.WordXML("document", "John |Smith", "", "Senior Engineer")
	paras, err := segmentParagraphs(strings.NewReader(xml))
	require.NoError(t, err)
	require.Equal(t, []string{"John Smith", "Senior Engineer"}, paras)
}

func TestSegmentParagraphs_IgnoresOtherNamespaces(t *testing.T) {
	xml := `<w:document xmlns:w="` + wordNS + `" xmlns:x="urn:other">` +
		`<w:body><w:p><x:t>hidden</x:t><w:r><w:t>shown</w:t></w:r></w:p></w:body></w:document>`
	paras, err := segmentParagraphs(strings.NewReader(xml))
	require.NoError(t, err)
	require.Equal(t, []string{"shown"}, paras)
}

func TestSegmentParagraphs_Malformed(t *testing.T) {
	_, err := segmentParagraphs(strings.NewReader(`<w:document xmlns:w="` + wordNS + `"><w:p>`))
	require.Error(t, err)
}

func TestReadDocx_HeadersBeforeBody(t *testing.T) {
	path := testutil.WriteDocx(t, filepath.Join(t.TempDir(), "cv.docx"), map[string]string{
		"word/document.xml": testutil.WordXML("document", "Body line"),
		"word/header2.xml":  testutil.WordXML("hdr", "Second header"),
		"word/header1.xml":  testutil.WordXML("hdr", "Jane Doe"),
		"word/footer1.xml":  testutil.WordXML("ftr", "footer is not read"),
	})

	text, found, err := readDocx(path)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Jane Doe\nSecond header\nBody line", text)
}

func TestReadDocx_NoSegments(t *testing.T) {
	path := testutil.WriteDocx(t, filepath.Join(t.TempDir(), "empty.docx"), map[string]string{
		"docProps/app.xml": "<Properties/>",
	})

	text, found, err := readDocx(path)
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, text)
}

func TestReadDocx_EmptyHeadersDoNotChangeText(t *testing.T) {
	dir := t.TempDir()
	body := testutil.WordXML("document", "Jane Doe", "jane@example.com")

	bodyOnly := testutil.WriteDocx(t, filepath.Join(dir, "a.docx"), map[string]string{
		"word/document.xml": body,
	})
	withHeaders := testutil.WriteDocx(t, filepath.Join(dir, "b.docx"), map[string]string{
		"word/header1.xml":  testutil.WordXML("hdr"),
		"word/header2.xml":  testutil.WordXML("hdr", ""),
		"word/header3.xml":  testutil.WordXML("hdr", "", ""),
		"word/document.xml": body,
	})

	a, _, err := readDocx(bodyOnly)
	require.NoError(t, err)
	b, _, err := readDocx(withHeaders)
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Equal(t, "Jane Doe\njane@example.com", a)
}
