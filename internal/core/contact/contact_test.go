package contact

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/resume-extractor/internal/common"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestExtractMobile(t *testing.T) {
	e := NewExtractor(nil, quietLogger())
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "dashed domestic", text: "Phone: 987-654-3210", want: "987-654-3210"},
		{name: "country code", text: "Mobile +91-9876543210", want: "+91-9876543210"},
		{name: "duplicates collapse", text: "9876543210\nalt 9876543210", want: "9876543210"},
		{name: "two numbers keep order", text: "111 222 3333 / 444.555.6666", want: "111 222 3333, 444.555.6666"},
		{name: "international", text: "Call +44 20 7946 0958 today", want: "+44 20 7946 0958"},
		{name: "none", text: "no digits here", want: ""},
		{name: "empty", text: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, e.ExtractMobile(tt.text))
		})
	}
}

func TestExtractMobile_MatchesAreSubstrings(t *testing.T) {
	e := NewExtractor(nil, quietLogger())
	text := "Reach me at (+91) 98765 43210 or 080-2345-6789, ref 12345678901"
	got := e.ExtractMobile(text)
	require.NotEmpty(t, got)
	for _, m := range strings.Split(got, ", ") {
		require.Contains(t, text, m)
	}
}

func TestExtractEmail(t *testing.T) {
	e := NewExtractor(nil, quietLogger())
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "lowercased", text: "Email: JANE@Example.com", want: "jane@example.com"},
		{name: "dedupe first seen", text: "a@x.org b@y.in A@X.org", want: "a@x.org, b@y.in"},
		{name: "tld filter", text: "x@y.io z@w.co q@r.net", want: "z@w.co"},
		{name: "multi label domain", text: "me@mail.example.co.in", want: "me@mail.example.co.in"},
		{name: "trailing dot rejected", text: "end@example.com.", want: ""},
		{name: "none", text: "@ nobody", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, e.ExtractEmail(tt.text))
		})
	}
}

func TestExtractEmail_Properties(t *testing.T) {
	e := NewExtractor(nil, quietLogger())
	got := e.ExtractEmail("One@A.com two@b.IN three@c.biz One@a.COM four@d.org")
	require.Equal(t, strings.ToLower(got), got)

	parts := strings.Split(got, ", ")
	seen := map[string]bool{}
	for _, p := range parts {
		require.False(t, seen[p], "duplicate %s", p)
		seen[p] = true
		tld := p[strings.LastIndex(p, ".")+1:]
		require.Contains(t, []string{"com", "co", "in", "org"}, tld)
	}
	require.Equal(t, []string{"one@a.com", "two@b.in", "four@d.org"}, parts)
}

func TestExtract_RecoversPanic(t *testing.T) {
	// a nil compiled pattern panics inside matching
	e := NewExtractor(&Patterns{Mobile: []*regexp.Regexp{nil}}, quietLogger())
	require.Empty(t, e.ExtractMobile("987-654-3210"))
	require.Empty(t, e.ExtractEmail("a@b.com"))
}

func TestLoadPatterns(t *testing.T) {
	p, err := LoadPatterns("")
	require.NoError(t, err)
	require.Len(t, p.Mobile, len(DefaultMobilePatterns))

	path := filepath.Join(t.TempDir(), "patterns.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
mobile_patterns:
  - '\(0[0-9]{2}\) [0-9]{4} [0-9]{4}'
allowed_tlds: [".IO", com]
`), 0o644))

	p, err = LoadPatterns(path)
	require.NoError(t, err)
	require.Len(t, p.Mobile, len(DefaultMobilePatterns)+1)

	e := NewExtractor(p, quietLogger())
	require.Equal(t, "(020) 7946 0958", e.ExtractMobile("tel (020) 7946 0958"))
	require.Equal(t, "a@b.io, c@d.com", e.ExtractEmail("a@b.io c@d.com e@f.org"))
}

func TestLoadPatterns_Invalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("mobile_patterns: ['([0-9]']\n"), 0o644))
	_, err := LoadPatterns(bad)
	require.ErrorIs(t, err, common.ErrInvalidInput)
	require.Equal(t, common.CodeConfig, common.CodeOf(err))

	notYAML := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(notYAML, []byte("mobile_patterns: [unclosed\n"), 0o644))
	_, err = LoadPatterns(notYAML)
	require.Equal(t, common.CodeConfig, common.CodeOf(err))

	_, err = LoadPatterns(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestExtract_MixedCaseAndCountryCode(t *testing.T) {
	e := NewExtractor(nil, quietLogger())
	require.Equal(t, "a@x.com", e.ExtractEmail("Contact: A@x.COM, a@x.com, b@x.net"))
	require.Equal(t, "+91-9876543210, 9876543210", e.ExtractMobile("+91-9876543210 and 9876543210"))
}
