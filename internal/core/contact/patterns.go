package contact

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/resume-extractor/internal/common"
)

// Default phone patterns, applied in order.
var DefaultMobilePatterns = []string{
	// domestic with optional +91 prefix, 3-3-4
	`(\+91-)?(\+91)?(-\s)?([0-9]{3}).?([0-9]{3}).?([0-9]{4})`,
	// regional grouping, 4-3-3
	`(\+91-)?(\+91)?(-\s)?([0-9]{4}).?([0-9]{3}).?([0-9]{3})`,
	// generic international
	`\+[0-9]{1,3}[\s.-]?(\([0-9]{1,4}\)[\s.-]?)?[0-9]{2,4}([\s.-]?[0-9]{2,4}){2,3}`,
}

const DefaultEmailPattern = `[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`

var DefaultAllowedTLDs = []string{"com", "co", "in", "org"}

// Patterns is the compiled pattern table shared by all documents of a run.
type Patterns struct {
	Mobile      []*regexp.Regexp
	Email       *regexp.Regexp
	AllowedTLDs map[string]struct{}
}

// PatternFile is the YAML override format:
//
//	mobile_patterns: ["\\+44 ?[0-9]{4} ?[0-9]{6}"]  # appended to the defaults
//	email_pattern: ""                              # replaces the default when set
//	allowed_tlds: [com, org, io]                   # replaces the whitelist when set
type PatternFile struct {
	MobilePatterns []string `yaml:"mobile_patterns"`
	EmailPattern   string   `yaml:"email_pattern"`
	AllowedTLDs    []string `yaml:"allowed_tlds"`
}

// DefaultPatterns compiles the built-in tables.
func DefaultPatterns() *Patterns {
	p, err := Compile(PatternFile{})
	if err != nil {
		panic(err)
	}
	return p
}

// LoadPatterns reads a YAML override file. An empty path yields the defaults.
func LoadPatterns(path string) (*Patterns, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultPatterns(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewAppError(common.CodeConfig, "read contact patterns", err)
	}
	var pf PatternFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, common.NewAppError(common.CodeConfig, "parse contact patterns "+path, err)
	}
	return Compile(pf)
}

// Compile merges overrides into the defaults and compiles every expression.
func Compile(pf PatternFile) (*Patterns, error) {
	p := &Patterns{AllowedTLDs: make(map[string]struct{})}

	exprs := append(append([]string{}, DefaultMobilePatterns...), pf.MobilePatterns...)
	for i, expr := range exprs {
		re, err := regexp.Compile("(?m)" + expr)
		if err != nil {
			return nil, common.NewAppError(common.CodeConfig,
				fmt.Sprintf("mobile pattern %d", i), fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
		}
		p.Mobile = append(p.Mobile, re)
	}

	emailExpr := DefaultEmailPattern
	if strings.TrimSpace(pf.EmailPattern) != "" {
		emailExpr = pf.EmailPattern
	}
	re, err := regexp.Compile("(?m)" + emailExpr)
	if err != nil {
		return nil, common.NewAppError(common.CodeConfig, "email pattern",
			fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
	}
	p.Email = re

	tlds := DefaultAllowedTLDs
	if len(pf.AllowedTLDs) > 0 {
		tlds = pf.AllowedTLDs
	}
	for _, tld := range tlds {
		tld = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tld), "."))
		if tld != "" {
			p.AllowedTLDs[tld] = struct{}{}
		}
	}
	return p, nil
}
