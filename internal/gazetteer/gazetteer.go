// Package gazetteer holds the set of known given names used to anchor
// name candidates found by the chunker.
package gazetteer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Gazetteer is an immutable lowercase name set, safe for concurrent readers.
type Gazetteer struct {
	names map[string]struct{}
}

// New builds a gazetteer from the given names.
func New(names ...string) *Gazetteer {
	g := &Gazetteer{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		g.add(n)
	}
	return g
}

// Load reads a name file: whitespace-separated tokens, one or many per line.
// Lines starting with '#' are comments.
func Load(path string) (*Gazetteer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gazetteer: %w", err)
	}
	defer f.Close()

	g, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read gazetteer %s: %w", path, err)
	}
	return g, nil
}

// Parse reads names from r. See Load for the format.
func Parse(r io.Reader) (*Gazetteer, error) {
	g := &Gazetteer{names: make(map[string]struct{})}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, tok := range strings.Fields(line) {
			g.add(tok)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Gazetteer) add(name string) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name != "" {
		g.names[name] = struct{}{}
	}
}

// Contains reports whether token is a known name, ignoring case.
func (g *Gazetteer) Contains(token string) bool {
	if g == nil {
		return false
	}
	_, ok := g.names[strings.ToLower(token)]
	return ok
}

// Len returns the number of distinct names.
func (g *Gazetteer) Len() int {
	if g == nil {
		return 0
	}
	return len(g.names)
}
