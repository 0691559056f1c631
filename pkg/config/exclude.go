package config

import (
	"net/url"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// Excluder matches document identities against gitignore-style patterns.
// A nil Excluder excludes nothing.
type Excluder struct {
	ignore *gitignore.GitIgnore
}

// NewExcluder compiles patterns. It returns nil when there are none.
func NewExcluder(patterns []string) *Excluder {
	if len(patterns) == 0 {
		return nil
	}
	return &Excluder{ignore: gitignore.CompileIgnoreLines(patterns...)}
}

// Excluder returns the matcher for the exclude section.
func (c *Config) Excluder() *Excluder {
	return NewExcluder(c.Exclude)
}

// Excluded reports whether doc should not be tracked. File URIs are matched
// on their path.
func (e *Excluder) Excluded(doc string) bool {
	if e == nil {
		return false
	}
	return e.ignore.MatchesPath(documentPath(doc))
}

func documentPath(doc string) string {
	if !strings.Contains(doc, "://") {
		return doc
	}
	u, err := url.Parse(doc)
	if err != nil || u.Path == "" {
		return doc
	}
	return u.Path
}
