// Package config loads linemark configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/praetorian-inc/linemark/pkg/classify"
	"github.com/praetorian-inc/linemark/pkg/types"
	"gopkg.in/yaml.v3"
)

// DefaultStorePath is where snapshots are kept when no store is configured.
const DefaultStorePath = "linemark.db"

// ErrInvalid is returned for configurations that parse but cannot be used.
var ErrInvalid = errors.New("invalid configuration")

// Config is the top-level configuration file.
type Config struct {
	// Store is a SQLite path, a postgres:// DSN, or ":memory:".
	Store        string       `yaml:"store"`
	Kind         types.Kind   `yaml:"kind"`
	Significance Significance `yaml:"significance"`
	// Exclude holds gitignore-style patterns for documents that are never
	// tracked.
	Exclude []string `yaml:"exclude"`
	Log     Log      `yaml:"log"`
}

// Significance configures the tool-generated edit heuristics.
type Significance struct {
	MinLines        int           `yaml:"min_lines"`
	MinChars        int           `yaml:"min_chars"`
	ActionWindow    time.Duration `yaml:"action_window"`
	SuppressActions []string      `yaml:"suppress_actions"`
	IgnorePatterns  []string      `yaml:"ignore_patterns"`
	Suspended       bool          `yaml:"suspended"`
}

// Log configures diagnostic logging.
type Log struct {
	Verbosity int    `yaml:"verbosity"`
	File      string `yaml:"file"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	def := classify.DefaultConfig()
	return &Config{
		Store: DefaultStorePath,
		Kind:  types.KindToolGenerated,
		Significance: Significance{
			MinLines:        def.MinLines,
			MinChars:        def.MinChars,
			ActionWindow:    def.ActionWindow,
			SuppressActions: def.SuppressActions,
			IgnorePatterns:  []string{},
		},
		Exclude: []string{},
	}
}

// Load parses YAML over the defaults and validates the result.
func Load(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads and parses a configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	cfg, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Store) == "" {
		return fmt.Errorf("%w: store must not be empty", ErrInvalid)
	}
	if c.Significance.MinLines < 0 {
		return fmt.Errorf("%w: significance.min_lines must be >= 0", ErrInvalid)
	}
	if c.Significance.MinChars < 0 {
		return fmt.Errorf("%w: significance.min_chars must be >= 0", ErrInvalid)
	}
	if c.Significance.ActionWindow < 0 {
		return fmt.Errorf("%w: significance.action_window must be >= 0", ErrInvalid)
	}
	if c.Log.Verbosity < 0 || c.Log.Verbosity > 5 {
		return fmt.Errorf("%w: log.verbosity must be between 0 and 5", ErrInvalid)
	}
	return nil
}

// ClassifyConfig converts the significance section for package classify.
func (c *Config) ClassifyConfig() classify.Config {
	s := c.Significance
	return classify.Config{
		MinLines:        s.MinLines,
		MinChars:        s.MinChars,
		ActionWindow:    s.ActionWindow,
		SuppressActions: s.SuppressActions,
		IgnorePatterns:  s.IgnorePatterns,
		Suspended:       s.Suspended,
	}
}

// Classifier builds a classifier from the significance section.
func (c *Config) Classifier(opts ...classify.Option) (*classify.Classifier, error) {
	return classify.New(c.ClassifyConfig(), opts...)
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
