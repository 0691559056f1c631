package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/praetorian-inc/linemark/pkg/types"
)

func TestLoad_Full(t *testing.T) {
	data := `store: /var/lib/linemark/state.db
kind: assistant
significance:
  min_lines: 5
  min_chars: 300
  action_window: 1500ms
  suppress_actions:
    - paste
  ignore_patterns:
    - '^\s*$'
  suspended: true
exclude:
  - vendor/
  - "*.min.js"
log:
  verbosity: 2
  file: /tmp/linemark.log
`

	cfg, err := Load([]byte(data))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Store != "/var/lib/linemark/state.db" {
		t.Errorf("expected store path, got %s", cfg.Store)
	}
	if cfg.Kind != types.Kind("assistant") {
		t.Errorf("expected kind assistant, got %s", cfg.Kind)
	}
	if cfg.Significance.MinLines != 5 || cfg.Significance.MinChars != 300 {
		t.Errorf("unexpected thresholds: %+v", cfg.Significance)
	}
	if cfg.Significance.ActionWindow != 1500*time.Millisecond {
		t.Errorf("expected 1.5s action window, got %s", cfg.Significance.ActionWindow)
	}
	if len(cfg.Significance.SuppressActions) != 1 {
		t.Errorf("expected 1 suppress action, got %d", len(cfg.Significance.SuppressActions))
	}
	if !cfg.Significance.Suspended {
		t.Error("expected suspended")
	}
	if len(cfg.Exclude) != 2 {
		t.Errorf("expected 2 exclude patterns, got %d", len(cfg.Exclude))
	}
	if cfg.Log.Verbosity != 2 || cfg.Log.File != "/tmp/linemark.log" {
		t.Errorf("unexpected log section: %+v", cfg.Log)
	}
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	cfg, err := Load([]byte("significance:\n  min_lines: 10\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	def := Default()
	if cfg.Store != def.Store {
		t.Errorf("expected default store %s, got %s", def.Store, cfg.Store)
	}
	if cfg.Significance.MinLines != 10 {
		t.Errorf("expected min_lines 10, got %d", cfg.Significance.MinLines)
	}
	if cfg.Significance.MinChars != def.Significance.MinChars {
		t.Errorf("expected default min_chars, got %d", cfg.Significance.MinChars)
	}
	if cfg.Kind != types.KindToolGenerated {
		t.Errorf("expected default kind, got %s", cfg.Kind)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty store", "store: ''\n"},
		{"negative lines", "significance:\n  min_lines: -1\n"},
		{"negative window", "significance:\n  action_window: -1s\n"},
		{"verbosity out of range", "log:\n  verbosity: 9\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.data))
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestLoad_Malformed(t *testing.T) {
	_, err := Load([]byte("store: [unterminated"))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if errors.Is(err, ErrInvalid) {
		t.Error("parse errors are not validation errors")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestConfig_Classifier(t *testing.T) {
	cfg := Default()
	cfg.Significance.IgnorePatterns = []string{"("}

	if _, err := cfg.Classifier(); err == nil {
		t.Error("expected invalid ignore pattern to fail")
	}

	cfg.Significance.IgnorePatterns = nil
	c, err := cfg.Classifier()
	if err != nil {
		t.Fatalf("Classifier failed: %v", err)
	}
	if c.Suspended() {
		t.Error("default classifier should not be suspended")
	}
}

func TestConfig_MarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Exclude = []string{"vendor/"}

	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	back, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if back.Significance.ActionWindow != cfg.Significance.ActionWindow {
		t.Errorf("action window lost: %s", back.Significance.ActionWindow)
	}
	if len(back.Exclude) != 1 || back.Exclude[0] != "vendor/" {
		t.Errorf("exclude lost: %v", back.Exclude)
	}
}

func TestDefault_MarshalLoadsBackUnchanged(t *testing.T) {
	data, err := Default().Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	back, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(Default(), back) {
		t.Errorf("default config changed after round trip:\nwant %+v\ngot  %+v", Default(), back)
	}
}
