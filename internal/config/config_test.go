package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Practice.Lang != nil {
		t.Fatalf("expected empty config")
	}
}

func TestLoadConfigPracticeValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `[practice]
lang = "de"
min-chars = 40
speech-cmd = "whisper-stream --lines"
script-interval = "250ms"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Practice.Lang == nil || *cfg.Practice.Lang != "de" {
		t.Fatalf("unexpected lang: %v", cfg.Practice.Lang)
	}
	if cfg.Practice.MinChars == nil || *cfg.Practice.MinChars != 40 {
		t.Fatalf("unexpected min-chars: %v", cfg.Practice.MinChars)
	}
	if cfg.Practice.SpeechCmd == nil || *cfg.Practice.SpeechCmd != "whisper-stream --lines" {
		t.Fatalf("unexpected speech-cmd: %v", cfg.Practice.SpeechCmd)
	}
	if cfg.Practice.ScriptInterval == nil || *cfg.Practice.ScriptInterval != "250ms" {
		t.Fatalf("unexpected script-interval: %v", cfg.Practice.ScriptInterval)
	}
	if cfg.Practice.Catalog != nil {
		t.Fatalf("expected catalog to stay unset")
	}
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice]\nwords = 25\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "practice.words") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_STATE_HOME", "/state")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "readalong", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "readalong", "library.db") {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/state", "readalong", "readalong.log") {
		t.Fatalf("unexpected log path %q", got)
	}
}
