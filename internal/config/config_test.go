package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/janekbaraniewski/tokencost/internal/core"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.RefreshIntervalSeconds != 30 {
		t.Errorf("default refresh = %d, want 30", cfg.RefreshIntervalSeconds)
	}
	if cfg.CacheTTL() != time.Minute {
		t.Errorf("default cache ttl = %s, want 1m", cfg.CacheTTL())
	}
	if len(cfg.Sources) != 2 {
		t.Errorf("default sources = %v, want both", cfg.Sources)
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nonexistent.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RefreshIntervalSeconds != 30 {
		t.Error("should return defaults for missing file")
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	content := `{
  "refresh_interval_seconds": 10,
  "cache_ttl_seconds": -4,
  "sources": [" Codex ", "codex", ""],
  "codex_sessions_root": "/data/codex/sessions",
  "claude_projects_roots": ["/a/projects", "  "]
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if cfg.RefreshInterval() != 10*time.Second {
		t.Errorf("refresh = %s, want 10s", cfg.RefreshInterval())
	}
	if cfg.CacheTTLSeconds != 60 {
		t.Errorf("cache ttl = %d, want default 60", cfg.CacheTTLSeconds)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0] != core.SourceCodex {
		t.Errorf("sources = %v, want [codex]", cfg.Sources)
	}

	opts := cfg.ScanOptions()
	if opts.CodexSessionsRoot != "/data/codex/sessions" {
		t.Errorf("codex root = %q", opts.CodexSessionsRoot)
	}
	if len(opts.ClaudeProjectsRoots) != 1 || opts.ClaudeProjectsRoots[0] != "/a/projects" {
		t.Errorf("claude roots = %v", opts.ClaudeProjectsRoots)
	}
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg.RefreshIntervalSeconds != 30 {
		t.Error("should fall back to defaults on parse error")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	cfg := DefaultConfig()
	cfg.PricingOverrides = "/etc/tokencost/pricing.yaml"

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.PricingOverrides != cfg.PricingOverrides {
		t.Errorf("pricing overrides = %q", got.PricingOverrides)
	}
}

func TestLoadAppliesEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.json")
	if err := os.WriteFile(path, []byte(`{"history_db":"/from/file.db","refresh_interval_seconds":5}`), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TOKENCOST_CONFIG", path)
	t.Setenv("TOKENCOST_HISTORY_DB", "/from/env.db")
	t.Setenv("TOKENCOST_PRICING", "/from/env.yaml")
	t.Setenv("TOKENCOST_DEBUG", "true")

	cfg, env, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !env.Debug {
		t.Error("expected debug from env")
	}
	if cfg.RefreshIntervalSeconds != 5 {
		t.Errorf("refresh = %d, want value from TOKENCOST_CONFIG file", cfg.RefreshIntervalSeconds)
	}
	if cfg.HistoryDB != "/from/env.db" {
		t.Errorf("history db = %q, want env override", cfg.HistoryDB)
	}
	if cfg.PricingOverrides != "/from/env.yaml" {
		t.Errorf("pricing = %q, want env override", cfg.PricingOverrides)
	}
}

func TestConfigDirHonorsXDG(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("windows layout")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if got := ConfigPath(); got != filepath.Join(dir, "tokencost", "settings.json") {
		t.Errorf("ConfigPath = %q", got)
	}
}
