package detect

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/janekbaraniewski/tokencost/internal/core"
	"github.com/janekbaraniewski/tokencost/internal/providers/codex"
)

func stubLookPath(t *testing.T, found map[string]string) {
	t.Helper()
	prev := LookPath
	LookPath = func(name string) (string, error) {
		if p, ok := found[name]; ok {
			return p, nil
		}
		return "", errors.New("not found")
	}
	t.Cleanup(func() { LookPath = prev })
}

func TestDetect_CountsSessionLogs(t *testing.T) {
	stubLookPath(t, map[string]string{"codex": "/usr/local/bin/codex"})

	base := t.TempDir()
	sessions := filepath.Join(base, "sessions")
	day := filepath.Join(sessions, "2026", "02", "10")
	if err := os.MkdirAll(day, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"rollout-a.jsonl", "rollout-b.jsonl", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(day, name), []byte("{}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tools := Detect([]core.LogSource{codex.New()}, core.ScanOptions{CodexSessionsRoot: sessions})
	if len(tools) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(tools))
	}
	tool := tools[0]
	if tool.Source != core.SourceCodex {
		t.Errorf("source = %q", tool.Source)
	}
	if tool.BinaryPath != "/usr/local/bin/codex" {
		t.Errorf("binary = %q", tool.BinaryPath)
	}
	if len(tool.Roots) != 2 {
		t.Fatalf("expected sessions and archived roots, got %+v", tool.Roots)
	}
	if !tool.Roots[0].Exists || tool.Roots[0].Files != 2 {
		t.Errorf("sessions root = %+v, want exists with 2 files", tool.Roots[0])
	}
	if tool.Roots[1].Exists {
		t.Errorf("archived root should be missing: %+v", tool.Roots[1])
	}
	if !tool.HasLogs() {
		t.Error("expected HasLogs")
	}
}

func TestDetect_MissingEverything(t *testing.T) {
	stubLookPath(t, nil)

	missing := filepath.Join(t.TempDir(), "nope")
	tools := Detect([]core.LogSource{codex.New()}, core.ScanOptions{CodexSessionsRoot: missing})
	tool := tools[0]
	if tool.BinaryPath != "" {
		t.Errorf("binary = %q, want empty", tool.BinaryPath)
	}
	if tool.HasLogs() {
		t.Error("expected no logs")
	}
	for _, r := range tool.Roots {
		if r.Exists || r.Files != 0 {
			t.Errorf("root %+v should be missing", r)
		}
	}
}
