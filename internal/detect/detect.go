// Package detect reports which supported CLIs are installed on the
// workstation and where their session logs live.
package detect

import (
	"log"
	"os"
	"os/exec"

	"github.com/janekbaraniewski/tokencost/internal/core"
	"github.com/janekbaraniewski/tokencost/internal/providers/shared"
)

// binaries maps each source onto the executable its CLI installs.
var binaries = map[core.Source]string{
	core.SourceCodex:      "codex",
	core.SourceClaudeCode: "claude",
}

var logExtensions = map[string]bool{".jsonl": true}

// DetectedTool represents one source as found on the workstation.
type DetectedTool struct {
	Source     core.Source
	Name       string // e.g. "OpenAI Codex CLI"
	EnvVar     string
	DocURL     string
	BinaryPath string // resolved path to binary, if on PATH
	Roots      []Root
}

type Root struct {
	Path   string
	Exists bool
	Files  int // session log files under Path
}

// HasLogs reports whether any root holds at least one session log.
func (t DetectedTool) HasLogs() bool {
	for _, r := range t.Roots {
		if r.Files > 0 {
			return true
		}
	}
	return false
}

// LookPath is swapped in tests.
var LookPath = exec.LookPath

// Detect inspects every given source under opts.
func Detect(sources []core.LogSource, opts core.ScanOptions) []DetectedTool {
	out := make([]DetectedTool, 0, len(sources))
	for _, src := range sources {
		out = append(out, detectSource(src, opts))
	}
	return out
}

func detectSource(src core.LogSource, opts core.ScanOptions) DetectedTool {
	info := src.Describe()
	tool := DetectedTool{
		Source:     src.ID(),
		Name:       info.Name,
		EnvVar:     info.EnvVar,
		DocURL:     info.DocURL,
		BinaryPath: findBinary(binaries[src.ID()]),
	}

	for _, path := range src.Roots(opts) {
		root := Root{Path: path, Exists: dirExists(path)}
		if root.Exists {
			root.Files = len(shared.CollectFilesByExt([]string{path}, logExtensions))
		}
		tool.Roots = append(tool.Roots, root)
	}

	if tool.BinaryPath != "" {
		log.Printf("[detect] Found %s at %s", tool.Name, tool.BinaryPath)
	}
	if !tool.HasLogs() {
		log.Printf("[detect] %s: no session logs at expected locations", tool.Name)
	}
	return tool
}

// findBinary returns the resolved path of name, or "" when not on PATH.
func findBinary(name string) string {
	if name == "" {
		return ""
	}
	path, err := LookPath(name)
	if err != nil {
		return ""
	}
	return path
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
