package claude_code

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/janekbaraniewski/tokencost/internal/core"
	"github.com/janekbaraniewski/tokencost/internal/providers/shared"
)

const (
	// EnvClaudeConfigDir is a comma-separated list of Claude config roots.
	EnvClaudeConfigDir = "CLAUDE_CONFIG_DIR"

	projectsDirName = "projects"
)

type Provider struct{}

func New() *Provider { return &Provider{} }

func (p *Provider) ID() core.Source { return core.SourceClaudeCode }

func (p *Provider) Describe() core.SourceInfo {
	return core.SourceInfo{
		Name:   "Claude Code CLI",
		EnvVar: EnvClaudeConfigDir,
		DocURL: "https://docs.anthropic.com/en/docs/claude-code",
	}
}

func (p *Provider) Roots(opts core.ScanOptions) []string {
	return ResolveProjectsRoots(opts.ClaudeProjectsRoots, shared.EnvValue(EnvClaudeConfigDir), shared.HomeDir())
}

// ResolveProjectsRoots applies override > $CLAUDE_CONFIG_DIR > the two
// default locations. Every env entry is normalized to end in "projects".
func ResolveProjectsRoots(override []string, configDirEnv, home string) []string {
	var roots []string
	for _, r := range override {
		if r = strings.TrimSpace(r); r != "" {
			roots = append(roots, filepath.Clean(shared.ExpandHome(r)))
		}
	}
	if len(roots) > 0 {
		return roots
	}

	for _, dir := range shared.SplitPathList(configDirEnv) {
		roots = append(roots, shared.WithTrailingDir(dir, projectsDirName))
	}
	if len(roots) > 0 {
		return roots
	}

	if home == "" {
		return nil
	}
	return DefaultProjectsDirs(home)
}

// DefaultProjectsDirs returns the XDG and legacy conversation roots.
func DefaultProjectsDirs(home string) []string {
	return []string{
		filepath.Join(home, ".config", "claude", projectsDirName),
		filepath.Join(home, ".claude", projectsDirName),
	}
}

// Billable is the identity: Anthropic reports the four categories disjointly.
func (p *Provider) Billable(ev core.UsageEvent) core.UsageEvent { return ev }

func (p *Provider) DayTokens(d core.DayTotals) int64 {
	return d.Input + d.Output + d.CacheRead + d.CacheWrite
}

type jsonlEntry struct {
	Type      string          `json:"type"`
	RequestID string          `json:"requestId,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
	Timestamp json.RawMessage `json:"timestamp"`
	Message   *jsonlMsg       `json:"message,omitempty"`
}

type jsonlMsg struct {
	ID    string      `json:"id,omitempty"`
	Model string      `json:"model"`
	Usage *jsonlUsage `json:"usage,omitempty"`
}

type jsonlUsage struct {
	InputTokens              int64 `json:"input_tokens"`
	CacheCreationInputTokens int64 `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int64 `json:"cache_read_input_tokens"`
	OutputTokens             int64 `json:"output_tokens"`
}

var markerAssistant = []byte(`"assistant"`)

// ParseFile emits one event per distinct assistant message. Claude Code
// rewrites the same message several times while streaming; records sharing
// message.id and requestId are counted once per file.
func (p *Provider) ParseFile(r io.Reader, window core.DayWindow, emit func(core.UsageEvent)) error {
	seen := make(map[string]struct{})
	return shared.ScanLines(r, func(line []byte) {
		if !bytes.Contains(line, markerAssistant) {
			return
		}
		var entry jsonlEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return
		}
		if entry.Type != "assistant" || entry.Message == nil || entry.Message.Usage == nil {
			return
		}

		ts, ok := shared.ParseTimestampValue(entry.Timestamp)
		if !ok || !window.ContainsTime(ts) {
			return
		}

		u := entry.Message.Usage
		ev := core.UsageEvent{
			Timestamp:  ts,
			Model:      strings.TrimSpace(entry.Message.Model),
			Input:      max(0, u.InputTokens),
			Output:     max(0, u.OutputTokens),
			CacheRead:  max(0, u.CacheReadInputTokens),
			CacheWrite: max(0, u.CacheCreationInputTokens),
		}
		if ev.Empty() {
			return
		}

		if key := dedupKey(entry); key != "" {
			if _, dup := seen[key]; dup {
				return
			}
			seen[key] = struct{}{}
		}
		emit(ev)
	})
}

// dedupKey is empty unless both ids are present.
func dedupKey(entry jsonlEntry) string {
	msgID := strings.TrimSpace(entry.Message.ID)
	reqID := strings.TrimSpace(entry.RequestID)
	if msgID == "" || reqID == "" {
		return ""
	}
	return msgID + ":" + reqID
}
