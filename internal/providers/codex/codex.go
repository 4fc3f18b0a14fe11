package codex

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
	defaultCodexConfigDir   = ".codex"
	sessionsDirName         = "sessions"
	archivedSessionsDirName = "archived_sessions"

	// EnvCodexHome overrides the Codex config root (default ~/.codex).
	EnvCodexHome = "CODEX_HOME"

	// DefaultModel is assumed until a session announces its model.
	DefaultModel = "gpt-5"
)

type Provider struct{}

func New() *Provider { return &Provider{} }

func (p *Provider) ID() core.Source { return core.SourceCodex }

func (p *Provider) Describe() core.SourceInfo {
	return core.SourceInfo{
		Name:   "OpenAI Codex CLI",
		EnvVar: EnvCodexHome,
		DocURL: "https://github.com/openai/codex",
	}
}

// Roots returns the live sessions root and its archived sibling.
func (p *Provider) Roots(opts core.ScanOptions) []string {
	sessions := ResolveSessionsRoot(opts.CodexSessionsRoot, shared.EnvValue(EnvCodexHome), shared.HomeDir())
	if sessions == "" {
		return nil
	}
	return []string{sessions, ArchivedRoot(sessions)}
}

// ResolveSessionsRoot applies override > $CODEX_HOME/sessions > ~/.codex/sessions.
func ResolveSessionsRoot(override, codexHome, home string) string {
	switch {
	case strings.TrimSpace(override) != "":
		return filepath.Clean(shared.ExpandHome(override))
	case strings.TrimSpace(codexHome) != "":
		return filepath.Join(shared.ExpandHome(codexHome), sessionsDirName)
	case home != "":
		return filepath.Join(home, defaultCodexConfigDir, sessionsDirName)
	}
	return ""
}

// ArchivedRoot replaces the trailing segment of the sessions root.
func ArchivedRoot(sessionsRoot string) string {
	return filepath.Join(filepath.Dir(filepath.Clean(sessionsRoot)), archivedSessionsDirName)
}

// Billable splits cached input out of input: Codex reports cached tokens as a
// subset of input_tokens, billed at the cache-read rate.
func (p *Provider) Billable(ev core.UsageEvent) core.UsageEvent {
	ev.Input = max(0, ev.Input-ev.CacheRead)
	ev.CacheWrite = 0
	return ev
}

// DayTokens counts input and output; cached input is already inside input.
func (p *Provider) DayTokens(d core.DayTotals) int64 {
	return d.Input + d.Output
}

func (p *Provider) ParseFile(r io.Reader, window core.DayWindow, emit func(core.UsageEvent)) error {
	state := newFileState()
	return shared.ScanLines(r, func(line []byte) {
		if ev, ok := state.apply(line, window); ok {
			emit(ev)
		}
	})
}

type sessionEvent struct {
	Timestamp json.RawMessage `json:"timestamp"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
}

type contextPayload struct {
	Model string `json:"model,omitempty"`
	Info  *struct {
		Model string `json:"model,omitempty"`
	} `json:"info,omitempty"`
}

type eventPayload struct {
	Type string     `json:"type"`
	Info *tokenInfo `json:"info,omitempty"`
}

type tokenInfo struct {
	TotalTokenUsage *tokenUsage `json:"total_token_usage,omitempty"`
	LastTokenUsage  *tokenUsage `json:"last_token_usage,omitempty"`
}

type tokenUsage struct {
	InputTokens          int64 `json:"input_tokens"`
	CachedInputTokens    int64 `json:"cached_input_tokens"`
	CacheReadInputTokens int64 `json:"cache_read_input_tokens"`
	OutputTokens         int64 `json:"output_tokens"`
}

func (u tokenUsage) counters() counters {
	cached := u.CachedInputTokens
	if cached == 0 {
		cached = u.CacheReadInputTokens
	}
	return counters{input: u.InputTokens, cached: cached, output: u.OutputTokens}
}

var (
	markerEventMsg    = []byte(`"event_msg"`)
	markerTurnContext = []byte(`"turn_context"`)
	markerSessionMeta = []byte(`"session_meta"`)
)

func interesting(line []byte) bool {
	return bytes.Contains(line, markerEventMsg) ||
		bytes.Contains(line, markerTurnContext) ||
		bytes.Contains(line, markerSessionMeta)
}

func (s *fileState) apply(line []byte, window core.DayWindow) (core.UsageEvent, bool) {
	if !interesting(line) {
		return core.UsageEvent{}, false
	}

	var ev sessionEvent
	if err := json.Unmarshal(line, &ev); err != nil {
		return core.UsageEvent{}, false
	}

	switch ev.Type {
	case "turn_context", "session_meta":
		var ctx contextPayload
		if json.Unmarshal(ev.Payload, &ctx) != nil {
			return core.UsageEvent{}, false
		}
		model := strings.TrimSpace(ctx.Model)
		if model == "" && ctx.Info != nil {
			model = strings.TrimSpace(ctx.Info.Model)
		}
		if model != "" {
			s.model = model
		}
		return core.UsageEvent{}, false

	case "event_msg":
		var payload eventPayload
		if json.Unmarshal(ev.Payload, &payload) != nil || payload.Type != "token_count" || payload.Info == nil {
			return core.UsageEvent{}, false
		}
		ts, ok := shared.ParseTimestampValue(ev.Timestamp)
		if !ok || !window.ContainsTime(ts) {
			return core.UsageEvent{}, false
		}

		var delta counters
		switch {
		case payload.Info.TotalTokenUsage != nil:
			delta = s.advance(payload.Info.TotalTokenUsage.counters())
		case payload.Info.LastTokenUsage != nil:
			delta = payload.Info.LastTokenUsage.counters().nonNegative()
		default:
			return core.UsageEvent{}, false
		}
		delta.cached = min(delta.cached, delta.input)
		if delta.zero() {
			return core.UsageEvent{}, false
		}

		return core.UsageEvent{
			Timestamp: ts,
			Model:     s.model,
			Input:     delta.input,
			Output:    delta.output,
			CacheRead: delta.cached,
		}, true
	}
	return core.UsageEvent{}, false
}
