package claude_code

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janekbaraniewski/tokencost/internal/core"
)

func useUTC(t *testing.T) {
	t.Helper()
	prev := time.Local
	time.Local = time.UTC
	t.Cleanup(func() { time.Local = prev })
}

var testWindow = core.DayWindow{Start: "2026-01-17", End: "2026-02-15"}

func parse(t *testing.T, content string) []core.UsageEvent {
	t.Helper()
	var events []core.UsageEvent
	err := New().ParseFile(strings.NewReader(content), testWindow, func(ev core.UsageEvent) {
		events = append(events, ev)
	})
	require.NoError(t, err)
	return events
}

func TestProviderID(t *testing.T) {
	p := New()
	assert.Equal(t, core.SourceClaudeCode, p.ID())
	assert.Equal(t, "Claude Code CLI", p.Describe().Name)
}

func TestParseFileAssistantUsage(t *testing.T) {
	useUTC(t)

	content := `{"type":"user","timestamp":"2026-02-10T10:00:00Z","message":{"role":"user","content":"hi"}}
{"type":"assistant","requestId":"req_1","timestamp":"2026-02-10T10:00:01.500Z","message":{"id":"msg_1","model":"claude-sonnet-4-5-20250929","usage":{"input_tokens":10,"output_tokens":20,"cache_read_input_tokens":300,"cache_creation_input_tokens":40}}}
`
	events := parse(t, content)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "claude-sonnet-4-5-20250929", ev.Model)
	assert.Equal(t, int64(10), ev.Input)
	assert.Equal(t, int64(20), ev.Output)
	assert.Equal(t, int64(300), ev.CacheRead)
	assert.Equal(t, int64(40), ev.CacheWrite)
}

func TestParseFileDedupRequiresBothIDs(t *testing.T) {
	useUTC(t)

	tests := []struct {
		name    string
		content string
		want    int
	}{
		{
			name: "same message and request counted once",
			content: `{"type":"assistant","requestId":"req_1","timestamp":"2026-02-10T10:00:01Z","message":{"id":"msg_1","model":"m","usage":{"input_tokens":1,"output_tokens":1}}}
{"type":"assistant","requestId":"req_1","timestamp":"2026-02-10T10:00:02Z","message":{"id":"msg_1","model":"m","usage":{"input_tokens":1,"output_tokens":1}}}
`,
			want: 1,
		},
		{
			name: "different request ids are distinct",
			content: `{"type":"assistant","requestId":"req_1","timestamp":"2026-02-10T10:00:01Z","message":{"id":"msg_1","model":"m","usage":{"input_tokens":1,"output_tokens":1}}}
{"type":"assistant","requestId":"req_2","timestamp":"2026-02-10T10:00:02Z","message":{"id":"msg_1","model":"m","usage":{"input_tokens":1,"output_tokens":1}}}
`,
			want: 2,
		},
		{
			name: "missing request id never dedups",
			content: `{"type":"assistant","timestamp":"2026-02-10T10:00:01Z","message":{"id":"msg_1","model":"m","usage":{"input_tokens":1,"output_tokens":1}}}
{"type":"assistant","timestamp":"2026-02-10T10:00:02Z","message":{"id":"msg_1","model":"m","usage":{"input_tokens":1,"output_tokens":1}}}
`,
			want: 2,
		},
		{
			name: "missing message id never dedups",
			content: `{"type":"assistant","requestId":"req_1","timestamp":"2026-02-10T10:00:01Z","message":{"model":"m","usage":{"input_tokens":1,"output_tokens":1}}}
{"type":"assistant","requestId":"req_1","timestamp":"2026-02-10T10:00:02Z","message":{"model":"m","usage":{"input_tokens":1,"output_tokens":1}}}
`,
			want: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, parse(t, tt.content), tt.want)
		})
	}
}

func TestParseFileDropsZeroUsageAndNonAssistant(t *testing.T) {
	useUTC(t)

	content := `{"type":"assistant","requestId":"req_0","timestamp":"2026-02-10T10:00:00Z","message":{"id":"msg_0","model":"m","usage":{"input_tokens":0,"output_tokens":0}}}
{"type":"assistant","timestamp":"2026-02-10T10:00:01Z","message":{"id":"msg_x","model":"m"}}
{"type":"summary","summary":"assistant did things","timestamp":"2026-02-10T10:00:02Z"}
{"type":"user","timestamp":"2026-02-10T10:00:03Z","message":{"role":"user","usage":{"input_tokens":5}}}
{broken json "assistant"
{"type":"assistant","requestId":"req_0","timestamp":"2026-02-10T10:00:04Z","message":{"id":"msg_0","model":"m","usage":{"input_tokens":3,"output_tokens":0}}}
`
	events := parse(t, content)
	require.Len(t, events, 1, "a zero-usage copy must not claim the dedup key")
	assert.Equal(t, int64(3), events[0].Input)
}

func TestParseFileContinuesPastOversizedLine(t *testing.T) {
	useUTC(t)

	pasted := `{"type":"user","timestamp":"2026-02-10T10:00:00Z","message":{"role":"user","content":"` +
		strings.Repeat("A", 9*1024*1024) + `"}}`
	content := pasted + `
{"type":"assistant","requestId":"req_1","timestamp":"2026-02-10T10:00:01Z","message":{"id":"msg_1","model":"claude-sonnet-4-5","usage":{"input_tokens":5,"output_tokens":7}}}
`
	events := parse(t, content)
	require.Len(t, events, 1)
	assert.Equal(t, int64(5), events[0].Input)
	assert.Equal(t, int64(7), events[0].Output)
}

func TestParseFileWindow(t *testing.T) {
	useUTC(t)

	content := `{"type":"assistant","timestamp":"2026-01-16T23:59:59Z","message":{"model":"m","usage":{"input_tokens":1}}}
{"type":"assistant","timestamp":"2026-01-17T00:00:00Z","message":{"model":"m","usage":{"input_tokens":2}}}
{"type":"assistant","timestamp":"2026-02-15T23:59:59Z","message":{"model":"m","usage":{"input_tokens":4}}}
{"type":"assistant","timestamp":"2026-02-16T00:00:00Z","message":{"model":"m","usage":{"input_tokens":8}}}
{"type":"assistant","timestamp":"","message":{"model":"m","usage":{"input_tokens":16}}}
`
	var total int64
	for _, ev := range parse(t, content) {
		total += ev.Input
	}
	assert.Equal(t, int64(6), total)
}

func TestBillableAndDayTokens(t *testing.T) {
	p := New()
	ev := core.UsageEvent{Input: 1, Output: 2, CacheRead: 3, CacheWrite: 4}
	assert.Equal(t, ev, p.Billable(ev))
	assert.Equal(t, int64(10), p.DayTokens(core.DayTotals{Input: 1, Output: 2, CacheRead: 3, CacheWrite: 4}))
}

func TestResolveProjectsRoots(t *testing.T) {
	home := filepath.FromSlash("/home/dev")

	t.Run("override wins", func(t *testing.T) {
		got := ResolveProjectsRoots([]string{"/a/projects", " "}, "/env", home)
		assert.Equal(t, []string{filepath.FromSlash("/a/projects")}, got)
	})

	t.Run("env list normalized", func(t *testing.T) {
		got := ResolveProjectsRoots(nil, "/one, /two/projects ,", home)
		assert.Equal(t, []string{
			filepath.FromSlash("/one/projects"),
			filepath.FromSlash("/two/projects"),
		}, got)
	})

	t.Run("defaults", func(t *testing.T) {
		got := ResolveProjectsRoots(nil, "", home)
		assert.Equal(t, []string{
			filepath.FromSlash("/home/dev/.config/claude/projects"),
			filepath.FromSlash("/home/dev/.claude/projects"),
		}, got)
	})

	t.Run("no home", func(t *testing.T) {
		assert.Nil(t, ResolveProjectsRoots(nil, "", ""))
	})
}
