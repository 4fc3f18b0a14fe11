package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janekbaraniewski/tokencost/internal/core"
)

func TestEntryCostFlat(t *testing.T) {
	e := Entry{Base: Rates{Input: 1e-6, Output: 2e-6, CacheRead: 1e-7, CacheWrite: 5e-6}}
	got := e.Cost(Usage{Input: 1000, Output: 500, CacheRead: 2000, CacheWrite: 10})
	assert.InDelta(t, 1000*1e-6+500*2e-6+2000*1e-7+10*5e-6, got, 1e-12)
}

func TestEntryCostTiered(t *testing.T) {
	base := 3e-6
	above := 6e-6
	e := Entry{
		Base: Rates{Input: base},
		Tier: &Tier{Threshold: 200_000, Rates: Rates{Input: above}},
	}

	tests := []struct {
		name  string
		count int64
		want  float64
	}{
		{"below threshold", 150_000, 150_000 * base},
		{"at threshold", 200_000, 200_000 * base},
		{"above threshold", 250_000, 200_000*base + 50_000*above},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, e.Cost(Usage{Input: tt.count}), 1e-12)
		})
	}
}

func TestCalculatorTieredSonnet(t *testing.T) {
	calc := DefaultCalculator()
	cost, model, err := calc.Cost(core.SourceClaudeCode, "claude-sonnet-4-5-20250929", Usage{Input: 250_000})
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-5", model)
	assert.InDelta(t, 200_000*3e-6+50_000*6e-6, cost, 1e-9)
}

func TestCalculatorUnknownModel(t *testing.T) {
	calc := DefaultCalculator()
	cost, model, err := calc.Cost(core.SourceCodex, "mystery-model-9", Usage{Input: 10})
	assert.True(t, errors.Is(err, ErrUnknownModel))
	assert.Zero(t, cost)
	assert.Equal(t, "mystery-model-9", model)
}

func TestCalculatorUsesSubstituteTables(t *testing.T) {
	table := NewTable(map[string]Entry{"m": {Base: Rates{Output: 1}}}, nil)
	calc := NewCalculator(map[core.Source]*Table{core.SourceCodex: table})

	cost, _, err := calc.Cost(core.SourceCodex, "m", Usage{Output: 3})
	require.NoError(t, err)
	assert.Equal(t, 3.0, cost)

	_, _, err = calc.Cost(core.SourceClaudeCode, "m", Usage{Output: 3})
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestNormalizeOpenAIModel(t *testing.T) {
	table := OpenAITable()
	tests := []struct {
		raw  string
		want string
	}{
		{"gpt-5", "gpt-5"},
		{" GPT-5 ", "gpt-5"},
		{"openai/gpt-5-mini", "gpt-5-mini"},
		{"gpt-5-codex", "gpt-5"},
		{"gpt-5.1-codex-max", "gpt-5.1"},
		{"gpt-5.1-codex-mini", "gpt-5.1-codex-mini"},
		{"gpt-4.1-2025-04-14", "gpt-4.1"},
		{"gpt-9-codex", "gpt-9-codex"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Normalize(tt.raw))
		})
	}
}

func TestNormalizeAnthropicModel(t *testing.T) {
	table := AnthropicTable()
	tests := []struct {
		raw  string
		want string
	}{
		{"claude-opus-4-5", "claude-opus-4-5"},
		{"claude-sonnet-4-5-20250929", "claude-sonnet-4-5"},
		{"anthropic/claude-haiku-4-5-20251001", "claude-haiku-4-5"},
		{"us.anthropic.claude-sonnet-4-20250514-v1:0", "claude-sonnet-4"},
		{"anthropic.claude-3-5-haiku-20241022-v1:0", "claude-3-5-haiku"},
		{"claude-opus-4-1@20250805", "claude-opus-4-1"},
		{"claude-unknown-7-20300101", "claude-unknown-7-20300101"},
		{"<synthetic>", "<synthetic>"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Normalize(tt.raw))
		})
	}
}
