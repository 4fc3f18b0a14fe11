package pricing

import (
	"regexp"
	"strings"
)

// Long-context threshold for Anthropic models billed at a higher rate past
// 200K tokens.
const anthropicLongContextThreshold = 200_000

var (
	reOpenAIDateSuffix  = regexp.MustCompile(`-\d{4}-\d{2}-\d{2}$`)
	reAnthropicDate     = regexp.MustCompile(`-\d{8}$`)
	reAnthropicVersion  = regexp.MustCompile(`-v\d+(?::\d+)?$`)
	anthropicFamilyHint = "claude-"
)

// OpenAITable returns the built-in table used for Codex sessions.
func OpenAITable() *Table {
	gpt5 := Entry{Base: rates(1.25, 10, 0.125, 0)}
	return NewTable(map[string]Entry{
		"gpt-5":              gpt5,
		"gpt-5.1":            gpt5,
		"gpt-5-mini":         {Base: rates(0.25, 2, 0.025, 0)},
		"gpt-5.1-codex-mini": {Base: rates(0.25, 2, 0.025, 0)},
		"gpt-5-nano":         {Base: rates(0.05, 0.4, 0.005, 0)},
		"gpt-5.2":            {Base: rates(1.75, 14, 0.175, 0)},
		"gpt-5-pro":          {Base: rates(15, 120, 15, 0)},
		"gpt-4.1":            {Base: rates(2, 8, 0.5, 0)},
		"gpt-4.1-mini":       {Base: rates(0.4, 1.6, 0.1, 0)},
		"gpt-4.1-nano":       {Base: rates(0.1, 0.4, 0.025, 0)},
		"gpt-4o":             {Base: rates(2.5, 10, 1.25, 0)},
		"o3":                 {Base: rates(2, 8, 0.5, 0)},
		"o4-mini":            {Base: rates(1.1, 4.4, 0.275, 0)},
		"codex-mini-latest":  {Base: rates(1.5, 6, 0.375, 0)},
	}, normalizeOpenAIModel)
}

// AnthropicTable returns the built-in table used for Claude Code sessions.
func AnthropicTable() *Table {
	sonnet := Entry{
		Base: rates(3, 15, 0.3, 3.75),
		Tier: &Tier{
			Threshold: anthropicLongContextThreshold,
			Rates:     rates(6, 22.5, 0.6, 7.5),
		},
	}
	opus4 := Entry{Base: rates(15, 75, 1.5, 18.75)}
	return NewTable(map[string]Entry{
		"claude-opus-4-5":   {Base: rates(5, 25, 0.5, 6.25)},
		"claude-opus-4-1":   opus4,
		"claude-opus-4":     opus4,
		"claude-3-opus":     opus4,
		"claude-sonnet-4-5": sonnet,
		"claude-sonnet-4":   sonnet,
		"claude-3-7-sonnet": {Base: rates(3, 15, 0.3, 3.75)},
		"claude-3-5-sonnet": {Base: rates(3, 15, 0.3, 3.75)},
		"claude-haiku-4-5":  {Base: rates(1, 5, 0.1, 1.25)},
		"claude-3-5-haiku":  {Base: rates(0.8, 4, 0.08, 1)},
		"claude-3-haiku":    {Base: rates(0.25, 1.25, 0.03, 0.3)},
	}, normalizeAnthropicModel)
}

func normalizeOpenAIModel(t *Table, raw string) string {
	model := strings.ToLower(strings.TrimSpace(raw))
	model = strings.TrimPrefix(model, "openai/")
	if model == "" || t.Has(model) {
		return model
	}

	if base := reOpenAIDateSuffix.ReplaceAllString(model, ""); base != model && t.Has(base) {
		return base
	}

	// gpt-5-codex, gpt-5.1-codex-max, ... share the base model's pricing.
	if idx := strings.Index(model, "-codex"); idx > 0 {
		if base := model[:idx]; t.Has(base) {
			return base
		}
	}
	return model
}

func normalizeAnthropicModel(t *Table, raw string) string {
	model := strings.ToLower(strings.TrimSpace(raw))
	model = strings.TrimPrefix(model, "anthropic/")
	if model == "" || t.Has(model) {
		return model
	}

	// Bedrock ids: "us.anthropic.claude-sonnet-4-5-20250929-v1:0".
	if !strings.HasPrefix(model, anthropicFamilyHint) {
		if alias := longestFamilySegment(model); alias != "" {
			model = alias
		}
	}
	// Vertex ids: "claude-sonnet-4-5@20250929".
	if idx := strings.Index(model, "@"); idx > 0 {
		model = model[:idx]
	}
	if t.Has(model) {
		return model
	}

	candidate := model
	for _, re := range []*regexp.Regexp{reAnthropicVersion, reAnthropicDate} {
		candidate = re.ReplaceAllString(candidate, "")
		if t.Has(candidate) {
			return candidate
		}
	}
	return model
}

func longestFamilySegment(model string) string {
	best := ""
	for _, seg := range strings.Split(model, ".") {
		if strings.HasPrefix(seg, anthropicFamilyHint) && len(seg) > len(best) {
			best = seg
		}
	}
	return best
}
