package pricing

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/janekbaraniewski/tokencost/internal/core"
)

// Override rates are USD per million tokens, the unit vendors publish.
type overrideTier struct {
	Threshold  int64   `yaml:"threshold"`
	Input      float64 `yaml:"input"`
	Output     float64 `yaml:"output"`
	CacheRead  float64 `yaml:"cache_read"`
	CacheWrite float64 `yaml:"cache_write"`
}

type overrideEntry struct {
	Input      float64       `yaml:"input"`
	Output     float64       `yaml:"output"`
	CacheRead  float64       `yaml:"cache_read"`
	CacheWrite float64       `yaml:"cache_write"`
	Tier       *overrideTier `yaml:"tier,omitempty"`
}

// Overrides holds user-supplied entries keyed by source, then normalized model id.
type Overrides map[core.Source]map[string]Entry

// LoadOverrides reads a YAML pricing file. A missing file yields no overrides.
//
//	codex:
//	  gpt-5:
//	    input: 1.25
//	    output: 10
//	    cache_read: 0.125
//	claude_code:
//	  claude-sonnet-4-5:
//	    input: 3
//	    output: 15
//	    tier: {threshold: 200000, input: 6, output: 22.5}
func LoadOverrides(path string) (Overrides, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("pricing: reading overrides: %w", err)
	}
	return ParseOverrides(data)
}

func ParseOverrides(data []byte) (Overrides, error) {
	var raw map[string]map[string]overrideEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("pricing: parsing overrides: %w", err)
	}

	out := make(Overrides, len(raw))
	for src, models := range raw {
		source := core.Source(strings.TrimSpace(src))
		if out[source] == nil {
			out[source] = make(map[string]Entry, len(models))
		}
		for model, e := range models {
			entry := Entry{Base: rates(e.Input, e.Output, e.CacheRead, e.CacheWrite)}
			if tier := e.Tier; tier != nil && tier.Threshold > 0 {
				entry.Tier = &Tier{
					Threshold: tier.Threshold,
					Rates:     rates(tier.Input, tier.Output, tier.CacheRead, tier.CacheWrite),
				}
			}
			out[source][strings.ToLower(strings.TrimSpace(model))] = entry
		}
	}
	return out, nil
}

// Apply returns tables with overrides merged on top. Sources absent from
// tables are ignored.
func (o Overrides) Apply(tables map[core.Source]*Table) map[core.Source]*Table {
	out := make(map[core.Source]*Table, len(tables))
	for src, t := range tables {
		if extra, ok := o[src]; ok && len(extra) > 0 {
			out[src] = t.With(extra)
			continue
		}
		out[src] = t
	}
	return out
}
