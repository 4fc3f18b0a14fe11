package providers

import (
	"github.com/janekbaraniewski/tokencost/internal/core"
	"github.com/janekbaraniewski/tokencost/internal/providers/claude_code"
	"github.com/janekbaraniewski/tokencost/internal/providers/codex"
)

func AllSources() []core.LogSource {
	return []core.LogSource{
		codex.New(),
		claude_code.New(),
	}
}

func SourceByID(id core.Source) (core.LogSource, bool) {
	for _, src := range AllSources() {
		if src.ID() == id {
			return src, true
		}
	}
	return nil, false
}

// SourceIDs lists every registered source in registry order.
func SourceIDs() []core.Source {
	all := AllSources()
	ids := make([]core.Source, 0, len(all))
	for _, src := range all {
		ids = append(ids, src.ID())
	}
	return ids
}
