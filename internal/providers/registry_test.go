package providers

import (
	"testing"

	"github.com/janekbaraniewski/tokencost/internal/core"
)

func TestAllSources_ContainsBothLogFormats(t *testing.T) {
	ids := SourceIDs()
	if len(ids) != 2 {
		t.Fatalf("sources = %v, want 2", ids)
	}
	if ids[0] != core.SourceCodex || ids[1] != core.SourceClaudeCode {
		t.Fatalf("unexpected registry order: %v", ids)
	}
}

func TestSourceByID(t *testing.T) {
	for _, id := range []core.Source{core.SourceCodex, core.SourceClaudeCode} {
		src, ok := SourceByID(id)
		if !ok {
			t.Fatalf("SourceByID(%q) not found", id)
		}
		if src.ID() != id {
			t.Errorf("SourceByID(%q).ID() = %q", id, src.ID())
		}
	}
	if _, ok := SourceByID("cursor"); ok {
		t.Error("expected unknown source to be rejected")
	}
}
