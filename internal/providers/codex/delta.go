package codex

// counters are the three categories Codex reports as running totals.
type counters struct {
	input  int64
	cached int64
	output int64
}

func (c counters) zero() bool {
	return c.input == 0 && c.cached == 0 && c.output == 0
}

func (c counters) nonNegative() counters {
	return counters{
		input:  max(0, c.input),
		cached: max(0, c.cached),
		output: max(0, c.output),
	}
}

// usageDelta is current minus previous, clamped per category at zero. A
// decrease (the counter was reset mid-file) yields zero for that category.
func usageDelta(current, previous counters) counters {
	return counters{
		input:  max(0, current.input-previous.input),
		cached: max(0, current.cached-previous.cached),
		output: max(0, current.output-previous.output),
	}
}

// fileState is the per-file accumulator threaded through the line fold.
type fileState struct {
	model       string
	previous    counters
	hasPrevious bool
}

func newFileState() *fileState {
	return &fileState{model: DefaultModel}
}

// advance records a cumulative snapshot and returns the increment since the
// previous one. The first snapshot in a file is its own increment.
func (s *fileState) advance(total counters) counters {
	delta := total.nonNegative()
	if s.hasPrevious {
		delta = usageDelta(total, s.previous)
	}
	s.previous = total
	s.hasPrevious = true
	return delta
}
