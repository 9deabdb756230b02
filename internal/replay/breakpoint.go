package replay

import "sync"

// BreakpointSet holds line breakpoints keyed by normalized source path.
// Setting breakpoints for a path replaces that path's entire set; other
// paths are untouched.
type BreakpointSet struct {
	mu    sync.RWMutex
	lines map[string]map[int]struct{}
}

// NewBreakpointSet creates an empty breakpoint set.
func NewBreakpointSet() *BreakpointSet {
	return &BreakpointSet{
		lines: make(map[string]map[int]struct{}),
	}
}

// Set replaces all breakpoints for the given path. An empty line list clears
// the path. Duplicate lines collapse to one.
func (b *BreakpointSet) Set(path string, lines []int) {
	path = normalizeSourcePath(path)

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(lines) == 0 {
		delete(b.lines, path)
		return
	}

	set := make(map[int]struct{}, len(lines))
	for _, line := range lines {
		set[line] = struct{}{}
	}
	b.lines[path] = set
}

// Matches reports whether the frame's location carries a breakpoint. Frames
// without a source never match.
func (b *BreakpointSet) Matches(f Frame) bool {
	if !f.HasSource() {
		return false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	set, ok := b.lines[f.Path]
	if !ok {
		return false
	}
	_, ok = set[f.Line]
	return ok
}

// Count returns the total number of breakpoints across all paths.
func (b *BreakpointSet) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, set := range b.lines {
		n += len(set)
	}
	return n
}
