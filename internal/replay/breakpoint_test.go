package replay

import "testing"

func TestBreakpointSetReplaceSemantics(t *testing.T) {
	bps := NewBreakpointSet()
	bps.Set("src/a.js", []int{10, 20})
	bps.Set("src/b.js", []int{5})

	if bps.Count() != 3 {
		t.Fatalf("Count = %d, want 3", bps.Count())
	}

	// A new submission for a path fully replaces it, never merges.
	bps.Set("src/a.js", []int{30})
	if bps.Matches(Frame{Path: "src/a.js", Line: 10}) {
		t.Error("replaced line 10 still matches")
	}
	if !bps.Matches(Frame{Path: "src/a.js", Line: 30}) {
		t.Error("new line 30 does not match")
	}
	if !bps.Matches(Frame{Path: "src/b.js", Line: 5}) {
		t.Error("other path was disturbed by replacement")
	}

	// An empty submission clears the path.
	bps.Set("src/a.js", nil)
	if bps.Matches(Frame{Path: "src/a.js", Line: 30}) {
		t.Error("cleared path still matches")
	}
	if bps.Count() != 1 {
		t.Errorf("Count = %d, want 1", bps.Count())
	}
}

func TestBreakpointSetNormalizesPaths(t *testing.T) {
	bps := NewBreakpointSet()
	bps.Set(`src\nested\x.js`, []int{7})

	if !bps.Matches(Frame{Path: "src/nested/x.js", Line: 7}) {
		t.Error("backslash submission should match normalized frame path")
	}
}

func TestBreakpointSetIgnoresSourcelessFrames(t *testing.T) {
	bps := NewBreakpointSet()
	bps.Set("a.js", []int{1})

	if bps.Matches(Frame{Line: 1}) {
		t.Error("frame without a source matched a breakpoint")
	}
}

func TestBreakpointSetDuplicateLines(t *testing.T) {
	bps := NewBreakpointSet()
	bps.Set("a.js", []int{4, 4, 4})

	if bps.Count() != 1 {
		t.Errorf("Count = %d, want duplicates collapsed to 1", bps.Count())
	}
}
