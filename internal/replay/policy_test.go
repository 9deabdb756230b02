package replay

import "testing"

func TestGlobSkipPolicy(t *testing.T) {
	skip, err := NewGlobSkipPolicy([]string{"node_modules/**", "**/vendor/**"})
	if err != nil {
		t.Fatalf("NewGlobSkipPolicy: %v", err)
	}

	tests := []struct {
		path string
		want bool
	}{
		{"node_modules/lodash/index.js", true},
		{"src/vendor/lib.js", true},
		{"src/app.js", false},
		{"", false}, // sourceless frames are never skipped
	}
	for _, tt := range tests {
		if got := skip.Skip(Frame{Path: tt.path}); got != tt.want {
			t.Errorf("Skip(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestGlobSkipPolicyRejectsBadPattern(t *testing.T) {
	if _, err := NewGlobSkipPolicy([]string{"[unclosed"}); err == nil {
		t.Error("expected error for malformed pattern")
	}
}

func TestFilterFramesNeverEmptiesStack(t *testing.T) {
	skip, err := NewGlobSkipPolicy([]string{"**"})
	if err != nil {
		t.Fatalf("NewGlobSkipPolicy: %v", err)
	}
	frames := []Frame{
		{Index: 0, Path: "a.js"},
		{Index: 1, Path: "b.js"},
	}

	// Skipping everything falls back to the unfiltered list.
	got := FilterFrames(frames, skip)
	if len(got) != 2 {
		t.Errorf("filtered length = %d, want unfiltered fallback of 2", len(got))
	}
}

func TestFilterFramesPartial(t *testing.T) {
	skip, err := NewGlobSkipPolicy([]string{"node_modules/**"})
	if err != nil {
		t.Fatalf("NewGlobSkipPolicy: %v", err)
	}
	frames := []Frame{
		{Index: 0, Path: "app.js"},
		{Index: 1, Path: "node_modules/x/y.js"},
		{Index: 2, Path: "lib.js"},
	}

	got := FilterFrames(frames, skip)
	if len(got) != 2 || got[0].Index != 0 || got[1].Index != 2 {
		t.Errorf("filtered = %v, want frames 0 and 2", got)
	}
}

func TestNopPolicies(t *testing.T) {
	f := Frame{Path: "anything.js"}
	if NopSkipPolicy().Skip(f) {
		t.Error("nop skip policy skipped a frame")
	}
	if NopDeemphasisPolicy().Deemphasize(f) {
		t.Error("nop deemphasis policy deemphasized a frame")
	}
}
