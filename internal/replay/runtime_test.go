package replay

import "testing"

func testTrace(frames ...RawFrame) *StackTrace {
	return &StackTrace{ID: "trace-1", Frames: frames}
}

func threeFrameTrace() *StackTrace {
	// Crash-site first; only the crash site carries a snapshot.
	return testTrace(
		RawFrame{Function: "crash", File: "a.js", Line: 10, SnapshotID: "s2"},
		RawFrame{Function: "middle", File: "b.js", Line: 20},
		RawFrame{Function: "entry", File: "c.js", Line: 30},
	)
}

func TestInitialCursorPrefersSnapshotFrame(t *testing.T) {
	rt := NewRuntime(testTrace(
		RawFrame{Function: "crash", File: "a.js", Line: 10},
		RawFrame{Function: "middle", File: "b.js", Line: 20, SnapshotID: "s1"},
		RawFrame{Function: "entry", File: "c.js", Line: 30},
	), NewBreakpointSet())

	f, ok := rt.CurrentFrame()
	if !ok {
		t.Fatal("expected a current frame")
	}
	if f.Name != "middle" {
		t.Errorf("initial frame = %s, want first snapshot-bearing frame", f.Name)
	}
}

func TestInitialCursorDefaultsToCrashSite(t *testing.T) {
	rt := NewRuntime(testTrace(
		RawFrame{Function: "crash", File: "a.js", Line: 10},
		RawFrame{Function: "entry", File: "c.js", Line: 30},
	), NewBreakpointSet())

	f, ok := rt.CurrentFrame()
	if !ok {
		t.Fatal("expected a current frame")
	}
	if f.Name != "crash" {
		t.Errorf("initial frame = %s, want crash site", f.Name)
	}
}

func TestStepOnceWalksOutwardAndTerminates(t *testing.T) {
	rt := NewRuntime(threeFrameTrace(), NewBreakpointSet())

	reason, terminated := rt.StepOnce(StopReasonStep)
	if terminated || reason != StopReasonStep {
		t.Fatalf("first step: reason=%v terminated=%v", reason, terminated)
	}
	if f, _ := rt.CurrentFrame(); f.Name != "middle" {
		t.Errorf("after first step at %s, want middle", f.Name)
	}

	if _, terminated = rt.StepOnce(StopReasonStep); terminated {
		t.Fatal("second step should land on entry, not terminate")
	}

	// Stepping from the last valid frame always terminates.
	if _, terminated = rt.StepOnce(StopReasonStep); !terminated {
		t.Fatal("third step should terminate")
	}
	if !rt.Terminated() {
		t.Error("runtime should report terminated")
	}
	if _, ok := rt.CurrentFrame(); ok {
		t.Error("terminated runtime should have no current frame")
	}
}

func TestStepOnceReportsBreakpointOverStep(t *testing.T) {
	bps := NewBreakpointSet()
	bps.Set("b.js", []int{20})
	rt := NewRuntime(threeFrameTrace(), bps)

	reason, terminated := rt.StepOnce(StopReasonStep)
	if terminated {
		t.Fatal("unexpected termination")
	}
	if reason != StopReasonBreakpoint {
		t.Errorf("reason = %v, want breakpoint override", reason)
	}
}

func TestContinueLandsOnEarliestMatchBeyondCursor(t *testing.T) {
	bps := NewBreakpointSet()
	bps.Set("c.js", []int{30})
	rt := NewRuntime(threeFrameTrace(), bps)

	if rt.Continue() {
		t.Fatal("continue should stop on breakpoint, not terminate")
	}
	if f, _ := rt.CurrentFrame(); f.Name != "entry" {
		t.Errorf("continue landed on %s, want entry", f.Name)
	}
}

func TestContinueWithoutBreakpointsTerminates(t *testing.T) {
	// Regardless of starting cursor.
	for start := 0; start < 3; start++ {
		rt := NewRuntime(threeFrameTrace(), NewBreakpointSet())
		if !rt.SetCursorByFrameID(start) {
			t.Fatalf("SetCursorByFrameID(%d) failed", start)
		}
		if !rt.Continue() {
			t.Errorf("continue from %d should terminate with no breakpoints", start)
		}
	}
}

func TestContinueNeverRevisitsPassedFrames(t *testing.T) {
	bps := NewBreakpointSet()
	bps.Set("a.js", []int{10}) // behind the cursor after one step
	rt := NewRuntime(threeFrameTrace(), bps)

	if _, terminated := rt.StepOnce(StopReasonStep); terminated {
		t.Fatal("unexpected termination")
	}
	if !rt.Continue() {
		f, _ := rt.CurrentFrame()
		t.Errorf("continue revisited %s; breakpoints behind the cursor must not fire", f.Name)
	}
}

func TestSetCursorByFrameID(t *testing.T) {
	rt := NewRuntime(threeFrameTrace(), NewBreakpointSet())

	if !rt.SetCursorByFrameID(2) {
		t.Fatal("SetCursorByFrameID(2) failed for a known frame")
	}
	if f, _ := rt.CurrentFrame(); f.Index != 2 {
		t.Errorf("cursor at %d, want 2", f.Index)
	}

	if rt.SetCursorByFrameID(99) {
		t.Error("unknown frame id should be rejected")
	}
	if f, _ := rt.CurrentFrame(); f.Index != 2 {
		t.Errorf("cursor moved to %d on unknown id, want unchanged 2", f.Index)
	}
}

func TestSetCursorByLocation(t *testing.T) {
	rt := NewRuntime(threeFrameTrace(), NewBreakpointSet())

	if !rt.SetCursorByLocation("b.js", 20) {
		t.Fatal("expected location match")
	}
	if f, _ := rt.CurrentFrame(); f.Name != "middle" {
		t.Errorf("cursor at %s, want middle", f.Name)
	}

	// Empty path matches any frame at the line.
	if !rt.SetCursorByLocation("", 30) {
		t.Fatal("expected line-only match")
	}
	if f, _ := rt.CurrentFrame(); f.Name != "entry" {
		t.Errorf("cursor at %s, want entry", f.Name)
	}

	if rt.SetCursorByLocation("missing.js", 1) {
		t.Error("unmatched location should be rejected")
	}
}

func TestOrderedFramesShowsReachedPortionCrashFirst(t *testing.T) {
	rt := NewRuntime(threeFrameTrace(), NewBreakpointSet())

	frames := rt.OrderedFrames()
	if len(frames) != 1 || frames[0].Name != "crash" {
		t.Fatalf("initial stack = %v, want just the crash site", names(frames))
	}

	rt.StepOnce(StopReasonStep)
	frames = rt.OrderedFrames()
	if len(frames) != 2 || frames[0].Name != "crash" || frames[1].Name != "middle" {
		t.Errorf("stack after step = %v, want [crash middle]", names(frames))
	}

	rt.StepOnce(StopReasonStep)
	rt.StepOnce(StopReasonStep)
	if frames = rt.OrderedFrames(); frames != nil {
		t.Errorf("terminated stack = %v, want nil", names(frames))
	}
}

func names(frames []Frame) []string {
	out := make([]string, len(frames))
	for i, f := range frames {
		out[i] = f.Name
	}
	return out
}
