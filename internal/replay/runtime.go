package replay

// StopReason explains why the cursor came to rest.
type StopReason string

const (
	// StopReasonEntry is the initial stop after launch.
	StopReasonEntry StopReason = "entry"
	// StopReasonStep is a stop after a single step.
	StopReasonStep StopReason = "step"
	// StopReasonBreakpoint is a stop on a matched breakpoint.
	StopReasonBreakpoint StopReason = "breakpoint"
	// StopReasonRestart is a stop after restart-frame.
	StopReasonRestart StopReason = "restart"
)

// Runtime walks a fixed, pre-recorded frame sequence with a single cursor.
// The cursor lives in [0, frameCount]; frameCount is the terminal sentinel.
// It only increases via step/continue, and jumps arbitrarily only via
// restart-frame or the one-shot launch location hint.
type Runtime struct {
	frames      []Frame
	cursor      int
	breakpoints *BreakpointSet
}

// NewRuntime indexes the trace's raw frames and positions the initial
// cursor: scanning from the crash site outward, the first frame that carries
// a snapshot, or the crash site itself if none does.
func NewRuntime(trace *StackTrace, breakpoints *BreakpointSet) *Runtime {
	frames := indexFrames(trace.Frames)
	return &Runtime{
		frames:      frames,
		cursor:      initialCursor(frames),
		breakpoints: breakpoints,
	}
}

// initialCursor picks the starting frame. Traversal order is crash-site
// first, so the scan runs from index 0 outward.
func initialCursor(frames []Frame) int {
	for i := range frames {
		if frames[i].SnapshotID != "" {
			return i
		}
	}
	return 0
}

// FrameCount returns the number of indexed frames.
func (r *Runtime) FrameCount() int {
	return len(r.frames)
}

// Terminated reports whether the cursor has left the valid frame range.
func (r *Runtime) Terminated() bool {
	return r.cursor < 0 || r.cursor >= len(r.frames)
}

// CurrentFrame returns the frame under the cursor.
func (r *Runtime) CurrentFrame() (Frame, bool) {
	if r.Terminated() {
		return Frame{}, false
	}
	return r.frames[r.cursor], true
}

// FrameByID returns the frame with the given protocol identifier.
func (r *Runtime) FrameByID(id int) (Frame, bool) {
	if id < 0 || id >= len(r.frames) {
		return Frame{}, false
	}
	return r.frames[id], true
}

// StepOnce advances the cursor by one position outward. It returns the stop
// reason and whether the runtime terminated instead of stopping. A landed
// frame that matches a breakpoint reports StopReasonBreakpoint regardless of
// the caller-supplied reason.
func (r *Runtime) StepOnce(reason StopReason) (StopReason, bool) {
	if reason == "" {
		reason = StopReasonStep
	}

	r.cursor++
	if r.cursor >= len(r.frames) {
		r.cursor = len(r.frames)
		return "", true
	}

	if r.breakpoints.Matches(r.frames[r.cursor]) {
		return StopReasonBreakpoint, false
	}
	return reason, false
}

// Continue scans strictly-outward positions for the first breakpoint match
// and jumps there. It returns true when no match exists and the runtime
// terminated instead.
func (r *Runtime) Continue() bool {
	for i := r.cursor + 1; i < len(r.frames); i++ {
		if r.breakpoints.Matches(r.frames[i]) {
			r.cursor = i
			return false
		}
	}
	r.cursor = len(r.frames)
	return true
}

// SetCursorByFrameID jumps the cursor to the identified frame. Unknown
// identifiers leave the cursor unchanged and return false.
func (r *Runtime) SetCursorByFrameID(id int) bool {
	if id < 0 || id >= len(r.frames) {
		return false
	}
	r.cursor = id
	return true
}

// SetCursorByLocation jumps to the first frame matching the given
// coordinates. An empty path matches any frame at that line. Used once, at
// launch, to align with a UI-supplied hint.
func (r *Runtime) SetCursorByLocation(path string, line int) bool {
	if path != "" {
		path = normalizeSourcePath(path)
	}
	for i, f := range r.frames {
		if path != "" && f.Path != path {
			continue
		}
		if f.Line == line {
			r.cursor = i
			return true
		}
	}
	return false
}

// OrderedFrames returns frames from index 0 through the cursor, in the
// conventional innermost-first display order: crash-adjacent frames first,
// outward frames last. Only the portion of the stack the user has reached so
// far is visible.
func (r *Runtime) OrderedFrames() []Frame {
	if r.Terminated() {
		return nil
	}
	out := make([]Frame, r.cursor+1)
	copy(out, r.frames[:r.cursor+1])
	return out
}
