// Package replay implements the post-mortem replay engine: frame indexing
// and cursor traversal over a captured stack, lazy variable resolution,
// value previews, and the protocol-facing session state machine.
package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/rewind/internal/dap"
	"github.com/dshills/rewind/internal/logging"
)

// State tracks the session's protocol lifecycle.
type State int

const (
	// StateUninitialized means no launch has happened yet.
	StateUninitialized State = iota
	// StateStopped means a replay is loaded and paused on a valid frame.
	StateStopped
	// StateTerminated means the cursor walked off the recorded stack.
	StateTerminated
	// StateFailed means launch failed; the session is unusable.
	StateFailed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateStopped:
		return "stopped"
	case StateTerminated:
		return "terminated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// containerKind is the closed set of variable container categories.
type containerKind int

const (
	containerLocals containerKind = iota
	containerArguments
	containerMeta
	containerObject
)

// container is what a minted variables reference resolves to. Handles are
// never reused or invalidated; the host discards stale ones after a fresh
// stack/scopes round trip.
type container struct {
	kind       containerKind
	snapshotID string
	node       *Node
}

// replayThreadID is the single synthetic thread a replay exposes.
const replayThreadID = 1

// firstVariablesRef is the first minted variables reference. References
// start well above zero so a zero reference always means "no children".
const firstVariablesRef = 1000

// Options configure a session.
type Options struct {
	Traces    TraceLoader
	Variables VariableLoader

	// Skip hides matching frames from displayed stacks. Nil keeps all.
	Skip SkipPolicy

	// Deemphasize renders matching frames subtly. Nil emphasizes all.
	Deemphasize DeemphasisPolicy

	Logger *logging.Logger
}

// Session replays one captured error as a debug-adapter conversation. It
// owns the cursor runtime, breakpoints, resolver, and handle table for a
// single replay; sessions never share state.
type Session struct {
	id     string
	opts   Options
	log    *logging.Logger

	mu             sync.Mutex
	state          State
	hints          LookupHints
	trace          *StackTrace
	runtime        *Runtime
	breakpoints    *BreakpointSet
	resolver       *Resolver
	containers     map[int]container
	nextRef        int
	summaryEmitted bool
}

// NewSession creates a session. The trace loader is required; the variable
// loader may be nil when no snapshots will resolve.
func NewSession(opts Options) *Session {
	if opts.Skip == nil {
		opts.Skip = NopSkipPolicy()
	}
	if opts.Deemphasize == nil {
		opts.Deemphasize = NopDeemphasisPolicy()
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	id := uuid.NewString()
	return &Session{
		id:         id,
		opts:       opts,
		log:        log.WithComponent("session").With("session", id),
		state:      StateUninitialized,
		containers: make(map[int]container),
		nextRef:    firstVariablesRef,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// State returns the session's lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// HandleRequest implements dap.Handler.
func (s *Session) HandleRequest(ctx context.Context, req *dap.Request) (*dap.HandlerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch req.Command {
	case "initialize":
		return s.handleInitialize()
	case "launch":
		return s.handleLaunch(ctx, req.Arguments)
	case "configurationDone":
		return s.handleConfigurationDone()
	case "threads":
		return s.handleThreads()
	case "setBreakpoints":
		return s.handleSetBreakpoints(req.Arguments)
	case "stackTrace":
		return s.handleStackTrace(req.Arguments)
	case "scopes":
		return s.handleScopes(req.Arguments)
	case "variables":
		return s.handleVariables(ctx, req.Arguments)
	case "evaluate":
		return s.handleEvaluate(ctx, req.Arguments)
	case "continue":
		return s.handleContinue()
	case "next":
		return s.handleNext()
	case "stepIn":
		return s.handleUnsupportedStep("step-in")
	case "stepOut":
		return s.handleUnsupportedStep("step-out")
	case "stepBack":
		return s.handleUnsupportedStep("step-back")
	case "reverseContinue":
		return s.handleUnsupportedStep("reverse-continue")
	case "restartFrame":
		return s.handleRestartFrame(req.Arguments)
	case "exceptionInfo":
		return s.handleExceptionInfo()
	case "terminate":
		return s.handleTerminate()
	case "disconnect":
		return &dap.HandlerResult{}, dap.ErrStop
	default:
		return nil, fmt.Errorf("unsupported request %q", req.Command)
	}
}

func (s *Session) handleInitialize() (*dap.HandlerResult, error) {
	caps := dap.Capabilities{
		SupportsConfigurationDoneRequest: true,
		SupportsEvaluateForHovers:        true,
		SupportsRestartFrame:             true,
		SupportsExceptionInfoRequest:     true,
		SupportsDelayedStackTraceLoading: true,
		SupportsTerminateRequest:         true,
	}
	return &dap.HandlerResult{
		Body:   caps,
		Events: []dap.QueuedEvent{{Name: "initialized"}},
	}, nil
}

// handleConfigurationDone acks, and re-announces the current stop when a
// launch has already completed: hosts that finish configuration after the
// launch response expect a stopped event to follow it.
func (s *Session) handleConfigurationDone() (*dap.HandlerResult, error) {
	if s.state == StateStopped {
		return &dap.HandlerResult{
			Events: []dap.QueuedEvent{s.stoppedEvent(StopReasonEntry)},
		}, nil
	}
	return &dap.HandlerResult{}, nil
}

func (s *Session) handleLaunch(ctx context.Context, rawArgs json.RawMessage) (*dap.HandlerResult, error) {
	if s.state != StateUninitialized {
		return nil, fmt.Errorf("replay already launched (state %s)", s.state)
	}
	if s.opts.Traces == nil {
		s.state = StateFailed
		return nil, fmt.Errorf("no trace loader configured")
	}

	var args dap.LaunchRequestArguments
	if len(rawArgs) > 0 {
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			s.state = StateFailed
			return nil, fmt.Errorf("parse launch arguments: %w", err)
		}
	}

	hints := LookupHints{
		ErrorID: args.ErrorID,
		TraceID: args.TraceID,
		SpanID:  args.SpanID,
		Context: args.Context,
	}
	if args.FixturePath != "" {
		if hints.Context == nil {
			hints.Context = make(map[string]string)
		}
		hints.Context["fixturePath"] = args.FixturePath
	}
	if args.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, args.Timestamp); err == nil {
			hints.Timestamp = ts
		} else {
			s.log.Warn("ignoring unparseable launch timestamp %q: %v", args.Timestamp, err)
		}
	}

	trace, err := s.opts.Traces.LoadStackTrace(ctx, hints)
	if err != nil {
		// Launch failure is fatal; no stack operations may follow.
		s.state = StateFailed
		s.log.Error("stack trace load failed: %v", err)
		return nil, fmt.Errorf("load stack trace: %w", err)
	}
	if len(trace.Frames) == 0 {
		s.state = StateFailed
		return nil, fmt.Errorf("stack trace %s has no frames", trace.ID)
	}

	s.hints = hints
	s.trace = trace
	// Breakpoints submitted between initialize and launch survive.
	if s.breakpoints == nil {
		s.breakpoints = NewBreakpointSet()
	}
	s.runtime = NewRuntime(trace, s.breakpoints)
	s.resolver = NewResolver(s.opts.Variables, hints, s.log)
	s.state = StateStopped

	// One-shot alignment with a UI-supplied source position.
	if loc := args.StopLocation; loc != nil {
		if !s.runtime.SetCursorByLocation(loc.Path, loc.Line) {
			s.log.Debug("stop location hint %s:%d matched no frame", loc.Path, loc.Line)
		}
	}

	s.log.Info("launched replay of %s (%d frames, %d snapshots)",
		trace.ID, len(trace.Frames), trace.SnapshotCount)

	events := []dap.QueuedEvent{
		{Name: "output", Body: dap.OutputEventBody{
			Category: "console",
			Output:   s.launchBanner(),
		}},
		s.stoppedEvent(StopReasonEntry),
	}
	return &dap.HandlerResult{Events: events}, nil
}

func (s *Session) launchBanner() string {
	title := s.trace.Title
	if title == "" {
		title = s.trace.Exception.Name
	}
	if title == "" {
		title = s.trace.ID
	}
	return fmt.Sprintf("Replaying %s (%d recorded frames)\n", title, s.runtime.FrameCount())
}

func (s *Session) handleThreads() (*dap.HandlerResult, error) {
	return &dap.HandlerResult{
		Body: dap.ThreadsResponseBody{
			Threads: []dap.Thread{{ID: replayThreadID, Name: "replay"}},
		},
	}, nil
}

func (s *Session) handleSetBreakpoints(rawArgs json.RawMessage) (*dap.HandlerResult, error) {
	var args dap.SetBreakpointsArguments
	if err := json.Unmarshal(rawArgs, &args); err != nil {
		return nil, fmt.Errorf("parse setBreakpoints arguments: %w", err)
	}
	if args.Source.Path == "" {
		return nil, fmt.Errorf("setBreakpoints: source path is required")
	}

	lines := make([]int, 0, len(args.Breakpoints)+len(args.Lines))
	for _, bp := range args.Breakpoints {
		lines = append(lines, bp.Line)
	}
	lines = append(lines, args.Lines...)

	if s.breakpoints == nil {
		s.breakpoints = NewBreakpointSet()
	}
	s.breakpoints.Set(args.Source.Path, lines)

	// Every breakpoint verifies vacuously: there is no source analysis to
	// reject one, it simply never fires if no recorded frame matches.
	verified := make([]dap.Breakpoint, len(lines))
	for i, line := range lines {
		verified[i] = dap.Breakpoint{
			ID:       i + 1,
			Verified: true,
			Line:     line,
			Source:   &dap.Source{Path: args.Source.Path},
		}
	}
	return &dap.HandlerResult{
		Body: dap.SetBreakpointsResponseBody{Breakpoints: verified},
	}, nil
}

func (s *Session) handleStackTrace(rawArgs json.RawMessage) (*dap.HandlerResult, error) {
	if err := s.requireReplay(); err != nil {
		return nil, err
	}
	var args dap.StackTraceArguments
	if len(rawArgs) > 0 {
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return nil, fmt.Errorf("parse stackTrace arguments: %w", err)
		}
	}

	if s.state == StateTerminated {
		return &dap.HandlerResult{
			Body: dap.StackTraceResponseBody{StackFrames: []dap.StackFrame{}},
		}, nil
	}

	frames := FilterFrames(s.runtime.OrderedFrames(), s.opts.Skip)
	total := len(frames)

	start := args.StartFrame
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	frames = frames[start:]
	if args.Levels > 0 && args.Levels < len(frames) {
		frames = frames[:args.Levels]
	}

	out := make([]dap.StackFrame, 0, len(frames))
	for _, f := range frames {
		sf := dap.StackFrame{
			ID:         f.Index,
			Name:       f.Name,
			Line:       f.Line,
			Column:     f.Column,
			CanRestart: true,
		}
		if f.HasSource() {
			sf.Source = &dap.Source{Path: f.Path}
		}
		if s.opts.Deemphasize.Deemphasize(f) {
			sf.PresentationHint = "subtle"
		}
		out = append(out, sf)
	}
	return &dap.HandlerResult{
		Body: dap.StackTraceResponseBody{StackFrames: out, TotalFrames: total},
	}, nil
}

func (s *Session) handleScopes(rawArgs json.RawMessage) (*dap.HandlerResult, error) {
	if err := s.requireReplay(); err != nil {
		return nil, err
	}
	var args dap.ScopesArguments
	if err := json.Unmarshal(rawArgs, &args); err != nil {
		return nil, fmt.Errorf("parse scopes arguments: %w", err)
	}
	frame, ok := s.runtime.FrameByID(args.FrameID)
	if !ok {
		return nil, fmt.Errorf("unknown frame %d", args.FrameID)
	}

	scopes := []dap.Scope{
		{
			Name:               "Locals",
			PresentationHint:   "locals",
			VariablesReference: s.mint(container{kind: containerLocals, snapshotID: frame.SnapshotID}),
		},
		{
			Name:               "Arguments",
			PresentationHint:   "arguments",
			VariablesReference: s.mint(container{kind: containerArguments, snapshotID: frame.SnapshotID}),
		},
		{
			Name:               "Replay",
			VariablesReference: s.mint(container{kind: containerMeta}),
		},
	}
	return &dap.HandlerResult{Body: dap.ScopesResponseBody{Scopes: scopes}}, nil
}

func (s *Session) handleVariables(ctx context.Context, rawArgs json.RawMessage) (*dap.HandlerResult, error) {
	if err := s.requireReplay(); err != nil {
		return nil, err
	}
	var args dap.VariablesArguments
	if err := json.Unmarshal(rawArgs, &args); err != nil {
		return nil, fmt.Errorf("parse variables arguments: %w", err)
	}
	c, ok := s.containers[args.VariablesReference]
	if !ok {
		return nil, fmt.Errorf("unknown variables reference %d", args.VariablesReference)
	}

	// A snapshot-bound handle from a frame that is no longer current
	// answers with a single informational placeholder, not real data.
	if c.snapshotID != "" && !s.snapshotCurrent(c.snapshotID) {
		return &dap.HandlerResult{
			Body: dap.VariablesResponseBody{Variables: []dap.Variable{{
				Name:  "info",
				Value: "variables are only available for the current frame",
			}}},
		}, nil
	}

	node := s.containerNode(ctx, c)
	vars := s.childVariables(node, c.snapshotID)
	vars = pageVariables(vars, args.Filter, args.Start, args.Count)
	return &dap.HandlerResult{Body: dap.VariablesResponseBody{Variables: vars}}, nil
}

// containerNode resolves a container to its variable tree node.
func (s *Session) containerNode(ctx context.Context, c container) *Node {
	switch c.kind {
	case containerLocals:
		return s.resolver.Bundle(ctx, c.snapshotID).Locals
	case containerArguments:
		return s.resolver.Bundle(ctx, c.snapshotID).Arguments
	case containerMeta:
		return s.metaNode()
	case containerObject:
		return c.node
	default:
		return &Node{}
	}
}

// childVariables renders one level of a node's children, minting handles
// for expandable grandchildren.
func (s *Session) childVariables(node *Node, snapshotID string) []dap.Variable {
	if node == nil {
		return []dap.Variable{}
	}
	vars := make([]dap.Variable, 0, len(node.Children))
	for _, child := range node.Children {
		v := dap.Variable{
			Name:  child.Name,
			Value: Preview(child.Node),
		}
		if child.Node != nil {
			v.Type = child.Node.Type
			if len(child.Node.Children) > 0 {
				v.VariablesReference = s.mint(container{
					kind:       containerObject,
					snapshotID: snapshotID,
					node:       child.Node,
				})
				if isSequence(child.Node) {
					v.IndexedVariables = len(child.Node.Children)
				} else {
					v.NamedVariables = len(child.Node.Children)
				}
			}
		}
		vars = append(vars, v)
	}
	return vars
}

// pageVariables applies the protocol's filter/start/count windowing.
func pageVariables(vars []dap.Variable, filter string, start, count int) []dap.Variable {
	if filter == "indexed" || filter == "named" {
		filtered := make([]dap.Variable, 0, len(vars))
		for _, v := range vars {
			_, err := strconv.Atoi(v.Name)
			indexed := err == nil
			if (filter == "indexed") == indexed {
				filtered = append(filtered, v)
			}
		}
		vars = filtered
	}
	if start < 0 {
		start = 0
	}
	if start > len(vars) {
		start = len(vars)
	}
	vars = vars[start:]
	if count > 0 && count < len(vars) {
		vars = vars[:count]
	}
	return vars
}

// metaNode exposes the capture's metadata as a browsable tree.
func (s *Session) metaNode() *Node {
	t := s.trace
	children := []Child{
		{Name: "id", Node: scalarNode(t.ID)},
		{Name: "source", Node: scalarNode(t.Source)},
		{Name: "title", Node: scalarNode(t.Title)},
		{Name: "occurredAt", Node: scalarNode(t.OccurredAt.Format(time.RFC3339))},
		{Name: "traceId", Node: scalarNode(t.TraceID)},
		{Name: "spanId", Node: scalarNode(t.SpanID)},
		{Name: "frameCount", Node: scalarNode(int64(s.runtime.FrameCount()))},
		{Name: "snapshotCount", Node: scalarNode(int64(t.SnapshotCount))},
		{Name: "symbolicated", Node: scalarNode(t.Symbolicated)},
		{Name: "architecture", Node: scalarNode(t.Architecture)},
	}
	return &Node{Children: children}
}

func scalarNode(v any) *Node {
	return &Node{Value: v, HasValue: true}
}

func (s *Session) handleEvaluate(ctx context.Context, rawArgs json.RawMessage) (*dap.HandlerResult, error) {
	if err := s.requireReplay(); err != nil {
		return nil, err
	}
	var args dap.EvaluateArguments
	if err := json.Unmarshal(rawArgs, &args); err != nil {
		return nil, fmt.Errorf("parse evaluate arguments: %w", err)
	}

	node, found := s.lookupPath(ctx, args.FrameID, args.Expression)
	if !found {
		// A lookup miss is an answer, not an error.
		return &dap.HandlerResult{
			Body: dap.EvaluateResponseBody{Result: "not available"},
		}, nil
	}

	body := dap.EvaluateResponseBody{
		Result: Preview(node),
		Type:   node.Type,
	}
	if len(node.Children) > 0 {
		body.VariablesReference = s.mint(container{kind: containerObject, node: node})
	}
	return &dap.HandlerResult{Body: body}, nil
}

// lookupPath resolves a dotted path against the frame's locals, arguments,
// and the replay metadata. A leading "locals", "arguments", or "meta"
// segment selects the root explicitly; otherwise all three are searched in
// that order. There is no expression language beyond this.
func (s *Session) lookupPath(ctx context.Context, frameID int, expr string) (*Node, bool) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, false
	}
	segments := strings.Split(expr, ".")

	frame, ok := s.runtime.FrameByID(frameID)
	if !ok {
		frame, ok = s.runtime.CurrentFrame()
		if !ok {
			return nil, false
		}
	}
	bundle := s.resolver.Bundle(ctx, frame.SnapshotID)

	var roots []*Node
	switch segments[0] {
	case "locals":
		roots, segments = []*Node{bundle.Locals}, segments[1:]
	case "arguments":
		roots, segments = []*Node{bundle.Arguments}, segments[1:]
	case "meta":
		roots, segments = []*Node{s.metaNode()}, segments[1:]
	default:
		roots = []*Node{bundle.Locals, bundle.Arguments, s.metaNode()}
	}
	if len(segments) == 0 {
		return roots[0], true
	}

	for _, root := range roots {
		if node, ok := walkPath(root, segments); ok {
			return node, true
		}
	}
	return nil, false
}

func walkPath(node *Node, segments []string) (*Node, bool) {
	for _, seg := range segments {
		if node == nil {
			return nil, false
		}
		node = node.ChildByName(seg)
	}
	if node == nil {
		return nil, false
	}
	return node, true
}

func (s *Session) handleContinue() (*dap.HandlerResult, error) {
	if err := s.requireStopped(); err != nil {
		return nil, err
	}
	body := dap.ContinueResponseBody{AllThreadsContinued: true}
	if s.runtime.Continue() {
		return &dap.HandlerResult{Body: body, Events: s.terminationEvents()}, nil
	}
	return &dap.HandlerResult{
		Body:   body,
		Events: []dap.QueuedEvent{s.stoppedEvent(StopReasonBreakpoint)},
	}, nil
}

func (s *Session) handleNext() (*dap.HandlerResult, error) {
	if err := s.requireStopped(); err != nil {
		return nil, err
	}
	reason, terminated := s.runtime.StepOnce(StopReasonStep)
	if terminated {
		return &dap.HandlerResult{Events: s.terminationEvents()}, nil
	}
	return &dap.HandlerResult{
		Events: []dap.QueuedEvent{s.stoppedEvent(reason)},
	}, nil
}

// handleUnsupportedStep accepts a navigation command the replay cannot
// honor: the recorded call depth is fixed, so the cursor stays put and the
// host is told why. Keeping these as stay-in-place stops leaves the host's
// UI controls enabled without claiming unsupported semantics.
func (s *Session) handleUnsupportedStep(name string) (*dap.HandlerResult, error) {
	if err := s.requireStopped(); err != nil {
		return nil, err
	}
	events := []dap.QueuedEvent{
		{Name: "output", Body: dap.OutputEventBody{
			Category: "console",
			Output:   fmt.Sprintf("%s is not available during replay; the recorded call depth is fixed\n", name),
		}},
		s.stoppedEvent(StopReasonStep),
	}
	return &dap.HandlerResult{Events: events}, nil
}

func (s *Session) handleRestartFrame(rawArgs json.RawMessage) (*dap.HandlerResult, error) {
	if err := s.requireStopped(); err != nil {
		return nil, err
	}
	var args dap.RestartFrameArguments
	if err := json.Unmarshal(rawArgs, &args); err != nil {
		return nil, fmt.Errorf("parse restartFrame arguments: %w", err)
	}
	// An unknown frame id leaves the cursor where it is; the stop still
	// fires so the host refreshes its view.
	if !s.runtime.SetCursorByFrameID(args.FrameID) {
		s.log.Debug("restartFrame: unknown frame %d, cursor unchanged", args.FrameID)
	}
	return &dap.HandlerResult{
		Events: []dap.QueuedEvent{s.stoppedEvent(StopReasonRestart)},
	}, nil
}

func (s *Session) handleExceptionInfo() (*dap.HandlerResult, error) {
	if err := s.requireReplay(); err != nil {
		return nil, err
	}
	exc := s.trace.Exception
	body := dap.ExceptionInfoResponseBody{
		ExceptionID: exc.Name,
		Description: exc.Message,
		BreakMode:   "always",
		Details: &dap.ExceptionDetails{
			Message:    exc.Message,
			TypeName:   exc.Name,
			StackTrace: exc.Stack,
		},
	}
	return &dap.HandlerResult{Body: body}, nil
}

func (s *Session) handleTerminate() (*dap.HandlerResult, error) {
	if s.state == StateTerminated {
		// Re-signal without a duplicate summary line.
		return &dap.HandlerResult{
			Events: []dap.QueuedEvent{{Name: "terminated", Body: dap.TerminatedEventBody{}}},
		}, nil
	}
	if err := s.requireReplay(); err != nil {
		return nil, err
	}
	return &dap.HandlerResult{Events: s.terminationEvents()}, nil
}

// terminationEvents moves the session to the terminated state and produces
// its outbound events: the one-time summary line, then the terminate
// signal. The summary is emitted exactly once per session.
func (s *Session) terminationEvents() []dap.QueuedEvent {
	s.state = StateTerminated

	var events []dap.QueuedEvent
	if !s.summaryEmitted {
		s.summaryEmitted = true
		events = append(events, dap.QueuedEvent{
			Name: "output",
			Body: dap.OutputEventBody{Category: "console", Output: s.summaryLine()},
		})
	}
	events = append(events, dap.QueuedEvent{Name: "terminated", Body: dap.TerminatedEventBody{}})
	return events
}

func (s *Session) summaryLine() string {
	name := s.trace.Exception.Name
	if name == "" {
		name = s.trace.ID
	}
	return fmt.Sprintf("Replay of %s finished: traversed all %d recorded frames\n",
		name, s.runtime.FrameCount())
}

// stoppedEvent builds a stopped event for the current cursor position.
func (s *Session) stoppedEvent(reason StopReason) dap.QueuedEvent {
	body := dap.StoppedEventBody{
		Reason:            string(reason),
		ThreadID:          replayThreadID,
		AllThreadsStopped: true,
	}
	if frame, ok := s.runtime.CurrentFrame(); ok {
		body.Description = fmt.Sprintf("%s at %s", frame.Name, frame.FormatLocation())
	}
	return dap.QueuedEvent{Name: "stopped", Body: body}
}

// snapshotCurrent reports whether the snapshot belongs to the frame under
// the cursor.
func (s *Session) snapshotCurrent(snapshotID string) bool {
	frame, ok := s.runtime.CurrentFrame()
	return ok && frame.SnapshotID == snapshotID
}

// mint issues a fresh, never-reused variables reference for a container.
func (s *Session) mint(c container) int {
	ref := s.nextRef
	s.nextRef++
	s.containers[ref] = c
	return ref
}

// requireReplay rejects stack operations before a successful launch.
func (s *Session) requireReplay() error {
	switch s.state {
	case StateUninitialized:
		return fmt.Errorf("no replay launched")
	case StateFailed:
		return fmt.Errorf("replay launch failed; session is unusable")
	}
	return nil
}

// requireStopped rejects navigation unless the cursor is on a valid frame.
func (s *Session) requireStopped() error {
	if err := s.requireReplay(); err != nil {
		return err
	}
	if s.state == StateTerminated {
		return fmt.Errorf("replay already terminated")
	}
	return nil
}
