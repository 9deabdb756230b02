package dap

import (
	"encoding/json"
)

// ProtocolMessage is the base for all DAP messages.
type ProtocolMessage struct {
	Seq  int    `json:"seq"`
	Type string `json:"type"` // "request", "response", "event"
}

// Request represents a DAP request.
type Request struct {
	ProtocolMessage
	Command   string          `json:"command"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Response represents a DAP response.
type Response struct {
	ProtocolMessage
	RequestSeq int             `json:"request_seq"`
	Success    bool            `json:"success"`
	Command    string          `json:"command"`
	Message    string          `json:"message,omitempty"`
	Body       json.RawMessage `json:"body,omitempty"`
}

// Event represents a DAP event.
type Event struct {
	ProtocolMessage
	Event string          `json:"event"`
	Body  json.RawMessage `json:"body,omitempty"`
}

// Capabilities describes what features this adapter supports.
type Capabilities struct {
	SupportsConfigurationDoneRequest bool `json:"supportsConfigurationDoneRequest,omitempty"`
	SupportsEvaluateForHovers        bool `json:"supportsEvaluateForHovers,omitempty"`
	SupportsStepBack                 bool `json:"supportsStepBack,omitempty"`
	SupportsSetVariable              bool `json:"supportsSetVariable,omitempty"`
	SupportsRestartFrame             bool `json:"supportsRestartFrame,omitempty"`
	SupportsExceptionInfoRequest     bool `json:"supportsExceptionInfoRequest,omitempty"`
	SupportsDelayedStackTraceLoading bool `json:"supportsDelayedStackTraceLoading,omitempty"`
	SupportsTerminateRequest         bool `json:"supportsTerminateRequest,omitempty"`
}

// InitializeRequestArguments are the arguments for the initialize request.
type InitializeRequestArguments struct {
	ClientID        string `json:"clientID,omitempty"`
	ClientName      string `json:"clientName,omitempty"`
	AdapterID       string `json:"adapterID"`
	Locale          string `json:"locale,omitempty"`
	LinesStartAt1   bool   `json:"linesStartAt1,omitempty"`
	ColumnsStartAt1 bool   `json:"columnsStartAt1,omitempty"`
	PathFormat      string `json:"pathFormat,omitempty"`
}

// SourceLocation is a path/line pair used as a launch-time cursor hint.
type SourceLocation struct {
	Path string `json:"path"`
	Line int    `json:"line"`
}

// LaunchRequestArguments are the replay-locating arguments for launch.
type LaunchRequestArguments struct {
	NoDebug bool `json:"noDebug,omitempty"`

	// FixturePath points at a replay fixture on disk. When set it overrides
	// identifier-based lookup.
	FixturePath string `json:"fixturePath,omitempty"`

	// Identifier-based lookup hints for the trace loader.
	ErrorID   string            `json:"errorId,omitempty"`
	TraceID   string            `json:"traceId,omitempty"`
	SpanID    string            `json:"spanId,omitempty"`
	Timestamp string            `json:"timestamp,omitempty"` // RFC 3339
	Context   map[string]string `json:"context,omitempty"`

	// StopLocation aligns the initial cursor with a UI-supplied source
	// position. Consumed once at launch.
	StopLocation *SourceLocation `json:"stopLocation,omitempty"`
}

// SetBreakpointsArguments are the arguments for setBreakpoints.
type SetBreakpointsArguments struct {
	Source      Source             `json:"source"`
	Breakpoints []SourceBreakpoint `json:"breakpoints,omitempty"`
	Lines       []int              `json:"lines,omitempty"`
}

// SetBreakpointsResponseBody is the response body for setBreakpoints.
type SetBreakpointsResponseBody struct {
	Breakpoints []Breakpoint `json:"breakpoints"`
}

// ContinueArguments are the arguments for continue.
type ContinueArguments struct {
	ThreadID int `json:"threadId"`
}

// ContinueResponseBody is the response body for continue.
type ContinueResponseBody struct {
	AllThreadsContinued bool `json:"allThreadsContinued,omitempty"`
}

// NextArguments are the arguments for next (step over).
type NextArguments struct {
	ThreadID    int    `json:"threadId"`
	Granularity string `json:"granularity,omitempty"`
}

// StepInArguments are the arguments for stepIn.
type StepInArguments struct {
	ThreadID int `json:"threadId"`
	TargetID int `json:"targetId,omitempty"`
}

// StepOutArguments are the arguments for stepOut.
type StepOutArguments struct {
	ThreadID int `json:"threadId"`
}

// StepBackArguments are the arguments for stepBack.
type StepBackArguments struct {
	ThreadID int `json:"threadId"`
}

// ReverseContinueArguments are the arguments for reverseContinue.
type ReverseContinueArguments struct {
	ThreadID int `json:"threadId"`
}

// RestartFrameArguments are the arguments for restartFrame.
type RestartFrameArguments struct {
	FrameID int `json:"frameId"`
}

// StackTraceArguments are the arguments for stackTrace.
type StackTraceArguments struct {
	ThreadID   int `json:"threadId"`
	StartFrame int `json:"startFrame,omitempty"`
	Levels     int `json:"levels,omitempty"`
}

// StackTraceResponseBody is the response body for stackTrace.
type StackTraceResponseBody struct {
	StackFrames []StackFrame `json:"stackFrames"`
	TotalFrames int          `json:"totalFrames,omitempty"`
}

// ScopesArguments are the arguments for scopes.
type ScopesArguments struct {
	FrameID int `json:"frameId"`
}

// ScopesResponseBody is the response body for scopes.
type ScopesResponseBody struct {
	Scopes []Scope `json:"scopes"`
}

// VariablesArguments are the arguments for variables.
type VariablesArguments struct {
	VariablesReference int    `json:"variablesReference"`
	Filter             string `json:"filter,omitempty"`
	Start              int    `json:"start,omitempty"`
	Count              int    `json:"count,omitempty"`
}

// VariablesResponseBody is the response body for variables.
type VariablesResponseBody struct {
	Variables []Variable `json:"variables"`
}

// EvaluateArguments are the arguments for evaluate.
type EvaluateArguments struct {
	Expression string `json:"expression"`
	FrameID    int    `json:"frameId,omitempty"`
	Context    string `json:"context,omitempty"` // "watch", "repl", "hover"
}

// EvaluateResponseBody is the response body for evaluate.
type EvaluateResponseBody struct {
	Result             string `json:"result"`
	Type               string `json:"type,omitempty"`
	VariablesReference int    `json:"variablesReference"`
}

// ThreadsResponseBody is the response body for threads.
type ThreadsResponseBody struct {
	Threads []Thread `json:"threads"`
}

// ExceptionInfoArguments are the arguments for exceptionInfo.
type ExceptionInfoArguments struct {
	ThreadID int `json:"threadId"`
}

// ExceptionInfoResponseBody is the response body for exceptionInfo.
type ExceptionInfoResponseBody struct {
	ExceptionID string            `json:"exceptionId"`
	Description string            `json:"description,omitempty"`
	BreakMode   string            `json:"breakMode"`
	Details     *ExceptionDetails `json:"details,omitempty"`
}

// ExceptionDetails carries detailed exception information.
type ExceptionDetails struct {
	Message    string `json:"message,omitempty"`
	TypeName   string `json:"typeName,omitempty"`
	StackTrace string `json:"stackTrace,omitempty"`
}

// TerminateArguments are the arguments for terminate.
type TerminateArguments struct {
	Restart bool `json:"restart,omitempty"`
}

// DisconnectArguments are the arguments for disconnect.
type DisconnectArguments struct {
	Restart           bool `json:"restart,omitempty"`
	TerminateDebuggee bool `json:"terminateDebuggee,omitempty"`
}

// Source represents a source file.
type Source struct {
	Name             string `json:"name,omitempty"`
	Path             string `json:"path,omitempty"`
	SourceReference  int    `json:"sourceReference,omitempty"`
	PresentationHint string `json:"presentationHint,omitempty"`
	Origin           string `json:"origin,omitempty"`
}

// SourceBreakpoint represents a breakpoint in source.
type SourceBreakpoint struct {
	Line      int    `json:"line"`
	Column    int    `json:"column,omitempty"`
	Condition string `json:"condition,omitempty"`
}

// Breakpoint represents a verified breakpoint.
type Breakpoint struct {
	ID       int     `json:"id,omitempty"`
	Verified bool    `json:"verified"`
	Message  string  `json:"message,omitempty"`
	Source   *Source `json:"source,omitempty"`
	Line     int     `json:"line,omitempty"`
	Column   int     `json:"column,omitempty"`
}

// Thread represents a thread.
type Thread struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// StackFrame represents a stack frame.
type StackFrame struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	Source           *Source `json:"source,omitempty"`
	Line             int     `json:"line"`
	Column           int     `json:"column"`
	CanRestart       bool    `json:"canRestart,omitempty"`
	PresentationHint string  `json:"presentationHint,omitempty"` // "normal", "label", "subtle"
}

// Scope represents a variable scope.
type Scope struct {
	Name               string `json:"name"`
	PresentationHint   string `json:"presentationHint,omitempty"`
	VariablesReference int    `json:"variablesReference"`
	NamedVariables     int    `json:"namedVariables,omitempty"`
	IndexedVariables   int    `json:"indexedVariables,omitempty"`
	Expensive          bool   `json:"expensive"`
}

// Variable represents a variable or field.
type Variable struct {
	Name               string `json:"name"`
	Value              string `json:"value"`
	Type               string `json:"type,omitempty"`
	PresentationHint   string `json:"presentationHint,omitempty"`
	EvaluateName       string `json:"evaluateName,omitempty"`
	VariablesReference int    `json:"variablesReference"`
	NamedVariables     int    `json:"namedVariables,omitempty"`
	IndexedVariables   int    `json:"indexedVariables,omitempty"`
}

// StoppedEventBody is the body of the stopped event.
type StoppedEventBody struct {
	Reason            string `json:"reason"` // "step", "breakpoint", "entry", "restart", "exception"
	Description       string `json:"description,omitempty"`
	ThreadID          int    `json:"threadId,omitempty"`
	Text              string `json:"text,omitempty"`
	AllThreadsStopped bool   `json:"allThreadsStopped,omitempty"`
}

// OutputEventBody is the body of the output event.
type OutputEventBody struct {
	Category string `json:"category,omitempty"` // "console", "important", "stdout", "stderr"
	Output   string `json:"output"`
}

// TerminatedEventBody is the body of the terminated event.
type TerminatedEventBody struct {
	Restart any `json:"restart,omitempty"`
}

// ExitedEventBody is the body of the exited event.
type ExitedEventBody struct {
	ExitCode int `json:"exitCode"`
}
