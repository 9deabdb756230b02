package replay

import (
	"context"
	"encoding/json"
	"time"
)

// LookupHints identify a captured error for the external loader.
type LookupHints struct {
	// ErrorID is the identifier of the captured error document.
	ErrorID string

	// TraceID and SpanID locate the capture in distributed-trace terms.
	TraceID string
	SpanID  string

	// Timestamp is when the error occurred, if known.
	Timestamp time.Time

	// Context carries free-form lookup context.
	Context map[string]string
}

// ExceptionSummary describes the captured exception.
type ExceptionSummary struct {
	Name    string
	Message string
	Stack   string
}

// RawFrame is one frame descriptor as recorded at capture time, ordered
// crash-site first. Every field is optional; the indexer resolves
// fallbacks. A frame's identity is its position in the capture order.
type RawFrame struct {
	// Function is the function or method name.
	Function string

	// File is the source file path.
	File string

	// Line and Column are 1-based coordinates. Zero means absent.
	Line   int
	Column int

	// Line0 and Column0 are zero-based coordinates used only when the
	// 1-based pair is absent.
	Line0   *int
	Column0 *int

	// Location is an embedded "name (path:line:col)" or "path:line:col"
	// token, used when File or Function are absent.
	Location string

	// SnapshotID names the captured variable bundle for this frame.
	// Empty means no variables were captured.
	SnapshotID string
}

// StackTrace is the immutable capture document a session replays.
type StackTrace struct {
	ID         string
	TraceID    string
	SpanID     string
	OccurredAt time.Time
	Source     string
	Title      string
	Exception  ExceptionSummary

	// Frames are raw descriptors ordered from the crash site outward.
	Frames []RawFrame

	SnapshotCount int
	Symbolicated  bool
	Architecture  string
}

// RawBundle is an unnormalized {locals, arguments} pair of capture payloads.
type RawBundle struct {
	Locals    json.RawMessage
	Arguments json.RawMessage
}

// TraceLoader loads a stack trace document from lookup hints. A failure here
// is fatal to session launch.
type TraceLoader interface {
	LoadStackTrace(ctx context.Context, hints LookupHints) (*StackTrace, error)
}

// VariableLoader loads the captured variable bundle for a snapshot. Failures
// degrade to an empty bundle; they are never surfaced to the host.
type VariableLoader interface {
	LoadVariables(ctx context.Context, snapshotID string, hints LookupHints) (RawBundle, error)
}
