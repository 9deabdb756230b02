package fixture

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dshills/rewind/internal/logging"
	"github.com/dshills/rewind/internal/replay"
)

// Loader serves the replay engine's loader contracts from fixture files.
// The first stack-trace load pins the document; variable loads read from
// the pinned document so both halves always describe the same capture.
type Loader struct {
	dir string
	log *logging.Logger

	mu  sync.Mutex
	doc *Document
}

// NewLoader creates a loader resolving relative fixture paths against dir.
// A nil logger disables logging.
func NewLoader(dir string, log *logging.Logger) *Loader {
	if log == nil {
		log = logging.Nop()
	}
	return &Loader{dir: dir, log: log.WithComponent("fixture")}
}

// LoadStackTrace implements replay.TraceLoader. The fixture is located by
// an explicit path hint, or by error identifier under the loader's
// directory.
func (l *Loader) LoadStackTrace(_ context.Context, hints replay.LookupHints) (*replay.StackTrace, error) {
	path, err := l.resolvePath(hints)
	if err != nil {
		return nil, err
	}

	doc, err := Load(path)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.doc = doc
	l.mu.Unlock()

	l.log.Info("loaded fixture %s (%d frames, %d captures)", doc.ID, len(doc.Frames), len(doc.Variables))
	return docToTrace(doc, hints), nil
}

// LoadVariables implements replay.VariableLoader against the pinned
// document.
func (l *Loader) LoadVariables(_ context.Context, snapshotID string, _ replay.LookupHints) (replay.RawBundle, error) {
	l.mu.Lock()
	doc := l.doc
	l.mu.Unlock()

	if doc == nil {
		return replay.RawBundle{}, fmt.Errorf("no fixture loaded")
	}
	for _, c := range doc.Variables {
		if c.SnapshotID == snapshotID {
			return replay.RawBundle{
				Locals:    c.Captures.Locals,
				Arguments: c.Captures.Arguments,
			}, nil
		}
	}
	return replay.RawBundle{}, fmt.Errorf("fixture %s has no capture for snapshot %s", doc.ID, snapshotID)
}

func (l *Loader) resolvePath(hints replay.LookupHints) (string, error) {
	if p := hints.Context["fixturePath"]; p != "" {
		if !filepath.IsAbs(p) && l.dir != "" {
			p = filepath.Join(l.dir, p)
		}
		return p, nil
	}
	if hints.ErrorID != "" {
		return filepath.Join(l.dir, hints.ErrorID+".json"), nil
	}
	return "", fmt.Errorf("no fixture path or error id in lookup hints")
}

// docToTrace converts a fixture document to the engine's trace model,
// preferring document identifiers over lookup hints.
func docToTrace(doc *Document, hints replay.LookupHints) *replay.StackTrace {
	frames := make([]replay.RawFrame, len(doc.Frames))
	for i, fr := range doc.Frames {
		frames[i] = replay.RawFrame{
			Function:   fr.FunctionName,
			File:       fr.FilePath,
			Line:       fr.Line,
			Column:     fr.Column,
			SnapshotID: fr.SnapshotID,
		}
	}
	return &replay.StackTrace{
		ID:            doc.ID,
		TraceID:       hints.TraceID,
		SpanID:        hints.SpanID,
		OccurredAt:    doc.OccurredAt,
		Source:        doc.Source,
		Title:         doc.Title,
		Exception:     replay.ExceptionSummary(doc.Exception),
		Frames:        frames,
		SnapshotCount: doc.Meta.SnapshotCount,
		Symbolicated:  doc.Meta.Symbolicated,
		Architecture:  doc.Meta.Architecture,
	}
}
