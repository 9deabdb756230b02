// Package fixture reads replay fixture documents harvested from a live
// crash and adapts them to the replay engine's loader contracts.
package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Document is one on-disk replay fixture.
type Document struct {
	ID         string        `json:"id"`
	OccurredAt time.Time     `json:"occurredAt"`
	Source     string        `json:"source"`
	Title      string        `json:"title"`
	Exception  Exception     `json:"exception"`
	Frames     []FrameRecord `json:"frames"`
	Variables  []Capture     `json:"variables"`
	Meta       Meta          `json:"meta"`
}

// Exception summarizes the captured error.
type Exception struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Stack   string `json:"stack"`
}

// FrameRecord is one captured frame, recorded crash-site first.
type FrameRecord struct {
	ID            int      `json:"id"`
	FunctionName  string   `json:"functionName"`
	FilePath      string   `json:"filePath"`
	Line          int      `json:"line"`
	Column        int      `json:"column"`
	SnapshotID    string   `json:"snapshotId"`
	SnapshotIndex int      `json:"snapshotIndex"`
	Scopes        []string `json:"scopes"`
}

// Capture holds the recorded variable payloads for one snapshot. Payloads
// stay raw; the replay resolver normalizes their heterogeneous shapes.
type Capture struct {
	SnapshotID string   `json:"snapshotId"`
	Captures   Payloads `json:"captures"`
}

// Payloads is a raw {locals, arguments} pair.
type Payloads struct {
	Locals    json.RawMessage `json:"locals"`
	Arguments json.RawMessage `json:"arguments"`
}

// Meta carries capture-wide metadata.
type Meta struct {
	SnapshotCount int    `json:"snapshotCount"`
	Symbolicated  bool   `json:"symbolicated"`
	Architecture  string `json:"architecture"`
}

// Parse decodes and validates a fixture document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if doc.ID == "" {
		return nil, fmt.Errorf("fixture has no id")
	}
	if len(doc.Frames) == 0 {
		return nil, fmt.Errorf("fixture %s has no frames", doc.ID)
	}
	seen := make(map[string]struct{}, len(doc.Variables))
	for _, c := range doc.Variables {
		if c.SnapshotID == "" {
			return nil, fmt.Errorf("fixture %s: capture with empty snapshotId", doc.ID)
		}
		if _, dup := seen[c.SnapshotID]; dup {
			return nil, fmt.Errorf("fixture %s: duplicate capture for snapshot %s", doc.ID, c.SnapshotID)
		}
		seen[c.SnapshotID] = struct{}{}
	}
	return &doc, nil
}

// Load reads and parses a fixture file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
