package replay

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

// Frame is a normalized, immutable stack frame. Index 0 is the crash site;
// the last index is the outermost (entry) frame, so stepping outward means
// increasing the index. Only the session's cursor moves, never the frames.
type Frame struct {
	// Index is the frame's position in traversal (crash-site-first) order.
	// It doubles as the frame's protocol identifier.
	Index int

	// Name is the display name for the frame.
	Name string

	// Path is the normalized source path, empty if unknown.
	Path string

	// Line and Column are 1-based source coordinates.
	Line   int
	Column int

	// SnapshotID names this frame's captured variable bundle; empty means
	// no variables were captured for the frame.
	SnapshotID string
}

// HasSource reports whether the frame has a usable source location.
func (f Frame) HasSource() bool {
	return f.Path != ""
}

// FormatLocation returns a "file:line" display string.
func (f Frame) FormatLocation() string {
	if f.Path == "" {
		return fmt.Sprintf("<unknown>:%d", f.Line)
	}
	return fmt.Sprintf("%s:%d", path.Base(f.Path), f.Line)
}

// indexFrames normalizes raw descriptors. Capture order is crash-site
// first, which is also the traversal order: index 0 is the crash site and
// walking outward toward the entry point increases the index.
func indexFrames(raw []RawFrame) []Frame {
	frames := make([]Frame, len(raw))
	for i, rf := range raw {
		frames[i] = normalizeFrame(rf, i)
	}
	return frames
}

// normalizeFrame resolves a raw descriptor's name, path, and coordinates.
// Resolution priority: direct fields, then the embedded location token, then
// a synthesized index-based name.
func normalizeFrame(rf RawFrame, index int) Frame {
	name := rf.Function
	path := rf.File
	line := rf.Line
	column := rf.Column

	if (path == "" || name == "") && rf.Location != "" {
		tokName, tokPath, tokLine, tokColumn := parseLocationToken(rf.Location)
		if name == "" {
			name = tokName
		}
		if path == "" {
			path = tokPath
			if line == 0 {
				line = tokLine
			}
			if column == 0 {
				column = tokColumn
			}
		}
	}
	if name == "" {
		name = fmt.Sprintf("frame %d", index)
	}
	if path != "" {
		path = normalizeSourcePath(path)
	}

	// Fall back to zero-based coordinates, bumping to 1-based.
	if line == 0 {
		if rf.Line0 != nil {
			line = *rf.Line0 + 1
		} else {
			line = 1
		}
	}
	if column == 0 {
		if rf.Column0 != nil {
			column = *rf.Column0 + 1
		} else {
			column = 1
		}
	}

	return Frame{
		Index:      index,
		Name:       name,
		Path:       path,
		Line:       line,
		Column:     column,
		SnapshotID: rf.SnapshotID,
	}
}

// parseLocationToken splits an embedded "name (path:line:col)" or
// "path:line:col" token. Missing parts come back zero-valued.
func parseLocationToken(token string) (name, path string, line, column int) {
	token = strings.TrimSpace(token)

	if open := strings.LastIndex(token, "("); open >= 0 && strings.HasSuffix(token, ")") {
		name = strings.TrimSpace(token[:open])
		token = token[open+1 : len(token)-1]
	}

	path = token
	// Peel ":col" then ":line" off the tail. Windows drive letters survive
	// because a bare one-char segment never parses as a number there.
	if i := strings.LastIndex(path, ":"); i > 0 {
		if n, err := strconv.Atoi(path[i+1:]); err == nil {
			column = n
			path = path[:i]
			if j := strings.LastIndex(path, ":"); j > 0 {
				if m, err := strconv.Atoi(path[j+1:]); err == nil {
					line = m
					path = path[:j]
				}
			}
		}
	}
	// A single trailing number is a line, not a column.
	if line == 0 && column != 0 {
		line, column = column, 0
	}
	return name, path, line, column
}

// normalizeSourcePath canonicalizes a source path for comparisons. Captures
// may carry Windows separators regardless of the platform the adapter runs
// on, so backslashes convert unconditionally.
func normalizeSourcePath(p string) string {
	return path.Clean(strings.ReplaceAll(p, `\`, "/"))
}
