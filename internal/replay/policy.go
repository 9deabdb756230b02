package replay

import (
	"fmt"

	"github.com/gobwas/glob"
)

// SkipPolicy decides whether a frame is hidden from a displayed stack.
type SkipPolicy interface {
	Skip(f Frame) bool
}

// DeemphasisPolicy decides whether a frame is shown subtly. It only affects
// presentation, never removal.
type DeemphasisPolicy interface {
	Deemphasize(f Frame) bool
}

type keepAll struct{}

func (keepAll) Skip(Frame) bool        { return false }
func (keepAll) Deemphasize(Frame) bool { return false }

// NopSkipPolicy keeps every frame.
func NopSkipPolicy() SkipPolicy { return keepAll{} }

// NopDeemphasisPolicy emphasizes every frame normally.
func NopDeemphasisPolicy() DeemphasisPolicy { return keepAll{} }

// GlobSkipPolicy skips frames whose source path matches any of a set of
// glob patterns. Frames without a source are never skipped.
type GlobSkipPolicy struct {
	globs []glob.Glob
}

// NewGlobSkipPolicy compiles the given patterns. Patterns use '/' as the
// path separator regardless of platform, matching normalized frame paths.
func NewGlobSkipPolicy(patterns []string) (*GlobSkipPolicy, error) {
	p := &GlobSkipPolicy{}
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compile skip pattern %q: %w", pattern, err)
		}
		p.globs = append(p.globs, g)
	}
	return p, nil
}

// Skip reports whether the frame's path matches a skip pattern.
func (p *GlobSkipPolicy) Skip(f Frame) bool {
	if !f.HasSource() {
		return false
	}
	for _, g := range p.globs {
		if g.Match(f.Path) {
			return true
		}
	}
	return false
}

// GlobDeemphasisPolicy deemphasizes frames whose source path matches any of
// a set of glob patterns.
type GlobDeemphasisPolicy struct {
	globs []glob.Glob
}

// NewGlobDeemphasisPolicy compiles the given patterns.
func NewGlobDeemphasisPolicy(patterns []string) (*GlobDeemphasisPolicy, error) {
	p := &GlobDeemphasisPolicy{}
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compile deemphasis pattern %q: %w", pattern, err)
		}
		p.globs = append(p.globs, g)
	}
	return p, nil
}

// Deemphasize reports whether the frame's path matches a pattern.
func (p *GlobDeemphasisPolicy) Deemphasize(f Frame) bool {
	if !f.HasSource() {
		return false
	}
	for _, g := range p.globs {
		if g.Match(f.Path) {
			return true
		}
	}
	return false
}

// FilterFrames applies a skip policy to a displayed stack. If skipping
// would remove every frame, the unfiltered list is returned instead; a
// displayed stack is never empty while the session is stopped.
func FilterFrames(frames []Frame, skip SkipPolicy) []Frame {
	if skip == nil || len(frames) == 0 {
		return frames
	}

	kept := make([]Frame, 0, len(frames))
	for _, f := range frames {
		if !skip.Skip(f) {
			kept = append(kept, f)
		}
	}
	if len(kept) == 0 {
		return frames
	}
	return kept
}
