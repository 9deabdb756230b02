package replay

import (
	"strings"
	"testing"
)

func scalar(v any) *Node {
	return &Node{Value: v, HasValue: true}
}

func TestPreviewScalars(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want string
	}{
		{"string", scalar("hello"), "hello"},
		{"int", scalar(int64(42)), "42"},
		{"float", scalar(3.5), "3.5"},
		{"bool", scalar(false), "false"},
		{"null", scalar(nil), "null"},
		{"nil node", nil, "null"},
		{"bare type label", &Node{Type: "Buffer"}, "Buffer"},
		{"empty node", &Node{}, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preview(tt.node); got != tt.want {
				t.Errorf("Preview = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPreviewFunctionTruncation(t *testing.T) {
	long := "function veryLongName(" + strings.Repeat("a", 100) + ") {\n  return 1\n}"
	n := &Node{Type: "function", Value: long, HasValue: true}

	got := Preview(n)
	if strings.Contains(got, "\n") {
		t.Error("function preview kept more than the first line")
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("long function preview %q lacks ellipsis", got)
	}
	if len([]rune(got)) != 81 { // 80 chars plus the marker
		t.Errorf("function preview rune length = %d, want 81", len([]rune(got)))
	}
}

func TestPreviewSparseSequenceLogicalLength(t *testing.T) {
	n := &Node{Children: []Child{
		{Name: "0", Node: scalar("a")},
		{Name: "2", Node: scalar("c")},
	}}

	got := Preview(n)
	if !strings.HasPrefix(got, "(3) [") {
		t.Errorf("sparse sequence preview = %q, want logical length 3", got)
	}
}

func TestPreviewSequenceTruncatesChildren(t *testing.T) {
	n := &Node{Children: []Child{
		{Name: "0", Node: scalar("a")},
		{Name: "1", Node: scalar("b")},
		{Name: "2", Node: scalar("c")},
		{Name: "3", Node: scalar("d")},
	}}

	got := Preview(n)
	if got != "(4) [a, b, c, …]" {
		t.Errorf("sequence preview = %q", got)
	}
}

func TestPreviewKeyed(t *testing.T) {
	n := &Node{Children: []Child{
		{Name: "host", Node: scalar("localhost")},
		{Name: "port", Node: scalar(int64(8080))},
	}}

	if got := Preview(n); got != "{ host: localhost, port: 8080 }" {
		t.Errorf("keyed preview = %q", got)
	}
}

func TestPreviewKeyedTruncation(t *testing.T) {
	n := &Node{Children: []Child{
		{Name: "a", Node: scalar(int64(1))},
		{Name: "b", Node: scalar(int64(2))},
		{Name: "c", Node: scalar(int64(3))},
		{Name: "d", Node: scalar(int64(4))},
	}}

	got := Preview(n)
	if got != "{ a: 1, b: 2, c: 3, … }" {
		t.Errorf("keyed preview = %q", got)
	}
}

func TestPreviewOneLevelDeep(t *testing.T) {
	inner := &Node{Type: "Map", Children: []Child{{Name: "k", Node: scalar("v")}}}
	anon := &Node{Children: []Child{{Name: "x", Node: scalar(int64(1))}}}
	n := &Node{Children: []Child{
		{Name: "typed", Node: inner},
		{Name: "anon", Node: anon},
	}}

	got := Preview(n)
	if got != "{ typed: Map, anon: {…} }" {
		t.Errorf("nested preview = %q, want collapsed children", got)
	}
}

func TestPreviewBoundsCycles(t *testing.T) {
	a := &Node{}
	a.Children = []Child{{Name: "self", Node: a}}

	// Must not recurse forever even though captures are assumed acyclic.
	got := Preview(a)
	if got == "" {
		t.Error("cyclic node produced empty preview")
	}
}
