package replay

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	previewMaxChildren = 3
	previewMaxScalar   = 80
	previewEllipsis    = "…"
)

// Preview renders a single-line display string for a node, expanding one
// level of children. Grandchildren never render inline; they collapse to a
// type label or a bracket placeholder and are only reachable through an
// explicit expansion query.
func Preview(n *Node) string {
	return previewNode(n, map[*Node]struct{}{}, false)
}

// previewNode renders one node. Captured object graphs are assumed acyclic
// but the visited set bounds recursion in case one is not. nested marks a
// child position, where containers collapse instead of expanding.
func previewNode(n *Node, visited map[*Node]struct{}, nested bool) string {
	if n == nil {
		return "null"
	}
	if _, ok := visited[n]; ok {
		return previewEllipsis
	}
	visited[n] = struct{}{}
	defer delete(visited, n)

	if len(n.Children) > 0 {
		if nested {
			return collapsedContainer(n)
		}
		if isSequence(n) {
			return previewSequence(n, visited)
		}
		return previewKeyed(n, visited)
	}

	if n.HasValue {
		return previewScalar(n)
	}

	// Bare type label.
	if n.Type != "" {
		return n.Type
	}
	return "unknown"
}

// previewScalar renders a scalar value. Function source text keeps only its
// first line, capped at 80 characters.
func previewScalar(n *Node) string {
	if n.Value == nil {
		return "null"
	}

	var text string
	switch v := n.Value.(type) {
	case string:
		text = v
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}

	if n.Type == "function" {
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = text[:i]
		}
		if runes := []rune(text); len(runes) > previewMaxScalar {
			text = string(runes[:previewMaxScalar]) + previewEllipsis
		}
	}
	return text
}

// isSequence reports whether every child key is a decimal numeral.
func isSequence(n *Node) bool {
	for _, c := range n.Children {
		if _, err := strconv.Atoi(c.Name); err != nil {
			return false
		}
	}
	return len(n.Children) > 0
}

// previewSequence renders `(<length>) [a, b, c, …]`. Length is one more
// than the maximum numeric key, so a sparse child set reports the logical
// length rather than the count of present entries.
func previewSequence(n *Node, visited map[*Node]struct{}) string {
	length := 0
	for _, c := range n.Children {
		if idx, err := strconv.Atoi(c.Name); err == nil && idx+1 > length {
			length = idx + 1
		}
	}

	var parts []string
	for i, c := range n.Children {
		if i == previewMaxChildren {
			parts = append(parts, previewEllipsis)
			break
		}
		parts = append(parts, previewNode(c.Node, visited, true))
	}
	return fmt.Sprintf("(%d) [%s]", length, strings.Join(parts, ", "))
}

// previewKeyed renders `{ k: v, k: v, … }` with at most 3 entries.
func previewKeyed(n *Node, visited map[*Node]struct{}) string {
	var parts []string
	for i, c := range n.Children {
		if i == previewMaxChildren {
			parts = append(parts, previewEllipsis)
			break
		}
		parts = append(parts, fmt.Sprintf("%s: %s", c.Name, previewNode(c.Node, visited, true)))
	}
	return fmt.Sprintf("{ %s }", strings.Join(parts, ", "))
}

// collapsedContainer renders a child container without expanding it.
func collapsedContainer(n *Node) string {
	if n.Type != "" {
		return n.Type
	}
	if isSequence(n) {
		return "[" + previewEllipsis + "]"
	}
	return "{" + previewEllipsis + "}"
}
