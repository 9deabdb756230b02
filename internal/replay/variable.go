package replay

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/dshills/rewind/internal/logging"
)

// Node is one normalized variable tree node: an optional type label, an
// optional scalar value, and optional ordered named children. A node with
// neither value nor children is a bare type label.
type Node struct {
	Type     string
	Value    any
	HasValue bool
	Children []Child
}

// Child is a named child node. Order is preserved from the capture.
type Child struct {
	Name string
	Node *Node
}

// ChildByName returns the named child, or nil.
func (n *Node) ChildByName(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c.Node
		}
	}
	return nil
}

// Bundle is the normalized {locals, arguments} pair for one snapshot.
type Bundle struct {
	Locals    *Node
	Arguments *Node
}

func emptyBundle() *Bundle {
	return &Bundle{Locals: &Node{}, Arguments: &Node{}}
}

// Resolver lazily fetches and caches variable bundles per snapshot. Entries
// are populated on first access and never evicted; the working set is
// bounded by the distinct snapshots in one replay. Loader failures degrade
// to an empty bundle and are never surfaced to the caller.
type Resolver struct {
	loader VariableLoader
	hints  LookupHints
	log    *logging.Logger

	mu    sync.Mutex
	cache map[string]*Bundle
}

// NewResolver creates a resolver over the given loader. A nil logger
// disables logging.
func NewResolver(loader VariableLoader, hints LookupHints, log *logging.Logger) *Resolver {
	if log == nil {
		log = logging.Nop()
	}
	return &Resolver{
		loader: loader,
		hints:  hints,
		log:    log.WithComponent("resolver"),
		cache:  make(map[string]*Bundle),
	}
}

// Bundle returns the snapshot's variable bundle, loading it on first access.
// The loader runs at most once per snapshot identifier; a failure caches an
// empty bundle so the host sees no variables rather than an error.
func (r *Resolver) Bundle(ctx context.Context, snapshotID string) *Bundle {
	if snapshotID == "" {
		return emptyBundle()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.cache[snapshotID]; ok {
		return b
	}

	raw, err := r.loader.LoadVariables(ctx, snapshotID, r.hints)
	if err != nil {
		r.log.Warn("variable load failed for snapshot %s: %v", snapshotID, err)
		b := emptyBundle()
		r.cache[snapshotID] = b
		return b
	}

	b := &Bundle{
		Locals:    normalizeCapture(raw.Locals),
		Arguments: normalizeCapture(raw.Arguments),
	}
	r.cache[snapshotID] = b
	return b
}

// normalizeCapture normalizes one capture payload, tolerating an absent or
// unparseable document.
func normalizeCapture(raw json.RawMessage) *Node {
	if len(raw) == 0 {
		return &Node{}
	}
	if !gjson.ValidBytes(raw) {
		return &Node{}
	}
	return normalizePayload(gjson.ParseBytes(raw))
}

// normalizePayload converts one recorded payload into the uniform node
// shape. Recorded payloads are heterogeneous: direct scalars, explicit
// nulls, ordered child lists, map-entry pair lists, named-field maps, and
// {type, value} preview records.
func normalizePayload(v gjson.Result) *Node {
	switch v.Type {
	case gjson.Null:
		return &Node{Value: nil, HasValue: true}
	case gjson.String:
		return &Node{Value: coerceValue(v.String(), true, ""), HasValue: true}
	case gjson.Number:
		return &Node{Value: coerceValue(v.Raw, true, "number"), HasValue: true}
	case gjson.True:
		return &Node{Value: true, HasValue: true}
	case gjson.False:
		return &Node{Value: false, HasValue: true}
	}

	if v.IsArray() {
		return sequenceNode(v.Array())
	}
	if !v.IsObject() {
		return &Node{}
	}

	typ := v.Get("type").String()

	if entries := v.Get("entries"); entries.IsArray() {
		return entriesNode(typ, entries.Array())
	}
	if items := v.Get("items"); items.IsArray() {
		n := sequenceNode(items.Array())
		n.Type = typ
		return n
	}
	if fields := v.Get("fields"); fields.IsObject() {
		n := objectNode(fields)
		n.Type = typ
		return n
	}
	if typ != "" {
		if value := v.Get("value"); value.Exists() {
			text, present := previewText(value)
			return &Node{
				Type:     typ,
				Value:    coerceValue(text, present, typ),
				HasValue: true,
			}
		}
		// Bare type label, no preview: the type name stands in for the value.
		return &Node{Type: typ, Value: coerceValue("", false, typ), HasValue: true}
	}

	return objectNode(v)
}

// sequenceNode builds an ordered node from a child payload list.
func sequenceNode(items []gjson.Result) *Node {
	n := &Node{Children: make([]Child, 0, len(items))}
	for i, item := range items {
		n.Children = append(n.Children, Child{
			Name: strconv.Itoa(i),
			Node: normalizePayload(item),
		})
	}
	return n
}

// entriesNode builds a keyed node from a list of {key, value} map-entry
// pairs. The child name is the key payload's scalar value when present,
// else an identifying field inside a composite key, else the ordinal.
func entriesNode(typ string, entries []gjson.Result) *Node {
	n := &Node{Type: typ, Children: make([]Child, 0, len(entries))}
	for i, entry := range entries {
		name := entryKey(entry.Get("key"), i)
		n.Children = append(n.Children, Child{
			Name: name,
			Node: normalizePayload(entry.Get("value")),
		})
	}
	return n
}

func entryKey(key gjson.Result, ordinal int) string {
	switch key.Type {
	case gjson.String:
		return key.String()
	case gjson.Number, gjson.True, gjson.False:
		return key.Raw
	}
	if key.IsObject() {
		for _, field := range []string{"id", "name", "key"} {
			if f := key.Get(field); f.Exists() && !f.IsObject() && !f.IsArray() {
				return f.String()
			}
		}
	}
	return strconv.Itoa(ordinal)
}

// objectNode builds a keyed node from a plain named-field map.
func objectNode(v gjson.Result) *Node {
	n := &Node{}
	v.ForEach(func(key, value gjson.Result) bool {
		n.Children = append(n.Children, Child{
			Name: key.String(),
			Node: normalizePayload(value),
		})
		return true
	})
	return n
}

// previewText extracts a payload value's preview text. The bool reports
// whether any preview was present at all.
func previewText(v gjson.Result) (string, bool) {
	switch v.Type {
	case gjson.Null:
		return "null", true
	case gjson.String:
		return v.String(), true
	case gjson.Number, gjson.True, gjson.False:
		return v.Raw, true
	}
	if v.Exists() {
		return v.String(), true
	}
	return "", false
}

// coerceValue converts a textual preview into a typed scalar. Numeric types
// parse the text as a number, keeping the raw text on failure. Boolean
// types map the literal true/false words. The literal text "null" becomes a
// null value regardless of declared type. An absent preview falls back to
// the declared type name.
func coerceValue(text string, present bool, typ string) any {
	if !present {
		return typ
	}
	if text == "null" {
		return nil
	}

	switch typ {
	case "number", "int", "integer", "float", "double", "long":
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return f
		}
		return text
	case "boolean", "bool":
		switch text {
		case "true":
			return true
		case "false":
			return false
		}
		return text
	}
	return text
}
