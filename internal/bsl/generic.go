package bsl

import (
	"fmt"
	"strings"

	"github.com/ontograph/ontograph/internal/evgraph"
	"github.com/ontograph/ontograph/internal/idgen"
)

// stackEntry records, for one nesting level, the id of the event written at
// that level and the "introduced name" children at the next level inherit
// as their base.
type stackEntry struct {
	id        string
	introduce string
}

// genericState carries parser state across lines of a generic-dialect
// document: the per-level parent stack, and the running lookup tables the
// spec's cause-inference rules consult.
type genericState struct {
	stack []stackEntry // index N == level N; shrinks when a shallower line invalidates deeper levels

	conceptInstanceID map[string]string // concept name -> its "base=Concept,type=Instance" event id
	individualID      map[string]string // individual name (event Value) -> its Individual event id
	setModelID        map[string]string // individual name -> most recent SetModel event id
	individualModel   map[string]string // individual name -> bound model name
}

func newGenericState() *genericState {
	return &genericState{
		conceptInstanceID: make(map[string]string),
		individualID:      make(map[string]string),
		setModelID:        make(map[string]string),
		individualModel:   make(map[string]string),
	}
}

// ParseGeneric parses the generic (user-input) BSL dialect described by
// spec.md section 4.3: leading colons for nesting depth, at most three
// colon-separated parts per line, type inference at the root, and a per-
// level parent stack for cause chaining.
func ParseGeneric(src string) Result {
	st := newGenericState()
	var res Result

	lines := strings.Split(src, "\n")
	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		depth := 0
		for depth < len(line) && line[depth] == ':' {
			depth++
		}
		rest := line[depth:]
		parts := splitParts(rest, 3)

		draft, introduce, err := st.parseLine(depth, parts)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{Line: lineNo, Text: line, Message: err.Error()})
			continue
		}

		draft.ID = idgen.Fresh()
		res.Drafts = append(res.Drafts, draft)

		st.updateTables(draft)

		entry := stackEntry{id: draft.ID, introduce: introduce}
		if depth < len(st.stack) {
			st.stack = st.stack[:depth]
		}
		st.stack = append(st.stack, entry)
	}

	return res
}

func splitParts(s string, max int) []string {
	raw := strings.SplitN(s, ":", max)
	out := make([]string, len(raw))
	for i, p := range raw {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// parseLine produces the draft for one logical line plus the "introduced
// name" its children (if any) should inherit as their base.
func (st *genericState) parseLine(depth int, parts []string) (evgraph.Draft, string, error) {
	if depth == 0 {
		return st.parseRoot(parts)
	}
	return st.parseNested(depth, parts)
}

func (st *genericState) parseRoot(parts []string) (evgraph.Draft, string, error) {
	var base, typ, value string
	switch len(parts) {
	case 3:
		base, typ, value = parts[0], parts[1], parts[2]
	case 2:
		base, value = parts[0], parts[1]
		typ = inferRootType(value)
	default:
		return evgraph.Draft{}, "", fmt.Errorf("expected 'Base: Type: Value' or 'Base: Value', got %d part(s)", len(parts))
	}
	if base == "" || value == "" {
		return evgraph.Draft{}, "", fmt.Errorf("base and value must not be empty")
	}

	d := evgraph.Draft{Base: base, Type: typ, Value: value}
	st.inferRootCause(&d)
	return d, introducedName(d), nil
}

func (st *genericState) parseNested(depth int, parts []string) (evgraph.Draft, string, error) {
	if len(parts) != 2 {
		return evgraph.Draft{}, "", fmt.Errorf("nested line must be 'Type: Value', got %d part(s)", len(parts))
	}
	typ, value := parts[0], parts[1]
	if typ == "" || value == "" {
		return evgraph.Draft{}, "", fmt.Errorf("type and value must not be empty")
	}
	parentLevel := depth - 1
	if parentLevel >= len(st.stack) {
		return evgraph.Draft{}, "", fmt.Errorf("nesting depth %d has no enclosing parent at level %d", depth, parentLevel)
	}
	parent := st.stack[parentLevel]

	d := evgraph.Draft{Base: parent.introduce, Type: typ, Value: value, Cause: parent.id}
	if typ != "SetModel" {
		if model, ok := st.individualModel[parent.introduce]; ok {
			d.Model = model
		}
	}
	return d, introducedName(d), nil
}

// inferRootType applies spec.md section 4.3's root type-inference rule.
func inferRootType(value string) string {
	if strings.HasPrefix(value, "Model ") {
		return "Model"
	}
	if r := rune(value[0]); (r >= 'a' && r <= 'z') || r == '_' {
		return "Individual"
	}
	return "Instance"
}

// introducedName is what a child at the next level inherits as its base:
// the concept for a Model line, the field name for an Attribute/Relation
// line, the declared name for an Instance line, the individual's own name
// for an Individual line, and otherwise
// the event's own base (the S2 scenario's worked example: a Model event's
// children inherit its Base; an Attribute event's children inherit its
// Value, since the Attribute's Base is the owning concept, not the field).
func introducedName(d evgraph.Draft) string {
	switch d.Type {
	case "Attribute", "Relation", "Instance", "Individual":
		return d.Value
	default:
		return d.Base
	}
}

// inferRootCause fills in d.Cause for the two root-level event kinds the
// spec gives an explicit cause-inference rule for: Individual events and
// property events. Model/Instance/SetModel root declarations get no
// inferred cause (left for the store's own actor auto-chain, if any).
func (st *genericState) inferRootCause(d *evgraph.Draft) {
	switch d.Type {
	case "Individual":
		if id, ok := st.conceptInstanceID[d.Base]; ok {
			d.Cause = id
		} else {
			d.Cause = "Concept"
		}
	case "Model", "Instance", "SetModel":
		// no inferred cause
	default:
		// property event: base is the individual's own name
		if id, ok := st.setModelID[d.Base]; ok {
			d.Cause = id
		} else if id, ok := st.individualID[d.Base]; ok {
			d.Cause = id
		}
		if model, ok := st.individualModel[d.Base]; ok {
			d.Model = model
		}
	}
}

// updateTables records the bookkeeping a just-emitted draft contributes to
// future cause-inference and model lookups.
func (st *genericState) updateTables(d evgraph.Draft) {
	switch d.Type {
	case "Instance":
		if d.Base == "Concept" {
			st.conceptInstanceID[d.Value] = d.ID
		}
	case "Individual":
		st.individualID[d.Value] = d.ID
	case "SetModel":
		st.setModelID[d.Base] = d.ID
		st.individualModel[d.Base] = d.Value
	}
}
