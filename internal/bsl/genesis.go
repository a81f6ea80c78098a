package bsl

import (
	"fmt"
	"strings"

	"github.com/ontograph/ontograph/internal/evgraph"
	"github.com/ontograph/ontograph/internal/idgen"
)

// ParseGenesis parses the genesis (bulk system load) BSL dialect: each
// line is `[ID] Base: Type: Value {key=value, key=value}`. idPrefix and
// the count of lines parsed so far feed idgen.ContentID when a line omits its bracketed id,
// giving reproducible ids for bootstrap/thesaurus loads (spec.md section
// 4.2's `"<prefix>_<md5_8(base:type:value:index)>"` scheme).
func ParseGenesis(src, idPrefix string) Result {
	var res Result
	lines := strings.Split(src, "\n")
	index := 0
	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		d, err := parseGenesisLine(trimmed, idPrefix, index)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{Line: lineNo, Text: line, Message: err.Error()})
			continue
		}
		index++
		res.Drafts = append(res.Drafts, d)
	}
	return res
}

// parseGenesisLine accepts the documented `[ID] Base: Type: Value {...}`
// form, and — since the fixed genesis table's ids are drawn from a literal
// table while the bulk bootstrap/thesaurus loads need their ids derived
// deterministically from content (spec.md section 4.2) rather than
// authored by hand — also accepts a bracket-less `Base: Type: Value {...}`
// form, in which case the id is `idgen.ContentID(idPrefix, base, type,
// value, index)` instead of a literal.
func parseGenesisLine(line, idPrefix string, index int) (evgraph.Draft, error) {
	rest := line
	var explicitID string
	if strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return evgraph.Draft{}, fmt.Errorf("unterminated '[' id bracket")
		}
		explicitID = strings.TrimSpace(rest[1:end])
		rest = strings.TrimSpace(rest[end+1:])
	}

	meta := ""
	if brace := strings.IndexByte(rest, '{'); brace >= 0 {
		if !strings.HasSuffix(rest, "}") {
			return evgraph.Draft{}, fmt.Errorf("unterminated '{' metadata block")
		}
		meta = rest[brace+1 : len(rest)-1]
		rest = strings.TrimSpace(rest[:brace])
	}

	parts := strings.SplitN(rest, ":", 3)
	if len(parts) != 3 {
		return evgraph.Draft{}, fmt.Errorf("expected 'Base: Type: Value', got %q", rest)
	}
	base := strings.TrimSpace(parts[0])
	typ := strings.TrimSpace(parts[1])
	value := strings.TrimSpace(parts[2])
	if base == "" || typ == "" {
		return evgraph.Draft{}, fmt.Errorf("base and type must not be empty")
	}

	cause, model := parseGenesisMeta(meta)

	id := explicitID
	if id == "" {
		id = idgen.ContentID(idPrefix, base, typ, value, index)
	}
	if cause == nil {
		cause = []string{id} // self-reference default, used only for the root
	}

	return evgraph.Draft{ID: id, Base: base, Type: typ, Value: value, Cause: cause, Model: model}, nil
}

// parseGenesisMeta parses the `{key=value, key=value}` block into its two
// recognized keys: cause (comma-separated list) and model.
func parseGenesisMeta(meta string) (cause []string, model string) {
	if strings.TrimSpace(meta) == "" {
		return nil, ""
	}
	for _, pair := range strings.Split(meta, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.TrimSpace(kv[0])
		val := strings.TrimSpace(kv[1])
		switch key {
		case "cause":
			cause = splitCauseList(val)
		case "model":
			model = val
		}
	}
	return cause, model
}

func splitCauseList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
