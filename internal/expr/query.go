package expr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ontograph/ontograph/internal/store"
)

// Condition is a single graph-query predicate, evaluated against every
// event recorded for a candidate individual base.
type Condition interface {
	matches(s *store.Store, base string) bool
}

type eqBase struct{ value string }
type eqModel struct{ value string }
type eqActor struct{ value string }
type eqField struct{ field, value string }
type neField struct{ field, value string }
type cmpField struct {
	field string
	op    string // > < >= <=
	value float64
}
type orCond struct{ conds []Condition }

// matches reports whether base belongs to the named concept: some event
// recorded against it carries Model == "Model <value>". ($EQ.$Base("Person")
// selects individuals of the Person concept, not events whose literal Base
// field equals "Person" — an individual's own Base is its own name, so a
// literal reading would only ever match the concept's own Instance event.)
func (c eqBase) matches(s *store.Store, base string) bool {
	want := "Model " + c.value
	for _, ev := range s.List(store.Filter{Base: base}) {
		if ev.Model == want {
			return true
		}
	}
	return false
}

func (c eqModel) matches(s *store.Store, base string) bool {
	for _, ev := range s.List(store.Filter{Base: base}) {
		if ev.Model == c.value {
			return true
		}
	}
	return false
}

func (c eqActor) matches(s *store.Store, base string) bool {
	for _, ev := range s.List(store.Filter{Base: base}) {
		if ev.Actor == c.value {
			return true
		}
	}
	return false
}

func (c eqField) matches(s *store.Store, base string) bool {
	latest, ok := s.Latest(base, c.field)
	return ok && latest.Value == c.value
}

func (c neField) matches(s *store.Store, base string) bool {
	latest, ok := s.Latest(base, c.field)
	return !ok || latest.Value != c.value
}

func (c cmpField) matches(s *store.Store, base string) bool {
	latest, ok := s.Latest(base, c.field)
	if !ok {
		return false
	}
	v := coerceNumber(latest.Value)
	switch c.op {
	case ">":
		return v > c.value
	case "<":
		return v < c.value
	case ">=":
		return v >= c.value
	case "<=":
		return v <= c.value
	default:
		return false
	}
}

func (c orCond) matches(s *store.Store, base string) bool {
	for _, sub := range c.conds {
		if sub.matches(s, base) {
			return true
		}
	}
	return false
}

func coerceNumber(s string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return n
}

// Query is a parsed graph query: a conjunction of Conditions plus an
// optional accessor chain ([n] and/or .prop), as described by spec.md
// section 4.4b.
type Query struct {
	Conds []Condition
	Index *int
	Prop  string
}

// queryScanner is a minimal hand-rolled scanner over the query syntax,
// which is distinct enough from the expression language (mixed "$EQ.$Base"
// tokens) that it is not worth forcing through the same Lexer.
type queryScanner struct {
	src string
	pos int
}

func (q *queryScanner) peek() byte {
	if q.pos >= len(q.src) {
		return 0
	}
	return q.src[q.pos]
}

func (q *queryScanner) skipSpace() {
	for q.pos < len(q.src) && (q.src[q.pos] == ' ' || q.src[q.pos] == '\t' || q.src[q.pos] == '\n') {
		q.pos++
	}
}

func (q *queryScanner) expect(b byte) error {
	q.skipSpace()
	if q.peek() != b {
		return fmt.Errorf("expected %q at position %d in %q", b, q.pos, q.src)
	}
	q.pos++
	return nil
}

// readBareword reads letters, digits and underscore; it stops at a dot, so
// `$EQ.age` yields "EQ" and then the field name as separate barewords.
func (q *queryScanner) readBareword() string {
	start := q.pos
	for q.pos < len(q.src) {
		c := q.src[q.pos]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			q.pos++
			continue
		}
		break
	}
	return q.src[start:q.pos]
}

func (q *queryScanner) readQuotedString() (string, error) {
	if err := q.expect('"'); err != nil {
		return "", err
	}
	start := q.pos
	for q.pos < len(q.src) && q.src[q.pos] != '"' {
		q.pos++
	}
	if q.pos >= len(q.src) {
		return "", fmt.Errorf("unterminated string in query %q", q.src)
	}
	val := q.src[start:q.pos]
	q.pos++ // closing quote
	return val, nil
}

func (q *queryScanner) readNumber() (float64, error) {
	start := q.pos
	if q.peek() == '-' {
		q.pos++
	}
	for q.pos < len(q.src) && (isDigitByte(q.src[q.pos]) || q.src[q.pos] == '.') {
		q.pos++
	}
	return strconv.ParseFloat(q.src[start:q.pos], 64)
}

func isDigitByte(c byte) bool { return c >= '0' && c <= '9' }

// ParseQuery parses a graph query of the shape
// $(cond, cond, ...)[n].prop, where [n] and .prop are each optional.
func ParseQuery(src string) (*Query, error) {
	q := &queryScanner{src: src}
	q.skipSpace()
	if err := q.expect('$'); err != nil {
		return nil, err
	}
	if err := q.expect('('); err != nil {
		return nil, err
	}
	var conds []Condition
	for {
		q.skipSpace()
		if q.peek() == ')' {
			break
		}
		c, err := q.parseCondition()
		if err != nil {
			return nil, err
		}
		conds = append(conds, c)
		q.skipSpace()
		if q.peek() == ',' {
			q.pos++
			continue
		}
		break
	}
	if err := q.expect(')'); err != nil {
		return nil, err
	}

	query := &Query{Conds: conds}

	q.skipSpace()
	if q.peek() == '[' {
		q.pos++
		n, err := q.readNumber()
		if err != nil {
			return nil, fmt.Errorf("bad index in query %q: %w", src, err)
		}
		if err := q.expect(']'); err != nil {
			return nil, err
		}
		idx := int(n)
		query.Index = &idx
	}

	q.skipSpace()
	if q.peek() == '.' {
		q.pos++
		query.Prop = q.readBareword()
		if query.Prop == "" {
			return nil, fmt.Errorf("expected property name after '.' in query %q", src)
		}
	}

	return query, nil
}

// parseCondition parses one of $EQ.$Base("X"), $EQ.field("v"), $GT.field(n),
// $OR(cond, ...), and the other condition forms spec.md section 4.4b names.
func (q *queryScanner) parseCondition() (Condition, error) {
	if err := q.expect('$'); err != nil {
		return nil, err
	}
	name := q.readBareword()

	switch name {
	case "OR":
		if err := q.expect('('); err != nil {
			return nil, err
		}
		var subs []Condition
		for {
			q.skipSpace()
			if q.peek() == ')' {
				break
			}
			sub, err := q.parseCondition()
			if err != nil {
				return nil, err
			}
			subs = append(subs, sub)
			q.skipSpace()
			if q.peek() == ',' {
				q.pos++
				continue
			}
			break
		}
		if err := q.expect(')'); err != nil {
			return nil, err
		}
		return orCond{conds: subs}, nil

	case "EQ", "NE", "GT", "LT", "GE", "LE":
		if err := q.expect('.'); err != nil {
			return nil, err
		}
		q.skipSpace()
		isSpecialTarget := q.peek() == '$'
		var target string
		if isSpecialTarget {
			q.pos++ // consume '$'
			target = "$" + q.readBareword()
		} else {
			target = q.readBareword()
		}
		if err := q.expect('('); err != nil {
			return nil, err
		}
		q.skipSpace()

		var cond Condition
		if q.peek() == '"' {
			val, err := q.readQuotedString()
			if err != nil {
				return nil, err
			}
			switch {
			case name == "EQ" && target == "$Base":
				cond = eqBase{value: val}
			case name == "EQ" && target == "$Model":
				cond = eqModel{value: val}
			case name == "EQ" && target == "$Actor":
				cond = eqActor{value: val}
			case name == "EQ":
				cond = eqField{field: target, value: val}
			case name == "NE":
				cond = neField{field: target, value: val}
			default:
				return nil, fmt.Errorf("operator %s does not accept a string literal", name)
			}
		} else {
			n, err := q.readNumber()
			if err != nil {
				return nil, fmt.Errorf("bad numeric literal for %s.%s: %w", name, target, err)
			}
			switch name {
			case "GT", "LT", "GE", "LE":
				cond = cmpField{field: target, op: opSymbol(name), value: n}
			case "EQ":
				cond = eqField{field: target, value: formatNum(n)}
			case "NE":
				cond = neField{field: target, value: formatNum(n)}
			default:
				return nil, fmt.Errorf("operator %s does not accept a numeric literal", name)
			}
		}
		q.skipSpace()
		if err := q.expect(')'); err != nil {
			return nil, err
		}
		return cond, nil

	default:
		return nil, fmt.Errorf("unknown condition operator %q", name)
	}
}

func opSymbol(name string) string {
	switch name {
	case "GT":
		return ">"
	case "LT":
		return "<"
	case "GE":
		return ">="
	case "LE":
		return "<="
	default:
		return ""
	}
}

func formatNum(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// candidateBases returns every distinct individual the store has recorded
// an Individual event for (the event's Value; its Base is the concept),
// excluding those currently marked deleted
// (spec.md section 4.4b, "Deleted individuals ... are excluded").
func candidateBases(s *store.Store) []string {
	seen := make(map[string]bool)
	var out []string
	for _, ev := range s.List(store.Filter{Type: "Individual"}) {
		if seen[ev.Value] || s.IsDeleted(ev.Value) {
			continue
		}
		seen[ev.Value] = true
		out = append(out, ev.Value)
	}
	return out
}

// Run evaluates the query against s and returns the list of individual
// bases satisfying every condition, in discovery order.
func (q *Query) Run(s *store.Store) []string {
	var out []string
	for _, base := range candidateBases(s) {
		matched := true
		for _, c := range q.Conds {
			if !c.matches(s, base) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, base)
		}
	}
	return out
}

// Resolve runs the query and applies its accessor chain, returning either
// a list of bases/values or, when an index was present, a single value
// ("scalar" reports true in that case).
func (q *Query) Resolve(s *store.Store) (values []string, scalar bool, err error) {
	bases := q.Run(s)

	if q.Index != nil {
		idx := *q.Index
		if idx < 0 {
			idx += len(bases)
		}
		if idx < 0 || idx >= len(bases) {
			return nil, false, fmt.Errorf("query index %d out of range (0..%d)", *q.Index, len(bases)-1)
		}
		bases = []string{bases[idx]}
		scalar = true
	}

	if q.Prop == "" {
		return bases, scalar, nil
	}

	resolved := make([]string, 0, len(bases))
	for _, base := range bases {
		latest, ok := s.Latest(base, q.Prop)
		if !ok {
			continue
		}
		resolved = append(resolved, latest.Value)
	}
	return resolved, scalar, nil
}
