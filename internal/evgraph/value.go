package evgraph

import "strconv"

// Value is the tagged union used everywhere the engine needs to reason
// about an untyped event payload as something other than a raw string:
// the recalc engine's state map, the expression evaluator's operands, and
// the validator's DataType check. String is always the canonical wire
// form (spec.md section 9, "Dynamic map-shaped events").
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

// Kind discriminates the Value union.
type Kind int

const (
	KindNil Kind = iota
	KindString
	KindNumber
	KindBool
)

// Nil is the absent/unset value.
var Nil = Value{kind: KindNil}

// String wraps s as a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number wraps n as a numeric Value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n, str: formatNumber(n)} }

// Bool wraps b as a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b, str: strconv.FormatBool(b)} }

// Kind reports the Value's tag.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether v is the absent value.
func (v Value) IsNil() bool { return v.kind == KindNil }

// BoolVal returns the boolean payload (valid only when Kind()==KindBool).
func (v Value) BoolVal() bool { return v.b }

// Num returns the numeric payload (valid only when Kind()==KindNumber).
func (v Value) Num() float64 { return v.num }

func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// String renders v in its canonical string form. This is what gets written
// back to an Event's Value field.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return ""
	default:
		return v.str
	}
}

// Coerce classifies a raw string the way the Recalc Engine's state loader
// does (spec.md section 4.6 step 5): integers and floats become Numbers,
// "", "nil", and "null" become Nil, strconv.ParseBool forms such as "true"
// and "false" become Bools, everything else is a trimmed String.
func Coerce(raw string) Value {
	trimmed := trimSpace(raw)
	switch trimmed {
	case "", "nil", "null":
		return Nil
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Number(n)
	}
	if b, err := strconv.ParseBool(trimmed); err == nil {
		return Bool(b)
	}
	return String(trimmed)
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// Equal compares two values numerically when at least one side is a Number
// and both sides convert to numbers, else by comparing string forms (spec.md section 9,
// "String-based value comparisons").
func Equal(a, b Value) bool {
	if a.kind == KindNumber || b.kind == KindNumber {
		an, aok := asNumber(a)
		bn, bok := asNumber(b)
		if aok && bok {
			return an == bn
		}
	}
	return a.String() == b.String()
}

func asNumber(v Value) (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	default:
		n, err := strconv.ParseFloat(v.String(), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
}

// Compare returns -1, 0, 1 for a<b, a==b, a>b respectively, using numeric
// comparison when both sides parse as numbers and falling back to
// lexicographic string comparison otherwise.
func Compare(a, b Value) int {
	an, aok := asNumber(a)
	bn, bok := asNumber(b)
	if aok && bok {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}
	as, bs := a.String(), b.String()
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

// IsNaN reports whether v cannot be interpreted as a number — the
// evaluator's built-in isNaN(x).
func IsNaN(v Value) bool {
	_, ok := asNumber(v)
	return !ok
}
