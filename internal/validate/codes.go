// Package validate implements the Validator (spec.md section 4.5): the
// nine restriction checks that run against a draft event before it is
// appended, resolving the field's model and restrictions by walking the
// event graph rather than consulting a separate schema store.
package validate

// Error codes are the fixed vocabulary spec.md section 6 names. Every
// check below emits exactly one of these; CodeCycleDetected is reserved
// for the store's own acyclicity check and never emitted here.
const (
	CodeValueInvalid        = "VALUE_001" // DataType / Range mismatch
	CodeValueCondition      = "VALUE_002" // ValueCondition restriction failed
	CodeValueNotUnique      = "VALUE_003" // Unique / UniqueIdentifier violated
	CodeValueMultiple       = "VALUE_004" // Multiple=0 but a value already exists
	CodeValueRequired       = "VALUE_005" // Required restriction, empty value
	CodeSemanticImmutable   = "SEMANTIC_005"
	CodeSemanticDuplicate   = "SEMANTIC_006" // reserved: not emitted by any check below; see DESIGN.md
	CodeSemanticPermission  = "SEMANTIC_008"
	CodeCycleDetected       = "CycleDetected"
)

// Error is one finding against a draft event: which field it concerns,
// which restriction kind raised it, and a human-readable message.
type Error struct {
	Type    string // the restriction kind that raised this error (e.g. "Required")
	Code    string
	Message string
	Field   string
}

func (e Error) Error() string {
	return e.Code + " (" + e.Field + "): " + e.Message
}
