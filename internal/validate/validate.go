package validate

import (
	"strconv"
	"strings"
	"time"

	"github.com/ontograph/ontograph/internal/evgraph"
	"github.com/ontograph/ontograph/internal/expr"
	"github.com/ontograph/ontograph/internal/store"
)

// fieldDef is a resolved Attribute/Relation event together with its
// restrictions, keyed by restriction kind (spec.md section 4.5 step 1).
type fieldDef struct {
	event        evgraph.Event
	restrictions map[string]string
}

// ValidateEvent runs the Validator against draft, a candidate event not
// yet appended to s. It is skipped entirely for system/genesis actors and
// for structural types (spec.md section 4.5); otherwise every check runs
// and all failures are accumulated, never short-circuited. A draft whose
// field definition cannot be resolved (no matching model/field in the
// graph) has nothing to check against and passes trivially.
func ValidateEvent(s *store.Store, draft evgraph.Draft) []Error {
	if evgraph.IsSystemActor(draft.Actor) || evgraph.IsStructuralType(draft.Type) {
		return nil
	}

	field, ok := resolveField(s, draft)
	if !ok {
		return nil
	}

	var errs []Error
	checkRequired(&errs, draft, field)
	checkDataType(&errs, draft, field)
	checkRange(s, &errs, draft, field)
	checkValueCondition(s, &errs, draft, field)
	checkUnique(s, &errs, draft, field)
	checkUniqueIdentifier(s, &errs, draft, field)
	checkMultiple(s, &errs, draft, field)
	checkImmutable(s, &errs, draft, field)
	checkPermission(s, &errs, draft, field)
	return errs
}

func resolveModel(s *store.Store, modelName string) (evgraph.Event, bool) {
	for _, ev := range s.List(store.Filter{Type: "Model"}) {
		if ev.Value == modelName {
			return ev, true
		}
	}
	return evgraph.Event{}, false
}

// modelFields returns the Attribute/Relation events whose cause list
// contains modelID, i.e. the fields declared for that model.
func modelFields(s *store.Store, modelID string) []evgraph.Event {
	var fields []evgraph.Event
	for _, typ := range [...]string{"Attribute", "Relation"} {
		for _, ev := range s.List(store.Filter{Type: typ}) {
			if containsID(ev.Cause, modelID) {
				fields = append(fields, ev)
			}
		}
	}
	return fields
}

// fieldRestrictions returns the latest restriction event per kind whose
// cause list contains fieldID.
func fieldRestrictions(s *store.Store, fieldID string) map[string]string {
	out := make(map[string]string)
	latestDate := make(map[string]string)
	for _, ev := range s.List(store.Filter{}) {
		if !containsID(ev.Cause, fieldID) {
			continue
		}
		if d, ok := latestDate[ev.Type]; ok && d >= ev.Date {
			continue
		}
		out[ev.Type] = ev.Value
		latestDate[ev.Type] = ev.Date
	}
	return out
}

func resolveField(s *store.Store, d evgraph.Draft) (fieldDef, bool) {
	modelEv, ok := resolveModel(s, d.Model)
	if !ok {
		return fieldDef{}, false
	}
	for _, f := range modelFields(s, modelEv.ID) {
		if f.Value == d.Type {
			return fieldDef{event: f, restrictions: fieldRestrictions(s, f.ID)}, true
		}
	}
	return fieldDef{}, false
}

// individualState builds the {fieldName -> value} map the expression
// language's `$.field` references resolve against, from the latest
// property event per field of the individual's model.
func individualState(s *store.Store, base string, modelEv evgraph.Event) map[string]string {
	state := make(map[string]string)
	for _, f := range modelFields(s, modelEv.ID) {
		if ev, ok := s.Latest(base, f.Value); ok {
			state[f.Value] = ev.Value
		}
	}
	return state
}

func containsID(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func checkRequired(errs *[]Error, d evgraph.Draft, f fieldDef) {
	v, ok := f.restrictions["Required"]
	if !ok || !evgraph.Truthy(v) {
		return
	}
	if strings.TrimSpace(d.Value) == "" {
		*errs = append(*errs, Error{Type: "Required", Code: CodeValueRequired, Field: d.Type, Message: "value is required"})
	}
}

func checkDataType(errs *[]Error, d evgraph.Draft, f fieldDef) {
	dt, ok := f.restrictions["DataType"]
	if !ok || d.Value == "" {
		return
	}
	switch dt {
	case "Numeric":
		if _, err := strconv.ParseFloat(strings.TrimSpace(d.Value), 64); err != nil {
			*errs = append(*errs, Error{Type: "DataType", Code: CodeValueInvalid, Field: d.Type, Message: "value is not numeric"})
		}
	case "Boolean":
		if !evgraph.Truthy(d.Value) && !evgraph.Falsy(d.Value) {
			*errs = append(*errs, Error{Type: "DataType", Code: CodeValueInvalid, Field: d.Type, Message: "value is not a recognized boolean"})
		}
	case "DateTime":
		if !isISO8601(d.Value) {
			*errs = append(*errs, Error{Type: "DataType", Code: CodeValueInvalid, Field: d.Type, Message: "value is not an ISO-8601 date or date-time"})
		}
	case "EnumType":
		// Bypassed here; enum membership is validated by the Range check.
	}
}

func isISO8601(s string) bool {
	for _, layout := range [...]string{time.RFC3339, time.RFC3339Nano, "2006-01-02"} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func checkRange(s *store.Store, errs *[]Error, d evgraph.Draft, f fieldDef) {
	concept, ok := f.restrictions["Range"]
	if !ok || d.Value == "" {
		return
	}
	for _, ev := range s.List(store.Filter{Type: "Individual", Base: concept}) {
		if ev.Value == d.Value {
			return
		}
	}
	*errs = append(*errs, Error{Type: "Range", Code: CodeValueInvalid, Field: d.Type, Message: "value is not an individual of " + concept})
}

func checkValueCondition(s *store.Store, errs *[]Error, d evgraph.Draft, f fieldDef) {
	cond, ok := f.restrictions["ValueCondition"]
	if !ok {
		return
	}
	modelEv, _ := resolveModel(s, d.Model)
	ctx := expr.Context{
		State:             individualState(s, d.Base, modelEv),
		Value:             d.Value,
		CurrentActor:      d.Actor,
		CurrentIndividual: d.Base,
	}
	truthy, err := expr.EvalBool(cond, ctx)
	if err != nil || !truthy {
		*errs = append(*errs, Error{Type: "ValueCondition", Code: CodeValueCondition, Field: d.Type, Message: "value condition not satisfied"})
	}
}

func checkUnique(s *store.Store, errs *[]Error, d evgraph.Draft, f fieldDef) {
	if _, ok := f.restrictions["Unique"]; !ok {
		return
	}
	concept := f.event.Base
	for _, ind := range s.List(store.Filter{Type: "Individual", Base: concept}) {
		if ind.Value == d.Base {
			continue
		}
		if ev, ok := s.Latest(ind.Value, d.Type); ok && ev.Value == d.Value {
			*errs = append(*errs, Error{Type: "Unique", Code: CodeValueNotUnique, Field: d.Type, Message: "value is not unique within " + concept})
			return
		}
	}
}

func checkUniqueIdentifier(s *store.Store, errs *[]Error, d evgraph.Draft, f fieldDef) {
	if _, ok := f.restrictions["UniqueIdentifier"]; !ok {
		return
	}
	seen := make(map[string]bool)
	for _, ev := range s.List(store.Filter{Type: d.Type}) {
		if ev.Base == d.Base || seen[ev.Base] {
			continue
		}
		seen[ev.Base] = true
		if latest, ok := s.Latest(ev.Base, d.Type); ok && latest.Value == d.Value {
			*errs = append(*errs, Error{Type: "UniqueIdentifier", Code: CodeValueNotUnique, Field: d.Type, Message: "value is not globally unique"})
			return
		}
	}
}

func checkMultiple(s *store.Store, errs *[]Error, d evgraph.Draft, f fieldDef) {
	v, ok := f.restrictions["Multiple"]
	if !ok || !evgraph.Falsy(v) {
		return
	}
	if _, ok := s.Latest(d.Base, d.Type); ok {
		*errs = append(*errs, Error{Type: "Multiple", Code: CodeValueMultiple, Field: d.Type, Message: "field already has a value and does not allow multiple"})
	}
}

func checkImmutable(s *store.Store, errs *[]Error, d evgraph.Draft, f fieldDef) {
	v, ok := f.restrictions["Immutable"]
	if !ok || !evgraph.Truthy(v) {
		return
	}
	if _, ok := s.Latest(d.Base, d.Type); ok {
		*errs = append(*errs, Error{Type: "Immutable", Code: CodeSemanticImmutable, Field: d.Type, Message: "field is immutable once set"})
	}
}

func checkPermission(s *store.Store, errs *[]Error, d evgraph.Draft, f fieldDef) {
	whitelist, ok := f.restrictions["Permission"]
	if !ok {
		return
	}
	for _, actor := range strings.Split(whitelist, ",") {
		if strings.TrimSpace(actor) == d.Actor {
			return
		}
	}
	for _, ev := range s.List(store.Filter{Type: "Role", Base: d.Actor}) {
		if ev.Value == "admin" {
			return
		}
	}
	*errs = append(*errs, Error{Type: "Permission", Code: CodeSemanticPermission, Field: d.Type, Message: "actor " + d.Actor + " is not permitted to set this field"})
}
