// Package evgraph defines the single universal record of the event graph:
// the Event. Every piece of knowledge the engine holds — ontology, schema,
// data, and derivations — is an Event.
package evgraph

import "strings"

// Event is the append-only record type described in spec.md section 3.
// Events are created once and never mutated.
type Event struct {
	ID      string   `json:"id"`
	Base    string   `json:"base"`
	Type    string   `json:"type"`
	Value   string   `json:"value"`
	Actor   string   `json:"actor"`
	Date    string   `json:"date"`
	Cause   []string `json:"cause"`
	Model   string   `json:"model"`
	Session string   `json:"session,omitempty"`
}

// Draft is a partial Event submitted to Store.Append. ID and Date are
// optional; the store fills them in when absent. Cause may be nil, a bare
// string, or a list — NormalizeCause folds all three shapes into a list.
type Draft struct {
	ID      string
	Base    string
	Type    string
	Value   string
	Actor   string
	Date    string
	Cause   any
	Model   string
	Session string
}

// NormalizeCause folds the dynamic cause field into a string list. nil and
// the empty string normalize to an empty list; a bare string normalizes to
// a single-element list; anything already shaped like a list of strings
// passes through as-is with empty entries dropped.
func NormalizeCause(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return []string{}
	case string:
		if v == "" {
			return []string{}
		}
		return []string{v}
	case []string:
		return compactStrings(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

func compactStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// System actor identities used throughout the genesis loader and the
// auto-chain rule (spec.md section 4.1). Only events written by system or
// genesis skip auto-chaining (see IsSystemActor); engine, guest and view
// events are chained like any other actor's.
const (
	ActorSystem  = "system"
	ActorEngine  = "engine"
	ActorGuest   = "guest"
	ActorView    = "view"
	ActorGenesis = "genesis"
)

// IsSystemActor reports whether actor is exempt from the auto-chain rule.
func IsSystemActor(actor string) bool {
	switch actor {
	case ActorSystem, ActorGenesis:
		return true
	default:
		return false
	}
}

// Structural event types that the Validator never runs restriction checks
// against (spec.md section 4.5).
var structuralTypes = map[string]bool{
	"Instance":  true,
	"Model":     true,
	"Individual": true,
	"SetModel":  true,
	"Attribute": true,
	"Relation":  true,
	"Role":      true,
}

// IsStructuralType reports whether typ is one of the kinds the Validator
// skips outright.
func IsStructuralType(typ string) bool {
	return structuralTypes[typ]
}

// Compensating-delete type spellings recognized by spec.md section 3.
var deleteTypes = map[string]bool{
	"delete":  true,
	"deleted": true,
	"Delete":  true,
}

// IsDeleteType reports whether typ marks a compensating delete/restore
// event.
func IsDeleteType(typ string) bool {
	return deleteTypes[typ]
}

// Truthy mirrors the engine-wide notion of "truthy" used for restriction
// flags (Required, Multiple, Immutable) and compensating-delete values.
func Truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "deleted", "on":
		return true
	default:
		return false
	}
}

// Falsy is the complement used when re-checking a restore event; it is not
// simply !Truthy because unrecognized strings should not restore a deleted
// individual by accident.
func Falsy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "false", "no", "", "off":
		return true
	default:
		return false
	}
}
