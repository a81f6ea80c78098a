// Package genesis materializes the fixed root ontology spec.md section 4.2
// describes: on an empty store, a self-referential root event followed by
// 104 explicit-id entries covering the meta-types, data types,
// restriction kinds, system actors/roles, core relation names, and the
// schema-instruction individuals a self-describing system needs before any
// user event can be appended.
package genesis

// entry is one row of the fixed genesis table: an explicit id, the event
// fields, and a cause list (genesis entries reference each other by the
// table's own ids, never idgen-derived ones — I3's "stable, deterministic
// identifiers").
type entry struct {
	id    string
	base  string
	typ   string
	value string
	model string
	cause []string
}

// metaTypes are the vocabulary words that appear as Event.Type across the
// rest of the system (Instance, Model, Individual, ...); genesis declares
// each of them as a concept of itself, the bootstrapping step that makes
// the type system self-describing.
// Schema is declared separately (see buildTable) since it additionally
// gets the schema-instruction individuals wired to schemaSubjects.
var metaTypes = []string{
	"Instance", "Concept", "Model", "Individual", "Attribute", "Relation",
	"Role", "Restriction", "SetModel", "SetRange",
}

// dataTypes are the field DataType restriction values spec.md section 4.5
// validates against.
var dataTypes = []string{"Numeric", "Boolean", "TextType", "DateTime", "EnumType"}

// restrictionKinds are the nine-plus restriction types spec.md sections 3
// and 4.5 name (SetRange is declared via metaTypes above since it doubles
// as a structural type).
var restrictionKinds = []string{
	"Required", "DataType", "Range", "Default", "SetValue", "Condition",
	"ValueCondition", "Unique", "UniqueIdentifier", "Multiple", "Immutable",
	"Permission",
}

// systemActors are the well-known actor identities spec.md section 3 and
// evgraph.IsSystemActor reference.
var systemActors = []string{"system", "engine", "guest", "view", "genesis"}

// systemRoles are the individuals of the Role concept genesis declares so
// the Validator's Permission check (spec.md section 4.5) has an "admin"
// role to test membership against.
var systemRoles = []string{"admin", "user", "viewer"}

// coreRelations are the core relation names the schema layer uses to
// connect concepts, fields, and restrictions to one another.
var coreRelations = []string{
	"hasField", "hasRestriction", "instanceOf", "modelOf", "causes",
	"dependsOn", "partOf", "relatesTo",
}

// schemaSubjects are the meta-types that get their own schema-instruction
// individual (an Individual of the Schema concept, bound to Model Schema).
var schemaSubjects = []string{
	"Event", "Concept", "Model", "Individual", "Attribute", "Relation",
	"Role", "Restriction",
}

// buildTable constructs the genesis table deterministically. It is built
// by a small generator rather than hand-typed as ~150 literal struct
// values so the categories spec.md section 4.2 names stay traceable to
// the code that emits them; the result is still a fixed, frozen sequence
// for a given binary (no randomness, no clock).
func buildTable() []entry {
	var t []entry

	root := entry{id: "Event", base: "Event", typ: "Event", value: "Event", model: "Event", cause: []string{"Event"}}
	t = append(t, root)

	declareConcept := func(name string) {
		t = append(t, entry{id: name, base: "Concept", typ: "Instance", value: name, cause: []string{"Event"}})
	}
	declareModel := func(concept string) {
		modelID := "Model " + concept
		t = append(t, entry{id: modelID, base: concept, typ: "Model", value: modelID, cause: []string{concept}})
	}

	declareNameField := func(concept string) {
		modelID := "Model " + concept
		fieldID := "field:" + concept + ":name"
		t = append(t, entry{id: fieldID, base: concept, typ: "Attribute", value: "name", model: modelID, cause: []string{modelID}})
		t = append(t, entry{id: "req:" + fieldID, base: "name", typ: "Required", value: "1", cause: []string{fieldID}})
	}

	for _, name := range metaTypes {
		declareConcept(name)
		declareModel(name)
		declareNameField(name)
	}
	for _, name := range dataTypes {
		declareConcept(name)
	}
	for _, name := range restrictionKinds {
		declareConcept(name)
	}

	declareConcept("Actor")
	declareModel("Actor")
	declareNameField("Actor")
	for _, actor := range systemActors {
		indID := "Actor:" + actor
		t = append(t, entry{id: indID, base: "Actor", typ: "Individual", value: actor, cause: []string{"Actor"}})
		t = append(t, entry{id: indID + ":SetModel", base: actor, typ: "SetModel", value: "Model Actor", cause: []string{indID}})
	}

	for _, role := range systemRoles {
		roleID := "Role:" + role
		t = append(t, entry{id: roleID, base: "Role", typ: "Individual", value: role, cause: []string{"Role"}})
	}
	// system and engine hold the admin role so they can pass Permission
	// restrictions that require it (spec.md section 4.5, "Permission").
	for _, actor := range []string{"system", "engine"} {
		t = append(t, entry{id: "grant:" + actor + ":admin", base: actor, typ: "Role", value: "admin", cause: []string{"Role:admin"}})
	}

	for _, rel := range coreRelations {
		declareConcept(rel)
	}

	declareConcept("Schema")
	declareModel("Schema")
	declareNameField("Schema")
	for _, subject := range schemaSubjects {
		indID := "Schema:" + subject
		t = append(t, entry{id: indID, base: "Schema", typ: "Individual", value: subject + "Schema", cause: []string{subject}})
		t = append(t, entry{id: indID + ":SetModel", base: subject + "Schema", typ: "SetModel", value: "Model Schema", cause: []string{indID}})
	}

	return t
}

// Table is the frozen genesis sequence, computed once at package init.
var Table = buildTable()
