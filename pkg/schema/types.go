// Package schema declares the expected shape of timeline content documents.
//
// The registry is pure data: document kinds map to ordered section
// declarations, entity kinds map to ordered field declarations. Unknown kinds
// are reported by lookups, never rejected here; enforcement is the validator's
// concern.
package schema

// DocumentKind identifies one of the six content document shapes.
type DocumentKind string

const (
	DocEvents         DocumentKind = "historical_events"
	DocStatistics     DocumentKind = "statistics"
	DocCompanies      DocumentKind = "companies"
	DocSocialMedia    DocumentKind = "social_media"
	DocPolicies       DocumentKind = "policies"
	DocInfrastructure DocumentKind = "infrastructure"
)

// EntityKind identifies a record shape referenced by document sections.
type EntityKind string

const (
	EntityStatCard           EntityKind = "statCard"
	EntityHistoricalEvent    EntityKind = "historicalEvent"
	EntityYearlyStat         EntityKind = "yearlyStat"
	EntitySocialMediaProfile EntityKind = "socialMediaPlatform"
	EntityCompany            EntityKind = "company"
	EntityPolicy             EntityKind = "policy"
	EntityInfrastructure     EntityKind = "infrastructureItem"
	EntitySpecification      EntityKind = "specification"
	EntityDigitalDivide      EntityKind = "digitalDivide"
)

// FieldType is the JSON-level classification used by type checks. A slice
// classifies as TypeArray regardless of element types.
type FieldType string

const (
	TypeString FieldType = "string"
	TypeNumber FieldType = "number"
	TypeBool   FieldType = "boolean"
	TypeObject FieldType = "object"
	TypeArray  FieldType = "array"
)

// Field declares one entity field. Types with more than one entry form a
// union: a value passes if it matches any member. Entity names the element
// kind when the field is an array of records.
type Field struct {
	Name     string
	Types    []FieldType
	Required bool
	Entity   EntityKind
}

// EntitySpec is an ordered field list for one record shape. Order is
// significant: validation reports problems in declaration order.
type EntitySpec struct {
	Kind   EntityKind
	Fields []Field
}

// Field returns the declaration for name, if any.
func (s EntitySpec) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Required lists the names of required fields in declaration order.
func (s EntitySpec) Required() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// Optional lists the names of optional fields in declaration order.
func (s EntitySpec) Optional() []string {
	var names []string
	for _, f := range s.Fields {
		if !f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// Section declares one named member of a document. Type is the expected
// aggregate or scalar classification. For TypeArray sections Entity names the
// element kind. For TypeObject sections either Children lists nested section
// declarations or Entity names a record shape the object must match.
type Section struct {
	Name     string
	Type     FieldType
	Required bool
	Entity   EntityKind
	Children []Section
}

// DocSpec is the ordered section list for one document kind.
type DocSpec struct {
	Kind     DocumentKind
	Sections []Section
}
