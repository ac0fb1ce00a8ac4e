package schema

import (
	"fmt"
	"sort"
	"sync"
)

// Registry stores document and entity shape declarations, providing lookup
// and duplication safeguards. The zero value is not usable; construct with
// NewRegistry or Default.
type Registry struct {
	mu       sync.RWMutex
	docs     map[DocumentKind]DocSpec
	entities map[EntityKind]EntitySpec
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		docs:     make(map[DocumentKind]DocSpec),
		entities: make(map[EntityKind]EntitySpec),
	}
}

// RegisterDocument adds a document spec. Duplicate kinds return an error.
func (r *Registry) RegisterDocument(spec DocSpec) error {
	if spec.Kind == "" {
		return fmt.Errorf("schema: document kind is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.docs[spec.Kind]; exists {
		return fmt.Errorf("schema: document %q already registered", spec.Kind)
	}

	r.docs[spec.Kind] = spec
	return nil
}

// RegisterEntity adds an entity spec. Duplicate kinds return an error.
func (r *Registry) RegisterEntity(spec EntitySpec) error {
	if spec.Kind == "" {
		return fmt.Errorf("schema: entity kind is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entities[spec.Kind]; exists {
		return fmt.Errorf("schema: entity %q already registered", spec.Kind)
	}

	r.entities[spec.Kind] = spec
	return nil
}

// MustRegisterDocument panics on registration failure. Useful for init-time
// wiring.
func (r *Registry) MustRegisterDocument(spec DocSpec) {
	if err := r.RegisterDocument(spec); err != nil {
		panic(err)
	}
}

// MustRegisterEntity panics on registration failure.
func (r *Registry) MustRegisterEntity(spec EntitySpec) {
	if err := r.RegisterEntity(spec); err != nil {
		panic(err)
	}
}

// Document retrieves the spec for a document kind.
func (r *Registry) Document(kind DocumentKind) (DocSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, ok := r.docs[kind]
	return spec, ok
}

// Entity retrieves the spec for an entity kind.
func (r *Registry) Entity(kind EntityKind) (EntitySpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, ok := r.entities[kind]
	return spec, ok
}

// DocumentKinds returns the registered document kinds, sorted.
func (r *Registry) DocumentKinds() []DocumentKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]DocumentKind, 0, len(r.docs))
	for kind := range r.docs {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// KindForKey maps a collection key (filename stem) to its document kind.
func KindForKey(key string) (DocumentKind, bool) {
	switch DocumentKind(key) {
	case DocEvents, DocStatistics, DocCompanies, DocSocialMedia, DocPolicies, DocInfrastructure:
		return DocumentKind(key), true
	}
	return "", false
}

func str(name string, required bool) Field {
	return Field{Name: name, Types: []FieldType{TypeString}, Required: required}
}

func strOrNum(name string, required bool) Field {
	return Field{Name: name, Types: []FieldType{TypeString, TypeNumber}, Required: required}
}

// Default returns the registry for the six timeline document kinds.
func Default() *Registry {
	r := NewRegistry()

	r.MustRegisterEntity(EntitySpec{Kind: EntityStatCard, Fields: []Field{
		str("icon", true),
		str("title", true),
		str("value", true),
		str("description", true),
	}})
	r.MustRegisterEntity(EntitySpec{Kind: EntityHistoricalEvent, Fields: []Field{
		str("date", true),
		str("title", true),
		str("description", true),
		str("impact", false),
	}})
	r.MustRegisterEntity(EntitySpec{Kind: EntityYearlyStat, Fields: []Field{
		str("year", true),
		str("users", true),
		str("penetration", true),
	}})
	r.MustRegisterEntity(EntitySpec{Kind: EntitySocialMediaProfile, Fields: []Field{
		str("platform", true),
		strOrNum("users", true),
		strOrNum("peakUsers", false),
		strOrNum("penetration", false),
		strOrNum("ranking", false),
		str("note", false),
		str("status", false),
	}})
	r.MustRegisterEntity(EntitySpec{Kind: EntityCompany, Fields: []Field{
		str("name", true),
		strOrNum("marketShare", true),
		strOrNum("subscribers", true),
		strOrNum("founded", false),
		str("keyMilestone", false),
	}})
	r.MustRegisterEntity(EntitySpec{Kind: EntityPolicy, Fields: []Field{
		str("title", true),
		strOrNum("year", true),
		str("target", true),
		str("achievement", true),
	}})
	r.MustRegisterEntity(EntitySpec{Kind: EntityInfrastructure, Fields: []Field{
		str("name", true),
		str("icon", true),
		{Name: "specifications", Types: []FieldType{TypeArray}, Required: true, Entity: EntitySpecification},
	}})
	r.MustRegisterEntity(EntitySpec{Kind: EntitySpecification, Fields: []Field{
		str("label", true),
		str("value", true),
	}})
	r.MustRegisterEntity(EntitySpec{Kind: EntityDigitalDivide, Fields: []Field{
		strOrNum("urban", true),
		strOrNum("rural", true),
		str("note", false),
	}})

	r.MustRegisterDocument(DocSpec{Kind: DocEvents, Sections: []Section{
		{Name: "heroStats", Type: TypeArray, Required: true, Entity: EntityStatCard},
		{Name: "foundationEra", Type: TypeObject, Required: true, Children: []Section{
			{Name: "events", Type: TypeArray, Required: true, Entity: EntityHistoricalEvent},
			{Name: "yearlyStats", Type: TypeArray, Required: true, Entity: EntityYearlyStat},
		}},
		{Name: "mobileEra", Type: TypeObject, Required: true, Children: []Section{
			{Name: "events", Type: TypeArray, Required: true, Entity: EntityHistoricalEvent},
			{Name: "socialMediaGrowth", Type: TypeArray, Required: true, Entity: EntitySocialMediaProfile},
		}},
		{Name: "fintechEra", Type: TypeObject, Required: true, Children: []Section{
			{Name: "events", Type: TypeArray, Required: true, Entity: EntityHistoricalEvent},
			{Name: "mobileBanking", Type: TypeArray, Required: true, Entity: EntityCompany},
			{Name: "investmentBoom", Type: TypeArray, Required: true, Entity: EntityStatCard},
		}},
	}})
	r.MustRegisterDocument(DocSpec{Kind: DocStatistics, Sections: []Section{
		{Name: "internetUsers", Type: TypeArray, Required: true, Entity: EntityYearlyStat},
		{Name: "digitalDivide", Type: TypeObject, Required: false, Entity: EntityDigitalDivide},
	}})
	r.MustRegisterDocument(DocSpec{Kind: DocCompanies, Sections: []Section{
		{Name: "companies", Type: TypeArray, Required: true, Entity: EntityCompany},
	}})
	r.MustRegisterDocument(DocSpec{Kind: DocSocialMedia, Sections: []Section{
		{Name: "platforms", Type: TypeArray, Required: true, Entity: EntitySocialMediaProfile},
	}})
	r.MustRegisterDocument(DocSpec{Kind: DocPolicies, Sections: []Section{
		{Name: "policies", Type: TypeArray, Required: true, Entity: EntityPolicy},
	}})
	r.MustRegisterDocument(DocSpec{Kind: DocInfrastructure, Sections: []Section{
		{Name: "items", Type: TypeArray, Required: false, Entity: EntityInfrastructure},
		{Name: "expectedLaunch", Type: TypeString, Required: false},
		{Name: "targetSpeed", Type: TypeString, Required: false},
		{Name: "coverageGoal", Type: TypeString, Required: false},
	}})

	return r
}
