package schema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-timeline/pkg/schema"
)

func TestDefault_CoversAllDocumentKinds(t *testing.T) {
	reg := schema.Default()

	want := []schema.DocumentKind{
		schema.DocCompanies,
		schema.DocEvents,
		schema.DocInfrastructure,
		schema.DocPolicies,
		schema.DocSocialMedia,
		schema.DocStatistics,
	}
	if diff := cmp.Diff(want, reg.DocumentKinds()); diff != "" {
		t.Fatalf("document kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestDefault_FieldOrderAndUnions(t *testing.T) {
	reg := schema.Default()

	spec, ok := reg.Entity(schema.EntityCompany)
	if !ok {
		t.Fatal("company entity not registered")
	}

	wantOrder := []string{"name", "marketShare", "subscribers", "founded", "keyMilestone"}
	var gotOrder []string
	for _, f := range spec.Fields {
		gotOrder = append(gotOrder, f.Name)
	}
	if diff := cmp.Diff(wantOrder, gotOrder); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	share, ok := spec.Field("marketShare")
	if !ok {
		t.Fatal("marketShare not declared")
	}
	if diff := cmp.Diff([]schema.FieldType{schema.TypeString, schema.TypeNumber}, share.Types); diff != "" {
		t.Fatalf("marketShare union mismatch (-want +got):\n%s", diff)
	}
	if !share.Required {
		t.Fatal("marketShare should be required")
	}

	if diff := cmp.Diff([]string{"name", "marketShare", "subscribers"}, spec.Required()); diff != "" {
		t.Fatalf("required list mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"founded", "keyMilestone"}, spec.Optional()); diff != "" {
		t.Fatalf("optional list mismatch (-want +got):\n%s", diff)
	}
}

func TestDefault_EventsDocumentSections(t *testing.T) {
	reg := schema.Default()

	doc, ok := reg.Document(schema.DocEvents)
	if !ok {
		t.Fatal("events document not registered")
	}
	if len(doc.Sections) != 4 {
		t.Fatalf("expected 4 top-level sections, got %d", len(doc.Sections))
	}
	if doc.Sections[0].Name != "heroStats" || doc.Sections[0].Type != schema.TypeArray {
		t.Fatalf("unexpected first section: %+v", doc.Sections[0])
	}

	fintech := doc.Sections[3]
	if fintech.Name != "fintechEra" || fintech.Type != schema.TypeObject {
		t.Fatalf("unexpected fourth section: %+v", fintech)
	}
	var childNames []string
	for _, c := range fintech.Children {
		childNames = append(childNames, c.Name)
	}
	if diff := cmp.Diff([]string{"events", "mobileBanking", "investmentBoom"}, childNames); diff != "" {
		t.Fatalf("fintech children mismatch (-want +got):\n%s", diff)
	}
}

func TestKindForKey(t *testing.T) {
	if kind, ok := schema.KindForKey("social_media"); !ok || kind != schema.DocSocialMedia {
		t.Fatalf("KindForKey(social_media) = %v, %v", kind, ok)
	}
	if _, ok := schema.KindForKey("weather"); ok {
		t.Fatal("unexpected kind for unknown key")
	}
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	reg := schema.NewRegistry()
	spec := schema.EntitySpec{Kind: schema.EntityPolicy}
	if err := reg.RegisterEntity(spec); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := reg.RegisterEntity(spec); err == nil {
		t.Fatal("expected duplicate registration error")
	}
}
