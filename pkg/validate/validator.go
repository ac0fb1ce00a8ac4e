// Package validate performs advisory structural validation of timeline
// documents against the shape registry.
//
// Validation never blocks the pipeline: every problem found in one call is
// accumulated into an ordered Result and the document is used downstream
// regardless. Unknown extra fields are never rejected.
package validate

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/goliatone/go-timeline/pkg/schema"
)

// Result is the outcome of one validation call. Errors hold structural
// problems in a deterministic order (section and field declaration order,
// then element index). Notes hold non-fatal diagnostics such as declared
// arrays that are present but empty. Results are created fresh per call and
// share no state.
type Result struct {
	Success bool
	Errors  []string
	Notes   []string
}

// Validator checks parsed documents against a shape registry.
type Validator struct {
	reg *schema.Registry
}

// New creates a Validator over reg. A nil registry falls back to the default
// timeline shapes.
func New(reg *schema.Registry) *Validator {
	if reg == nil {
		reg = schema.Default()
	}
	return &Validator{reg: reg}
}

// ParseObject reports whether raw is syntactically valid JSON encoding an
// object, returning the parsed form. A syntax failure, a null document, and
// a non-object root are all parse-class errors, distinct from the structural
// problems Validate reports.
func ParseObject(raw []byte) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("invalid JSON: document is null")
	}
	return doc, nil
}

// Validate walks doc against the registered spec for kind. A nil document or
// an unrecognized kind short-circuits with a single error. Internal faults
// are recovered and converted into a single-error Result; Validate never
// panics through to the caller.
func (v *Validator) Validate(doc map[string]any, kind schema.DocumentKind) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Errors: []string{fmt.Sprintf("validation of %s failed internally: %v", kind, r)}}
		}
	}()

	if doc == nil {
		return Result{Errors: []string{"document is missing or not an object"}}
	}

	spec, ok := v.reg.Document(kind)
	if !ok {
		return Result{Errors: []string{fmt.Sprintf("unknown document kind '%s'", kind)}}
	}

	acc := &accumulator{}
	for _, sec := range spec.Sections {
		v.checkSection(acc, doc, "", sec)
	}
	return acc.result()
}

type accumulator struct {
	errors []string
	notes  []string
}

func (a *accumulator) errf(format string, args ...any) {
	a.errors = append(a.errors, fmt.Sprintf(format, args...))
}

func (a *accumulator) notef(format string, args ...any) {
	a.notes = append(a.notes, fmt.Sprintf(format, args...))
}

func (a *accumulator) result() Result {
	return Result{Success: len(a.errors) == 0, Errors: a.errors, Notes: a.notes}
}

func (v *Validator) checkSection(acc *accumulator, obj map[string]any, prefix string, sec schema.Section) {
	path := joinPath(prefix, sec.Name)

	val, present := obj[sec.Name]
	if !present || val == nil {
		if sec.Required {
			acc.errf("missing required section '%s'", path)
		}
		return
	}

	actual := classify(val)
	switch sec.Type {
	case schema.TypeArray:
		arr, ok := val.([]any)
		if !ok {
			acc.errf("section '%s' must be an array, got %s", path, typeLabel(actual, val))
			return
		}
		if sec.Entity != "" {
			v.checkEntityArray(acc, path, arr, sec.Entity)
		}
	case schema.TypeObject:
		m, ok := val.(map[string]any)
		if !ok {
			acc.errf("section '%s' must be an object, got %s", path, typeLabel(actual, val))
			return
		}
		if len(sec.Children) > 0 {
			for _, child := range sec.Children {
				v.checkSection(acc, m, path, child)
			}
			return
		}
		if sec.Entity != "" {
			v.checkEntity(acc, path, m, sec.Entity)
		}
	default:
		if actual != sec.Type {
			acc.errf("section '%s' must be %s, got %s", path, acceptedLabel([]schema.FieldType{sec.Type}), typeLabel(actual, val))
		}
	}
}

// checkEntityArray validates every element of arr against the entity spec for
// kind, accumulating all problems. An empty array is only a diagnostic note.
func (v *Validator) checkEntityArray(acc *accumulator, path string, arr []any, kind schema.EntityKind) {
	spec, ok := v.reg.Entity(kind)
	if !ok {
		acc.errf("no schema registered for entity kind '%s' (at '%s')", kind, path)
		return
	}

	if len(arr) == 0 {
		acc.notef("section '%s' is declared as an array but is empty", path)
		return
	}

	for i, el := range arr {
		elPath := fmt.Sprintf("%s[%d]", path, i)
		m, ok := el.(map[string]any)
		if !ok {
			acc.errf("'%s' must be an object, got %s", elPath, typeLabel(classify(el), el))
			continue
		}
		v.checkFields(acc, elPath, m, spec)
	}
}

func (v *Validator) checkEntity(acc *accumulator, path string, m map[string]any, kind schema.EntityKind) {
	spec, ok := v.reg.Entity(kind)
	if !ok {
		acc.errf("no schema registered for entity kind '%s' (at '%s')", kind, path)
		return
	}
	v.checkFields(acc, path, m, spec)
}

// checkFields walks the declared fields in order: required fields must be
// present, and any declared field actually present is type-checked against
// its declared union. Fields the spec does not declare pass untouched.
func (v *Validator) checkFields(acc *accumulator, path string, m map[string]any, spec schema.EntitySpec) {
	for _, field := range spec.Fields {
		fieldPath := path + "." + field.Name

		val, present := m[field.Name]
		if !present || val == nil {
			if field.Required {
				acc.errf("missing required field '%s'", fieldPath)
			}
			continue
		}

		if len(field.Types) == 0 {
			continue
		}

		actual := classify(val)
		if !typeAllowed(actual, field.Types) {
			acc.errf("field '%s' must be %s, got %s", fieldPath, acceptedLabel(field.Types), typeLabel(actual, val))
			continue
		}

		if arr, ok := val.([]any); ok && field.Entity != "" {
			v.checkEntityArray(acc, fieldPath, arr, field.Entity)
		}
	}
}

func typeAllowed(actual schema.FieldType, accepted []schema.FieldType) bool {
	for _, t := range accepted {
		if t == actual {
			return true
		}
	}
	return false
}

// acceptedLabel renders a declared type union for error messages, listing
// every accepted member.
func acceptedLabel(types []schema.FieldType) string {
	if len(types) == 1 {
		return string(types[0])
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return "one of [" + strings.Join(names, ", ") + "]"
}

func typeLabel(t schema.FieldType, val any) string {
	if t != "" {
		return string(t)
	}
	return fmt.Sprintf("%T", val)
}

// classify maps a decoded JSON value to its field type. Arrays classify as
// array regardless of element types. Numeric Go values that appear in
// hand-built documents classify as number alongside float64.
func classify(v any) schema.FieldType {
	switch v.(type) {
	case string:
		return schema.TypeString
	case bool:
		return schema.TypeBool
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number:
		return schema.TypeNumber
	case []any:
		return schema.TypeArray
	case map[string]any:
		return schema.TypeObject
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return schema.TypeArray
	case reflect.Map:
		return schema.TypeObject
	}
	return ""
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
