package envresolve

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Azhovan/envresolve/internal/normalize"
)

// Diagnostic is implemented by every error type in this package. Message
// renders a deterministic multi-line report; Error returns the same text.
// Constructing a diagnostic never fails, and Message is stable across
// repeated calls for the same inputs.
type Diagnostic interface {
	error
	Message() string
}

// contextEntry is one trailing key/value debug line, kept in insertion
// order.
type contextEntry struct {
	key   string
	value any
}

func writeContext(b *strings.Builder, entries []contextEntry) {
	for _, e := range entries {
		fmt.Fprintf(b, "\n  %s: %v", e.key, e.value)
	}
}

// jsonDump renders a source object as compact JSON for a report, falling
// back to %v for values that cannot be marshaled.
func jsonDump(obj any) string {
	data, err := json.Marshal(obj)
	if err != nil {
		return fmt.Sprintf("%v", obj)
	}
	return string(data)
}

// ParseError reports a failure converting one field's input value, wrapping
// the root cause with the field and type context needed to act on it.
type ParseError struct {
	// Field is the declared field name the value was destined for.
	Field string

	// Type is the name of the type declaring the field.
	Type string

	// Expected is the declared type of the field.
	Expected string

	// Value is the offending input value.
	Value any

	// Err is the underlying conversion failure.
	Err error

	// Source is the original source object, if known. Rendered as JSON in
	// the report.
	Source any

	context []contextEntry
}

// NewParseError wraps a conversion failure for one field.
func NewParseError(err error, value any, field, typeName, expected string) *ParseError {
	return &ParseError{
		Field:    field,
		Type:     typeName,
		Expected: expected,
		Value:    value,
		Err:      err,
	}
}

// With appends a key/value debug line to the report. Entries render in
// insertion order. Returns the receiver for chaining.
func (e *ParseError) With(key string, value any) *ParseError {
	e.context = append(e.context, contextEntry{key: key, value: value})
	return e
}

// Message formats the parse failure as a multi-line report.
func (e *ParseError) Message() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Failure parsing field `%s` in type `%s`. Expected a type %s, got %T.\n",
		e.Field, e.Type, e.Expected, e.Value)
	fmt.Fprintf(&b, "  value: %#v\n", e.Value)
	fmt.Fprintf(&b, "  error: %v", e.Err)

	if e.Source != nil {
		fmt.Fprintf(&b, "\n  source object: %s", jsonDump(e.Source))
	}
	writeContext(&b, e.context)
	return b.String()
}

func (e *ParseError) Error() string { return e.Message() }

// Unwrap returns the underlying conversion failure.
func (e *ParseError) Unwrap() error { return e.Err }

// MissingFieldsError reports required fields that were not supplied when
// constructing a value of a declared type. Supplied keys whose cleaned form
// matches a required field's cleaned form are treated as present under a
// different naming convention; they are dropped from the missing list and
// surface as a key-transform hint instead.
type MissingFieldsError struct {
	// Type is the name of the type being constructed.
	Type string

	// Supplied holds the input key names that were provided.
	Supplied []string

	// Required holds the declared field names without a default.
	Required []string

	// KeyTransform optionally names the active naming-transform function,
	// supplied by the caller (e.g. "toCamelCase"). Used only for the
	// collision hint.
	KeyTransform string

	// Source is the original input object, if known.
	Source any
}

// Missing returns the required fields that are truly absent: not supplied
// exactly and not supplied under a colliding cleaned name. Order follows
// Required.
func (e *MissingFieldsError) Missing() []string {
	missing, _ := e.split()
	return missing
}

// split partitions unsupplied required fields into truly missing names and
// names that collide with a supplied key after cleaning.
func (e *MissingFieldsError) split() (missing, collided []string) {
	supplied := make(map[string]struct{}, len(e.Supplied))
	cleanedSupplied := make(map[string]struct{}, len(e.Supplied))
	for _, k := range e.Supplied {
		supplied[k] = struct{}{}
		cleanedSupplied[normalize.Clean(k)] = struct{}{}
	}

	for _, f := range e.Required {
		if _, ok := supplied[f]; ok {
			continue
		}
		if _, ok := cleanedSupplied[normalize.Clean(f)]; ok {
			collided = append(collided, f)
			continue
		}
		missing = append(missing, f)
	}
	return missing, collided
}

// Message formats the missing-fields report, including the key-transform
// hint when a supplied key matches a required field through cleaning.
func (e *MissingFieldsError) Message() string {
	missing, collided := e.split()

	var b strings.Builder
	fmt.Fprintf(&b, "Failure constructing type `%s`. Missing values for required fields.\n", e.Type)
	fmt.Fprintf(&b, "  have fields: %v\n", e.Supplied)
	fmt.Fprintf(&b, "  missing fields: %v", missing)

	if e.Source != nil {
		fmt.Fprintf(&b, "\n  input object: %s", jsonDump(e.Source))
	}

	if len(collided) > 0 {
		fmt.Fprintf(&b, "\n  near matches: %v", collided)
		if e.KeyTransform != "" {
			fmt.Fprintf(&b, "\n  key transform: %s()", e.KeyTransform)
		}
		b.WriteString("\n  resolution: the supplied keys use a different naming convention than " +
			"the declared fields; the key transform in use is the likely cause. " +
			"See README.md#field-naming for details.")
	}
	return b.String()
}

func (e *MissingFieldsError) Error() string { return e.Message() }

// ExtraFieldsError reports supplied input keys that match no declared
// field, for callers configured to reject unexpected input.
type ExtraFieldsError struct {
	// Type is the name of the type being constructed.
	Type string

	// Extras holds the unrecognized supplied key names.
	Extras []string

	// Fields holds all declared field names.
	Fields []string
}

// Message formats the extra-fields report.
func (e *ExtraFieldsError) Message() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Type `%s` received unexpected input keys:\n", e.Type)
	fmt.Fprintf(&b, "  extras: %v\n", e.Extras)
	fmt.Fprintf(&b, "  fields: %v\n", e.Fields)
	b.WriteString("  resolution: set the ExtraKeys option for the type to control " +
		"how unexpected input is handled (ignore or reject).")
	return b.String()
}

func (e *ExtraFieldsError) Error() string { return e.Message() }

// UnknownKeyError reports a single input key with no corresponding declared
// field, raised when strict unknown-key rejection is enabled.
type UnknownKeyError struct {
	// Type is the name of the type being constructed.
	Type string

	// Key is the unknown input key.
	Key string

	// Fields holds all declared field names.
	Fields []string

	// Source is the raw source object the key came from.
	Source any
}

// Message formats the unknown-key report.
func (e *UnknownKeyError) Message() string {
	var b strings.Builder
	fmt.Fprintf(&b, "An input key has no matching field declared in type `%s`.\n", e.Type)
	fmt.Fprintf(&b, "  unknown key: %q\n", e.Key)
	fmt.Fprintf(&b, "  declared fields: %v\n", e.Fields)
	fmt.Fprintf(&b, "  input object: %s", jsonDump(e.Source))
	return b.String()
}

func (e *UnknownKeyError) Error() string { return e.Message() }

// MissingField describes one field that could not be resolved from the
// environment, carrying just enough metadata to generate a fix suggestion.
type MissingField struct {
	// Name is the declared field name.
	Name string

	// Type is the declared field type, as written (e.g. "string", "int").
	Type string

	// Default is a concrete placeholder value for the generated samples.
	Default any
}

// MissingVarsError reports every field of a target type that could not be
// resolved from the environment, in one aggregate diagnostic built after a
// full pass over all fields.
type MissingVarsError struct {
	// Type is the name of the target type.
	Type string

	// Missing lists the unresolved fields, in declaration order.
	Missing []MissingField
}

// Message formats the aggregate report: the itemized missing names, a
// generated type definition with default values (resolution #1), and a
// generated constructor call passing each field explicitly (resolution #2).
func (e *MissingVarsError) Message() string {
	const indent = "    "

	var b strings.Builder
	if len(e.Missing) == 1 {
		fmt.Fprintf(&b, "There is 1 required field in type `%s` missing in the Environment:\n", e.Type)
	} else {
		fmt.Fprintf(&b, "There are %d required fields in type `%s` missing in the Environment:\n",
			len(e.Missing), e.Type)
	}
	for _, f := range e.Missing {
		fmt.Fprintf(&b, "%s- %s\n", indent, f.Name)
	}

	b.WriteString("\nresolution #1: set a default value for any optional fields, as below.\n\n")
	fmt.Fprintf(&b, "type %s struct {\n", e.Type)
	for _, f := range e.Missing {
		fmt.Fprintf(&b, "%s%s %s // default: %#v\n", indent, f.Name, f.Type, f.Default)
	}
	b.WriteString("}\n")

	b.WriteString("\n...\n\n")
	b.WriteString("resolution #2: pass in values for the required fields explicitly:\n\n")
	args := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		args[i] = fmt.Sprintf("%s: %#v", f.Name, f.Default)
	}
	fmt.Fprintf(&b, "%sinstance := %s{%s}", indent, e.Type, strings.Join(args, ", "))
	return b.String()
}

func (e *MissingVarsError) Error() string { return e.Message() }

// MissingNestedError reports that a nested field's value was absent where a
// nested structure was required.
type MissingNestedError struct {
	// Field is the declared field name.
	Field string

	// Type is the name of the enclosing type.
	Type string

	// Nested is the name of the required nested structure's type.
	Nested string
}

// Message formats the missing-nested-value report.
func (e *MissingNestedError) Message() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Failure loading type `%s`. Missing value for field (expected a nested %s, got no value)\n",
		e.Type, e.Nested)
	fmt.Fprintf(&b, "  field: %q\n", e.Field)
	fmt.Fprintf(&b, "  resolution: declare the field as `*%s` to mark it optional", e.Nested)
	return b.String()
}

func (e *MissingNestedError) Error() string { return e.Message() }

var (
	_ Diagnostic = (*ParseError)(nil)
	_ Diagnostic = (*MissingFieldsError)(nil)
	_ Diagnostic = (*ExtraFieldsError)(nil)
	_ Diagnostic = (*UnknownKeyError)(nil)
	_ Diagnostic = (*MissingVarsError)(nil)
	_ Diagnostic = (*MissingNestedError)(nil)
)
