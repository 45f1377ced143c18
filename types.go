package envresolve

import "runtime"

// Platform selects how environment variable names are matched by exact
// lookups. It is a capability flag chosen once at Registry construction.
type Platform int

const (
	// PlatformAuto detects the platform trait at construction time:
	// Windows normalizes variable names to a single canonical case,
	// everything else preserves mixed case.
	PlatformAuto Platform = iota

	// PlatformCaseNormalized matches names as if the OS upper-cases them
	// (historically Windows). Exact lookups upper-case their input first.
	PlatformCaseNormalized

	// PlatformCasePreserving matches names with their literal casing.
	PlatformCasePreserving
)

// resolve maps PlatformAuto to the trait of the running OS.
func (p Platform) resolve() Platform {
	if p != PlatformAuto {
		return p
	}
	if runtime.GOOS == "windows" {
		return PlatformCaseNormalized
	}
	return PlatformCasePreserving
}

// Options configures Registry behavior.
type Options struct {
	// Platform controls exact-lookup casing semantics.
	// The zero value (PlatformAuto) detects from the running OS.
	Platform Platform
}

// Value is the result of an environment lookup.
// It distinguishes "variable absent" from "variable set to empty string":
// a variable explicitly set to "" is a valid resolution.
type Value struct {
	Raw   string
	Found bool
}

// Missing is the distinguished "no matching environment variable" result.
var Missing = Value{}

// found wraps a resolved string value.
func found(s string) Value {
	return Value{Raw: s, Found: true}
}

// Get returns the resolved string and whether a variable matched.
func (v Value) Get() (string, bool) {
	return v.Raw, v.Found
}

// OrDefault returns the resolved string or the provided default.
func (v Value) OrDefault(defaultVal string) string {
	if v.Found {
		return v.Raw
	}
	return defaultVal
}

// Strategy selects the ordered candidate-name sequence used to resolve a
// declared field name against the environment. See Resolver.Resolve.
type Strategy int

const (
	// ScreamingSnakeFirst assumes a lower_snake_case field name and tries
	// FIELD_NAME, then field_name, then the cleaned-name index.
	// This is the default strategy.
	ScreamingSnakeFirst Strategy = iota

	// SnakeFirst assumes a lower_snake_case field name and tries
	// field_name, then FIELD_NAME, then the cleaned-name index.
	SnakeFirst

	// PascalOrCamelFirst assumes a PascalCase or camelCase field name and
	// tries the literal name, then the SCREAMING_SNAKE and snake_case
	// conversions, then the cleaned-name index.
	PascalOrCamelFirst
)
