package envresolve

import (
	"strings"

	"github.com/Azhovan/envresolve/internal/normalize"
)

// Resolver resolves declared configuration field names to environment
// variable values by trying an ordered sequence of casing candidates
// against a Registry. Strategy order is deterministic: the first candidate
// found in the environment wins, and every strategy ends with a
// cleaned-name fallback that ignores case and separators.
type Resolver struct {
	reg *Registry
}

// NewResolver creates a Resolver backed by the given Registry.
func NewResolver(reg *Registry) *Resolver {
	return &Resolver{reg: reg}
}

// Resolve resolves field using the given strategy. An unknown strategy
// falls back to ScreamingSnakeFirst, the default.
func (r *Resolver) Resolve(field string, s Strategy) Value {
	switch s {
	case SnakeFirst:
		return r.WithSnakeCase(field)
	case PascalOrCamelFirst:
		return r.WithPascalOrCamelCase(field)
	default:
		return r.WithScreamingSnakeCase(field)
	}
}

// WithScreamingSnakeCase resolves a lower_snake_case field name, trying
// SCREAMING_SNAKE_CASE first. For the field "my_env_var" the lookups are,
// in order:
//   - MY_ENV_VAR
//   - my_env_var
//   - any other variation via the cleaned-name index
//     (MyEnvVar, myEnvVar, myenvvar, my-env-var)
func (r *Resolver) WithScreamingSnakeCase(field string) Value {
	if v := r.reg.lookup(strings.ToUpper(field)); v.Found {
		return v
	}
	if v := r.reg.lookup(field); v.Found {
		return v
	}
	return r.reg.lookupCleaned(field)
}

// WithSnakeCase resolves a lower_snake_case field name, trying the literal
// snake_case spelling first. For the field "my_env_var" the lookups are,
// in order:
//   - my_env_var
//   - MY_ENV_VAR
//   - any other variation via the cleaned-name index
func (r *Resolver) WithSnakeCase(field string) Value {
	if v := r.reg.lookup(field); v.Found {
		return v
	}
	if v := r.reg.lookup(strings.ToUpper(field)); v.Found {
		return v
	}
	return r.reg.lookupCleaned(field)
}

// WithPascalOrCamelCase resolves a PascalCase or camelCase field name.
// For the field "myEnvVar" the lookups are, in order:
//   - myEnvVar (the literal spelling)
//   - MY_ENV_VAR
//   - my_env_var
//   - any other variation via the cleaned-name index
//
// The cleaned fallback normalizes the original field name, not the
// snake_case conversion; both clean to the same key.
func (r *Resolver) WithPascalOrCamelCase(field string) Value {
	if v := r.reg.lookup(field); v.Found {
		return v
	}

	snakeKey := normalize.ToSnakeCase(field)
	if v := r.reg.lookup(strings.ToUpper(snakeKey)); v.Found {
		return v
	}
	if v := r.reg.lookup(snakeKey); v.Found {
		return v
	}
	return r.reg.lookupCleaned(field)
}
