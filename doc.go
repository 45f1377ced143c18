// Package envresolve resolves declared configuration field names into values
// from the process environment, with case-insensitive multi-strategy search
// and structured diagnostics for fields that cannot be resolved.
//
// Quick Start:
//
//	reg := envresolve.NewRegistry(envresolve.Options{})
//	resolver := envresolve.NewResolver(reg)
//
//	v := resolver.Resolve("my_env_var", envresolve.ScreamingSnakeFirst)
//	if value, ok := v.Get(); ok {
//	    // MY_ENV_VAR, my_env_var, or any -/_/case variation was set
//	}
//
// Overlay files (dotenv, YAML, TOML, or JSON) can be merged in at startup;
// values already present in the live environment always win:
//
//	err := overlay.Apply(reg, ".env")
//
// Lookup strategies: ScreamingSnakeFirst (default), SnakeFirst,
// PascalOrCamelFirst. All strategies fall back to a cleaned-name index that
// ignores case and the separators - and _, so the field myEnvVar matches
// MY_ENV_VAR, my-env-var, or MYENVVAR.
//
// See example_test.go and README.md for detailed usage.
package envresolve
