// Package overlay loads key/value overlay files and merges them into an
// envresolve.Registry and the live process environment.
//
// Format is auto-detected from extension (.env/dotenv, .yaml, .json, .toml).
// Files are discovered by walking upward from the working directory, and a
// variable already set in the live environment always wins over an overlay
// value.
//
// Example:
//
//	reg := envresolve.NewRegistry(envresolve.Options{})
//	err := overlay.Apply(reg, ".env", "defaults.yaml")
package overlay
