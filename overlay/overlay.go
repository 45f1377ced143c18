package overlay

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Azhovan/envresolve"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the conventional overlay file loaded when no paths are
// given.
const DefaultFile = ".env"

// Options configures overlay loading behavior.
type Options struct {
	// Format: "env", "yaml", "json", or "toml". Auto-detected from the
	// file extension if empty; unknown extensions parse as dotenv.
	Format string

	// Required: if true, an overlay file that cannot be discovered causes
	// an error. Default: false (an absent file yields an empty mapping,
	// since overlays are optional convenience inputs).
	Required bool
}

// Load parses the given overlay files into one flat string mapping.
// No paths means the conventional DefaultFile. Each path is discovered by
// walking upward from the working directory; files merge left to right,
// later files overwriting earlier ones on key collision. Load never
// mutates the registry or the process environment.
func Load(paths ...string) (map[string]string, error) {
	return LoadWith(Options{}, paths...)
}

// LoadWith is Load with explicit Options.
func LoadWith(opts Options, paths ...string) (map[string]string, error) {
	if len(paths) == 0 {
		paths = []string{DefaultFile}
	}

	merged := make(map[string]string)
	for _, path := range paths {
		values, err := loadOne(path, opts)
		if err != nil {
			return nil, err
		}
		for k, v := range values {
			merged[k] = v
		}
	}
	return merged, nil
}

// Apply loads the given overlay files, refreshes the registry with the
// parsed keys, and merges the values into the live process environment.
// A variable already set in the live environment is never overwritten:
// overlay values only fill gaps. The registry refresh happens before the
// live merge, so Names and cleaned lookups immediately see the new keys.
func Apply(reg *envresolve.Registry, paths ...string) error {
	return ApplyWith(reg, Options{}, paths...)
}

// ApplyWith is Apply with explicit Options.
func ApplyWith(reg *envresolve.Registry, opts Options, paths ...string) error {
	values, err := LoadWith(opts, paths...)
	if err != nil {
		return err
	}
	return ApplyValues(reg, values)
}

// ApplyValues applies an already-parsed overlay mapping, for callers that
// loaded or assembled the values themselves.
func ApplyValues(reg *envresolve.Registry, values map[string]string) error {
	reg.Refresh(values)

	for k, v := range values {
		if _, live := os.LookupEnv(k); live {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("set overlay variable %s: %w", k, err)
		}
	}
	return nil
}

// loadOne discovers and parses a single overlay file.
func loadOne(path string, opts Options) (map[string]string, error) {
	discovered, ok := findUp(path)
	if !ok {
		if opts.Required {
			return nil, fmt.Errorf("required overlay file not found: %s", path)
		}
		return make(map[string]string), nil
	}

	format := opts.Format
	if format == "" {
		format = inferFormat(discovered)
	}

	switch format {
	case "env":
		values, err := godotenv.Read(discovered)
		if err != nil {
			return nil, fmt.Errorf("parse overlay file %s: %w", discovered, err)
		}
		return values, nil
	case "yaml", "yml":
		return parseStructured(discovered, yaml.Unmarshal)
	case "json":
		return parseStructured(discovered, json.Unmarshal)
	case "toml":
		return parseStructured(discovered, toml.Unmarshal)
	default:
		return nil, fmt.Errorf("unsupported overlay format: %s (supported: env, yaml, json, toml)", format)
	}
}

// parseStructured reads a structured overlay file and flattens it to
// string key/value pairs.
func parseStructured(path string, unmarshal func([]byte, any) error) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overlay file %s: %w", path, err)
	}

	var raw map[string]any
	if err := unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse overlay file %s: %w", path, err)
	}

	result := make(map[string]string)
	flattenMap("", raw, result)
	return result, nil
}

// flattenMap flattens nested maps to underscore-joined keys and stringifies
// scalar values. "database: {host: x}" becomes "database_host=x".
func flattenMap(prefix string, value any, result map[string]string) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			newPrefix := key
			if prefix != "" {
				newPrefix = prefix + "_" + key
			}
			flattenMap(newPrefix, val, result)
		}
	case map[any]any:
		for key, val := range v {
			keyStr, ok := key.(string)
			if !ok {
				continue
			}
			newPrefix := keyStr
			if prefix != "" {
				newPrefix = prefix + "_" + keyStr
			}
			flattenMap(newPrefix, val, result)
		}
	default:
		if prefix == "" {
			return
		}
		if s, ok := v.(string); ok {
			result[prefix] = s
			return
		}
		result[prefix] = fmt.Sprintf("%v", v)
	}
}

// findUp discovers an overlay file, searching from the working directory
// upward through parent directories. Absolute paths are checked directly.
func findUp(path string) (string, bool) {
	if filepath.IsAbs(path) {
		if fileExists(path) {
			return path, true
		}
		return "", false
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}

	for {
		candidate := filepath.Join(dir, path)
		if fileExists(candidate) {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func inferFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	default:
		// .env, .env.local, or anything else: the dotenv line format.
		return "env"
	}
}
