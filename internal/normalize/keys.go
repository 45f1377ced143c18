package normalize

import (
	"strings"
	"unicode"
)

// Clean normalizes a variable or field name for fuzzy matching: the
// separators '-' and '_' are removed and the result is lower-cased.
// Clean is idempotent.
// Examples:
//   - "MY_ENV_VAR" → "myenvvar"
//   - "my-env-var" → "myenvvar"
//   - "myEnvVar" → "myenvvar"
func Clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '-' || r == '_' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// ToSnakeCase converts a camelCase or PascalCase name to lower snake_case.
// Hyphens and spaces are treated as word separators. Runs of upper-case
// letters are kept as one word (an acronym) until a lower-case letter
// follows.
// Examples:
//   - "myEnvVar" → "my_env_var"
//   - "MyEnvVar" → "my_env_var"
//   - "APIKey" → "api_key"
//   - "my-env-var" → "my_env_var"
func ToSnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)

	for i, r := range runes {
		if r == '-' || r == ' ' {
			b.WriteByte('_')
			continue
		}
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextIsLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			boundary := unicode.IsLower(prev) || unicode.IsDigit(prev) ||
				(unicode.IsUpper(prev) && nextIsLower)
			if boundary {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
