package envresolve

import (
	"os"
	"strings"
	"sync"

	"github.com/Azhovan/envresolve/internal/normalize"
)

// Registry is a cache of the variable names visible in the process
// environment, plus a lazily built cleaned-name index for fuzzy matching.
//
// Names are scanned from the live environment on first use and are only
// re-scanned through Refresh; the cached set grows monotonically and never
// shrinks, even if the live environment does. Value reads always go to the
// live environment keyed by the matched name, so a cached name whose
// variable has since been unset resolves as missing.
//
// Safe for concurrent use. Reads never block each other; Refresh and the
// one-time index build take the write lock.
type Registry struct {
	platform Platform

	mu      sync.RWMutex
	names   map[string]struct{}
	cleaned map[string]string // Clean(name) → name; nil until first cleaned lookup
	scanned bool
}

// NewRegistry creates a Registry. The platform trait in opts is resolved
// once, here; it never changes for the lifetime of the Registry.
func NewRegistry(opts Options) *Registry {
	return &Registry{
		platform: opts.Platform.resolve(),
		names:    make(map[string]struct{}),
	}
}

// Names returns a copy of all currently known variable names.
// The first call scans the live environment; later calls return the cached
// set until Refresh is called.
func (r *Registry) Names() []string {
	r.ensureScanned()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.names))
	for name := range r.names {
		out = append(out, name)
	}
	return out
}

// Has reports whether name is in the cached name set, with exact casing.
func (r *Registry) Has(name string) bool {
	r.ensureScanned()

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.names[name]
	return ok
}

// Refresh adds the keys of extra to the cached name set. A nil extra means
// the live environment, for callers that know it changed out-of-band.
// Known names are never dropped; Refresh with no new keys is a no-op.
// The cleaned-name index is extended only if it has already been built, so
// processes that never use fuzzy lookups never pay for normalization.
func (r *Registry) Refresh(extra map[string]string) {
	r.ensureScanned()

	if extra == nil {
		extra = liveEnviron()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for name := range extra {
		if _, ok := r.names[name]; ok {
			continue
		}
		r.names[name] = struct{}{}
		if r.cleaned != nil {
			r.cleaned[normalize.Clean(name)] = name
		}
	}
}

// LookupExact looks names up with exact letter casing, in order, and
// returns the live value of the first one found. On a case-normalized
// platform every candidate is upper-cased before the comparison, matching
// what the OS does to variable names there.
func (r *Registry) LookupExact(names ...string) Value {
	for _, name := range names {
		if r.platform == PlatformCaseNormalized {
			name = strings.ToUpper(name)
		}
		if v := r.lookup(name); v.Found {
			return v
		}
	}
	return Missing
}

// lookup resolves a single name against the cached set with its literal
// casing and reads the value from the live environment.
func (r *Registry) lookup(name string) Value {
	if !r.Has(name) {
		return Missing
	}
	if value, ok := os.LookupEnv(name); ok {
		return found(value)
	}
	// Stale cache entry: the variable was unset after it was cached.
	return Missing
}

// lookupCleaned resolves a name through the cleaned-name index, matching
// any casing and separator style. Builds the index on first use.
func (r *Registry) lookupCleaned(name string) Value {
	idx := r.cleanedIndex()

	r.mu.RLock()
	original, ok := idx[normalize.Clean(name)]
	r.mu.RUnlock()

	if !ok {
		return Missing
	}
	if value, ok := os.LookupEnv(original); ok {
		return found(value)
	}
	return Missing
}

// cleanedIndex returns the cleaned-name index, building it once over all
// currently known names. Two distinct names can clean to the same key
// (MY_ENV_VAR and my-env-var both clean to myenvvar); the index keeps
// whichever was written last, with no ordering guarantee beyond map
// iteration order. Callers that need a specific variable should use an
// exact lookup.
func (r *Registry) cleanedIndex() map[string]string {
	r.ensureScanned()

	r.mu.RLock()
	idx := r.cleaned
	r.mu.RUnlock()
	if idx != nil {
		return idx
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cleaned == nil {
		r.cleaned = make(map[string]string, len(r.names))
		for name := range r.names {
			r.cleaned[normalize.Clean(name)] = name
		}
	}
	return r.cleaned
}

// ensureScanned materializes the name cache from the live environment on
// first use.
func (r *Registry) ensureScanned() {
	r.mu.RLock()
	scanned := r.scanned
	r.mu.RUnlock()
	if scanned {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scanned {
		return
	}
	for name := range liveEnviron() {
		r.names[name] = struct{}{}
	}
	r.scanned = true
}

// liveEnviron snapshots the live process environment as a map.
func liveEnviron() map[string]string {
	environ := os.Environ()
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		out[name] = value
	}
	return out
}
