package envresolve

import (
	"fmt"
	"sync"
	"testing"
)

func TestRegistry_Names_CachesFirstScan(t *testing.T) {
	t.Setenv("REGISTRY_SCAN_VAR", "present")

	reg := NewRegistry(Options{Platform: PlatformCasePreserving})

	names := reg.Names()
	if !containsName(names, "REGISTRY_SCAN_VAR") {
		t.Fatalf("Names() missing REGISTRY_SCAN_VAR, got %d names", len(names))
	}

	// A variable set after the first scan is invisible until Refresh.
	t.Setenv("REGISTRY_LATE_VAR", "late")
	if reg.Has("REGISTRY_LATE_VAR") {
		t.Error("Has(REGISTRY_LATE_VAR) = true before Refresh, want false")
	}

	reg.Refresh(nil)
	if !reg.Has("REGISTRY_LATE_VAR") {
		t.Error("Has(REGISTRY_LATE_VAR) = false after Refresh(nil), want true")
	}
}

func TestRegistry_Refresh_Monotonic(t *testing.T) {
	reg := NewRegistry(Options{Platform: PlatformCasePreserving})

	before := reg.Names()
	reg.Refresh(map[string]string{"REGISTRY_EXTRA_ONE": "1", "REGISTRY_EXTRA_TWO": "2"})
	after := reg.Names()

	if len(after) != len(before)+2 {
		t.Errorf("Names() after Refresh has %d entries, want %d", len(after), len(before)+2)
	}
	for _, name := range before {
		if !containsName(after, name) {
			t.Errorf("Refresh dropped previously known name %q", name)
		}
	}
	if !reg.Has("REGISTRY_EXTRA_ONE") || !reg.Has("REGISTRY_EXTRA_TWO") {
		t.Error("Refresh did not add extra names to the cache")
	}
}

func TestRegistry_Refresh_Idempotent(t *testing.T) {
	reg := NewRegistry(Options{Platform: PlatformCasePreserving})

	extra := map[string]string{"REGISTRY_IDEMPOTENT_VAR": "1"}
	reg.Refresh(extra)
	count := len(reg.Names())

	reg.Refresh(extra)
	if got := len(reg.Names()); got != count {
		t.Errorf("second Refresh changed name count: got %d, want %d", got, count)
	}
}

func TestRegistry_LookupExact_CasePreserving(t *testing.T) {
	t.Setenv("Foo", "bar")

	reg := NewRegistry(Options{Platform: PlatformCasePreserving})

	if got, ok := reg.LookupExact("Foo").Get(); !ok || got != "bar" {
		t.Errorf("LookupExact(Foo) = (%q, %v), want (bar, true)", got, ok)
	}

	// The literal casing must match: FOO is a different variable.
	if v := reg.LookupExact("FOO"); v.Found {
		t.Errorf("LookupExact(FOO) = %q, want missing", v.Raw)
	}
}

func TestRegistry_LookupExact_CaseNormalized(t *testing.T) {
	t.Setenv("NORMALIZED_LOOKUP_VAR", "bar")

	reg := NewRegistry(Options{Platform: PlatformCaseNormalized})

	// On a case-normalized platform the input is upper-cased first.
	if got, ok := reg.LookupExact("normalized_lookup_var").Get(); !ok || got != "bar" {
		t.Errorf("LookupExact(normalized_lookup_var) = (%q, %v), want (bar, true)", got, ok)
	}
}

func TestRegistry_LookupExact_SequenceOrder(t *testing.T) {
	t.Setenv("SEQ_FIRST", "first")
	t.Setenv("SEQ_SECOND", "second")

	reg := NewRegistry(Options{Platform: PlatformCasePreserving})

	tests := []struct {
		name     string
		names    []string
		expected string
	}{
		{
			name:     "first candidate wins",
			names:    []string{"SEQ_FIRST", "SEQ_SECOND"},
			expected: "first",
		},
		{
			name:     "absent candidates are skipped",
			names:    []string{"SEQ_ABSENT", "SEQ_SECOND"},
			expected: "second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := reg.LookupExact(tt.names...).Get()
			if !ok || got != tt.expected {
				t.Errorf("LookupExact(%v) = (%q, %v), want (%q, true)", tt.names, got, ok, tt.expected)
			}
		})
	}

	if v := reg.LookupExact("SEQ_ABSENT", "SEQ_ALSO_ABSENT"); v.Found {
		t.Errorf("LookupExact with no matches = %q, want missing", v.Raw)
	}
}

func TestRegistry_EmptyStringIsFound(t *testing.T) {
	t.Setenv("EMPTY_BUT_SET", "")

	reg := NewRegistry(Options{Platform: PlatformCasePreserving})

	v := reg.LookupExact("EMPTY_BUT_SET")
	if !v.Found {
		t.Fatal("LookupExact(EMPTY_BUT_SET) = missing, want found empty string")
	}
	if v.Raw != "" {
		t.Errorf("LookupExact(EMPTY_BUT_SET) = %q, want empty string", v.Raw)
	}
}

func TestRegistry_StaleNameIsMiss(t *testing.T) {
	reg := NewRegistry(Options{Platform: PlatformCasePreserving})

	// Refresh with a name that was never set in the live environment:
	// the name is cached, but a read keyed by it must miss.
	reg.Refresh(map[string]string{"STALE_ONLY_IN_CACHE": "cached"})

	if !reg.Has("STALE_ONLY_IN_CACHE") {
		t.Fatal("Has(STALE_ONLY_IN_CACHE) = false after Refresh")
	}
	if v := reg.LookupExact("STALE_ONLY_IN_CACHE"); v.Found {
		t.Errorf("LookupExact(STALE_ONLY_IN_CACHE) = %q, want missing (live read is authoritative)", v.Raw)
	}
}

func TestRegistry_CleanedIndex_ExtendedByRefresh(t *testing.T) {
	t.Setenv("CLEANED_SEED_VAR", "seed")

	reg := NewRegistry(Options{Platform: PlatformCasePreserving})

	// Build the index, then refresh with a new live variable.
	if v := reg.lookupCleaned("cleaned-seed-var"); !v.Found {
		t.Fatal("lookupCleaned(cleaned-seed-var) = missing, want found")
	}

	t.Setenv("CLEANED_LATER_VAR", "later")
	reg.Refresh(nil)

	got, ok := reg.lookupCleaned("cleanedLaterVar").Get()
	if !ok || got != "later" {
		t.Errorf("lookupCleaned(cleanedLaterVar) = (%q, %v), want (later, true)", got, ok)
	}
}

func TestRegistry_CleanedIndex_LazyBuild(t *testing.T) {
	reg := NewRegistry(Options{Platform: PlatformCasePreserving})

	reg.Names()
	reg.mu.RLock()
	built := reg.cleaned != nil
	reg.mu.RUnlock()
	if built {
		t.Error("cleaned index built before first cleaned lookup")
	}

	reg.lookupCleaned("anything")
	reg.mu.RLock()
	built = reg.cleaned != nil
	reg.mu.RUnlock()
	if !built {
		t.Error("cleaned index not built by first cleaned lookup")
	}
}

func TestRegistry_ConcurrentReadsAndRefresh(t *testing.T) {
	t.Setenv("CONCURRENT_BASE_VAR", "base")

	reg := NewRegistry(Options{Platform: PlatformCasePreserving})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				reg.LookupExact("CONCURRENT_BASE_VAR")
				reg.lookupCleaned("concurrent-base-var")
				reg.Has("CONCURRENT_BASE_VAR")
			}
		}()
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				reg.Refresh(map[string]string{
					fmt.Sprintf("CONCURRENT_EXTRA_%d_%d", n, j): "x",
				})
			}
		}(i)
	}
	wg.Wait()

	if v := reg.LookupExact("CONCURRENT_BASE_VAR"); !v.Found {
		t.Error("CONCURRENT_BASE_VAR lost after concurrent refreshes")
	}
}

func containsName(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}
