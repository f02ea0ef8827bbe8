package ids

import (
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	id := Generate("task-123", 8)

	if len(id) != 8 {
		t.Fatalf("expected ID length 8, got %d: %q", len(id), id)
	}
	for _, c := range id {
		if !((c >= 'a' && c <= 'z') || (c >= '2' && c <= '7')) {
			t.Errorf("ID contains invalid character %q: %q", c, id)
		}
	}
	if again := Generate("task-123", 8); again != id {
		t.Fatalf("expected deterministic ID, got %q and %q", id, again)
	}
	if Generate("task-123", 0) != "" {
		t.Fatalf("expected empty ID for zero length")
	}
}

func TestForTaskVariesWithTime(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	a := ForTask("Buy milk", now)
	b := ForTask("Buy milk", now.Add(time.Nanosecond))
	if a == b {
		t.Fatalf("expected distinct IDs, got %q twice", a)
	}
	if len(a) != DefaultLength {
		t.Fatalf("expected length %d, got %d", DefaultLength, len(a))
	}
}

func TestUniquePrefixLengths(t *testing.T) {
	lengths := UniquePrefixLengths([]string{"2u3iutfd", "2a9k1111", "abc12345"})

	if got := lengths["2u3iutfd"]; got != 2 {
		t.Fatalf("expected 2u3iutfd prefix length 2, got %d", got)
	}
	if got := lengths["2a9k1111"]; got != 2 {
		t.Fatalf("expected 2a9k1111 prefix length 2, got %d", got)
	}
	if got := lengths["abc12345"]; got != 1 {
		t.Fatalf("expected abc12345 prefix length 1, got %d", got)
	}
}

func TestUniquePrefixLengthsIsCaseInsensitive(t *testing.T) {
	lengths := UniquePrefixLengths([]string{"Abc", "aBD"})

	if got := lengths["abc"]; got != 3 {
		t.Fatalf("expected abc prefix length 3, got %d", got)
	}
	if got := lengths["abd"]; got != 3 {
		t.Fatalf("expected abd prefix length 3, got %d", got)
	}
}

func TestUniquePrefixLengthsSkipsDuplicatesAndEmpty(t *testing.T) {
	lengths := UniquePrefixLengths([]string{"abc", "", "ABC"})

	if len(lengths) != 1 {
		t.Fatalf("expected 1 unique ID, got %d", len(lengths))
	}
	if got := lengths["abc"]; got != 1 {
		t.Fatalf("expected abc prefix length 1, got %d", got)
	}
}

func TestUniquePrefixLengthsWhenOneIDPrefixesAnother(t *testing.T) {
	lengths := UniquePrefixLengths([]string{"ab", "abc"})
	if got := lengths["ab"]; got != 2 {
		t.Fatalf("expected ab prefix length 2, got %d", got)
	}
	if got := lengths["abc"]; got != 3 {
		t.Fatalf("expected abc prefix length 3, got %d", got)
	}
}
