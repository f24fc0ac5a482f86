package colornames

import "testing"

func TestLookupCaseInsensitive(t *testing.T) {
	for _, name := range []string{"Red", "RED", "red", " red "} {
		if code, ok := Lookup(name); !ok || code != "31" {
			t.Fatalf("Lookup(%q) = (%q, %v), want (31, true)", name, code, ok)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, ok := Lookup("periwinkle"); ok {
		t.Fatal("periwinkle should not be in the closed set")
	}
}

func TestResolveFallsBackToDefault(t *testing.T) {
	if got := Resolve("nonexistent"); got != table[Default] {
		t.Fatalf("Resolve(unknown) = %q, want default %q", got, table[Default])
	}
	if got := Resolve("Green"); got != "32" {
		t.Fatalf("Resolve(Green) = %q, want 32", got)
	}
}

func TestValid(t *testing.T) {
	if !Valid("white") {
		t.Fatal("white should be valid")
	}
	if Valid("") {
		t.Fatal("empty string should not be valid")
	}
}

func TestAllClosedSetNamesPresent(t *testing.T) {
	names := []string{
		"reset", "black", "red", "green", "yellow", "blue", "magenta",
		"cyan", "gray", "darkgray", "lightred", "lightgreen",
		"lightyellow", "lightblue", "lightmagenta", "lightcyan", "white",
	}
	for _, n := range names {
		if !Valid(n) {
			t.Fatalf("closed-set name %q missing from table", n)
		}
	}
}
