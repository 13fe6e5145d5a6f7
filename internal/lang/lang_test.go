package lang

import "testing"

func TestCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"en", "en"},
		{"English", "en"},
		{"GERMAN", "de"},
		{" french ", "fr"},
		{"portug", "pt"}, // substring tolerance for truncated names
		{"ukrain", "uk"},
		{"auto", "auto"},
		{"", "auto"},
		{"xx", "xx"}, // unknown identifiers pass through
		{"klingon", "klingon"},
	}

	for _, tc := range cases {
		if got := Code(tc.in); got != tc.want {
			t.Errorf("Code(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCodeAmbiguousSubstringIsStable(t *testing.T) {
	// "an" appears in several names; the first alphabetical match
	// (bulgarian) must win on every call.
	for i := 0; i < 100; i++ {
		if got := Code("an"); got != "bg" {
			t.Fatalf("Code(an) = %q on iteration %d, want bg", got, i)
		}
	}
}

func TestName(t *testing.T) {
	if got := Name("de"); got != "german" {
		t.Errorf("Name(de) = %q, want german", got)
	}
	if got := Name("xx"); got != "XX" {
		t.Errorf("Name(xx) = %q, want XX", got)
	}
}

func TestKnown(t *testing.T) {
	if !Known("spanish") {
		t.Error("expected spanish to be known")
	}
	if Known("klingon") {
		t.Error("expected klingon to be unknown")
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if len(names) == 0 {
		t.Fatal("expected non-empty language list")
	}
	for i := 1; i < len(names); i++ {
		if names[i] < names[i-1] {
			t.Fatalf("names not sorted at %d: %q before %q", i, names[i-1], names[i])
		}
	}
}
