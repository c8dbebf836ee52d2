package price

import "testing"

func TestCanonicalName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"wheat", "Wheat"},
		{"Wheat", "Wheat"},
		{"GEHU", "Wheat"},
		{"pyaz", "Onion"},
		{"tur", "Arhar (Tur/Red Gram)(Whole)"},
		{"  paddy  ", "Paddy(Dhan)(Common)"},
		{"dragonfruit", "dragonfruit"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := CanonicalName(tc.in); got != tc.want {
			t.Errorf("CanonicalName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// Normalization must be idempotent: a canonical name maps to itself.
func TestCanonicalNameIdempotent(t *testing.T) {
	inputs := []string{"wheat", "gehu", "paddy", "tur", "mirchi", "unknown thing", "Rice", ""}
	for _, in := range inputs {
		once := CanonicalName(in)
		twice := CanonicalName(once)
		if once != twice {
			t.Errorf("CanonicalName not idempotent for %q: %q then %q", in, once, twice)
		}
	}
	for alias := range commodityAliases {
		once := CanonicalName(alias)
		if twice := CanonicalName(once); once != twice {
			t.Errorf("CanonicalName not idempotent for alias %q: %q then %q", alias, once, twice)
		}
	}
}

func TestResolveState(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Khanna, Punjab", "Punjab"},
		{"ludhiana district punjab", "Punjab"},
		{"Nashik, Maharashtra", "Maharashtra"},
		{"somewhere in Uttar Pradesh", "Uttar Pradesh"},
		{"Ahmedabad, Gujrat", "Gujarat"},
		{"my village", ""},
	}
	for _, tc := range cases {
		if got := ResolveState(tc.in); got != tc.want {
			t.Errorf("ResolveState(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
