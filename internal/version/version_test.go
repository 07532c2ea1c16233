package version

import "testing"

func TestModVersionRoundtrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"zero", "0.0.0"},
		{"typical", "1.2.3"},
		{"max components", "255.255.255"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseModVersion(tt.input)
			if err != nil {
				t.Fatalf("ParseModVersion(%q) returned unexpected error: %v", tt.input, err)
			}
			if got := v.String(); got != tt.input {
				t.Errorf("String() = %q; want %q", got, tt.input)
			}
		})
	}
}

func TestModVersionParseRejectsOutOfRangeAndMalformed(t *testing.T) {
	tests := []string{"256.0.0", "0.256.0", "0.0.999", "1.2", "1.2.3.4", "a.b.c"}
	for _, in := range tests {
		if _, err := ParseModVersion(in); err == nil {
			t.Errorf("ParseModVersion(%q) expected error, got none", in)
		}
	}
}

func TestModVersionCompare(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected int
	}{
		{"equal", "1.2.3", "1.2.3", 0},
		{"major less", "1.2.3", "2.0.0", -1},
		{"minor less", "1.2.3", "1.3.0", -1},
		{"patch less", "1.2.3", "1.2.4", -1},
		{"greater", "2.0.0", "1.9.9", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := ParseModVersion(tt.a)
			b, _ := ParseModVersion(tt.b)
			if got := a.Compare(b); got != tt.expected {
				t.Errorf("Compare(%s, %s) = %d; want %d", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestGameVersionRoundtrip(t *testing.T) {
	tests := []struct {
		name, input, expected string
	}{
		{"explicit build", "1.1.110-0", "1.1.110-0"},
		{"absent build defaults to zero", "1.1.110", "1.1.110-0"},
		{"nonzero build", "1.1.110-5", "1.1.110-5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseGameVersion(tt.input)
			if err != nil {
				t.Fatalf("ParseGameVersion(%q) returned unexpected error: %v", tt.input, err)
			}
			if got := v.String(); got != tt.expected {
				t.Errorf("String() = %q; want %q", got, tt.expected)
			}
		})
	}
}

func TestParseOperatorLongestFirst(t *testing.T) {
	tests := []struct {
		input       string
		wantOp      Operator
		wantRemains string
	}{
		{">=1.2.3", OpGreaterOrEqual, "1.2.3"},
		{"<=1.2.3", OpLessOrEqual, "1.2.3"},
		{">1.2.3", OpGreater, "1.2.3"},
		{"<1.2.3", OpLess, "1.2.3"},
		{"=1.2.3", OpEqual, "1.2.3"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			op, rest, ok := ParseOperator(tt.input)
			if !ok {
				t.Fatalf("ParseOperator(%q) failed to match", tt.input)
			}
			if op != tt.wantOp || rest != tt.wantRemains {
				t.Errorf("ParseOperator(%q) = (%q, %q); want (%q, %q)", tt.input, op, rest, tt.wantOp, tt.wantRemains)
			}
		})
	}
}

func TestRequirementSatisfies(t *testing.T) {
	req := Requirement{Operator: OpGreaterOrEqual, Version: ModVersion{Major: 1, Minor: 2, Patch: 0}}
	tests := []struct {
		candidate string
		expected  bool
	}{
		{"1.2.0", true},
		{"1.3.0", true},
		{"1.1.9", false},
	}
	for _, tt := range tests {
		t.Run(tt.candidate, func(t *testing.T) {
			c, _ := ParseModVersion(tt.candidate)
			if got := req.Satisfies(c); got != tt.expected {
				t.Errorf("Satisfies(%s) = %v; want %v", tt.candidate, got, tt.expected)
			}
		})
	}
}

func TestModIDOrdering(t *testing.T) {
	tests := []struct {
		name     string
		a, b     ModID
		expected bool
	}{
		{"base before others", "base", "alpha-mod", true},
		{"others never before base", "alpha-mod", "base", false},
		{"case-insensitive lex", "Alpha", "beta", true},
		{"base case-insensitive", "Base", "zeta", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Less(tt.b); got != tt.expected {
				t.Errorf("%q.Less(%q) = %v; want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestModIDPredicates(t *testing.T) {
	if !ModID("base").IsBase() || !ModID("BASE").IsBase() {
		t.Error("expected base (any case) to be IsBase")
	}
	if ModID("space-age").IsBase() {
		t.Error("space-age should not be IsBase")
	}
	if !ModID("space-age").IsExpansion() {
		t.Error("expected space-age to be IsExpansion")
	}
}
