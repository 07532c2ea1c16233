// Package version implements the two fixed-width version types Factorix
// compares and serializes: the three-component MOD version and the
// four-component game version, plus the requirement predicate used by
// dependency resolution.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports a version string that does not match the expected
// grammar or whose components overflow their typed width.
type ParseError struct {
	Input string
	Kind  string // "mod" or "game"
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("version: invalid %s version %q: %v", e.Kind, e.Input, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// ModVersion is the game's three-component unsigned-8 MOD version.
type ModVersion struct {
	Major, Minor, Patch uint8
}

// NewModVersion constructs a ModVersion, rejecting components that would
// need more than 8 bits (callers should not reach this; the type already
// enforces the width, this guards callers building from wider integers).
func NewModVersion(major, minor, patch int) (ModVersion, error) {
	if major < 0 || major > 255 || minor < 0 || minor > 255 || patch < 0 || patch > 255 {
		return ModVersion{}, fmt.Errorf("version: mod version component out of range [0,255]: %d.%d.%d", major, minor, patch)
	}
	return ModVersion{Major: uint8(major), Minor: uint8(minor), Patch: uint8(patch)}, nil
}

// ParseModVersion parses "N.N.N".
func ParseModVersion(s string) (ModVersion, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return ModVersion{}, &ParseError{Input: s, Kind: "mod", Cause: fmt.Errorf("expected 3 dot-separated components, got %d", len(parts))}
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 {
			return ModVersion{}, &ParseError{Input: s, Kind: "mod", Cause: fmt.Errorf("component %q out of range [0,255]", p)}
		}
		nums[i] = n
	}
	return ModVersion{Major: uint8(nums[0]), Minor: uint8(nums[1]), Patch: uint8(nums[2])}, nil
}

// String renders "N.N.N".
func (v ModVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0, 1 comparing v to other, component-wise.
func (v ModVersion) Compare(other ModVersion) int {
	if c := cmpU8(v.Major, other.Major); c != 0 {
		return c
	}
	if c := cmpU8(v.Minor, other.Minor); c != 0 {
		return c
	}
	return cmpU8(v.Patch, other.Patch)
}

// Equal reports component-wise equality.
func (v ModVersion) Equal(other ModVersion) bool { return v.Compare(other) == 0 }

// Less reports whether v sorts strictly before other.
func (v ModVersion) Less(other ModVersion) bool { return v.Compare(other) < 0 }

func cmpU8(a, b uint8) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// GameVersion is the four-component unsigned-16 engine version.
type GameVersion struct {
	Major, Minor, Patch, Build uint16
}

// ParseGameVersion parses "N.N.N[-N]"; an absent build component becomes 0.
func ParseGameVersion(s string) (GameVersion, error) {
	main := s
	build := "0"
	if idx := strings.IndexByte(s, '-'); idx >= 0 {
		main = s[:idx]
		build = s[idx+1:]
	}
	parts := strings.Split(main, ".")
	if len(parts) != 3 {
		return GameVersion{}, &ParseError{Input: s, Kind: "game", Cause: fmt.Errorf("expected 3 dot-separated components before an optional '-build', got %d", len(parts))}
	}
	nums := make([]int, 4)
	allParts := append(append([]string{}, parts...), build)
	for i, p := range allParts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 65535 {
			return GameVersion{}, &ParseError{Input: s, Kind: "game", Cause: fmt.Errorf("component %q out of range [0,65535]", p)}
		}
		nums[i] = n
	}
	return GameVersion{
		Major: uint16(nums[0]),
		Minor: uint16(nums[1]),
		Patch: uint16(nums[2]),
		Build: uint16(nums[3]),
	}, nil
}

// String renders "N.N.N-N"; absent build is 0.
func (v GameVersion) String() string {
	return fmt.Sprintf("%d.%d.%d-%d", v.Major, v.Minor, v.Patch, v.Build)
}

// Compare returns -1, 0, 1 comparing v to other, component-wise.
func (v GameVersion) Compare(other GameVersion) int {
	if c := cmpU16(v.Major, other.Major); c != 0 {
		return c
	}
	if c := cmpU16(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := cmpU16(v.Patch, other.Patch); c != 0 {
		return c
	}
	return cmpU16(v.Build, other.Build)
}

// Equal reports component-wise equality.
func (v GameVersion) Equal(other GameVersion) bool { return v.Compare(other) == 0 }

func cmpU16(a, b uint16) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Operator is a version-requirement comparison operator.
type Operator string

const (
	OpLess           Operator = "<"
	OpLessOrEqual    Operator = "<="
	OpEqual          Operator = "="
	OpGreaterOrEqual Operator = ">="
	OpGreater        Operator = ">"
)

// orderedOperators lists operators longest-first so a greedy scanner never
// splits ">=" into ">" followed by "=".
var orderedOperators = []Operator{OpGreaterOrEqual, OpLessOrEqual, OpGreater, OpLess, OpEqual}

// ParseOperator scans the longest operator prefix of s, returning the
// operator and the remainder of the string.
func ParseOperator(s string) (Operator, string, bool) {
	for _, op := range orderedOperators {
		if strings.HasPrefix(s, string(op)) {
			return op, s[len(op):], true
		}
	}
	return "", s, false
}

// String returns the operator's literal token.
func (o Operator) String() string { return string(o) }

// Requirement pairs an operator with the version it constrains against.
type Requirement struct {
	Operator Operator
	Version  ModVersion
}

// Satisfies evaluates `candidate operator requirement.Version`.
func (r Requirement) Satisfies(candidate ModVersion) bool {
	c := candidate.Compare(r.Version)
	switch r.Operator {
	case OpLess:
		return c < 0
	case OpLessOrEqual:
		return c <= 0
	case OpEqual:
		return c == 0
	case OpGreaterOrEqual:
		return c >= 0
	case OpGreater:
		return c > 0
	default:
		return false
	}
}

// String renders "<op> <version>", e.g. ">= 1.2.3".
func (r Requirement) String() string {
	return fmt.Sprintf("%s %s", r.Operator, r.Version)
}
