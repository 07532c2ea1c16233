package dependency

import (
	"fmt"
	"strings"

	"factorix/internal/version"
)

// ParseError reports a dependency string that does not match the grammar.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dependency: cannot parse %q: %s", e.Input, e.Reason)
}

// prefixKind maps a dependency-string prefix token to its Kind. Longer
// prefixes ("(?)") are checked before shorter ones that would otherwise
// shadow them.
var prefixKind = []struct {
	token string
	kind  Kind
}{
	{"(?)", HiddenOptional},
	{"!", Incompatible},
	{"?", Optional},
	{"~", LoadNeutral},
}

// Parse parses a single dependency-string per the grammar in the
// specification:
//
//	dep      := ws? prefix? ws? name constraint? ws?
//	prefix   := "(?)" | "!" | "?" | "~"
//	name     := alnum_underscore_hyphen ( ws? alnum_underscore_hyphen )*
//	constraint := ws? op ws? version
//	op       := ">=" | "<=" | ">" | "<" | "="
//	version  := digits "." digits ( "." digits )?
//
// A two-component version is read with a patch component of 0.
func Parse(s string) (Entry, error) {
	rest := strings.TrimSpace(s)
	if rest == "" {
		return Entry{}, &ParseError{Input: s, Reason: "empty input"}
	}

	kind := Required
	for _, p := range prefixKind {
		if strings.HasPrefix(rest, p.token) {
			kind = p.kind
			rest = strings.TrimSpace(rest[len(p.token):])
			break
		}
	}

	name, constraint := splitConstraint(rest)
	name = strings.TrimSpace(name)
	if name == "" {
		return Entry{}, &ParseError{Input: s, Reason: "empty name after stripping prefix"}
	}
	if !isValidName(name) {
		return Entry{}, &ParseError{Input: s, Reason: fmt.Sprintf("invalid characters in name %q", name)}
	}

	entry := Entry{ModID: version.ModID(name), Kind: kind}

	if constraint != "" {
		req, err := parseConstraint(constraint)
		if err != nil {
			if errVer, ok := err.(*rangeError); ok {
				// Out-of-range version components: drop the requirement,
				// the parse itself still succeeds.
				_ = errVer
				return entry, nil
			}
			return Entry{}, &ParseError{Input: s, Reason: err.Error()}
		}
		entry.Requirement = &req
	}

	return entry, nil
}

// rangeError marks a constraint version whose components overflow uint8;
// callers drop the requirement instead of failing the whole parse.
type rangeError struct{ inner error }

func (e *rangeError) Error() string { return e.inner.Error() }

// splitConstraint finds the first recognized operator in rest and splits
// it into the (untrimmed) name portion before the operator and the
// (untrimmed) constraint portion starting at the operator. Names never
// contain operator characters, so whitespace before the operator is
// optional. If no operator is found, constraint is empty.
func splitConstraint(rest string) (name, constraint string) {
	for i := 0; i < len(rest); i++ {
		if _, _, ok := version.ParseOperator(rest[i:]); ok {
			return rest[:i], rest[i:]
		}
	}
	return rest, ""
}

func parseConstraint(s string) (version.Requirement, error) {
	s = strings.TrimSpace(s)
	op, rest, ok := version.ParseOperator(s)
	if !ok {
		return version.Requirement{}, fmt.Errorf("unrecognized operator in constraint %q", s)
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return version.Requirement{}, fmt.Errorf("empty version after operator %q", op)
	}
	parts := strings.Split(rest, ".")
	numeric := len(parts) == 2 || len(parts) == 3
	for _, p := range parts {
		if p == "" || strings.Trim(p, "0123456789") != "" {
			numeric = false
		}
	}
	if len(parts) == 2 {
		rest += ".0"
	}
	v, err := version.ParseModVersion(rest)
	if err != nil {
		if numeric {
			return version.Requirement{}, &rangeError{inner: err}
		}
		return version.Requirement{}, err
	}
	return version.Requirement{Operator: op, Version: v}, nil
}

// isValidName reports whether name consists of alphanumeric/underscore/
// hyphen runs separated by single spaces, per the grammar's
// alnum_underscore_hyphen token.
func isValidName(name string) bool {
	if name == "" {
		return false
	}
	prevSpace := false
	for i, r := range name {
		switch {
		case r == ' ':
			if i == 0 || prevSpace {
				return false
			}
			prevSpace = true
		case r == '_' || r == '-' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			prevSpace = false
		default:
			return false
		}
	}
	return !prevSpace
}
