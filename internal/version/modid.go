package version

import "strings"

// ModID is a case-insensitive MOD name.
type ModID string

// baseName is the sentinel MOD identifying the unmodded game; it always
// sorts first and is never itself a graph node.
const baseName = "base"

// expansionName is the built-in Space Age expansion.
const expansionName = "space-age"

// IsBase reports whether the identifier is the "base" sentinel.
func (m ModID) IsBase() bool { return strings.EqualFold(string(m), baseName) }

// IsExpansion reports whether the identifier is the "space-age" built-in.
func (m ModID) IsExpansion() bool { return strings.EqualFold(string(m), expansionName) }

// Equal compares two identifiers case-insensitively.
func (m ModID) Equal(other ModID) bool { return strings.EqualFold(string(m), string(other)) }

// Less orders "base" strictly before everything else, falling back to
// case-insensitive lexical order.
func (m ModID) Less(other ModID) bool {
	mBase, oBase := m.IsBase(), other.IsBase()
	switch {
	case mBase && !oBase:
		return true
	case !mBase && oBase:
		return false
	default:
		return strings.ToLower(string(m)) < strings.ToLower(string(other))
	}
}

// Key returns a case-folded key suitable for map lookups.
func (m ModID) Key() string { return strings.ToLower(string(m)) }

// String returns the identifier unchanged.
func (m ModID) String() string { return string(m) }
