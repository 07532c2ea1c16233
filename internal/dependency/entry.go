// Package dependency parses the MOD dependency-string grammar into typed
// entries and provides ordered, filterable lists of them.
package dependency

import (
	"fmt"

	"factorix/internal/version"
)

// Kind classifies the relationship a dependency entry expresses.
type Kind int

const (
	// Required means the dependent cannot be enabled unless the target is
	// installed, enabled, and version-compatible.
	Required Kind = iota
	// Optional means the dependency only participates when the target
	// happens to be present.
	Optional
	// HiddenOptional behaves like Optional but is not surfaced in UI
	// dependency listings.
	HiddenOptional
	// Incompatible means the two MODs must never be enabled together.
	Incompatible
	// LoadNeutral only affects load order, carrying no enablement
	// constraint.
	LoadNeutral
)

// String renders the kind using the lower_snake_case names from the
// specification.
func (k Kind) String() string {
	switch k {
	case Required:
		return "required"
	case Optional:
		return "optional"
	case HiddenOptional:
		return "hidden_optional"
	case Incompatible:
		return "incompatible"
	case LoadNeutral:
		return "load_neutral"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Entry is one parsed dependency-string: immutable once constructed.
type Entry struct {
	ModID       version.ModID
	Kind        Kind
	Requirement *version.Requirement // nil when the dependency names no version constraint
}
