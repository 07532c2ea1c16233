package dependency

import "factorix/internal/version"

// List is an ordered sequence of dependency entries with filtered views
// and membership predicates.
type List struct {
	entries []Entry
}

// NewList builds a List preserving the given entry order.
func NewList(entries ...Entry) *List {
	return &List{entries: append([]Entry(nil), entries...)}
}

// ParseList parses each dependency string in order, returning the first
// parse error encountered (if any) alongside whatever entries parsed
// successfully before it.
func ParseList(deps []string) (*List, error) {
	entries := make([]Entry, 0, len(deps))
	for _, s := range deps {
		e, err := Parse(s)
		if err != nil {
			return NewList(entries...), err
		}
		entries = append(entries, e)
	}
	return NewList(entries...), nil
}

// All returns every entry in original order.
func (l *List) All() []Entry { return append([]Entry(nil), l.entries...) }

// filter returns entries matching kind, in original order.
func (l *List) filter(kind Kind) []Entry {
	var out []Entry
	for _, e := range l.entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Required returns only required-kind entries.
func (l *List) Required() []Entry { return l.filter(Required) }

// Optional returns only optional-kind entries (excluding hidden-optional).
func (l *List) Optional() []Entry { return l.filter(Optional) }

// HiddenOptional returns only hidden_optional-kind entries.
func (l *List) HiddenOptional() []Entry { return l.filter(HiddenOptional) }

// Incompatible returns only incompatible-kind entries.
func (l *List) Incompatible() []Entry { return l.filter(Incompatible) }

// LoadNeutral returns only load_neutral-kind entries.
func (l *List) LoadNeutral() []Entry { return l.filter(LoadNeutral) }

// Has reports whether any entry names modID, regardless of kind.
func (l *List) Has(modID version.ModID) bool {
	for _, e := range l.entries {
		if e.ModID.Equal(modID) {
			return true
		}
	}
	return false
}

// Len reports the number of entries.
func (l *List) Len() int { return len(l.entries) }
