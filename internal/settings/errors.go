package settings

import "fmt"

// InvalidSectionError reports a section name that is neither one of the
// three allowed sections (on decode) nor a section the caller asked for
// (on access).
type InvalidSectionError struct {
	Section string
}

func (e *InvalidSectionError) Error() string {
	return fmt.Sprintf("settings: invalid section %q", e.Section)
}

// ExtraDataError reports trailing bytes left over after decoding the
// envelope's property tree.
type ExtraDataError struct {
	Remaining int
}

func (e *ExtraDataError) Error() string {
	return fmt.Sprintf("settings: %d extra byte(s) after the property tree", e.Remaining)
}
