package command

import (
	"fmt"
	"strings"

	"factorix/internal/validate"
	"factorix/internal/version"
)

// InvalidStateError reports that the load phase's validation found errors
// in the current installation, blocking every command except check.
type InvalidStateError struct {
	Result validate.Result
}

func (e *InvalidStateError) Error() string {
	var b strings.Builder
	b.WriteString("cannot proceed because current MOD installation has validation errors\n")
	for i, f := range e.Result.Errors {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, f.Message)
	}
	return strings.TrimRight(b.String(), "\n")
}

// requireValid runs the validator and fails the command if it found
// errors, per §4.9's "validate (reject if current state is invalid,
// unless the command is check)" phase.
func requireValid(st *State) error {
	res := validate.Validate(st.Graph, st.ModList, st.OtherVersions)
	if !res.OK() {
		return &InvalidStateError{Result: res}
	}
	return nil
}

// NotFoundError reports a command target that names a MOD absent from
// the current graph.
type NotFoundError struct {
	ModID version.ModID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("command: %q is not installed", e.ModID)
}

// ConflictingEdgeError reports an uninstall blocked by an enabled MOD
// outside the target set that still requires one of the targets.
type ConflictingEdgeError struct {
	Dependent version.ModID
	Target    version.ModID
}

func (e *ConflictingEdgeError) Error() string {
	return fmt.Sprintf("command: %q is required by enabled MOD %q; disable or uninstall it first", e.Target, e.Dependent)
}
