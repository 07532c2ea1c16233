package command

import "factorix/internal/validate"

// Check runs the validate phase and returns its report. Unlike every
// other command, check does not reject an invalid current state — an
// invalid state is exactly what it reports.
func Check(svc *Services, st *State) validate.Result {
	return validate.Validate(st.Graph, st.ModList, st.OtherVersions)
}
