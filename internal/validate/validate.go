// Package validate produces an error/warning/suggestion report from a
// dependency graph, optionally cross-checked against a MOD list.
package validate

import (
	"fmt"

	"factorix/internal/dependency"
	"factorix/internal/graph"
	"factorix/internal/modlist"
	"factorix/internal/version"
)

// Code names one kind of finding, matching the literal tokens in the
// specification so CLI output and tests can key off them directly.
type Code string

const (
	CircularDependency      Code = "CIRCULAR_DEPENDENCY"
	MissingDependency       Code = "MISSING_DEPENDENCY"
	DisabledDependency      Code = "DISABLED_DEPENDENCY"
	VersionMismatch         Code = "VERSION_MISMATCH"
	Conflict                Code = "CONFLICT"
	ModInListNotInstalled   Code = "MOD_IN_LIST_NOT_INSTALLED"
	ModInstalledNotInList   Code = "MOD_INSTALLED_NOT_IN_LIST"
)

// Finding is one entry in a ValidationResult stream.
type Finding struct {
	Code    Code
	ModID   version.ModID
	Message string
}

// Result carries the three independent streams a validation pass
// produces. Order within each stream follows graph-insertion order.
type Result struct {
	Errors      []Finding
	Warnings    []Finding
	Suggestions []Finding
}

// OK reports whether no errors were found (warnings/suggestions do not
// affect validity).
func (r Result) OK() bool { return len(r.Errors) == 0 }

// OtherVersionsFunc looks up the other installed versions of a MOD, used
// to build VERSION_MISMATCH suggestions. It returns nil when unknown.
type OtherVersionsFunc func(modID version.ModID) []version.ModVersion

// Validate runs the full validation pass described in the specification
// against g, optionally cross-checking ml (nil to skip the MOD-list
// checks), optionally using otherVersions to generate suggestions for
// VERSION_MISMATCH errors (nil to skip suggestions).
func Validate(g *graph.Graph, ml *modlist.List, otherVersions OtherVersionsFunc) Result {
	var res Result

	if _, comps, _ := g.StronglyConnectedComponents(); len(comps) > 0 {
		for _, comp := range comps {
			res.Errors = append(res.Errors, Finding{
				Code:    CircularDependency,
				Message: fmt.Sprintf("circular dependency among: %v", comp),
			})
		}
	}

	for _, n := range g.Nodes() {
		if !n.Enabled {
			continue
		}
		for _, e := range g.EdgesFrom(n.ModID) {
			switch e.Kind {
			case dependency.Required:
				finding, suggestions := validateRequiredEdge(g, n, e, otherVersions)
				if finding != nil {
					res.Errors = append(res.Errors, *finding)
				}
				res.Suggestions = append(res.Suggestions, suggestions...)
			case dependency.Incompatible:
				if target, ok := g.Node(e.To); ok && target.Enabled {
					res.Errors = append(res.Errors, Finding{
						Code:    Conflict,
						ModID:   n.ModID,
						Message: fmt.Sprintf("%q conflicts with enabled MOD %q; disable one of them", n.ModID, e.To),
					})
				}
			}
		}
	}

	if ml != nil {
		for _, entry := range ml.Entries() {
			if entry.ModID.IsBase() {
				continue
			}
			if !g.HasNode(entry.ModID) {
				res.Warnings = append(res.Warnings, Finding{
					Code:    ModInListNotInstalled,
					ModID:   entry.ModID,
					Message: fmt.Sprintf("%q is listed in the mod list but not installed", entry.ModID),
				})
			}
		}
		for _, n := range g.Nodes() {
			if !ml.Has(n.ModID) {
				res.Warnings = append(res.Warnings, Finding{
					Code:    ModInstalledNotInList,
					ModID:   n.ModID,
					Message: fmt.Sprintf("%q is installed but not present in the mod list", n.ModID),
				})
			}
		}
	}

	return res
}

// validateRequiredEdge checks one enabled node's required edge, returning
// at most one error Finding (MISSING_DEPENDENCY, DISABLED_DEPENDENCY, or
// VERSION_MISMATCH — whichever applies first, per spec §4.3's ordering)
// plus any suggestions attached to a VERSION_MISMATCH.
func validateRequiredEdge(g *graph.Graph, n graph.Node, e graph.Edge, otherVersions OtherVersionsFunc) (*Finding, []Finding) {
	target, ok := g.Node(e.To)
	if !ok {
		return &Finding{
			Code:    MissingDependency,
			ModID:   n.ModID,
			Message: fmt.Sprintf("%q requires %q, which is not installed", n.ModID, e.To),
		}, nil
	}
	if !target.Enabled {
		return &Finding{
			Code:    DisabledDependency,
			ModID:   n.ModID,
			Message: fmt.Sprintf("%q requires %q, which is disabled", n.ModID, e.To),
		}, nil
	}
	if e.Requirement != nil && !e.Requirement.Satisfies(target.Version) {
		finding := &Finding{
			Code:    VersionMismatch,
			ModID:   n.ModID,
			Message: fmt.Sprintf("%s@%s does not satisfy %s (required by %q)", e.To, target.Version, e.Requirement, n.ModID),
		}
		var suggestions []Finding
		if otherVersions != nil {
			for _, v := range otherVersions(e.To) {
				if e.Requirement.Satisfies(v) {
					suggestions = append(suggestions, Finding{
						Code:    VersionMismatch,
						ModID:   e.To,
						Message: fmt.Sprintf("installed version %s of %q would satisfy %s", v, e.To, e.Requirement),
					})
				}
			}
		}
		return finding, suggestions
	}
	return nil, nil
}
