package validate

import (
	"testing"

	"factorix/internal/dependency"
	"factorix/internal/graph"
	"factorix/internal/modlist"
	"factorix/internal/version"
)

func mv(s string) version.ModVersion {
	v, err := version.ParseModVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func req(op version.Operator, s string) *version.Requirement {
	return &version.Requirement{Operator: op, Version: mv(s)}
}

// TestScenario3GraphValidation reproduces the concrete end-to-end scenario
// from the specification: A@1.0.0 enabled depends on B >= 2.0.0; B@1.0.0
// enabled; C@1.0.0 disabled; A also depends on C required.
func TestScenario3GraphValidation(t *testing.T) {
	g := graph.New()
	_ = g.AddNode(graph.Node{ModID: "A", Version: mv("1.0.0"), Enabled: true, Installed: true})
	_ = g.AddNode(graph.Node{ModID: "B", Version: mv("1.0.0"), Enabled: true, Installed: true})
	_ = g.AddNode(graph.Node{ModID: "C", Version: mv("1.0.0"), Enabled: false, Installed: true})
	_ = g.AddEdge(graph.Edge{From: "A", To: "B", Kind: dependency.Required, Requirement: req(version.OpGreaterOrEqual, "2.0.0")})
	_ = g.AddEdge(graph.Edge{From: "A", To: "C", Kind: dependency.Required})

	res := Validate(g, nil, nil)

	var gotMismatch, gotDisabled bool
	for _, f := range res.Errors {
		switch {
		case f.Code == VersionMismatch && f.ModID == "A":
			gotMismatch = true
		case f.Code == DisabledDependency && f.ModID == "A":
			gotDisabled = true
		}
	}
	if !gotMismatch {
		t.Error("expected a VERSION_MISMATCH error for A's dependency on B")
	}
	if !gotDisabled {
		t.Error("expected a DISABLED_DEPENDENCY error for A's dependency on C")
	}
	if len(res.Errors) != 2 {
		t.Errorf("expected exactly 2 errors, got %d: %+v", len(res.Errors), res.Errors)
	}
}

func TestMissingDependency(t *testing.T) {
	g := graph.New()
	_ = g.AddNode(graph.Node{ModID: "A", Enabled: true, Installed: true})
	_ = g.AddEdge(graph.Edge{From: "A", To: "ghost", Kind: dependency.Required})

	res := Validate(g, nil, nil)
	if len(res.Errors) != 1 || res.Errors[0].Code != MissingDependency {
		t.Fatalf("expected one MISSING_DEPENDENCY error, got %+v", res.Errors)
	}
}

func TestConflict(t *testing.T) {
	g := graph.New()
	_ = g.AddNode(graph.Node{ModID: "A", Enabled: true, Installed: true})
	_ = g.AddNode(graph.Node{ModID: "B", Enabled: true, Installed: true})
	_ = g.AddEdge(graph.Edge{From: "A", To: "B", Kind: dependency.Incompatible})

	res := Validate(g, nil, nil)
	if len(res.Errors) != 1 || res.Errors[0].Code != Conflict {
		t.Fatalf("expected one CONFLICT error, got %+v", res.Errors)
	}
}

func TestCircularDependency(t *testing.T) {
	g := graph.New()
	for _, id := range []version.ModID{"a", "b", "c"} {
		_ = g.AddNode(graph.Node{ModID: id, Enabled: true, Installed: true})
	}
	_ = g.AddEdge(graph.Edge{From: "a", To: "b", Kind: dependency.Required})
	_ = g.AddEdge(graph.Edge{From: "b", To: "c", Kind: dependency.Required})
	_ = g.AddEdge(graph.Edge{From: "c", To: "a", Kind: dependency.Required})

	res := Validate(g, nil, nil)
	if len(res.Errors) != 1 || res.Errors[0].Code != CircularDependency {
		t.Fatalf("expected one CIRCULAR_DEPENDENCY error, got %+v", res.Errors)
	}
}

func TestModListWarnings(t *testing.T) {
	g := graph.New()
	_ = g.AddNode(graph.Node{ModID: "installed-only", Enabled: true, Installed: true})

	ml := modlist.New(
		modlist.Entry{ModID: "base", Enabled: true},
		modlist.Entry{ModID: "listed-only", Enabled: true},
	)

	res := Validate(g, ml, nil)

	var sawInListNotInstalled, sawInstalledNotInList bool
	for _, w := range res.Warnings {
		switch w.Code {
		case ModInListNotInstalled:
			sawInListNotInstalled = true
		case ModInstalledNotInList:
			sawInstalledNotInList = true
		}
	}
	if !sawInListNotInstalled {
		t.Error("expected MOD_IN_LIST_NOT_INSTALLED warning for listed-only")
	}
	if !sawInstalledNotInList {
		t.Error("expected MOD_INSTALLED_NOT_IN_LIST warning for installed-only")
	}
}

func TestVersionMismatchSuggestions(t *testing.T) {
	g := graph.New()
	_ = g.AddNode(graph.Node{ModID: "A", Enabled: true, Installed: true})
	_ = g.AddNode(graph.Node{ModID: "B", Version: mv("1.0.0"), Enabled: true, Installed: true})
	_ = g.AddEdge(graph.Edge{From: "A", To: "B", Kind: dependency.Required, Requirement: req(version.OpGreaterOrEqual, "2.0.0")})

	otherVersions := func(id version.ModID) []version.ModVersion {
		if id == "B" {
			return []version.ModVersion{mv("2.5.0"), mv("0.9.0")}
		}
		return nil
	}

	res := Validate(g, nil, otherVersions)
	if len(res.Suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d: %+v", len(res.Suggestions), res.Suggestions)
	}
}
