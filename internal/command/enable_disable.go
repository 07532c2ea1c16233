package command

import (
	"fmt"

	"factorix/internal/dependency"
	"factorix/internal/graph"
	"factorix/internal/modlist"
	"factorix/internal/validate"
	"factorix/internal/version"
)

// Enable marks the named MODs (and, recursively, any disabled installed
// MOD they require) with PlanEnable, validates the plan-only delta, and
// on success rewrites the mod list with every affected toggle.
func Enable(svc *Services, st *State, mods []string) error {
	if err := requireValid(st); err != nil {
		return err
	}

	var touched []version.ModID
	for _, name := range mods {
		id := version.ModID(name)
		if !st.Graph.HasNode(id) {
			return &NotFoundError{ModID: id}
		}
		if err := markEnableRecursive(st.Graph, id, &touched); err != nil {
			return err
		}
	}

	if err := validatePlanDelta(st); err != nil {
		return err
	}

	for _, id := range touched {
		n, _ := st.Graph.Node(id)
		entry, _ := st.ModList.Get(id)
		entry.ModID = id
		entry.Enabled = true
		v := n.Version
		entry.Version = &v
		st.ModList.Upsert(entry)
		st.Graph.MutateNode(id, func(node *graph.Node) { node.Enabled = true })
	}

	return modlist.Save(svc.Runtime.ModListPath, st.ModList, svc.Config.BackupExtension)
}

func markEnableRecursive(g *graph.Graph, id version.ModID, touched *[]version.ModID) error {
	n, ok := g.Node(id)
	if !ok {
		return &NotFoundError{ModID: id}
	}
	if n.Enabled && n.PlannedOp != graph.PlanEnable {
		return nil
	}
	already := false
	for _, t := range *touched {
		if t.Equal(id) {
			already = true
			break
		}
	}
	if !already {
		*touched = append(*touched, id)
	}
	g.MutateNode(id, func(node *graph.Node) { node.PlannedOp = graph.PlanEnable })

	for _, e := range g.EdgesFrom(id) {
		if e.Kind != dependency.Required {
			continue
		}
		target, ok := g.Node(e.To)
		if !ok || target.Enabled {
			continue
		}
		if err := markEnableRecursive(g, e.To, touched); err != nil {
			return err
		}
	}
	return nil
}

// Disable marks the named MODs, and every enabled dependent found via
// FindEnabledDependents, with PlanDisable, then writes the mod list.
func Disable(svc *Services, st *State, mods []string) error {
	if err := requireValid(st); err != nil {
		return err
	}

	var touched []version.ModID
	seen := map[string]bool{}
	var queue []version.ModID
	for _, name := range mods {
		id := version.ModID(name)
		if !st.Graph.HasNode(id) {
			return &NotFoundError{ModID: id}
		}
		queue = append(queue, id)
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id.Key()] {
			continue
		}
		seen[id.Key()] = true
		touched = append(touched, id)
		queue = append(queue, st.Graph.FindEnabledDependents(id)...)
	}

	for _, id := range touched {
		entry, ok := st.ModList.Get(id)
		if !ok {
			entry.ModID = id
		}
		entry.Enabled = false
		st.ModList.Upsert(entry)
		st.Graph.MutateNode(id, func(node *graph.Node) { node.Enabled = false; node.PlannedOp = graph.PlanDisable })
	}

	return modlist.Save(svc.Runtime.ModListPath, st.ModList, svc.Config.BackupExtension)
}

// validatePlanDelta re-validates after marking planned enables and fails
// only on CONFLICT errors. requireValid already rejected any error in the
// state before planning, so every conflict reported here involves a
// newly enabled node. Other error kinds (missing, disabled or
// version-mismatched dependencies) are not checked here.
func validatePlanDelta(st *State) error {
	res := validate.Validate(st.Graph, nil, st.OtherVersions)
	var blocking []string
	for _, f := range res.Errors {
		if f.Code == validate.Conflict {
			blocking = append(blocking, f.Message)
		}
	}
	if len(blocking) > 0 {
		return fmt.Errorf("command: enabling would introduce conflicts: %v", blocking)
	}
	return nil
}
