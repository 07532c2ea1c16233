package command

import (
	"fmt"
	"os"

	"factorix/internal/dependency"
	"factorix/internal/modlist"
	"factorix/internal/version"
)

// Uninstall removes the named MODs' files and mod-list entries, after
// confirming that no enabled MOD outside the target set still requires
// one of them.
func Uninstall(svc *Services, st *State, mods []string) error {
	if err := requireValid(st); err != nil {
		return err
	}

	targets := make(map[string]version.ModID, len(mods))
	for _, name := range mods {
		id := version.ModID(name)
		if !st.Graph.HasNode(id) {
			return &NotFoundError{ModID: id}
		}
		targets[id.Key()] = id
	}

	for _, id := range targets {
		for _, e := range st.Graph.EdgesTo(id) {
			if e.Kind != dependency.Required {
				continue
			}
			if _, isTarget := targets[e.From.Key()]; isTarget {
				continue
			}
			dependent, ok := st.Graph.Node(e.From)
			if !ok || !dependent.Enabled {
				continue
			}
			return &ConflictingEdgeError{Dependent: e.From, Target: id}
		}
	}

	for _, id := range targets {
		if path, ok := st.InstalledPath(id); ok && path != "" {
			if err := os.RemoveAll(path); err != nil {
				return fmt.Errorf("command: removing %q: %w", id, err)
			}
		}
		st.ModList.Remove(id)
	}

	return modlist.Save(svc.Runtime.ModListPath, st.ModList, svc.Config.BackupExtension)
}
