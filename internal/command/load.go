package command

import (
	"fmt"

	"factorix/internal/dependency"
	"factorix/internal/graph"
	"factorix/internal/modlist"
	"factorix/internal/scanner"
	"factorix/internal/version"
)

// State is one command's loaded local state: the dependency graph built
// from what's installed on disk plus what the mod list records, the mod
// list itself (for rewriting), and enough bookkeeping to answer
// "what other installed versions of this MOD exist" for validator
// suggestions and to locate a MOD's on-disk path for uninstall.
type State struct {
	Graph          *graph.Graph
	ModList        *modlist.List
	installedPaths map[string]string              // ModID.Key() -> on-disk path of the kept (latest) install
	otherVersions  map[string][]version.ModVersion // ModID.Key() -> versions shadowed by the kept install
}

// InstalledPath returns the on-disk path (zip archive or exploded
// directory) of modID's installed copy, if any.
func (s *State) InstalledPath(modID version.ModID) (string, bool) {
	p, ok := s.installedPaths[modID.Key()]
	return p, ok
}

// OtherVersions implements validate.OtherVersionsFunc against the
// versions Load found installed but did not keep as the graph node
// (older zip releases left over from a prior update).
func (s *State) OtherVersions(modID version.ModID) []version.ModVersion {
	return s.otherVersions[modID.Key()]
}

// Load reads the mods directory and mod-list.json into a State: one
// graph node per distinct installed MOD name (the highest version found,
// if more than one release's archive is present), enabled per the mod
// list, with required/optional/incompatible/load_neutral edges parsed
// from each MOD's declared dependencies.
func Load(svc *Services) (*State, error) {
	installed, err := scanner.Scan(svc.Runtime.ModsDir)
	if err != nil {
		return nil, fmt.Errorf("command: scanning mods directory: %w", err)
	}

	ml, err := modlist.Load(svc.Runtime.ModListPath)
	if err != nil {
		return nil, fmt.Errorf("command: loading mod list: %w", err)
	}

	byName := make(map[string][]scanner.Installed)
	var nameOrder []string
	for _, inst := range installed {
		if inst.ModID.IsBase() {
			continue
		}
		key := inst.ModID.Key()
		if _, seen := byName[key]; !seen {
			nameOrder = append(nameOrder, key)
		}
		byName[key] = append(byName[key], inst)
	}

	g := graph.New()
	st := &State{
		Graph:          g,
		ModList:        ml,
		installedPaths: make(map[string]string),
		otherVersions:  make(map[string][]version.ModVersion),
	}

	type pending struct {
		modID   version.ModID
		entries []dependency.Entry
	}
	var pendingEdges []pending

	for _, key := range nameOrder {
		group := byName[key]
		kept := group[0]
		for _, cand := range group[1:] {
			if cand.Version.Compare(kept.Version) > 0 {
				st.otherVersions[key] = append(st.otherVersions[key], kept.Version)
				kept = cand
			} else {
				st.otherVersions[key] = append(st.otherVersions[key], cand.Version)
			}
		}

		enabled := false
		if entry, ok := ml.Get(kept.ModID); ok {
			enabled = entry.Enabled
		}

		if err := g.AddNode(graph.Node{
			ModID:     kept.ModID,
			Version:   kept.Version,
			Enabled:   enabled,
			Installed: true,
		}); err != nil {
			return nil, fmt.Errorf("command: building graph: %w", err)
		}
		st.installedPaths[key] = kept.Path

		depList, err := dependency.ParseList(kept.Manifest.Dependencies)
		if err != nil {
			return nil, fmt.Errorf("command: parsing dependencies of %q: %w", kept.ModID, err)
		}
		pendingEdges = append(pendingEdges, pending{modID: kept.ModID, entries: depList.All()})
	}

	for _, p := range pendingEdges {
		for _, entry := range p.entries {
			if entry.ModID.IsBase() {
				continue
			}
			if err := g.AddEdge(graph.Edge{
				From:        p.modID,
				To:          entry.ModID,
				Kind:        entry.Kind,
				Requirement: entry.Requirement,
			}); err != nil {
				return nil, fmt.Errorf("command: adding dependency edge for %q: %w", p.modID, err)
			}
		}
	}

	return st, nil
}
