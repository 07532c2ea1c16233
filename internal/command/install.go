package command

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"factorix/internal/dependency"
	"factorix/internal/graph"
	"factorix/internal/modlist"
	"factorix/internal/portal"
	"factorix/internal/version"
)

// installTarget is one MOD this Install call must fetch: its chosen
// release and the path it should land at in the mods directory.
type installTarget struct {
	modID   version.ModID
	release portal.Release
	outPath string
}

// Install resolves specs (each "name" or "name@version") against the
// portal, recursively pulls in required dependencies not already
// installed, downloads every resolved release in parallel (bounded by
// svc.Jobs), and enables the newly installed MODs in the mod list.
func Install(ctx context.Context, svc *Services, st *State, specs []string) error {
	if err := requireValid(st); err != nil {
		return err
	}

	var targets []installTarget
	seen := map[string]bool{}

	var resolve func(name string, wantVersion string) error
	resolve = func(name string, wantVersion string) error {
		modID := version.ModID(name)
		if modID.IsBase() {
			return nil
		}
		key := modID.Key()
		if seen[key] {
			return nil
		}
		seen[key] = true

		if st.Graph.HasNode(modID) && wantVersion == "" {
			return nil
		}

		info, err := svc.Portal.GetModFull(ctx, name)
		if err != nil {
			return fmt.Errorf("command: resolving %q: %w", name, err)
		}
		release, err := pickRelease(info, wantVersion)
		if err != nil {
			return fmt.Errorf("command: resolving %q: %w", name, err)
		}
		ver, err := version.ParseModVersion(release.Version)
		if err != nil {
			return fmt.Errorf("command: parsing release version of %q: %w", name, err)
		}

		deps, err := dependency.ParseList(release.InfoJSON.Dependencies)
		if err != nil {
			return fmt.Errorf("command: parsing dependencies of %q: %w", name, err)
		}

		if !st.Graph.HasNode(modID) {
			if err := st.Graph.AddUninstalled(modID, ver, deps, graph.PlanInstall); err != nil {
				return fmt.Errorf("command: adding %q to graph: %w", name, err)
			}
		}

		outPath := filepath.Join(svc.Runtime.ModsDir, release.FileName)
		targets = append(targets, installTarget{modID: modID, release: release, outPath: outPath})

		for _, entry := range deps.All() {
			if entry.Kind != dependency.Required || entry.ModID.IsBase() {
				continue
			}
			if st.Graph.HasNode(entry.ModID) {
				continue
			}
			if err := resolve(entry.ModID.String(), ""); err != nil {
				return err
			}
		}
		return nil
	}

	for _, spec := range specs {
		name, wantVersion := splitSpec(spec)
		if err := resolve(name, wantVersion); err != nil {
			return err
		}
	}

	if len(targets) == 0 {
		return nil
	}

	targets = orderTargets(st.Graph, targets)

	jobs := svc.Jobs
	if jobs < 1 {
		jobs = 1
	}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)
	for _, t := range targets {
		t := t
		eg.Go(func() error {
			if svc.CacheDL != nil {
				dlURL, err := portal.BuildDownloadURL(t.release, svc.Config.Username, svc.Config.Token)
				if err != nil {
					return err
				}
				return svc.HTTP.CachedDownload(egCtx, svc.CacheDL, dlURL, t.outPath, t.release.Sha1)
			}
			return svc.Portal.DownloadMod(egCtx, t.release, t.outPath)
		})
	}
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("command: downloading mods: %w", err)
	}

	for _, t := range targets {
		n, _ := st.Graph.Node(t.modID)
		ver := n.Version
		st.Graph.MutateNode(t.modID, func(node *graph.Node) {
			node.Enabled = true
			node.Installed = true
			node.PlannedOp = graph.NoOp
		})
		entry, _ := st.ModList.Get(t.modID)
		entry.ModID = t.modID
		entry.Enabled = true
		entry.Version = &ver
		st.ModList.Upsert(entry)
	}

	return modlist.Save(svc.Runtime.ModListPath, st.ModList, svc.Config.BackupExtension)
}

// orderTargets sorts targets into the graph's topological order, so
// dependencies start downloading (and land in mod-list.json) before the
// dependents that need them. Falls back to resolve order if the graph
// turns out to be cyclic, which requireValid should already have caught.
func orderTargets(g *graph.Graph, targets []installTarget) []installTarget {
	order, err := g.TopologicalOrder()
	if err != nil {
		return targets
	}

	index := make(map[string]int, len(targets))
	for i, t := range targets {
		index[t.modID.Key()] = i
	}

	ordered := make([]installTarget, 0, len(targets))
	seen := make(map[string]bool, len(targets))
	for _, id := range order {
		if i, ok := index[id.Key()]; ok && !seen[id.Key()] {
			ordered = append(ordered, targets[i])
			seen[id.Key()] = true
		}
	}
	for _, t := range targets {
		if !seen[t.modID.Key()] {
			ordered = append(ordered, t)
		}
	}
	return ordered
}

// splitSpec breaks "name@version" into its parts; a bare "name" returns
// an empty version, meaning "pick the latest release."
func splitSpec(spec string) (name, wantVersion string) {
	if idx := strings.LastIndexByte(spec, '@'); idx > 0 {
		return spec[:idx], spec[idx+1:]
	}
	return spec, ""
}

// pickRelease selects wantVersion from info's releases, or the release
// with the latest ReleasedAt if wantVersion is empty.
func pickRelease(info portal.ModInfo, wantVersion string) (portal.Release, error) {
	if len(info.Releases) == 0 {
		return portal.Release{}, fmt.Errorf("%q has no published releases", info.Name)
	}
	if wantVersion == "" {
		best := info.Releases[0]
		for _, r := range info.Releases[1:] {
			if r.ReleasedAt > best.ReleasedAt {
				best = r
			}
		}
		return best, nil
	}
	for _, r := range info.Releases {
		if r.Version == wantVersion {
			return r, nil
		}
	}
	return portal.Release{}, fmt.Errorf("%q has no release %s", info.Name, wantVersion)
}
