package command

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"

	"factorix/internal/dependency"
	"factorix/internal/graph"
	"factorix/internal/modlist"
	"factorix/internal/proptree"
	"factorix/internal/settings"
	"factorix/internal/version"
)

// SaveModEntry is one MOD a save file was created with.
type SaveModEntry struct {
	ModID   version.ModID
	Version version.ModVersion
	CRC     uint32
}

// SaveManifest is everything Sync needs out of a save file: the MOD set
// it was saved with and the startup settings in effect at save time.
type SaveManifest struct {
	GameVersion version.GameVersion
	Mods        []SaveModEntry
	Startup     *settings.File
}

// readSaveModList parses the dat0 mod-list block: game_version, a
// reserved bool, then an optim_u32 count of {string name, mod_version,
// u32 crc} entries. This is the
// header Factorio writes ahead of the per-level property tree; Sync only
// needs this prefix; it stops reading once the list is parsed.
func readSaveModList(data []byte) (version.GameVersion, []SaveModEntry, error) {
	r := proptree.NewReader(data)
	gv, err := r.ReadGameVersion()
	if err != nil {
		return gv, nil, fmt.Errorf("command: reading save game version: %w", err)
	}
	if _, err := r.ReadBool(); err != nil { // reserved, matches the settings envelope
		return gv, nil, fmt.Errorf("command: reading save header: %w", err)
	}
	count, err := r.ReadOptimU32()
	if err != nil {
		return gv, nil, fmt.Errorf("command: reading save mod count: %w", err)
	}
	mods := make([]SaveModEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		name, err := r.ReadString()
		if err != nil {
			return gv, nil, fmt.Errorf("command: reading save mod name: %w", err)
		}
		v, err := r.ReadModVersion()
		if err != nil {
			return gv, nil, fmt.Errorf("command: reading save mod version: %w", err)
		}
		crc, err := r.ReadU32()
		if err != nil {
			return gv, nil, fmt.Errorf("command: reading save mod crc: %w", err)
		}
		mods = append(mods, SaveModEntry{ModID: version.ModID(name), Version: v, CRC: crc})
	}
	return gv, mods, nil
}

// LoadSaveManifest reads the MOD set and startup settings snapshot out of
// a save archive (zipPath, e.g. "my-save.zip"). It looks for the
// "level.dat0" header (the MOD list) and "level-init.dat" (the startup
// settings, stored in the same envelope format as mod-settings.dat).
func LoadSaveManifest(zipPath string) (*SaveManifest, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("command: opening save %q: %w", zipPath, err)
	}
	defer zr.Close()

	var dat0, init []byte
	for _, f := range zr.File {
		base := path.Base(f.Name)
		switch {
		case strings.EqualFold(base, "level.dat0"):
			dat0, err = readZipEntry(f)
		case strings.EqualFold(base, "level-init.dat"):
			init, err = readZipEntry(f)
		}
		if err != nil {
			return nil, fmt.Errorf("command: reading save entry %q: %w", f.Name, err)
		}
	}
	if dat0 == nil {
		return nil, fmt.Errorf("command: save %q has no level.dat0 entry", zipPath)
	}

	gv, mods, err := readSaveModList(dat0)
	if err != nil {
		return nil, err
	}

	manifest := &SaveManifest{GameVersion: gv, Mods: mods}
	if init != nil {
		startup, err := settings.Decode(init)
		if err != nil {
			return nil, fmt.Errorf("command: decoding save startup settings: %w", err)
		}
		manifest.Startup = startup
	}
	return manifest, nil
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Sync reconciles local MOD state against a save's manifest: MODs the
// save used but that aren't installed are queued for install; MODs that
// conflict (in either edge direction) with a MOD the save expects are
// disabled locally with a warning; the mod list is updated to match the
// save's enabled set (preserving "base"/expansion handling); and the
// settings file's startup section is overwritten from the save's
// snapshot.
type SyncResult struct {
	ToInstall []string
	Disabled  []version.ModID
	Warnings  []string
}

func Sync(svc *Services, st *State, manifest *SaveManifest, settingsPath string) (*SyncResult, error) {
	if err := requireValid(st); err != nil {
		return nil, err
	}

	res := &SyncResult{}

	for _, m := range manifest.Mods {
		if m.ModID.IsBase() || m.ModID.IsExpansion() {
			continue
		}
		if !st.Graph.HasNode(m.ModID) {
			res.ToInstall = append(res.ToInstall, fmt.Sprintf("%s@%s", m.ModID, m.Version))
			if err := st.Graph.AddUninstalled(m.ModID, m.Version, dependency.NewList(), graph.PlanInstall); err != nil {
				return nil, fmt.Errorf("command: planning install of %q: %w", m.ModID, err)
			}
			continue
		}

		for _, e := range st.Graph.EdgesFrom(m.ModID) {
			if e.Kind != dependency.Incompatible {
				continue
			}
			disableIfEnabled(svc, st, e.To, m.ModID, res)
		}
		for _, e := range st.Graph.EdgesTo(m.ModID) {
			if e.Kind != dependency.Incompatible {
				continue
			}
			disableIfEnabled(svc, st, e.From, m.ModID, res)
		}

		entry, _ := st.ModList.Get(m.ModID)
		entry.ModID = m.ModID
		entry.Enabled = true
		v := m.Version
		entry.Version = &v
		st.ModList.Upsert(entry)
		st.Graph.MutateNode(m.ModID, func(node *graph.Node) { node.Enabled = true })
	}

	if err := modlist.Save(svc.Runtime.ModListPath, st.ModList, svc.Config.BackupExtension); err != nil {
		return nil, err
	}

	if manifest.Startup != nil && settingsPath != "" {
		if err := overwriteStartupSection(settingsPath, manifest.Startup); err != nil {
			return nil, err
		}
	}

	return res, nil
}

func disableIfEnabled(svc *Services, st *State, id, because version.ModID, res *SyncResult) {
	n, ok := st.Graph.Node(id)
	if !ok || !n.Enabled {
		return
	}
	st.Graph.MutateNode(id, func(node *graph.Node) { node.Enabled = false; node.PlannedOp = graph.PlanDisable })
	if entry, ok := st.ModList.Get(id); ok {
		entry.Enabled = false
		st.ModList.Upsert(entry)
	}
	res.Disabled = append(res.Disabled, id)
	res.Warnings = append(res.Warnings, fmt.Sprintf("disabled %q: conflicts with %q, which the save requires", id, because))
}

// overwriteStartupSection loads the local mod-settings.dat at
// settingsPath (or starts a fresh file at the save's game version if
// none exists yet), replaces its startup section with every key the
// save's snapshot carries, and saves it back.
func overwriteStartupSection(settingsPath string, saveStartup *settings.File) error {
	local, err := settings.Load(settingsPath)
	if err != nil {
		local = settings.New(saveStartup.GameVersion)
	}

	fresh := settings.New(local.GameVersion)
	var copyErr error
	local.EachPair(func(section settings.Section, key string, v settings.Value) {
		if section != settings.Startup && copyErr == nil {
			copyErr = fresh.Set(section, key, v)
		}
	})
	if copyErr != nil {
		return copyErr
	}
	local = fresh

	keys, err := saveStartup.Keys(settings.Startup)
	if err != nil {
		return err
	}
	for _, k := range keys {
		v, _, err := saveStartup.Get(settings.Startup, k)
		if err != nil {
			return err
		}
		if err := local.Set(settings.Startup, k, v); err != nil {
			return err
		}
	}
	return local.Save(settingsPath)
}
