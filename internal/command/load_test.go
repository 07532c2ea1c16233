package command

import (
	"archive/zip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeModZip(t *testing.T, dir, name, ver, infoJSON string) {
	t.Helper()
	path := filepath.Join(dir, name+"_"+ver+".zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create(name + "_" + ver + "/info.json")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(infoJSON)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func writeModList(t *testing.T, dir string, mods ...string) string {
	t.Helper()
	type entry struct {
		Name    string `json:"name"`
		Enabled bool   `json:"enabled"`
	}
	entries := []entry{{Name: "base", Enabled: true}}
	for _, m := range mods {
		entries = append(entries, entry{Name: m, Enabled: true})
	}
	data, err := json.Marshal(struct {
		Mods []entry `json:"mods"`
	}{Mods: entries})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "mod-list.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadBuildsGraphFromInstalledMods(t *testing.T) {
	dir := t.TempDir()
	writeModZip(t, dir, "alpha", "1.0.0", `{"name":"alpha","version":"1.0.0","title":"Alpha","author":"me","dependencies":["beta >= 1.0.0"]}`)
	writeModZip(t, dir, "beta", "1.2.0", `{"name":"beta","version":"1.2.0","title":"Beta","author":"me"}`)

	modListPath := writeModList(t, dir, "alpha", "beta")
	svc := &Services{Runtime: RuntimePaths{ModsDir: dir, ModListPath: modListPath}, Jobs: 1}

	st, err := Load(svc)
	if err != nil {
		t.Fatal(err)
	}

	if !st.Graph.HasNode("alpha") || !st.Graph.HasNode("beta") {
		t.Fatalf("expected both mods in graph")
	}
	edges := st.Graph.EdgesFrom("alpha")
	if len(edges) != 1 || edges[0].To.String() != "beta" {
		t.Fatalf("expected alpha -> beta required edge, got %+v", edges)
	}
}

func TestLoadKeepsHighestVersionAndRecordsOthers(t *testing.T) {
	dir := t.TempDir()
	writeModZip(t, dir, "gamma", "1.0.0", `{"name":"gamma","version":"1.0.0","title":"Gamma","author":"me"}`)
	writeModZip(t, dir, "gamma", "2.0.0", `{"name":"gamma","version":"2.0.0","title":"Gamma","author":"me"}`)

	modListPath := writeModList(t, dir, "gamma")
	svc := &Services{Runtime: RuntimePaths{ModsDir: dir, ModListPath: modListPath}, Jobs: 1}

	st, err := Load(svc)
	if err != nil {
		t.Fatal(err)
	}

	n, ok := st.Graph.Node("gamma")
	if !ok || n.Version.String() != "2.0.0" {
		t.Fatalf("expected kept version 2.0.0, got %+v ok=%v", n, ok)
	}
	others := st.OtherVersions("gamma")
	if len(others) != 1 || others[0].String() != "1.0.0" {
		t.Fatalf("expected shadowed version 1.0.0 recorded, got %+v", others)
	}
}

func TestLoadRecordsInstalledPathForUninstall(t *testing.T) {
	dir := t.TempDir()
	writeModZip(t, dir, "delta", "1.0.0", `{"name":"delta","version":"1.0.0","title":"Delta","author":"me"}`)
	modListPath := writeModList(t, dir, "delta")
	svc := &Services{Runtime: RuntimePaths{ModsDir: dir, ModListPath: modListPath}, Jobs: 1}

	st, err := Load(svc)
	if err != nil {
		t.Fatal(err)
	}
	p, ok := st.InstalledPath("delta")
	if !ok || p != filepath.Join(dir, "delta_1.0.0.zip") {
		t.Fatalf("expected installed path recorded, got %q ok=%v", p, ok)
	}
}
