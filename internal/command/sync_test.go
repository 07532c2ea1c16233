package command

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"factorix/internal/proptree"
	"factorix/internal/settings"
	"factorix/internal/version"
)

func buildSaveDat0(t *testing.T, gv version.GameVersion, mods []SaveModEntry) []byte {
	t.Helper()
	w := proptree.NewWriter()
	w.WriteGameVersion(gv)
	w.WriteBool(false)
	w.WriteOptimU32(uint32(len(mods)))
	for _, m := range mods {
		if err := w.WriteString(m.ModID.String()); err != nil {
			t.Fatal(err)
		}
		w.WriteModVersion(m.Version)
		w.WriteU32(m.CRC)
	}
	return w.Bytes()
}

func writeSaveZip(t *testing.T, dir string, dat0 []byte, startup *settings.File) string {
	t.Helper()
	path := filepath.Join(dir, "test-save.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("test-save/level.dat0")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(dat0); err != nil {
		t.Fatal(err)
	}

	if startup != nil {
		initData, err := startup.Encode()
		if err != nil {
			t.Fatal(err)
		}
		iw, err := zw.Create("test-save/level-init.dat")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := iw.Write(initData); err != nil {
			t.Fatal(err)
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSaveManifestParsesModListAndStartup(t *testing.T) {
	dir := t.TempDir()
	gv := version.GameVersion{Major: 1, Minor: 1, Patch: 110, Build: 0}
	modVer, _ := version.ParseModVersion("1.2.3")
	mods := []SaveModEntry{
		{ModID: "base", Version: modVer, CRC: 0},
		{ModID: "some-mod", Version: modVer, CRC: 12345},
	}
	dat0 := buildSaveDat0(t, gv, mods)

	startup := settings.New(gv)
	if err := startup.Set(settings.Startup, "my-setting", settings.Bool(true)); err != nil {
		t.Fatal(err)
	}

	path := writeSaveZip(t, dir, dat0, startup)

	manifest, err := LoadSaveManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	if !manifest.GameVersion.Equal(gv) {
		t.Fatalf("expected game version %v, got %v", gv, manifest.GameVersion)
	}
	if len(manifest.Mods) != 2 || manifest.Mods[1].ModID.String() != "some-mod" {
		t.Fatalf("unexpected mods: %+v", manifest.Mods)
	}
	if manifest.Startup == nil {
		t.Fatal("expected startup settings decoded")
	}
	v, present, err := manifest.Startup.Get(settings.Startup, "my-setting")
	if err != nil || !present || !v.Bool {
		t.Fatalf("expected my-setting=true, got %+v present=%v err=%v", v, present, err)
	}
}

func TestSyncPlansInstallForMissingSaveMod(t *testing.T) {
	dir := t.TempDir()
	modListPath := writeModList(t, dir)
	svc := &Services{Runtime: RuntimePaths{ModsDir: dir, ModListPath: modListPath}, Jobs: 1}

	st, err := Load(svc)
	if err != nil {
		t.Fatal(err)
	}

	modVer, _ := version.ParseModVersion("1.0.0")
	manifest := &SaveManifest{
		GameVersion: version.GameVersion{Major: 1, Minor: 1},
		Mods:        []SaveModEntry{{ModID: "needed-mod", Version: modVer}},
	}

	res, err := Sync(svc, st, manifest, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.ToInstall) != 1 {
		t.Fatalf("expected one planned install, got %+v", res.ToInstall)
	}
	if !st.Graph.HasNode("needed-mod") {
		t.Fatal("expected needed-mod added to graph as uninstalled")
	}
}
