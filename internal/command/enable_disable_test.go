package command

import (
	"testing"

	"factorix/internal/version"
)

func TestEnableRecursivelyEnablesRequiredDependency(t *testing.T) {
	dir := t.TempDir()
	writeModZip(t, dir, "alpha", "1.0.0", `{"name":"alpha","version":"1.0.0","title":"Alpha","author":"me","dependencies":["beta"]}`)
	writeModZip(t, dir, "beta", "1.0.0", `{"name":"beta","version":"1.0.0","title":"Beta","author":"me"}`)
	modListPath := writeModList(t, dir)
	svc := &Services{Runtime: RuntimePaths{ModsDir: dir, ModListPath: modListPath}, Jobs: 1}

	st, err := Load(svc)
	if err != nil {
		t.Fatal(err)
	}
	if err := Enable(svc, st, []string{"alpha"}); err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"alpha", "beta"} {
		entry, ok := st.ModList.Get(version.ModID(id))
		if !ok || !entry.Enabled {
			t.Fatalf("expected %q enabled in mod list, got %+v ok=%v", id, entry, ok)
		}
	}
}

func TestEnableRejectsUnknownMod(t *testing.T) {
	dir := t.TempDir()
	modListPath := writeModList(t, dir)
	svc := &Services{Runtime: RuntimePaths{ModsDir: dir, ModListPath: modListPath}, Jobs: 1}

	st, err := Load(svc)
	if err != nil {
		t.Fatal(err)
	}
	err = Enable(svc, st, []string{"ghost"})
	if err == nil {
		t.Fatal("expected error for unknown mod")
	}
	if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("expected *NotFoundError, got %T: %v", err, err)
	}
}

func TestDisableAlsoDisablesEnabledDependents(t *testing.T) {
	dir := t.TempDir()
	writeModZip(t, dir, "alpha", "1.0.0", `{"name":"alpha","version":"1.0.0","title":"Alpha","author":"me","dependencies":["beta"]}`)
	writeModZip(t, dir, "beta", "1.0.0", `{"name":"beta","version":"1.0.0","title":"Beta","author":"me"}`)
	modListPath := writeModList(t, dir, "alpha", "beta")
	svc := &Services{Runtime: RuntimePaths{ModsDir: dir, ModListPath: modListPath}, Jobs: 1}

	st, err := Load(svc)
	if err != nil {
		t.Fatal(err)
	}
	if err := Disable(svc, st, []string{"beta"}); err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"alpha", "beta"} {
		entry, ok := st.ModList.Get(version.ModID(id))
		if !ok || entry.Enabled {
			t.Fatalf("expected %q disabled in mod list, got %+v ok=%v", id, entry, ok)
		}
	}
}
