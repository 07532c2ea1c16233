package settings

import (
	"testing"

	"factorix/internal/proptree"
	"factorix/internal/version"
)

func TestScenario1SettingsRoundtrip(t *testing.T) {
	gv, err := version.ParseGameVersion("1.1.110-0")
	if err != nil {
		t.Fatal(err)
	}

	f := New(gv)
	mustSet := func(section Section, key string, v Value) {
		t.Helper()
		if err := f.Set(section, key, v); err != nil {
			t.Fatal(err)
		}
	}
	mustSet(Startup, "mod-a-setting-1", Bool(true))
	mustSet(Startup, "mod-a-setting-2", Signed(42))
	mustSet(RuntimeGlobal, "mod-c-setting-2", Color("rgba:ff0000ff"))
	mustSet(RuntimePerUser, "mod-e-setting-2", Bool(false))
	mustSet(RuntimePerUser, "mod-e-setting-3", Double(2.5))

	encoded, err := f.Encode()
	if err != nil {
		t.Fatal(err)
	}

	reloaded, err := Decode(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if !reloaded.GameVersion.Equal(gv) {
		t.Fatalf("game version mismatch: got %s", reloaded.GameVersion)
	}

	check := func(section Section, key string, want Value) {
		t.Helper()
		got, present, err := reloaded.Get(section, key)
		if err != nil || !present {
			t.Fatalf("missing %s/%s: present=%v err=%v", section, key, present, err)
		}
		if !Equal(got, want) {
			t.Fatalf("%s/%s: got %v, want %v", section, key, got, want)
		}
	}
	check(Startup, "mod-a-setting-1", Bool(true))
	check(Startup, "mod-a-setting-2", Signed(42))
	check(RuntimeGlobal, "mod-c-setting-2", Color("rgba:ff0000ff"))
	check(RuntimePerUser, "mod-e-setting-2", Bool(false))
	check(RuntimePerUser, "mod-e-setting-3", Double(2.5))

	gotColor, _, _ := reloaded.Get(RuntimeGlobal, "mod-c-setting-2")
	if gotColor.Str != "rgba:ff0000ff" {
		t.Fatalf("color string not preserved: got %q", gotColor.Str)
	}
	gotInt, _, _ := reloaded.Get(Startup, "mod-a-setting-2")
	if gotInt.Int64() != 42 {
		t.Fatalf("integer value not preserved: got %v", gotInt.Int64())
	}
}

func TestDecodeRejectsUnknownSection(t *testing.T) {
	gv, _ := version.ParseGameVersion("1.1.0")
	f := New(gv)
	_ = f.Set(Startup, "k", Bool(true))
	encoded, err := f.Encode()
	if err != nil {
		t.Fatal(err)
	}

	// Set rejects an unknown section too.
	if err := f.Set(Section("bogus"), "k", Bool(true)); err == nil {
		t.Fatal("expected InvalidSectionError for unknown section")
	}

	if _, err := Decode(encoded); err != nil {
		t.Fatalf("valid stream should decode cleanly: %v", err)
	}

	// A hand-built stream whose root carries a section name outside the
	// allowed three must fail to decode.
	w := proptree.NewWriter()
	w.WriteGameVersion(gv)
	w.WriteBool(false)
	root := proptree.NewDict()
	root.Set("bogus", proptree.NewDict())
	tree, err := proptree.Encode(root)
	if err != nil {
		t.Fatal(err)
	}
	_, err = Decode(append(w.Bytes(), tree...))
	if _, ok := err.(*InvalidSectionError); !ok {
		t.Fatalf("expected InvalidSectionError decoding an unknown section, got %v", err)
	}
}

func TestDecodeRejectsExtraTrailingBytes(t *testing.T) {
	gv, _ := version.ParseGameVersion("1.1.0")
	f := New(gv)
	encoded, err := f.Encode()
	if err != nil {
		t.Fatal(err)
	}
	corrupted := append(encoded, 0x00, 0x01)
	if _, err := Decode(corrupted); err == nil {
		t.Fatal("expected ExtraDataError for trailing bytes")
	} else if _, ok := err.(*ExtraDataError); !ok {
		t.Fatalf("expected ExtraDataError, got %v", err)
	}
}
