package command

import (
	"testing"

	"factorix/internal/portal"
)

func TestSplitSpecSeparatesNameAndVersion(t *testing.T) {
	name, ver := splitSpec("some-mod@1.2.3")
	if name != "some-mod" || ver != "1.2.3" {
		t.Fatalf("got name=%q ver=%q", name, ver)
	}
	name, ver = splitSpec("bare-name")
	if name != "bare-name" || ver != "" {
		t.Fatalf("got name=%q ver=%q", name, ver)
	}
}

func TestPickReleasePrefersExplicitVersion(t *testing.T) {
	info := portal.ModInfo{
		Name: "some-mod",
		Releases: []portal.Release{
			{Version: "1.0.0", ReleasedAt: "2024-01-01T00:00:00Z"},
			{Version: "2.0.0", ReleasedAt: "2025-01-01T00:00:00Z"},
		},
	}
	r, err := pickRelease(info, "1.0.0")
	if err != nil {
		t.Fatal(err)
	}
	if r.Version != "1.0.0" {
		t.Fatalf("expected pinned version 1.0.0, got %s", r.Version)
	}
}

func TestPickReleaseDefaultsToLatestByReleasedAt(t *testing.T) {
	info := portal.ModInfo{
		Name: "some-mod",
		Releases: []portal.Release{
			{Version: "1.0.0", ReleasedAt: "2024-01-01T00:00:00Z"},
			{Version: "2.0.0", ReleasedAt: "2025-01-01T00:00:00Z"},
		},
	}
	r, err := pickRelease(info, "")
	if err != nil {
		t.Fatal(err)
	}
	if r.Version != "2.0.0" {
		t.Fatalf("expected latest version 2.0.0, got %s", r.Version)
	}
}

func TestPickReleaseRejectsUnknownVersion(t *testing.T) {
	info := portal.ModInfo{Name: "some-mod", Releases: []portal.Release{{Version: "1.0.0"}}}
	if _, err := pickRelease(info, "9.9.9"); err == nil {
		t.Fatal("expected error for unknown pinned version")
	}
}

func TestPickReleaseRejectsNoReleases(t *testing.T) {
	if _, err := pickRelease(portal.ModInfo{Name: "empty"}, ""); err == nil {
		t.Fatal("expected error for mod with no releases")
	}
}
