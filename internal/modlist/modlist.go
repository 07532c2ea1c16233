// Package modlist reads and writes mod-list.json, the user's ordered
// enable/disable registry.
package modlist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"factorix/internal/version"
)

// Entry is one mod-list.json row, preserving insertion order.
type Entry struct {
	ModID   version.ModID
	Enabled bool
	Version *version.ModVersion // nil when the entry names no specific version
}

// List is the ordered contents of mod-list.json. "base" always sorts
// first; remaining entries keep insertion/file order.
type List struct {
	entries []Entry
}

// New builds a List from entries, reordering so that "base" (if present)
// comes first without otherwise disturbing relative order.
func New(entries ...Entry) *List {
	l := &List{entries: append([]Entry(nil), entries...)}
	l.bringBaseFirst()
	return l
}

func (l *List) bringBaseFirst() {
	for i, e := range l.entries {
		if e.ModID.IsBase() {
			if i != 0 {
				base := l.entries[i]
				copy(l.entries[1:i+1], l.entries[:i])
				l.entries[0] = base
			}
			return
		}
	}
}

// Entries returns all entries in file order ("base" first).
func (l *List) Entries() []Entry { return append([]Entry(nil), l.entries...) }

// Has reports whether modID appears in the list.
func (l *List) Has(modID version.ModID) bool {
	for _, e := range l.entries {
		if e.ModID.Equal(modID) {
			return true
		}
	}
	return false
}

// Get returns the entry for modID, if present.
func (l *List) Get(modID version.ModID) (Entry, bool) {
	for _, e := range l.entries {
		if e.ModID.Equal(modID) {
			return e, true
		}
	}
	return Entry{}, false
}

// Upsert inserts or replaces the entry for e.ModID, preserving the
// position of an existing entry and appending new ones at the end
// (before re-sorting "base" to the front).
func (l *List) Upsert(e Entry) {
	for i, existing := range l.entries {
		if existing.ModID.Equal(e.ModID) {
			l.entries[i] = e
			return
		}
	}
	l.entries = append(l.entries, e)
	l.bringBaseFirst()
}

// Remove deletes the entry for modID, if present.
func (l *List) Remove(modID version.ModID) {
	for i, e := range l.entries {
		if e.ModID.Equal(modID) {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return
		}
	}
}

// jsonEntry is the wire shape of one mod-list.json row.
type jsonEntry struct {
	Name    string  `json:"name"`
	Enabled bool    `json:"enabled"`
	Version *string `json:"version,omitempty"`
}

type jsonFile struct {
	Mods []jsonEntry `json:"mods"`
}

// Load reads and parses mod-list.json at path.
func Load(path string) (*List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("modlist: reading %s: %w", path, err)
	}
	var jf jsonFile
	if err := json.Unmarshal(data, &jf); err != nil {
		return nil, fmt.Errorf("modlist: parsing %s: %w", path, err)
	}

	entries := make([]Entry, 0, len(jf.Mods))
	for _, je := range jf.Mods {
		e := Entry{ModID: version.ModID(je.Name), Enabled: je.Enabled}
		if je.Version != nil {
			v, err := version.ParseModVersion(*je.Version)
			if err != nil {
				return nil, fmt.Errorf("modlist: entry %q: %w", je.Name, err)
			}
			e.Version = &v
		}
		entries = append(entries, e)
	}

	return New(entries...), nil
}

// Save writes the list to path via write-to-temp-then-rename, optionally
// keeping a backup of the previous file at path+backupExt (backupExt may
// be empty to skip backup).
func Save(path string, l *List, backupExt string) error {
	out := jsonFile{Mods: make([]jsonEntry, 0, len(l.entries))}
	for _, e := range l.entries {
		je := jsonEntry{Name: e.ModID.String(), Enabled: e.Enabled}
		if e.Version != nil {
			s := e.Version.String()
			je.Version = &s
		}
		out.Mods = append(out.Mods, je)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("modlist: marshalling: %w", err)
	}

	if backupExt != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := copyFile(path, path+backupExt); err != nil {
				return fmt.Errorf("modlist: backing up %s: %w", path, err)
			}
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("modlist: writing temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("modlist: renaming into place: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o600)
}

// EntriesSortedByName returns all entries sorted by ModID ordering
// ("base" first, then case-insensitive lexical), for callers that want a
// deterministic rendering order distinct from raw file order.
func (l *List) EntriesSortedByName() []Entry {
	out := l.Entries()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ModID.Less(out[j].ModID)
	})
	return out
}
