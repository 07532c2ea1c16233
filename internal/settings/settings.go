package settings

import (
	"os"

	"factorix/internal/proptree"
	"factorix/internal/version"
)

// Section names the three containers mod-settings.dat is allowed to
// hold, in the order the game itself writes them.
type Section string

const (
	Startup         Section = "startup"
	RuntimeGlobal   Section = "runtime-global"
	RuntimePerUser  Section = "runtime-per-user"
)

var allSections = []Section{Startup, RuntimeGlobal, RuntimePerUser}

func isValidSection(s Section) bool {
	for _, v := range allSections {
		if v == s {
			return true
		}
	}
	return false
}

// File is the in-memory form of a mod-settings.dat: a game version plus
// the three settings sections, each an ordered key->value map.
type File struct {
	GameVersion version.GameVersion
	sections    map[Section]*sectionData
}

type sectionData struct {
	keys   []string
	values map[string]Value
}

func newSectionData() *sectionData {
	return &sectionData{values: map[string]Value{}}
}

// New builds an empty File for the given game version.
func New(gameVersion version.GameVersion) *File {
	f := &File{GameVersion: gameVersion, sections: map[Section]*sectionData{}}
	for _, s := range allSections {
		f.sections[s] = newSectionData()
	}
	return f
}

// Sections lists the three section names, in canonical order.
func (f *File) Sections() []Section { return append([]Section(nil), allSections...) }

// Set inserts or replaces key's value in section, appending to the
// section's key order on first insertion. It returns InvalidSectionError
// for any section name outside the three allowed ones.
func (f *File) Set(section Section, key string, v Value) error {
	sd, ok := f.sections[section]
	if !ok {
		return &InvalidSectionError{Section: string(section)}
	}
	if _, exists := sd.values[key]; !exists {
		sd.keys = append(sd.keys, key)
	}
	sd.values[key] = v
	return nil
}

// Get returns key's value within section and whether it was present.
func (f *File) Get(section Section, key string) (Value, bool, error) {
	sd, ok := f.sections[section]
	if !ok {
		return Value{}, false, &InvalidSectionError{Section: string(section)}
	}
	v, present := sd.values[key]
	return v, present, nil
}

// Keys returns section's keys in insertion order.
func (f *File) Keys(section Section) ([]string, error) {
	sd, ok := f.sections[section]
	if !ok {
		return nil, &InvalidSectionError{Section: string(section)}
	}
	return append([]string(nil), sd.keys...), nil
}

// Size returns the number of settings in section.
func (f *File) Size(section Section) (int, error) {
	sd, ok := f.sections[section]
	if !ok {
		return 0, &InvalidSectionError{Section: string(section)}
	}
	return len(sd.keys), nil
}

// ToMap renders section as a plain map, discarding key order.
func (f *File) ToMap(section Section) (map[string]Value, error) {
	sd, ok := f.sections[section]
	if !ok {
		return nil, &InvalidSectionError{Section: string(section)}
	}
	out := make(map[string]Value, len(sd.values))
	for k, v := range sd.values {
		out[k] = v
	}
	return out, nil
}

// EachPair calls fn for every (section, key, value) triple across all
// three sections, in canonical section order and per-section key order.
func (f *File) EachPair(fn func(section Section, key string, v Value)) {
	for _, s := range allSections {
		sd := f.sections[s]
		for _, k := range sd.keys {
			fn(s, k, sd.values[k])
		}
	}
}

// Encode renders the file as the envelope byte stream:
// game_version | bool(false) | property_tree.
func (f *File) Encode() ([]byte, error) {
	w := proptree.NewWriter()
	w.WriteGameVersion(f.GameVersion)
	w.WriteBool(false) // reserved

	root := proptree.NewDict()
	for _, s := range allSections {
		sd := f.sections[s]
		section := proptree.NewDict()
		for _, k := range sd.keys {
			entry := proptree.NewDict()
			wireVal, err := toWire(sd.values[k])
			if err != nil {
				return nil, err
			}
			entry.Set("value", wireVal)
			section.Set(k, entry)
		}
		root.Set(string(s), section)
	}

	encoded, err := proptree.Encode(root)
	if err != nil {
		return nil, err
	}
	return append(w.Bytes(), encoded...), nil
}

// Decode parses the envelope byte stream produced by Encode.
func Decode(data []byte) (*File, error) {
	r := proptree.NewReader(data)
	gv, err := r.ReadGameVersion()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadBool(); err != nil { // reserved
		return nil, err
	}

	rest := data[len(data)-r.Remaining():]
	rootVal, trailing, err := proptree.Decode(rest)
	if err != nil {
		return nil, err
	}
	if len(trailing) != 0 {
		return nil, &ExtraDataError{Remaining: len(trailing)}
	}

	root, ok := rootVal.(*proptree.Dict)
	if !ok {
		return nil, &InvalidSectionError{Section: "<root>"}
	}

	f := New(gv)
	for _, key := range root.Keys() {
		section := Section(key)
		if !isValidSection(section) {
			return nil, &InvalidSectionError{Section: key}
		}
		sectionVal, _ := root.Get(key)
		sectionDict, ok := sectionVal.(*proptree.Dict)
		if !ok {
			return nil, &InvalidSectionError{Section: key}
		}
		for _, settingKey := range sectionDict.Keys() {
			entryVal, _ := sectionDict.Get(settingKey)
			entryDict, ok := entryVal.(*proptree.Dict)
			if !ok {
				continue
			}
			wireVal, present := entryDict.Get("value")
			if !present {
				continue
			}
			if err := f.Set(section, settingKey, fromWire(wireVal)); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

// Load reads and decodes a mod-settings.dat file from path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Save encodes f and writes it to path.
func (f *File) Save(path string) error {
	data, err := f.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
