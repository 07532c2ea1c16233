package command

import (
	"encoding/json"
	"fmt"
	"os"

	"factorix/internal/settings"
	"factorix/internal/version"
)

// settingsDump is the JSON shape SettingsDump writes and SettingsRestore
// reads: one flat object per section, values rendered through Value's
// Go-level representation (not the wire bytes).
type settingsDump struct {
	GameVersion    string                     `json:"game_version"`
	Startup        map[string]json.RawMessage `json:"startup"`
	RuntimeGlobal  map[string]json.RawMessage `json:"runtime-global"`
	RuntimePerUser map[string]json.RawMessage `json:"runtime-per-user"`
}

// SettingsDump decodes the mod-settings.dat at settingsPath and writes it
// as indented JSON to outPath.
func SettingsDump(settingsPath, outPath string) error {
	f, err := settings.Load(settingsPath)
	if err != nil {
		return fmt.Errorf("command: loading settings: %w", err)
	}

	dump := settingsDump{
		GameVersion:    f.GameVersion.String(),
		Startup:        map[string]json.RawMessage{},
		RuntimeGlobal:  map[string]json.RawMessage{},
		RuntimePerUser: map[string]json.RawMessage{},
	}

	f.EachPair(func(section settings.Section, key string, v settings.Value) {
		raw, encErr := json.Marshal(valueToJSON(v))
		if encErr != nil {
			return
		}
		switch section {
		case settings.Startup:
			dump.Startup[key] = raw
		case settings.RuntimeGlobal:
			dump.RuntimeGlobal[key] = raw
		case settings.RuntimePerUser:
			dump.RuntimePerUser[key] = raw
		}
	})

	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return fmt.Errorf("command: marshalling settings dump: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("command: writing %s: %w", outPath, err)
	}
	return nil
}

// SettingsRestore reads a dump produced by SettingsDump from inPath and
// writes it back out as mod-settings.dat at settingsPath, backing up any
// existing file first when backupExt is non-empty.
func SettingsRestore(inPath, settingsPath, backupExt string) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("command: reading %s: %w", inPath, err)
	}
	var dump settingsDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return fmt.Errorf("command: parsing settings dump: %w", err)
	}

	gv, err := version.ParseGameVersion(dump.GameVersion)
	if err != nil {
		return fmt.Errorf("command: parsing settings dump game version: %w", err)
	}
	f := settings.New(gv)

	sections := []struct {
		section settings.Section
		values  map[string]json.RawMessage
	}{
		{settings.Startup, dump.Startup},
		{settings.RuntimeGlobal, dump.RuntimeGlobal},
		{settings.RuntimePerUser, dump.RuntimePerUser},
	}
	for _, s := range sections {
		for key, raw := range s.values {
			var any interface{}
			if err := json.Unmarshal(raw, &any); err != nil {
				return fmt.Errorf("command: parsing %s.%s: %w", s.section, key, err)
			}
			if err := f.Set(s.section, key, jsonToValue(any)); err != nil {
				return err
			}
		}
	}

	if backupExt != "" {
		if _, statErr := os.Stat(settingsPath); statErr == nil {
			if err := backupFile(settingsPath, settingsPath+backupExt); err != nil {
				return fmt.Errorf("command: backing up %s: %w", settingsPath, err)
			}
		}
	}
	return f.Save(settingsPath)
}

func backupFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func valueToJSON(v settings.Value) interface{} {
	switch v.Kind {
	case settings.KindBool:
		return v.Bool
	case settings.KindString, settings.KindColor:
		return v.Str
	case settings.KindList:
		out := make([]interface{}, 0, len(v.List))
		for _, elem := range v.List {
			out = append(out, valueToJSON(elem))
		}
		return out
	case settings.KindDictionary:
		out := map[string]interface{}{}
		for k, elem := range v.Dict {
			out[k] = valueToJSON(elem)
		}
		return out
	default:
		return v.Num
	}
}

func jsonToValue(v interface{}) settings.Value {
	switch val := v.(type) {
	case bool:
		return settings.Bool(val)
	case string:
		return settings.String(val)
	case float64:
		return settings.Double(val)
	case []interface{}:
		elems := make([]settings.Value, 0, len(val))
		for _, e := range val {
			elems = append(elems, jsonToValue(e))
		}
		return settings.ListOf(elems...)
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		vals := map[string]settings.Value{}
		for k, e := range val {
			keys = append(keys, k)
			vals[k] = jsonToValue(e)
		}
		return settings.DictOf(keys, vals)
	default:
		return settings.Value{}
	}
}
