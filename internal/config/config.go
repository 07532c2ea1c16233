// Package config resolves Factorix's runtime configuration by layering
// an optional YAML config file under environment variables under
// explicit CLI flags, the same precedence the teacher's cmd/root.go
// applies to its CLIConfig (flags win, falling back to inference).
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config is Factorix's fully resolved runtime configuration.
type Config struct {
	Username        string `yaml:"username"`
	Token           string `yaml:"token"`
	APIKey          string `yaml:"api_key"`
	RootDir         string `yaml:"root_dir"`
	ModPath         string `yaml:"mod_path"`
	BinPath         string `yaml:"bin_path"`
	SettingsPath    string `yaml:"settings_path"`
	PlayerDataPath  string `yaml:"player_data_path"`
	CachePath       string `yaml:"cache_path"`
	LogLevel        string `yaml:"log_level"`
	Quiet           bool   `yaml:"quiet"`
	AssumeYes       bool   `yaml:"assume_yes"`
	BackupExtension string `yaml:"backup_extension"`
	Jobs            int    `yaml:"jobs"`
	RedisURL        string `yaml:"redis_url"`
}

// Default returns a Config populated with Factorix's baseline defaults,
// before any file, environment, or flag layering is applied.
func Default() Config {
	return Config{
		BackupExtension: ".bak",
		Jobs:            4,
		LogLevel:        "info",
	}
}

// mergeFile layers the YAML config file at path over c. A zero value in
// the file leaves the running Config unchanged, so a config file only
// needs to mention the keys it wants to override. A missing file is not
// an error.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var fromFile Config
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return err
	}
	c.applyNonZero(fromFile)
	return nil
}

func (c *Config) applyNonZero(o Config) {
	if o.Username != "" {
		c.Username = o.Username
	}
	if o.Token != "" {
		c.Token = o.Token
	}
	if o.APIKey != "" {
		c.APIKey = o.APIKey
	}
	if o.RootDir != "" {
		c.RootDir = o.RootDir
	}
	if o.ModPath != "" {
		c.ModPath = o.ModPath
	}
	if o.BinPath != "" {
		c.BinPath = o.BinPath
	}
	if o.SettingsPath != "" {
		c.SettingsPath = o.SettingsPath
	}
	if o.PlayerDataPath != "" {
		c.PlayerDataPath = o.PlayerDataPath
	}
	if o.CachePath != "" {
		c.CachePath = o.CachePath
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.Quiet {
		c.Quiet = true
	}
	if o.AssumeYes {
		c.AssumeYes = true
	}
	if o.BackupExtension != "" {
		c.BackupExtension = o.BackupExtension
	}
	if o.Jobs != 0 {
		c.Jobs = o.Jobs
	}
	if o.RedisURL != "" {
		c.RedisURL = o.RedisURL
	}
}

func (c *Config) mergeEnv() {
	apply := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	apply(&c.Username, "FACTORIO_USERNAME")
	apply(&c.Token, "FACTORIO_TOKEN")
	apply(&c.APIKey, "FACTORIO_API_KEY")
	apply(&c.RedisURL, "REDIS_URL")
}

// ConfigPath resolves which YAML file to load: the explicit
// --config-path flag value if set, else FACTORIX_CONFIG, else no file.
func ConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("FACTORIX_CONFIG")
}

// Load builds a Config by layering Default() under an optional YAML
// file under environment variables; flags are applied by the caller via
// ApplyFlags, since cobra owns flag parsing.
func Load(configPath string) (Config, error) {
	cfg := Default()
	if configPath != "" {
		if err := cfg.mergeFile(configPath); err != nil {
			return Config{}, err
		}
	}
	cfg.mergeEnv()
	return cfg, nil
}

// Flags mirrors the subset of persistent CLI flags that can override
// Config fields. Zero values are treated as "not set" and left alone.
type Flags struct {
	Username        string
	Token           string
	APIKey          string
	ModPath         string
	BinPath         string
	SettingsPath    string
	PlayerDataPath  string
	CachePath       string
	LogLevel        string
	Quiet           bool
	AssumeYes       bool
	BackupExtension string
	Jobs            int
	RootDir         string
}

// ApplyFlags layers explicit CLI flag values over cfg, the highest
// priority in the username/token/api-key resolution the portal needs
// (spec's "Service: {username, token}... API: {api_key}" resolution
// order: flags, then file/env).
func (c *Config) ApplyFlags(f Flags) {
	c.applyNonZero(Config{
		Username:        f.Username,
		Token:           f.Token,
		APIKey:          f.APIKey,
		ModPath:         f.ModPath,
		BinPath:         f.BinPath,
		SettingsPath:    f.SettingsPath,
		PlayerDataPath:  f.PlayerDataPath,
		CachePath:       f.CachePath,
		LogLevel:        f.LogLevel,
		Quiet:           f.Quiet,
		AssumeYes:       f.AssumeYes,
		BackupExtension: f.BackupExtension,
		Jobs:            f.Jobs,
		RootDir:         f.RootDir,
	})
}

// ResolvePaths derives BinPath and ModPath from RootDir when they were
// not explicitly set, following the teacher's root-dir inference: the
// platform-specific default binary location under bin/x64, and a mods
// subdirectory.
func (c *Config) ResolvePaths() error {
	if c.RootDir == "" {
		return nil
	}
	if c.BinPath == "" {
		if runtime.GOOS == "windows" {
			c.BinPath = filepath.Join(c.RootDir, "bin", "x64", "factorio.exe")
		} else {
			c.BinPath = filepath.Join(c.RootDir, "bin", "x64", "factorio")
		}
	}
	if c.ModPath == "" {
		c.ModPath = filepath.Join(c.RootDir, "mods")
	}
	return nil
}
