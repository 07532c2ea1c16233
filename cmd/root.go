// Package cmd wires the command tree: Cobra owns argument parsing and
// subcommand dispatch, building one Services record per invocation and
// handing it to internal/command for the actual work.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"factorix/internal/cache"
	"factorix/internal/command"
	"factorix/internal/config"
	"factorix/internal/eventbus"
	"factorix/internal/logging"
	"factorix/internal/portal"
	"factorix/internal/presenter"
	"factorix/internal/runtimelock"
	"factorix/internal/transfer"
)

var rootCmd = &cobra.Command{
	Use:   "factorix",
	Short: "Manage mods for a Factorio installation",
	Long:  `Factorix resolves, installs, and validates mods for a target Factorio installation, matching what the Factorio Mod Portal and mod-list.json expect.`,
}

// Execute initializes the root command tree and delegates to Cobra for
// argument parsing and subcommand dispatch.
func Execute() {
	if !term.IsTerminal(int(os.Stdout.Fd())) || os.Getenv("NO_COLOR") != "" {
		pterm.DisableStyling()
		pterm.RawOutput = true
	}
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config-path", "", "path to the Factorix YAML config file (overrides FACTORIX_CONFIG)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress informational output (errors still print)")
	rootCmd.PersistentFlags().Bool("yes", false, "assume yes to any confirmation prompt")
	rootCmd.PersistentFlags().String("backup-extension", "", "extension appended when backing up mod-list.json/mod-settings.dat before writing (default .bak)")
	rootCmd.PersistentFlags().Int("jobs", 0, "width of the parallel download/upload worker pool")
	rootCmd.PersistentFlags().StringP("username", "u", "", "factorio.com username, overriding config/environment")
	rootCmd.PersistentFlags().StringP("token", "t", "", "factorio.com API token, overriding config/environment")
	rootCmd.PersistentFlags().String("api-key", "", "factorio.com API key, overriding config/environment")
	rootCmd.PersistentFlags().StringP("mod-path", "m", "", "path to the mods directory")
	rootCmd.PersistentFlags().StringP("bin-path", "b", "", "path to the Factorio executable")
	rootCmd.PersistentFlags().String("settings-path", "", "path to mod-settings.dat")
	rootCmd.PersistentFlags().String("player-data-path", "", "path to player-data.json")
	rootCmd.PersistentFlags().String("cache-path", "", "path to Factorix's on-disk cache directory")
	rootCmd.PersistentFlags().StringP("root-dir", "r", "", "Factorio installation root, used to derive mod-path/bin-path when they aren't set explicitly")
}

// flagsFromCommand reads the persistent flags cobra parsed into a
// config.Flags.
func flagsFromCommand(cmd *cobra.Command) config.Flags {
	get := func(name string) string { v, _ := cmd.Flags().GetString(name); return v }
	getBool := func(name string) bool { v, _ := cmd.Flags().GetBool(name); return v }
	getInt := func(name string) int { v, _ := cmd.Flags().GetInt(name); return v }

	return config.Flags{
		Username:        get("username"),
		Token:           get("token"),
		APIKey:          get("api-key"),
		ModPath:         get("mod-path"),
		BinPath:         get("bin-path"),
		SettingsPath:    get("settings-path"),
		PlayerDataPath:  get("player-data-path"),
		CachePath:       get("cache-path"),
		LogLevel:        get("log-level"),
		Quiet:           getBool("quiet"),
		AssumeYes:       getBool("yes"),
		BackupExtension: get("backup-extension"),
		Jobs:            getInt("jobs"),
		RootDir:         get("root-dir"),
	}
}

// buildServices resolves configuration (file < env < flags), sets up
// logging, the event bus, both cache tiers, the transfer client, and the
// portal facade, and returns a ready-to-use Services plus a cleanup
// function the caller should defer.
func buildServices(cmd *cobra.Command) (*command.Services, func(), error) {
	flags := flagsFromCommand(cmd)
	configPathFlag, _ := cmd.Flags().GetString("config-path")

	cfg, err := config.Load(config.ConfigPath(configPathFlag))
	if err != nil {
		return nil, nil, fmt.Errorf("cmd: loading config: %w", err)
	}
	cfg.ApplyFlags(flags)
	if err := cfg.ResolvePaths(); err != nil {
		return nil, nil, err
	}
	if cfg.BackupExtension == "" {
		cfg.BackupExtension = ".bak"
	}
	if cfg.Jobs <= 0 {
		cfg.Jobs = 4
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(level, cfg.Quiet)
	if err != nil {
		return nil, nil, fmt.Errorf("cmd: building logger: %w", err)
	}

	cacheRoot := cfg.CachePath
	if cacheRoot == "" {
		cacheRoot = filepath.Join(os.TempDir(), "factorix-cache")
	}
	cacheDL, err := cache.New(filepath.Join(cacheRoot, "downloads"))
	if err != nil {
		return nil, nil, err
	}
	cacheAPI, err := cache.New(filepath.Join(cacheRoot, "api"),
		cache.WithTTL(time.Hour),
		cache.WithMaxFileSize(1<<20),
	)
	if err != nil {
		return nil, nil, err
	}

	bus := eventbus.New()
	httpClient := transfer.NewClient(bus)
	facade := portal.New(httpClient, httpClient,
		portal.ServiceCredentials{Username: cfg.Username, Token: cfg.Token},
		portal.APICredentials{APIKey: cfg.APIKey},
	)

	pres := presenter.New(bus, pterm.RawOutput)

	svc := &command.Services{
		Runtime: command.RuntimePaths{
			ModsDir:        cfg.ModPath,
			ModListPath:    filepath.Join(cfg.ModPath, "mod-list.json"),
			SettingsPath:   settingsPathOrDefault(cfg),
			PlayerDataPath: cfg.PlayerDataPath,
			LockPath:       lockPathFor(cfg),
			CacheDir:       cacheRoot,
		},
		CacheDL:  cacheDL,
		CacheAPI: cacheAPI,
		HTTP:     httpClient,
		EventBus: bus,
		Portal:   facade,
		Logger:   logger.Sugar(),
		Config:   cfg,
		Jobs:     cfg.Jobs,
	}

	cleanup := func() {
		pres.Stop()
		_ = logger.Sync()
	}
	return svc, cleanup, nil
}

func settingsPathOrDefault(cfg config.Config) string {
	if cfg.SettingsPath != "" {
		return cfg.SettingsPath
	}
	if cfg.ModPath == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(cfg.ModPath), "mod-settings.dat")
}

func lockPathFor(cfg config.Config) string {
	if cfg.RootDir == "" {
		return ""
	}
	return filepath.Join(cfg.RootDir, ".lock")
}

// requireGameStopped refuses mutating commands while Factorio holds its
// running lock, unless no lock path was resolved (no --root-dir given),
// in which case the check is skipped rather than blocking unrelated
// invocations.
func requireGameStopped(svc *command.Services) error {
	if svc.Runtime.LockPath == "" {
		return nil
	}
	return runtimelock.RequireStopped(svc.Runtime.LockPath)
}
