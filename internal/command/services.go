// Package command is the planner: per-command orchestration that loads
// local state into a dependency graph, validates it, plans a change, and
// executes it, sharing the graph/validate/modlist model across
// check/enable/disable/install/uninstall/sync/download. It replaces a
// global dependency container with a single Services record threaded
// explicitly through every command, per the design note in the
// specification.
package command

import (
	"go.uber.org/zap"

	"factorix/internal/cache"
	"factorix/internal/config"
	"factorix/internal/eventbus"
	"factorix/internal/portal"
	"factorix/internal/transfer"
)

// RuntimePaths are the filesystem paths a command reads or writes,
// resolved once at CLI startup from config.Config.
type RuntimePaths struct {
	ModsDir        string
	ModListPath    string
	SettingsPath   string
	PlayerDataPath string
	LockPath       string
	LogPath        string
	CacheDir       string
}

// Services is constructed once at CLI startup and threaded through every
// command. No command constructs its own HTTP client, cache, or logger.
type Services struct {
	Runtime  RuntimePaths
	CacheDL  *cache.Store
	CacheAPI *cache.Store
	HTTP     *transfer.Client
	EventBus *eventbus.Bus
	Portal   *portal.Facade
	Logger   *zap.SugaredLogger
	Config   config.Config
	Jobs     int
}
