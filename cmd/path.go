package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pathCmd = &cobra.Command{
	Use:   "path [TYPE...]",
	Short: "Print resolved filesystem paths (mods, mod-list, settings, player-data, cache, bin, or all when omitted)",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := buildServices(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		all := map[string]string{
			"mods":        svc.Runtime.ModsDir,
			"mod-list":    svc.Runtime.ModListPath,
			"settings":    svc.Runtime.SettingsPath,
			"player-data": svc.Runtime.PlayerDataPath,
			"cache":       svc.Runtime.CacheDir,
			"bin":         svc.Config.BinPath,
			"lock":        svc.Runtime.LockPath,
		}

		types := args
		if len(types) == 0 {
			types = []string{"mods", "mod-list", "settings", "player-data", "cache", "bin", "lock"}
		}
		for _, t := range types {
			v, ok := all[t]
			if !ok {
				return fmt.Errorf("path: unknown path type %q", t)
			}
			fmt.Printf("%s: %s\n", t, v)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pathCmd)
}
