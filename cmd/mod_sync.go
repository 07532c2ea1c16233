package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"factorix/internal/command"
)

var modSyncCmd = &cobra.Command{
	Use:   "sync SAVE_FILE",
	Short: "Reconcile the local mod set against a save file's recorded mods and startup settings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := buildServices(cmd)
		if err != nil {
			return err
		}
		defer cleanup()
		if err := requireGameStopped(svc); err != nil {
			return err
		}

		manifest, err := command.LoadSaveManifest(args[0])
		if err != nil {
			return err
		}

		st, err := command.Load(svc)
		if err != nil {
			return err
		}

		res, err := command.Sync(svc, st, manifest, svc.Runtime.SettingsPath)
		if err != nil {
			return err
		}

		for _, w := range res.Warnings {
			pterm.Warning.Println(w)
		}
		if len(res.ToInstall) > 0 {
			pterm.Info.Printf("Mods to install: %v\n", res.ToInstall)
			if err := command.Install(cmd.Context(), svc, st, res.ToInstall); err != nil {
				return err
			}
		}
		pterm.Success.Println("Synced mods with save file")
		return nil
	},
}

func init() {
	modCmd.AddCommand(modSyncCmd)
}
