package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"factorix/internal/command"
)

var modSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Dump or restore mod-settings.dat",
}

var modSettingsDumpOut string

var modSettingsDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Decode mod-settings.dat to JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := buildServices(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		out := modSettingsDumpOut
		if out == "" {
			out = "mod-settings.json"
		}
		if err := command.SettingsDump(svc.Runtime.SettingsPath, out); err != nil {
			return err
		}
		pterm.Success.Printf("Dumped %s to %s\n", svc.Runtime.SettingsPath, out)
		return nil
	},
}

var modSettingsRestoreCmd = &cobra.Command{
	Use:   "restore FILE",
	Short: "Write a dump produced by \"settings dump\" back out as mod-settings.dat",
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

		if err := command.SettingsRestore(args[0], svc.Runtime.SettingsPath, svc.Config.BackupExtension); err != nil {
			return err
		}
		pterm.Success.Printf("Restored %s to %s\n", args[0], svc.Runtime.SettingsPath)
		return nil
	},
}

func init() {
	modSettingsDumpCmd.Flags().StringVarP(&modSettingsDumpOut, "output", "o", "", "output JSON path (default: mod-settings.json)")
	modSettingsCmd.AddCommand(modSettingsDumpCmd, modSettingsRestoreCmd)
	modCmd.AddCommand(modSettingsCmd)
}
