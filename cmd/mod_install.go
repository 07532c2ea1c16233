package cmd

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"factorix/internal/command"
)

var modInstallCmd = &cobra.Command{
	Use:   "install MOD[@VERSION]...",
	Short: "Resolve and download mods (and their required dependencies) into the mods directory",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := buildServices(cmd)
		if err != nil {
			return err
		}
		defer cleanup()
		if err := requireGameStopped(svc); err != nil {
			return err
		}

		st, err := command.Load(svc)
		if err != nil {
			return err
		}
		if err := command.Install(context.Background(), svc, st, args); err != nil {
			return err
		}
		pterm.Success.Printf("Installed: %v\n", args)
		return nil
	},
}

var modUninstallCmd = &cobra.Command{
	Use:   "uninstall MOD...",
	Short: "Remove installed mods, after checking no enabled mod still requires them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := buildServices(cmd)
		if err != nil {
			return err
		}
		defer cleanup()
		if err := requireGameStopped(svc); err != nil {
			return err
		}

		st, err := command.Load(svc)
		if err != nil {
			return err
		}
		if err := command.Uninstall(svc, st, args); err != nil {
			return err
		}
		pterm.Success.Printf("Uninstalled: %v\n", args)
		return nil
	},
}

var modDownloadOutput string

var modDownloadCmd = &cobra.Command{
	Use:   "download MOD[@VERSION]...",
	Short: "Download mods to an output directory without touching the local mod list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := buildServices(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		out := modDownloadOutput
		if out == "" {
			out = "."
		}
		if err := command.Download(context.Background(), svc, args, out); err != nil {
			return err
		}
		pterm.Success.Printf("Downloaded to %s: %v\n", out, args)
		return nil
	},
}

func init() {
	modDownloadCmd.Flags().StringVarP(&modDownloadOutput, "output", "o", "", "directory to download into (default: current directory)")
	modCmd.AddCommand(modInstallCmd, modUninstallCmd, modDownloadCmd)
}
