package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"factorix/internal/command"
)

var modEnableCmd = &cobra.Command{
	Use:   "enable MOD...",
	Short: "Enable one or more installed mods",
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
		if err := command.Enable(svc, st, args); err != nil {
			return err
		}
		pterm.Success.Printf("Enabled: %v\n", args)
		return nil
	},
}

var modDisableCmd = &cobra.Command{
	Use:   "disable MOD...",
	Short: "Disable one or more installed mods and their enabled dependents",
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
		if err := command.Disable(svc, st, args); err != nil {
			return err
		}
		pterm.Success.Printf("Disabled: %v\n", args)
		return nil
	},
}

func init() {
	modCmd.AddCommand(modEnableCmd, modDisableCmd)
}
