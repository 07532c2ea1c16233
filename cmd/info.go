package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"factorix/internal/command"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print a summary of the configured installation: resolved paths and mod counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := buildServices(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		fmt.Printf("mods directory:     %s\n", svc.Runtime.ModsDir)
		fmt.Printf("mod list:           %s\n", svc.Runtime.ModListPath)
		fmt.Printf("settings file:      %s\n", svc.Runtime.SettingsPath)
		fmt.Printf("binary:             %s\n", svc.Config.BinPath)
		fmt.Printf("username:           %s\n", svc.Config.Username)

		st, err := command.Load(svc)
		if err != nil {
			fmt.Printf("installed mods:     (failed to load: %v)\n", err)
			return nil
		}
		nodes := st.Graph.Nodes()
		enabled := 0
		for _, n := range nodes {
			if n.Enabled {
				enabled++
			}
		}
		fmt.Printf("installed mods:     %d (%d enabled)\n", len(nodes), enabled)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
