package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

var launchCmd = &cobra.Command{
	Use:                "launch [-- GAME_ARGS...]",
	Short:              "Launch the configured Factorio binary, forwarding any arguments after --",
	DisableFlagParsing: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := buildServices(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		if svc.Config.BinPath == "" {
			return fmt.Errorf("launch: no binary path resolved; set --bin-path or --root-dir")
		}

		c := exec.CommandContext(context.Background(), svc.Config.BinPath, args...)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		return c.Run()
	},
}

func init() {
	rootCmd.AddCommand(launchCmd)
}
