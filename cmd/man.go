package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var manOutputDir string

var manCmd = &cobra.Command{
	Use:    "man",
	Short:  "Generate man pages for the full command tree",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := manOutputDir
		if dir == "" {
			dir = "."
		}
		header := &doc.GenManHeader{Title: "FACTORIX", Section: "1"}
		if err := doc.GenManTree(rootCmd, header, dir); err != nil {
			return err
		}
		fmt.Printf("Wrote man pages to %s\n", dir)
		return nil
	},
}

func init() {
	manCmd.Flags().StringVarP(&manOutputDir, "output", "o", "", "directory to write man pages into (default: current directory)")
	rootCmd.AddCommand(manCmd)
}
