package cmd

import (
	"fmt"
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"factorix/internal/command"
)

var modCmd = &cobra.Command{
	Use:   "mod",
	Short: "Inspect and manage installed mods",
}

var modListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed mods and their enabled state",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := buildServices(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		st, err := command.Load(svc)
		if err != nil {
			return err
		}

		nodes := st.Graph.Nodes()
		sort.Slice(nodes, func(i, j int) bool { return nodes[i].ModID.Less(nodes[j].ModID) })

		table := pterm.TableData{{"MOD", "VERSION", "ENABLED"}}
		for _, n := range nodes {
			enabled := "no"
			if n.Enabled {
				enabled = "yes"
			}
			table = append(table, []string{n.ModID.String(), n.Version.String(), enabled})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(table).Render()
	},
}

var modCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the installed mod set and mod list",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := buildServices(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		st, err := command.Load(svc)
		if err != nil {
			return err
		}

		res := command.Check(svc, st)
		for _, f := range res.Suggestions {
			pterm.Info.Printf("[%s] %s: %s\n", f.Code, f.ModID, f.Message)
		}
		for _, f := range res.Warnings {
			pterm.Warning.Printf("[%s] %s: %s\n", f.Code, f.ModID, f.Message)
		}
		for _, f := range res.Errors {
			pterm.Error.Printf("[%s] %s: %s\n", f.Code, f.ModID, f.Message)
		}

		if !res.OK() {
			return fmt.Errorf("check found %d error(s)", len(res.Errors))
		}
		pterm.Success.Println("No validation errors found")
		return nil
	},
}

func init() {
	modCmd.AddCommand(modListCmd, modCheckCmd)
	rootCmd.AddCommand(modCmd)
}
