package cmd

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var modUploadCmd = &cobra.Command{
	Use:   "upload MOD FILE",
	Short: "Publish or update a mod release on the Mod Portal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := buildServices(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		name, filePath := args[0], args[1]
		if err := svc.Portal.UploadMod(context.Background(), name, filePath, nil); err != nil {
			return err
		}
		pterm.Success.Printf("Uploaded %s from %s\n", name, filePath)
		return nil
	},
}

var modEditFields map[string]string

var modEditCmd = &cobra.Command{
	Use:   "edit MOD",
	Short: "Edit a published mod's portal metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := buildServices(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		metadata := make(map[string]any, len(modEditFields))
		for k, v := range modEditFields {
			metadata[k] = v
		}
		if err := svc.Portal.EditMod(context.Background(), args[0], metadata); err != nil {
			return err
		}
		pterm.Success.Printf("Edited %s\n", args[0])
		return nil
	},
}

func init() {
	modEditCmd.Flags().StringToStringVarP(&modEditFields, "set", "s", nil, "metadata field to set, repeatable (key=value)")
	modCmd.AddCommand(modUploadCmd, modEditCmd)
}
