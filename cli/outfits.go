package cli

import (
	"github.com/spf13/cobra"

	"wardrobeapi/workflows"
)

func newOutfitsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outfits",
		Short: "Browse and delete saved outfits",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved outfits, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			saved := workflows.NewSavedOutfits(a.api, a.notifier(cmd))
			if err := saved.Load(cmd.Context()); err != nil {
				return err
			}
			outfits := viewOutfits(saved.Outfits())
			return render(cmd.OutOrStdout(), a.output, outfits, outfitsTable(outfits))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Delete a saved outfit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			saved := workflows.NewSavedOutfits(a.api, a.notifier(cmd))
			return saved.Delete(cmd.Context(), args[0])
		},
	})
	return cmd
}
