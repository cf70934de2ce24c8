package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"wardrobeapi/models"
	"wardrobeapi/workflows"
)

func newSuggestCmd(a *app) *cobra.Command {
	var (
		selected    []string
		noSelection bool
		save        bool
	)
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Complete an outfit from the catalog",
		Long: `suggest asks the backend to fill the empty topwear, bottomwear and footwear
slots. Items given with --select are kept in the outfit. With --save the
suggestion is stored as a saved outfit dated now.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			composer := workflows.NewOutfitComposer(a.api, a.notifier(cmd))
			if noSelection {
				if len(selected) > 0 {
					return fmt.Errorf("--any cannot be combined with --select")
				}
				if err := composer.GenerateAny(ctx); err != nil {
					return err
				}
			} else {
				if err := composer.LoadWardrobe(ctx); err != nil {
					return err
				}
				for _, id := range selected {
					item, ok := findItem(composer.Wardrobe(), id)
					if !ok {
						return fmt.Errorf("no catalog item with id %q", id)
					}
					if item.Category() == models.CategoryNone {
						return fmt.Errorf("item %q has no topwear, bottomwear or footwear tag", id)
					}
					if composer.Selection().IsSelected(item) {
						continue
					}
					composer.Select(item)
				}
				if err := composer.Generate(ctx); err != nil {
					return err
				}
			}

			items := viewItems(composer.Suggestion())
			if err := render(cmd.OutOrStdout(), a.output, items, itemsTable(items)); err != nil {
				return err
			}
			if save {
				if _, err := composer.Save(ctx); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&selected, "select", nil, "keep this item id in the outfit (repeatable)")
	cmd.Flags().BoolVar(&noSelection, "any", false, "ask for a suggestion without sending a selection")
	cmd.Flags().BoolVar(&save, "save", false, "save the suggested outfit")
	return cmd
}

func findItem(items []models.ClothingItem, id string) (models.ClothingItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return models.ClothingItem{}, false
}
