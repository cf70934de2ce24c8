package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"wardrobeapi/workflows"
)

func (a *app) notifier(cmd *cobra.Command) terminalNotifier {
	n := terminalNotifier{out: cmd.OutOrStdout(), err: cmd.ErrOrStderr()}
	if a.output != outputText {
		n.out = cmd.ErrOrStderr()
	}
	return n
}

func newItemsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Browse and delete catalog items",
	}
	cmd.AddCommand(newItemsListCmd(a), newItemsTagsCmd(a), newItemsDeleteCmd(a))
	return cmd
}

func newItemsListCmd(a *app) *cobra.Command {
	var tag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog items, optionally only those carrying --tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := workflows.NewCatalog(a.api, a.notifier(cmd))
			if err := catalog.Load(cmd.Context()); err != nil {
				return err
			}
			var filter *string
			if cmd.Flags().Changed("tag") {
				filter = &tag
			}
			items := viewItems(catalog.Filter(filter))
			return render(cmd.OutOrStdout(), a.output, items, itemsTable(items))
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "show only items with this exact tag")
	return cmd
}

func newItemsTagsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List the distinct tags in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := workflows.NewCatalog(a.api, a.notifier(cmd))
			if err := catalog.Load(cmd.Context()); err != nil {
				return err
			}
			tags := catalog.Tags()
			return render(cmd.OutOrStdout(), a.output, tags, linesText(tags))
		},
	}
}

func newItemsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a catalog item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := workflows.NewCatalog(a.api, a.notifier(cmd))
			if err := catalog.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.notifier(cmd).out, "Deleted item %s\n", args[0])
			return nil
		},
	}
}
