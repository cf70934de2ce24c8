package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"wardrobeapi/workflows"
)

func newUploadCmd(a *app) *cobra.Command {
	var (
		description string
		noSave      bool
	)
	cmd := &cobra.Command{
		Use:   "upload PATH",
		Short: "Analyze a garment photo and save it to the catalog",
		Long: `upload sends the photo at PATH to the backend for analysis and prints the
description and tags. Unless --no-save is given the analyzed item is saved.
--description replaces the generated description before saving.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			upload := workflows.NewUpload(a.api, filePicker{path: args[0]}, a.notifier(cmd))
			if err := upload.Pick(ctx); err != nil {
				return err
			}
			if err := upload.Analyze(ctx); err != nil {
				return err
			}
			if cmd.Flags().Changed("description") {
				if err := upload.ToggleEdit(); err != nil {
					return err
				}
				upload.SetEditDescription(description)
				if err := upload.ToggleEdit(); err != nil {
					return err
				}
			}

			details := upload.Details()
			view := analysisView{Description: details.Description, Tags: details.Tags, ImageURI: details.StoredImageURI}
			if !noSave {
				id, err := upload.Save(ctx)
				if err != nil {
					return err
				}
				view.SavedID = id
			}
			return render(cmd.OutOrStdout(), a.output, view, analysisText(view))
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "use this description instead of the generated one")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "only analyze, do not save the item")
	return cmd
}

func analysisText(view analysisView) func(w io.Writer) error {
	lines := []string{"Description: " + view.Description, "Tags: " + strings.Join(view.Tags, ", ")}
	if view.SavedID != "" {
		lines = append(lines, "ID: "+view.SavedID)
	}
	return linesText(lines)
}
