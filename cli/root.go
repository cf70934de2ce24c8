// Package cli is the wardrobe command line client. It drives the catalog,
// upload and outfit workflows against the backend API.
package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"wardrobeapi/client"
	"wardrobeapi/config"
	"wardrobeapi/logger"
)

type app struct {
	apiURL  string
	output  string
	verbose bool

	api *client.Client
}

func NewRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "wardrobe",
		Short: "Catalog garments and compose outfits",
		Long: `wardrobe talks to the wardrobe backend.

Upload garment photos for analysis, browse and filter the catalog, and let the
backend complete an outfit from your saved items.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			return a.init()
		},
	}
	cmd.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "backend base URL (default $WARDROBE_API_URL or "+config.DefaultAPIURL+")")
	cmd.PersistentFlags().StringVarP(&a.output, "output", "o", "text", "output format: text, json or yaml")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log requests and diagnostics")

	cmd.AddCommand(newItemsCmd(a))
	cmd.AddCommand(newUploadCmd(a))
	cmd.AddCommand(newSuggestCmd(a))
	cmd.AddCommand(newOutfitsCmd(a))
	return cmd
}

func (a *app) init() error {
	switch a.output {
	case outputText, outputJSON, outputYAML:
	default:
		return fmt.Errorf("unknown output format %q", a.output)
	}
	level := logrus.WarnLevel
	if a.verbose {
		level = logrus.DebugLevel
	}
	logger.Init(level.String(), false)

	if a.apiURL == "" {
		a.apiURL = config.APIURL()
	}
	logger.Log.Debugf("using backend %s", a.apiURL)
	a.api = client.New(a.apiURL)
	return nil
}
