package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"wardrobeapi/models"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

type itemView struct {
	ID          string   `json:"_id" yaml:"id"`
	Category    string   `json:"category" yaml:"category"`
	ImageURI    string   `json:"image_uri" yaml:"image_uri"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags" yaml:"tags"`
}

type outfitView struct {
	ID    string     `json:"_id" yaml:"id"`
	Date  string     `json:"date" yaml:"date"`
	Items []itemView `json:"items" yaml:"items"`
}

type analysisView struct {
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags" yaml:"tags"`
	ImageURI    string   `json:"image_uri,omitempty" yaml:"image_uri,omitempty"`
	SavedID     string   `json:"saved_id,omitempty" yaml:"saved_id,omitempty"`
}

func viewItems(items []models.ClothingItem) []itemView {
	views := make([]itemView, 0, len(items))
	for _, item := range items {
		tags := []string(item.Tags)
		if tags == nil {
			tags = []string{}
		}
		views = append(views, itemView{
			ID:          item.ID,
			Category:    string(item.Category()),
			ImageURI:    item.ImageURI,
			Description: item.Description,
			Tags:        tags,
		})
	}
	return views
}

func viewOutfits(outfits []models.Outfit) []outfitView {
	views := make([]outfitView, 0, len(outfits))
	for _, outfit := range outfits {
		views = append(views, outfitView{
			ID:    outfit.ID,
			Date:  outfit.Date.UTC().Format(time.RFC3339),
			Items: viewItems(outfit.Items),
		})
	}
	return views
}

// render writes v as JSON or YAML, or calls text for the tabular form.
func render(w io.Writer, format string, v interface{}, text func(w io.Writer) error) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(w)
	}
}

func itemsTable(items []itemView) func(w io.Writer) error {
	return func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCATEGORY\tTAGS\tDESCRIPTION")
		for _, item := range items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", item.ID, item.Category, strings.Join(item.Tags, ","), item.Description)
		}
		return tw.Flush()
	}
}

func outfitsTable(outfits []outfitView) func(w io.Writer) error {
	return func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tDATE\tITEMS")
		for _, outfit := range outfits {
			descriptions := make([]string, 0, len(outfit.Items))
			for _, item := range outfit.Items {
				descriptions = append(descriptions, item.Description)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", outfit.ID, outfit.Date, strings.Join(descriptions, " | "))
		}
		return tw.Flush()
	}
}

func linesText(lines []string) func(w io.Writer) error {
	return func(w io.Writer) error {
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	}
}
