// Package classify implements one-shot classification of an image file from
// the command line.
package classify

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/foundbox/foundbox/internal/capture"
	"github.com/foundbox/foundbox/internal/classifier"
	"github.com/foundbox/foundbox/internal/conf"
	"github.com/foundbox/foundbox/internal/labels"
	"github.com/foundbox/foundbox/internal/store"
)

// Command returns the classify subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	var save bool
	var note string
	var category string

	cmd := &cobra.Command{
		Use:   "classify [image file]",
		Short: "Classify an item photo, optionally saving it to the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(settings, args[0], save, category, note)
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Append the item to the record store")
	cmd.Flags().StringVar(&category, "category", "", "Override the suggested category")
	cmd.Flags().StringVar(&note, "note", "", "Free-text note for the record")

	return cmd
}

func runClassify(settings *conf.Settings, imagePath string, save bool, category, note string) error {
	table, err := labels.Load(settings.Model.LabelsPath)
	if err != nil {
		return err
	}

	model, err := classifier.New(settings.Model.Path)
	if err != nil {
		return fmt.Errorf("classifier unavailable: %w", err)
	}

	f, err := os.Open(imagePath)
	if err != nil {
		return err
	}
	defer f.Close()

	wf := capture.New(table, model, store.New(settings.Store.CSVPath), settings.Store.ImageDir, settings.Today())
	if err := wf.Begin(f); err != nil {
		return err
	}

	suggestion, confidence, ok := wf.Suggestion()
	if ok {
		fmt.Printf("Suggestion: %s (%.1f%%)\n", suggestion, confidence*100)
	}

	if !save {
		return nil
	}

	final := category
	if final == "" {
		final = suggestion
	}
	item, err := wf.Confirm(final, note, true)
	if err != nil {
		return err
	}
	fmt.Printf("Saved record %d (%s)\n", item.ID, item.Category)
	return nil
}
