// Package items implements record store access from the command line.
package items

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/foundbox/foundbox/internal/conf"
	"github.com/foundbox/foundbox/internal/store"
)

// Command returns the items subcommand with its list, search and collect
// actions.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Browse and manage found-item records",
	}
	cmd.AddCommand(listCommand(settings), searchCommand(settings), collectCommand(settings))
	return cmd
}

func listCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every record",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := store.New(settings.Store.CSVPath).LoadAll()
			if err != nil {
				return err
			}
			printItems(settings, items)
			return nil
		},
	}
}

func searchCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Search every field of every record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := store.New(settings.Store.CSVPath).Search(args[0])
			if err != nil {
				return err
			}
			printItems(settings, items)
			return nil
		},
	}
}

func collectCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "collect [id]",
		Short: "Mark a record collected, removing it and its photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid record id %q", args[0])
			}
			if err := store.New(settings.Store.CSVPath).Delete(id); err != nil {
				return err
			}
			fmt.Printf("Record %d collected\n", id)
			return nil
		},
	}
}

func printItems(settings *conf.Settings, items []store.Item) {
	if len(items) == 0 {
		fmt.Println("No records.")
		return
	}
	today := settings.Today()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCategory\tFound\tExpiry\tNote\tImage")
	for i := range items {
		it := &items[i]
		expiry := it.ExpiryDate.Format(conf.DateLayout)
		if it.Expired(today) {
			expiry += " (expired)"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			it.ID, it.Category, it.FoundDate.Format(conf.DateLayout), expiry, it.Note, it.ImagePath)
	}
	w.Flush()
}
