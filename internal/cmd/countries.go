package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/swparks/sw-cli/internal/resolve"
)

const maxMatches = 10

func newCountriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "countries",
		Aliases: []string{"country"},
		Short:   "Look up countries and cities",
	}
	cmd.AddCommand(newCountriesListCmd())
	cmd.AddCommand(newCitiesCmd())
	return cmd
}

func printNamed(cmd *cobra.Command, items resolve.Catalog, empty string) error {
	f := newFormatter(cmd)
	if isJSON(cmd) {
		type row struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		}
		rows := make([]row, 0, len(items))
		for _, it := range items {
			rows = append(rows, row{ID: it.ID, Name: it.Name})
		}
		return f.Output(rows)
	}
	if len(items) == 0 {
		f.Empty(empty)
		return nil
	}
	f.StartTable([]string{"ID", "NAME"})
	for _, it := range items {
		f.Row(strconv.Itoa(it.ID), it.Name)
	}
	return f.EndTable()
}

func newCountriesListCmd() *cobra.Command {
	var match string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List countries",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			ctx := cmdContext(cmd)
			client, err := getClient(ctx)
			if err != nil {
				return err
			}
			countries, err := client.Countries().List(ctx)
			if err != nil {
				return err
			}
			return printNamed(cmd, resolve.Countries(countries).Search(match, maxMatches), "No countries found")
		}),
	}

	cmd.Flags().StringVar(&match, "match", "", "Fuzzy filter by name")
	return cmd
}

func newCitiesCmd() *cobra.Command {
	var match string

	cmd := &cobra.Command{
		Use:   "cities [country]",
		Short: "List cities, optionally of one country",
		Example: `  sw countries cities russia --match mosc
  sw countries cities --match minsk`,
		Args: cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			client, err := getClient(ctx)
			if err != nil {
				return err
			}
			countries, err := client.Countries().List(ctx)
			if err != nil {
				return err
			}
			countryID := 0
			if len(args) == 1 {
				if countryID, err = resolve.Countries(countries).Lookup(args[0]); err != nil {
					return usageErrorf("country: %v", err)
				}
			}
			return printNamed(cmd, resolve.Cities(countries, countryID).Search(match, maxMatches), "No cities found")
		}),
	}

	cmd.Flags().StringVar(&match, "match", "", "Fuzzy filter by name")
	return cmd
}
