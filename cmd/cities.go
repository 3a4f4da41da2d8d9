package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marketscope/radar-cli/pkg/gazetteer"
)

var citiesLimit int

var citiesCmd = &cobra.Command{
	Use:   "cities <iso2>",
	Short: "List gazetteer city records for a country",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		countryISO2 := strings.ToUpper(args[0])

		env, err := newEngine(cfg)
		if err != nil {
			return err
		}

		cities, err := env.gaz.SearchCities(ctx, countryISO2)
		if err != nil {
			return err
		}
		if len(cities) == 0 {
			fmt.Println("no cities found")
			return nil
		}

		fmt.Printf("%d cities indexed for %s\n", len(cities), countryISO2)
		limit := citiesLimit
		if limit <= 0 || limit > len(cities) {
			limit = len(cities)
		}
		for _, city := range cities[:limit] {
			fmt.Printf("  %-28s pop %12s  %s\n", city.Name, formatInt(city.Population), formatCoords(city))
		}
		return nil
	},
}

func formatCoords(city gazetteer.City) string {
	if city.Lat == nil || city.Lon == nil {
		return "no coordinates"
	}
	return fmt.Sprintf("%.4f,%.4f", *city.Lat, *city.Lon)
}

func init() {
	citiesCmd.Flags().IntVar(&citiesLimit, "limit", 25, "max cities to print")
	rootCmd.AddCommand(citiesCmd)
}
