package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var seriesLimit int

var seriesCmd = &cobra.Command{
	Use:   "series <iso3> <indicator>",
	Short: "Show the recent time series for an indicator",
	Long: `Show the recent time series for an indicator. The indicator may be a
snapshot key (gdp, gdp_pc, population, density, inflation, unemployment,
growth, tax_revenue, current_account, median_age, urbanization, labor_force)
or a raw World Bank indicator code such as NY.GDP.MKTP.CD.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		iso3 := strings.ToUpper(args[0])
		key := args[1]

		env, err := newEngine(cfg)
		if err != nil {
			return err
		}

		series := env.agg.Series(ctx, iso3, key, seriesLimit)
		if len(series) == 0 {
			fmt.Printf("No data for %s / %s\n", iso3, key)
			return nil
		}

		fmt.Printf("%s %s\n", iso3, key)
		for _, point := range series {
			fmt.Printf("  %d  %s\n", point.Year, formatFloat(&point.Value))
		}
		return nil
	},
}

func init() {
	seriesCmd.Flags().IntVar(&seriesLimit, "limit", 12, "number of years to fetch")
	rootCmd.AddCommand(seriesCmd)
}
