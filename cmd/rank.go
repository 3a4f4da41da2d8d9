package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marketscope/radar-cli/internal/ranking"
	"github.com/marketscope/radar-cli/internal/scoring"
)

var (
	rankTop     int
	rankWeights = weightFlags{}
)

// weightFlags lets each scoring command override the configured weights.
type weightFlags struct {
	population   float64
	gdpPerCapita float64
	inflation    float64
	unemployment float64
	growth       float64
	risk         float64
}

func (w *weightFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&w.population, "weight-population", -1, "population weight (default from config)")
	cmd.Flags().Float64Var(&w.gdpPerCapita, "weight-gdp-pc", -1, "GDP per capita weight")
	cmd.Flags().Float64Var(&w.inflation, "weight-inflation", -1, "inflation penalty weight")
	cmd.Flags().Float64Var(&w.unemployment, "weight-unemployment", -1, "unemployment penalty weight")
	cmd.Flags().Float64Var(&w.growth, "weight-growth", -1, "GDP growth weight")
	cmd.Flags().Float64Var(&w.risk, "weight-risk", -1, "country risk weight")
}

// apply overlays any explicitly set flag over the base weights. Negative
// sentinel means "not set"; weights themselves are nonnegative.
func (w *weightFlags) apply(base scoring.Weights) scoring.Weights {
	if w.population >= 0 {
		base.Population = w.population
	}
	if w.gdpPerCapita >= 0 {
		base.GDPPerCapita = w.gdpPerCapita
	}
	if w.inflation >= 0 {
		base.Inflation = w.inflation
	}
	if w.unemployment >= 0 {
		base.Unemployment = w.unemployment
	}
	if w.growth >= 0 {
		base.Growth = w.growth
	}
	if w.risk >= 0 {
		base.Risk = w.risk
	}
	return base
}

var rankCmd = &cobra.Command{
	Use:   "rank <iso3> <iso2>",
	Short: "Rank a country's cities by composite investment score",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		iso3 := strings.ToUpper(args[0])
		iso2 := strings.ToUpper(args[1])

		env, err := newEngine(cfg)
		if err != nil {
			return err
		}

		snap, err := env.agg.Snapshot(ctx, iso3)
		if err != nil {
			return err
		}
		cities, err := env.gaz.SearchCities(ctx, iso2)
		if err != nil {
			return err
		}

		ranked := ranking.RankCities(cities, snap, rankWeights.apply(env.weights()), rankTop)
		if len(ranked) == 0 {
			fmt.Println("no cities with known population")
			return nil
		}

		fmt.Printf("Top %d cities for %s\n", len(ranked), iso3)
		for i, city := range ranked {
			fmt.Printf("  %2d. %-28s score %10s  pop %12s\n", i+1, city.Name, formatScore(city.Score), formatInt(city.Population))
		}
		return nil
	},
}

func init() {
	rankCmd.Flags().IntVar(&rankTop, "top", ranking.DefaultTopN, "ranking depth")
	rankWeights.register(rankCmd)
	rootCmd.AddCommand(rankCmd)
}
