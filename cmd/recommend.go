package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marketscope/radar-cli/internal/competition"
	"github.com/marketscope/radar-cli/internal/indicators"
	"github.com/marketscope/radar-cli/internal/ranking"
	"github.com/marketscope/radar-cli/internal/scoring"
)

// recommendCandidates is how many categories from the front of the tag
// table are scored for a recommendation.
const recommendCandidates = 6

var recommendRadiusKM int

var recommendCmd = &cobra.Command{
	Use:   "recommend <iso3> <iso2> <city>",
	Short: "Recommend business categories with high demand and low competition",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		iso3 := strings.ToUpper(args[0])
		iso2 := strings.ToUpper(args[1])
		cityName := args[2]

		env, err := newEngine(cfg)
		if err != nil {
			return err
		}

		snap, err := env.agg.Snapshot(ctx, iso3)
		if err != nil {
			return err
		}
		city, err := env.findCity(ctx, iso2, cityName)
		if err != nil {
			return err
		}

		var cityPopulation *int64
		if city != nil {
			cityPopulation = city.Population
		}
		demand := scoring.DemandIndex(cityPopulation,
			snap.Value(indicators.KeyDensity),
			snap.Value(indicators.KeyGDPPerCapita),
		)

		site := env.site(iso2, cityName, city, recommendRadiusKM)
		counter := competition.SiteCounter{Analyzer: env.analyzer, Site: site}
		candidates := env.analyzer.Table().Categories()
		if len(candidates) > recommendCandidates {
			candidates = candidates[:recommendCandidates]
		}

		recs := ranking.Recommend(ctx, counter, candidates, demand, 3)
		fmt.Printf("Recommendations for %s (demand index %s)\n", site.City, formatScore(demand))
		clients := scoring.PotentialClients(cityPopulation,
			snap.Value(indicators.KeyLaborForce),
			snap.Value(indicators.KeyUnemployment),
		)
		fmt.Printf("Estimated potential clients: %s\n", formatFloat(clients))
		for i, rec := range recs {
			fmt.Printf("  %d. %-20s score %8s  competitors %4d  (match: %s)\n",
				i+1, rec.Category, formatScore(rec.Score), rec.Competitors, rec.Confidence)
		}
		return nil
	},
}

func init() {
	recommendCmd.Flags().IntVar(&recommendRadiusKM, "radius-km", 0, "competition radius in km (default from config)")
	rootCmd.AddCommand(recommendCmd)
}
