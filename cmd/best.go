package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marketscope/radar-cli/internal/competition"
	"github.com/marketscope/radar-cli/internal/ranking"
)

var (
	bestCandidates int
	bestTop        int
	bestRadiusKM   int
)

var bestCmd = &cobra.Command{
	Use:   "best <iso2> <city>",
	Short: "Find the business categories with the fewest competitors in a city",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		iso2 := strings.ToUpper(args[0])
		cityName := args[1]

		env, err := newEngine(cfg)
		if err != nil {
			return err
		}

		city, err := env.findCity(ctx, iso2, cityName)
		if err != nil {
			return err
		}

		site := env.site(iso2, cityName, city, bestRadiusKM)
		counter := competition.SiteCounter{Analyzer: env.analyzer, Site: site}

		n := bestCandidates
		if n <= 0 {
			n = env.cfg.Query.BestCandidates
		}
		candidates := env.analyzer.Table().Categories()
		if len(candidates) > n {
			candidates = candidates[:n]
		}

		recs := ranking.BestCategories(ctx, counter, candidates, bestTop)
		fmt.Printf("Lowest-competition categories in %s\n", site.City)
		for i, rec := range recs {
			fmt.Printf("  %d. %-20s competitors %4d  (match: %s)\n",
				i+1, rec.Category, rec.Competitors, rec.Confidence)
		}
		return nil
	},
}

func init() {
	bestCmd.Flags().IntVar(&bestCandidates, "candidates", 0, "number of categories to evaluate (default from config)")
	bestCmd.Flags().IntVar(&bestTop, "top", 5, "number of categories to report")
	bestCmd.Flags().IntVar(&bestRadiusKM, "radius-km", 0, "competition radius in km (default from config)")
	rootCmd.AddCommand(bestCmd)
}
