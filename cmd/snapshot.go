package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marketscope/radar-cli/internal/alerts"
	"github.com/marketscope/radar-cli/internal/indicators"
	"github.com/marketscope/radar-cli/internal/scoring"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <iso3>",
	Short: "Fetch the country indicator snapshot with alerts and summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		countryCode := strings.ToUpper(args[0])

		env, err := newEngine(cfg)
		if err != nil {
			return err
		}

		snap, err := env.agg.Snapshot(ctx, countryCode)
		if err != nil {
			return err
		}

		fmt.Printf("Country indicators for %s\n", countryCode)
		for _, key := range indicators.Keys {
			fmt.Printf("  %-16s %14s  (%s)\n", key, formatFloat(snap.Value(key)), formatYear(snap.Year(key)))
		}

		risk := snap.Value(indicators.KeyRiskScore)
		fmt.Printf("  %-16s %14s\n", "risk_level", string(scoring.ClassifyRisk(risk)))

		evaluator := alerts.Evaluator{
			InflationAbove:    cfg.Alerts.InflationAbove,
			UnemploymentAbove: cfg.Alerts.UnemploymentAbove,
			RiskBelow:         cfg.Alerts.RiskBelow,
		}
		flags := evaluator.Evaluate(
			snap.Value(indicators.KeyInflation),
			snap.Value(indicators.KeyUnemployment),
			risk,
		)
		if flags.Any() {
			fmt.Println("Alerts:")
			if flags.Inflation {
				fmt.Printf("  inflation %s above threshold %.1f\n", formatFloat(snap.Value(indicators.KeyInflation)), cfg.Alerts.InflationAbove)
			}
			if flags.Unemployment {
				fmt.Printf("  unemployment %s above threshold %.1f\n", formatFloat(snap.Value(indicators.KeyUnemployment)), cfg.Alerts.UnemploymentAbove)
			}
			if flags.Risk {
				fmt.Printf("  risk score %s below threshold %.1f\n", formatFloat(risk), cfg.Alerts.RiskBelow)
			}
		}

		// Country-level summary: composite and demand without a city
		// population, plus the completeness ratio.
		composite := scoring.Composite(nil,
			snap.Value(indicators.KeyGDPPerCapita),
			snap.Value(indicators.KeyInflation),
			snap.Value(indicators.KeyUnemployment),
			snap.Value(indicators.KeyGrowth),
			risk,
			env.weights(),
		)
		demand := scoring.DemandIndex(nil,
			snap.Value(indicators.KeyDensity),
			snap.Value(indicators.KeyGDPPerCapita),
		)
		values := make([]*float64, 0, len(indicators.Keys))
		for _, key := range indicators.Keys {
			values = append(values, snap.Value(key))
		}

		fmt.Println("Summary:")
		fmt.Printf("  composite score  %s\n", formatScore(composite))
		fmt.Printf("  demand index     %s\n", formatScore(demand))
		fmt.Printf("  data quality     %.0f%%\n", scoring.DataQuality(values))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}
