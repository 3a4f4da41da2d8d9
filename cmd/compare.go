package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marketscope/radar-cli/internal/indicators"
	"github.com/marketscope/radar-cli/internal/scoring"
)

var compareCmd = &cobra.Command{
	Use:   "compare <iso3> <iso3> [iso3...]",
	Short: "Compare indicator snapshots across countries side by side",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := newEngine(cfg)
		if err != nil {
			return err
		}

		codes := make([]string, len(args))
		snaps := make([]*indicators.Snapshot, len(args))
		for i, arg := range args {
			codes[i] = strings.ToUpper(arg)
			snap, err := env.agg.Snapshot(ctx, codes[i])
			if err != nil {
				return err
			}
			snaps[i] = snap
		}

		fmt.Printf("%-16s", "indicator")
		for _, code := range codes {
			fmt.Printf(" %14s", code)
		}
		fmt.Println()

		for _, key := range indicators.Keys {
			fmt.Printf("%-16s", key)
			for _, snap := range snaps {
				fmt.Printf(" %14s", formatFloat(snap.Value(key)))
			}
			fmt.Println()
		}

		fmt.Printf("%-16s", "composite")
		for _, snap := range snaps {
			composite := scoring.Composite(nil,
				snap.Value(indicators.KeyGDPPerCapita),
				snap.Value(indicators.KeyInflation),
				snap.Value(indicators.KeyUnemployment),
				snap.Value(indicators.KeyGrowth),
				snap.Value(indicators.KeyRiskScore),
				env.weights(),
			)
			fmt.Printf(" %14s", formatScore(composite))
		}
		fmt.Println()

		fmt.Printf("%-16s", "data_quality")
		for _, snap := range snaps {
			values := make([]*float64, 0, len(indicators.Keys))
			for _, key := range indicators.Keys {
				values = append(values, snap.Value(key))
			}
			fmt.Printf(" %13.0f%%", scoring.DataQuality(values))
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
}
