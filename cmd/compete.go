package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marketscope/radar-cli/internal/geoquery"
)

var (
	competeCategory string
	competeRadiusKM int
	competePoints   bool
)

var competeCmd = &cobra.Command{
	Use:   "compete <iso2> <city>",
	Short: "Analyze competition, zones, and POIs around a city",
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
		site := env.site(iso2, cityName, city, competeRadiusKM)
		if city == nil || city.Lat == nil {
			fmt.Println("city coordinates unknown; using administrative boundary match")
		}

		count := env.analyzer.CompetitorCount(ctx, site, competeCategory)
		fmt.Printf("Competitors for %q in %s: %d (match: %s)\n", competeCategory, site.City, count.Competitors, count.Confidence)

		zones := env.analyzer.Zones(ctx, site)
		fmt.Printf("Zones (%d): %s\n", len(zones), strings.Join(truncate(zones, 50), ", "))

		pois := env.analyzer.MallsOffices(ctx, site)
		fmt.Printf("Malls and offices (%d): %s\n", len(pois), strings.Join(truncate(pois, 50), ", "))

		if competePoints {
			points := env.analyzer.CompetitorPoints(ctx, site, competeCategory, cfg.Query.MaxPoints)
			fmt.Printf("Map points: %d\n", len(points))
			if box := geoquery.Bounds(points); box != nil {
				fmt.Printf("  bounds lat %.4f..%.4f lon %.4f..%.4f\n", box.MinLat, box.MaxLat, box.MinLon, box.MaxLon)
			}
			for _, p := range points {
				fmt.Printf("  %.5f,%.5f  %s\n", p.Lat, p.Lon, p.Name)
			}

			zonePoints := env.analyzer.ZonePoints(ctx, site, cfg.Query.ZoneTypes, cfg.Query.MaxPoints)
			fmt.Printf("Zone points: %d\n", len(zonePoints))
			for _, p := range zonePoints {
				fmt.Printf("  %.5f,%.5f  %s\n", p.Lat, p.Lon, p.Name)
			}
		}
		return nil
	},
}

func truncate(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func init() {
	competeCmd.Flags().StringVar(&competeCategory, "category", "Restaurant", "business category")
	competeCmd.Flags().IntVar(&competeRadiusKM, "radius-km", 0, "competition radius in km (default from config)")
	competeCmd.Flags().BoolVar(&competePoints, "points", false, "print competitor map points")
	rootCmd.AddCommand(competeCmd)
}
