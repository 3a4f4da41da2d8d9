// Package ranking orders cities by composite score and business categories
// by demand-versus-competition.
package ranking

import (
	"context"
	"sort"

	"github.com/marketscope/radar-cli/internal/geoquery"
	"github.com/marketscope/radar-cli/internal/indicators"
	"github.com/marketscope/radar-cli/internal/scoring"
	"github.com/marketscope/radar-cli/pkg/gazetteer"
)

// DefaultTopN is the default city ranking depth.
const DefaultTopN = 10

// CityScore is one ranked city.
type CityScore struct {
	Name       string  `json:"name"`
	Population *int64  `json:"population,omitempty"`
	Score      float64 `json:"score"`
}

// RankCities scores every city with a known population against the country
// snapshot and returns the top n by descending score. The sort is stable:
// ties keep the input (population) order.
func RankCities(cities []gazetteer.City, snap *indicators.Snapshot, w scoring.Weights, n int) []CityScore {
	if n <= 0 {
		n = DefaultTopN
	}

	gdpPC := snap.Value(indicators.KeyGDPPerCapita)
	inflation := snap.Value(indicators.KeyInflation)
	unemployment := snap.Value(indicators.KeyUnemployment)
	growth := snap.Value(indicators.KeyGrowth)
	risk := snap.Value(indicators.KeyRiskScore)

	var scored []CityScore
	for _, city := range cities {
		if city.Population == nil {
			continue
		}
		scored = append(scored, CityScore{
			Name:       city.Name,
			Population: city.Population,
			Score:      scoring.Composite(city.Population, gdpPC, inflation, unemployment, growth, risk, w),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > n {
		scored = scored[:n]
	}
	return scored
}

// CompetitorCounter counts competitors for a business category at some
// already-bound site.
type CompetitorCounter interface {
	Count(ctx context.Context, category string) (int, geoquery.Confidence)
}

// Recommendation is one scored category suggestion.
type Recommendation struct {
	Category    string              `json:"category"`
	Competitors int                 `json:"competitors"`
	Score       float64             `json:"score"`
	Confidence  geoquery.Confidence `json:"confidence"`
}

// Recommend scores candidate categories as demand / (competitors + 1)
// and returns the top n by descending score.
func Recommend(ctx context.Context, counter CompetitorCounter, candidates []string, demandIndex float64, n int) []Recommendation {
	if n <= 0 {
		n = 3
	}

	recs := make([]Recommendation, 0, len(candidates))
	for _, category := range candidates {
		count, confidence := counter.Count(ctx, category)
		divisor := count + 1
		if divisor < 1 {
			divisor = 1
		}
		recs = append(recs, Recommendation{
			Category:    category,
			Competitors: count,
			Score:       demandIndex / float64(divisor),
			Confidence:  confidence,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	if len(recs) > n {
		recs = recs[:n]
	}
	return recs
}

// BestCategories orders candidates by raw ascending competitor count.
// Unlike Recommend it applies no demand weighting.
func BestCategories(ctx context.Context, counter CompetitorCounter, candidates []string, n int) []Recommendation {
	if n <= 0 {
		n = 5
	}

	recs := make([]Recommendation, 0, len(candidates))
	for _, category := range candidates {
		count, confidence := counter.Count(ctx, category)
		recs = append(recs, Recommendation{
			Category:    category,
			Competitors: count,
			Confidence:  confidence,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Competitors < recs[j].Competitors })
	if len(recs) > n {
		recs = recs[:n]
	}
	return recs
}
