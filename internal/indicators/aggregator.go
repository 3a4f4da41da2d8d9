// Package indicators aggregates country-level World Bank indicators into
// per-country snapshots, with cache-backed fetches and per-indicator failure
// tolerance.
package indicators

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/marketscope/radar-cli/internal/cache"
	"github.com/marketscope/radar-cli/pkg/worldbank"
)

// Indicator keys of a country snapshot.
const (
	KeyGDP            = "gdp"
	KeyGDPPerCapita   = "gdp_pc"
	KeyPopulation     = "population"
	KeyDensity        = "density"
	KeyInflation      = "inflation"
	KeyUnemployment   = "unemployment"
	KeyGrowth         = "growth"
	KeyTaxRevenue     = "tax_revenue"
	KeyCurrentAccount = "current_account"
	KeyMedianAge      = "median_age"
	KeyUrbanization   = "urbanization"
	KeyLaborForce     = "labor_force"
	KeyRiskScore      = "risk_score"
)

// Keys lists every snapshot indicator in display order. Data quality is
// measured against this set.
var Keys = []string{
	KeyGDP, KeyGDPPerCapita, KeyPopulation, KeyDensity,
	KeyInflation, KeyUnemployment, KeyGrowth, KeyTaxRevenue,
	KeyCurrentAccount, KeyMedianAge, KeyUrbanization, KeyLaborForce,
	KeyRiskScore,
}

// indicatorCodes maps snapshot keys to World Bank indicator codes.
var indicatorCodes = map[string]string{
	KeyGDP:            "NY.GDP.MKTP.CD",
	KeyGDPPerCapita:   "NY.GDP.PCAP.CD",
	KeyPopulation:     "SP.POP.TOTL",
	KeyDensity:        "EN.POP.DNST",
	KeyInflation:      "FP.CPI.TOTL.ZG",
	KeyUnemployment:   "SL.UEM.TOTL.ZS",
	KeyGrowth:         "NY.GDP.MKTP.KD.ZG",
	KeyTaxRevenue:     "GC.TAX.TOTL.GD.ZS",
	KeyCurrentAccount: "BN.CAB.XOKA.GD.ZS",
	KeyMedianAge:      "SP.POP.MEDN",
	KeyUrbanization:   "SP.URB.TOTL.IN.ZS",
	KeyLaborForce:     "SL.TLF.CACT.ZS",
}

// governanceCodes are the six WGI sub-indicators averaged into risk_score:
// control of corruption, government effectiveness, political stability,
// rule of law, regulatory quality, voice and accountability.
var governanceCodes = []string{"CC.EST", "GE.EST", "PV.EST", "RL.EST", "RQ.EST", "VA.EST"}

// Snapshot is one immutable per-country indicator snapshot. A missing key or
// nil value means the data was unavailable upstream, never zero.
type Snapshot struct {
	CountryCode  string
	Observations map[string]worldbank.Observation
}

// Value returns the observed value for a snapshot key, or nil.
func (s *Snapshot) Value(key string) *float64 {
	return s.Observations[key].Value
}

// Year returns the observation year for a snapshot key, or nil.
func (s *Snapshot) Year(key string) *int {
	return s.Observations[key].Year
}

// Aggregator fetches indicator snapshots through a TTL cache.
type Aggregator struct {
	wb    worldbank.Client
	cache *cache.Cache
	ttl   time.Duration
}

// New creates an Aggregator. Indicator data changes at most yearly, so the
// TTL is typically 24h.
func New(wb worldbank.Client, c *cache.Cache, ttl time.Duration) *Aggregator {
	return &Aggregator{wb: wb, cache: c, ttl: ttl}
}

// Snapshot assembles the full indicator snapshot for an ISO3 country code.
// The twelve direct indicators and the governance risk average are fetched
// concurrently; each failure degrades that single indicator to absent.
func (a *Aggregator) Snapshot(ctx context.Context, countryCode string) (*Snapshot, error) {
	snap := &Snapshot{
		CountryCode:  countryCode,
		Observations: make(map[string]worldbank.Observation, len(Keys)),
	}

	var mu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(6)

	for key, code := range indicatorCodes {
		g.Go(func() error {
			obs := a.observation(gCtx, countryCode, code)
			mu.Lock()
			snap.Observations[key] = obs
			mu.Unlock()
			return nil
		})
	}
	g.Go(func() error {
		obs := a.GovernanceRisk(gCtx, countryCode)
		mu.Lock()
		snap.Observations[KeyRiskScore] = obs
		mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// GovernanceRisk averages the six WGI sub-indicators. The result is absent
// only when all six are; the year is the most recent among those that
// reported, which may not be uniform across sub-indicators.
func (a *Aggregator) GovernanceRisk(ctx context.Context, countryCode string) worldbank.Observation {
	var sum float64
	var count int
	var maxYear *int
	for _, code := range governanceCodes {
		obs := a.observation(ctx, countryCode, code)
		if obs.Value != nil {
			sum += *obs.Value
			count++
		}
		if obs.Year != nil && (maxYear == nil || *obs.Year > *maxYear) {
			maxYear = obs.Year
		}
	}
	if count == 0 {
		return worldbank.Observation{}
	}
	avg := sum / float64(count)
	return worldbank.Observation{Value: &avg, Year: maxYear}
}

// Series returns the cached indicator time series for a snapshot key.
func (a *Aggregator) Series(ctx context.Context, countryCode, key string, limit int) []worldbank.SeriesPoint {
	code, ok := indicatorCodes[key]
	if !ok {
		code = key // allow raw World Bank codes
	}
	series, err := cache.GetOrCompute(a.cache,
		cache.Key("worldbank", "series", countryCode, code, strconv.Itoa(limit)),
		a.ttl,
		func() ([]worldbank.SeriesPoint, error) {
			return a.wb.Series(ctx, countryCode, code, limit)
		})
	if err != nil {
		zap.L().Warn("indicators: series fetch failed",
			zap.String("country", countryCode),
			zap.String("indicator", code),
			zap.Error(err),
		)
		return nil
	}
	return series
}

// observation fetches one indicator through the cache, degrading any
// transport or payload failure to an absent observation.
func (a *Aggregator) observation(ctx context.Context, countryCode, code string) worldbank.Observation {
	obs, err := cache.GetOrCompute(a.cache,
		cache.Key("worldbank", "indicator", countryCode, code),
		a.ttl,
		func() (worldbank.Observation, error) {
			return a.wb.Indicator(ctx, countryCode, code)
		})
	if err != nil {
		zap.L().Warn("indicators: fetch failed",
			zap.String("country", countryCode),
			zap.String("indicator", code),
			zap.Error(err),
		)
		return worldbank.Observation{}
	}
	return obs
}
