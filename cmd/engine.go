package main

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/marketscope/radar-cli/internal/cache"
	"github.com/marketscope/radar-cli/internal/competition"
	"github.com/marketscope/radar-cli/internal/config"
	"github.com/marketscope/radar-cli/internal/geoquery"
	"github.com/marketscope/radar-cli/internal/indicators"
	"github.com/marketscope/radar-cli/internal/scoring"
	"github.com/marketscope/radar-cli/pkg/gazetteer"
	"github.com/marketscope/radar-cli/pkg/overpass"
	"github.com/marketscope/radar-cli/pkg/worldbank"
)

// engine wires the upstream clients, the shared cache, and the analysis
// components for one invocation.
type engine struct {
	wb       worldbank.Client
	gaz      gazetteer.Client
	agg      *indicators.Aggregator
	analyzer *competition.Analyzer
	cfg      *config.Config
}

func newEngine(cfg *config.Config) (*engine, error) {
	shared := cache.New()

	wb := worldbank.NewClient(worldbank.WithBaseURL(cfg.Sources.WorldBankURL))
	gaz := gazetteer.NewClient(gazetteer.WithBaseURL(cfg.Sources.GazetteerURL))
	op := overpass.NewClient(
		overpass.WithBaseURL(cfg.Sources.OverpassURL),
		overpass.WithRateLimit(cfg.Sources.OverpassRPS),
	)

	table := geoquery.NewTable()
	if cfg.Query.CategoryFile != "" {
		if err := table.LoadOverrides(cfg.Query.CategoryFile); err != nil {
			return nil, eris.Wrap(err, "engine: load category overrides")
		}
	}

	return &engine{
		wb:       wb,
		gaz:      gaz,
		agg:      indicators.New(wb, shared, cfg.Cache.IndicatorTTL()),
		analyzer: competition.New(op, shared, table, cfg.Cache.GeospatialTTL()),
		cfg:      cfg,
	}, nil
}

// findCity resolves a city by name (case-insensitive) among the gazetteer
// records for a country. Returns nil when the gazetteer does not know it;
// geospatial queries then run in boundary mode.
func (e *engine) findCity(ctx context.Context, countryISO2, name string) (*gazetteer.City, error) {
	cities, err := e.gaz.SearchCities(ctx, countryISO2)
	if err != nil {
		return nil, err
	}
	for i := range cities {
		if strings.EqualFold(cities[i].Name, name) {
			return &cities[i], nil
		}
	}
	return nil, nil
}

// site builds the analysis scope for a city, radius in kilometers.
func (e *engine) site(countryISO2, cityName string, city *gazetteer.City, radiusKM int) competition.Site {
	if radiusKM <= 0 {
		radiusKM = e.cfg.Query.RadiusKM
	}
	s := competition.Site{
		City:         cityName,
		CountryISO2:  countryISO2,
		RadiusMeters: radiusKM * 1000,
	}
	if city != nil {
		s.City = city.Name
		s.Lat = city.Lat
		s.Lon = city.Lon
	}
	return s
}

// weights returns the configured weight vector.
func (e *engine) weights() scoring.Weights {
	w := e.cfg.Weights
	return scoring.Weights{
		Population:   w.Population,
		GDPPerCapita: w.GDPPerCapita,
		Inflation:    w.Inflation,
		Unemployment: w.Unemployment,
		Growth:       w.Growth,
		Risk:         w.Risk,
	}
}
