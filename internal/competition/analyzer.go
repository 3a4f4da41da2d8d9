// Package competition runs geospatial competitor, zone, and POI analysis
// against Overpass, memoized by request signature. Transport failures
// degrade to zero counts and empty lists; nothing here aborts a pipeline.
package competition

import (
	"context"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/marketscope/radar-cli/internal/cache"
	"github.com/marketscope/radar-cli/internal/geoquery"
	"github.com/marketscope/radar-cli/pkg/overpass"
)

// zonesRadiusMeters is the fixed scan radius for zone and mall/office
// listings; competitor queries use the per-site radius instead.
const zonesRadiusMeters = 15000

// Site is the geographic scope of an analysis: a city, its country, its
// coordinates when the gazetteer knows them, and the competition radius.
// Without coordinates every query falls back to administrative-boundary
// matching.
type Site struct {
	City         string
	CountryISO2  string
	Lat          *float64
	Lon          *float64
	RadiusMeters int
}

func (s Site) key(parts ...string) string {
	lat, lon := "-", "-"
	if s.Lat != nil {
		lat = strconv.FormatFloat(*s.Lat, 'f', 5, 64)
	}
	if s.Lon != nil {
		lon = strconv.FormatFloat(*s.Lon, 'f', 5, 64)
	}
	base := []string{"overpass", s.City, s.CountryISO2, lat, lon, strconv.Itoa(s.RadiusMeters)}
	return cache.Key(append(base, parts...)...)
}

// Count is a competitor count with the confidence of its category filter.
type Count struct {
	Competitors int                 `json:"competitors"`
	Confidence  geoquery.Confidence `json:"confidence"`
}

// Analyzer memoizes Overpass query results. Geospatial data is volatile and
// the upstream rate-limit-sensitive, so the TTL is short (typically 1h).
type Analyzer struct {
	op    overpass.Client
	cache *cache.Cache
	table *geoquery.Table
	ttl   time.Duration
}

// New creates an Analyzer.
func New(op overpass.Client, c *cache.Cache, table *geoquery.Table, ttl time.Duration) *Analyzer {
	return &Analyzer{op: op, cache: c, table: table, ttl: ttl}
}

// Table exposes the category table for candidate listing.
func (a *Analyzer) Table() *geoquery.Table {
	return a.table
}

// CompetitorCount counts elements matching the category within the site.
// Zero may mean an empty market, a failed boundary match, or a fuzzy filter
// that found nothing; the Confidence flag separates only the last case.
func (a *Analyzer) CompetitorCount(ctx context.Context, site Site, category string) Count {
	tag := a.table.CategoryFilter(category)
	area := geoquery.AreaFilter(site.City, site.CountryISO2, site.Lat, site.Lon, site.RadiusMeters)
	query := geoquery.Build([]string{tag.Clause}, area, geoquery.ModeCount)

	count, err := cache.GetOrCompute(a.cache, site.key("count", category), a.ttl, func() (int, error) {
		elements, runErr := a.op.Run(ctx, query)
		if runErr != nil {
			return 0, runErr
		}
		return parseCount(elements), nil
	})
	if err != nil {
		zap.L().Warn("competition: count query failed",
			zap.String("city", site.City),
			zap.String("category", category),
			zap.Error(err),
		)
		return Count{Confidence: tag.Confidence}
	}
	return Count{Competitors: count, Confidence: tag.Confidence}
}

// Zones lists the named neighbourhoods and suburbs of the site, sorted and
// deduplicated.
func (a *Analyzer) Zones(ctx context.Context, site Site) []string {
	wide := site
	wide.RadiusMeters = zonesRadiusMeters
	area := geoquery.AreaFilter(wide.City, wide.CountryISO2, wide.Lat, wide.Lon, wide.RadiusMeters)
	selector := geoquery.PlaceSelector([]string{"neighbourhood", "suburb"})
	return a.taggedNames(ctx, wide.key("zones"), []string{selector}, area)
}

// MallsOffices lists named malls, office buildings, and offices of the site.
func (a *Analyzer) MallsOffices(ctx context.Context, site Site) []string {
	wide := site
	wide.RadiusMeters = zonesRadiusMeters
	area := geoquery.AreaFilter(wide.City, wide.CountryISO2, wide.Lat, wide.Lon, wide.RadiusMeters)
	selectors := []string{
		geoquery.TagSelector("shop", "mall"),
		geoquery.TagSelector("building", "office"),
		geoquery.KeySelector("office"),
	}
	return a.taggedNames(ctx, wide.key("pois"), selectors, area)
}

// ZonePoints returns up to limit centroid points of the requested zone
// types, for mapping.
func (a *Analyzer) ZonePoints(ctx context.Context, site Site, zoneTypes []string, limit int) []geoquery.Point {
	area := geoquery.AreaFilter(site.City, site.CountryISO2, site.Lat, site.Lon, site.RadiusMeters)
	selector := geoquery.PlaceSelector(zoneTypes)
	key := site.key(append([]string{"zonepoints", strconv.Itoa(limit)}, zoneTypes...)...)
	return a.centroids(ctx, key, []string{selector}, area, limit)
}

// CompetitorPoints returns up to limit centroid points of category
// competitors, for mapping.
func (a *Analyzer) CompetitorPoints(ctx context.Context, site Site, category string, limit int) []geoquery.Point {
	tag := a.table.CategoryFilter(category)
	area := geoquery.AreaFilter(site.City, site.CountryISO2, site.Lat, site.Lon, site.RadiusMeters)
	key := site.key("competitorpoints", category, strconv.Itoa(limit))
	return a.centroids(ctx, key, []string{tag.Clause}, area, limit)
}

func (a *Analyzer) taggedNames(ctx context.Context, key string, selectors []string, area string) []string {
	query := geoquery.Build(selectors, area, geoquery.ModeTags)
	names, err := cache.GetOrCompute(a.cache, key, a.ttl, func() ([]string, error) {
		elements, runErr := a.op.Run(ctx, query)
		if runErr != nil {
			return nil, runErr
		}
		return distinctNames(elements), nil
	})
	if err != nil {
		zap.L().Warn("competition: tagged query failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	return names
}

func (a *Analyzer) centroids(ctx context.Context, key string, selectors []string, area string, limit int) []geoquery.Point {
	query := geoquery.Build(selectors, area, geoquery.ModeCenter)
	points, err := cache.GetOrCompute(a.cache, key, a.ttl, func() ([]geoquery.Point, error) {
		elements, runErr := a.op.Run(ctx, query)
		if runErr != nil {
			return nil, runErr
		}
		return geoquery.ExtractPoints(elements, limit), nil
	})
	if err != nil {
		zap.L().Warn("competition: centroid query failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	return points
}

// parseCount reads the total from a count-mode response.
func parseCount(elements []overpass.Element) int {
	for _, element := range elements {
		if element.Type != "count" {
			continue
		}
		if total, err := strconv.Atoi(element.Tags["total"]); err == nil {
			return total
		}
	}
	return 0
}

// distinctNames collects non-empty element names, deduplicated and sorted.
func distinctNames(elements []overpass.Element) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, element := range elements {
		name := element.Tags["name"]
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SiteCounter binds an Analyzer to a fixed site so ranking code can count
// competitors per category without knowing about geospatial scopes.
type SiteCounter struct {
	Analyzer *Analyzer
	Site     Site
}

// Count returns the competitor count and filter confidence for a category.
func (c SiteCounter) Count(ctx context.Context, category string) (int, geoquery.Confidence) {
	result := c.Analyzer.CompetitorCount(ctx, c.Site, category)
	return result.Competitors, result.Confidence
}
