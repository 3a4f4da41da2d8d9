// Package geoquery builds Overpass QL queries for competitor, zone, and POI
// lookups, and post-processes their results.
package geoquery

import (
	"fmt"
	"strings"

	"github.com/twpayne/go-geom"

	"github.com/marketscope/radar-cli/pkg/overpass"
)

// Confidence describes how a category was resolved to a tag filter.
type Confidence string

const (
	// ConfidenceExact means the category matched the tag table.
	ConfidenceExact Confidence = "exact"
	// ConfidenceFuzzy means the filter fell back to a case-insensitive
	// substring match on the element name. Fuzzy results may both over-
	// and under-match; zero hits are indistinguishable from a genuinely
	// empty area.
	ConfidenceFuzzy Confidence = "fuzzy"
)

// Mode selects the Overpass output statement.
type Mode string

const (
	// ModeCount returns a single count element.
	ModeCount Mode = "count"
	// ModeTags returns elements with their tags, no geometry.
	ModeTags Mode = "tags"
	// ModeCenter returns elements with native or computed center coordinates.
	ModeCenter Mode = "center"
)

// TagFilter is one element selector clause plus how trustworthy it is.
type TagFilter struct {
	Clause     string
	Confidence Confidence
}

// AreaFilter returns the area clause for a query: a radius around the point
// when both coordinates are known, otherwise an administrative-boundary
// match on exact city name and ISO country code. The boundary form depends
// on upstream naming and may silently match nothing.
func AreaFilter(city, countryISO2 string, lat, lon *float64, radiusMeters int) string {
	if lat != nil && lon != nil {
		return fmt.Sprintf("(around:%d,%g,%g)", radiusMeters, *lat, *lon)
	}
	return fmt.Sprintf(`(area["name"=%q]["boundary"="administrative"]["ISO3166-1"=%q])`, city, strings.ToUpper(countryISO2))
}

// RadiusMode reports whether the area filter will use radius form.
func RadiusMode(lat, lon *float64) bool {
	return lat != nil && lon != nil
}

// CategoryFilter resolves a business category to a tag filter: exact table
// match first, otherwise a case-insensitive name regex on the first word of
// the category.
func (t *Table) CategoryFilter(category string) TagFilter {
	if tag, ok := t.Lookup(category); ok {
		return TagFilter{
			Clause:     TagSelector(tag.Key, tag.Value),
			Confidence: ConfidenceExact,
		}
	}
	keyword := category
	if fields := strings.Fields(category); len(fields) > 0 {
		keyword = fields[0]
	}
	return TagFilter{
		Clause:     fmt.Sprintf(`["name"~%q,i]`, keyword),
		Confidence: ConfidenceFuzzy,
	}
}

// TagSelector builds an exact key=value element selector.
func TagSelector(key, value string) string {
	return fmt.Sprintf("[%q=%q]", key, value)
}

// KeySelector builds a key-presence element selector.
func KeySelector(key string) string {
	return fmt.Sprintf("[%q]", key)
}

// PlaceSelector builds a place-type regex selector for zone queries.
func PlaceSelector(placeTypes []string) string {
	if len(placeTypes) == 0 {
		placeTypes = []string{"neighbourhood", "suburb", "quarter", "district"}
	}
	return fmt.Sprintf(`["place"~%q]`, strings.Join(placeTypes, "|"))
}

// Build assembles an Overpass QL query matching each selector across node,
// way, and relation within the area, with the requested output mode.
func Build(selectors []string, area string, mode Mode) string {
	var b strings.Builder
	b.WriteString("[out:json][timeout:25];\n(\n")
	for _, selector := range selectors {
		for _, kind := range []string{"node", "way", "relation"} {
			fmt.Fprintf(&b, "  %s%s%s;\n", kind, selector, area)
		}
	}
	b.WriteString(");\nout ")
	b.WriteString(string(mode))
	b.WriteString(";")
	return b.String()
}

// Point is one mappable result with a display name.
type Point struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name,omitempty"`
}

// ExtractPoints converts elements to points, preferring element-native
// coordinates and falling back to the computed center for ways and
// relations. Scanning stops once limit points are collected.
func ExtractPoints(elements []overpass.Element, limit int) []Point {
	var points []Point
	for _, element := range elements {
		name := element.Tags["name"]
		switch {
		case element.Lat != nil && element.Lon != nil:
			points = append(points, Point{Lat: *element.Lat, Lon: *element.Lon, Name: name})
		case element.Center != nil:
			points = append(points, Point{Lat: element.Center.Lat, Lon: element.Center.Lon, Name: name})
		}
		if limit > 0 && len(points) >= limit {
			break
		}
	}
	return points
}

// BoundingBox is the lat/lon envelope of a point set, for map framing.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Bounds computes the bounding box of a point set. Returns nil for an empty
// set.
func Bounds(points []Point) *BoundingBox {
	if len(points) == 0 {
		return nil
	}
	bounds := geom.NewBounds(geom.XY)
	for _, p := range points {
		bounds.Extend(geom.NewPointFlat(geom.XY, []float64{p.Lon, p.Lat}))
	}
	return &BoundingBox{
		MinLat: bounds.Min(1),
		MinLon: bounds.Min(0),
		MaxLat: bounds.Max(1),
		MaxLon: bounds.Max(0),
	}
}
