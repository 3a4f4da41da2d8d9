// Package gazetteer fetches city demographic records from the OpenDataSoft
// geonames dataset (all cities with a population above 1000).
package gazetteer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultBaseURL = "https://public.opendatasoft.com/api/records/1.0/search/"
	defaultDataset = "geonames-all-cities-with-a-population-1000"
	maxRows        = 500
)

// City is one gazetteer record. Population and coordinates are nil when the
// dataset does not report them; a city without coordinates still supports
// boundary-based geospatial queries.
type City struct {
	Name       string
	Country    string
	Population *int64
	Lat        *float64
	Lon        *float64
}

// Client searches the city gazetteer.
type Client interface {
	// SearchCities returns up to 500 cities for the ISO2 country code,
	// sorted by population descending (upstream sort).
	SearchCities(ctx context.Context, countryISO2 string) ([]City, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a gazetteer client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type searchResponse struct {
	Records []struct {
		Fields struct {
			Name        string          `json:"name"`
			ASCIIName   string          `json:"ascii_name"`
			CountryName string          `json:"cou_name_en"`
			Population  json.RawMessage `json:"population"`
			Coordinates []float64       `json:"coordinates"`
		} `json:"fields"`
	} `json:"records"`
}

func (c *httpClient) SearchCities(ctx context.Context, countryISO2 string) ([]City, error) {
	params := url.Values{
		"dataset":             {defaultDataset},
		"rows":                {strconv.Itoa(maxRows)},
		"sort":                {"population"},
		"refine.country_code": {strings.ToUpper(countryISO2)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "gazetteer: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "gazetteer: send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, eris.Errorf("gazetteer: unexpected status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, eris.Wrap(err, "gazetteer: decode response")
	}

	cities := make([]City, 0, len(payload.Records))
	for _, record := range payload.Records {
		f := record.Fields
		city := City{Country: f.CountryName}
		city.Name = f.Name
		if city.Name == "" {
			city.Name = f.ASCIIName
		}
		city.Population = parsePopulation(f.Population)
		if len(f.Coordinates) >= 2 {
			lat, lon := f.Coordinates[0], f.Coordinates[1]
			city.Lat = &lat
			city.Lon = &lon
		}
		cities = append(cities, city)
	}
	return cities, nil
}

// parsePopulation tolerates the dataset reporting population as either a
// number or a numeric string. Zero and unparseable values map to nil.
func parsePopulation(raw json.RawMessage) *int64 {
	if len(raw) == 0 {
		return nil
	}
	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		if asNumber <= 0 {
			return nil
		}
		pop := int64(asNumber)
		return &pop
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if n, convErr := strconv.ParseInt(strings.TrimSpace(asString), 10, 64); convErr == nil && n > 0 {
			return &n
		}
	}
	return nil
}
