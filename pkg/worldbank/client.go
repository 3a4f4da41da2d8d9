// Package worldbank provides a client for the World Bank open data API v2.
package worldbank

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.worldbank.org/v2"

// Country identifies one country in the World Bank country list.
type Country struct {
	ISO2 string
	ISO3 string
	Name string
}

// Observation is the most recent non-null value of an indicator, with the
// year it was observed. Both fields are nil when the upstream reported no
// data at all; a zero Value is a valid observation, not absence.
type Observation struct {
	Value *float64
	Year  *int
}

// SeriesPoint is one (year, value) pair of an indicator time series.
type SeriesPoint struct {
	Year  int
	Value float64
}

// Client fetches country metadata and indicator values.
type Client interface {
	// Countries lists all real countries (regional aggregates excluded),
	// sorted by name.
	Countries(ctx context.Context) ([]Country, error)

	// Indicator returns the most recent non-null observation for the
	// indicator code, or an empty Observation when none is available.
	Indicator(ctx context.Context, countryCode, indicatorCode string) (Observation, error)

	// Series returns up to limit (year, value) pairs for the indicator,
	// ascending by year. Null upstream values are skipped.
	Series(ctx context.Context, countryCode, indicatorCode string, limit int) ([]SeriesPoint, error)
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

// NewClient creates a World Bank API client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// countryRow mirrors one entry of the /country response.
type countryRow struct {
	ID       string `json:"id"`
	ISO2Code string `json:"iso2Code"`
	Name     string `json:"name"`
	Region   struct {
		ID string `json:"id"`
	} `json:"region"`
}

// indicatorRow mirrors one entry of the /country/{c}/indicator/{i} response.
type indicatorRow struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

func (c *httpClient) Countries(ctx context.Context) ([]Country, error) {
	var rows []countryRow
	params := url.Values{"format": {"json"}, "per_page": {"400"}}
	if err := c.getJSON(ctx, "/country", params, &rows); err != nil {
		return nil, err
	}

	countries := make([]Country, 0, len(rows))
	for _, row := range rows {
		// Region id "NA" marks aggregates (e.g. "Euro area"), not countries.
		if row.Region.ID == "NA" {
			continue
		}
		if row.ISO2Code == "" || row.ID == "" || row.Name == "" {
			continue
		}
		countries = append(countries, Country{ISO2: row.ISO2Code, ISO3: row.ID, Name: row.Name})
	}
	sort.Slice(countries, func(i, j int) bool { return countries[i].Name < countries[j].Name })
	return countries, nil
}

func (c *httpClient) Indicator(ctx context.Context, countryCode, indicatorCode string) (Observation, error) {
	rows, err := c.indicatorRows(ctx, countryCode, indicatorCode, 10)
	if err != nil {
		return Observation{}, err
	}

	// Rows arrive newest first; take the first with a reported value.
	for _, row := range rows {
		if row.Value == nil {
			continue
		}
		obs := Observation{Value: row.Value}
		if year, convErr := strconv.Atoi(row.Date); convErr == nil {
			obs.Year = &year
		}
		return obs, nil
	}
	return Observation{}, nil
}

func (c *httpClient) Series(ctx context.Context, countryCode, indicatorCode string, limit int) ([]SeriesPoint, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := c.indicatorRows(ctx, countryCode, indicatorCode, limit)
	if err != nil {
		return nil, err
	}

	series := make([]SeriesPoint, 0, len(rows))
	for _, row := range rows {
		if row.Value == nil {
			continue
		}
		year, convErr := strconv.Atoi(row.Date)
		if convErr != nil {
			continue
		}
		series = append(series, SeriesPoint{Year: year, Value: *row.Value})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Year < series[j].Year })
	return series, nil
}

func (c *httpClient) indicatorRows(ctx context.Context, countryCode, indicatorCode string, perPage int) ([]indicatorRow, error) {
	var rows []indicatorRow
	path := fmt.Sprintf("/country/%s/indicator/%s", url.PathEscape(countryCode), url.PathEscape(indicatorCode))
	params := url.Values{"format": {"json"}, "per_page": {strconv.Itoa(perPage)}}
	if err := c.getJSON(ctx, path, params, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// getJSON performs a GET and decodes the second element of the two-element
// envelope the World Bank API wraps every response in.
func (c *httpClient) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "worldbank: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "worldbank: send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return eris.Errorf("worldbank: unexpected status %d for %s", resp.StatusCode, path)
	}

	var envelope []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return eris.Wrap(err, "worldbank: decode envelope")
	}
	if len(envelope) < 2 {
		return eris.Errorf("worldbank: malformed response for %s", path)
	}
	if err := json.Unmarshal(envelope[1], out); err != nil {
		return eris.Wrap(err, "worldbank: decode payload")
	}
	return nil
}
