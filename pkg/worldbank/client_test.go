package worldbank

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/country", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.Write([]byte(`[
			{"page":1,"pages":1,"per_page":400,"total":4},
			[
				{"id":"PRT","iso2Code":"PT","name":"Portugal","region":{"id":"ECS"}},
				{"id":"EMU","iso2Code":"XC","name":"Euro area","region":{"id":"NA"}},
				{"id":"DEU","iso2Code":"DE","name":"Germany","region":{"id":"ECS"}},
				{"id":"","iso2Code":"","name":"","region":{"id":"ECS"}}
			]
		]`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	countries, err := client.Countries(context.Background())
	require.NoError(t, err)

	// Aggregates and blank rows are skipped; the rest sorts by name.
	require.Len(t, countries, 2)
	assert.Equal(t, Country{ISO2: "DE", ISO3: "DEU", Name: "Germany"}, countries[0])
	assert.Equal(t, Country{ISO2: "PT", ISO3: "PRT", Name: "Portugal"}, countries[1])
}

func TestIndicator(t *testing.T) {
	t.Run("takes newest non-null value", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/country/PRT/indicator/NY.GDP.PCAP.CD", r.URL.Path)
			w.Write([]byte(`[
				{"page":1},
				[
					{"date":"2024","value":null},
					{"date":"2023","value":27331.5},
					{"date":"2022","value":25000.0}
				]
			]`))
		}))
		defer server.Close()

		client := NewClient(WithBaseURL(server.URL))
		obs, err := client.Indicator(context.Background(), "PRT", "NY.GDP.PCAP.CD")
		require.NoError(t, err)

		require.NotNil(t, obs.Value)
		assert.Equal(t, 27331.5, *obs.Value)
		require.NotNil(t, obs.Year)
		assert.Equal(t, 2023, *obs.Year)
	})

	t.Run("all null yields empty observation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"page":1},[{"date":"2024","value":null},{"date":"2023","value":null}]]`))
		}))
		defer server.Close()

		client := NewClient(WithBaseURL(server.URL))
		obs, err := client.Indicator(context.Background(), "PRT", "SP.POP.MEDN")
		require.NoError(t, err)

		assert.Nil(t, obs.Value)
		assert.Nil(t, obs.Year)
	})

	t.Run("zero is a valid observation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"page":1},[{"date":"2023","value":0.0}]]`))
		}))
		defer server.Close()

		client := NewClient(WithBaseURL(server.URL))
		obs, err := client.Indicator(context.Background(), "PRT", "BN.CAB.XOKA.GD.ZS")
		require.NoError(t, err)

		require.NotNil(t, obs.Value)
		assert.Equal(t, 0.0, *obs.Value)
	})
}

func TestSeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "12", r.URL.Query().Get("per_page"))
		w.Write([]byte(`[
			{"page":1},
			[
				{"date":"2024","value":null},
				{"date":"2023","value":2.1},
				{"date":"2022","value":1.9},
				{"date":"MRV","value":5.0}
			]
		]`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	series, err := client.Series(context.Background(), "PRT", "NY.GDP.MKTP.KD.ZG", 12)
	require.NoError(t, err)

	// Nulls and unparseable dates drop out; the rest sorts ascending.
	require.Len(t, series, 2)
	assert.Equal(t, SeriesPoint{Year: 2022, Value: 1.9}, series[0])
	assert.Equal(t, SeriesPoint{Year: 2023, Value: 2.1}, series[1])
}

func TestMalformedEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"message":"Invalid indicator"}]`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	_, err := client.Indicator(context.Background(), "PRT", "BOGUS")
	assert.ErrorContains(t, err, "malformed response")
}

func TestNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	_, err := client.Countries(context.Background())
	assert.ErrorContains(t, err, "unexpected status 502")
}
