// Package geo calls the open-meteo geocoding and forecast services directly,
// the one external dependency the panel talks to besides the backend. Calls
// are rate-limited so typing in the location autocomplete cannot hammer the
// free tier.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	defaultForecastURL  = "https://api.open-meteo.com/v1/forecast"
)

type Location struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Weather struct {
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
}

type Client struct {
	GeocodingURL string
	ForecastURL  string

	http    *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

func NewClient(log *zap.Logger) *Client {
	return &Client{
		GeocodingURL: defaultGeocodingURL,
		ForecastURL:  defaultForecastURL,
		http:         &http.Client{Timeout: 10 * time.Second},
		limiter:      rate.NewLimiter(rate.Every(time.Second), 2),
		log:          log,
	}
}

// SearchLocations geocodes a free-text query and ranks the candidates by
// fuzzy similarity to what the user typed.
func (c *Client) SearchLocations(ctx context.Context, query string) ([]Location, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("name", query)
	params.Set("count", "5")
	params.Set("language", "es")
	params.Set("format", "json")

	var payload struct {
		Results []Location `json:"results"`
	}
	if err := c.getJSON(ctx, c.GeocodingURL+"?"+params.Encode(), &payload); err != nil {
		return nil, err
	}
	return RankLocations(query, payload.Results), nil
}

// RankLocations orders candidates by fuzzy distance to the query, keeping
// unmatched candidates at the end in their original order.
func RankLocations(query string, locations []Location) []Location {
	ranked := make([]Location, len(locations))
	copy(ranked, locations)
	dist := func(l Location) int {
		d := fuzzy.RankMatchNormalizedFold(query, l.Name)
		if d < 0 {
			// no fuzzy match, sink below every match
			return int(^uint(0) >> 1)
		}
		return d
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return dist(ranked[i]) < dist(ranked[j])
	})
	return ranked
}

// Forecast returns temperature and a coarse condition for the hour of the
// given instant.
func (c *Client) Forecast(ctx context.Context, lat, lon float64, at time.Time) (Weather, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Weather{}, err
	}

	day := at.Format("2006-01-02")
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", lat))
	params.Set("longitude", fmt.Sprintf("%f", lon))
	params.Set("hourly", "temperature_2m,weathercode")
	params.Set("start_date", day)
	params.Set("end_date", day)

	var payload struct {
		Hourly struct {
			Temperature []float64 `json:"temperature_2m"`
			WeatherCode []int     `json:"weathercode"`
		} `json:"hourly"`
	}
	if err := c.getJSON(ctx, c.ForecastURL+"?"+params.Encode(), &payload); err != nil {
		return Weather{}, err
	}

	hour := at.Hour()
	if hour >= len(payload.Hourly.Temperature) || hour >= len(payload.Hourly.WeatherCode) {
		return Weather{}, fmt.Errorf("forecast has no data for hour %d", hour)
	}
	return Weather{
		Temperature: payload.Hourly.Temperature[hour],
		Condition:   Condition(payload.Hourly.WeatherCode[hour]),
	}, nil
}

// Condition buckets an open-meteo weathercode.
func Condition(code int) string {
	switch {
	case code < 3:
		return "Clear"
	case code < 50:
		return "Cloudy"
	case code < 70:
		return "Rainy"
	default:
		return "Stormy"
	}
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("geo request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geo request: status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
