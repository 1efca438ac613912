// Package weather looks up current conditions for a free-text location via
// the Open-Meteo geocoding and forecast APIs.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tinyland-inc/reefbot/pkg/logger"
)

// ErrNoData means the location did not resolve or the provider had no
// conditions for it. A legitimate outcome, not a failure.
var ErrNoData = errors.New("no weather data")

const (
	defaultGeocodeBase  = "https://geocoding-api.open-meteo.com"
	defaultForecastBase = "https://api.open-meteo.com"
	defaultLanguage     = "en"

	requestTimeout = 10 * time.Second
)

// Info is the provider-agnostic result of a lookup. Missing numerics are NaN
// and a missing code is -1; units fall back to fixed defaults.
type Info struct {
	Place           string
	Latitude        float64
	Longitude       float64
	Temperature     float64
	WindSpeed       float64
	WeatherCode     int
	TemperatureUnit string
	WindUnit        string
}

type Client struct {
	httpClient   *http.Client
	geocodeBase  string
	forecastBase string
	language     string
}

func NewClient(geocodeBase, forecastBase, language string) *Client {
	if geocodeBase == "" {
		geocodeBase = defaultGeocodeBase
	}
	if forecastBase == "" {
		forecastBase = defaultForecastBase
	}
	if language == "" {
		language = defaultLanguage
	}
	return &Client{
		httpClient:   &http.Client{Timeout: requestTimeout},
		geocodeBase:  strings.TrimRight(geocodeBase, "/"),
		forecastBase: strings.TrimRight(forecastBase, "/"),
		language:     language,
	}
}

type geocodeResponse struct {
	Results []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Name      string  `json:"name"`
		Country   string  `json:"country"`
		Admin1    string  `json:"admin1"`
	} `json:"results"`
}

type forecastResponse struct {
	Current struct {
		Temperature *float64 `json:"temperature_2m"`
		WindSpeed   *float64 `json:"wind_speed_10m"`
		WeatherCode *int     `json:"weather_code"`
	} `json:"current"`
	CurrentUnits struct {
		Temperature string `json:"temperature_2m"`
		WindSpeed   string `json:"wind_speed_10m"`
	} `json:"current_units"`
}

// Lookup resolves the location, then fetches current conditions at the
// resolved coordinates. Both steps short-circuit to ErrNoData on non-success
// status or an empty result set; the forecast is never called for an
// unresolvable location.
func (c *Client) Lookup(ctx context.Context, location string) (*Info, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrNoData
	}

	geoURL := fmt.Sprintf("%s/v1/search?name=%s&count=1&language=%s&format=json",
		c.geocodeBase, url.QueryEscape(location), url.QueryEscape(c.language))

	var geo geocodeResponse
	if err := c.getJSON(ctx, geoURL, &geo); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.WarnCF("weather", "Geocoding failed", map[string]any{
			"location": location,
			"error":    err.Error(),
		})
		return nil, ErrNoData
	}
	if len(geo.Results) == 0 {
		return nil, ErrNoData
	}

	first := geo.Results[0]
	place := joinNonEmpty(", ", first.Name, first.Admin1, first.Country)
	if place == "" {
		place = location
	}

	forecastURL := fmt.Sprintf(
		"%s/v1/forecast?latitude=%g&longitude=%g&current=temperature_2m,weather_code,wind_speed_10m&wind_speed_unit=kmh&timezone=auto",
		c.forecastBase, first.Latitude, first.Longitude)

	var fc forecastResponse
	if err := c.getJSON(ctx, forecastURL, &fc); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.WarnCF("weather", "Forecast failed", map[string]any{
			"place": place,
			"error": err.Error(),
		})
		return nil, ErrNoData
	}

	info := &Info{
		Place:           place,
		Latitude:        first.Latitude,
		Longitude:       first.Longitude,
		Temperature:     math.NaN(),
		WindSpeed:       math.NaN(),
		WeatherCode:     -1,
		TemperatureUnit: "°C",
		WindUnit:        "km/h",
	}
	if fc.Current.Temperature != nil {
		info.Temperature = *fc.Current.Temperature
	}
	if fc.Current.WindSpeed != nil {
		info.WindSpeed = *fc.Current.WindSpeed
	}
	if fc.Current.WeatherCode != nil {
		info.WeatherCode = *fc.Current.WeatherCode
	}
	if fc.CurrentUnits.Temperature != "" {
		info.TemperatureUnit = fc.CurrentUnits.Temperature
	}
	if fc.CurrentUnits.WindSpeed != "" {
		info.WindUnit = fc.CurrentUnits.WindSpeed
	}

	return info, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
