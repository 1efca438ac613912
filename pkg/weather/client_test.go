package weather

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

const geocodeParis = `{"results":[{"latitude":48.85,"longitude":2.35,"name":"Paris","country":"France","admin1":"Île-de-France"}]}`

const forecastParis = `{
	"current": {"temperature_2m": 21.4, "wind_speed_10m": 12.0, "weather_code": 61},
	"current_units": {"temperature_2m": "°C", "wind_speed_10m": "km/h"}
}`

func newTestClient(t *testing.T, geocode, forecast http.HandlerFunc) *Client {
	t.Helper()
	geoServer := httptest.NewServer(geocode)
	fcServer := httptest.NewServer(forecast)
	t.Cleanup(geoServer.Close)
	t.Cleanup(fcServer.Close)
	return NewClient(geoServer.URL, fcServer.URL, "en")
}

func TestLookup_HappyPath(t *testing.T) {
	c := newTestClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/search" {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			q := r.URL.Query()
			if q.Get("name") != "Paris" || q.Get("count") != "1" || q.Get("format") != "json" {
				http.Error(w, "bad query", http.StatusBadRequest)
				return
			}
			w.Write([]byte(geocodeParis))
		},
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/forecast" {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			w.Write([]byte(forecastParis))
		},
	)

	info, err := c.Lookup(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if info.Place != "Paris, Île-de-France, France" {
		t.Errorf("Place = %q", info.Place)
	}
	if info.Temperature != 21.4 {
		t.Errorf("Temperature = %v, want 21.4", info.Temperature)
	}
	if info.WindSpeed != 12.0 {
		t.Errorf("WindSpeed = %v, want 12.0", info.WindSpeed)
	}
	if info.WeatherCode != 61 {
		t.Errorf("WeatherCode = %d, want 61", info.WeatherCode)
	}
	if info.TemperatureUnit != "°C" || info.WindUnit != "km/h" {
		t.Errorf("units = %q / %q", info.TemperatureUnit, info.WindUnit)
	}
}

func TestLookup_UnresolvableSkipsForecast(t *testing.T) {
	var forecastCalls atomic.Int32
	c := newTestClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results":[]}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			forecastCalls.Add(1)
			w.Write([]byte(forecastParis))
		},
	)

	_, err := c.Lookup(context.Background(), "Nowhereville")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if forecastCalls.Load() != 0 {
		t.Errorf("forecast called %d times, want 0", forecastCalls.Load())
	}
}

func TestLookup_GeocodeFailureIsNoData(t *testing.T) {
	c := newTestClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(forecastParis))
		},
	)

	_, err := c.Lookup(context.Background(), "Paris")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestLookup_ForecastFailureIsNoData(t *testing.T) {
	c := newTestClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(geocodeParis))
		},
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		},
	)

	_, err := c.Lookup(context.Background(), "Paris")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestLookup_MissingFieldsAreSentinels(t *testing.T) {
	c := newTestClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results":[{"latitude":1,"longitude":2,"name":"X"}]}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"current": {}, "current_units": {}}`))
		},
	)

	info, err := c.Lookup(context.Background(), "X")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if !math.IsNaN(info.Temperature) || !math.IsNaN(info.WindSpeed) {
		t.Errorf("expected NaN numerics, got %v / %v", info.Temperature, info.WindSpeed)
	}
	if info.WeatherCode != -1 {
		t.Errorf("WeatherCode = %d, want -1", info.WeatherCode)
	}
	if info.TemperatureUnit != "°C" {
		t.Errorf("TemperatureUnit = %q, want °C", info.TemperatureUnit)
	}
	if info.WindUnit != "km/h" {
		t.Errorf("WindUnit = %q, want km/h", info.WindUnit)
	}
	if info.Place != "X" {
		t.Errorf("Place = %q, want X", info.Place)
	}
}

func TestLookup_EmptyLocation(t *testing.T) {
	c := NewClient("", "", "")
	_, err := c.Lookup(context.Background(), "   ")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "clear sky"},
		{2, "partly cloudy"},
		{61, "rain"},
		{63, "rain"},
		{65, "rain"},
		{95, "thunderstorm"},
		{42, "weather code 42"},
		{-1, "weather code -1"},
	}
	for _, tt := range tests {
		if got := Describe(tt.code); got != tt.want {
			t.Errorf("Describe(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
