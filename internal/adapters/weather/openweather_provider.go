package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"logistics-dispatch-service/internal/domain"
)

// OpenWeatherProvider implements the WeatherProvider port against the
// OpenWeather current-conditions API. Safe for concurrent use.
type OpenWeatherProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
}

func NewOpenWeatherProvider(apiKey string) (*OpenWeatherProvider, error) {
	if apiKey == "" {
		return nil, errors.New("openweather api key is empty")
	}

	return &OpenWeatherProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org",
	}, nil
}

type currentResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, lat, lng float64) (*domain.WeatherReading, error) {
	endpoint := p.baseURL + "/data/2.5/weather"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("openweather: create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("lat", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', 4, 64))
	q.Set("units", "metric")
	q.Set("appid", p.apiKey)
	req.URL.RawQuery = q.Encode()

	resp, err := p.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openweather: execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("openweather: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var decoded currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("openweather: decode response: %w", err)
	}

	condition := "Unknown"
	if len(decoded.Weather) > 0 {
		condition = decoded.Weather[0].Main
	}

	return &domain.WeatherReading{
		Coordinates: domain.Coordinates{Lat: lat, Lng: lng},
		Condition:   condition,
		TempC:       decoded.Main.Temp,
		// OpenWeather reports m/s in metric mode.
		WindKph:    decoded.Wind.Speed * 3.6,
		Humidity:   decoded.Main.Humidity,
		Advisory:   advisoryFor(condition),
		Source:     "openweather",
		ObservedAt: time.Now().UTC(),
	}, nil
}

// advisoryFor maps a condition to a dispatch advisory line.
func advisoryFor(condition string) string {
	switch strings.ToLower(condition) {
	case "thunderstorm", "tornado", "squall":
		return "Hold dispatch until conditions clear."
	case "rain", "drizzle", "snow":
		return "Expect delays; add buffer to ETAs."
	case "fog", "mist", "haze", "smoke", "dust":
		return "Reduced visibility; advise drivers to slow down."
	default:
		return "No weather impact expected."
	}
}
