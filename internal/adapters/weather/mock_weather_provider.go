package weather

import (
	"context"
	"hash/fnv"
	"time"

	"logistics-dispatch-service/internal/domain"
)

var mockConditions = []struct {
	condition string
	tempC     float64
	windKph   float64
	humidity  int
}{
	{"Clear", 28.5, 9.0, 48},
	{"Clouds", 26.0, 12.5, 61},
	{"Rain", 23.5, 18.0, 84},
	{"Thunderstorm", 22.0, 32.0, 90},
	{"Haze", 27.0, 6.5, 55},
}

// MockWeatherProvider returns deterministic readings derived from the
// coordinates, used when no OpenWeather key is configured. The same
// coordinates always produce the same conditions, which keeps the
// simulator page stable.
type MockWeatherProvider struct{}

func NewMockWeatherProvider() *MockWeatherProvider { return &MockWeatherProvider{} }

func (p *MockWeatherProvider) Fetch(ctx context.Context, lat, lng float64) (*domain.WeatherReading, error) {
	h := fnv.New32a()
	h.Write([]byte(key(lat, lng)))
	m := mockConditions[int(h.Sum32())%len(mockConditions)]

	return &domain.WeatherReading{
		Coordinates: domain.Coordinates{Lat: lat, Lng: lng},
		Condition:   m.condition,
		TempC:       m.tempC,
		WindKph:     m.windKph,
		Humidity:    m.humidity,
		Advisory:    advisoryFor(m.condition),
		Source:      "mock",
		ObservedAt:  time.Now().UTC(),
	}, nil
}
