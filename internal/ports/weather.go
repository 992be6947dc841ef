package ports

import (
	"context"
	"time"

	"logistics-dispatch-service/internal/domain"
)

// Contract the façade consumes: a weather reading for a coordinate pair.
type WeatherService interface {
	Reading(ctx context.Context, lat, lng float64) (*domain.WeatherReading, error)
}

// Contract for fetching a fresh reading from an upstream source.
type WeatherProvider interface {
	Fetch(ctx context.Context, lat, lng float64) (*domain.WeatherReading, error)
}

// Cache boundary for weather readings. A miss is (nil, nil).
type WeatherCache interface {
	Get(ctx context.Context, lat, lng float64) (*domain.WeatherReading, error)
	Put(ctx context.Context, reading *domain.WeatherReading, ttl time.Duration) error
}
