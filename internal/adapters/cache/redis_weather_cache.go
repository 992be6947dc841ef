package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"logistics-dispatch-service/internal/domain"
)

// RedisWeatherCache is a Redis-backed cache for weather readings, keyed
// by coordinates rounded to three decimals. Keys expire via TTL supplied
// by the caller.
type RedisWeatherCache struct {
	Client *redis.Client
}

func NewRedisWeatherCache(client *redis.Client) *RedisWeatherCache {
	return &RedisWeatherCache{Client: client}
}

type cachedReading struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Condition  string    `json:"condition"`
	TempC      float64   `json:"temp_c"`
	WindKph    float64   `json:"wind_kph"`
	Humidity   int       `json:"humidity"`
	Advisory   string    `json:"advisory"`
	Source     string    `json:"source"`
	ObservedAt time.Time `json:"observed_at"`
}

func weatherKey(lat, lng float64) string {
	return fmt.Sprintf("weather:%.3f:%.3f", lat, lng)
}

// Get returns the cached reading or (nil, nil) on a miss.
func (c *RedisWeatherCache) Get(ctx context.Context, lat, lng float64) (*domain.WeatherReading, error) {
	if c.Client == nil {
		return nil, errors.New("weather cache: client is nil")
	}

	raw, err := c.Client.Get(ctx, weatherKey(lat, lng)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get weather cache: %w", err)
	}

	var cr cachedReading
	if err := json.Unmarshal([]byte(raw), &cr); err != nil {
		return nil, fmt.Errorf("get weather cache: decode entry: %w", err)
	}

	return &domain.WeatherReading{
		Coordinates: domain.Coordinates{Lat: cr.Lat, Lng: cr.Lng},
		Condition:   cr.Condition,
		TempC:       cr.TempC,
		WindKph:     cr.WindKph,
		Humidity:    cr.Humidity,
		Advisory:    cr.Advisory,
		Source:      cr.Source,
		ObservedAt:  cr.ObservedAt,
	}, nil
}

// Put stores a reading under the rounded-coordinate key with the given TTL.
func (c *RedisWeatherCache) Put(ctx context.Context, reading *domain.WeatherReading, ttl time.Duration) error {
	if c.Client == nil {
		return errors.New("weather cache: client is nil")
	}
	if reading == nil {
		return errors.New("put weather cache: reading is nil")
	}

	cr := cachedReading{
		Lat:        reading.Coordinates.Lat,
		Lng:        reading.Coordinates.Lng,
		Condition:  reading.Condition,
		TempC:      reading.TempC,
		WindKph:    reading.WindKph,
		Humidity:   reading.Humidity,
		Advisory:   reading.Advisory,
		Source:     reading.Source,
		ObservedAt: reading.ObservedAt,
	}

	raw, err := json.Marshal(cr)
	if err != nil {
		return fmt.Errorf("put weather cache: encode entry: %w", err)
	}

	key := weatherKey(reading.Coordinates.Lat, reading.Coordinates.Lng)
	if err := c.Client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("put weather cache: %w", err)
	}

	return nil
}
