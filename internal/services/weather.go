package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"logistics-dispatch-service/internal/domain"
	"logistics-dispatch-service/internal/platform/obs"
	"logistics-dispatch-service/internal/ports"
)

// Weather serves readings through an optional cache in front of a
// provider. Cache failures are logged and bypassed; only provider
// failures surface to the caller.
type Weather struct {
	Provider ports.WeatherProvider
	Cache    ports.WeatherCache
	TTL      time.Duration
}

func (w *Weather) ttl() time.Duration {
	if w.TTL > 0 {
		return w.TTL
	}
	return 10 * time.Minute
}

func (w *Weather) Reading(ctx context.Context, lat, lng float64) (_ *domain.WeatherReading, err error) {
	defer obs.Time(ctx, "weather.Reading")(&err)

	if w.Cache != nil {
		cached, err := w.Cache.Get(ctx, lat, lng)
		if err != nil {
			log.Printf("weather cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	reading, err := w.Provider.Fetch(ctx, lat, lng)
	if err != nil {
		return nil, fmt.Errorf("weather reading lat=%.4f lng=%.4f: %w", lat, lng, err)
	}

	if w.Cache != nil {
		if err := w.Cache.Put(ctx, reading, w.ttl()); err != nil {
			log.Printf("weather cache write failed: %v", err)
		}
	}

	return reading, nil
}
