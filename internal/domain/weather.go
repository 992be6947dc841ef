package domain

import "time"

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lng float64
}

// A point-in-time weather observation for a coordinate pair.
// Source records which provider produced the reading ("openweather"
// or "mock"), so callers can tell live data from simulated data.
type WeatherReading struct {
	Coordinates Coordinates
	Condition   string
	TempC       float64
	WindKph     float64
	Humidity    int
	Advisory    string
	Source      string
	ObservedAt  time.Time
}
