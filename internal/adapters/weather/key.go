package weather

import "fmt"

// key normalizes coordinates to three decimals (≈110m) so nearby
// lookups share cache entries and mock readings.
func key(lat, lng float64) string {
	return fmt.Sprintf("%.3f,%.3f", lat, lng)
}
