package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"logistics-dispatch-service/internal/adapters/cache"
	"logistics-dispatch-service/internal/adapters/gemini"
	"logistics-dispatch-service/internal/adapters/repositories"
	"logistics-dispatch-service/internal/adapters/weather"
	"logistics-dispatch-service/internal/api"
	"logistics-dispatch-service/internal/config"
	"logistics-dispatch-service/internal/ports"
	"logistics-dispatch-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, Gemini, OpenWeather, Redis) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/orders.json")
	port := config.Get("PORT", "8080")

	// The model credential has no fallback: without it the planner and
	// incident recovery cannot work, so startup fails closed.
	geminiKey := os.Getenv("GEMINI_API_KEY")
	if strings.TrimSpace(geminiKey) == "" {
		log.Fatal("GEMINI_API_KEY is required")
	}

	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Initialize schema and seed demo orders on startup for local runs.
	if err := initAndSeed(db, seedPath); err != nil {
		log.Fatal(err)
	}

	// The model handle is constructed eagerly and shared by the planner
	// and incident recovery; it is a stateless client to an external API.
	model, err := gemini.NewClient(gemini.Config{
		APIKey: geminiKey,
		Model:  config.Get("GEMINI_MODEL", "gemini-2.0-flash"),
	})
	if err != nil {
		log.Fatal(err)
	}

	shipmentRepo := repositories.NewSqliteShipmentRepository(db)
	incidentRepo := repositories.NewSqliteIncidentRepository(db)
	orderRepo := repositories.NewSqliteOrderRepository(db)

	planner := &services.Planner{Orders: orderRepo, Shipments: shipmentRepo, Model: model}
	verifier := &services.Verifier{Shipments: shipmentRepo}
	recovery := &services.Recovery{Shipments: shipmentRepo, Incidents: incidentRepo, Model: model}

	weatherSvc := &services.Weather{
		Provider: newWeatherProvider(),
		Cache:    newWeatherCache(),
	}

	router := api.NewRouter(planner, verifier, recovery, weatherSvc)

	// Write timeout allows for model-backed planning latency.
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// newWeatherProvider picks the live OpenWeather adapter when a key is
// configured and the deterministic mock otherwise.
func newWeatherProvider() ports.WeatherProvider {
	key := os.Getenv("WEATHER_API_KEY")
	if strings.TrimSpace(key) == "" {
		log.Println("WEATHER_API_KEY not set; using mock weather provider")
		return weather.NewMockWeatherProvider()
	}

	provider, err := weather.NewOpenWeatherProvider(key)
	if err != nil {
		log.Fatal(err)
	}
	return provider
}

// newWeatherCache returns a Redis-backed cache when REDIS_ADDR is set,
// nil otherwise (the weather service treats a nil cache as disabled).
func newWeatherCache() ports.WeatherCache {
	addr := os.Getenv("REDIS_ADDR")
	if strings.TrimSpace(addr) == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	return cache.NewRedisWeatherCache(client)
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
