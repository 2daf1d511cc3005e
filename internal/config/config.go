// Package config loads configuration for the crossmini binaries from the
// environment, loading an optional .env file first and falling back to
// sane defaults.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Server holds the settings cmd/crossmini-server needs to start listening.
type Server struct {
	Port string
}

// LoadServer reads Server configuration from the environment, loading a
// .env file first if one is present in the working directory.
func LoadServer() Server {
	loadDotenv()

	return Server{
		Port: getEnv("PORT", "8080"),
	}
}

// Generation holds the defaults the CLI's generate subcommand falls back
// to when the caller doesn't override them with flags.
type Generation struct {
	MaxCandidates      int
	ExcellentThreshold float64
	MaxTimeMS          int64
	Bias               float64
}

// LoadGeneration reads Generation configuration from the environment.
func LoadGeneration() Generation {
	loadDotenv()

	return Generation{
		MaxCandidates:      getEnvInt("CROSSMINI_MAX_CANDIDATES", 5),
		ExcellentThreshold: getEnvFloat("CROSSMINI_EXCELLENT_THRESHOLD", 0.7),
		MaxTimeMS:          int64(getEnvInt("CROSSMINI_MAX_TIME_MS", 15000)),
		Bias:               getEnvFloat("CROSSMINI_BIAS", 0.5),
	}
}

func loadDotenv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid int for %s=%q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Invalid float for %s=%q, using default %.2f", key, value, defaultValue)
		return defaultValue
	}
	return f
}
