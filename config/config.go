// Package config reads the service configuration from the environment,
// after main has loaded any .env file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"go-firewatch/types"
)

type Config struct {
	Port string

	// Platform API credentials (required).
	APIURL   string
	APILogin string
	APIPwd   string

	PollInterval  time.Duration // sequence poll cadence
	VisionRangeKM float64       // default visibility radius for vision cones
	DetectionsTTL time.Duration // freshness window of the detections cache
	HistoryDays   int           // how far back the live feed reaches

	// Optional integrations, enabled by their credentials being present.
	FirestoreEnabled bool
	MapsEnabled      bool

	// Preset poses of steerable cameras, keyed by camera id.
	PTZPresets map[int64][]types.PTZCamera
}

// Load reads configuration from the environment. The platform credentials
// have no sane defaults and are required.
func Load() (Config, error) {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		APIURL:        os.Getenv("API_URL"),
		APILogin:      os.Getenv("API_LOGIN"),
		APIPwd:        os.Getenv("API_PWD"),
		PollInterval:  getDuration("POLL_INTERVAL", 30*time.Second),
		VisionRangeKM: getFloat("VISION_RANGE_KM", 50),
		DetectionsTTL: getDuration("DETECTIONS_TTL", 5*time.Minute),
		HistoryDays:   getInt("HISTORY_DAYS", 0),

		FirestoreEnabled: os.Getenv("FIREBASE_CREDENTIALS") != "",
		MapsEnabled:      os.Getenv("MAPS_CREDENTIALS") != "",
	}

	if cfg.APIURL == "" || cfg.APILogin == "" || cfg.APIPwd == "" {
		return cfg, fmt.Errorf("the following environment variables need to be set: 'API_URL', 'API_LOGIN', 'API_PWD'")
	}

	if raw := os.Getenv("PTZ_PRESETS"); raw != "" {
		presets := make(map[int64][]types.PTZCamera)
		if err := json.Unmarshal([]byte(raw), &presets); err != nil {
			return cfg, fmt.Errorf("parsing PTZ_PRESETS: %w", err)
		}
		cfg.PTZPresets = presets
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
