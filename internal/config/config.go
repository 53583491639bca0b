package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// AppConfig holds everything the pipeline and its HTTP surface need.
// Provider endpoint overrides stay in the environment (HKO_URL etc.)
// and are read by the provider registry directly.
type AppConfig struct {
	// Data directories.
	RawDir       string `validate:"required"`
	ProcessedDir string `validate:"required"`

	// Outbound fetch behaviour.
	FetchTimeout time.Duration
	MaxRetries   int
	UserAgent    string

	// Consensus policy knobs.
	TextPolicy     string `validate:"oneof=concat majority"`
	OrderingPolicy string `validate:"oneof=preferred allowlist"`
	AllowList      []string
	AnchorDates    bool
	AnchorZone     string `validate:"required"`

	// Scheduler and HTTP server.
	RunInterval time.Duration
	Port        string `validate:"required"`
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		RawDir:         getenvDefault("RAW_DIR", "data/raw"),
		ProcessedDir:   getenvDefault("PROCESSED_DIR", "data/processed"),
		MaxRetries:     getenvInt("FETCH_MAX_RETRIES", 2),
		UserAgent:      os.Getenv("FETCH_USER_AGENT"),
		TextPolicy:     getenvDefault("CONSENSUS_TEXT_POLICY", "concat"),
		OrderingPolicy: getenvDefault("CONSENSUS_ORDERING", "preferred"),
		AnchorDates:    getenvBool("CONSENSUS_ANCHOR", false),
		AnchorZone:     getenvDefault("CONSENSUS_ANCHOR_ZONE", "Asia/Hong_Kong"),
		Port:           getenvDefault("PORT", "8080"),
	}

	timeoutStr := getenvDefault("FETCH_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_TIMEOUT: %w", err)
	}
	cfg.FetchTimeout = timeout

	intervalStr := getenvDefault("RUN_INTERVAL", "6h")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid RUN_INTERVAL: %w", err)
	}
	cfg.RunInterval = interval

	if v := os.Getenv("CONSENSUS_ALLOWLIST"); v != "" {
		for _, p := range strings.Split(v, ",") {
			if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
				cfg.AllowList = append(cfg.AllowList, p)
			}
		}
	}

	if _, err := time.LoadLocation(cfg.AnchorZone); err != nil {
		return nil, fmt.Errorf("invalid CONSENSUS_ANCHOR_ZONE: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
