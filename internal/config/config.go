// Package config loads server settings from the environment (optionally a
// .env file) and engineering defaults from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"Seabed/internal/calc/anchor"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultListenAddr = ":8080"
	DefaultDSN        = "user=postgres dbname=postgres password=password sslmode=disable"
)

// Engineering is the YAML-configurable part.
type Engineering = anchor.Settings

type Config struct {
	DatabaseURL   string
	TokenKey      string
	ListenAddr    string
	MaterialsFile string
	// RateLimit is requests per second per client, Burst its bucket size.
	RateLimit float64
	Burst     int

	Engineering Engineering
}

func DefaultEngineering() Engineering {
	return anchor.DefaultSettings()
}

// Load reads envFile when it exists, then the process environment, then
// MATERIALS_FILE when set. Missing values fall back to defaults; a missing
// TOKEN_KEY is an error.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: %s: %w", envFile, err)
		}
	}
	cfg := Config{
		DatabaseURL:   getenv("DATABASE_URL", DefaultDSN),
		TokenKey:      os.Getenv("TOKEN_KEY"),
		ListenAddr:    getenv("LISTEN_ADDR", DefaultListenAddr),
		MaterialsFile: os.Getenv("MATERIALS_FILE"),
		RateLimit:     1,
		Burst:         3,
		Engineering:   DefaultEngineering(),
	}
	if cfg.TokenKey == "" {
		return Config{}, errors.New("config: TOKEN_KEY environment variable is not set")
	}
	if cfg.MaterialsFile != "" {
		eng, err := LoadEngineering(cfg.MaterialsFile)
		if err != nil {
			return Config{}, err
		}
		cfg.Engineering = eng
	}
	return cfg, nil
}

// LoadEngineering reads a YAML file over the defaults. Keys left out keep
// their default values.
func LoadEngineering(path string) (Engineering, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Engineering{}, fmt.Errorf("config: %w", err)
	}
	return ParseEngineering(b)
}

func ParseEngineering(b []byte) (Engineering, error) {
	eng := DefaultEngineering()
	if err := yaml.Unmarshal(b, &eng); err != nil {
		return Engineering{}, fmt.Errorf("config: engineering yaml: %w", err)
	}
	eng.Materials = eng.Materials.WithDefaults()
	return eng, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
