package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the gateway configuration, layered .env < environment < flags.
type Config struct {
	Port string `env:"PORT" envDefault:":8080"`
	Env  string `env:"APP_ENV" envDefault:"local"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
	// FakeGen forces the deterministic offline client even when an API key is
	// set. With no key configured the fake is used regardless.
	FakeGen bool `env:"FAKE_GEN"`

	ResponseCacheSize int `env:"RESPONSE_CACHE_SIZE" envDefault:"256"`

	ScenarioAttempts  int  `env:"SCENARIO_ATTEMPTS"`
	ScenarioBaseDelay int  `env:"SCENARIO_BASE_DELAY_MS"`
	DisableAnalysis   bool `env:"DISABLE_ANALYSIS"`

	// SnapshotCacheBackend selects memory, file, or postgres.
	SnapshotCacheBackend string `env:"SNAPSHOT_CACHE_BACKEND" envDefault:"memory"`
	SnapshotCacheFile    string `env:"SNAPSHOT_CACHE_FILE" envDefault:".cache/turn_snapshot.json"`
	PostgresDSN          string `env:"POSTGRES_DSN"`

	Archive ArchiveConfig `envPrefix:"ARCHIVE_"`
}

// ArchiveConfig configures the optional bundle archive. Disabled unless an
// endpoint is set.
type ArchiveConfig struct {
	Endpoint  string `env:"S3_ENDPOINT"`
	Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	Bucket    string `env:"S3_BUCKET" envDefault:"turn-bundles"`
	UseSSL    bool   `env:"S3_USE_SSL"`
}

func (a ArchiveConfig) Enabled() bool { return strings.TrimSpace(a.Endpoint) != "" }

func loadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	port := flag.String("port", "", "server port (overrides PORT)")
	fake := flag.Bool("fake-gen", false, "use the deterministic offline generation client")
	flag.Parse()

	if *port != "" {
		cfg.Port = *port
	}
	if *fake {
		cfg.FakeGen = true
	}
	if !strings.HasPrefix(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}

	switch cfg.SnapshotCacheBackend {
	case "memory", "file":
	case "postgres":
		if strings.TrimSpace(cfg.PostgresDSN) == "" {
			return nil, fmt.Errorf("config: postgres cache backend needs POSTGRES_DSN")
		}
	default:
		return nil, fmt.Errorf("config: unknown snapshot cache backend %q", cfg.SnapshotCacheBackend)
	}
	return &cfg, nil
}
