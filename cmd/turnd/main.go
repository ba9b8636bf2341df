package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/archive"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/cache"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/genclient"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Str("service", "turnd").Logger()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if cfg.Env == "local" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	cli, err := buildClient(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init generation client")
	}
	defer cli.Close()

	store, err := buildSnapshotCache(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init snapshot cache")
	}

	var arc *archive.S3Archive
	if cfg.Archive.Enabled() {
		arc, err = archive.NewS3Archive(archive.S3Config{
			Endpoint:  cfg.Archive.Endpoint,
			Region:    cfg.Archive.Region,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			Bucket:    cfg.Archive.Bucket,
			UseSSL:    cfg.Archive.UseSSL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("init bundle archive")
		}
	}

	s := newAPIServer(cfg, log, cli, store, arc)
	mux := buildMux(s)

	log.Info().Str("port", cfg.Port).Str("client", cli.Name()).
		Bool("archive", arc != nil).Str("cache", cfg.SnapshotCacheBackend).
		Msg("turnd listening")
	if err := http.ListenAndServe(cfg.Port, mux); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// buildClient picks the generation backend and layers the response cache on
// top of it.
func buildClient(cfg *Config, log zerolog.Logger) (genclient.Client, error) {
	var cli genclient.Client
	if cfg.FakeGen || cfg.GeminiAPIKey == "" {
		if !cfg.FakeGen {
			log.Warn().Msg("GEMINI_API_KEY not set, falling back to the offline client")
		}
		cli = genclient.NewFakeClient()
	} else {
		gemini, err := genclient.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		cli = gemini
	}
	cached, err := genclient.NewCached(cli, cfg.ResponseCacheSize)
	if err != nil {
		return nil, err
	}
	return cached, nil
}

func buildSnapshotCache(cfg *Config) (cache.Store, error) {
	switch cfg.SnapshotCacheBackend {
	case "file":
		return cache.NewFile(cfg.SnapshotCacheFile), nil
	case "postgres":
		pg, err := cache.NewPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return pg, nil
	default:
		return cache.NewMemory(), nil
	}
}
