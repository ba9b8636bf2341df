package main

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/archive"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/cache"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/fetch"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/genclient"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/turn"
)

// apiServer wires the acquisition pipeline to its HTTP surface.
type apiServer struct {
	cfg  *Config
	log  zerolog.Logger
	cli  genclient.Client
	runs *runManager

	snapshotCache cache.Store
	archive       *archive.S3Archive

	summary *fetch.SummaryAdapter
}

func newAPIServer(cfg *Config, log zerolog.Logger, cli genclient.Client, store cache.Store, arc *archive.S3Archive) *apiServer {
	return &apiServer{
		cfg:           cfg,
		log:           log,
		cli:           cli,
		runs:          newRunManager(),
		snapshotCache: store,
		archive:       arc,
		summary:       &fetch.SummaryAdapter{Client: cli},
	}
}

// newCollector builds a fresh collector per acquisition so each run gets its
// own emitter.
func (s *apiServer) newCollector(emitter turn.Emitter) *turn.Collector {
	return &turn.Collector{
		Scenario:          &fetch.ScenarioAdapter{Client: s.cli},
		Ticker:            &fetch.TickerAdapter{Client: s.cli},
		Advisory:          &fetch.AdvisoryAdapter{Client: s.cli},
		SupportShift:      &fetch.SupportShiftAdapter{Client: s.cli},
		BudgetImpact:      &fetch.BudgetImpactAdapter{Client: s.cli},
		Analysis:          &fetch.AnalysisAdapter{Client: s.cli},
		ScenarioAttempts:  s.cfg.ScenarioAttempts,
		ScenarioBaseDelay: time.Duration(s.cfg.ScenarioBaseDelay) * time.Millisecond,
		DisableAnalysis:   s.cfg.DisableAnalysis,
		Emitter:           emitter,
		Log:               s.log,
	}
}

func buildMux(s *apiServer) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/turn/start", s.handleTurnStart)
	mux.HandleFunc("/api/turn/watch/", s.handleWatchSSE)
	mux.HandleFunc("/api/turn/reveal", s.handleRevealWS)
	mux.HandleFunc("/api/turn/cache", s.handleCache)
	mux.HandleFunc("/api/turn/cache/consume", s.handleCacheConsume)
	mux.HandleFunc("/api/run/summary", s.handleRunSummary)
	mux.HandleFunc("/api/run/archive/", s.handleArchive)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return mux
}
