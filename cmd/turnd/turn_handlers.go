package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/cache"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/fetch"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/retry"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/sim"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/turn"
)

// acquireTimeout bounds one whole acquisition, all retries included.
const acquireTimeout = 5 * time.Minute

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handleTurnStart launches one acquisition and returns its run id. The
// snapshot is frozen here, before the goroutine starts, so later state
// changes cannot leak into in-flight generation.
func (s *apiServer) handleTurnStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var state sim.State
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if state.Day < 1 {
		http.Error(w, "day must be >= 1", http.StatusBadRequest)
		return
	}
	snap := sim.BuildSnapshot(state)

	run := s.runs.create()
	collector := s.newCollector(run)
	run.animator.Start()

	s.log.Info().Str("run_id", run.id).Str("turn_id", snap.TurnID).
		Str("fingerprint", snap.Fingerprint()).Msg("acquisition started")

	go func() {
		defer s.runs.scheduleCleanup(run.id)
		ctx, cancel := context.WithTimeout(context.Background(), acquireTimeout)
		defer cancel()

		b, err := collector.Acquire(ctx, snap)
		if err != nil {
			run.animator.Reset()
			s.log.Error().Err(err).Str("run_id", run.id).Msg("acquisition failed")
			return
		}
		s.log.Info().Str("run_id", run.id).Str("turn_id", b.TurnID).
			Int("items", b.ItemCount()).Strs("degraded", b.Degraded).
			Msg("bundle ready")
		s.archiveBundle(state.RunID, b)
	}()

	writeJSON(w, http.StatusAccepted, map[string]any{
		"run_id":  run.id,
		"turn_id": snap.TurnID,
	})
}

// archiveBundle is best-effort: failures are logged, never surfaced.
func (s *apiServer) archiveBundle(simRunID string, b *turn.Bundle) {
	if s.archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.archive.Put(ctx, simRunID, b); err != nil {
		s.log.Warn().Err(err).Str("sim_run_id", simRunID).Msg("bundle archive failed")
	}
}

// handleWatchSSE streams run events: animator percent frames, collector log
// lines, and the frozen bundle on completion.
func (s *apiServer) handleWatchSSE(w http.ResponseWriter, r *http.Request) {
	runID := strings.TrimPrefix(r.URL.Path, "/api/turn/watch/")
	if runID == "" {
		http.Error(w, "run_id required", http.StatusBadRequest)
		return
	}
	run, ok := s.runs.get(runID)
	if !ok {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	// A watcher attaching after acquisition finished finds the completion
	// event still held; re-offer it now and after every drained event so it
	// lands as soon as the buffer has room.
	run.deliverComplete()
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-run.events:
			run.deliverComplete()
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()

			if event.Type == turn.EventTypeComplete || event.Type == turn.EventTypeError {
				fmt.Fprintf(w, "event: close\ndata: {}\n\n")
				flusher.Flush()
				return
			}
		}
	}
}

// cacheSaveRequest is the save surface of the snapshot cache: the frozen
// bundle plus the turn identifier it belongs to.
type cacheSaveRequest struct {
	TurnID string       `json:"turn_id"`
	Bundle *turn.Bundle `json:"bundle"`
}

func (s *apiServer) handleCache(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var in cacheSaveRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		if in.TurnID == "" || in.Bundle == nil {
			http.Error(w, "turn_id and bundle are required", http.StatusBadRequest)
			return
		}
		if !turn.Ready(in.Bundle) {
			http.Error(w, "bundle is not complete", http.StatusUnprocessableEntity)
			return
		}
		err := s.snapshotCache.Save(cache.Entry{
			Bundle:     in.Bundle,
			TurnID:     in.TurnID,
			CapturedAt: time.Now().UTC(),
		})
		if err != nil {
			s.log.Error().Err(err).Msg("snapshot cache save failed")
			http.Error(w, "cache save failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	case http.MethodDelete:
		if err := s.snapshotCache.Clear(); err != nil {
			http.Error(w, "cache clear failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleCacheConsume restores a cached bundle if it matches the live turn.
// Mismatch or absence is a plain miss, never an error.
func (s *apiServer) handleCacheConsume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		TurnID string `json:"turn_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.TurnID == "" {
		http.Error(w, "turn_id is required", http.StatusBadRequest)
		return
	}
	b, hit := cache.Consume(s.snapshotCache, in.TurnID)
	if !hit {
		writeJSON(w, http.StatusOK, map[string]any{"hit": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hit": true, "bundle": b})
}

// handleRunSummary generates the end-of-run retrospective through the retry
// controller; a degraded final answer is returned with its fallback marker
// intact.
func (s *apiServer) handleRunSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var state sim.State
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	snap := sim.BuildSnapshot(state)

	ctx, cancel := context.WithTimeout(r.Context(), acquireTimeout)
	defer cancel()
	out, err := retry.Do(ctx, func(ctx context.Context) (fetch.RunSummary, error) {
		return s.summary.Fetch(ctx, snap)
	}, retry.Options[fetch.RunSummary]{
		MaxAttempts: s.cfg.ScenarioAttempts,
		BaseDelay:   time.Duration(s.cfg.ScenarioBaseDelay) * time.Millisecond,
		IsFallback:  s.summary.IsFallback,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.log.Error().Err(err).Msg("run summary failed")
		http.Error(w, "summary generation failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
