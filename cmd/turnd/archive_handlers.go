package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/archive"
)

// handleArchive replays archived bundles of a finished run:
//
//	GET /api/run/archive/{simRunId}          — list archived days
//	GET /api/run/archive/{simRunId}/{day}    — one bundle; ?url=true returns a
//	                                           presigned link instead
func (s *apiServer) handleArchive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.archive == nil {
		http.Error(w, "archive not configured", http.StatusServiceUnavailable)
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/run/archive/"), "/")
	if rest == "" {
		http.Error(w, "run_id required", http.StatusBadRequest)
		return
	}
	parts := strings.SplitN(rest, "/", 2)
	simRunID := parts[0]

	if len(parts) == 1 {
		keys, err := s.archive.List(r.Context(), simRunID)
		if err != nil {
			s.log.Error().Err(err).Str("sim_run_id", simRunID).Msg("archive list failed")
			http.Error(w, "archive list failed", http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"run_id": simRunID, "days": keys})
		return
	}

	day, err := strconv.Atoi(parts[1])
	if err != nil || day < 1 {
		http.Error(w, "day must be a positive integer", http.StatusBadRequest)
		return
	}

	if r.URL.Query().Get("url") == "true" {
		u, err := s.archive.GetURL(r.Context(), simRunID, day)
		if err != nil {
			s.log.Error().Err(err).Str("sim_run_id", simRunID).Int("day", day).Msg("archive url failed")
			http.Error(w, "archive url failed", http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"url": u})
		return
	}

	b, err := s.archive.Get(r.Context(), simRunID, day)
	if err != nil {
		if errors.Is(err, archive.ErrNotFound) {
			http.Error(w, "bundle not archived", http.StatusNotFound)
			return
		}
		s.log.Error().Err(err).Str("sim_run_id", simRunID).Int("day", day).Msg("archive get failed")
		http.Error(w, "archive get failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
