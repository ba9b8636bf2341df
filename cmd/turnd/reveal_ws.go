package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/reveal"
)

const (
	revealWSWriteWait = 10 * time.Second
	revealWSPongWait  = 60 * time.Second
	revealWSPingEvery = (revealWSPongWait * 9) / 10
)

var revealWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type revealWSInbound struct {
	Type string `json:"type"`
}

type revealWSOutbound struct {
	Type    string        `json:"type"`
	Frame   *reveal.Frame `json:"frame,omitempty"`
	Code    string        `json:"code,omitempty"`
	Message string        `json:"message,omitempty"`
}

// handleRevealWS drives the presentation sequencer for one finished run. The
// UI reports each revealed region with region_done; skip jumps to the end.
func (s *apiServer) handleRevealWS(w http.ResponseWriter, r *http.Request) {
	runID := strings.TrimSpace(r.URL.Query().Get("run_id"))
	if runID == "" {
		http.Error(w, "run_id is required", http.StatusBadRequest)
		return
	}
	run, ok := s.runs.get(runID)
	if !ok {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	bundle, seq, ok := run.readyBundle()
	if !ok {
		http.Error(w, "bundle not ready", http.StatusConflict)
		return
	}
	// A reconnect after the bundle was already shown resumes at the terminal
	// step: everything visible, no animation.
	if r.URL.Query().Get("resumed") == "true" {
		seq = reveal.New(bundle.ItemCount(), true)
	}

	conn, err := revealWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(revealWSPongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(revealWSPongWait))
	})

	writeCh := make(chan revealWSOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(revealWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(revealWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(revealWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	pushRevealWS(writeCh, frameOutbound(seq.Current()))

	for {
		var in revealWSInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		switch strings.ToLower(strings.TrimSpace(in.Type)) {
		case "ping":
			pushRevealWS(writeCh, revealWSOutbound{Type: "pong"})
		case "region_done":
			pushRevealWS(writeCh, frameOutbound(seq.AdvanceToNext()))
		case "skip":
			pushRevealWS(writeCh, frameOutbound(seq.SkipToEnd()))
		case "current":
			pushRevealWS(writeCh, frameOutbound(seq.Current()))
		default:
			pushRevealWS(writeCh, revealWSOutbound{
				Type:    "error",
				Code:    "invalid_argument",
				Message: "unknown message type",
			})
		}
	}
}

func frameOutbound(f reveal.Frame) revealWSOutbound {
	return revealWSOutbound{Type: "frame", Frame: &f}
}

func pushRevealWS(ch chan revealWSOutbound, out revealWSOutbound) {
	select {
	case ch <- out:
	default:
	}
}
