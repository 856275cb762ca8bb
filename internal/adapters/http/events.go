package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ergosanitas/internal/application/events"
	"ergosanitas/internal/domain/brigadista"
	"ergosanitas/internal/domain/club"
	"ergosanitas/internal/domain/incident"
	"ergosanitas/internal/domain/statistics"
)

// Stream tuning.
const (
	streamBuffer      = 32
	heartbeatInterval = 25 * time.Second
)

type streamEvent struct {
	name string
	data any
}

// subscribeAll forwards every topic into ch without blocking the publisher.
// A slow client loses events rather than stalling a mutation.
func subscribeAll(b *events.Broadcaster, ch chan<- streamEvent) func() {
	push := func(name string, v any) {
		select {
		case ch <- streamEvent{name: name, data: v}:
		default:
			slog.Warn("stream_event", "event", "dropped", "topic", name)
		}
	}
	subs := []*events.Subscription{
		b.Alert.Subscribe(func(c events.AlertChanged) { push(events.TopicAlertChanged, c) }),
		b.Status.Subscribe(func(s brigadista.Status) { push(events.TopicStatusChanged, s) }),
		b.Incident.Subscribe(func(i incident.Incident) { push(events.TopicIncidentAdded, i) }),
		b.Statistics.Subscribe(func(s statistics.Statistics) { push(events.TopicStatisticsUpdated, s) }),
		b.ClubData.Subscribe(func(d club.Data) { push(events.TopicClubDataChanged, d) }),
	}
	return func() {
		for _, s := range subs {
			s.Unsubscribe()
		}
	}
}

// handleEvents streams broadcaster topics as Server-Sent Events (GET /api/events).
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ch := make(chan streamEvent, streamBuffer)
	unsubscribe := subscribeAll(s.mod.Events(), ch)
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case ev := <-ch:
			data, err := json.Marshal(ev.data)
			if err != nil {
				slog.Warn("stream_event", "event", "encode_failed", "topic", ev.name, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.name, data)
			flusher.Flush()
		}
	}
}
