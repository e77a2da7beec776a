package realtime

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/google/uuid"

	"github.com/yungbote/funnel-builder-backend/internal/platform/logger"
)

type subscriberSet map[*SSEClient]struct{}

// SSEHub fans channel messages out to subscribed stream clients.
type SSEHub struct {
	log       *logger.Logger
	heartbeat time.Duration

	mu       sync.RWMutex
	channels map[string]subscriberSet
}

func NewSSEHub(log *logger.Logger) *SSEHub {
	return &SSEHub{
		log:       log.With("component", "SSEHub"),
		heartbeat: 15 * time.Second,
		channels:  map[string]subscriberSet{},
	}
}

func (hub *SSEHub) NewSSEClient(userID uuid.UUID) *SSEClient {
	return newSSEClient(userID)
}

func (hub *SSEHub) AddChannel(client *SSEClient, channel string) {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return
	}
	hub.mu.Lock()
	defer hub.mu.Unlock()

	set := hub.channels[channel]
	if set == nil {
		set = subscriberSet{}
		hub.channels[channel] = set
	}
	set[client] = struct{}{}
	client.channels[channel] = struct{}{}
	hub.log.Debug("SSE client subscribed", "client_id", client.ID, "channel", channel)
}

func (hub *SSEHub) RemoveChannel(client *SSEClient, channel string) {
	channel = strings.TrimSpace(channel)
	hub.mu.Lock()
	defer hub.mu.Unlock()
	hub.dropLocked(client, channel)
}

func (hub *SSEHub) RemoveClient(client *SSEClient) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	for channel := range client.channels {
		hub.dropLocked(client, channel)
	}
}

func (hub *SSEHub) dropLocked(client *SSEClient, channel string) {
	delete(client.channels, channel)
	set, ok := hub.channels[channel]
	if !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(hub.channels, channel)
	}
}

// Subscribers reports how many clients listen on channel.
func (hub *SSEHub) Subscribers(channel string) int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.channels[channel])
}

// Broadcast never blocks; a client whose buffer is full misses the message.
func (hub *SSEHub) Broadcast(msg SSEMessage) {
	if msg.Channel == "" {
		return
	}
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	for client := range hub.channels[msg.Channel] {
		if !client.offer(msg) {
			hub.log.Warn("Dropping SSE message; outbound buffer full", "client_id", client.ID, "event", msg.Event)
		}
	}
}

// ServeHTTP streams client's messages until the request ends or the client
// is closed. Each frame's data is the full SSEMessage as JSON.
func (hub *SSEHub) ServeHTTP(w http.ResponseWriter, r *http.Request, client *SSEClient) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	h := w.Header()
	h.Set("Content-Type", sse.ContentType)
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(hub.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-client.done:
			return
		case <-heartbeat.C:
			_, _ = w.Write([]byte(": ping\n\n"))
		case msg, open := <-client.Outbound:
			if !open {
				return
			}
			if err := sse.Encode(w, sse.Event{Event: string(msg.Event), Data: msg}); err != nil {
				hub.log.Warn("SSE write failed", "client_id", client.ID, "error", err)
				return
			}
		}
		flusher.Flush()
	}
}

// CloseClient unsubscribes client and ends its stream. Safe to call twice.
func (hub *SSEHub) CloseClient(client *SSEClient) {
	client.once.Do(func() {
		hub.mu.Lock()
		for channel := range client.channels {
			hub.dropLocked(client, channel)
		}
		close(client.done)
		close(client.Outbound)
		hub.mu.Unlock()
	})
}
