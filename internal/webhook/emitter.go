// Package webhook delivers outbound events to a configured HTTP endpoint.
package webhook

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"resellhub-api/internal/model"
)

// Emitter POSTs outbound events to a single integration endpoint. Delivery
// is fire-and-forget on a background goroutine; a dead endpoint slows nothing
// down and loses only the event.
type Emitter struct {
	url    string
	client *http.Client
}

// NewEmitter creates an emitter. An empty URL yields a disabled emitter that
// logs and drops every event.
func NewEmitter(url string, timeout time.Duration) *Emitter {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Emitter{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether an endpoint is configured.
func (e *Emitter) Enabled() bool {
	return e.url != ""
}

// Emit sends the event without blocking the caller.
func (e *Emitter) Emit(event model.OutboundEvent) {
	if !e.Enabled() {
		log.Printf("[Webhook] No endpoint configured, dropping event %s", event.Name)
		return
	}
	go e.send(event)
}

func (e *Emitter) send(event model.OutboundEvent) {
	body := map[string]any{
		"event":     event.Name,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range event.Payload {
		body[k] = v
	}

	payload, err := json.Marshal(body)
	if err != nil {
		log.Printf("[Webhook] Failed to serialize event %s: %v", event.Name, err)
		return
	}

	resp, err := e.client.Post(e.url, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Printf("[Webhook] Failed to deliver event %s: %v", event.Name, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("[Webhook] Endpoint returned %d for event %s", resp.StatusCode, event.Name)
	}
}
