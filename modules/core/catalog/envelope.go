package catalog

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType identifies a push event delivered over the realtime channel
type EventType string

const (
	EventPriceUpdate   EventType = "PRICE_UPDATE"
	EventNewAlert      EventType = "NEW_ALERT"
	EventScraperStatus EventType = "SCRAPER_STATUS"
)

// Envelope is the wire frame for every push message.
// Payload stays raw until the type is known; unrecognized types are
// left for the dispatcher to ignore.
type Envelope struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// PriceUpdate is the payload of a PRICE_UPDATE event. UpdatedAt is the
// server-side observation time used for last-writer-wins reconciliation;
// servers that omit it get arrival-time semantics.
type PriceUpdate struct {
	ProductID string    `json:"productId"`
	NewPrice  float64   `json:"newPrice"`
	Currency  string    `json:"currency"`
	Change    float64   `json:"change"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// NewAlert is the payload of a NEW_ALERT event
type NewAlert struct {
	Message string `json:"message"`
}

// ScraperStatus is the payload of a SCRAPER_STATUS event
type ScraperStatus struct {
	Status string `json:"status"`
}

// Healthy reports whether the scraper fleet is fully operational.
// Anything other than the literal "healthy" is treated as degraded.
func (s ScraperStatus) Healthy() bool {
	return s.Status == "healthy"
}

// ParseEnvelope decodes a raw websocket frame into an Envelope
func ParseEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("malformed envelope: %w", err)
	}
	return env, nil
}

// DecodePriceUpdate decodes the payload of a PRICE_UPDATE envelope
func (e Envelope) DecodePriceUpdate() (PriceUpdate, error) {
	var p PriceUpdate
	if err := json.Unmarshal(e.Payload, &p); err != nil {
		return PriceUpdate{}, fmt.Errorf("malformed price update payload: %w", err)
	}
	return p, nil
}

// DecodeNewAlert decodes the payload of a NEW_ALERT envelope
func (e Envelope) DecodeNewAlert() (NewAlert, error) {
	var a NewAlert
	if err := json.Unmarshal(e.Payload, &a); err != nil {
		return NewAlert{}, fmt.Errorf("malformed alert payload: %w", err)
	}
	return a, nil
}

// DecodeScraperStatus decodes the payload of a SCRAPER_STATUS envelope.
// The payload may be either a bare string or an object with a status field.
func (e Envelope) DecodeScraperStatus() (ScraperStatus, error) {
	var s ScraperStatus
	if err := json.Unmarshal(e.Payload, &s); err == nil && s.Status != "" {
		return s, nil
	}
	var bare string
	if err := json.Unmarshal(e.Payload, &bare); err != nil {
		return ScraperStatus{}, fmt.Errorf("malformed scraper status payload: %w", err)
	}
	return ScraperStatus{Status: bare}, nil
}
