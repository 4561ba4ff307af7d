package catalog

import (
	"testing"
	"time"
)

func TestParseEnvelope(t *testing.T) {
	data := []byte(`{"type":"PRICE_UPDATE","payload":{"productId":"1","newPrice":9.5,"currency":"USD","change":-10.0}}`)

	env, err := ParseEnvelope(data)
	if err != nil {
		t.Fatalf("ParseEnvelope() error: %v", err)
	}
	if env.Type != EventPriceUpdate {
		t.Errorf("expected type PRICE_UPDATE, got %s", env.Type)
	}

	update, err := env.DecodePriceUpdate()
	if err != nil {
		t.Fatalf("DecodePriceUpdate() error: %v", err)
	}
	if update.ProductID != "1" || update.NewPrice != 9.5 || update.Change != -10.0 {
		t.Errorf("unexpected payload: %+v", update)
	}
}

func TestParseEnvelopeMalformed(t *testing.T) {
	if _, err := ParseEnvelope([]byte("{not json")); err == nil {
		t.Error("expected error for malformed envelope")
	}
}

func TestDecodePayloadMalformed(t *testing.T) {
	env, err := ParseEnvelope([]byte(`{"type":"PRICE_UPDATE","payload":"nope"}`))
	if err != nil {
		t.Fatalf("ParseEnvelope() error: %v", err)
	}
	if _, err := env.DecodePriceUpdate(); err == nil {
		t.Error("expected error for malformed price update payload")
	}
}

func TestDecodeScraperStatusFormats(t *testing.T) {
	// Object form
	env, _ := ParseEnvelope([]byte(`{"type":"SCRAPER_STATUS","payload":{"status":"healthy"}}`))
	s, err := env.DecodeScraperStatus()
	if err != nil {
		t.Fatalf("DecodeScraperStatus() error: %v", err)
	}
	if !s.Healthy() {
		t.Error("expected healthy status")
	}

	// Bare string form
	env, _ = ParseEnvelope([]byte(`{"type":"SCRAPER_STATUS","payload":"degraded"}`))
	s, err = env.DecodeScraperStatus()
	if err != nil {
		t.Fatalf("DecodeScraperStatus() error: %v", err)
	}
	if s.Healthy() {
		t.Error("expected degraded status")
	}
}

func TestScraperStatusUnknownIsDegraded(t *testing.T) {
	for _, status := range []string{"degraded", "down", "weird", ""} {
		if (ScraperStatus{Status: status}).Healthy() {
			t.Errorf("status %q should not be healthy", status)
		}
	}
	if !(ScraperStatus{Status: "healthy"}).Healthy() {
		t.Error("literal healthy should be healthy")
	}
}

func TestNewAlertDecode(t *testing.T) {
	env, _ := ParseEnvelope([]byte(`{"type":"NEW_ALERT","payload":{"message":"Price dropped"}}`))
	alert, err := env.DecodeNewAlert()
	if err != nil {
		t.Fatalf("DecodeNewAlert() error: %v", err)
	}
	if alert.Message != "Price dropped" {
		t.Errorf("expected message %q, got %q", "Price dropped", alert.Message)
	}
}

func TestStatusLabel(t *testing.T) {
	cases := map[Status]string{
		StatusStable:    "Stable",
		StatusWarning:   "Warning",
		StatusAlert:     "Alert",
		Status("other"): "Unknown",
	}
	for status, want := range cases {
		if got := status.Label(); got != want {
			t.Errorf("Label(%s) = %q, want %q", status, got, want)
		}
	}
}

func TestPriceUpdateTimestampOptional(t *testing.T) {
	env, _ := ParseEnvelope([]byte(`{"type":"PRICE_UPDATE","payload":{"productId":"1","newPrice":1,"change":0}}`))
	update, err := env.DecodePriceUpdate()
	if err != nil {
		t.Fatalf("DecodePriceUpdate() error: %v", err)
	}
	if !update.UpdatedAt.IsZero() {
		t.Errorf("expected zero UpdatedAt, got %v", update.UpdatedAt)
	}

	env, _ = ParseEnvelope([]byte(`{"type":"PRICE_UPDATE","payload":{"productId":"1","newPrice":1,"change":0,"updatedAt":"2025-03-01T10:00:00Z"}}`))
	update, err = env.DecodePriceUpdate()
	if err != nil {
		t.Fatalf("DecodePriceUpdate() error: %v", err)
	}
	want := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	if !update.UpdatedAt.Equal(want) {
		t.Errorf("expected UpdatedAt %v, got %v", want, update.UpdatedAt)
	}
}
