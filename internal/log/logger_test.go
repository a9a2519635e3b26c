package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestConfigureAttachesServiceField(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "golab-test"})

	logger := WithComponent("unit")
	logger.Info().Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if entry["service"] != "golab-test" {
		t.Errorf("service = %v, want golab-test", entry["service"])
	}
	if entry["component"] != "unit" {
		t.Errorf("component = %v, want unit", entry["component"])
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-123")
	if got := RequestIDFromContext(ctx); got != "req-123" {
		t.Fatalf("RequestIDFromContext = %q, want req-123", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Fatalf("empty context should yield empty request ID, got %q", got)
	}
}

func TestWithContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Output: &buf})

	ctx := ContextWithRequestID(context.Background(), "abc")
	tagged := WithContext(ctx, Base())
	tagged.Info().Msg("tagged")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if entry["request_id"] != "abc" {
		t.Errorf("request_id = %v, want abc", entry["request_id"])
	}
}
