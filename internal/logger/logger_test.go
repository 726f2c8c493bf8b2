package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestNew_EmitsServiceField(t *testing.T) {
	log := New("relief-core")

	var buf bytes.Buffer
	log = log.Output(&buf)
	log.Info().Msg("hello")

	var payload map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if payload["service"] != "relief-core" {
		t.Fatalf("missing service field: %v", payload)
	}
	if payload["message"] != "hello" {
		t.Fatalf("missing message: %v", payload)
	}
}

func TestNew_ErrorWithStack(t *testing.T) {
	log := New("relief-core")

	var buf bytes.Buffer
	log = log.Output(&buf)
	log.Error().Stack().Err(errors.New("boom")).Msg("failed")

	var payload map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if _, ok := payload["stack"]; !ok {
		t.Fatalf("expected stack field on error event: %v", payload)
	}
}
