package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]string{"id": "abc"}, "req-1")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !envelope.Success || envelope.Error != nil {
		t.Fatalf("expected success envelope, got %+v", envelope)
	}
	if envelope.RequestID != "req-1" {
		t.Fatalf("expected request id echoed, got %q", envelope.RequestID)
	}
}

func TestFailEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Fail(rec, http.StatusConflict, "paid_locked", "invoice is terminally paid", "req-2")

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var envelope Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Success || envelope.Error == nil {
		t.Fatalf("expected failure envelope, got %+v", envelope)
	}
	if envelope.Error.Code != "paid_locked" {
		t.Fatalf("expected code paid_locked, got %q", envelope.Error.Code)
	}
}
