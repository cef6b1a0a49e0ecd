package apierrors

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestNewSetsHTTPStatus(t *testing.T) {
	tests := []struct {
		kind   Code
		status int
	}{
		{InvalidInput, http.StatusBadRequest},
		{EngineNotFound, http.StatusNotFound},
		{PhaseAccessDenied, http.StatusForbidden},
		{TimeoutError, http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		e := New(tt.kind, "msg")
		if e.HTTPStatus != tt.status {
			t.Errorf("kind %s: expected status %d, got %d", tt.kind, tt.status, e.HTTPStatus)
		}
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("boom")
	e := Wrap(CalculationError, "failed", cause)
	if !errors.Is(e, cause) {
		t.Fatal("expected errors.Is to find the wrapped cause")
	}
}

func TestWithDetailChains(t *testing.T) {
	e := New(InvalidInput, "bad").WithDetail("field", "x").WithDetail("reason", "y")
	if e.Details["field"] != "x" || e.Details["reason"] != "y" {
		t.Fatalf("unexpected details: %+v", e.Details)
	}
}

func TestPhaseAccessDeniedCarriesBothLevels(t *testing.T) {
	e := NewPhaseAccessDenied(1, 3)
	if e.Details["declared_level"] != 1 || e.Details["required_level"] != 3 {
		t.Fatalf("expected both levels in details, got %+v", e.Details)
	}
}

func TestToEnvelope(t *testing.T) {
	e := NewEngineNotFound("panchanga")
	env := e.ToEnvelope()
	if env.ErrorKind != "EngineNotFound" {
		t.Fatalf("expected EngineNotFound, got %s", env.ErrorKind)
	}
	if env.ErrorDetails["engine_id"] != "panchanga" {
		t.Fatalf("expected engine_id detail, got %+v", env.ErrorDetails)
	}
}

func TestErrorStringIncludesCauseWhenPresent(t *testing.T) {
	cause := errors.New("root cause")
	e := Wrap(BridgeError, "bridge failed", cause)
	msg := e.Error()
	if !strings.Contains(msg, "root cause") {
		t.Fatalf("expected error string to include the cause, got %q", msg)
	}
}
