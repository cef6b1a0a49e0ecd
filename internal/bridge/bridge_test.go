package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/R3E-Network/consciousness-core/internal/apierrors"
	"github.com/R3E-Network/consciousness-core/internal/apitypes"
)

func TestCalculateSucceedsOn2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(apitypes.EngineOutput{EngineID: "tarot", WitnessPrompt: "ok"})
	}))
	defer srv.Close()

	a := New("tarot", "Tarot", 2, srv.URL, time.Second)
	out, err := a.Calculate(context.Background(), apitypes.EngineInput{EngineID: "tarot"})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if out.WitnessPrompt != "ok" {
		t.Fatalf("expected witness prompt 'ok', got %q", out.WitnessPrompt)
	}
}

func TestCalculateClassifies4xxAsInvalidInput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(apitypes.ErrorEnvelope{ErrorKind: "InvalidInput", ErrorMessage: "bad request"})
	}))
	defer srv.Close()

	a := New("tarot", "Tarot", 2, srv.URL, time.Second)
	_, err := a.Calculate(context.Background(), apitypes.EngineInput{EngineID: "tarot"})
	svcErr, ok := err.(*apierrors.Error)
	if !ok {
		t.Fatalf("expected *apierrors.Error, got %T (%v)", err, err)
	}
	if svcErr.Kind != apierrors.InvalidInput {
		t.Fatalf("expected InvalidInput, got %v", svcErr.Kind)
	}
}

func TestCalculateClassifies5xxAsBridgeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := New("tarot", "Tarot", 2, srv.URL, time.Second)
	_, err := a.Calculate(context.Background(), apitypes.EngineInput{EngineID: "tarot"})
	svcErr, ok := err.(*apierrors.Error)
	if !ok {
		t.Fatalf("expected *apierrors.Error, got %T (%v)", err, err)
	}
	if svcErr.Kind != apierrors.BridgeError {
		t.Fatalf("expected BridgeError, got %v", svcErr.Kind)
	}
}

func TestCalculateClassifiesTimeoutAsTimeoutError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := New("tarot", "Tarot", 2, srv.URL, 5*time.Millisecond)
	_, err := a.Calculate(context.Background(), apitypes.EngineInput{EngineID: "tarot"})
	svcErr, ok := err.(*apierrors.Error)
	if !ok {
		t.Fatalf("expected *apierrors.Error, got %T (%v)", err, err)
	}
	if svcErr.Kind != apierrors.TimeoutError {
		t.Fatalf("expected TimeoutError, got %v", svcErr.Kind)
	}
}

func TestKeywordsExtractsStringSliceFromResult(t *testing.T) {
	a := New("tarot", "Tarot", 2, "http://example.invalid", time.Second)
	out := apitypes.EngineOutput{Result: map[string]interface{}{
		"keywords": []interface{}{"freedom", "change"},
	}}
	kw := a.Keywords(out)
	if len(kw) != 2 || kw[0] != "freedom" || kw[1] != "change" {
		t.Fatalf("expected [freedom change], got %+v", kw)
	}
}

func TestKeywordsReturnsNilWhenAbsent(t *testing.T) {
	a := New("tarot", "Tarot", 2, "http://example.invalid", time.Second)
	if kw := a.Keywords(apitypes.EngineOutput{Result: map[string]interface{}{}}); kw != nil {
		t.Fatalf("expected nil keywords, got %+v", kw)
	}
}
