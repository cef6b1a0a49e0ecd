// Package bridge implements the Bridge Adapter of spec §4.9: an Engine
// implementation that forwards calculation requests to an external
// process hosting symbolic engines over HTTP.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/R3E-Network/consciousness-core/internal/apierrors"
	"github.com/R3E-Network/consciousness-core/internal/apitypes"
)

const defaultTimeout = 30 * time.Second

// Adapter implements registry.Engine by forwarding every call as an HTTP
// request to {baseURL}/engines/{id}/calculate (spec §4.9 "Contract"). No
// retries are attempted in the hot path (spec §4.9 "No retries").
type Adapter struct {
	id            string
	name          string
	requiredLevel int
	baseURL       string
	client        *http.Client
}

// New builds a Bridge Adapter for a single remote engine id, with a fixed
// per-call timeout (default 30s per spec §4.9).
func New(id, name string, requiredLevel int, baseURL string, timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Adapter{
		id:            id,
		name:          name,
		requiredLevel: requiredLevel,
		baseURL:       baseURL,
		client:        &http.Client{Timeout: timeout},
	}
}

// ID implements registry.Engine.
func (a *Adapter) ID() string { return a.id }

// Name implements registry.Engine.
func (a *Adapter) Name() string { return a.name }

// RequiredLevel implements registry.Engine.
func (a *Adapter) RequiredLevel() int { return a.requiredLevel }

// Calculate implements registry.Engine by POSTing the Engine Input to the
// remote process and classifying HTTP failures into domain errors (spec
// §4.9 "Contract": 4xx → InvalidInput, 5xx/connect error → BridgeError,
// timeout → TimeoutError).
func (a *Adapter) Calculate(ctx context.Context, input apitypes.EngineInput) (apitypes.EngineOutput, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return apitypes.EngineOutput{}, apierrors.New(apierrors.InvalidInput, "bridge: failed to encode request").
			WithDetail("cause", err.Error())
	}

	url := fmt.Sprintf("%s/engines/%s/calculate", a.baseURL, a.id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return apitypes.EngineOutput{}, apierrors.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Correlation-Id", uuid.NewString())

	resp, err := a.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return apitypes.EngineOutput{}, apierrors.NewTimeoutError("bridge:" + a.id)
		}
		if isTimeout(err) {
			return apitypes.EngineOutput{}, apierrors.NewTimeoutError("bridge:" + a.id)
		}
		return apitypes.EngineOutput{}, apierrors.NewBridgeError(0, err)
	}
	defer resp.Body.Close()

	var out apitypes.EngineOutput
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return apitypes.EngineOutput{}, apierrors.NewBridgeError(resp.StatusCode, err)
		}
		return out, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var env apitypes.ErrorEnvelope
		_ = json.NewDecoder(resp.Body).Decode(&env)
		return apitypes.EngineOutput{}, apierrors.New(apierrors.InvalidInput, env.ErrorMessage).
			WithDetail("status_code", resp.StatusCode).
			WithDetail("remote_error_kind", env.ErrorKind)
	default:
		return apitypes.EngineOutput{}, apierrors.NewBridgeError(resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
}

// Keywords implements registry.Engine by delegating to the metadata the
// remote process already embeds in the result tree under "keywords", when
// present. The bridge has no local projection logic of its own since the
// remote process owns the result shape.
func (a *Adapter) Keywords(output apitypes.EngineOutput) []string {
	raw, ok := output.Result["keywords"]
	if !ok {
		return nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func isTimeout(err error) bool {
	type timeouter interface{ Timeout() bool }
	if te, ok := err.(timeouter); ok {
		return te.Timeout()
	}
	return false
}
