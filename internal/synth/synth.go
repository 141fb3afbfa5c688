// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synth calls the external synthesis capability that turns
// assembled evidence into a structured research profile. The payload is
// treated as opaque: validity and attempt metadata come from the service
// and are reported, never acted on here.
package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pdiddy/scholar-profile/internal/httputil"
	"github.com/pdiddy/scholar-profile/pkg/types"
)

// Backend abstracts the synthesis capability so tests can supply a mock.
type Backend interface {
	Synthesize(ctx context.Context, req types.SynthesisRequest) (types.SynthesisResult, error)
}

// HTTPBackend posts the assembled evidence to a synthesis service
// endpoint and returns its structured response.
type HTTPBackend struct {
	HTTP   *http.Client
	Config types.SynthesisConfig
}

// Synthesize sends one synthesis request. The service handles its own
// retry/validation loop; whatever it returns, including an invalid or
// empty result, is passed through.
func (b *HTTPBackend) Synthesize(ctx context.Context, sreq types.SynthesisRequest) (types.SynthesisResult, error) {
	payload, err := json.Marshal(sreq)
	if err != nil {
		return types.SynthesisResult{}, fmt.Errorf("marshaling synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.Config.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return types.SynthesisResult{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", b.Config.UserAgent)
	if b.Config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.Config.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, b.HTTP, req, 0)
	if err != nil {
		return types.SynthesisResult{}, fmt.Errorf("synthesis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.SynthesisResult{}, fmt.Errorf("synthesis service returned HTTP %d", resp.StatusCode)
	}

	var result types.SynthesisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return types.SynthesisResult{}, fmt.Errorf("parsing synthesis response: %w", err)
	}
	return result, nil
}
