// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ncbi talks to the Entrez services: abstract retrieval by PMID,
// full-text retrieval by PMCID, and batch identifier cross-referencing.
package ncbi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pdiddy/scholar-profile/internal/httputil"
	"github.com/pdiddy/scholar-profile/pkg/types"
)

// Service base URLs. Declared as vars so tests can substitute httptest
// servers.
var (
	efetchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
	idconvBase = "https://www.ncbi.nlm.nih.gov/pmc/utils/idconv/v1.0/"
)

// Batch sizes per call. Full-text payloads are large, so methods batches
// are much smaller than abstract or conversion batches.
const (
	abstractBatchSize = 100
	methodsBatchSize  = 10
	idconvBatchSize   = 200
)

// Client is a paced Entrez client. All calls wait on the shared Pacer
// before going out and retry on HTTP 429.
type Client struct {
	HTTP   *http.Client
	Config types.EntrezConfig
	Pacer  *httputil.Pacer
}

// NewClient builds a Client on a pacer shared with the other outbound
// clients, so every call in a run obeys the same inter-call delay. A nil
// pacer disables pacing.
func NewClient(httpClient *http.Client, cfg types.EntrezConfig, pacer *httputil.Pacer) *Client {
	return &Client{
		HTTP:   httpClient,
		Config: cfg,
		Pacer:  pacer,
	}
}

// get performs one paced GET against base with the common Entrez
// parameters added. Any non-success status is an error; per-item
// problems inside a successful response are the caller's concern.
func (c *Client) get(ctx context.Context, base string, params url.Values) ([]byte, error) {
	if c.Config.Tool != "" {
		params.Set("tool", c.Config.Tool)
	}
	if c.Config.Email != "" {
		params.Set("email", c.Config.Email)
	}
	if c.Config.APIKey != "" {
		params.Set("api_key", c.Config.APIKey)
	}

	if err := c.Pacer.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Config.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return nil, fmt.Errorf("entrez request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("entrez returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}

// chunk splits ids into slices of at most size.
func chunk(ids []string, size int) [][]string {
	var chunks [][]string
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}
