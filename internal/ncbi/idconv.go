// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ncbi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/scholar-profile/pkg/types"
)

// idconvResponse mirrors the ID converter JSON payload.
type idconvResponse struct {
	Records []idconvRecord `json:"records"`
}

type idconvRecord struct {
	PMID   string `json:"pmid"`
	PMCID  string `json:"pmcid"`
	DOI    string `json:"doi"`
	Status string `json:"status"`
	ErrMsg string `json:"errmsg"`
}

// ConvertDOIs resolves DOIs to PMID and PMCID. Results are in input
// order; a DOI the service could not resolve yields a record whose Err
// field is set, which is a valid non-fatal outcome.
func (c *Client) ConvertDOIs(ctx context.Context, dois []string) ([]types.IDConversion, error) {
	return c.convert(ctx, dois, func(rec idconvRecord) string { return rec.DOI })
}

// ConvertPMIDs resolves PMIDs to PMCID and DOI. A resolved record with no
// PMCID means the paper has no open-access full text; that too is a valid
// outcome, not an error.
func (c *Client) ConvertPMIDs(ctx context.Context, pmids []string) ([]types.IDConversion, error) {
	return c.convert(ctx, pmids, func(rec idconvRecord) string { return rec.PMID })
}

// convert batches ids through the converter service, matching each
// response record back to its input by the echoed identifier.
func (c *Client) convert(ctx context.Context, ids []string, echo func(idconvRecord) string) ([]types.IDConversion, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	results := make([]types.IDConversion, len(ids))
	position := make(map[string]int, len(ids))
	for i, id := range ids {
		position[strings.ToLower(strings.TrimSpace(id))] = i
		results[i] = types.IDConversion{Err: "no record returned"}
	}

	for _, batch := range chunk(ids, idconvBatchSize) {
		params := url.Values{
			"ids":    {strings.Join(batch, ",")},
			"format": {"json"},
		}

		body, err := c.get(ctx, idconvBase, params)
		if err != nil {
			return nil, fmt.Errorf("converting identifiers: %w", err)
		}

		var resp idconvResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("parsing converter response: %w", err)
		}

		for _, rec := range resp.Records {
			idx, ok := position[strings.ToLower(strings.TrimSpace(echo(rec)))]
			if !ok {
				continue
			}
			conv := types.IDConversion{
				PMID:  rec.PMID,
				PMCID: rec.PMCID,
				DOI:   rec.DOI,
			}
			if rec.Status == "error" || rec.ErrMsg != "" {
				conv.Err = rec.ErrMsg
				if conv.Err == "" {
					conv.Err = "conversion failed"
				}
			}
			results[idx] = conv
		}
	}

	return results, nil
}
