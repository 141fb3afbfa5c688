// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package orcid reads a researcher's public identity record: name and
// affiliation, funding titles, and the declared works list with their
// external identifiers.
package orcid

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/scholar-profile/internal/httputil"
	"github.com/pdiddy/scholar-profile/pkg/types"
)

// orcidAPIBase is the public API root. Declared as a var so tests can
// substitute an httptest server.
var orcidAPIBase = "https://pub.orcid.org/v3.0"

// Client is a paced identity provider client. An access token widens the
// read scope; without one only public fields come back.
type Client struct {
	HTTP   *http.Client
	Config types.ORCIDConfig
	Pacer  *httputil.Pacer
}

// NewClient builds a Client on a pacer shared with the other outbound
// clients. A nil pacer disables pacing.
func NewClient(httpClient *http.Client, cfg types.ORCIDConfig, pacer *httputil.Pacer) *Client {
	return &Client{
		HTTP:   httpClient,
		Config: cfg,
		Pacer:  pacer,
	}
}

func (c *Client) get(ctx context.Context, orcidID, section string, out any) error {
	if err := c.Pacer.Wait(ctx); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/%s", orcidAPIBase, orcidID, section)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.Config.UserAgent)
	if c.Config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Config.Token)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return fmt.Errorf("identity provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("identity provider returned HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing identity response: %w", err)
	}
	return nil
}

// Identity record JSON structures (hyphenated keys per the provider).
type recordResponse struct {
	Person struct {
		Name struct {
			GivenNames jsonValue `json:"given-names"`
			FamilyName jsonValue `json:"family-name"`
		} `json:"name"`
		ResearcherURLs struct {
			URLs []struct {
				Name string    `json:"url-name"`
				URL  jsonValue `json:"url"`
			} `json:"researcher-url"`
		} `json:"researcher-urls"`
	} `json:"person"`
	Activities struct {
		Employments struct {
			Groups []struct {
				Summaries []struct {
					Summary employmentSummary `json:"employment-summary"`
				} `json:"summaries"`
			} `json:"affiliation-group"`
		} `json:"employments"`
	} `json:"activities-summary"`
}

type employmentSummary struct {
	Department   string `json:"department-name"`
	Organization struct {
		Name string `json:"name"`
	} `json:"organization"`
}

type jsonValue struct {
	Value string `json:"value"`
}

// FetchIdentity reads the researcher's name, current affiliation, and
// lab link. This is the pipeline's only fatal dependency: callers abort
// when it fails.
func (c *Client) FetchIdentity(ctx context.Context, orcidID string) (types.Identity, error) {
	var rec recordResponse
	if err := c.get(ctx, orcidID, "record", &rec); err != nil {
		return types.Identity{}, err
	}

	id := types.Identity{
		Name: strings.TrimSpace(rec.Person.Name.GivenNames.Value + " " + rec.Person.Name.FamilyName.Value),
	}

	// First listed employment is treated as the current affiliation.
	for _, g := range rec.Activities.Employments.Groups {
		for _, s := range g.Summaries {
			id.Institution = s.Summary.Organization.Name
			id.Department = s.Summary.Department
			break
		}
		if id.Institution != "" {
			break
		}
	}

	for _, u := range rec.Person.ResearcherURLs.URLs {
		if u.URL.Value != "" {
			id.LabURL = u.URL.Value
			break
		}
	}

	return id, nil
}

type fundingsResponse struct {
	Groups []struct {
		Summaries []struct {
			Title struct {
				Title jsonValue `json:"title"`
			} `json:"title"`
		} `json:"funding-summary"`
	} `json:"group"`
}

// FetchGrantTitles reads the titles of the researcher's declared
// fundings. These pass straight through to the stored profile, never
// through synthesis.
func (c *Client) FetchGrantTitles(ctx context.Context, orcidID string) ([]string, error) {
	var resp fundingsResponse
	if err := c.get(ctx, orcidID, "fundings", &resp); err != nil {
		return nil, err
	}

	var titles []string
	for _, g := range resp.Groups {
		for _, s := range g.Summaries {
			if t := strings.TrimSpace(s.Title.Title.Value); t != "" {
				titles = append(titles, t)
			}
		}
	}
	return titles, nil
}

type worksResponse struct {
	Groups []struct {
		Summaries []struct {
			Title struct {
				Title jsonValue `json:"title"`
			} `json:"title"`
			ExternalIDs struct {
				IDs []struct {
					Type  string `json:"external-id-type"`
					Value string `json:"external-id-value"`
				} `json:"external-id"`
			} `json:"external-ids"`
		} `json:"work-summary"`
	} `json:"group"`
}

// FetchWorks reads the declared works list. Each work keeps whichever of
// PMID and DOI the provider recorded; a work may carry neither.
func (c *Client) FetchWorks(ctx context.Context, orcidID string) ([]types.WorkRef, error) {
	var resp worksResponse
	if err := c.get(ctx, orcidID, "works", &resp); err != nil {
		return nil, err
	}

	var works []types.WorkRef
	for _, g := range resp.Groups {
		if len(g.Summaries) == 0 {
			continue
		}
		s := g.Summaries[0]
		work := types.WorkRef{Title: strings.TrimSpace(s.Title.Title.Value)}
		for _, id := range s.ExternalIDs.IDs {
			value := strings.TrimSpace(id.Value)
			switch strings.ToLower(id.Type) {
			case "pmid":
				work.PMID = value
			case "doi":
				work.DOI = value
			}
		}
		works = append(works, work)
	}
	return works, nil
}
