// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences a profile ingestion run: identity fetch,
// publication resolution, methods mining, synthesis, and persistence.
// Identity-provider failure is the only fatal condition; everything else
// degrades to warnings or sparse records.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/scholar-profile/pkg/types"
)

// IdentityClient reads the researcher's public identity record.
type IdentityClient interface {
	FetchIdentity(ctx context.Context, orcidID string) (types.Identity, error)
	FetchGrantTitles(ctx context.Context, orcidID string) ([]string, error)
	FetchWorks(ctx context.Context, orcidID string) ([]types.WorkRef, error)
}

// EntrezClient covers the abstract index, cross-reference, and full-text
// retrieval services.
type EntrezClient interface {
	FetchAbstracts(ctx context.Context, pmids []string) ([]types.AbstractRecord, error)
	FetchMethodsBatch(ctx context.Context, pmcids []string) ([]*string, []string, error)
	ConvertDOIs(ctx context.Context, dois []string) ([]types.IDConversion, error)
	ConvertPMIDs(ctx context.Context, pmids []string) ([]types.IDConversion, error)
}

// SynthesisBackend produces the structured profile from assembled
// evidence.
type SynthesisBackend interface {
	Synthesize(ctx context.Context, req types.SynthesisRequest) (types.SynthesisResult, error)
}

// Persister stores one run's publications and profile atomically.
type Persister interface {
	GetProfile(ctx context.Context, userID string) (*types.Profile, error)
	SaveRun(ctx context.Context, userID string, pubs []types.Publication, p *types.Profile) (int, error)
}

// Tracker records per-user progress for polling.
type Tracker interface {
	Set(userID string, update types.PipelineStatus)
}

// Pipeline wires the run's collaborators together.
type Pipeline struct {
	Identity IdentityClient
	Entrez   EntrezClient
	Synth    SynthesisBackend
	Store    Persister
	Tracker  Tracker
}

// Options configures one run.
type Options struct {
	// UserID keys persistence and status tracking.
	UserID string

	// ORCIDID is the researcher's identity-provider identifier.
	ORCIDID string

	// SkipMethods disables the deep-mining stage.
	SkipMethods bool

	// Progress, when supplied, fires synchronously at the start of the
	// identity, publication, mining, and synthesis stages. It must not
	// otherwise affect behavior.
	Progress func(stage types.Stage)
}

// RunResult is the outcome of a completed run.
type RunResult struct {
	Publications []types.Publication
	Profile      types.Profile
	Warnings     []string
	Summary      types.RunSummary
}

// sparseWorksThreshold is the declared-works count below which the run
// recommends enriching the identity record.
const sparseWorksThreshold = 5

// Run executes the full ingestion pipeline for one user. It either fully
// succeeds, with publications and profile persisted, or aborts on
// identity failure with nothing written.
func (p *Pipeline) Run(ctx context.Context, opts Options, w io.Writer) (*RunResult, error) {
	p.Tracker.Set(opts.UserID, types.PipelineStatus{
		Stage:    types.StageStarting,
		Message:  "starting profile run",
		Warnings: []string{},
	})

	var warnings []string
	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		warnings = append(warnings, msg)
		fmt.Fprintf(w, "warning: %s\n", msg)
	}

	// Identity fetch. The only fatal stage: an outage here aborts the
	// run with no writes.
	p.advance(opts, types.StageFetchingORCID)
	p.Tracker.Set(opts.UserID, types.PipelineStatus{
		Stage:   types.StageFetchingORCID,
		Message: "fetching identity record",
	})

	identity, grants, works, err := p.fetchIdentity(ctx, opts.ORCIDID)
	if err != nil {
		p.Tracker.Set(opts.UserID, types.PipelineStatus{
			Stage:   types.StageError,
			Message: "identity fetch failed",
			Error:   err.Error(),
		})
		return nil, fmt.Errorf("fetching identity: %w", err)
	}
	fmt.Fprintf(w, "identity: %s (%s)\n", identity.Name, formatAffiliation(identity))

	if len(works) < sparseWorksThreshold {
		warn("identity record lists only %d works; add works to the record to improve coverage", len(works))
	}

	// Publication resolution. Skipped entirely when no works are
	// declared; a profile can still be built from grants and priorities.
	var pubs []types.Publication
	if len(works) > 0 {
		p.advance(opts, types.StageFetchingPublications)
		p.Tracker.Set(opts.UserID, types.PipelineStatus{
			Stage:    types.StageFetchingPublications,
			Message:  "resolving publications",
			Warnings: warnings,
		})

		pubs, err = p.fetchPublications(ctx, opts.UserID, identity.Name, works, warn)
		if err != nil {
			warn("publication resolution failed: %v; continuing with partial records", err)
		}
		fmt.Fprintf(w, "resolved %d publications\n", len(pubs))

		if !opts.SkipMethods && len(pubs) > 0 {
			p.advance(opts, types.StageMiningMethods)
			p.Tracker.Set(opts.UserID, types.PipelineStatus{
				Stage:    types.StageMiningMethods,
				Message:  "mining methods sections",
				Warnings: warnings,
			})
			p.mineMethods(ctx, pubs, warn)
		}
	}

	// Synthesis. The orchestrator performs no retries and accepts
	// whatever comes back; an empty or invalid result still persists.
	p.advance(opts, types.StageSynthesizing)
	p.Tracker.Set(opts.UserID, types.PipelineStatus{
		Stage:    types.StageSynthesizing,
		Message:  "synthesizing profile",
		Warnings: warnings,
	})

	existing, err := p.Store.GetProfile(ctx, opts.UserID)
	if err != nil {
		warn("reading existing profile: %v", err)
	}
	var priorities string
	if existing != nil {
		priorities = existing.Priorities
	}

	request := types.SynthesisRequest{
		ResearcherName: identity.Name,
		Affiliation:    formatAffiliation(identity),
		GrantTitles:    grants,
		Priorities:     ParsePriorities(priorities),
		Publications:   pubs,
	}

	result, err := p.Synth.Synthesize(ctx, request)
	if err != nil {
		warn("synthesis failed: %v; storing profile with empty synthesis fields", err)
		result = types.SynthesisResult{}
	} else if !result.Valid {
		warn("synthesis returned an invalid result; storing profile with its fields as-is")
	}

	// Persistence: publications replaced wholesale and the profile
	// upserted at version+1, both in one transaction.
	abstracts := make([]string, len(pubs))
	for i, pub := range pubs {
		abstracts[i] = pub.Abstract
	}

	profile := types.Profile{
		UserID:           opts.UserID,
		Summary:          result.Summary,
		ResearchAreas:    result.ResearchAreas,
		Techniques:       result.Techniques,
		ModelSystems:     result.ModelSystems,
		KeyQuestions:     result.KeyQuestions,
		FutureDirections: result.FutureDirections,
		GrantTitles:      grants,
		AbstractsHash:    AbstractsHash(abstracts),
		Priorities:       priorities,
		GeneratedAt:      time.Now().UTC(),
	}

	version, err := p.Store.SaveRun(ctx, opts.UserID, pubs, &profile)
	if err != nil {
		return p.fail(opts.UserID, fmt.Errorf("storing run: %w", err))
	}
	profile.Version = version

	summary := types.RunSummary{
		Publications:   len(pubs),
		ProfileVersion: version,
		SynthesisValid: result.Valid,
	}
	for _, pub := range pubs {
		if pub.Abstract != "" {
			summary.WithAbstract++
		}
		if pub.MethodsText != nil {
			summary.WithMethods++
		}
	}

	p.Tracker.Set(opts.UserID, types.PipelineStatus{
		Stage:    types.StageComplete,
		Message:  fmt.Sprintf("profile version %d stored", version),
		Warnings: warnings,
		Result:   &summary,
	})
	fmt.Fprintf(w, "complete: %d publications, profile version %d\n", len(pubs), version)

	return &RunResult{
		Publications: pubs,
		Profile:      profile,
		Warnings:     warnings,
		Summary:      summary,
	}, nil
}

// advance fires the progress callback for a stage when one is supplied.
func (p *Pipeline) advance(opts Options, stage types.Stage) {
	if opts.Progress != nil {
		opts.Progress(stage)
	}
}

func (p *Pipeline) fail(userID string, err error) (*RunResult, error) {
	p.Tracker.Set(userID, types.PipelineStatus{
		Stage:   types.StageError,
		Message: "pipeline failed",
		Error:   err.Error(),
	})
	return nil, err
}

// fetchIdentity reads the identity record, grant titles, and declared
// works. Any failure here is fatal for the run.
func (p *Pipeline) fetchIdentity(ctx context.Context, orcidID string) (types.Identity, []string, []types.WorkRef, error) {
	identity, err := p.Identity.FetchIdentity(ctx, orcidID)
	if err != nil {
		return types.Identity{}, nil, nil, err
	}
	grants, err := p.Identity.FetchGrantTitles(ctx, orcidID)
	if err != nil {
		return types.Identity{}, nil, nil, err
	}
	works, err := p.Identity.FetchWorks(ctx, orcidID)
	if err != nil {
		return types.Identity{}, nil, nil, err
	}
	return identity, grants, works, nil
}

// fetchPublications partitions works by identifier, resolves DOI-only
// entries, and fetches abstracts for every known PMID. Works whose DOI
// never resolves still yield a minimal record so provenance and counts
// survive.
func (p *Pipeline) fetchPublications(ctx context.Context, userID, researcher string, works []types.WorkRef, warn func(string, ...any)) ([]types.Publication, error) {
	var pmids []string
	var doiOnly []types.WorkRef
	pmidTitle := make(map[string]string)

	for _, work := range works {
		switch {
		case work.PMID != "":
			pmids = append(pmids, work.PMID)
			pmidTitle[work.PMID] = work.Title
		case work.DOI != "":
			doiOnly = append(doiOnly, work)
		}
	}

	// Minimal retained records for works that never reach the abstract
	// index: empty abstract, middle authorship, identifiers preserved.
	var minimal []types.Publication

	if len(doiOnly) > 0 {
		dois := make([]string, len(doiOnly))
		for i, work := range doiOnly {
			dois[i] = work.DOI
		}
		conversions, err := p.Entrez.ConvertDOIs(ctx, dois)
		if err != nil {
			warn("resolving DOIs: %v; keeping minimal records", err)
			conversions = nil
		}
		for i, work := range doiOnly {
			var conv types.IDConversion
			if i < len(conversions) {
				conv = conversions[i]
			}
			if conv.Err == "" && conv.PMID != "" {
				pmids = append(pmids, conv.PMID)
				pmidTitle[conv.PMID] = work.Title
				continue
			}
			minimal = append(minimal, types.Publication{
				UserID:         userID,
				DOI:            work.DOI,
				Title:          work.Title,
				AuthorPosition: types.PositionMiddle,
			})
		}
	}

	records, err := p.Entrez.FetchAbstracts(ctx, pmids)
	if err != nil {
		// Degrade every PMID to a minimal record rather than dropping
		// the works.
		for _, pmid := range pmids {
			minimal = append(minimal, types.Publication{
				UserID:         userID,
				PMID:           pmid,
				Title:          pmidTitle[pmid],
				AuthorPosition: types.PositionMiddle,
			})
		}
		return minimal, err
	}

	byPMID := make(map[string]types.AbstractRecord, len(records))
	for _, rec := range records {
		byPMID[rec.PMID] = rec
	}

	var pubs []types.Publication
	for _, pmid := range pmids {
		rec, ok := byPMID[pmid]
		if !ok {
			pubs = append(pubs, types.Publication{
				UserID:         userID,
				PMID:           pmid,
				Title:          pmidTitle[pmid],
				AuthorPosition: types.PositionMiddle,
			})
			continue
		}
		title := rec.Title
		if title == "" {
			title = pmidTitle[pmid]
		}
		pubs = append(pubs, types.Publication{
			UserID:         userID,
			PMID:           rec.PMID,
			PMCID:          rec.PMCID,
			DOI:            rec.DOI,
			Title:          title,
			Journal:        rec.Journal,
			Year:           rec.Year,
			AuthorPosition: authorPosition(rec.Authors, researcher),
			Abstract:       rec.Abstract,
		})
	}

	return append(pubs, minimal...), nil
}

// mineMethods resolves missing PMCIDs, batch-fetches methods text for
// the union of known and resolved PMCIDs, and attaches results onto the
// matching records. Failures here degrade to warnings: mining is
// optional enrichment, not a gate.
func (p *Pipeline) mineMethods(ctx context.Context, pubs []types.Publication, warn func(string, ...any)) {
	var unresolved []string
	unresolvedIdx := make(map[string]int)
	for i, pub := range pubs {
		if pub.PMCID == "" && pub.PMID != "" {
			unresolved = append(unresolved, pub.PMID)
			unresolvedIdx[pub.PMID] = i
		}
	}

	if len(unresolved) > 0 {
		conversions, err := p.Entrez.ConvertPMIDs(ctx, unresolved)
		if err != nil {
			warn("resolving full-text identifiers: %v", err)
		}
		for i, conv := range conversions {
			if i >= len(unresolved) || conv.Err != "" || conv.PMCID == "" {
				// No open-access full text, or resolution failed; both
				// simply mean no mining for this item.
				continue
			}
			pubs[unresolvedIdx[unresolved[i]]].PMCID = conv.PMCID
		}
	}

	var pmcids []string
	pmcidIdx := make(map[string]int)
	for i, pub := range pubs {
		if pub.PMCID != "" {
			pmcids = append(pmcids, pub.PMCID)
			pmcidIdx[strings.ToLower(pub.PMCID)] = i
		}
	}
	if len(pmcids) == 0 {
		return
	}

	texts, fetchWarnings, err := p.Entrez.FetchMethodsBatch(ctx, pmcids)
	for _, fw := range fetchWarnings {
		warn("%s", fw)
	}
	if err != nil {
		warn("methods mining failed: %v; continuing without methods text", err)
		return
	}

	for i, text := range texts {
		if text == nil {
			continue
		}
		if idx, ok := pmcidIdx[strings.ToLower(pmcids[i])]; ok {
			pubs[idx].MethodsText = text
		}
	}
}
