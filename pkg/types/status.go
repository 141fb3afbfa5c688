// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Stage identifies how far a pipeline run has progressed.
type Stage string

const (
	StageStarting             Stage = "starting"
	StageFetchingORCID        Stage = "fetching_orcid"
	StageFetchingPublications Stage = "fetching_publications"
	StageMiningMethods        Stage = "mining_methods"
	StageSynthesizing         Stage = "synthesizing"
	StageComplete             Stage = "complete"
	StageError                Stage = "error"
)

// PipelineStatus is the latest progress report for one user's run. It is
// ephemeral: stored in process memory for polling, never persisted.
type PipelineStatus struct {
	// Stage is the current pipeline stage.
	Stage Stage `json:"stage"`

	// Message is a human-readable description of the stage.
	Message string `json:"message"`

	// Warnings accumulates non-fatal issues across stages.
	Warnings []string `json:"warnings,omitempty"`

	// Error is set only when Stage is StageError.
	Error string `json:"error,omitempty"`

	// Result summarizes the outcome once Stage is StageComplete.
	Result *RunSummary `json:"result,omitempty"`
}

// RunSummary is the condensed outcome of a completed run.
type RunSummary struct {
	Publications   int  `json:"publications"`
	WithAbstract   int  `json:"with_abstract"`
	WithMethods    int  `json:"with_methods"`
	ProfileVersion int  `json:"profile_version"`
	SynthesisValid bool `json:"synthesis_valid"`
}
